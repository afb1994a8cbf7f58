package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/mzhdanov/bloglist/internal/auth/http"
	"github.com/mzhdanov/bloglist/internal/auth/identity"
	authservice "github.com/mzhdanov/bloglist/internal/auth/service"
	bloghttp "github.com/mzhdanov/bloglist/internal/blog/http"
	blogrepo "github.com/mzhdanov/bloglist/internal/blog/repository"
	blogservice "github.com/mzhdanov/bloglist/internal/blog/service"
	"github.com/mzhdanov/bloglist/internal/blog/stream"
	"github.com/mzhdanov/bloglist/internal/common/clock"
	"github.com/mzhdanov/bloglist/internal/common/config"
	commoncrypto "github.com/mzhdanov/bloglist/internal/common/crypto"
	"github.com/mzhdanov/bloglist/internal/common/db"
	commonhttp "github.com/mzhdanov/bloglist/internal/common/http"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	srv "github.com/mzhdanov/bloglist/internal/common/server"
	userhttp "github.com/mzhdanov/bloglist/internal/user/http"
	userrepo "github.com/mzhdanov/bloglist/internal/user/repository"
	userservice "github.com/mzhdanov/bloglist/internal/user/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "bloglist", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()

	users := userrepo.NewPgRepository(pool)
	blogs := blogrepo.NewPgRepository(pool)

	issuer := authservice.NewTokenIssuer(cfg.JWTSecret, idGenerator, cfg.AccessTokenTTL, clock.NewRealClock())
	auth := authservice.NewAuthService(users, hasher, issuer, log)
	resolver := identity.NewResolver(cfg.JWTSecret, users, log)

	hub := stream.NewHub(log)

	userSvc := userservice.NewService(users, hasher, idGenerator, log)
	blogSvc := blogservice.NewService(blogs, idGenerator, hub, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeUnknownEndpoint, "unknown endpoint", "")
	})
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/blogs/stream", hub.Handler())

	userhttp.NewHandler(userSvc, cfg.RequestTimeout, log).Register(mux)
	authhttp.NewHandler(auth, cfg.RequestTimeout, log).Register(mux)
	bloghttp.NewHandler(blogSvc, cfg.RequestTimeout, log).Register(mux, resolver)

	baseHandler := commonhttp.BuildBaseHandler(log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, baseHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("bloglist service: stopping event stream hub")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "bloglist", shutdownHooks)
}
