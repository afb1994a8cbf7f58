package http

import (
	"net/http"

	"github.com/mzhdanov/bloglist/internal/common/constants"
	"github.com/mzhdanov/bloglist/internal/common/httpmetrics"
	"github.com/mzhdanov/bloglist/internal/common/logger"
)

// BuildBaseHandler wraps the application mux with the ambient middleware
// stack: security headers, panic recovery, trace IDs, body size limits and
// request metrics, outermost first.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware

	return securityHeaders(recovery(traceID(maxRequestSize(metrics.Wrap(handler)))))
}
