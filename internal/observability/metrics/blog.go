package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BlogsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_blogs_created_total",
			Help: "Total number of blogs created",
		},
	)

	BlogsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_blogs_deleted_total",
			Help: "Total number of blogs deleted",
		},
	)

	BlogLikesUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloglist_blog_likes_updated_total",
			Help: "Total number of like-count updates",
		},
	)

	StreamClientsConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloglist_stream_clients_connected",
			Help: "Number of connected blog event stream clients",
		},
	)
)
