package http

import (
	"net/http"

	"github.com/rallypoint/scorekeeper/internal/config"
	"github.com/rallypoint/scorekeeper/internal/engine"
	"github.com/rallypoint/scorekeeper/internal/league"
	"github.com/rallypoint/scorekeeper/internal/metrics"
	"github.com/rallypoint/scorekeeper/internal/notifier"
	"github.com/rallypoint/scorekeeper/internal/pubsub"
)

// Server holds the dependencies for the HTTP surface.
type Server struct {
	Store          league.Store
	Engine         *engine.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Notifier       notifier.Notifier
	PubSub         pubsub.PubSubClient
	Cfg            config.Config
	Router         *http.ServeMux
}
