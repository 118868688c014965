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

func NewServer(store league.Store, gameEngine *engine.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, notifierClient notifier.Notifier, pubsubClient pubsub.PubSubClient, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Engine:         gameEngine,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Notifier:       notifierClient,
		PubSub:         pubsubClient,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), requestMiddleware))
	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), requestMiddleware))
	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), requestMiddleware))
	s.Router.Handle("GET /locations", Chain(s.ListLocationsHandler(), requestMiddleware))
	s.Router.Handle("POST /locations", Chain(s.CreateLocationHandler(), requestMiddleware))
	s.Router.Handle("POST /games", Chain(s.CreateGameHandler(), requestMiddleware))
	s.Router.Handle("GET /games/{id}", Chain(s.GetGameHandler(), requestMiddleware))
	s.Router.Handle("POST /games/{id}/events", Chain(s.RecordEventHandler(), requestMiddleware))
	s.Router.Handle("POST /pubsub/game-completed", Chain(s.GameCompletedHandler(), requestMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
