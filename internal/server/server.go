// Package server assembles the HTTP API: routing, middleware and lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/GameBoxBot_Go/internal/account"
	"github.com/osse101/GameBoxBot_Go/internal/box"
	"github.com/osse101/GameBoxBot_Go/internal/catalog"
	"github.com/osse101/GameBoxBot_Go/internal/command"
	"github.com/osse101/GameBoxBot_Go/internal/daily"
	"github.com/osse101/GameBoxBot_Go/internal/feed"
	"github.com/osse101/GameBoxBot_Go/internal/handler"
	"github.com/osse101/GameBoxBot_Go/internal/metrics"
	"github.com/osse101/GameBoxBot_Go/internal/middleware"
	"github.com/osse101/GameBoxBot_Go/internal/settings"
	"github.com/osse101/GameBoxBot_Go/internal/trade"
)

// Services are the operations exposed over HTTP
type Services struct {
	Accounts account.Service
	Boxes    box.Service
	Daily    daily.Service
	Trades   trade.Service
	Catalog  catalog.Service
	Settings settings.Service
	Commands command.Service
	Chat     handler.ChatRouter
}

// Options configure the listener and the cross-cutting middleware
type Options struct {
	Port               int
	Version            string
	TrustedProxies     []string
	CORSAllowedOrigins []string
	// Feed serves /api/v1/feed when set
	Feed      *feed.Hub
	Readiness []handler.ReadinessCheck
}

// Server owns the HTTP listener
type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter builds the chi router with every route and middleware.
// Middleware runs in the order registered, outermost first.
func NewRouter(opts Options, svc Services) chi.Router {
	r := chi.NewRouter()

	proxies := ParseTrustedProxies(opts.TrustedProxies)
	limiter := NewRateLimiter(RateLimitRequests, RateLimitWindow)

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logging)
	r.Use(metrics.Middleware)
	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.Handler(corsOptions(opts.CORSAllowedOrigins)))
	r.Use(RateLimitMiddleware(proxies, limiter))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Readiness...))
	r.Get("/version", handler.HandleVersion(opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/boxes", func(r chi.Router) {
			r.Post("/purchase", handler.HandlePurchaseBoxes(svc.Boxes))
			r.Post("/open", handler.HandleOpenBoxes(svc.Boxes))
		})

		r.Post("/daily/claim", handler.HandleClaimDaily(svc.Daily))

		r.Route("/trades", func(r chi.Router) {
			r.Get("/", handler.HandleListTrades(svc.Trades))
			r.Post("/", handler.HandleProposeTrade(svc.Trades))
			r.Post("/accept", handler.HandleAcceptTrade(svc.Trades))
			r.Post("/reject", handler.HandleRejectTrade(svc.Trades))
			r.Get("/stats", handler.HandleTradeStats(svc.Trades))
		})

		r.Route("/accounts/{username}", func(r chi.Router) {
			r.Get("/", handler.HandleGetProfile(svc.Accounts))
			r.Post("/reset", handler.HandleResetAccount(svc.Accounts))
			r.Post("/coins", handler.HandleAdjustCoins(svc.Accounts))
			r.Post("/boxes", handler.HandleAdjustBoxes(svc.Accounts))
		})
		r.Get("/leaderboard", handler.HandleLeaderboard(svc.Accounts))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", handler.HandleListCatalog(svc.Catalog))
			r.Post("/", handler.HandleUpsertCatalogItem(svc.Catalog))
			r.Get("/top", handler.HandleTopDropped(svc.Catalog))
			r.Get("/stats", handler.HandleCatalogStats(svc.Catalog))
			r.Route("/{id}", func(r chi.Router) {
				r.Put("/rarity", handler.HandleSetCustomRarity(svc.Catalog))
				r.Delete("/rarity", handler.HandleClearCustomRarity(svc.Catalog))
				r.Put("/disabled", handler.HandleSetDisabled(svc.Catalog))
			})
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/", handler.HandleGetConfig(svc.Settings))
			r.Put("/", handler.HandleReplaceConfig(svc.Settings))
			r.Put("/rarity-odds", handler.HandleUpdateRarityOdds(svc.Settings))
		})

		r.Route("/commands", func(r chi.Router) {
			r.Get("/", handler.HandleListCommands(svc.Commands))
			r.Post("/", handler.HandleCreateCommand(svc.Commands))
			r.Put("/{name}", handler.HandleUpdateCommand(svc.Commands))
			r.Delete("/{name}", handler.HandleDeleteCommand(svc.Commands))
		})

		r.Post("/chat/message", handler.HandleChatMessage(svc.Chat))

		if opts.Feed != nil {
			r.Get("/feed", feed.Handler(opts.Feed, originAllowed(opts.CORSAllowedOrigins)))
		} else {
			slog.Info(LogMsgFeedDisabled)
		}
	})

	return r
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID, "Retry-After"},
		MaxAge:         CORSMaxAge,
	}
}

// Handler returns the root handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start blocks serving HTTP until Stop is called
func (s *Server) Start() error {
	slog.Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx is done
func (s *Server) Stop(ctx context.Context) error {
	slog.Info(LogMsgServerStopping)
	return s.httpServer.Shutdown(ctx)
}
