// Package server Selene
//
// Selene is a single-process content store for a creator platform:
// accounts, uploads, comments, likes, tips and follows over an embedded
// database.
//
//     Schemes: http
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	mm "github.com/nocturna-net/selene/internal/middleware"
	"github.com/nocturna-net/selene/internal/metrics"
	"github.com/nocturna-net/selene/internal/service"
)

// Payloads travel base64-encoded in JSON bodies.
const maxBodySize = 16 << 20

const statsCacheTTL = time.Minute

type server struct {
	s       service.Service
	metrics metrics.Provider
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s service.Service, m metrics.Provider, r chi.Router, timeout time.Duration) {
	r.Use(
		loggerMiddleware,
		chimiddleware.StripSlashes,
		cors.AllowAll().Handler,
		chimiddleware.RequestID,
		chimiddleware.Recoverer,
		chimiddleware.Timeout(timeout),
		bodyLimiterMiddleware(maxBodySize),
	)

	srv := server{
		s:       s,
		metrics: m,
	}

	r.Get("/health", srv.health)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/accounts", srv.createAccount)
		r.Get("/accounts/{accountID}", srv.getAccount)
		r.Get("/accounts/{accountID}/metrics", mm.Cached(statsCacheTTL, srv.getAccountMetrics))
		r.Put("/accounts/{accountID}/follow", srv.toggleFollow)
		r.Get("/accounts/{accountID}/follow", srv.isFollowing)

		r.Post("/sessions", srv.login)
		r.Delete("/sessions/{sessionID}", srv.logout)

		r.Get("/feed", srv.listFeed)

		r.Post("/uploads", srv.createUpload)
		r.Get("/uploads/{uploadID}", srv.getUpload)
		r.Delete("/uploads/{uploadID}", srv.deleteUpload)
		r.Get("/uploads/{uploadID}/asset", srv.getUploadAsset)
		r.Post("/uploads/{uploadID}/views", srv.registerView)
		r.Put("/uploads/{uploadID}/like", srv.toggleLike)
		r.Post("/uploads/{uploadID}/comments", srv.postComment)
		r.Get("/uploads/{uploadID}/comments", srv.listComments)
		r.Post("/uploads/{uploadID}/tips", srv.sendTip)

		r.Get("/analytics", mm.Cached(statsCacheTTL, srv.getPlatformMetrics))

		r.Get("/export", srv.exportAll)
		r.Post("/import", srv.importLegacy)
		r.Post("/reset", srv.reset)
	})
}

func (s server) health(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
