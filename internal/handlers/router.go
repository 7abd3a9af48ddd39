package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/thedreamteamconsultancy/workstatus/internal/middleware"
)

type RouterConfig struct {
	RateLimitRPM   int
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Handlers struct {
	Tasks   *TaskHandler
	Clients *ClientHandler
	Gems    *GemHandler
	Ledger  *LedgerHandler
	System  *SystemHandler
}

func NewRouter(cfg RouterConfig, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Gem-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", h.Tasks.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRPM > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRPM))
		}

		r.Get("/health", h.Tasks.HealthCheck)
		r.Get("/settings", h.System.Settings)
		r.Get("/version", h.System.Version)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.Tasks.ListTasks)
			r.Post("/", h.Tasks.PostTask)
			r.Get("/categorized", h.Tasks.CategorizedTasks)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Tasks.GetTaskByID)
				r.Patch("/", h.Tasks.UpdateTaskByID)
				r.Delete("/", h.Tasks.DeleteTaskByID)
				r.Post("/status", h.Tasks.UpdateStatus)
				r.Post("/verify", h.Tasks.VerifyTask)
				r.Post("/completed-quantity", h.Tasks.UpdateCompletedQuantity)
			})
		})

		r.Route("/me/tasks", func(r chi.Router) {
			r.Use(middleware.GemScope)
			r.Get("/", h.Tasks.MyTasks)
			r.Get("/categorized", h.Tasks.MyCategorizedTasks)
			r.Post("/{id}/status", h.Tasks.UpdateMyTaskStatus)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.Clients.ListClients)
			r.Post("/", h.Clients.PostClient)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Clients.GetClient)
				r.Put("/", h.Clients.UpdateClient)
				r.Delete("/", h.Clients.DeleteClient)
				r.Post("/marketing-costs", h.Clients.AddMarketingCost)
				r.Put("/travelling-charges", h.Clients.SetTravellingCharges)
				r.Get("/financials", h.Clients.Financials)
				r.Get("/progress", h.Clients.Progress)
				r.Get("/capacity", h.Clients.Capacity)
			})
		})

		r.Route("/gems", func(r chi.Router) {
			r.Get("/", h.Gems.ListGems)
			r.Post("/", h.Gems.PostGem)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Gems.GetGem)
				r.Put("/", h.Gems.UpdateGem)
				r.Delete("/", h.Gems.DeleteGem)
				r.Get("/stats", h.Gems.Stats)
			})
		})

		r.Route("/ledger", func(r chi.Router) {
			r.Get("/transactions", h.Ledger.ListTransactions)
			r.Post("/transactions", h.Ledger.PostTransaction)
			r.Put("/transactions/{id}", h.Ledger.UpdateTransaction)
			r.Delete("/transactions/{id}", h.Ledger.DeleteTransaction)
			r.Get("/categories", h.Ledger.ListCategories)
			r.Get("/summary", h.Ledger.Summary)
		})
	})

	return otelhttp.NewHandler(r, "workstatus.http")
}
