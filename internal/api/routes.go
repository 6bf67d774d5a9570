package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. tenantMW may be nil in tests that
// bind tenant context themselves.
func SetupRoutes(h *Handlers, tenantMW func(http.Handler) http.Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if tenantMW != nil {
		r.Use(tenantMW)
	}

	// Health check (no auth required)
	if h.health != nil {
		r.Get("/health", h.health.HandleHealth)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.ListContacts)
			r.Post("/", h.CreateContact)

			r.Post("/import", h.ImportContacts)
			r.Route("/import/jobs", func(r chi.Router) {
				r.Post("/", h.StartImportJob)
				r.Get("/{jobID}", h.GetImportJob)
				r.Get("/{jobID}/result", h.GetImportJobResult)
			})

			r.Route("/{contactID}", func(r chi.Router) {
				r.Get("/", h.GetContact)
				r.Put("/", h.UpdateContact)
				r.Delete("/", h.DeleteContact)
			})
		})

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", h.ListCampaigns)
			r.Post("/", h.CreateCampaign)

			r.Route("/{campaignID}", func(r chi.Router) {
				r.Get("/", h.GetCampaign)
				r.Put("/", h.UpdateCampaign)
				r.Delete("/", h.DeleteCampaign)
				r.Post("/status", h.TransitionCampaign)
			})
		})

		r.Route("/drafts/{draftKey}", func(r chi.Router) {
			r.Get("/", h.GetDraft)
			r.Put("/", h.SaveDraft)
			r.Delete("/", h.DeleteDraft)
		})
	})

	return r
}
