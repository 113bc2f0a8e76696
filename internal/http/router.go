package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tcmartins/payable/internal/http/installment"
	"github.com/tcmartins/payable/internal/http/obligation"
	"github.com/tcmartins/payable/internal/http/reconcile"
	"github.com/tcmartins/payable/internal/http/undo"
)

func New(
	installmentsV1 *installment.Handler,
	obligationsV1 *obligation.Handler,
	reconcileV1 *reconcile.Handler,
	undoV1 *undo.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/installments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			installmentsV1.Routes(r)
		})

		r.Route("/obligations", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			obligationsV1.Routes(r)
		})

		r.Route("/reconciliation", reconcileV1.Routes)

		r.Route("/undo", undoV1.Routes)
	})

	return router
}
