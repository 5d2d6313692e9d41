package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jkaindl/fahrerportal/backend/internal/middleware"
)

// Routes assembles the API router. The passed middlewares (request ID,
// logging, CORS, body limit, rate limit) wrap everything; authn guards the
// /api/v1 subtree and the role middlewares gate the driver and admin groups.
func (s *Server) Routes(authn func(http.Handler) http.Handler, base ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	for _, mw := range base {
		r.Use(mw)
	}

	r.Get("/healthz", s.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authn)

		// Driver portal.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleDriver))

			r.Get("/my/tours", s.ListMyTours)
			r.Get("/my/tours/{tourID}", s.GetMyTour)

			r.Post("/my/work-records", s.SubmitWorkRecord)
			r.Get("/my/work-records", s.ListMyWorkRecords)
			r.Get("/my/work-records/{recordID}", s.GetMyWorkRecord)

			r.Post("/my/expenses", s.SubmitExpense)
			r.Get("/my/expenses", s.ListMyExpenses)
			r.Get("/my/expenses/{recordID}", s.GetMyExpense)

			r.Get("/my/statement", s.GetMyStatement)
			r.Post("/my/uploads", s.CreateUpload)

			r.Post("/tours/{tourID}/protocol/{phase}/session", s.StartWizardSession)
			r.Get("/wizard/{sessionID}", s.GetWizardSession)
			r.Patch("/wizard/{sessionID}", s.ApplyWizardInput)
			r.Post("/wizard/{sessionID}/next", s.WizardNext)
			r.Post("/wizard/{sessionID}/prev", s.WizardPrev)
			r.Post("/wizard/{sessionID}/submit", s.WizardSubmit)
		})

		// Admin dashboard.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Post("/tours", s.CreateTour)
			r.Get("/tours", s.ListTours)
			r.Get("/tours/{tourID}", s.GetTour)
			r.Put("/tours/{tourID}/driver", s.AssignTourDriver)
			r.Put("/tours/{tourID}/distance", s.SetTourDistance)
			r.Get("/tours/{tourID}/protocol/{phase}", s.GetProtocol)

			r.Get("/work-records/pending", s.ListPendingWorkRecords)
			r.Put("/work-records/{recordID}/status", s.SetWorkRecordStatus)

			r.Get("/expenses/pending", s.ListPendingExpenses)
			r.Put("/expenses/{recordID}/status", s.SetExpenseStatus)

			r.Get("/files/*", s.GetFileURL)

			r.Get("/drivers/{driverID}/statement", s.GetDriverStatement)
			r.Put("/drivers/{driverID}/surplus/{month}", s.PutSurplusOverride)
			r.Delete("/drivers/{driverID}/surplus/{month}", s.DeleteSurplusOverride)
		})
	})

	return r
}
