package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/wagewise-hr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/wagewise-hr/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(JWTService jwt.Service, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "wagewise-payroll"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll", func(r chi.Router) {
				r.Route("/cycles", func(r chi.Router) {
					r.Get("/", payrollHandler.ListCycles)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", payrollHandler.CreateCycle)
					})

					r.Route("/{cycleID}", func(r chi.Router) {
						r.Get("/payslips", payrollHandler.ListPayslips)
						r.Get("/validate", payrollHandler.ValidateCycleData)

						// Admin only
						r.Group(func(r chi.Router) {
							r.Use(middleware.AdminOnly)
							r.Delete("/", payrollHandler.DeleteCycle)
							r.Post("/lock", payrollHandler.LockCycle)
							r.Post("/rebuild", payrollHandler.RebuildCycle)
						})
					})
				})

				r.Route("/payslips/{payslipID}", func(r chi.Router) {
					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/payments", payrollHandler.AddPayment)
					})
				})
			})
		})
	})

	return r
}
