package router

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"mnps-api/internal/config"
	"mnps-api/internal/handler"
	"mnps-api/internal/middleware"
	"mnps-api/internal/model"
)

type streamer interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	System     *handler.SystemHandler
	Auth       *handler.AuthHandler
	Results    *handler.ResultsHandler
	Broadcasts *handler.BroadcastsHandler
	Docs       *handler.DocsHandler
	Stream     streamer
}

func New(cfg *config.Config, logger *slog.Logger, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.System.Root)
	r.Get("/health", h.System.Health)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/docs", h.Docs.SwaggerUI)

	// Long-lived; kept outside the request timeout.
	if h.Stream != nil {
		r.With(middleware.TokenFromQuery, authMiddleware.RequireAuth).Get("/broadcasts/stream", h.Stream.ServeWS)
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth, authMiddleware.RequireRoles(model.RoleAdmin)).Post("/register", h.Auth.Register)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		staff := authMiddleware.RequireRoles(model.RoleAdmin, model.RoleTeacher)

		api.With(authMiddleware.RequireAuth).Get("/results", h.Results.List)
		api.With(authMiddleware.RequireAuth, staff).Post("/results", h.Results.Create)
		api.With(authMiddleware.RequireAuth).Get("/broadcasts", h.Broadcasts.List)
		api.With(authMiddleware.RequireAuth, staff).Post("/broadcasts", h.Broadcasts.Create)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeNotFound(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	root := chi.NewRouter()
	root.Use(middleware.Recovery)
	root.Use(middleware.Logging(logger))
	root.Use(middleware.CORS(middleware.CORSOptions{Origins: cfg.CORSOrigins, Methods: routeMethods(r)}))
	root.Use(middleware.SecurityHeaders)
	root.Mount("/", r)

	return root
}

// routeMethods lists the verbs registered on routes.
func routeMethods(routes chi.Routes) []string {
	seen := map[string]bool{}
	_ = chi.Walk(routes, func(method string, _ string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method] = true
		return nil
	})

	methods := make([]string, 0, len(seen))
	for method := range seen {
		methods = append(methods, method)
	}
	slices.Sort(methods)
	return methods
}
