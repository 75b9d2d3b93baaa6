package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Hammad-111/HamSync-sub000/internal/aggregate"
	"github.com/Hammad-111/HamSync-sub000/internal/auth"
	authmw "github.com/Hammad-111/HamSync-sub000/internal/auth/middleware"
	"github.com/Hammad-111/HamSync-sub000/internal/config"
	"github.com/Hammad-111/HamSync-sub000/internal/logx"
	"github.com/Hammad-111/HamSync-sub000/internal/merit"
	"github.com/Hammad-111/HamSync-sub000/internal/rbac"
	"github.com/Hammad-111/HamSync-sub000/internal/results"
	syncx "github.com/Hammad-111/HamSync-sub000/internal/sync"
)

// Deps are the collaborators the router mounts. DB and Events may be nil
// (memory mode); routes that need them are then left out.
type Deps struct {
	Config config.Config
	Auth   *authmw.AuthService
	Calc   *merit.Calculator
	Store  results.Store
	DB     *sql.DB
	Events *syncx.EventRepo
}

func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logx.Log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB != nil {
			if err := d.DB.PingContext(r.Context()); err != nil {
				http.Error(w, "db unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	// Calculation is public: it is pure and holds no user data.
	r.Get("/profiles", ListProfilesHandler())
	r.Get("/profiles/{institution}", GetProfileFamilyHandler())
	r.Post("/aggregate", CalculateHandler(d.Calc, ""))
	r.Post("/aggregate/forward", CalculateHandler(d.Calc, aggregate.ModeForward))
	r.Post("/aggregate/target", CalculateHandler(d.Calc, aggregate.ModeTarget))

	if d.DB != nil {
		if d.Config.EnableLocalAuth {
			r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.DB))
		}
		r.Post("/auth/guest", auth.GuestLoginHandler(d.Auth, d.DB, d.Config))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))
		if d.DB != nil {
			pr.Use(authmw.AttachRoleFromDB(d.DB, d.Config.Mode == config.ModeOffline))
		}

		pr.With(rbac.Require(rbac.PermResultsSave)).
			Post("/results", SaveResultHandler(d.Calc, d.Store))
		pr.With(rbac.RequireAny(rbac.PermResultsViewOwn, rbac.PermResultsViewAll)).
			Get("/results", ListResultsHandler(d.Store))
		pr.With(rbac.RequireAny(rbac.PermResultsViewOwn, rbac.PermResultsViewAll)).
			Get("/results/{id}", GetResultHandler(d.Store))
		pr.With(rbac.RequireAny(rbac.PermResultsDelOwn, rbac.PermResultsDelAny)).
			Delete("/results/{id}", DeleteResultHandler(d.Store))

		if d.DB != nil {
			pr.With(rbac.Require(rbac.PermUsersList)).
				Get("/users", ListUsersHandler(d.DB))
			pr.With(rbac.Require(rbac.PermUsersBulk)).
				Post("/users/bulk", BulkUpsertUsersHandler(d.DB))
			pr.With(rbac.Require(rbac.PermChangePassword)).
				Post("/users/change-password", ChangePasswordHandler(d.DB))
		}
		if d.Events != nil {
			pr.With(rbac.Require(rbac.PermEventsRead)).
				Get("/events", ListEventsHandler(d.Events))
		}
	})
	return r
}
