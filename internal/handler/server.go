// Package handler implements the HTTP handlers for the TowTrack API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, client.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/towtrack/backend/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, actor domain.Actor, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, actor domain.Actor, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, patch domain.TripPatch) (domain.Trip, error)
	Review(ctx context.Context, actor domain.Actor, id uuid.UUID, action domain.ReviewAction, adminNotes string) (domain.Trip, error)
}

// ClientServicer defines the business operations the client handlers depend on.
type ClientServicer interface {
	Create(ctx context.Context, actor domain.Actor, client domain.Client) (domain.Client, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.Client, error)
	List(ctx context.Context, actor domain.Actor, status *domain.ClientStatus) ([]domain.Client, error)
	Update(ctx context.Context, actor domain.Actor, client domain.Client) (domain.Client, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}

// UserServicer defines the business operations the user handlers depend on.
type UserServicer interface {
	Create(ctx context.Context, actor domain.Actor, user domain.User, password string) (domain.User, error)
	List(ctx context.Context, actor domain.Actor, role *domain.Role) ([]domain.User, error)
}

// AuthServicer defines the login operation the auth handler depends on.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (domain.User, string, error)
}

// Exporter defines the report operation the export handler depends on.
type Exporter interface {
	Report(ctx context.Context, actor domain.Actor, f domain.TripFilter) ([]domain.TripReportRow, error)
}

// Server holds the dependencies shared by all HTTP handlers.
type Server struct {
	trips   TripServicer
	clients ClientServicer
	users   UserServicer
	auth    AuthServicer
	export  Exporter
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, clients ClientServicer, users UserServicer, auth AuthServicer, export Exporter) *Server {
	return &Server{trips: trips, clients: clients, users: users, auth: auth, export: export}
}

// Routes assembles the full API surface. authn must reject requests without
// a valid bearer token and put the actor in the request context; adminOnly
// must additionally reject non-admin actors. Both are injected so handler
// tests can substitute stubs.
func (s *Server) Routes(authn, adminOnly func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(authn)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", s.handleCreateTrip)
			r.Get("/", s.handleListOwnTrips)
			r.With(adminOnly).Get("/all", s.handleListAllTrips)
			r.Get("/{id}", s.handleGetTrip)
			r.Patch("/{id}", s.handleUpdateTrip)
			r.With(adminOnly).Patch("/{id}/review", s.handleReviewTrip)
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.handleListClients)
			r.Get("/{id}", s.handleGetClient)
			r.With(adminOnly).Post("/", s.handleCreateClient)
			r.With(adminOnly).Put("/{id}", s.handleUpdateClient)
			r.With(adminOnly).Delete("/{id}", s.handleDeleteClient)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
		})

		r.Get("/export/trips", s.handleExportTrips)
	})

	return r
}
