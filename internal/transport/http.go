package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/domain/user"
	"github.com/rpggio/crmdesk/internal/metrics"
)

const maxBodyBytes = 1 << 20

// UserService defines account operations needed by HTTP.
type UserService interface {
	Register(ctx context.Context, req user.RegisterRequest) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	Get(ctx context.Context, id string) (*user.User, error)
	UpdateProfile(ctx context.Context, id string, upd user.ProfileUpdate) (*user.User, error)
	UpdateTheme(ctx context.Context, id string, theme user.Theme) (*user.User, error)
}

// ClientService defines client operations needed by HTTP.
type ClientService interface {
	Create(ctx context.Context, userID string, req client.CreateRequest) (*client.Client, error)
	Get(ctx context.Context, userID, id string) (*client.Client, error)
	List(ctx context.Context, userID string) ([]client.ClientSummary, error)
	Update(ctx context.Context, userID, id string, req client.UpdateRequest) (*client.Client, error)
	Delete(ctx context.Context, userID, id string) (*client.DeleteResult, error)
}

// ProjectService defines project operations needed by HTTP.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, userID, id string) (*project.Project, error)
	List(ctx context.Context, userID string, opts project.ListOptions) ([]project.Project, error)
	Update(ctx context.Context, userID, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (project.Stats, error)
}

// InteractionService defines interaction operations needed by HTTP.
type InteractionService interface {
	Create(ctx context.Context, userID string, req interaction.CreateRequest) (*interaction.Interaction, error)
	Get(ctx context.Context, userID, id string) (*interaction.Interaction, error)
	List(ctx context.Context, userID string) ([]interaction.Interaction, error)
	ListByClient(ctx context.Context, userID, clientID string) ([]interaction.Interaction, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]interaction.Interaction, error)
	Update(ctx context.Context, userID, id string, req interaction.UpdateRequest) (*interaction.Interaction, error)
	Delete(ctx context.Context, userID, id string) error
}

// ReminderService defines reminder operations needed by HTTP.
type ReminderService interface {
	Create(ctx context.Context, userID string, req reminder.CreateRequest) (*reminder.Reminder, error)
	Get(ctx context.Context, userID, id string) (*reminder.Reminder, error)
	List(ctx context.Context, userID string, opts reminder.ListOptions) ([]reminder.Reminder, error)
	Update(ctx context.Context, userID, id string, req reminder.UpdateRequest) (*reminder.Reminder, error)
	Delete(ctx context.Context, userID, id string) error
	SyncProjectDeadlines(ctx context.Context, userID string) (*reminder.SyncResult, error)
	ThisWeek(ctx context.Context, userID string) ([]reminder.WeeklyItem, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// Services contains all domain services needed by HTTP.
type Services struct {
	Users        UserService
	Clients      ClientService
	Projects     ProjectService
	Interactions InteractionService
	Reminders    ReminderService
}

// Config contains router configuration.
type Config struct {
	Services           Services
	Tokens             TokenIssuer
	Resolver           UserResolver
	MCPHandler         http.Handler
	CORSOrigins        []string
	LoginRatePerMinute int
	// TrustProxy applies forwarded client addresses to rate limiting and logs.
	TrustProxy bool
	Logger     *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	tokens TokenIssuer
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	srv := &Server{svc: cfg.Services, tokens: cfg.Tokens, logger: cfg.Logger}
	limiter := newLoginLimiter(cfg.LoginRatePerMinute)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(cfg.Logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
			ExposedHeaders:   []string{"Mcp-Session-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if cfg.MCPHandler != nil {
		r.Handle("/mcp", cfg.MCPHandler)
		r.Handle("/mcp/*", cfg.MCPHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", srv.handleRegister)
		r.With(limiter.middleware).Post("/auth/login", srv.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Resolver))

			r.Get("/auth/me", srv.handleMe)
			r.Patch("/auth/profile", srv.handleUpdateProfile)
			r.Patch("/auth/theme", srv.handleUpdateTheme)

			r.Route("/clients", func(r chi.Router) {
				r.Post("/", srv.handleCreateClient)
				r.Get("/", srv.handleListClients)
				r.Get("/{id}", srv.handleGetClient)
				r.Put("/{id}", srv.handleUpdateClient)
				r.Delete("/{id}", srv.handleDeleteClient)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", srv.handleCreateProject)
				r.Get("/", srv.handleListProjects)
				r.Get("/stats", srv.handleProjectStats)
				r.Get("/{id}", srv.handleGetProject)
				r.Patch("/{id}", srv.handleUpdateProject)
				r.Delete("/{id}", srv.handleDeleteProject)
			})

			r.Route("/interactions", func(r chi.Router) {
				r.Post("/", srv.handleCreateInteraction)
				r.Get("/", srv.handleListInteractions)
				r.Get("/client/{clientID}", srv.handleListClientInteractions)
				r.Get("/project/{projectID}", srv.handleListProjectInteractions)
				r.Get("/{id}", srv.handleGetInteraction)
				r.Patch("/{id}", srv.handleUpdateInteraction)
				r.Delete("/{id}", srv.handleDeleteInteraction)
			})

			r.Route("/reminders", func(r chi.Router) {
				r.Post("/", srv.handleCreateReminder)
				r.Get("/", srv.handleListReminders)
				r.Get("/week", srv.handleRemindersThisWeek)
				r.Post("/sync-project-deadlines", srv.handleSyncProjectDeadlines)
				r.Get("/{id}", srv.handleGetReminder)
				r.Patch("/{id}", srv.handleUpdateReminder)
				r.Delete("/{id}", srv.handleDeleteReminder)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requestLogger logs each request at debug level and records request metrics
// under the matched chi route pattern.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)
			metrics.ObserveHTTPRequest(r.Method, route, status, elapsed)

			if logger != nil {
				logger.Debug("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"route", route,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", elapsed,
					"request_id", middleware.GetReqID(r.Context()),
				)
			}
		})
	}
}

// currentUser returns the authenticated user. Routes using it sit behind
// AuthMiddleware, so a missing user is a wiring error.
func currentUser(r *http.Request) string {
	userID, _ := UserFromContext(r.Context())
	return userID
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// parseTime accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (midnight
// UTC).
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid time %q", errBadRequest, value)
}

func parseTimePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseTime(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func queryTime(r *http.Request, key string) (*time.Time, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	return parseTimePtr(&v)
}
