// Package testserver runs the full HTTP and MCP stack against an in-memory
// database for package tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmdesk/internal/auth"
	"github.com/rpggio/crmdesk/internal/domain/client"
	"github.com/rpggio/crmdesk/internal/domain/interaction"
	"github.com/rpggio/crmdesk/internal/domain/project"
	"github.com/rpggio/crmdesk/internal/domain/reminder"
	"github.com/rpggio/crmdesk/internal/domain/user"
	"github.com/rpggio/crmdesk/internal/mcp"
	"github.com/rpggio/crmdesk/internal/sqlite"
	"github.com/rpggio/crmdesk/internal/transport"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// Options tunes the stack built by New.
type Options struct {
	// LoginRatePerMinute limits login attempts per client IP; zero disables it.
	LoginRatePerMinute int
	// Now overrides the reminder service clock.
	Now func() time.Time
}

// TestServer is a running stack plus direct handles on its parts.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Tokens   *auth.TokenManager
	Services transport.Services
	MCP      mcp.Services
}

// New starts a server with default options.
func New(t *testing.T) *TestServer {
	return NewWithOptions(t, Options{})
}

// NewWithOptions starts a server on an httptest listener.
func NewWithOptions(t *testing.T, opts Options) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	tokens, err := auth.NewTokenManager(testSecret, time.Hour)
	require.NoError(t, err)

	userRepo := sqlite.NewUserRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	interactionRepo := sqlite.NewInteractionRepository(db)
	reminderRepo := sqlite.NewReminderRepository(db)

	userSvc := user.NewService(userRepo, auth.BcryptHasher{Cost: bcrypt.MinCost}, nil)
	clientSvc := client.NewService(clientRepo, sqlite.NewClientTransactor(db), nil)
	projectSvc := project.NewService(projectRepo, clientRepo, sqlite.NewProjectTransactor(db), nil)
	interactionSvc := interaction.NewService(interactionRepo, clientRepo, projectRepo, nil)
	reminderSvc := reminder.NewService(reminderRepo, projectRepo, clientRepo, sqlite.NewReminderTransactor(db), nil)
	if opts.Now != nil {
		reminderSvc = reminderSvc.WithClock(opts.Now)
	}

	mcpServices := mcp.Services{
		Clients:      clientSvc,
		Projects:     projectSvc,
		Interactions: interactionSvc,
		Reminders:    reminderSvc,
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      mcpServices,
		Resolver:      tokens,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	services := transport.Services{
		Users:        userSvc,
		Clients:      clientSvc,
		Projects:     projectSvc,
		Interactions: interactionSvc,
		Reminders:    reminderSvc,
	}
	server := httptest.NewServer(transport.NewServer(transport.Config{
		Services:           services,
		Tokens:             tokens,
		Resolver:           tokens,
		MCPHandler:         mcpHandler,
		LoginRatePerMinute: opts.LoginRatePerMinute,
	}))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Tokens:   tokens,
		Services: services,
		MCP:      mcpServices,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// CreateUser registers an account directly and returns its ID and a bearer token.
func (ts *TestServer) CreateUser(t *testing.T, email string) (string, string) {
	t.Helper()

	u, err := ts.Services.Users.Register(context.Background(), user.RegisterRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)

	token, _, err := ts.Tokens.Issue(u.ID, u.Email)
	require.NoError(t, err)
	return u.ID, token
}

// ConnectStdio returns an MCP session acting as userID over in-memory
// transports, the way the stdio transport runs.
func (ts *TestServer) ConnectStdio(t *testing.T, userID string) *sdkmcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(mcp.Config{
		Services:      ts.MCP,
		TransportMode: "stdio",
		StdioUserID:   userID,
	})
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
		cancel()
	})
	return session
}

// ConnectHTTP returns an MCP session against the /mcp endpoint sending token
// as bearer credentials. An empty token sends no Authorization header.
func (ts *TestServer) ConnectHTTP(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()

	httpClient := &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}}
	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := c.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if b.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.base.RoundTrip(req)
}
