package api

import (
	"context"
	"log"
	"os"
	"testing"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/auth"
	"serwer-federacji/internal/config"
	"serwer-federacji/internal/database"
	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"
	"serwer-federacji/internal/permissions"
	"serwer-federacji/internal/storage"
	"serwer-federacji/internal/token"
	"serwer-federacji/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const testAppHost = "cloud.test.local"

var testServer *Server
var testUserToken string
var testUserClaims *auth.AppClaims
var testNotifier *stubNotifier

// stubNotifier stands in for the remote peer so handler tests never
// leave the process.
type stubNotifier struct {
	ok         bool
	err        error
	shareCalls int
	lastToken  string
}

func (n *stubNotifier) SendRemoteShare(_ context.Context, _, _, _ address.Address, token, _, _ string, _ int, _ models.Capabilities) (bool, error) {
	n.shareCalls++
	n.lastToken = token
	return n.ok, n.err
}

func (n *stubNotifier) SendPermissionUpdate(_ context.Context, _ address.Address, _ string, _ int) (bool, error) {
	return n.ok, n.err
}

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("Could not read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	tempDir, err := os.MkdirTemp("", "api-storage-test")
	if err != nil {
		log.Fatalf("Could not create temp dir: %s", err)
	}
	defer os.RemoveAll(tempDir)

	localStorage, err := storage.NewLocalStorage(tempDir)
	if err != nil {
		log.Fatalf("Could not create local storage: %s", err)
	}

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(pool)
	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "api_test_secret"},
		AppHost: testAppHost,
		Federation: config.FederationConfig{
			OutgoingShareEnabled: "yes",
			IncomingShareEnabled: "yes",
			AutoAcceptTrusted:    "no",
			AutoAddServers:       "no",
		},
	}

	issuer, err := token.NewIssuer()
	if err != nil {
		log.Fatalf("Could not create token issuer: %s", err)
	}

	testNotifier = &stubNotifier{ok: true}
	trusted := federation.NewTrustedServers(cfg.Federation.TrustedServers, false)
	resolver := address.NewResolver(testAppHost)
	provider := federation.NewProvider(store, store, store, resolver, issuer, testNotifier, trusted, &cfg.Federation)
	gate := permissions.NewDownloadGate(store)

	testServer = NewServer(cfg, store, localStorage, provider, gate, wsHub)

	hashedPassword, _ := auth.HashPassword("password")
	var userID int64
	var username = "api_test_user"
	pool.QueryRow(ctx, `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`, username, hashedPassword).Scan(&userID)

	testUser := &models.User{ID: userID, Username: username}
	testUserToken, err = auth.GenerateJWT(testUser, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not generate token: %s", err)
	}

	testUserClaims, err = auth.VerifyJWT(testUserToken, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not verify token: %s", err)
	}

	os.Exit(m.Run())
}
