// @title           Federated File Sharing API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/api"
	"serwer-federacji/internal/config"
	"serwer-federacji/internal/database"
	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/permissions"
	"serwer-federacji/internal/storage"
	"serwer-federacji/internal/token"
	"serwer-federacji/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "serwer-federacji/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Nie można pingować bazy danych: %v", err)
	}
	log.Println("Pomyślnie połączono z bazą danych")

	localStorage, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Nie można zainicjować local storage: %v", err)
	}
	log.Printf("Pliki będą przechowywane w: %s", cfg.Storage.Path)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool)

	issuer, err := token.NewIssuer()
	if err != nil {
		log.Fatalf("Nie można zainicjować generatora tokenów: %v", err)
	}

	trusted := federation.NewTrustedServers(
		cfg.Federation.TrustedServers,
		cfg.Federation.AutoAddServers == "yes",
	)
	resolver := address.NewResolver(cfg.AppHost)
	notifier := federation.NewHTTPNotifier(30 * time.Second)
	provider := federation.NewProvider(store, store, store, resolver, issuer, notifier, trusted, &cfg.Federation)
	gate := permissions.NewDownloadGate(store)

	server := api.NewServer(cfg, store, localStorage, provider, gate, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Serwer federacji działa! Dokumentacja dostępna pod /swagger/index.html"))
	})

	r.Post("/api/v1/auth/login", server.LoginHandler)
	r.Post("/api/v1/auth/refresh", server.RefreshTokenHandler)
	r.Post("/api/v1/auth/logout", server.LogoutHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	// Peer-facing federation surface, authenticated by share token only.
	r.Route("/api/federation", func(r chi.Router) {
		r.Post("/shares", server.ReceiveFederatedShareHandler)
		r.Post("/shares/{token}/permissions", server.UpdateFederationPermissionsHandler)
		r.Delete("/shares/{token}", server.RevokeFederationShareHandler)
		r.Get("/shares/{token}/download", server.DownloadFederatedShareHandler)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Delete("/me", server.DeleteAccountHandler)
		r.Post("/nodes/folder", server.CreateFolderHandler)
		r.Post("/nodes/file", server.UploadFileHandler)
		r.Get("/nodes/{nodeId}/download", server.DownloadFileHandler)
		r.Post("/nodes/{nodeId}/federated-shares", server.CreateFederatedShareHandler)
		r.Get("/federated-shares/outgoing", server.ListOutgoingFederatedSharesHandler)
		r.Patch("/federated-shares/{shareId}", server.UpdateFederatedShareHandler)
		r.Delete("/federated-shares/{shareId}", server.DeleteFederatedShareHandler)
		r.Get("/federated-shares/received", server.ListReceivedSharesHandler)
		r.Post("/federated-shares/received/{shareId}/accept", server.AcceptReceivedShareHandler)
		r.Post("/federated-shares/received/{shareId}/decline", server.DeclineReceivedShareHandler)
		r.Get("/events", server.GetEventsHandler)
	})

	log.Println("Uruchamianie serwera na porcie :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Nie można uruchomić serwera: %v", err)
	}
}
