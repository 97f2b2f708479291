package api

import (
	"net/http"
	"strconv"

	"serwer-federacji/internal/config"
	"serwer-federacji/internal/database"
	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/permissions"
	"serwer-federacji/internal/storage"
	"serwer-federacji/internal/websocket"
)

type Server struct {
	config   *config.Config
	store    *database.PostgresStore
	storage  *storage.LocalStorage
	provider *federation.Provider
	gate     *permissions.DownloadGate
	wsHub    *websocket.Hub
}

func NewServer(
	cfg *config.Config,
	store *database.PostgresStore,
	storage *storage.LocalStorage,
	provider *federation.Provider,
	gate *permissions.DownloadGate,
	wsHub *websocket.Hub,
) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		storage:  storage,
		provider: provider,
		gate:     gate,
		wsHub:    wsHub,
	}
}

// parsePagination reads limit/offset query parameters. A missing or
// invalid limit means "no limit", matching the store convention.
func parsePagination(r *http.Request) (int, int) {
	limit := -1
	offset := 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
