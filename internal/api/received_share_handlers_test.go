package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"serwer-federacji/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func receivedRouter() chi.Router {
	router := chi.NewRouter()
	router.With(testServer.AuthMiddleware).Get("/api/v1/federated-shares/received", testServer.ListReceivedSharesHandler)
	router.With(testServer.AuthMiddleware).Post("/api/v1/federated-shares/received/{shareId}/accept", testServer.AcceptReceivedShareHandler)
	router.With(testServer.AuthMiddleware).Post("/api/v1/federated-shares/received/{shareId}/decline", testServer.DeclineReceivedShareHandler)
	return router
}

func TestReceivedShareAcceptDecline(t *testing.T) {
	rr := announceShare(t, "received_accept_token")
	require.Equal(t, http.StatusCreated, rr.Code)

	var pending models.ReceivedShare
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pending))

	req := httptest.NewRequest("GET", "/api/v1/federated-shares/received", nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	listRR := httptest.NewRecorder()
	receivedRouter().ServeHTTP(listRR, req)

	require.Equal(t, http.StatusOK, listRR.Code)
	var shares []models.ReceivedShare
	require.NoError(t, json.Unmarshal(listRR.Body.Bytes(), &shares))

	found := false
	for _, s := range shares {
		if s.ID == pending.ID {
			found = true
			require.False(t, s.Accepted)
		}
	}
	require.True(t, found, "announced share should appear in the received listing")

	url := fmt.Sprintf("/api/v1/federated-shares/received/%d/accept", pending.ID)
	req = httptest.NewRequest("POST", url, nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	acceptRR := httptest.NewRecorder()
	receivedRouter().ServeHTTP(acceptRR, req)

	require.Equal(t, http.StatusOK, acceptRR.Code)

	stored, err := testServer.store.GetReceivedShareByID(context.Background(), pending.ID)
	require.NoError(t, err)
	require.True(t, stored.Accepted)

	url = fmt.Sprintf("/api/v1/federated-shares/received/%d/decline", pending.ID)
	req = httptest.NewRequest("POST", url, nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	declineRR := httptest.NewRecorder()
	receivedRouter().ServeHTTP(declineRR, req)

	require.Equal(t, http.StatusOK, declineRR.Code)

	stored, err = testServer.store.GetReceivedShareByID(context.Background(), pending.ID)
	require.NoError(t, err)
	require.False(t, stored.Accepted)
}

func TestReceivedShareAccept_UnknownID(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/federated-shares/received/999999/accept", nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()
	receivedRouter().ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}
