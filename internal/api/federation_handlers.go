package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/database"
	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"
	"serwer-federacji/internal/storage"

	"github.com/go-chi/chi/v5"
)

// IncomingSharePayload is what peer servers POST to announce a share.
// share_with may be a bare local username or user@ourhost.
type IncomingSharePayload struct {
	ShareWith    string              `json:"share_with"`
	Name         string              `json:"name"`
	ItemType     string              `json:"item_type"`
	Owner        string              `json:"owner"`
	SharedBy     string              `json:"shared_by"`
	Token        string              `json:"token"`
	RemoteID     string              `json:"remote_id"`
	Permissions  int                 `json:"permissions"`
	Capabilities models.Capabilities `json:"capabilities"`
}

// localUsername strips our own host from a share_with value when the
// sender addressed the user with a full federated id.
func localUsername(shareWith string) string {
	if !strings.Contains(shareWith, "@") {
		return shareWith
	}
	user, _, err := address.SplitUserRemote(shareWith)
	if err != nil {
		return shareWith
	}
	return user
}

// @Summary      Receive a share from a remote server
// @Description  Peer-facing endpoint. Records the announced share for the addressed local user; trusted senders may have it auto-accepted.
// @Tags         federation
// @Accept       json
// @Produce      json
// @Param        payload  body      IncomingSharePayload  true  "Share announcement"
// @Success      201  {object}  models.ReceivedShare
// @Failure      400  {string}  string "Bad Request"
// @Failure      404  {string}  string "Recipient unknown"
// @Failure      409  {string}  string "Duplicate announcement"
// @Failure      503  {string}  string "Incoming federated sharing disabled"
// @Router       /federation/shares [post]
func (s *Server) ReceiveFederatedShareHandler(w http.ResponseWriter, r *http.Request) {
	var payload IncomingSharePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if payload.Token == "" || payload.ShareWith == "" || payload.SharedBy == "" {
		http.Error(w, "share_with, shared_by and token are required", http.StatusBadRequest)
		return
	}

	_, remote, err := address.SplitUserRemote(payload.SharedBy)
	if err != nil {
		http.Error(w, "shared_by must be a federated address", http.StatusBadRequest)
		return
	}

	recipient, err := s.store.GetUserByUsername(r.Context(), localUsername(payload.ShareWith))
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if recipient == nil {
		http.Error(w, "Recipient unknown", http.StatusNotFound)
		return
	}

	share, err := s.provider.ReceiveRemoteShare(r.Context(), federation.IncomingShare{
		Remote:       remote,
		RemoteID:     payload.RemoteID,
		Token:        payload.Token,
		Name:         payload.Name,
		ItemType:     payload.ItemType,
		Owner:        payload.Owner,
		SharedBy:     payload.SharedBy,
		RecipientID:  recipient.ID,
		Permissions:  payload.Permissions,
		Capabilities: payload.Capabilities,
	})
	if err != nil {
		switch {
		case errors.Is(err, federation.ErrFeatureDisabled):
			http.Error(w, "Incoming federated sharing is disabled on this server", http.StatusServiceUnavailable)
		case errors.Is(err, federation.ErrAlreadyShared):
			http.Error(w, "This share was already announced", http.StatusConflict)
		default:
			log.Printf("ERROR: Failed to record incoming share from %s: %v", remote, err)
			http.Error(w, "Failed to record share", http.StatusInternalServerError)
		}
		return
	}

	federatedSharesReceived.Inc()
	s.notifyRecipient(r, recipient.ID, database.EventFederatedShareReceived, share)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(share)
}

type PermissionUpdatePayload struct {
	Permissions int `json:"permissions"`
}

// @Summary      Apply a permission change pushed by a remote server
// @Tags         federation
// @Accept       json
// @Produce      json
// @Param        token    path      string                   true  "Share token"
// @Param        payload  body      PermissionUpdatePayload  true  "New permissions"
// @Success      200  {object}  models.ReceivedShare
// @Failure      400  {string}  string "Bad Request"
// @Failure      404  {string}  string "Share not found"
// @Router       /federation/shares/{token}/permissions [post]
func (s *Server) UpdateFederationPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var payload PermissionUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	share, err := s.provider.UpdateReceivedPermissions(r.Context(), token, payload.Permissions)
	if err != nil {
		writeFederationError(w, err)
		return
	}

	s.notifyRecipient(r, share.RecipientID, database.EventFederatedShareUpdated, share)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(share)
}

// @Summary      Revoke a share withdrawn by the remote server
// @Tags         federation
// @Param        token  path      string  true  "Share token"
// @Success      204    {null}    nil "No Content"
// @Failure      404    {string}  string "Share not found"
// @Router       /federation/shares/{token} [delete]
func (s *Server) RevokeFederationShareHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	share, err := s.provider.RevokeReceivedShare(r.Context(), token)
	if err != nil {
		writeFederationError(w, err)
		return
	}

	s.notifyRecipient(r, share.RecipientID, database.EventFederatedShareRevoked, share)

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Download shared bytes by token
// @Description  Peer-facing endpoint. Streams the shared file when the token resolves to an outgoing share that permits downloads.
// @Tags         federation
// @Produce      octet-stream
// @Param        token  path  string  true  "Share token"
// @Success      200  {file}    file
// @Failure      403  {string}  string "Share is view-only"
// @Failure      404  {string}  string "Unknown token or file gone"
// @Router       /federation/shares/{token}/download [get]
func (s *Server) DownloadFederatedShareHandler(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	share, err := s.store.GetFederatedShareByToken(r.Context(), token)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if share == nil {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	}

	allowed, err := s.gate.Allows(r.Context(), share)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if !allowed {
		http.Error(w, "This share does not permit downloads", http.StatusForbidden)
		return
	}

	node, err := s.store.GetNodeInfo(r.Context(), share.ItemSource)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if node == nil || node.Type != "file" {
		http.Error(w, "Shared file no longer exists", http.StatusNotFound)
		return
	}

	fileStream, err := s.storage.Get(share.ItemSource)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			http.Error(w, "Shared file no longer exists", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer fileStream.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", node.Name))
	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, fileStream)
}

// notifyRecipient journals the event and pushes it over the websocket
// hub, both best-effort.
func (s *Server) notifyRecipient(r *http.Request, recipientID int64, eventType string, payload interface{}) {
	if err := s.store.LogEvent(r.Context(), recipientID, eventType, payload); err != nil {
		log.Printf("WARN: Failed to journal %s event for user %d: %v", eventType, recipientID, err)
	}
	s.wsHub.PublishFederationEvent(recipientID, eventType, payload)
}
