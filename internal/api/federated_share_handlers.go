package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"

	"github.com/go-chi/chi/v5"
)

type CreateFederatedShareRequest struct {
	ShareWith    string              `json:"share_with" example:"user@cloud.example.org"`
	Permissions  int                 `json:"permissions" example:"19"`
	Capabilities models.Capabilities `json:"capabilities"`
}

type UpdateFederatedShareRequest struct {
	Permissions *int  `json:"permissions"`
	Accepted    *bool `json:"accepted"`
}

// writeFederationError maps provider errors onto HTTP statuses. The
// remote-side failures are 502s: the request was fine, the peer wasn't.
func writeFederationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, federation.ErrFeatureDisabled):
		http.Error(w, "Federated sharing is disabled on this server", http.StatusForbidden)
	case errors.Is(err, address.ErrInvalidAddress), errors.Is(err, federation.ErrSelfShare):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, federation.ErrNodeNotFound), errors.Is(err, federation.ErrShareNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, federation.ErrAlreadyShared):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, federation.ErrRemoteRejected), errors.Is(err, federation.ErrTransport):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		log.Printf("ERROR: federation operation failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// @Summary      Share a node with a remote user
// @Description  Announces the share to the recipient's server and records it once the remote acknowledged.
// @Tags         federated-shares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        nodeId        path      string                       true  "Node ID to share"
// @Param        shareRequest  body      CreateFederatedShareRequest  true  "Share details"
// @Success      201  {object}  models.FederatedShare
// @Failure      400  {string}  string "Bad Request"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Federated sharing disabled"
// @Failure      404  {string}  string "Node not found"
// @Failure      409  {string}  string "Already shared with this user"
// @Failure      502  {string}  string "Remote server rejected or unreachable"
// @Router       /nodes/{nodeId}/federated-shares [post]
func (s *Server) CreateFederatedShareHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	nodeID := chi.URLParam(r, "nodeId")

	if !s.provider.IsOutgoingServer2serverShareEnabled() {
		writeFederationError(w, federation.ErrFeatureDisabled)
		return
	}

	var req CreateFederatedShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	node, err := s.store.GetNodeInfo(r.Context(), nodeID)
	if err != nil {
		http.Error(w, "Internal server error while checking the node", http.StatusInternalServerError)
		return
	}
	if node == nil {
		http.Error(w, "Node not found", http.StatusNotFound)
		return
	}

	permissions := req.Permissions
	if permissions == 0 {
		permissions = models.PermissionRead
	}

	share, err := s.provider.Create(r.Context(), federation.CreateShareRequest{
		SharedWith:   req.ShareWith,
		SharedBy:     claims.Username,
		ShareOwner:   node.OwnerUsername,
		NodeID:       nodeID,
		Permissions:  permissions,
		Capabilities: req.Capabilities,
	})
	if err != nil {
		writeFederationError(w, err)
		return
	}

	federatedSharesCreated.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(share)
}

// @Summary      List my outgoing federated shares
// @Description  Lists shares the user initiated, ordered by id. With reshares=true the result also covers shares of the user's nodes made by others.
// @Tags         federated-shares
// @Produce      json
// @Security     BearerAuth
// @Param        node_id   query  string  false  "Restrict to one node"
// @Param        reshares  query  bool    false  "Include re-shares of owned nodes"
// @Param        limit     query  int     false  "Number of items to return, omit for all"
// @Param        offset    query  int     false  "Offset for pagination"
// @Success      200  {array}   models.FederatedShare
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /federated-shares/outgoing [get]
func (s *Server) ListOutgoingFederatedSharesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	limit, offset := parsePagination(r)

	var nodeIDs []string
	if nodeID := r.URL.Query().Get("node_id"); nodeID != "" {
		nodeIDs = []string{nodeID}
	}
	includeReshares := r.URL.Query().Get("reshares") == "true"

	shares, err := s.provider.GetSharesBy(r.Context(), claims.Username, nodeIDs, includeReshares, limit, offset)
	if err != nil {
		http.Error(w, "Failed to retrieve outgoing shares", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shares)
}

// participatesIn reports whether the user may manage this share.
func participatesIn(share *models.FederatedShare, username string) bool {
	return share.Owner == username || share.Initiator == username
}

// @Summary      Update a federated share
// @Description  Changes the permissions or acceptance state of an outgoing share. Permission changes on re-shares are propagated to the remote server best-effort.
// @Tags         federated-shares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        shareId        path      int                          true  "Share ID"
// @Param        updateRequest  body      UpdateFederatedShareRequest  true  "Fields to change"
// @Success      200  {object}  models.FederatedShare
// @Failure      400  {string}  string "Bad Request"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "Share not found"
// @Router       /federated-shares/{shareId} [patch]
func (s *Server) UpdateFederatedShareHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	shareID, err := strconv.ParseInt(chi.URLParam(r, "shareId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid share ID format", http.StatusBadRequest)
		return
	}

	var req UpdateFederatedShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Permissions == nil && req.Accepted == nil {
		http.Error(w, "No update operation specified (provide 'permissions' or 'accepted')", http.StatusBadRequest)
		return
	}

	share, err := s.provider.GetShareByID(r.Context(), shareID)
	if err != nil {
		writeFederationError(w, err)
		return
	}
	if !participatesIn(share, claims.Username) {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	}

	if req.Permissions != nil {
		share.Permissions = *req.Permissions
	}
	if req.Accepted != nil {
		share.Accepted = *req.Accepted
	}

	if err := s.provider.Update(r.Context(), share); err != nil {
		writeFederationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(share)
}

// @Summary      Delete a federated share
// @Tags         federated-shares
// @Security     BearerAuth
// @Param        shareId  path      int  true  "Share ID"
// @Success      204      {null}    nil "No Content"
// @Failure      400      {string}  string "Bad Request"
// @Failure      401      {string}  string "Unauthorized"
// @Failure      404      {string}  string "Share not found"
// @Router       /federated-shares/{shareId} [delete]
func (s *Server) DeleteFederatedShareHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	shareID, err := strconv.ParseInt(chi.URLParam(r, "shareId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid share ID format", http.StatusBadRequest)
		return
	}

	share, err := s.provider.GetShareByID(r.Context(), shareID)
	if err != nil {
		writeFederationError(w, err)
		return
	}
	if !participatesIn(share, claims.Username) {
		http.Error(w, "Share not found", http.StatusNotFound)
		return
	}

	if err := s.provider.Delete(r.Context(), shareID); err != nil {
		writeFederationError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
