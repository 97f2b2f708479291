package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// @Summary      List shares received from other servers
// @Description  Lists every federated share announced to the user, pending and accepted alike.
// @Tags         federated-shares
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   models.ReceivedShare
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /federated-shares/received [get]
func (s *Server) ListReceivedSharesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	shares, err := s.provider.ListReceivedShares(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve received shares", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shares)
}

func (s *Server) setReceivedAccepted(w http.ResponseWriter, r *http.Request, accepted bool) {
	claims := GetUserFromContext(r.Context())

	shareID, err := strconv.ParseInt(chi.URLParam(r, "shareId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid share ID format", http.StatusBadRequest)
		return
	}

	share, err := s.provider.SetReceivedShareAccepted(r.Context(), shareID, claims.UserID, accepted)
	if err != nil {
		writeFederationError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(share)
}

// @Summary      Accept a received federated share
// @Tags         federated-shares
// @Produce      json
// @Security     BearerAuth
// @Param        shareId  path      int  true  "Received share ID"
// @Success      200      {object}  models.ReceivedShare
// @Failure      400      {string}  string "Bad Request"
// @Failure      401      {string}  string "Unauthorized"
// @Failure      404      {string}  string "Share not found"
// @Router       /federated-shares/received/{shareId}/accept [post]
func (s *Server) AcceptReceivedShareHandler(w http.ResponseWriter, r *http.Request) {
	s.setReceivedAccepted(w, r, true)
}

// @Summary      Decline a received federated share
// @Tags         federated-shares
// @Produce      json
// @Security     BearerAuth
// @Param        shareId  path      int  true  "Received share ID"
// @Success      200      {object}  models.ReceivedShare
// @Failure      400      {string}  string "Bad Request"
// @Failure      401      {string}  string "Unauthorized"
// @Failure      404      {string}  string "Share not found"
// @Router       /federated-shares/received/{shareId}/decline [post]
func (s *Server) DeclineReceivedShareHandler(w http.ResponseWriter, r *http.Request) {
	s.setReceivedAccepted(w, r, false)
}
