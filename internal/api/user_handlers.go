package api

import (
	"encoding/json"
	"log"
	"net/http"
)

type CurrentUserResponse struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	FederatedID string `json:"federated_id" example:"admin@cloud.example.com"`
}

// @Summary      Get current user info
// @Description  Returns the authenticated user together with their federated cloud id, the identifier other servers use to address them.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CurrentUserResponse
// @Failure      401  {string}  string "Unauthorized"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CurrentUserResponse{
		UserID:      claims.UserID,
		Username:    claims.Username,
		FederatedID: claims.Username + "@" + s.config.AppHost,
	})
}

// @Summary      Delete own account
// @Description  Removes the account along with every federated share the user participates in, on both the outgoing and the received side.
// @Tags         users
// @Security     BearerAuth
// @Success      204  {null}    nil "No Content"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [delete]
func (s *Server) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	// Share cleanup first; a half-deleted account must not keep handing
	// out access through stale share rows.
	if err := s.provider.UserDeleted(r.Context(), claims.Username); err != nil {
		log.Printf("ERROR: Failed to clean up outgoing shares for user %s: %v", claims.Username, err)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	if err := s.provider.ReceivedUserDeleted(r.Context(), claims.UserID); err != nil {
		log.Printf("ERROR: Failed to clean up received shares for user %s: %v", claims.Username, err)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	if err := s.store.DeleteUser(r.Context(), claims.UserID); err != nil {
		log.Printf("ERROR: Failed to delete user %d: %v", claims.UserID, err)
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
