package federation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/models"
)

// Notifier announces shares and permission changes to remote servers.
// The wire format is its business alone; callers only see the boolean
// verdict (acknowledged or explicitly declined) or a transport error.
type Notifier interface {
	SendRemoteShare(ctx context.Context, recipient, owner, initiator address.Address, token, name, itemType string, permissions int, capabilities models.Capabilities) (bool, error)
	SendPermissionUpdate(ctx context.Context, recipient address.Address, token string, permissions int) (bool, error)
}

// HTTPNotifier talks to the peer's /api/federation endpoints, the same
// surface this server exposes for inbound announcements.
type HTTPNotifier struct {
	client *http.Client
}

func NewHTTPNotifier(timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{client: &http.Client{Timeout: timeout}}
}

type remoteSharePayload struct {
	ShareWith    string              `json:"share_with"`
	Name         string              `json:"name"`
	ItemType     string              `json:"item_type"`
	Owner        string              `json:"owner"`
	SharedBy     string              `json:"shared_by"`
	Token        string              `json:"token"`
	Permissions  int                 `json:"permissions"`
	Capabilities models.Capabilities `json:"capabilities"`
}

func (n *HTTPNotifier) SendRemoteShare(ctx context.Context, recipient, owner, initiator address.Address, token, name, itemType string, permissions int, capabilities models.Capabilities) (bool, error) {
	payload := remoteSharePayload{
		ShareWith:    recipient.User,
		Name:         name,
		ItemType:     itemType,
		Owner:        owner.String(),
		SharedBy:     initiator.String(),
		Token:        token,
		Permissions:  permissions,
		Capabilities: capabilities,
	}
	return n.post(ctx, endpointURL(recipient.Server, "/api/federation/shares"), payload)
}

func (n *HTTPNotifier) SendPermissionUpdate(ctx context.Context, recipient address.Address, token string, permissions int) (bool, error) {
	payload := map[string]int{"permissions": permissions}
	path := fmt.Sprintf("/api/federation/shares/%s/permissions", token)
	return n.post(ctx, endpointURL(recipient.Server, path), payload)
}

func (n *HTTPNotifier) post(ctx context.Context, url string, payload interface{}) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	// 2xx means the peer acknowledged; anything else is an explicit
	// refusal, which callers treat like "recipient unknown".
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// endpointURL builds an absolute URL for a server identifier that may
// or may not already carry a scheme.
func endpointURL(server, path string) string {
	base := strings.TrimRight(strings.TrimSpace(server), "/")
	lower := strings.ToLower(base)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		base = "https://" + base
	}
	return base + path
}
