// Package permissions gates byte access on federated shares. Metadata
// stays visible through the share either way; this only answers whether
// the actual file content may leave the server.
package permissions

import (
	"context"

	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"
)

// DownloadGate evaluates a share against the node it points at.
type DownloadGate struct {
	nodes federation.NodeStore
}

func NewDownloadGate(nodes federation.NodeStore) *DownloadGate {
	return &DownloadGate{nodes: nodes}
}

// Allows reports whether the share's recipient may download the shared
// bytes. A share whose node has vanished is allowed through: the
// download itself will fail with a proper not-found and a stale share
// row must not mask that.
func (g *DownloadGate) Allows(ctx context.Context, share *models.FederatedShare) (bool, error) {
	node, err := g.nodes.GetNodeInfo(ctx, share.ItemSource)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}

	if share.Permissions&models.PermissionRead == 0 {
		return false, nil
	}
	if share.Capabilities.CanDownload != nil && !*share.Capabilities.CanDownload {
		return false, nil
	}
	return true, nil
}
