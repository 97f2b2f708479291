package permissions

import (
	"context"
	"errors"
	"testing"

	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeNodeStore struct {
	nodes map[string]*federation.NodeInfo
	err   error
}

func (f *fakeNodeStore) GetNodeInfo(_ context.Context, nodeID string) (*federation.NodeInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.nodes[nodeID], nil
}

func (f *fakeNodeStore) ResolveRootOwner(_ context.Context, _ string) (string, error) {
	return "", nil
}

func boolPtr(b bool) *bool { return &b }

func TestDownloadGate(t *testing.T) {
	nodes := &fakeNodeStore{nodes: map[string]*federation.NodeInfo{
		"node42": {ID: "node42", Name: "myFile", Type: "file", OwnerUsername: "shareOwner"},
	}}
	gate := NewDownloadGate(nodes)

	cases := []struct {
		name  string
		share models.FederatedShare
		allow bool
	}{
		{
			name:  "plain read share",
			share: models.FederatedShare{ItemSource: "node42", Permissions: models.PermissionRead},
			allow: true,
		},
		{
			name: "download switch explicitly on",
			share: models.FederatedShare{
				ItemSource:   "node42",
				Permissions:  models.PermissionAll,
				Capabilities: models.Capabilities{CanDownload: boolPtr(true)},
			},
			allow: true,
		},
		{
			name: "view only share",
			share: models.FederatedShare{
				ItemSource:   "node42",
				Permissions:  models.PermissionRead,
				Capabilities: models.Capabilities{CanDownload: boolPtr(false)},
			},
			allow: false,
		},
		{
			name:  "no read permission",
			share: models.FederatedShare{ItemSource: "node42", Permissions: models.PermissionShare},
			allow: false,
		},
		{
			name: "vanished node fails open",
			share: models.FederatedShare{
				ItemSource:   "gone",
				Permissions:  models.PermissionRead,
				Capabilities: models.Capabilities{CanDownload: boolPtr(false)},
			},
			allow: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allow, err := gate.Allows(context.Background(), &tc.share)
			require.NoError(t, err)
			require.Equal(t, tc.allow, allow)
		})
	}
}

func TestDownloadGateStoreError(t *testing.T) {
	gate := NewDownloadGate(&fakeNodeStore{err: errors.New("db down")})

	_, err := gate.Allows(context.Background(), &models.FederatedShare{ItemSource: "node42"})
	require.Error(t, err)
}
