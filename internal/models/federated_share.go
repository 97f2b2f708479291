package models

import "time"

// share_type values stored in the shares table. Remote shares live in
// the same table as future local/group/link share types.
const (
	ShareTypeRemote = 6
)

// Permission bitmask granted on a share.
const (
	PermissionRead   = 1
	PermissionUpdate = 2
	PermissionCreate = 4
	PermissionDelete = 8
	PermissionShare  = 16

	PermissionAll = PermissionRead | PermissionUpdate | PermissionCreate | PermissionDelete | PermissionShare
)

// FederatedShare is an outgoing grant of access to a local node,
// targeted at a user on another server. ItemSource and FileSource both
// hold the node id; the duplication is kept for compatibility with
// non-federated share queries over the same table.
type FederatedShare struct {
	ID           int64        `json:"id"`
	ShareType    int          `json:"share_type"`
	SharedWith   string       `json:"share_with"`    // recipient, user@server
	Owner        string       `json:"uid_owner"`     // local username owning the node
	Initiator    string       `json:"uid_initiator"` // local username who created the share
	ItemType     string       `json:"item_type"`     // file|folder
	ItemSource   string       `json:"item_source"`
	FileSource   string       `json:"file_source"`
	Permissions  int          `json:"permissions"`
	Accepted     bool         `json:"accepted"`
	Token        string       `json:"token"`
	Capabilities Capabilities `json:"capabilities"`
	SharedAt     time.Time    `json:"shared_at"`
}

// Capabilities is the closed set of named per-share switches. Unknown
// switches cannot be expressed, on purpose: a free-form app->key->bool
// map hides typos until runtime.
type Capabilities struct {
	// CanDownload, when set and false, marks the share view-only: the
	// recipient may read metadata but not fetch bytes. Nil means the
	// switch was never set and downloads are allowed.
	CanDownload *bool `json:"can-download,omitempty"`
}
