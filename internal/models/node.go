package models

import "time"

// Node is a single entry in the user's file tree, either a file or a
// folder.
type Node struct {
	ID         string    `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	ParentID   *string   `json:"parent_id"`
	Name       string    `json:"name"`
	NodeType   string    `json:"node_type"`
	SizeBytes  *int64    `json:"size_bytes,omitempty"`
	MimeType   *string   `json:"mime_type,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
