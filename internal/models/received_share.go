package models

import "time"

// ReceivedShare is the inbound mirror of FederatedShare: a share some
// remote server announced to one of our local users. Token is the
// remote-issued secret we present when calling back about this share.
type ReceivedShare struct {
	ID           int64        `json:"id"`
	Remote       string       `json:"remote"` // announcing server, canonical form
	RemoteID     string       `json:"remote_id"`
	Token        string       `json:"-"`
	Name         string       `json:"name"`
	ItemType     string       `json:"item_type"`
	Owner        string       `json:"owner"`     // owner@server on the remote end
	SharedBy     string       `json:"shared_by"` // initiator@server on the remote end
	RecipientID  int64        `json:"recipient_id"`
	Permissions  int          `json:"permissions"`
	Accepted     bool         `json:"accepted"`
	Capabilities Capabilities `json:"capabilities"`
	ReceivedAt   time.Time    `json:"received_at"`
}
