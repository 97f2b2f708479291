// Package federation implements the lifecycle of server-to-server
// shares: creating them against a remote peer, keeping the local
// record authoritative, and deciding whether inbound shares may be
// auto-accepted.
package federation

import (
	"context"
	"fmt"
	"log"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/config"
	"serwer-federacji/internal/models"
)

// ShareRole selects which column of the shares table a user occupies.
type ShareRole string

const (
	RoleOwner     ShareRole = "owner"
	RoleInitiator ShareRole = "initiator"
	RoleRecipient ShareRole = "recipient"
)

// CreateShareParams is the record handed to the store once the remote
// side has acknowledged the share.
type CreateShareParams struct {
	ShareType    int
	SharedWith   string
	Owner        string
	Initiator    string
	ItemType     string
	ItemSource   string
	Permissions  int
	Token        string
	Capabilities models.Capabilities
}

// ShareStore is the durable record of outgoing federated shares.
type ShareStore interface {
	CreateFederatedShare(ctx context.Context, params CreateShareParams) (*models.FederatedShare, error)
	UpdateFederatedShare(ctx context.Context, share *models.FederatedShare) error
	// GetFederatedShareByID returns (nil, nil) when the id is unknown.
	GetFederatedShareByID(ctx context.Context, id int64) (*models.FederatedShare, error)
	// GetBySharedWithNode is the uniqueness probe: exact recipient, exact node.
	GetBySharedWithNode(ctx context.Context, sharedWith, nodeID string) (*models.FederatedShare, error)
	// ListBySharedWith matches recipients by prefix; nodeID narrows to one node.
	ListBySharedWith(ctx context.Context, recipientPrefix string, nodeID *string) ([]models.FederatedShare, error)
	// ListByOwnerOrInitiator orders by id ascending; limit < 0 means no limit.
	ListByOwnerOrInitiator(ctx context.Context, user string, nodeIDs []string, includeReshares bool, limit, offset int) ([]models.FederatedShare, error)
	DeleteFederatedShare(ctx context.Context, id int64) error
	DeleteSharesByUser(ctx context.Context, uid string, role ShareRole) (int64, error)
}

// ReceivedShareStore persists shares announced to us by remote servers.
type ReceivedShareStore interface {
	CreateReceivedShare(ctx context.Context, share *models.ReceivedShare) (*models.ReceivedShare, error)
	GetReceivedShareByToken(ctx context.Context, token string) (*models.ReceivedShare, error)
	GetReceivedShareByID(ctx context.Context, id int64) (*models.ReceivedShare, error)
	ListReceivedByRecipient(ctx context.Context, recipientID int64) ([]models.ReceivedShare, error)
	SetReceivedShareAccepted(ctx context.Context, id int64, accepted bool) error
	UpdateReceivedSharePermissions(ctx context.Context, id int64, permissions int) error
	DeleteReceivedShare(ctx context.Context, id int64) error
	DeleteReceivedByRecipient(ctx context.Context, recipientID int64) (int64, error)
}

// NodeInfo is the slice of node metadata the provider needs: identity,
// display name and the owner's username.
type NodeInfo struct {
	ID            string
	Name          string
	Type          string
	OwnerUsername string
}

// NodeStore looks up shared resources. The backing file storage is not
// this package's concern.
type NodeStore interface {
	// GetNodeInfo returns (nil, nil) when the node does not exist.
	GetNodeInfo(ctx context.Context, nodeID string) (*NodeInfo, error)
	// ResolveRootOwner walks parent folders up to the topmost ancestor
	// and returns its owner's username.
	ResolveRootOwner(ctx context.Context, nodeID string) (string, error)
}

type TokenIssuer interface {
	Issue() string
}

// CreateShareRequest is a validated sharing request from a local user.
type CreateShareRequest struct {
	SharedWith   string // raw user@server
	SharedBy     string // local username; empty on the legacy path
	ShareOwner   string // local username owning the node
	NodeID       string
	Permissions  int
	Capabilities models.Capabilities
}

// IncomingShare is an announcement received from a remote server.
type IncomingShare struct {
	Remote       string
	RemoteID     string
	Token        string
	Name         string
	ItemType     string
	Owner        string
	SharedBy     string
	RecipientID  int64
	Permissions  int
	Capabilities models.Capabilities
}

// Provider drives the federated share lifecycle. It holds no mutable
// state between calls; every operation goes through the stores, so
// multiple instances can serve traffic concurrently.
type Provider struct {
	shares   ShareStore
	received ReceivedShareStore
	nodes    NodeStore
	resolver *address.Resolver
	tokens   TokenIssuer
	notifier Notifier
	trusted  *TrustedServers
	cfg      *config.FederationConfig
}

func NewProvider(
	shares ShareStore,
	received ReceivedShareStore,
	nodes NodeStore,
	resolver *address.Resolver,
	tokens TokenIssuer,
	notifier Notifier,
	trusted *TrustedServers,
	cfg *config.FederationConfig,
) *Provider {
	return &Provider{
		shares:   shares,
		received: received,
		nodes:    nodes,
		resolver: resolver,
		tokens:   tokens,
		notifier: notifier,
		trusted:  trusted,
		cfg:      cfg,
	}
}

// Create validates the request, announces the share to the remote
// server and persists it only after the remote acknowledged. Nothing
// is written when validation or the announcement fails.
func (p *Provider) Create(ctx context.Context, req CreateShareRequest) (*models.FederatedShare, error) {
	recipient, err := address.Parse(req.SharedWith)
	if err != nil {
		return nil, err
	}

	initiator := req.SharedBy
	if initiator == "" {
		initiator = req.ShareOwner
	}
	if p.resolver.LocalAddressFor(initiator).Equal(recipient) {
		return nil, ErrSelfShare
	}

	node, err := p.nodes.GetNodeInfo(ctx, req.NodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, ErrNodeNotFound
	}

	existing, err := p.shares.GetBySharedWithNode(ctx, recipient.String(), req.NodeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("sharing %s failed, because this item is already shared with %s: %w",
			node.Name, recipient, ErrAlreadyShared)
	}

	owner := req.ShareOwner
	if req.SharedBy == "" {
		// Legacy requests carry no initiator; the caller-supplied owner
		// may be a re-sharer, so derive the real owner from the parent
		// folder chain.
		owner, err = p.nodes.ResolveRootOwner(ctx, req.NodeID)
		if err != nil {
			return nil, err
		}
		if owner == "" {
			owner = req.ShareOwner
		}
	}

	ownerAddress := p.resolver.LocalAddressFor(owner)
	initiatorAddress := p.resolver.LocalAddressFor(initiator)
	shareToken := p.tokens.Issue()

	ok, err := p.notifier.SendRemoteShare(ctx, recipient, ownerAddress, initiatorAddress,
		shareToken, node.Name, node.Type, req.Permissions, req.Capabilities)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("sharing %s failed, could not find %s, maybe the server is currently unreachable: %w",
			node.Name, recipient, ErrRemoteRejected)
	}

	return p.shares.CreateFederatedShare(ctx, CreateShareParams{
		ShareType:    models.ShareTypeRemote,
		SharedWith:   recipient.String(),
		Owner:        owner,
		Initiator:    req.SharedBy,
		ItemType:     node.Type,
		ItemSource:   req.NodeID,
		Permissions:  req.Permissions,
		Token:        shareToken,
		Capabilities: req.Capabilities,
	})
}

// Update persists permission or acceptance changes. When the share is
// a re-share (owner and initiator differ) and the permissions moved,
// the remote end is told best-effort: the local record is already the
// source of truth, so a failed call is only logged.
func (p *Provider) Update(ctx context.Context, share *models.FederatedShare) error {
	old, err := p.shares.GetFederatedShareByID(ctx, share.ID)
	if err != nil {
		return err
	}
	if old == nil {
		return ErrShareNotFound
	}

	if err := p.shares.UpdateFederatedShare(ctx, share); err != nil {
		return err
	}

	if old.Owner != old.Initiator && old.Permissions != share.Permissions {
		recipient, err := address.Parse(share.SharedWith)
		if err != nil {
			log.Printf("WARN: share %d has unparseable recipient %q, skipping permission update: %v", share.ID, share.SharedWith, err)
			return nil
		}
		if ok, err := p.notifier.SendPermissionUpdate(ctx, recipient, share.Token, share.Permissions); err != nil || !ok {
			log.Printf("WARN: could not propagate permission change for share %d to %s: ok=%v err=%v", share.ID, recipient, ok, err)
		}
	}

	return nil
}

// GetShareByID fails with ErrShareNotFound for unknown ids.
func (p *Provider) GetShareByID(ctx context.Context, id int64) (*models.FederatedShare, error) {
	share, err := p.shares.GetFederatedShareByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}
	return share, nil
}

// Delete removes an outgoing share record.
func (p *Provider) Delete(ctx context.Context, id int64) error {
	share, err := p.shares.GetFederatedShareByID(ctx, id)
	if err != nil {
		return err
	}
	if share == nil {
		return ErrShareNotFound
	}
	return p.shares.DeleteFederatedShare(ctx, id)
}

// GetSharesBy lists shares initiated by user, in ascending id order so
// limit/offset pagination is deterministic. With includeReshares the
// result also covers shares of the user's own nodes initiated by
// someone else. limit < 0 disables the limit.
func (p *Provider) GetSharesBy(ctx context.Context, user string, nodeIDs []string, includeReshares bool, limit, offset int) ([]models.FederatedShare, error) {
	return p.shares.ListByOwnerOrInitiator(ctx, user, nodeIDs, includeReshares, limit, offset)
}

// GetAllSharesBy is GetSharesBy without pagination.
func (p *Provider) GetAllSharesBy(ctx context.Context, user string, nodeIDs []string, includeReshares bool) ([]models.FederatedShare, error) {
	return p.shares.ListByOwnerOrInitiator(ctx, user, nodeIDs, includeReshares, -1, 0)
}

// GetAllSharedWith lists shares addressed to recipients matching the
// given prefix, optionally narrowed to one node.
func (p *Provider) GetAllSharedWith(ctx context.Context, recipientPrefix string, nodeID *string) ([]models.FederatedShare, error) {
	return p.shares.ListBySharedWith(ctx, recipientPrefix, nodeID)
}

// UserDeleted removes every federated share the user participates in.
// The recipient role only matches when the deleted account's name is
// literally the stored share_with value, which for federated shares is
// almost never the case. Deleting an already-clean user is a no-op.
func (p *Provider) UserDeleted(ctx context.Context, uid string) error {
	for _, role := range []ShareRole{RoleOwner, RoleInitiator, RoleRecipient} {
		if _, err := p.shares.DeleteSharesByUser(ctx, uid, role); err != nil {
			return err
		}
	}
	return nil
}

// GetAccepted decides whether an inbound share may start accepted.
// Only the combination "auto-accept enabled, remote already trusted,
// and not auto-added by this very announcement" qualifies; everything
// else lands pending.
func (p *Provider) GetAccepted(sig TrustSignal) bool {
	if p.cfg.AutoAcceptTrusted != "yes" {
		return false
	}
	if sig.AutoAddServers {
		return false
	}
	return sig.IsRemoteTrusted
}

func (p *Provider) IsOutgoingServer2serverShareEnabled() bool {
	return p.cfg.OutgoingShareEnabled == "yes"
}

func (p *Provider) IsIncomingServer2serverShareEnabled() bool {
	return p.cfg.IncomingShareEnabled == "yes"
}
