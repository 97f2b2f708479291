package federation

import (
	"context"

	"serwer-federacji/internal/address"
	"serwer-federacji/internal/models"
)

// ReceiveRemoteShare handles an inbound announcement. The trust signal
// is computed from what we knew about the sender before this request
// and decides whether the share starts accepted or pending.
func (p *Provider) ReceiveRemoteShare(ctx context.Context, inc IncomingShare) (*models.ReceivedShare, error) {
	if !p.IsIncomingServer2serverShareEnabled() {
		return nil, ErrFeatureDisabled
	}

	sig := p.trusted.SignalFor(inc.Remote)
	accepted := p.GetAccepted(sig)

	return p.received.CreateReceivedShare(ctx, &models.ReceivedShare{
		Remote:       address.NormalizedHost(inc.Remote),
		RemoteID:     inc.RemoteID,
		Token:        inc.Token,
		Name:         inc.Name,
		ItemType:     inc.ItemType,
		Owner:        inc.Owner,
		SharedBy:     inc.SharedBy,
		RecipientID:  inc.RecipientID,
		Permissions:  inc.Permissions,
		Accepted:     accepted,
		Capabilities: inc.Capabilities,
	})
}

// ListReceivedShares returns every share announced to the given local
// user, pending and accepted alike.
func (p *Provider) ListReceivedShares(ctx context.Context, recipientID int64) ([]models.ReceivedShare, error) {
	return p.received.ListReceivedByRecipient(ctx, recipientID)
}

// SetReceivedShareAccepted records the local user's accept/decline
// decision for a pending share.
func (p *Provider) SetReceivedShareAccepted(ctx context.Context, id, recipientID int64, accepted bool) (*models.ReceivedShare, error) {
	share, err := p.received.GetReceivedShareByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if share == nil || share.RecipientID != recipientID {
		return nil, ErrShareNotFound
	}
	if err := p.received.SetReceivedShareAccepted(ctx, id, accepted); err != nil {
		return nil, err
	}
	share.Accepted = accepted
	return share, nil
}

// UpdateReceivedPermissions applies a permission change pushed by the
// remote end, addressed by the share token.
func (p *Provider) UpdateReceivedPermissions(ctx context.Context, shareToken string, permissions int) (*models.ReceivedShare, error) {
	share, err := p.received.GetReceivedShareByToken(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}
	if err := p.received.UpdateReceivedSharePermissions(ctx, share.ID, permissions); err != nil {
		return nil, err
	}
	share.Permissions = permissions
	return share, nil
}

// RevokeReceivedShare removes a received share after the remote end
// withdrew it, addressed by the share token.
func (p *Provider) RevokeReceivedShare(ctx context.Context, shareToken string) (*models.ReceivedShare, error) {
	share, err := p.received.GetReceivedShareByToken(ctx, shareToken)
	if err != nil {
		return nil, err
	}
	if share == nil {
		return nil, ErrShareNotFound
	}
	if err := p.received.DeleteReceivedShare(ctx, share.ID); err != nil {
		return nil, err
	}
	return share, nil
}

// ReceivedUserDeleted drops every received share addressed to a local
// account being removed.
func (p *Provider) ReceivedUserDeleted(ctx context.Context, recipientID int64) error {
	_, err := p.received.DeleteReceivedByRecipient(ctx, recipientID)
	return err
}
