package database

import (
	"context"
	"errors"

	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

const receivedShareColumns = `id, remote, remote_id, token, name, item_type, owner, shared_by,
		recipient_id, permissions, accepted, capabilities, received_at`

func scanReceivedShare(row interface{ Scan(...interface{}) error }) (*models.ReceivedShare, error) {
	var share models.ReceivedShare
	err := row.Scan(
		&share.ID,
		&share.Remote,
		&share.RemoteID,
		&share.Token,
		&share.Name,
		&share.ItemType,
		&share.Owner,
		&share.SharedBy,
		&share.RecipientID,
		&share.Permissions,
		&share.Accepted,
		&share.Capabilities,
		&share.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (q *Queries) CreateReceivedShare(ctx context.Context, share *models.ReceivedShare) (*models.ReceivedShare, error) {
	query := `
		INSERT INTO received_shares (remote, remote_id, token, name, item_type, owner, shared_by,
			recipient_id, permissions, accepted, capabilities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + receivedShareColumns

	row := q.db.QueryRow(ctx, query,
		share.Remote, share.RemoteID, share.Token, share.Name, share.ItemType,
		share.Owner, share.SharedBy, share.RecipientID, share.Permissions,
		share.Accepted, share.Capabilities)

	created, err := scanReceivedShare(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The same remote announcing the same token twice is a
			// replay; surface it like a duplicate share.
			return nil, federation.ErrAlreadyShared
		}
		return nil, err
	}
	return created, nil
}

func (q *Queries) GetReceivedShareByToken(ctx context.Context, token string) (*models.ReceivedShare, error) {
	query := `SELECT ` + receivedShareColumns + ` FROM received_shares WHERE token = $1`

	share, err := scanReceivedShare(q.db.QueryRow(ctx, query, token))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

func (q *Queries) GetReceivedShareByID(ctx context.Context, id int64) (*models.ReceivedShare, error) {
	query := `SELECT ` + receivedShareColumns + ` FROM received_shares WHERE id = $1`

	share, err := scanReceivedShare(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

func (q *Queries) ListReceivedByRecipient(ctx context.Context, recipientID int64) ([]models.ReceivedShare, error) {
	query := `
		SELECT ` + receivedShareColumns + `
		FROM received_shares
		WHERE recipient_id = $1
		ORDER BY id ASC
	`
	rows, err := q.db.Query(ctx, query, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.ReceivedShare
	for rows.Next() {
		share, err := scanReceivedShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *share)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if shares == nil {
		return []models.ReceivedShare{}, nil
	}

	return shares, nil
}

func (q *Queries) SetReceivedShareAccepted(ctx context.Context, id int64, accepted bool) error {
	res, err := q.db.Exec(ctx, `UPDATE received_shares SET accepted = $2 WHERE id = $1`, id, accepted)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return federation.ErrShareNotFound
	}
	return nil
}

func (q *Queries) UpdateReceivedSharePermissions(ctx context.Context, id int64, permissions int) error {
	res, err := q.db.Exec(ctx, `UPDATE received_shares SET permissions = $2 WHERE id = $1`, id, permissions)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return federation.ErrShareNotFound
	}
	return nil
}

func (q *Queries) DeleteReceivedShare(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM received_shares WHERE id = $1`, id)
	return err
}

func (q *Queries) DeleteReceivedByRecipient(ctx context.Context, recipientID int64) (int64, error) {
	res, err := q.db.Exec(ctx, `DELETE FROM received_shares WHERE recipient_id = $1`, recipientID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
