package database

import (
	"context"
	"errors"
	"fmt"

	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

const federatedShareColumns = `id, share_type, share_with, uid_owner, uid_initiator, item_type,
		item_source, file_source, permissions, accepted, token, attributes, shared_at`

func scanFederatedShare(row interface{ Scan(...interface{}) error }) (*models.FederatedShare, error) {
	var share models.FederatedShare
	err := row.Scan(
		&share.ID,
		&share.ShareType,
		&share.SharedWith,
		&share.Owner,
		&share.Initiator,
		&share.ItemType,
		&share.ItemSource,
		&share.FileSource,
		&share.Permissions,
		&share.Accepted,
		&share.Token,
		&share.Capabilities,
		&share.SharedAt,
	)
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (q *Queries) CreateFederatedShare(ctx context.Context, arg federation.CreateShareParams) (*models.FederatedShare, error) {
	query := `
		INSERT INTO shares (share_type, share_with, uid_owner, uid_initiator, item_type,
			item_source, file_source, permissions, accepted, token, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7, FALSE, $8, $9)
		RETURNING ` + federatedShareColumns

	row := q.db.QueryRow(ctx, query,
		arg.ShareType, arg.SharedWith, arg.Owner, arg.Initiator, arg.ItemType,
		arg.ItemSource, arg.Permissions, arg.Token, arg.Capabilities)

	share, err := scanFederatedShare(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, federation.ErrAlreadyShared
		}
		return nil, err
	}

	return share, nil
}

func (q *Queries) UpdateFederatedShare(ctx context.Context, share *models.FederatedShare) error {
	query := `
		UPDATE shares
		SET permissions = $2, accepted = $3, attributes = $4
		WHERE id = $1 AND share_type = $5
	`
	res, err := q.db.Exec(ctx, query,
		share.ID, share.Permissions, share.Accepted, share.Capabilities, models.ShareTypeRemote)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return federation.ErrShareNotFound
	}
	return nil
}

func (q *Queries) GetFederatedShareByID(ctx context.Context, id int64) (*models.FederatedShare, error) {
	query := `SELECT ` + federatedShareColumns + ` FROM shares WHERE id = $1 AND share_type = $2`

	share, err := scanFederatedShare(q.db.QueryRow(ctx, query, id, models.ShareTypeRemote))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

func (q *Queries) GetBySharedWithNode(ctx context.Context, sharedWith, nodeID string) (*models.FederatedShare, error) {
	query := `
		SELECT ` + federatedShareColumns + `
		FROM shares
		WHERE share_type = $1 AND share_with = $2 AND item_source = $3
	`
	share, err := scanFederatedShare(q.db.QueryRow(ctx, query, models.ShareTypeRemote, sharedWith, nodeID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

func (q *Queries) GetFederatedShareByToken(ctx context.Context, token string) (*models.FederatedShare, error) {
	query := `SELECT ` + federatedShareColumns + ` FROM shares WHERE share_type = $1 AND token = $2`

	share, err := scanFederatedShare(q.db.QueryRow(ctx, query, models.ShareTypeRemote, token))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return share, nil
}

func (q *Queries) ListBySharedWith(ctx context.Context, recipientPrefix string, nodeID *string) ([]models.FederatedShare, error) {
	query := `
		SELECT ` + federatedShareColumns + `
		FROM shares
		WHERE share_type = $1 AND share_with LIKE $2 || '%'
	`
	args := []interface{}{models.ShareTypeRemote, recipientPrefix}
	if nodeID != nil {
		query += ` AND item_source = $3`
		args = append(args, *nodeID)
	}
	query += ` ORDER BY id ASC`

	return q.listFederatedShares(ctx, query, args...)
}

// ListByOwnerOrInitiator orders by id ascending so limit/offset paging
// is stable. limit < 0 means unlimited.
func (q *Queries) ListByOwnerOrInitiator(ctx context.Context, user string, nodeIDs []string, includeReshares bool, limit, offset int) ([]models.FederatedShare, error) {
	query := `
		SELECT ` + federatedShareColumns + `
		FROM shares
		WHERE share_type = $1
	`
	args := []interface{}{models.ShareTypeRemote, user}
	if includeReshares {
		query += ` AND (uid_initiator = $2 OR uid_owner = $2)`
	} else {
		query += ` AND uid_initiator = $2`
	}
	if len(nodeIDs) > 0 {
		args = append(args, nodeIDs)
		query += fmt.Sprintf(` AND item_source = ANY($%d)`, len(args))
	}
	query += ` ORDER BY id ASC`
	if limit >= 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	return q.listFederatedShares(ctx, query, args...)
}

func (q *Queries) listFederatedShares(ctx context.Context, query string, args ...interface{}) ([]models.FederatedShare, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.FederatedShare
	for rows.Next() {
		share, err := scanFederatedShare(rows)
		if err != nil {
			return nil, err
		}
		shares = append(shares, *share)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if shares == nil {
		return []models.FederatedShare{}, nil
	}

	return shares, nil
}

func (q *Queries) DeleteFederatedShare(ctx context.Context, id int64) error {
	query := `DELETE FROM shares WHERE id = $1 AND share_type = $2`
	_, err := q.db.Exec(ctx, query, id, models.ShareTypeRemote)
	return err
}

// DeleteSharesByUser removes every federated share in which uid
// occupies the given role. Returns the number of removed rows; zero is
// not an error.
func (q *Queries) DeleteSharesByUser(ctx context.Context, uid string, role federation.ShareRole) (int64, error) {
	var column string
	switch role {
	case federation.RoleOwner:
		column = "uid_owner"
	case federation.RoleInitiator:
		column = "uid_initiator"
	case federation.RoleRecipient:
		column = "share_with"
	default:
		return 0, fmt.Errorf("unknown share role %q", role)
	}

	query := fmt.Sprintf(`DELETE FROM shares WHERE share_type = $1 AND %s = $2`, column)
	res, err := q.db.Exec(ctx, query, models.ShareTypeRemote, uid)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected(), nil
}
