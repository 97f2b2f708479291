package database

import (
	"context"

	"serwer-federacji/internal/models"
)

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, display_name, created_at, storage_quota_bytes, storage_used_bytes
		FROM users
		WHERE username = $1
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.DisplayName,
		&user.CreatedAt, &user.StorageQuotaBytes, &user.StorageUsedBytes,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (q *Queries) CreateUser(ctx context.Context, username, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, display_name, created_at, storage_quota_bytes, storage_used_bytes
	`
	var user models.User
	err := q.db.QueryRow(ctx, query, username, passwordHash).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.DisplayName,
		&user.CreatedAt, &user.StorageQuotaBytes, &user.StorageUsedBytes,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a local account. Federated share cleanup is the
// provider's job and must run before this.
func (q *Queries) DeleteUser(ctx context.Context, userID int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}
