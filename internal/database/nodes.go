package database

import (
	"context"
	"errors"

	"serwer-federacji/internal/federation"
	"serwer-federacji/internal/models"
)

var ErrNodeAlreadyExists = errors.New("a node with this name already exists in the target folder")

type CreateNodeParams struct {
	ID        string
	OwnerID   int64
	ParentID  *string
	Name      string
	NodeType  string
	SizeBytes *int64
	MimeType  *string
}

func (q *Queries) CreateNode(ctx context.Context, arg CreateNodeParams) (*models.Node, error) {
	query := `
		INSERT INTO nodes (id, owner_id, parent_id, name, node_type, size_bytes, mime_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner_id, parent_id, name, node_type, size_bytes, mime_type, created_at, modified_at
	`
	row := q.db.QueryRow(ctx, query,
		arg.ID, arg.OwnerID, arg.ParentID, arg.Name, arg.NodeType, arg.SizeBytes, arg.MimeType)

	var node models.Node
	err := row.Scan(
		&node.ID, &node.OwnerID, &node.ParentID, &node.Name, &node.NodeType,
		&node.SizeBytes, &node.MimeType, &node.CreatedAt, &node.ModifiedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNodeAlreadyExists
		}
		return nil, err
	}

	return &node, nil
}

// GetNodeByID returns the node only when ownerID owns it; nil when it
// does not exist or belongs to someone else.
func (q *Queries) GetNodeByID(ctx context.Context, nodeID string, ownerID int64) (*models.Node, error) {
	query := `
		SELECT id, owner_id, parent_id, name, node_type, size_bytes, mime_type, created_at, modified_at
		FROM nodes
		WHERE id = $1 AND owner_id = $2
	`
	var node models.Node
	err := q.db.QueryRow(ctx, query, nodeID, ownerID).Scan(
		&node.ID, &node.OwnerID, &node.ParentID, &node.Name, &node.NodeType,
		&node.SizeBytes, &node.MimeType, &node.CreatedAt, &node.ModifiedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &node, nil
}

// GetNodeInfo resolves the metadata the federation provider needs,
// including the owner's username.
func (q *Queries) GetNodeInfo(ctx context.Context, nodeID string) (*federation.NodeInfo, error) {
	query := `
		SELECT n.id, n.name, n.node_type, u.username
		FROM nodes n
		JOIN users u ON u.id = n.owner_id
		WHERE n.id = $1
	`
	var info federation.NodeInfo
	err := q.db.QueryRow(ctx, query, nodeID).Scan(&info.ID, &info.Name, &info.Type, &info.OwnerUsername)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

// ResolveRootOwner walks the parent chain to the topmost ancestor and
// returns its owner's username. Empty string when the node is unknown.
func (q *Queries) ResolveRootOwner(ctx context.Context, nodeID string) (string, error) {
	query := `
		WITH RECURSIVE node_chain AS (
			SELECT id, parent_id, owner_id
			FROM nodes
			WHERE id = $1

			UNION ALL

			SELECT n.id, n.parent_id, n.owner_id
			FROM nodes n
			JOIN node_chain c ON n.id = c.parent_id
		)
		SELECT u.username
		FROM node_chain c
		JOIN users u ON u.id = c.owner_id
		WHERE c.parent_id IS NULL
		LIMIT 1
	`
	var username string
	err := q.db.QueryRow(ctx, query, nodeID).Scan(&username)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return username, nil
}
