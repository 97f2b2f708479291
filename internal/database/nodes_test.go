package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndGetNode(t *testing.T) {
	testUserSeq++
	owner := createTestUser(t, fmt.Sprintf("node_owner_%d", testUserSeq))
	stranger := createTestUser(t, fmt.Sprintf("node_stranger_%d", testUserSeq))

	node := createTestNode(t, CreateNodeParams{
		ID:       fmt.Sprintf("node_%d", testUserSeq),
		OwnerID:  owner.ID,
		Name:     "dokument.txt",
		NodeType: "file",
	})

	got, err := testStore.GetNodeByID(context.Background(), node.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "dokument.txt", got.Name)

	// Ownership scoped: someone else's id gets nothing.
	hidden, err := testStore.GetNodeByID(context.Background(), node.ID, stranger.ID)
	require.NoError(t, err)
	require.Nil(t, hidden)

	_, err = testStore.CreateNode(context.Background(), CreateNodeParams{
		ID:       fmt.Sprintf("node_dup_%d", testUserSeq),
		OwnerID:  owner.ID,
		Name:     "dokument.txt",
		NodeType: "file",
	})
	require.ErrorIs(t, err, ErrNodeAlreadyExists)
}

func TestGetNodeInfo(t *testing.T) {
	testUserSeq++
	owner := createTestUser(t, fmt.Sprintf("info_owner_%d", testUserSeq))
	node := createTestNode(t, CreateNodeParams{
		ID:       fmt.Sprintf("info_node_%d", testUserSeq),
		OwnerID:  owner.ID,
		Name:     "myFile",
		NodeType: "file",
	})

	info, err := testStore.GetNodeInfo(context.Background(), node.ID)
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, node.ID, info.ID)
	require.Equal(t, "myFile", info.Name)
	require.Equal(t, "file", info.Type)
	require.Equal(t, owner.Username, info.OwnerUsername)

	missing, err := testStore.GetNodeInfo(context.Background(), "no_such_node")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestResolveRootOwner(t *testing.T) {
	testUserSeq++
	rootOwner := createTestUser(t, fmt.Sprintf("root_owner_%d", testUserSeq))

	root := createTestNode(t, CreateNodeParams{
		ID:       fmt.Sprintf("root_%d", testUserSeq),
		OwnerID:  rootOwner.ID,
		Name:     "folder1",
		NodeType: "folder",
	})
	mid := createTestNode(t, CreateNodeParams{
		ID:       fmt.Sprintf("mid_%d", testUserSeq),
		OwnerID:  rootOwner.ID,
		ParentID: &root.ID,
		Name:     "folder2",
		NodeType: "folder",
	})
	leaf := createTestNode(t, CreateNodeParams{
		ID:       fmt.Sprintf("leaf_%d", testUserSeq),
		OwnerID:  rootOwner.ID,
		ParentID: &mid.ID,
		Name:     "myFile",
		NodeType: "file",
	})

	username, err := testStore.ResolveRootOwner(context.Background(), leaf.ID)
	require.NoError(t, err)
	require.Equal(t, rootOwner.Username, username)

	// A root node resolves to its own owner.
	username, err = testStore.ResolveRootOwner(context.Background(), root.ID)
	require.NoError(t, err)
	require.Equal(t, rootOwner.Username, username)

	username, err = testStore.ResolveRootOwner(context.Background(), "no_such_node")
	require.NoError(t, err)
	require.Empty(t, username)
}
