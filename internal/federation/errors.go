package federation

import "errors"

var (
	// ErrSelfShare: recipient resolves to the sharer's own federated address.
	ErrSelfShare = errors.New("not allowed to create a federated share with the same user")
	// ErrAlreadyShared: the (recipient, node) pair already has a federated share.
	ErrAlreadyShared = errors.New("item is already shared with the recipient")
	// ErrRemoteRejected: the remote server answered but declined the share.
	ErrRemoteRejected = errors.New("remote server rejected the share")
	// ErrTransport: the remote server could not be reached at all.
	ErrTransport = errors.New("remote server unreachable")
	// ErrShareNotFound: operation on an unknown share id or token.
	ErrShareNotFound = errors.New("federated share not found")
	// ErrNodeNotFound: the shared node does not exist or is not visible.
	ErrNodeNotFound = errors.New("node not found")
	// ErrFeatureDisabled: the federation direction is switched off in config.
	ErrFeatureDisabled = errors.New("federated sharing is disabled on this server")
)
