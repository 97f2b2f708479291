// Package address parses and compares federated user identifiers of
// the form user@server.
package address

import (
	"errors"
	"strings"
)

var ErrInvalidAddress = errors.New("invalid federated address, expected user@server")

// Address identifies a user on a specific server. Server keeps the
// form it was supplied in (scheme and all) for display; comparisons go
// through the normalized host.
type Address struct {
	User   string `json:"user"`
	Server string `json:"server"`
}

// Parse splits a raw identifier at the last '@' so that usernames
// containing '@' still resolve. Fails when there is no separator or
// the server part is empty.
func Parse(raw string) (Address, error) {
	user, server, err := SplitUserRemote(raw)
	if err != nil {
		return Address{}, err
	}
	return Address{User: user, Server: server}, nil
}

// SplitUserRemote is the raw-string variant of Parse, for callers that
// want the pieces without the value type.
func SplitUserRemote(raw string) (string, string, error) {
	idx := strings.LastIndex(raw, "@")
	if idx <= 0 {
		return "", "", ErrInvalidAddress
	}
	user := raw[:idx]
	server := raw[idx+1:]
	if strings.TrimSpace(server) == "" {
		return "", "", ErrInvalidAddress
	}
	return user, server, nil
}

// NormalizedHost strips the scheme and trailing slashes and lowercases
// the rest, so that http://Server.com/ and server.com compare equal.
func NormalizedHost(server string) string {
	host := strings.TrimSpace(server)
	for _, prefix := range []string{"https://", "http://"} {
		if strings.HasPrefix(strings.ToLower(host), prefix) {
			host = host[len(prefix):]
			break
		}
	}
	host = strings.TrimRight(host, "/")
	return strings.ToLower(host)
}

func (a Address) NormalizedHost() string {
	return NormalizedHost(a.Server)
}

// Equal compares the user case-sensitively and the server host
// case-insensitively after normalization.
func (a Address) Equal(b Address) bool {
	return a.User == b.User && a.NormalizedHost() == b.NormalizedHost()
}

func (a Address) String() string {
	return a.User + "@" + a.Server
}

// Resolver knows this server's own externally reachable URL and builds
// federated addresses for local users. Pure over configuration.
type Resolver struct {
	localServer string
}

func NewResolver(localServer string) *Resolver {
	return &Resolver{localServer: localServer}
}

// LocalAddressFor combines a local username with this server's public
// identity, producing the address announced to remote peers.
func (r *Resolver) LocalAddressFor(localUser string) Address {
	return Address{User: localUser, Server: r.localServer}
}

// IsLocal reports whether the address points at this very server.
func (r *Resolver) IsLocal(a Address) bool {
	return a.NormalizedHost() == NormalizedHost(r.localServer)
}
