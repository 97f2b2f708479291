package federation

import (
	"sync"

	"serwer-federacji/internal/address"
)

// TrustSignal carries, for one inbound share announcement, what we
// knew about the sender at the moment it arrived. It is consumed once
// by Provider.GetAccepted and never persisted.
type TrustSignal struct {
	Remote          string
	AutoAddServers  bool
	IsRemoteTrusted bool
}

// TrustedServers is the runtime view of the trusted-server list. When
// auto-add is on, previously unseen servers are appended on first
// contact, but the signal for that very announcement still reports
// them as untrusted so a remote cannot self-certify in the same
// transaction it is first seen.
type TrustedServers struct {
	mu      sync.RWMutex
	hosts   map[string]bool
	autoAdd bool
}

func NewTrustedServers(servers []string, autoAdd bool) *TrustedServers {
	hosts := make(map[string]bool, len(servers))
	for _, s := range servers {
		hosts[address.NormalizedHost(s)] = true
	}
	return &TrustedServers{hosts: hosts, autoAdd: autoAdd}
}

func (t *TrustedServers) IsTrusted(server string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.hosts[address.NormalizedHost(server)]
}

// SignalFor builds the trust signal for an announcement from remote,
// applying the auto-add side effect first.
func (t *TrustedServers) SignalFor(remote string) TrustSignal {
	trusted := t.IsTrusted(remote)
	if t.autoAdd && !trusted {
		t.mu.Lock()
		t.hosts[address.NormalizedHost(remote)] = true
		t.mu.Unlock()
	}
	return TrustSignal{
		Remote:          remote,
		AutoAddServers:  t.autoAdd,
		IsRemoteTrusted: trusted,
	}
}
