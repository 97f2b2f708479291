package address

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	addr, err := Parse("user@server.com")
	require.NoError(t, err)
	require.Equal(t, "user", addr.User)
	require.Equal(t, "server.com", addr.Server)
}

func TestParseUserWithAtSign(t *testing.T) {
	addr, err := Parse("jan@kowalski@chmura.example.org")
	require.NoError(t, err)
	require.Equal(t, "jan@kowalski", addr.User)
	require.Equal(t, "chmura.example.org", addr.Server)
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "useronly", "@server.com", "user@", "user@   "}
	for _, raw := range cases {
		_, err := Parse(raw)
		require.ErrorIs(t, err, ErrInvalidAddress, "input: %q", raw)
	}
}

func TestSplitUserRemote(t *testing.T) {
	user, server, err := SplitUserRemote("user@http://server.com/")
	require.NoError(t, err)
	require.Equal(t, "user", user)
	require.Equal(t, "http://server.com/", server)
}

func TestNormalizedHost(t *testing.T) {
	cases := map[string]string{
		"server.com":            "server.com",
		"http://server.com":     "server.com",
		"https://Server.COM/":   "server.com",
		"http://server.com///":  "server.com",
		"SERVER.com":            "server.com",
		"https://server.com:80": "server.com:80",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizedHost(in), "input: %q", in)
	}
}

func TestEqual(t *testing.T) {
	a, _ := Parse("user@https://server.com/")
	b, _ := Parse("user@SERVER.com")
	c, _ := Parse("User@server.com")
	d, _ := Parse("user@other.com")

	require.True(t, a.Equal(b), "host comparison should ignore scheme and case")
	require.False(t, a.Equal(c), "user comparison is case-sensitive")
	require.False(t, a.Equal(d))
}

func TestResolver(t *testing.T) {
	r := NewResolver("https://localhost/")

	addr := r.LocalAddressFor("sharedBy")
	require.Equal(t, "sharedBy", addr.User)
	require.Equal(t, "https://localhost/", addr.Server)
	require.Equal(t, "sharedBy@https://localhost/", addr.String())

	remote, _ := Parse("user@server.com")
	local, _ := Parse("sharedBy@localhost")
	require.False(t, r.IsLocal(remote))
	require.True(t, r.IsLocal(local))
}
