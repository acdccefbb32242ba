package permission

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

type staticRanks map[string][]string

func (s staticRanks) GetPermissions(rank string) []string {
	if perms, ok := s[rank]; ok {
		return perms
	}
	return []string{}
}

func TestResolve(t *testing.T) {
	ranks := staticRanks{
		"member": {"chat", "home"},
		"vip":    {"fly", "chat"},
		"admin":  {"ban"},
	}

	tests := map[string]struct {
		direct []string
		ranks  []string
		want   []string
	}{
		"direct only": {
			direct: []string{"warp", "afk"},
			want:   []string{"afk", "warp"},
		},
		"union of held ranks": {
			direct: []string{"warp"},
			ranks:  []string{"member", "vip"},
			want:   []string{"chat", "fly", "home", "warp"},
		},
		"unknown rank contributes nothing": {
			ranks: []string{"Default", "member"},
			want:  []string{"chat", "home"},
		},
		"nothing": {
			want: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.direct, tt.ranks, ranks))
		})
	}
}

// A player holding only a child rank does not get its parent's grants.
func TestResolve_DoesNotClimbHierarchy(t *testing.T) {
	ranks := staticRanks{
		"owner": {"stop"},
		"admin": {"ban"},
	}

	assert.Equal(t, []string{"ban"}, Resolve(nil, []string{"admin"}, ranks))
}

func TestDiff(t *testing.T) {
	granted, revoked := Diff([]string{"chat", "fly", "home"}, []string{"chat", "home", "warp", "afk"})

	assert.Equal(t, []string{"afk", "warp"}, granted)
	assert.Equal(t, []string{"fly"}, revoked)
}

func TestDiff_NoChange(t *testing.T) {
	granted, revoked := Diff([]string{"chat"}, []string{"chat"})

	assert.Empty(t, granted)
	assert.Empty(t, revoked)
}
