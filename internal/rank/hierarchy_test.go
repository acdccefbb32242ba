package rank

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rank-service/internal/repository/model"
	"rank-service/internal/utils"
	"testing"
)

func rankWithParent(name string, parent string) *model.Rank {
	r := &model.Rank{Name: name, Permissions: []string{}}
	if parent != "" {
		r.Parent = utils.PointerOf(parent)
	}
	return r
}

func childNames(n *Node) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestBuildHierarchy(t *testing.T) {
	h := BuildHierarchy([]*model.Rank{
		rankWithParent("owner", ""),
		rankWithParent("admin", "owner"),
		rankWithParent("mod", "admin"),
		rankWithParent("helper", "admin"),
		rankWithParent("guest", ""),
	})

	require.Len(t, h.Roots(), 2)
	assert.Equal(t, "owner", h.Roots()[0].Name)
	assert.Equal(t, "guest", h.Roots()[1].Name)
	assert.Equal(t, 5, h.Len())

	admin, ok := h.Node("admin")
	require.True(t, ok)
	assert.Equal(t, []string{"mod", "helper"}, childNames(admin))

	tests := map[string]int{"owner": 0, "admin": 1, "mod": 2, "helper": 2, "guest": 0}
	for name, want := range tests {
		depth, ok := h.Depth(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, depth, name)
	}

	_, ok = h.Depth("missing")
	assert.False(t, ok)
}

func TestBuildHierarchy_DanglingParentBecomesRoot(t *testing.T) {
	h := BuildHierarchy([]*model.Rank{
		rankWithParent("member", "deleted"),
		rankWithParent("trial", "member"),
	})

	require.Len(t, h.Roots(), 1)
	assert.Equal(t, "member", h.Roots()[0].Name)

	depth, _ := h.Depth("trial")
	assert.Equal(t, 1, depth)
}

func TestBuildHierarchy_CycleMembersBecomeRoots(t *testing.T) {
	h := BuildHierarchy([]*model.Rank{
		rankWithParent("a", "b"),
		rankWithParent("b", "a"),
		rankWithParent("c", "a"),
	})

	require.Len(t, h.Roots(), 2)
	assert.Equal(t, "a", h.Roots()[0].Name)
	assert.Equal(t, "b", h.Roots()[1].Name)

	depth, ok := h.Depth("c")
	assert.True(t, ok)
	assert.Equal(t, 1, depth)
}

func TestBuildHierarchy_Empty(t *testing.T) {
	h := BuildHierarchy(nil)

	assert.Empty(t, h.Roots())
	assert.Equal(t, 0, h.Len())
}
