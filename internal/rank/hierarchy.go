package rank

import "rank-service/internal/repository/model"

type Node struct {
	Name     string
	Depth    int
	Children []*Node
}

// Hierarchy is a read-only tree view derived from the flat rank list. It is
// rebuilt on every rank mutation and never consulted for existence checks.
type Hierarchy struct {
	roots []*Node
	nodes map[string]*Node
}

// BuildHierarchy groups ranks by parent. A rank whose parent is missing, or
// which sits on a parent cycle, becomes a root.
func BuildHierarchy(ranks []*model.Rank) *Hierarchy {
	h := &Hierarchy{nodes: make(map[string]*Node, len(ranks))}

	parents := make(map[string]string, len(ranks))
	for _, r := range ranks {
		h.nodes[r.Name] = &Node{Name: r.Name}
		if r.Parent != nil {
			parents[r.Name] = *r.Parent
		}
	}

	for _, r := range ranks {
		node := h.nodes[r.Name]
		parent, ok := parents[r.Name]
		if !ok || h.nodes[parent] == nil || onCycle(r.Name, parents) {
			h.roots = append(h.roots, node)
			continue
		}
		h.nodes[parent].Children = append(h.nodes[parent].Children, node)
	}

	for _, root := range h.roots {
		setDepth(root, 0)
	}
	return h
}

func onCycle(name string, parents map[string]string) bool {
	seen := map[string]bool{name: true}
	current := name
	for {
		parent, ok := parents[current]
		if !ok {
			return false
		}
		if parent == name {
			return true
		}
		if seen[parent] {
			// cycle further up that does not include name
			return false
		}
		seen[parent] = true
		current = parent
	}
}

func setDepth(node *Node, depth int) {
	node.Depth = depth
	for _, child := range node.Children {
		setDepth(child, depth+1)
	}
}

func (h *Hierarchy) Roots() []*Node {
	return h.roots
}

func (h *Hierarchy) Node(name string) (*Node, bool) {
	n, ok := h.nodes[name]
	return n, ok
}

// Depth returns how far name is from its root. Roots have depth 0.
func (h *Hierarchy) Depth(name string) (int, bool) {
	n, ok := h.nodes[name]
	if !ok {
		return 0, false
	}
	return n.Depth, true
}

func (h *Hierarchy) Len() int {
	return len(h.nodes)
}
