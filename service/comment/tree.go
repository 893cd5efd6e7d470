package comment

import (
	"sort"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

// MaxThreadDepth is how deep reply chains nest in the rendered tree. Roots
// sit at depth 0. Replies whose natural depth would exceed the cap are
// flattened under their ancestor at the cap so no comment is ever dropped.
const MaxThreadDepth = 3

// BuildTree converts a flat comment list into a forest of threads. Top-level
// comments are ordered newest first, replies oldest first, with IDs breaking
// timestamp ties, so the output is deterministic and rebuilding from the same
// input yields a structurally identical forest.
//
// Input comments are copied; the caller's slice is never mutated. Replies
// whose parent is missing from the input are promoted to top level rather
// than silently lost.
func BuildTree(comments []persist.Comment) []*persist.Comment {
	return BuildTreeWithDepth(comments, MaxThreadDepth)
}

// BuildTreeWithDepth is BuildTree with a caller-chosen depth cap. A cap below
// 1 disables nesting entirely and returns every comment at top level.
func BuildTreeWithDepth(comments []persist.Comment, maxDepth int) []*persist.Comment {
	nodes := make(map[persist.DBID]*persist.Comment, len(comments))
	order := make([]*persist.Comment, 0, len(comments))

	for _, c := range comments {
		c := c
		c.Replies = []*persist.Comment{}
		nodes[c.ID] = &c
		order = append(order, &c)
	}

	roots := make([]*persist.Comment, 0, len(order))
	for _, node := range order {
		if !node.IsReply() {
			roots = append(roots, node)
			continue
		}

		parent, ok := nodes[node.ParentID]
		if !ok || parent == node {
			// Orphaned reply: keep it visible at top level.
			roots = append(roots, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}

	for _, node := range order {
		sortOldestFirst(node.Replies)
	}
	sortNewestFirst(roots)

	if maxDepth < 1 {
		// No nesting at all: every comment renders at top level.
		flat := make([]*persist.Comment, 0, len(order))
		for _, node := range order {
			node.Replies = []*persist.Comment{}
			flat = append(flat, node)
		}
		sortNewestFirst(flat)
		return flat
	}

	for _, root := range roots {
		capDepth(root, 0, maxDepth)
	}

	return roots
}

// Count returns the total number of comments in the forest.
func Count(forest []*persist.Comment) int {
	total := 0
	for _, node := range forest {
		total += 1 + Count(node.Replies)
	}
	return total
}

// capDepth walks the thread and, at nodes sitting exactly at maxDepth,
// replaces their subtree with a flat, chronologically ordered reply list.
func capDepth(node *persist.Comment, depth, maxDepth int) {
	if depth == maxDepth {
		flattened := collectDescendants(node)
		sortOldestFirst(flattened)
		node.Replies = flattened
		return
	}

	for _, reply := range node.Replies {
		capDepth(reply, depth+1, maxDepth)
	}
}

// collectDescendants gathers every node below n and clears their reply
// slices, since they all become siblings.
func collectDescendants(n *persist.Comment) []*persist.Comment {
	var out []*persist.Comment
	for _, reply := range n.Replies {
		children := collectDescendants(reply)
		reply.Replies = []*persist.Comment{}
		out = append(out, reply)
		out = append(out, children...)
	}
	return out
}

func sortOldestFirst(nodes []*persist.Comment) {
	sort.SliceStable(nodes, func(i, j int) bool {
		ti, tj := nodes[i].CreatedAt.Time(), nodes[j].CreatedAt.Time()
		if ti.Equal(tj) {
			return nodes[i].ID < nodes[j].ID
		}
		return ti.Before(tj)
	})
}

func sortNewestFirst(nodes []*persist.Comment) {
	sort.SliceStable(nodes, func(i, j int) bool {
		ti, tj := nodes[i].CreatedAt.Time(), nodes[j].CreatedAt.Time()
		if ti.Equal(tj) {
			return nodes[i].ID > nodes[j].ID
		}
		return ti.After(tj)
	})
}
