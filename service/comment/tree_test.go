package comment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

var treeEpoch = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func flatComment(id, parentID persist.DBID, minutesAfterEpoch int) persist.Comment {
	return persist.Comment{
		ID:        id,
		PostID:    "post-1",
		ParentID:  parentID,
		Content:   fmt.Sprintf("comment %s", id),
		CreatedAt: persist.CreationTime(treeEpoch.Add(time.Duration(minutesAfterEpoch) * time.Minute)),
	}
}

func TestBuildTree_NestsRepliesUnderParents(t *testing.T) {
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "1", 1),
		flatComment("3", "1", 2),
	}

	forest := BuildTree(input)

	require.Len(t, forest, 1)
	assert.Equal(t, persist.DBID("1"), forest[0].ID)
	require.Len(t, forest[0].Replies, 2)
	assert.Equal(t, persist.DBID("2"), forest[0].Replies[0].ID)
	assert.Equal(t, persist.DBID("3"), forest[0].Replies[1].ID)
	assert.Empty(t, forest[0].Replies[0].Replies)
	assert.Empty(t, forest[0].Replies[1].Replies)
}

func TestBuildTree_RootsNewestFirstRepliesOldestFirst(t *testing.T) {
	input := []persist.Comment{
		flatComment("a", "", 0),
		flatComment("b", "", 30),
		flatComment("c", "", 15),
		flatComment("r2", "a", 20),
		flatComment("r1", "a", 10),
	}

	forest := BuildTree(input)

	require.Len(t, forest, 3)
	assert.Equal(t, persist.DBID("b"), forest[0].ID)
	assert.Equal(t, persist.DBID("c"), forest[1].ID)
	assert.Equal(t, persist.DBID("a"), forest[2].ID)

	require.Len(t, forest[2].Replies, 2)
	assert.Equal(t, persist.DBID("r1"), forest[2].Replies[0].ID)
	assert.Equal(t, persist.DBID("r2"), forest[2].Replies[1].ID)
}

func TestBuildTree_PreservesNodeCount(t *testing.T) {
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "1", 1),
		flatComment("3", "2", 2),
		flatComment("4", "3", 3),
		flatComment("5", "4", 4),
		flatComment("6", "5", 5),
		flatComment("7", "", 6),
	}

	forest := BuildTree(input)

	assert.Equal(t, len(input), Count(forest))
}

func TestBuildTree_FlattensBeyondMaxDepth(t *testing.T) {
	// Chain 1 <- 2 <- 3 <- 4 <- 5 <- 6: natural depths 0..5. Everything
	// deeper than depth 3 must end up as a direct reply of the node at
	// depth 3 rather than disappearing.
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "1", 1),
		flatComment("3", "2", 2),
		flatComment("4", "3", 3),
		flatComment("5", "4", 4),
		flatComment("6", "5", 5),
	}

	forest := BuildTree(input)

	require.Len(t, forest, 1)
	node := forest[0]
	for _, want := range []persist.DBID{"2", "3", "4"} {
		require.Len(t, node.Replies, 1)
		node = node.Replies[0]
		assert.Equal(t, want, node.ID)
	}

	// node is now the depth-3 comment; its subtree is flat and ordered.
	require.Len(t, node.Replies, 2)
	assert.Equal(t, persist.DBID("5"), node.Replies[0].ID)
	assert.Equal(t, persist.DBID("6"), node.Replies[1].ID)
	assert.Empty(t, node.Replies[0].Replies)
	assert.Empty(t, node.Replies[1].Replies)

	assert.Equal(t, len(input), Count(forest))
}

func TestBuildTree_Idempotent(t *testing.T) {
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "1", 5),
		flatComment("3", "1", 3),
		flatComment("4", "2", 8),
		flatComment("5", "", 1),
		flatComment("6", "5", 2),
		flatComment("7", "4", 9),
		flatComment("8", "7", 10),
		flatComment("9", "8", 11),
	}

	first := BuildTree(input)
	second := BuildTree(input)

	assert.Equal(t, structure(first), structure(second))
}

func TestBuildTree_EmptyInput(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
	assert.Empty(t, BuildTree([]persist.Comment{}))
}

func TestBuildTree_OrphanedReplySurfacesAtTopLevel(t *testing.T) {
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "missing", 1),
	}

	forest := BuildTree(input)

	require.Len(t, forest, 2)
	assert.Equal(t, len(input), Count(forest))
}

func TestBuildTree_DoesNotMutateInput(t *testing.T) {
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "1", 1),
	}

	BuildTree(input)

	assert.Nil(t, input[0].Replies)
	assert.Nil(t, input[1].Replies)
}

func TestBuildTreeWithDepth_ZeroDisablesNesting(t *testing.T) {
	input := []persist.Comment{
		flatComment("1", "", 0),
		flatComment("2", "1", 1),
		flatComment("3", "2", 2),
	}

	forest := BuildTreeWithDepth(input, 0)

	require.Len(t, forest, 3)
	for _, node := range forest {
		assert.Empty(t, node.Replies)
	}
}

// structure renders a forest as a nested id list so two builds can be
// compared for structural equality.
func structure(forest []*persist.Comment) string {
	out := ""
	for _, node := range forest {
		out += string(node.ID) + "(" + structure(node.Replies) + ")"
	}
	return out
}
