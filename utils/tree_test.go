package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/astrixglobal/astrix_backend/models"
)

// buildArena wires nodes from a parent -> (left, right) table. Zero ids
// mean an absent child.
func buildArena(edges map[primitive.ObjectID][2]primitive.ObjectID) TreeArena {
	arena := make(TreeArena)
	ensure := func(id primitive.ObjectID) {
		if _, ok := arena[id]; !ok {
			arena[id] = models.BinaryTreeNode{UserID: id, Status: models.NodeStatusActive}
		}
	}
	for parent, children := range edges {
		ensure(parent)
		node := arena[parent]
		if !children[0].IsZero() {
			left := children[0]
			ensure(left)
			node.LeftChildID = &left
		}
		if !children[1].IsZero() {
			right := children[1]
			ensure(right)
			node.RightChildID = &right
		}
		arena[parent] = node
	}
	return arena
}

func ids(n int) []primitive.ObjectID {
	out := make([]primitive.ObjectID, n)
	for i := range out {
		out[i] = primitive.NewObjectID()
	}
	return out
}

func TestTeamMembers(t *testing.T) {
	// root
	//  ├── a (left)
	//  │    ├── c
	//  │    └── d
	//  └── b (right)
	//       └── e (left)
	u := ids(6)
	root, a, b, c, d, e := u[0], u[1], u[2], u[3], u[4], u[5]
	arena := buildArena(map[primitive.ObjectID][2]primitive.ObjectID{
		root: {a, b},
		a:    {c, d},
		b:    {e, {}},
	})

	left := TeamMembers(arena, root, LeftSide)
	assert.ElementsMatch(t, []primitive.ObjectID{a, c, d}, left)

	right := TeamMembers(arena, root, RightSide)
	assert.ElementsMatch(t, []primitive.ObjectID{b, e}, right)
}

func TestTeamMembers_EmptySideAndMissingNode(t *testing.T) {
	u := ids(2)
	root, a := u[0], u[1]
	arena := buildArena(map[primitive.ObjectID][2]primitive.ObjectID{
		root: {a, {}},
	})

	assert.Empty(t, TeamMembers(arena, root, RightSide))
	assert.Empty(t, TeamMembers(arena, primitive.NewObjectID(), LeftSide))
}

func TestTeamMembers_DanglingChildReference(t *testing.T) {
	// A child id with no node document still counts as a team member; its
	// own children are simply unknown.
	u := ids(2)
	root, ghost := u[0], u[1]
	arena := buildArena(map[primitive.ObjectID][2]primitive.ObjectID{
		root: {ghost, {}},
	})
	delete(arena, ghost)

	left := TeamMembers(arena, root, LeftSide)
	assert.Equal(t, []primitive.ObjectID{ghost}, left)
}

func TestTeamMembers_CyclicDataDoesNotLoop(t *testing.T) {
	// Malformed storage: b points back at a. The visited set must keep the
	// walk finite and each node counted once.
	u := ids(3)
	root, a, b := u[0], u[1], u[2]
	arena := buildArena(map[primitive.ObjectID][2]primitive.ObjectID{
		root: {a, {}},
		a:    {b, {}},
		b:    {a, {}},
	})

	left := TeamMembers(arena, root, LeftSide)
	assert.ElementsMatch(t, []primitive.ObjectID{a, b}, left)
}

func TestClassifySide(t *testing.T) {
	u := ids(6)
	root, a, b, c, d, e := u[0], u[1], u[2], u[3], u[4], u[5]
	arena := buildArena(map[primitive.ObjectID][2]primitive.ObjectID{
		root: {a, b},
		a:    {c, d},
		b:    {e, {}},
	})

	assert.Equal(t, LeftSide, ClassifySide(arena, root, a))
	assert.Equal(t, LeftSide, ClassifySide(arena, root, d))
	assert.Equal(t, RightSide, ClassifySide(arena, root, e))
	assert.Equal(t, NoSide, ClassifySide(arena, root, primitive.NewObjectID()))
	assert.Equal(t, NoSide, ClassifySide(arena, a, root), "ancestors are on no side of a descendant")
}

func TestClassifySide_Cycle(t *testing.T) {
	u := ids(3)
	root, a, b := u[0], u[1], u[2]
	arena := buildArena(map[primitive.ObjectID][2]primitive.ObjectID{
		root: {a, {}},
		a:    {b, {}},
		b:    {a, {}},
	})

	assert.Equal(t, LeftSide, ClassifySide(arena, root, b))
	assert.Equal(t, NoSide, ClassifySide(arena, root, primitive.NewObjectID()))
}
