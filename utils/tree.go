// utils/tree.go
package utils

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/astrixglobal/astrix_backend/models"
)

// TreeSide selects one leg of a binary tree node.
type TreeSide string

const (
	LeftSide  TreeSide = "left"
	RightSide TreeSide = "right"
	NoSide    TreeSide = "none"
)

// TreeArena is the whole binary referral tree loaded into memory, keyed by
// user id. Child references are resolved through the arena, so a missing or
// cyclic reference can never fault a traversal.
type TreeArena map[primitive.ObjectID]models.BinaryTreeNode

// LoadTreeArena reads the full binarytree collection into an arena. Bonus
// passes load it once and share it across every node they visit.
func LoadTreeArena(ctx context.Context, db *mongo.Database) (TreeArena, error) {
	cursor, err := db.Collection("binarytree").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load binary tree: %w", err)
	}
	defer cursor.Close(ctx)

	arena := make(TreeArena)
	for cursor.Next(ctx) {
		var node models.BinaryTreeNode
		if err := cursor.Decode(&node); err != nil {
			return nil, fmt.Errorf("failed to decode tree node: %w", err)
		}
		arena[node.UserID] = node
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("tree cursor error: %w", err)
	}
	return arena, nil
}

// childID returns the requested child reference of a node, or nil when the
// side is empty.
func childID(node models.BinaryTreeNode, side TreeSide) *primitive.ObjectID {
	if side == LeftSide {
		return node.LeftChildID
	}
	return node.RightChildID
}

// TeamMembers returns every descendant user id on one side of root,
// breadth-first. A visited set keeps the walk safe even if stored child
// references form a cycle.
func TeamMembers(arena TreeArena, rootID primitive.ObjectID, side TreeSide) []primitive.ObjectID {
	root, ok := arena[rootID]
	if !ok {
		return nil
	}

	start := childID(root, side)
	if start == nil {
		return nil
	}

	var team []primitive.ObjectID
	visited := map[primitive.ObjectID]bool{rootID: true}
	queue := []primitive.ObjectID{*start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		team = append(team, current)

		node, ok := arena[current]
		if !ok {
			continue
		}
		if node.LeftChildID != nil {
			queue = append(queue, *node.LeftChildID)
		}
		if node.RightChildID != nil {
			queue = append(queue, *node.RightChildID)
		}
	}
	return team
}

// ClassifySide reports which leg of root contains target, short-circuiting
// as soon as the target shows up in either queue. Returns NoSide when the
// target is not a descendant.
func ClassifySide(arena TreeArena, rootID, targetID primitive.ObjectID) TreeSide {
	for _, side := range []TreeSide{LeftSide, RightSide} {
		root, ok := arena[rootID]
		if !ok {
			return NoSide
		}
		start := childID(root, side)
		if start == nil {
			continue
		}

		visited := map[primitive.ObjectID]bool{rootID: true}
		queue := []primitive.ObjectID{*start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if current == targetID {
				return side
			}
			if visited[current] {
				continue
			}
			visited[current] = true

			node, ok := arena[current]
			if !ok {
				continue
			}
			if node.LeftChildID != nil {
				queue = append(queue, *node.LeftChildID)
			}
			if node.RightChildID != nil {
				queue = append(queue, *node.RightChildID)
			}
		}
	}
	return NoSide
}
