// Package ident assigns identities to the nodes of a document tree.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/blackcoderx/transformer/pkg/schema"
)

// Generator produces globally unique identities.
type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.New().String()
}

// Sequence generates "<prefix><n>" identities with n counting from 1. It is
// deterministic, which makes it useful in tests and golden files.
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s%d", s.Prefix, s.n.Add(1))
}

// Default is the generator used when none is configured.
var Default Generator = UUID{}

// PopulateIDs makes sure node and all its descendants carry a canonical id.
// A deprecated id is moved to the canonical field; a missing id is generated.
// Children are visited in document order under both child list names.
func PopulateIDs(node schema.Node, gen Generator) schema.Node {
	if node == nil {
		return nil
	}
	if gen == nil {
		gen = Default
	}

	id, deprecated := node.IDFields()
	if *deprecated != "" {
		*id = *deprecated
		*deprecated = ""
	}
	if *id == "" {
		*id = gen.NewID()
	}

	for _, child := range node.ChildNodes() {
		PopulateIDs(child, gen)
	}
	return node
}

// Reassign gives node and all its descendants a fresh id and returns the
// mapping from previous to new ids. Nodes without a previous id get one too
// but do not appear in the mapping.
func Reassign(node schema.Node, gen Generator) map[string]string {
	if gen == nil {
		gen = Default
	}
	mapping := make(map[string]string)
	reassign(node, gen, mapping)
	return mapping
}

// ReassignChildren is Reassign for the descendants of node only. The
// identity of node itself is left alone.
func ReassignChildren(node schema.Node, gen Generator) map[string]string {
	if gen == nil {
		gen = Default
	}
	mapping := make(map[string]string)
	if node == nil {
		return mapping
	}
	for _, child := range node.ChildNodes() {
		reassign(child, gen, mapping)
	}
	return mapping
}

func reassign(node schema.Node, gen Generator, mapping map[string]string) {
	if node == nil {
		return
	}

	id, deprecated := node.IDFields()
	prev := *id
	if *deprecated != "" {
		prev = *deprecated
		*deprecated = ""
	}
	*id = gen.NewID()
	if prev != "" {
		mapping[prev] = *id
	}

	for _, child := range node.ChildNodes() {
		reassign(child, gen, mapping)
	}
}
