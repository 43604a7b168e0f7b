package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v2 "github.com/blackcoderx/transformer/pkg/schema/v2"
)

func TestPopulateIDs_GeneratesMissing(t *testing.T) {
	c := &v2.Collection{Item: []*v2.Item{{}}}

	PopulateIDs(c, &Sequence{Prefix: "id-"})

	require.Len(t, c.Item, 1)
	assert.Equal(t, "id-1", c.Info.ID)
	assert.Equal(t, "id-2", c.Item[0].ID)
	assert.Empty(t, c.Item[0].PostmanID)
}

func TestPopulateIDs_MigratesDeprecated(t *testing.T) {
	c := &v2.Collection{
		Info: v2.Info{PostmanID: "root"},
		Item: []*v2.Item{
			{PostmanID: "old", ID: "ignored", Item: []*v2.Item{{ID: "keep"}}},
		},
	}

	PopulateIDs(c, &Sequence{})

	assert.Equal(t, "root", c.Info.ID)
	assert.Empty(t, c.Info.PostmanID)
	assert.Equal(t, "old", c.Item[0].ID)
	assert.Empty(t, c.Item[0].PostmanID)
	assert.Equal(t, "keep", c.Item[0].Item[0].ID)
}

func TestPopulateIDs_BothChildListNames(t *testing.T) {
	folder := &v2.Item{
		Item:  []*v2.Item{{Name: "a"}},
		Items: []*v2.Item{{Name: "b", Items: []*v2.Item{{Name: "c"}}}},
	}
	c := &v2.Collection{Info: v2.Info{ID: "root"}, Item: []*v2.Item{folder}}

	PopulateIDs(c, &Sequence{Prefix: "n"})

	assert.Equal(t, "n1", folder.ID)
	assert.Equal(t, "n2", folder.Item[0].ID)
	assert.Equal(t, "n3", folder.Items[0].ID)
	assert.Equal(t, "n4", folder.Items[0].Items[0].ID)
}

func TestPopulateIDs_Unique(t *testing.T) {
	c := &v2.Collection{}
	for i := 0; i < 5; i++ {
		f := &v2.Item{Item: []*v2.Item{{}, {}}}
		c.Item = append(c.Item, f)
	}

	PopulateIDs(c, UUID{})

	seen := map[string]bool{c.Info.ID: true}
	for _, f := range c.Item {
		for _, it := range append([]*v2.Item{f}, f.Item...) {
			require.NotEmpty(t, it.ID)
			assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
			seen[it.ID] = true
		}
	}
}

func TestReassign(t *testing.T) {
	c := &v2.Collection{
		Info: v2.Info{ID: "c"},
		Item: []*v2.Item{{PostmanID: "f", Item: []*v2.Item{{ID: "r"}, {}}}},
	}

	mapping := Reassign(c, &Sequence{Prefix: "x"})

	assert.Equal(t, map[string]string{"c": "x1", "f": "x2", "r": "x3"}, mapping)
	assert.Equal(t, "x4", c.Item[0].Item[1].ID)
	assert.Empty(t, c.Item[0].PostmanID)
}

func TestReassignChildren_KeepsRoot(t *testing.T) {
	c := &v2.Collection{
		Info: v2.Info{ID: "c"},
		Item: []*v2.Item{{ID: "f", Item: []*v2.Item{{ID: "r"}}}},
	}

	mapping := ReassignChildren(c, &Sequence{Prefix: "x"})

	assert.Equal(t, map[string]string{"f": "x1", "r": "x2"}, mapping)
	assert.Equal(t, "c", c.Info.ID)
	assert.Equal(t, "x2", c.Item[0].Item[0].ID)
}
