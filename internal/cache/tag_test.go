package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntityTag(t *testing.T) {
	require.Equal(t, Tag{Type: "Category", ID: "5"}, Entity("Category", 5))
}

func TestChildrenOfTag(t *testing.T) {
	require.Equal(t, Tag{Type: "Category", ID: "CHILDREN_3"}, ChildrenOf("Category", 3))
}

func TestSetIntersects(t *testing.T) {
	s := NewSet(
		Entity("Category", 1),
		Sentinel("Category", IDList),
	)

	require.True(t, s.Intersects([]Tag{Sentinel("Category", IDList)}))
	require.True(t, s.Intersects([]Tag{Entity("Category", 1), Entity("Order", 9)}))
	require.False(t, s.Intersects([]Tag{Entity("Category", 2)}))
	require.False(t, s.Intersects([]Tag{Sentinel("Product", IDList)}))
	require.False(t, s.Intersects(nil))
}

func TestSetHas(t *testing.T) {
	s := NewSet(Sentinel("Category", IDTree))
	require.True(t, s.Has(Sentinel("Category", IDTree)))
	require.False(t, s.Has(Sentinel("Category", IDActive)))
}
