package view

import (
	"testing"

	"admindash-sync/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestFlattenAnnotatesParentNames(t *testing.T) {
	tree := []domain.Category{
		{
			ID:   1,
			Name: "Electronics",
			Children: []domain.Category{
				{ID: 2, Name: "Phones"},
			},
		},
	}

	rows := FlattenCategoryTree(tree)

	require.Len(t, rows, 2)
	require.Equal(t, int64(1), rows[0].ID)
	require.Equal(t, "Electronics", rows[0].Name)
	require.Empty(t, rows[0].ParentName)
	require.Equal(t, int64(2), rows[1].ID)
	require.Equal(t, "Phones", rows[1].Name)
	require.Equal(t, "Electronics", rows[1].ParentName)
}

func TestFlattenPreOrderVisitsEachNodeOnce(t *testing.T) {
	tree := []domain.Category{
		{
			ID:   1,
			Name: "A",
			Children: []domain.Category{
				{
					ID:   2,
					Name: "A1",
					Children: []domain.Category{
						{ID: 3, Name: "A1a"},
					},
				},
				{ID: 4, Name: "A2"},
			},
		},
		{ID: 5, Name: "B"},
	}

	rows := FlattenCategoryTree(tree)

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	// Pre-order: node before descendants, siblings in input order.
	require.Equal(t, []int64{1, 2, 3, 4, 5}, ids)

	seen := map[int64]int{}
	for _, r := range rows {
		seen[r.ID]++
	}
	for id, n := range seen {
		require.Equalf(t, 1, n, "node %d visited %d times", id, n)
	}
}

func TestFlattenRecordsImmediateParentOnly(t *testing.T) {
	tree := []domain.Category{
		{
			ID:   1,
			Name: "Root",
			Children: []domain.Category{
				{
					ID:   2,
					Name: "Mid",
					Children: []domain.Category{
						{ID: 3, Name: "Leaf"},
					},
				},
			},
		},
	}

	rows := FlattenCategoryTree(tree)
	require.Equal(t, "Mid", rows[2].ParentName)
	require.Equal(t, 2, rows[2].Depth)
}

func TestFlattenDeterministic(t *testing.T) {
	tree := []domain.Category{
		{ID: 1, Name: "X", Children: []domain.Category{{ID: 2, Name: "Y"}}},
	}
	require.Equal(t, FlattenCategoryTree(tree), FlattenCategoryTree(tree))
}

func TestFlattenEmptyTree(t *testing.T) {
	require.Empty(t, FlattenCategoryTree(nil))
}
