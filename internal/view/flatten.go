// Package view holds pure transforms that reshape server responses for
// display.
package view

import "admindash-sync/internal/domain"

// FlatCategory is one row of the flattened hierarchy as the category table
// renders it. ParentName is empty for roots.
type FlatCategory struct {
	ID           int64
	Name         string
	ParentName   string
	IsActive     bool
	SortOrder    int
	ProductCount int
	Depth        int
}

// FlattenCategoryTree walks the nested tree in pre-order (each node before
// its descendants, siblings in input order) and produces the flat row list,
// each row annotated with its immediate parent's name. Deterministic, no
// side effects.
func FlattenCategoryTree(roots []domain.Category) []FlatCategory {
	var rows []FlatCategory
	var walk func(nodes []domain.Category, parentName string, depth int)
	walk = func(nodes []domain.Category, parentName string, depth int) {
		for _, n := range nodes {
			rows = append(rows, FlatCategory{
				ID:           n.ID,
				Name:         n.Name,
				ParentName:   parentName,
				IsActive:     n.IsActive,
				SortOrder:    n.SortOrder,
				ProductCount: n.ProductCount,
				Depth:        depth,
			})
			walk(n.Children, n.Name, depth+1)
		}
	}
	walk(roots, "", 0)
	return rows
}
