package domain

import "time"

type Category struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	ImageURLs    []string   `json:"imageUrls,omitempty"`
	IsActive     bool       `json:"isActive"`
	SortOrder    int        `json:"sortOrder"`
	ParentID     *int64     `json:"parentId,omitempty"`
	Children     []Category `json:"children,omitempty"`
	ProductCount int        `json:"productCount"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Deletable reports whether the delete action may be offered for this
// category. The server rejects deleting a category that still has children;
// the client disables the action up front.
func (c *Category) Deletable() bool {
	return len(c.Children) == 0
}

// CategorySummary is the reduced shape returned by the summary endpoint for
// dropdowns and parent pickers.
type CategorySummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parentId,omitempty"`
	IsActive bool   `json:"isActive"`
}
