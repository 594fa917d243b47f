package domain

// ApplicationUser is an administrative account as returned by the users and
// profile endpoints. IDs are opaque strings issued by the identity provider.
type ApplicationUser struct {
	ID                string   `json:"id"`
	FirstName         string   `json:"firstName,omitempty"`
	LastName          string   `json:"lastName,omitempty"`
	Email             string   `json:"email"`
	Roles             []string `json:"roles,omitempty"`
	EmailConfirmed    bool     `json:"emailConfirmed"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
}

// DashboardStats carries the aggregate counters for the landing page.
type DashboardStats struct {
	TotalProducts   int `json:"totalProducts"`
	TotalCategories int `json:"totalCategories"`
	TotalOrders     int `json:"totalOrders"`
	TotalUsers      int `json:"totalUsers"`
	PendingOrders   int `json:"pendingOrders"`
	ActiveBanners   int `json:"activeBanners"`
}
