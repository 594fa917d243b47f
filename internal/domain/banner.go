package domain

import "time"

// BannerPosition names the slot a banner renders into.
type BannerPosition string

const (
	PositionHomepageTop    BannerPosition = "HomepageTop"
	PositionHomepageMiddle BannerPosition = "HomepageMiddle"
	PositionFooter         BannerPosition = "Footer"
)

type Banner struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	ImageURL    string         `json:"imageUrl"`
	LinkURL     string         `json:"linkUrl,omitempty"`
	ButtonText  string         `json:"buttonText,omitempty"`
	Position    BannerPosition `json:"position"`
	IsActive    bool           `json:"isActive"`
	SortOrder   int            `json:"sortOrder"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
}
