package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Promotion is the paid placement tier of a listing. The zero value means
// no promotion.
type Promotion string

const (
	PromotionNone   Promotion = ""
	PromotionSilver Promotion = "SILVER"
	PromotionGold   Promotion = "GOLD"
)

// ParsePromotion normalizes user input into a Promotion. Empty input and
// "none" map to PromotionNone; SILVER and GOLD match case-insensitively.
// The second result is false for anything else.
func ParsePromotion(s string) (Promotion, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE":
		return PromotionNone, true
	case string(PromotionSilver):
		return PromotionSilver, true
	case string(PromotionGold):
		return PromotionGold, true
	}
	return PromotionNone, false
}

// Listing is a business publication in the directory, owned by a User.
type Listing struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CategoryName string    `json:"categoryName"`
	City         string    `json:"city"`
	Hood         string    `json:"hood"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Phone        string    `json:"phone"`
	Instagram    string    `json:"instagram"`
	Facebook     string    `json:"facebook"`
	TikTok       string    `json:"tikTok"`
	Delivery     bool      `json:"delivery"`
	Price        *float64  `json:"price"`
	Promotion    Promotion `json:"promotion,omitempty"`
	UserID       uuid.UUID `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Category *Category      `json:"category,omitempty"`
	User     *UserSummary   `json:"user,omitempty"`
	Images   []ListingImage `json:"images"`
}

// ListingImage is one image of a listing.
type ListingImage struct {
	ID    uuid.UUID `json:"id"`
	URL   string    `json:"url"`
	Order int       `json:"order"`
}
