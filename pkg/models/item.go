package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Garment categories. Stored category values are free text sourced from the
// master data tables; these constants are the canonical names.
const (
	CategoryFullBody  = "Full Body"
	CategoryTop       = "Top"
	CategoryOuterwear = "Outerwear"
	CategoryBottom    = "Bottom"
	CategoryAccessory = "Accessory"
	CategoryFootwear  = "Footwear"
)

// Occasions recognized by the recommendation endpoint.
var Occasions = []string{
	"casual",
	"semi-formal",
	"formal",
	"sportswear",
	"party/events",
	"work/office",
	"vacation/travel",
	"lounge/relax",
}

// IsValidOccasion reports whether occasion is one of the master occasions.
func IsValidOccasion(occasion string) bool {
	for _, o := range Occasions {
		if o == occasion {
			return true
		}
	}
	return false
}

// WardrobeItem is a single garment record owned by a user.
type WardrobeItem struct {
	UUID             uuid.UUID `json:"id"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
	UserID           string    `json:"user_id,omitempty"`
	Description      string    `json:"desc"`
	Category         string    `json:"category"`
	Subcategory      string    `json:"subcategory"`
	Colors           []string  `json:"colors"`
	Fit              string    `json:"fit,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	Occasions        []string  `json:"occasions,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	ImprovedImageURL string    `json:"improved_image_url,omitempty"`
}

// ColorList returns the item's colors as a single comma separated string.
func (i *WardrobeItem) ColorList() string {
	return strings.Join(i.Colors, ", ")
}

// OccasionList returns the item's occasions as a single comma separated string.
func (i *WardrobeItem) OccasionList() string {
	return strings.Join(i.Occasions, ", ")
}

type CreateItemRequest struct {
	UserID           string   `json:"user_id"`
	Description      string   `json:"desc"                validate:"required"`
	Category         string   `json:"category"            validate:"required"`
	Subcategory      string   `json:"subcategory"         validate:"required"`
	Colors           []string `json:"colors"              validate:"required,min=1"`
	Fit              string   `json:"fit"`
	Brand            string   `json:"brand"`
	Occasions        []string `json:"occasions"`
	ImageURL         string   `json:"image_url"`
	ImprovedImageURL string   `json:"improved_image_url"`
}

// UpdateItemRequest carries a partial update. Nil fields are left unchanged.
type UpdateItemRequest struct {
	Description *string  `json:"desc"`
	Category    *string  `json:"category"`
	Subcategory *string  `json:"subcategory"`
	Colors      []string `json:"colors"`
	Fit         *string  `json:"fit"`
	Brand       *string  `json:"brand"`
	Occasions   []string `json:"occasions"`
}

// ItemFilters narrows and pages an item listing.
type ItemFilters struct {
	Category string
	Color    string
	Fit      string
	Occasion string
	Search   string
	Page     int
	Limit    int
}

type ItemListResponse struct {
	Items      []WardrobeItem `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
