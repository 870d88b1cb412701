package domain

import (
	"errors"
	"math"
	"time"
)

// Deal status constants.
const (
	DealStatusActive  = "active"
	DealStatusExpired = "expired"
	DealStatusDraft   = "draft"
)

// Deal list sort orders.
const (
	DealSortNewest   = "newest"
	DealSortDiscount = "discount"
	DealSortPrice    = "price"
)

// Deal validation errors.
var (
	ErrDiscountNotLower = errors.New("discounted price must be lower than original price")
	ErrInvalidDealDates = errors.New("end date must be after start date")
)

// Deal is a time-boxed offer published by a business. Prices are in minor
// currency units (grosze).
type Deal struct {
	ID                 string    `json:"id"`
	BusinessID         string    `json:"business_id"`
	CreatedBy          string    `json:"created_by"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	OriginalPrice      int64     `json:"original_price"`
	DiscountedPrice    int64     `json:"discounted_price"`
	DiscountPercentage float64   `json:"discount_percentage"`
	Category           string    `json:"category"`
	City               string    `json:"city"`
	Tags               []string  `json:"tags"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	Status             string    `json:"status"`
	IsFeatured         bool      `json:"is_featured"`
	ViewsCount         int       `json:"views_count"`
	SavesCount         int       `json:"saves_count"`
	QuantityAvailable  *int      `json:"quantity_available,omitempty"`
	Terms              *string   `json:"terms,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DiscountPercentage returns the discount as a percentage of original,
// rounded to two decimal places.
func DiscountPercentage(original, discounted int64) float64 {
	if original <= 0 {
		return 0
	}
	pct := float64(original-discounted) / float64(original) * 100
	return math.Round(pct*100) / 100
}

// Validate checks the price and date invariants and recomputes the
// discount percentage.
func (d *Deal) Validate() error {
	if d.DiscountedPrice >= d.OriginalPrice {
		return ErrDiscountNotLower
	}
	if !d.EndDate.After(d.StartDate) {
		return ErrInvalidDealDates
	}
	d.DiscountPercentage = DiscountPercentage(d.OriginalPrice, d.DiscountedPrice)
	return nil
}

// IsLive reports whether the deal is active and inside its date window at now.
func (d *Deal) IsLive(now time.Time) bool {
	return d.Status == DealStatusActive && !now.Before(d.StartDate) && !now.After(d.EndDate)
}

// IsValidDealStatus reports whether status is a known deal status.
func IsValidDealStatus(status string) bool {
	switch status {
	case DealStatusActive, DealStatusExpired, DealStatusDraft:
		return true
	}
	return false
}
