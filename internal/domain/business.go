package domain

import "time"

// Business status constants.
const (
	BusinessStatusPending   = "pending"
	BusinessStatusActive    = "active"
	BusinessStatusSuspended = "suspended"
)

// Business categories accepted on a business profile.
var BusinessCategories = []string{
	"restaurant", "cafe", "retail", "grocery", "beauty",
	"fitness", "entertainment", "services", "healthcare", "other",
}

// Business is a local merchant profile owned by a business-owner account.
type Business struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Website       *string   `json:"website,omitempty"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	RatingAverage float64   `json:"rating_average"`
	RatingCount   int       `json:"rating_count"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsValidBusinessStatus reports whether status is a known business status.
func IsValidBusinessStatus(status string) bool {
	switch status {
	case BusinessStatusPending, BusinessStatusActive, BusinessStatusSuspended:
		return true
	}
	return false
}
