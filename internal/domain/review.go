package domain

import (
	"math"
	"time"
)

// Review is a user's rating of a deal. A user reviews a deal at most once.
type Review struct {
	ID           string    `json:"id"`
	DealID       string    `json:"deal_id"`
	BusinessID   string    `json:"business_id"`
	UserID       string    `json:"user_id"`
	Rating       int       `json:"rating"`
	Title        *string   `json:"title,omitempty"`
	Comment      string    `json:"comment"`
	HelpfulCount int       `json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewStats aggregates the reviews of one deal.
type ReviewStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalCount    int         `json:"total_count"`
	Distribution  map[int]int `json:"distribution"`
}

// NewReviewStats builds stats from per-star counts. Every star from 1 to 5
// is present in the distribution.
func NewReviewStats(counts map[int]int) ReviewStats {
	stats := ReviewStats{Distribution: make(map[int]int, 5)}
	var sum int
	for star := 1; star <= 5; star++ {
		n := counts[star]
		stats.Distribution[star] = n
		stats.TotalCount += n
		sum += star * n
	}
	if stats.TotalCount > 0 {
		stats.AverageRating = RoundRating(float64(sum) / float64(stats.TotalCount))
	}
	return stats
}

// RoundRating rounds an average rating to two decimal places.
func RoundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}
