package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jenfranx30/savemate-backend/internal/domain"
	pkgkafka "github.com/jenfranx30/savemate-backend/pkg/kafka"
	"github.com/jenfranx30/savemate-backend/pkg/logger"
)

// Kafka topics for SaveMate domain events.
const (
	TopicUserRegistered  = "savemate.user.registered"
	TopicBusinessCreated = "savemate.business.created"
	TopicDealCreated     = "savemate.deal.created"
	TopicReviewCreated   = "savemate.review.created"
)

// Aggregate types.
const (
	AggregateTypeUser     = "user"
	AggregateTypeBusiness = "business"
	AggregateTypeDeal     = "deal"
	AggregateTypeReview   = "review"
)

// SourceAPI identifies events originating from this service.
const SourceAPI = "savemate-api"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	IsBusinessOwner bool   `json:"is_business_owner"`
}

// BusinessCreatedData is the payload for a business.created event.
type BusinessCreatedData struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	City     string `json:"city"`
}

// DealCreatedData is the payload for a deal.created event.
type DealCreatedData struct {
	ID                 string    `json:"id"`
	BusinessID         string    `json:"business_id"`
	Title              string    `json:"title"`
	Category           string    `json:"category"`
	City               string    `json:"city"`
	DiscountedPrice    int64     `json:"discounted_price"`
	DiscountPercentage float64   `json:"discount_percentage"`
	EndDate            time.Time `json:"end_date"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID         string `json:"id"`
	DealID     string `json:"deal_id"`
	BusinessID string `json:"business_id"`
	UserID     string `json:"user_id"`
	Rating     int    `json:"rating"`
}

// Producer publishes SaveMate domain events. A nil publisher disables
// publishing.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewProducer creates a new domain event producer.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger, now: time.Now}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, u *domain.User) error {
	return p.publish(ctx, TopicUserRegistered, AggregateTypeUser, u.ID, UserRegisteredData{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		IsBusinessOwner: u.IsBusinessOwner,
	})
}

// PublishBusinessCreated publishes a business.created event.
func (p *Producer) PublishBusinessCreated(ctx context.Context, b *domain.Business) error {
	return p.publish(ctx, TopicBusinessCreated, AggregateTypeBusiness, b.ID, BusinessCreatedData{
		ID:       b.ID,
		OwnerID:  b.OwnerID,
		Name:     b.Name,
		Category: b.Category,
		City:     b.City,
	})
}

// PublishDealCreated publishes a deal.created event.
func (p *Producer) PublishDealCreated(ctx context.Context, d *domain.Deal) error {
	return p.publish(ctx, TopicDealCreated, AggregateTypeDeal, d.ID, DealCreatedData{
		ID:                 d.ID,
		BusinessID:         d.BusinessID,
		Title:              d.Title,
		Category:           d.Category,
		City:               d.City,
		DiscountedPrice:    d.DiscountedPrice,
		DiscountPercentage: d.DiscountPercentage,
		EndDate:            d.EndDate,
	})
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, r *domain.Review) error {
	return p.publish(ctx, TopicReviewCreated, AggregateTypeReview, r.ID, ReviewCreatedData{
		ID:         r.ID,
		DealID:     r.DealID,
		BusinessID: r.BusinessID,
		UserID:     r.UserID,
		Rating:     r.Rating,
	})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateType, aggregateID string, data any) error {
	if p == nil || p.publisher == nil {
		return nil
	}

	evt, err := pkgkafka.NewEvent(topic, aggregateType, aggregateID, SourceAPI, p.now(), data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	evt.CorrelationID = logger.CorrelationIDFromContext(ctx)

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
		slog.String("event_id", evt.EventID),
	)
	return nil
}
