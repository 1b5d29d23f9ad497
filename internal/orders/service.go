// Package orders converts a finished checkout session into persisted order
// records.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/EtomCoda/bobchi-backend/internal/cart"
	"github.com/EtomCoda/bobchi-backend/internal/models"
	"github.com/EtomCoda/bobchi-backend/internal/pricing"
)

var (
	ErrNotAuthenticated = errors.New("an authenticated user is required to place an order")
	ErrNoItems          = errors.New("order must contain at least one item")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit persists one order plus one item per cart line. Unit prices are
// frozen here and never re-derived from the catalog. The write is atomic: a
// failed item insert aborts the order insert with it.
func (s *Service) Submit(ctx context.Context, userID primitive.ObjectID, lines []cart.Line, delivery models.DeliveryInfo, method models.PaymentMethod) (*models.Order, error) {
	if userID.IsZero() {
		return nil, ErrNotAuthenticated
	}
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	total := pricing.DeliveryFee
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		total = total.Add(pricing.LineTotal(line.CylinderType, line.Quantity))
		items = append(items, models.OrderItem{
			CylinderType: line.CylinderType,
			Quantity:     line.Quantity,
			UnitPrice:    pricing.UnitPrice(line.CylinderType).InexactFloat64(),
			RefillType:   models.RefillFull,
		})
	}

	order := &models.Order{
		UserID:                userID,
		Status:                models.OrderPending,
		TotalAmount:           total.InexactFloat64(),
		DeliveryFee:           pricing.DeliveryFee.InexactFloat64(),
		DeliveryAddress:       delivery.Address,
		Landmark:              delivery.Landmark,
		PreferredDeliveryTime: delivery.DeliveryTime,
		Notes:                 delivery.Notes,
		PaymentStatus:         models.PaymentPending,
		PaymentMethod:         &method,
	}
	touchTimestamps(order, items, time.Now())

	orderID, err := s.repo.CreateOrder(ctx, order, items)
	if err != nil {
		log.Println("[ORDER] [ERROR] order submission failed:", err)
		return nil, fmt.Errorf("order submission failed: %w", err)
	}
	order.ID = orderID

	log.Println("[ORDER] [INFO] order created:", orderID.Hex())
	return order, nil
}

// ListByUser returns a user's order history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	if userID.IsZero() {
		return nil, ErrNotAuthenticated
	}
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a single order with its items, restricted to the owner.
func (s *Service) Get(ctx context.Context, userID, orderID primitive.ObjectID) (*models.Order, []models.OrderItem, error) {
	order, items, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.UserID != userID {
		return nil, nil, ErrOrderNotFound
	}
	return order, items, nil
}
