package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/EtomCoda/bobchi-backend/internal/cart"
	"github.com/EtomCoda/bobchi-backend/internal/models"
)

type mockRepository struct {
	createErr error

	createdOrder *models.Order
	createdItems []models.OrderItem
	orders       []models.Order
	items        []models.OrderItem
}

func (m *mockRepository) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) (primitive.ObjectID, error) {
	if m.createErr != nil {
		return primitive.NilObjectID, m.createErr
	}
	m.createdOrder = order
	m.createdItems = items
	return primitive.NewObjectID(), nil
}

func (m *mockRepository) ListByUser(context.Context, primitive.ObjectID) ([]models.Order, error) {
	return m.orders, nil
}

func (m *mockRepository) GetByID(context.Context, primitive.ObjectID) (*models.Order, []models.OrderItem, error) {
	if len(m.orders) == 0 {
		return nil, nil, ErrOrderNotFound
	}
	return &m.orders[0], m.items, nil
}

func cartLines(t *testing.T, add ...func(c *cart.Cart) error) []cart.Line {
	t.Helper()
	c := cart.New()
	for _, fn := range add {
		require.NoError(t, fn(c))
	}
	return c.Lines()
}

func addLine(ct models.CylinderType, qty int) func(c *cart.Cart) error {
	return func(c *cart.Cart) error {
		_, err := c.AddItem(ct, qty)
		return err
	}
}

var delivery = models.DeliveryInfo{
	FullName:     "Ada Obi",
	PhoneNumber:  "08030000000",
	Email:        "ada@example.com",
	Address:      "12 Marina Road, Lagos",
	Landmark:     "Opposite the blue kiosk",
	DeliveryTime: "2026-08-29T10:00",
	Notes:        "Call on arrival",
}

func TestSubmitFreezesPricesAndTotals(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	lines := cartLines(t,
		addLine(models.Cylinder6KG, 3),
		addLine(models.Cylinder125KG, 1),
	)

	order, err := svc.Submit(context.Background(), primitive.NewObjectID(), lines, delivery, models.PaymentPaystack)
	require.NoError(t, err)
	require.NotNil(t, repo.createdOrder)

	// 3 x 5400 + 11250 + 1000 delivery fee.
	assert.Equal(t, 28450.0, order.TotalAmount)
	assert.Equal(t, 1000.0, order.DeliveryFee)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	require.NotNil(t, order.PaymentMethod)
	assert.Equal(t, models.PaymentPaystack, *order.PaymentMethod)
	assert.Equal(t, "12 Marina Road, Lagos", order.DeliveryAddress)
	assert.False(t, order.ID.IsZero(), "submission returns the generated order id")

	require.Len(t, repo.createdItems, 2)
	assert.Equal(t, 5400.0, repo.createdItems[0].UnitPrice)
	assert.Equal(t, 11250.0, repo.createdItems[1].UnitPrice)
	assert.Equal(t, models.RefillFull, repo.createdItems[0].RefillType)
	assert.Equal(t, order.CreatedAt, repo.createdItems[0].CreatedAt, "order and items share the submission instant")
}

func TestSubmitRequiresAuthenticatedUser(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	lines := cartLines(t, addLine(models.Cylinder3KG, 1))
	_, err := svc.Submit(context.Background(), primitive.NilObjectID, lines, delivery, models.PaymentUSSD)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Nil(t, repo.createdOrder, "no write may be attempted without an identity")
}

func TestSubmitRequiresItems(t *testing.T) {
	repo := &mockRepository{}
	svc := NewService(repo)

	_, err := svc.Submit(context.Background(), primitive.NewObjectID(), nil, delivery, models.PaymentUSSD)
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestSubmitSurfacesRepositoryFailure(t *testing.T) {
	repo := &mockRepository{createErr: errors.New("write conflict")}
	svc := NewService(repo)

	lines := cartLines(t, addLine(models.Cylinder25KG, 2))
	_, err := svc.Submit(context.Background(), primitive.NewObjectID(), lines, delivery, models.PaymentBankTransfer)

	require.Error(t, err)
	assert.Nil(t, repo.createdOrder, "the atomic write leaves nothing behind on failure")
}

func TestGetRestrictsToOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	repo := &mockRepository{
		orders: []models.Order{{ID: primitive.NewObjectID(), UserID: owner}},
	}
	svc := NewService(repo)

	_, _, err := svc.Get(context.Background(), primitive.NewObjectID(), repo.orders[0].ID)
	assert.ErrorIs(t, err, ErrOrderNotFound, "other users see not-found, not forbidden")

	order, _, err := svc.Get(context.Background(), owner, repo.orders[0].ID)
	require.NoError(t, err)
	assert.Equal(t, owner, order.UserID)
}
