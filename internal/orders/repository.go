package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/EtomCoda/bobchi-backend/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// Repository persists orders and their items.
type Repository interface {
	// CreateOrder writes the order and every item atomically. Either the
	// whole order lands or nothing does.
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (primitive.ObjectID, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	GetByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, []models.OrderItem, error)
}

type mongoRepository struct {
	db *mongo.Database
}

func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{db: db}
}

func (r *mongoRepository) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (primitive.ObjectID, error) {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var orderID primitive.ObjectID
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		res, err := r.db.Collection("orders").InsertOne(sessCtx, order)
		if err != nil {
			return nil, err
		}
		id, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, errors.New("unexpected inserted order id type")
		}
		orderID = id

		docs := make([]interface{}, 0, len(items))
		for _, item := range items {
			item.OrderID = id
			docs = append(docs, item)
		}
		if _, err := r.db.Collection("order_items").InsertMany(sessCtx, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create order: %w", err)
	}

	return orderID, nil
}

func (r *mongoRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.db.Collection("orders").Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoRepository) GetByID(ctx context.Context, orderID primitive.ObjectID) (*models.Order, []models.OrderItem, error) {
	var order models.Order
	err := r.db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to get order: %w", err)
	}

	cursor, err := r.db.Collection("order_items").Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]models.OrderItem, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return &order, items, nil
}

// touchTimestamps stamps creation times right before the write so the order
// and its items share one submission instant.
func touchTimestamps(order *models.Order, items []models.OrderItem, now time.Time) {
	order.CreatedAt = now
	order.UpdatedAt = now
	for i := range items {
		items[i].CreatedAt = now
	}
}
