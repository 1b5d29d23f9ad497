package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order defines the persisted order document.
type Order struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID                primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status                OrderStatus        `bson:"status" json:"status"`
	TotalAmount           float64            `bson:"total_amount" json:"total_amount"`
	DeliveryFee           float64            `bson:"delivery_fee" json:"delivery_fee"`
	DeliveryAddress       string             `bson:"delivery_address" json:"delivery_address"`
	Landmark              string             `bson:"landmark,omitempty" json:"landmark,omitempty"`
	PreferredDeliveryTime string             `bson:"preferred_delivery_time,omitempty" json:"preferred_delivery_time,omitempty"`
	Notes                 string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PaymentStatus         PaymentStatus      `bson:"payment_status" json:"payment_status"`
	PaymentMethod         *PaymentMethod     `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	CreatedAt             time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrderItem is a single cylinder line on a persisted order. The unit price is
// frozen at submission time and never re-derived.
type OrderItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID      primitive.ObjectID `bson:"order_id" json:"order_id"`
	CylinderType CylinderType       `bson:"cylinder_type" json:"cylinder_type"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	UnitPrice    float64            `bson:"unit_price" json:"unit_price"`
	RefillType   RefillType         `bson:"refill_type" json:"refill_type"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// DeliveryInfo carries the delivery form captured on the checkout wizard.
// Required-field validation happens at the HTTP boundary.
type DeliveryInfo struct {
	FullName     string `json:"full_name"`
	PhoneNumber  string `json:"phone_number"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Landmark     string `json:"landmark,omitempty"`
	DeliveryTime string `json:"delivery_time,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
