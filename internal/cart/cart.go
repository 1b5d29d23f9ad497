// Package cart holds the in-memory order cart a customer assembles before
// checkout. A cart lives for one session only and is never persisted; the
// order collection is written at submission time.
package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/EtomCoda/bobchi-backend/internal/models"
	"github.com/EtomCoda/bobchi-backend/internal/pricing"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one (cylinder type, quantity) entry. Lines get a stable ID at
// creation so edits and removals never address by position.
type Line struct {
	ID           string              `json:"id"`
	CylinderType models.CylinderType `json:"cylinder_type"`
	Quantity     int                 `json:"quantity"`
}

// Cart maintains the set of cylinders a customer intends to order. At most
// one line exists per cylinder type.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddItem merges the quantity into an existing line of the same cylinder
// type, or appends a new line. It returns the affected line.
func (c *Cart) AddItem(ct models.CylinderType, quantity int) (Line, error) {
	if quantity < 1 {
		return Line{}, ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].CylinderType == ct {
			c.lines[i].Quantity += quantity
			return c.lines[i], nil
		}
	}
	line := Line{
		ID:           uuid.NewString(),
		CylinderType: ct,
		Quantity:     quantity,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// RemoveItem deletes the line with the given ID.
func (c *Cart) RemoveItem(id string) error {
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// UpdateQuantity overwrites the quantity of the line with the given ID.
// Quantities below 1 leave the cart unchanged.
func (c *Cart) UpdateQuantity(id string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].ID == id {
			c.lines[i].Quantity = quantity
			return nil
		}
	}
	return ErrLineNotFound
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Subtotal is the sum of all line totals, before the delivery fee.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(pricing.LineTotal(line.CylinderType, line.Quantity))
	}
	return total
}

// Total is the subtotal plus the flat delivery fee. An empty cart totals to
// the delivery fee alone.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(pricing.DeliveryFee)
}
