// Package pricing computes cylinder prices. Every price is the cylinder's
// nominal kilogram weight multiplied by a flat per-kilogram rate, so the
// whole catalog is priced by formula rather than per-product records.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/EtomCoda/bobchi-backend/internal/models"
)

var (
	// PricePerKG is the flat rate in naira per nominal kilogram.
	PricePerKG = decimal.NewFromInt(900)

	// DeliveryFee is charged once per order regardless of its contents.
	DeliveryFee = decimal.NewFromInt(1000)
)

// Decimal weights keep the 12.5kg case exact; a float multiply would not.
var cylinderWeights = map[models.CylinderType]decimal.Decimal{
	models.Cylinder3KG:   decimal.NewFromInt(3),
	models.Cylinder6KG:   decimal.NewFromInt(6),
	models.Cylinder125KG: decimal.RequireFromString("12.5"),
	models.Cylinder25KG:  decimal.NewFromInt(25),
	models.Cylinder50KG:  decimal.NewFromInt(50),
}

// UnitPrice returns the price of a single cylinder of the given type.
// Unknown types price to zero; callers validate the type at the boundary.
func UnitPrice(ct models.CylinderType) decimal.Decimal {
	return cylinderWeights[ct].Mul(PricePerKG)
}

// LineTotal returns UnitPrice(ct) multiplied by quantity.
func LineTotal(ct models.CylinderType, quantity int) decimal.Decimal {
	return UnitPrice(ct).Mul(decimal.NewFromInt(int64(quantity)))
}
