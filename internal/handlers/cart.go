package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EtomCoda/bobchi-backend/internal/cart"
	"github.com/EtomCoda/bobchi-backend/internal/checkout"
	"github.com/EtomCoda/bobchi-backend/internal/models"
	"github.com/EtomCoda/bobchi-backend/internal/pricing"
)

// Quantity carries no binding rule: zero and negative values fall through
// to the cart so the response says "quantity must be at least 1" rather
// than the zero-value "required" complaint.
type addCartItemRequest struct {
	CylinderType string `json:"cylinder_type" binding:"required"`
	Quantity     int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func GetCart(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		c.JSON(http.StatusOK, cartResponse(session.Cart))
	}
}

func AddCartItem(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ct, err := models.ParseCylinderType(req.CylinderType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session.Lock()
		defer session.Unlock()

		line, err := session.Cart.AddItem(ct, req.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		log.Printf("[CART] [INFO] added %dx %s", req.Quantity, ct)
		c.JSON(http.StatusCreated, gin.H{
			"message": fmt.Sprintf("%dx %s added to your order", req.Quantity, ct),
			"line":    lineResponse(line),
			"cart":    cartResponse(session.Cart),
		})
	}
}

func UpdateCartItem(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		session.Lock()
		defer session.Unlock()

		err := session.Cart.UpdateQuantity(c.Param("id"), req.Quantity)
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, cart.ErrLineNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart update failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "item quantity updated",
			"cart":    cartResponse(session.Cart),
		})
	}
}

func RemoveCartItem(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}

		session.Lock()
		defer session.Unlock()

		if err := session.Cart.RemoveItem(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "item removed from your order",
			"cart":    cartResponse(session.Cart),
		})
	}
}

func sessionFromContext(c *gin.Context, store *checkout.Store) (*checkout.Session, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		log.Println("[CART] [ERROR] userId missing in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return store.Get(userID.Hex()), true
}

func lineResponse(line cart.Line) gin.H {
	return gin.H{
		"id":            line.ID,
		"cylinder_type": line.CylinderType,
		"quantity":      line.Quantity,
		"unit_price":    pricing.UnitPrice(line.CylinderType).InexactFloat64(),
		"line_total":    pricing.LineTotal(line.CylinderType, line.Quantity).InexactFloat64(),
	}
}

func cartResponse(c *cart.Cart) gin.H {
	lines := c.Lines()
	out := make([]gin.H, 0, len(lines))
	for _, line := range lines {
		out = append(out, lineResponse(line))
	}
	return gin.H{
		"lines":        out,
		"subtotal":     c.Subtotal().InexactFloat64(),
		"delivery_fee": pricing.DeliveryFee.InexactFloat64(),
		"total":        c.Total().InexactFloat64(),
	}
}
