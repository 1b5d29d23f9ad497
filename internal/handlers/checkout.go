package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EtomCoda/bobchi-backend/internal/checkout"
	"github.com/EtomCoda/bobchi-backend/internal/models"
	"github.com/EtomCoda/bobchi-backend/internal/orders"
)

type deliveryInfoRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	PhoneNumber  string `json:"phone_number" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Address      string `json:"address" binding:"required"`
	Landmark     string `json:"landmark"`
	DeliveryTime string `json:"delivery_time"`
	Notes        string `json:"notes"`
}

func (r deliveryInfoRequest) toModel() models.DeliveryInfo {
	return models.DeliveryInfo{
		FullName:     strings.TrimSpace(r.FullName),
		PhoneNumber:  strings.TrimSpace(r.PhoneNumber),
		Email:        strings.TrimSpace(r.Email),
		Address:      strings.TrimSpace(r.Address),
		Landmark:     strings.TrimSpace(r.Landmark),
		DeliveryTime: strings.TrimSpace(r.DeliveryTime),
		Notes:        strings.TrimSpace(r.Notes),
	}
}

type advanceCheckoutRequest struct {
	Delivery      *deliveryInfoRequest `json:"delivery"`
	PaymentMethod string               `json:"payment_method"`
}

func GetCheckout(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}
		session.Lock()
		defer session.Unlock()

		c.JSON(http.StatusOK, checkoutResponse(session))
	}
}

// AdvanceCheckout moves the wizard forward one step. The delivery step
// expects the delivery form in the body; the payment step expects the
// payment method and performs the order submission before confirming.
func AdvanceCheckout(store *checkout.Store, svc *orders.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/advance"
		defer handlePanic(c, route)

		userID, ok := userIDFromContext(c)
		if !ok {
			log.Println("[CHECKOUT] [ERROR] userId missing in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		session := store.Get(userID.Hex())

		// Held across the submission too, so a concurrent advance cannot
		// place the same order twice.
		session.Lock()
		defer session.Unlock()

		var req advanceCheckoutRequest
		if c.Request.Body != nil && c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondValidationError(c, err)
				return
			}
		}

		switch session.Step {
		case checkout.StepDeliveryInfo:
			if req.Delivery == nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "delivery information is required"})
				return
			}
			session.SetDelivery(req.Delivery.toModel())

		case checkout.StepPayment:
			method, err := models.ParsePaymentMethod(strings.TrimSpace(req.PaymentMethod))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "a valid payment_method is required"})
				return
			}

			ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
			defer cancel()

			order, err := svc.Submit(ctx, userID, session.Cart.Lines(), *session.Delivery, method)
			if err != nil {
				if errors.Is(err, orders.ErrNotAuthenticated) {
					c.JSON(http.StatusUnauthorized, gin.H{"error": "please sign in to place an order"})
					return
				}
				respondWithError(c, http.StatusInternalServerError, route,
					"there was an error placing your order, please try again")
				return
			}

			if err := session.Confirm(order.ID.Hex()); err != nil {
				respondWithError(c, http.StatusConflict, route, err.Error())
				return
			}

			c.JSON(http.StatusOK, gin.H{
				"message":  "order placed successfully",
				"order_id": order.ID.Hex(),
				"checkout": checkoutResponse(session),
			})
			return
		}

		if err := session.Advance(); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, checkout.ErrWizardComplete) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, checkoutResponse(session))
	}
}

func BackCheckout(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}

		session.Lock()
		defer session.Unlock()

		if err := session.Back(); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, checkout.ErrWizardComplete) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, checkoutResponse(session))
	}
}

// ResetCheckout starts a fresh wizard, e.g. after the confirmation screen.
func ResetCheckout(store *checkout.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, store)
		if !ok {
			return
		}

		session.Lock()
		defer session.Unlock()

		session.Reset()
		c.JSON(http.StatusOK, checkoutResponse(session))
	}
}

func checkoutResponse(s *checkout.Session) gin.H {
	resp := gin.H{
		"step":      int(s.Step),
		"step_name": s.Step.String(),
		"cart":      cartResponse(s.Cart),
	}
	if s.Delivery != nil {
		resp["delivery"] = s.Delivery
	}
	if s.LastOrderID != "" {
		resp["order_id"] = s.LastOrderID
	}
	return resp
}
