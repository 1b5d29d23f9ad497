package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/EtomCoda/bobchi-backend/internal/checkout"
	"github.com/EtomCoda/bobchi-backend/internal/models"
	"github.com/EtomCoda/bobchi-backend/internal/orders"
)

type fakeOrderRepo struct {
	createErr    error
	createdOrder *models.Order
	createdItems []models.OrderItem
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	f.createdOrder = order
	f.createdItems = items
	return primitive.NewObjectID(), nil
}

func (f *fakeOrderRepo) ListByUser(context.Context, primitive.ObjectID) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) GetByID(context.Context, primitive.ObjectID) (*models.Order, []models.OrderItem, error) {
	return nil, nil, orders.ErrOrderNotFound
}

func newTestRouter(repo orders.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := checkout.NewStore()
	svc := orders.NewService(repo)
	userID := primitive.NewObjectID()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Set("userEmail", "ada@example.com")
		c.Next()
	})

	r.GET("/cart", GetCart(store))
	r.POST("/cart/items", AddCartItem(store))
	r.PUT("/cart/items/:id", UpdateCartItem(store))
	r.DELETE("/cart/items/:id", RemoveCartItem(store))
	r.GET("/checkout", GetCheckout(store))
	r.POST("/checkout/advance", AdvanceCheckout(store, svc))
	r.POST("/checkout/back", BackCheckout(store))
	r.POST("/checkout/reset", ResetCheckout(store))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := map[string]interface{}{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func cartLinesOf(t *testing.T, resp map[string]interface{}) []interface{} {
	t.Helper()
	cartBody, ok := resp["cart"].(map[string]interface{})
	require.True(t, ok, "response has no cart: %v", resp)
	lines, _ := cartBody["lines"].([]interface{})
	return lines
}

var deliveryBody = map[string]interface{}{
	"full_name":    "Ada Obi",
	"phone_number": "08030000000",
	"email":        "ada@example.com",
	"address":      "12 Marina Road, Lagos",
	"landmark":     "Opposite the blue kiosk",
}

func TestAddCartItemMergesAndPrices(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	w, _ := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "6kg", "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "6kg", "quantity": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	lines := cartLinesOf(t, resp)
	require.Len(t, lines, 1, "same cylinder type must merge into one line")
	line := lines[0].(map[string]interface{})
	assert.Equal(t, 3.0, line["quantity"])
	assert.Equal(t, 5400.0, line["unit_price"])
	assert.Equal(t, 16200.0, line["line_total"])

	cartBody := resp["cart"].(map[string]interface{})
	assert.Equal(t, 17200.0, cartBody["total"], "3 x 6kg at 900/kg plus 1000 delivery fee")
}

func TestAddCartItemRejectsUnknownType(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	w, _ := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "5kg", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCartItemRejectsNonPositive(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	_, resp := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "25kg", "quantity": 4,
	})
	line := cartLinesOf(t, resp)[0].(map[string]interface{})
	id := line["id"].(string)

	for _, qty := range []int{0, -1} {
		w, errResp := doJSON(t, r, http.MethodPut, "/cart/items/"+id, map[string]interface{}{"quantity": qty})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "quantity must be at least 1", errResp["error"])
	}

	w, resp := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := resp["lines"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 4.0, got["quantity"], "rejected edits leave the cart unchanged")
}

func TestAddCartItemRejectsNonPositiveQuantity(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	for _, qty := range []int{0, -3} {
		w, resp := doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
			"cylinder_type": "6kg", "quantity": qty,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "quantity must be at least 1", resp["error"])
	}

	w, resp := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp["lines"])
}

func TestConcurrentCartRequests(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	raw, err := json.Marshal(map[string]interface{}{"cylinder_type": "6kg", "quantity": 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				req := httptest.NewRequest(http.MethodPost, "/cart/items", bytes.NewReader(raw))
				req.Header.Set("Content-Type", "application/json")
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				if w.Code != http.StatusCreated {
					t.Errorf("add returned %d", w.Code)
				}
			}
		}()
	}
	wg.Wait()

	w, resp := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := resp["lines"].([]interface{})
	require.Len(t, lines, 1)
	assert.Equal(t, 200.0, lines[0].(map[string]interface{})["quantity"],
		"simultaneous adds from one user must all merge into the single line")
}

func TestRemoveCartItemUnknownID(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	w, _ := doJSON(t, r, http.MethodDelete, "/cart/items/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdvanceBlockedOnEmptyCart(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	w, resp := doJSON(t, r, http.MethodPost, "/checkout/advance", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cart is empty", resp["error"])

	_, state := doJSON(t, r, http.MethodGet, "/checkout", nil)
	assert.Equal(t, 1.0, state["step"], "wizard stays on selection")
}

func TestFullCheckoutFlow(t *testing.T) {
	repo := &fakeOrderRepo{}
	r := newTestRouter(repo)

	_, _ = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "6kg", "quantity": 2,
	})
	_, _ = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "12.5kg", "quantity": 1,
	})

	// Selection -> Review
	w, state := doJSON(t, r, http.MethodPost, "/checkout/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2.0, state["step"])

	// Review -> DeliveryInfo
	w, state = doJSON(t, r, http.MethodPost, "/checkout/advance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, state["step"])

	// DeliveryInfo without the form is rejected.
	w, _ = doJSON(t, r, http.MethodPost, "/checkout/advance", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// DeliveryInfo -> Payment
	w, state = doJSON(t, r, http.MethodPost, "/checkout/advance", map[string]interface{}{
		"delivery": deliveryBody,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.0, state["step"])

	// Payment -> Confirmation submits the order.
	w, resp := doJSON(t, r, http.MethodPost, "/checkout/advance", map[string]interface{}{
		"payment_method": "paystack",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp["order_id"], "confirmation carries the real order id")

	require.NotNil(t, repo.createdOrder)
	assert.Equal(t, 23050.0, repo.createdOrder.TotalAmount, "2x5400 + 11250 + 1000 fee")
	assert.Equal(t, "12 Marina Road, Lagos", repo.createdOrder.DeliveryAddress)
	require.Len(t, repo.createdItems, 2)
	assert.Equal(t, 11250.0, repo.createdItems[1].UnitPrice, "12.5kg price frozen exactly")

	state = resp["checkout"].(map[string]interface{})
	assert.Equal(t, 5.0, state["step"])

	w, cartState := doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartState["lines"], "confirmation empties the cart")
}

func TestSubmitFailureKeepsWizardOnPayment(t *testing.T) {
	repo := &fakeOrderRepo{createErr: errors.New("write conflict")}
	r := newTestRouter(repo)

	_, _ = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "3kg", "quantity": 1,
	})
	_, _ = doJSON(t, r, http.MethodPost, "/checkout/advance", nil)
	_, _ = doJSON(t, r, http.MethodPost, "/checkout/advance", nil)
	_, _ = doJSON(t, r, http.MethodPost, "/checkout/advance", map[string]interface{}{
		"delivery": deliveryBody,
	})

	w, _ := doJSON(t, r, http.MethodPost, "/checkout/advance", map[string]interface{}{
		"payment_method": "ussd",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	_, state := doJSON(t, r, http.MethodGet, "/checkout", nil)
	assert.Equal(t, 4.0, state["step"], "failed submission does not reach confirmation")
}

func TestBackAndReset(t *testing.T) {
	r := newTestRouter(&fakeOrderRepo{})

	_, _ = doJSON(t, r, http.MethodPost, "/cart/items", map[string]interface{}{
		"cylinder_type": "6kg", "quantity": 1,
	})
	_, _ = doJSON(t, r, http.MethodPost, "/checkout/advance", nil)

	w, state := doJSON(t, r, http.MethodPost, "/checkout/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, state["step"])

	w, _ = doJSON(t, r, http.MethodPost, "/checkout/back", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, state = doJSON(t, r, http.MethodPost, "/checkout/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, state["step"])
	assert.Empty(t, state["cart"].(map[string]interface{})["lines"])
}
