// Storefront HTTP handlers: merchandise browsing, cart checkout, and order
// lifecycle. Checkout supports optional Idempotency-Key replay so retried
// requests never double-charge or double-decrement inventory.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/http/middleware"
	"github.com/hexforge/go-academy-backend/internal/repo"
	"github.com/hexforge/go-academy-backend/internal/services"
)

// CreateMerchandiseRequest is the JSON payload for adding a product.
type CreateMerchandiseRequest struct {
	Name          string   `json:"name" binding:"required,min=1,max=255" example:"HexForge Bus Pirate v5"`
	Description   string   `json:"description" example:"Universal serial interface tool"`
	Category      string   `json:"category" example:"tools"`
	Price         float64  `json:"price" example:"79.00"`
	DiscountPrice *float64 `json:"discount_price,omitempty" example:"59.00"`
	Inventory     int      `json:"inventory" example:"25"`
	IsAvailable   bool     `json:"is_available" example:"true"`
}

// CheckoutLineRequest is one cart line in a checkout payload.
type CheckoutLineRequest struct {
	MerchandiseID int `json:"merchandise_id" binding:"required,min=1" example:"3"`
	Quantity      int `json:"quantity" binding:"required,min=1" example:"2"`
}

// CheckoutRequest is the JSON payload for placing an order.
type CheckoutRequest struct {
	Items []CheckoutLineRequest `json:"items" binding:"required"`
}

// CheckoutResponse is the order-plus-payment view returned by checkout.
type CheckoutResponse struct {
	Order   domain.Order       `json:"order"`
	Items   []domain.OrderItem `json:"items"`
	Payment domain.Payment     `json:"payment"`
}

// UpdateOrderStatusRequest is the JSON payload for moving an order through its
// lifecycle.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"shipped"`
}

// OrderResponse bundles an order with its line items.
type OrderResponse struct {
	Order domain.Order       `json:"order"`
	Items []domain.OrderItem `json:"items"`
}

// CreateMerchandise godoc
// @ID          createMerchandise
// @Summary     Add a product
// @Tags        Shop
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateMerchandiseRequest  true  "Product payload"
//
// @Success     201  {object}  domain.Merchandise
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /merchandise [post]
func (h *Handlers) CreateMerchandise(c *gin.Context) {
	var req CreateMerchandiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	m, err := h.shopSvc.CreateMerchandise(c.Request.Context(), domain.Merchandise{
		Name:          req.Name,
		Description:   req.Description,
		Category:      req.Category,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Inventory:     req.Inventory,
		IsAvailable:   req.IsAvailable,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListMerchandise godoc
// @ID          listMerchandise
// @Summary     List products
// @Description Returns available products, optionally filtered by category.
// @Tags        Shop
// @Produce     json
//
// @Param       category  query  string  false "Filter by category"  example(tools)
//
// @Success     200  {array}  domain.Merchandise
// @Router      /merchandise [get]
func (h *Handlers) ListMerchandise(c *gin.Context) {
	ok(c, http.StatusOK, h.shopSvc.ListMerchandise(c.Request.Context(), c.Query("category")))
}

// GetMerchandise godoc
// @ID          getMerchandise
// @Summary     Fetch a product
// @Tags        Shop
// @Produce     json
//
// @Param       id  path  int  true  "Merchandise ID"  example(3)
//
// @Success     200  {object}  domain.Merchandise
// @Failure     404  {object}  handlers.ErrorResponse  "Product not found"
// @Router      /merchandise/{id} [get]
func (h *Handlers) GetMerchandise(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	m, err := h.shopSvc.GetMerchandise(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "merchandise not found")
		return
	}
	ok(c, http.StatusOK, m)
}

// Checkout godoc
// @ID          checkout
// @Summary     Place an order
// @Description Validates the cart, decrements inventory, and creates a pending order and payment. Supply an Idempotency-Key header to make retries safe; replays return the original order with Idempotency-Replayed set.
// @Tags        Shop
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string                    false "User ID (demo header)"  example(42)
// @Param       Idempotency-Key  header  string                    false "Client-chosen retry key"
// @Param       body             body    handlers.CheckoutRequest  true  "Cart payload"
//
// @Success     201  {object}  handlers.CheckoutResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown merchandise"
// @Failure     409  {object}  handlers.ErrorResponse  "Product unavailable"
// @Router      /checkout [post]
func (h *Handlers) Checkout(c *gin.Context) {
	uid := userID(c)
	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))

	if resp, found := h.replayCheckout(c, uid, idemKey); found {
		middleware.CheckoutReplays.Inc()
		c.Header("Idempotency-Replayed", "true")
		ok(c, http.StatusCreated, resp)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	lines := make([]services.CheckoutLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, services.CheckoutLine{MerchandiseID: it.MerchandiseID, Quantity: it.Quantity})
	}

	res, err := h.shopSvc.Checkout(c.Request.Context(), uid, lines)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart), errors.Is(err, services.ErrInvalidQuantity):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrMerchandiseNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		case errors.Is(err, services.ErrUnavailable):
			fail(c, http.StatusConflict, ErrCodeUnavailable, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCheckoutFailed, err.Error())
		}
		return
	}

	middleware.OrdersPlaced.Inc()

	if h.DB != nil && idemKey != "" {
		// Best effort: a lost record only means a retry re-runs checkout.
		if _, err := repo.CreateIdempotency(c.Request.Context(), h.DB, uid, idemKey, res.Order.ID, http.StatusCreated, h.IdemTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("checkout: persist idempotency record")
		}
	}

	ok(c, http.StatusCreated, CheckoutResponse{Order: res.Order, Items: res.Items, Payment: res.Payment})
}

// replayCheckout looks up a prior checkout recorded under (user, key) and
// rebuilds its response. Reports found=false when there is nothing to replay.
func (h *Handlers) replayCheckout(c *gin.Context, uid int, key string) (CheckoutResponse, bool) {
	if h.DB == nil || key == "" {
		return CheckoutResponse{}, false
	}
	rec, err := repo.GetIdempotency(c.Request.Context(), h.DB, uid, key, time.Now().UTC())
	if err != nil {
		return CheckoutResponse{}, false
	}
	order, items, err := h.shopSvc.GetOrder(c.Request.Context(), uid, rec.OrderID)
	if err != nil {
		return CheckoutResponse{}, false
	}
	resp := CheckoutResponse{Order: order, Items: items}
	if pays, err := h.billingSvc.PaymentsForOrder(c.Request.Context(), uid, rec.OrderID); err == nil && len(pays) > 0 {
		resp.Payment = pays[0]
	}
	return resp, true
}

// GetOrder godoc
// @ID          getOrder
// @Summary     Fetch an order with its items
// @Tags        Shop
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
// @Param       id         path    int     true  "Order ID"               example(1)
//
// @Success     200  {object}  handlers.OrderResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Router      /orders/{id} [get]
func (h *Handlers) GetOrder(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	order, items, err := h.shopSvc.GetOrder(c.Request.Context(), userID(c), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, OrderResponse{Order: order, Items: items})
}

// ListOrders godoc
// @ID          listOrders
// @Summary     List the current user's orders
// @Tags        Shop
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
//
// @Success     200  {array}  domain.Order
// @Router      /orders [get]
func (h *Handlers) ListOrders(c *gin.Context) {
	ok(c, http.StatusOK, h.shopSvc.ListOrders(c.Request.Context(), userID(c)))
}

// UpdateOrderStatus godoc
// @ID          updateOrderStatus
// @Summary     Update an order's status
// @Description Moves an order through its lifecycle. Shipping and delivery stamp timestamps once and queue a notification email.
// @Tags        Shop
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                                 true  "Order ID"  example(1)
// @Param       body  body  handlers.UpdateOrderStatusRequest   true  "Status payload"
//
// @Success     200  {object}  domain.Order
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Router      /orders/{id}/status [put]
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	order, err := h.shopSvc.UpdateOrderStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, order)
}
