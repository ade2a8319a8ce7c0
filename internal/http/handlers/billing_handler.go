// Billing HTTP handlers: saved payment methods, payment status, and
// subscriptions.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/services"
)

// AddPaymentMethodRequest is the JSON payload for saving a payment method.
type AddPaymentMethodRequest struct {
	Type           string `json:"type" binding:"required" example:"card"`
	Metadata       string `json:"metadata,omitempty" example:"visa **** 4242"`
	BillingAddress string `json:"billing_address,omitempty" example:"1 Breadboard Way"`
	IsDefault      bool   `json:"is_default" example:"true"`
}

// UpdatePaymentStatusRequest is the JSON payload for settling a payment.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status" binding:"required" example:"succeeded"`
}

// SubscribeRequest is the JSON payload for starting a subscription.
type SubscribeRequest struct {
	Plan     string `json:"plan" binding:"required" example:"pro-monthly"`
	Metadata string `json:"metadata,omitempty"`
}

// AddPaymentMethod godoc
// @ID          addPaymentMethod
// @Summary     Save a payment method
// @Description Saves a payment method for the current user. The first saved method becomes the default.
// @Tags        Billing
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                             false "User ID (demo header)"  example(42)
// @Param       body       body    handlers.AddPaymentMethodRequest   true  "Payment method payload"
//
// @Success     201  {object}  domain.PaymentMethod
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /payment-methods [post]
func (h *Handlers) AddPaymentMethod(c *gin.Context) {
	var req AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	pm, err := h.billingSvc.AddPaymentMethod(c.Request.Context(), userID(c), domain.PaymentMethod{
		Type:           req.Type,
		Metadata:       req.Metadata,
		BillingAddress: req.BillingAddress,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPaymentMethod) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "payment method type required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, pm)
}

// ListPaymentMethods godoc
// @ID          listPaymentMethods
// @Summary     List the current user's payment methods
// @Tags        Billing
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
//
// @Success     200  {array}  domain.PaymentMethod
// @Router      /payment-methods [get]
func (h *Handlers) ListPaymentMethods(c *gin.Context) {
	ok(c, http.StatusOK, h.billingSvc.ListPaymentMethods(c.Request.Context(), userID(c)))
}

// SetDefaultPaymentMethod godoc
// @ID          setDefaultPaymentMethod
// @Summary     Make a payment method the default
// @Description Marks the method as default and clears the flag on the user's other methods.
// @Tags        Billing
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
// @Param       id         path    int     true  "Payment method ID"      example(2)
//
// @Success     200  {object}  domain.PaymentMethod
// @Failure     404  {object}  handlers.ErrorResponse  "Payment method not found"
// @Router      /payment-methods/{id}/default [put]
func (h *Handlers) SetDefaultPaymentMethod(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	pm, err := h.billingSvc.SetDefaultPaymentMethod(c.Request.Context(), userID(c), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "payment method not found")
		return
	}
	ok(c, http.StatusOK, pm)
}

// OrderPayments godoc
// @ID          listOrderPayments
// @Summary     List payments for an order
// @Tags        Billing
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
// @Param       id         path    int     true  "Order ID"               example(1)
//
// @Success     200  {array}   domain.Payment
// @Failure     404  {object}  handlers.ErrorResponse  "Order not found"
// @Router      /orders/{id}/payments [get]
func (h *Handlers) OrderPayments(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	pays, err := h.billingSvc.PaymentsForOrder(c.Request.Context(), userID(c), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "order not found")
		return
	}
	ok(c, http.StatusOK, pays)
}

// UpdatePaymentStatus godoc
// @ID          updatePaymentStatus
// @Summary     Update a payment's status
// @Description Settles or fails a payment. A succeeded payment marks its order paid.
// @Tags        Billing
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                                   true  "Payment ID"  example(1)
// @Param       body  body  handlers.UpdatePaymentStatusRequest   true  "Status payload"
//
// @Success     200  {object}  domain.Payment
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Payment not found"
// @Router      /payments/{id}/status [put]
func (h *Handlers) UpdatePaymentStatus(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	p, err := h.billingSvc.UpdatePaymentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "payment not found")
		return
	}
	ok(c, http.StatusOK, p)
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Start a subscription
// @Tags        Billing
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                     false "User ID (demo header)"  example(42)
// @Param       body       body    handlers.SubscribeRequest  true  "Subscription payload"
//
// @Success     201  {object}  domain.Subscription
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /subscriptions [post]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sub, err := h.billingSvc.Subscribe(c.Request.Context(), userID(c), req.Plan, req.Metadata)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	ok(c, http.StatusCreated, sub)
}

// ListSubscriptions godoc
// @ID          listSubscriptions
// @Summary     List the current user's subscriptions
// @Tags        Billing
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
//
// @Success     200  {array}  domain.Subscription
// @Router      /subscriptions [get]
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	ok(c, http.StatusOK, h.billingSvc.ListSubscriptions(c.Request.Context(), userID(c)))
}

// CancelSubscription godoc
// @ID          cancelSubscription
// @Summary     Cancel a subscription at period end
// @Description Flags the subscription to lapse when the current period closes. Status stays active until then.
// @Tags        Billing
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
// @Param       id         path    int     true  "Subscription ID"        example(1)
//
// @Success     200  {object}  domain.Subscription
// @Failure     404  {object}  handlers.ErrorResponse  "Subscription not found"
// @Router      /subscriptions/{id} [delete]
func (h *Handlers) CancelSubscription(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	sub, err := h.billingSvc.CancelSubscription(c.Request.Context(), userID(c), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "subscription not found")
		return
	}
	ok(c, http.StatusOK, sub)
}
