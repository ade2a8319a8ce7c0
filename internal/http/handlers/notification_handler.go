// Email notification queue HTTP handlers.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hexforge/go-academy-backend/internal/services"
)

// QueueNotificationRequest is the JSON payload for queueing an email.
type QueueNotificationRequest struct {
	Subject  string `json:"subject" binding:"required" example:"Your soldering kit has shipped"`
	Template string `json:"template" binding:"required" example:"order-shipped"`
	Metadata string `json:"metadata,omitempty"`
}

// UpdateNotificationRequest marks a queued email sent or failed. SentAt is
// optional; when omitted the server stamps the current time.
type UpdateNotificationRequest struct {
	Status string     `json:"status" binding:"required" example:"sent"`
	SentAt *time.Time `json:"sent_at,omitempty"`
}

// QueueNotification godoc
// @ID          queueNotification
// @Summary     Queue an email notification
// @Tags        Notifications
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string                             false "User ID (demo header)"  example(42)
// @Param       body       body    handlers.QueueNotificationRequest  true  "Notification payload"
//
// @Success     201  {object}  domain.EmailNotification
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /notifications [post]
func (h *Handlers) QueueNotification(c *gin.Context) {
	var req QueueNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	n, err := h.notifSvc.Queue(c.Request.Context(), userID(c), req.Subject, req.Template, req.Metadata)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	ok(c, http.StatusCreated, n)
}

// UpdateNotification godoc
// @ID          updateNotification
// @Summary     Mark a notification sent or failed
// @Description Transitions a queued email. The first "sent" transition stamps SentAt; later ones keep the original stamp.
// @Tags        Notifications
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                                  true  "Notification ID"  example(1)
// @Param       body  body  handlers.UpdateNotificationRequest   true  "Status payload"
//
// @Success     200  {object}  domain.EmailNotification
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Notification not found"
// @Router      /notifications/{id}/status [put]
func (h *Handlers) UpdateNotification(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	var (
		n   any
		err error
	)
	switch req.Status {
	case "sent":
		n, err = h.notifSvc.MarkSent(c.Request.Context(), id, req.SentAt)
	case "failed":
		n, err = h.notifSvc.MarkFailed(c.Request.Context(), id)
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be sent or failed")
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "notification not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, n)
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List the current user's notifications
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
//
// @Success     200  {array}  domain.EmailNotification
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	ok(c, http.StatusOK, h.notifSvc.ListForUser(c.Request.Context(), userID(c)))
}
