// Package services defines the business logic for the course catalog, the
// merchandise storefront, billing, notifications, and editorial content.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// Catalog-related errors.
var (
	// ErrCourseNotFound indicates that the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")

	// ErrModuleNotFound indicates that the requested course module does not exist.
	ErrModuleNotFound = errors.New("course module not found")

	// ErrEnrollmentNotFound indicates that the user is not enrolled in the
	// requested course.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrInvalidProgress is returned when a progress value is outside 0..100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
)

// Storefront-related errors.
var (
	// ErrMerchandiseNotFound indicates that the requested merchandise item
	// does not exist.
	ErrMerchandiseNotFound = errors.New("merchandise not found")

	// ErrOrderNotFound indicates that the requested order does not exist or
	// is not accessible to the current user.
	ErrOrderNotFound = errors.New("order not found")

	// ErrEmptyCart is returned when a checkout request carries no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidQuantity is returned when a checkout line asks for a
	// non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrUnavailable is returned when a checkout line references an item
	// that is not currently available for sale.
	ErrUnavailable = errors.New("merchandise not available")
)

// Billing-related errors.
var (
	// ErrPaymentMethodNotFound indicates that the requested payment method
	// does not exist or belongs to another user.
	ErrPaymentMethodNotFound = errors.New("payment method not found")

	// ErrPaymentNotFound indicates that the requested payment does not exist.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrSubscriptionNotFound indicates that the requested subscription does
	// not exist or belongs to another user.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrInvalidPaymentMethod is returned when a payment method is created
	// without a type.
	ErrInvalidPaymentMethod = errors.New("payment method type is required")
)

// Notification-related errors.
var (
	// ErrNotificationNotFound indicates that the requested email
	// notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")
)

// Content-related errors.
var (
	// ErrArticleNotFound indicates that the requested article does not exist.
	ErrArticleNotFound = errors.New("article not found")

	// ErrPathNotFound indicates that the requested learning path does not exist.
	ErrPathNotFound = errors.New("learning path not found")

	// ErrSlugTaken is returned when creating content whose derived slug
	// already exists.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrEmptyTitle is returned when creating content without a title.
	ErrEmptyTitle = errors.New("title is empty")
)
