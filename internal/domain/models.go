// Package domain defines the data models of the academy application: the
// course catalog, the hardware storefront, billing records, and email
// notifications. These types are plain records owned by the in-memory store;
// the GORM-mapped content models live in content.go.
package domain

import "time"

// Course is a published course in the catalog. EnrollmentCount is derived
// state: it is incremented only when an enrollment is created and never
// decremented.
type Course struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	AuthorID        int       `json:"author_id"`
	Price           float64   `json:"price"`
	Difficulty      string    `json:"difficulty"` // beginner, intermediate, advanced
	EnrollmentCount int       `json:"enrollment_count"`
	Rating          float64   `json:"rating"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"created_at"`
}

// CourseModule is a single unit of a course, ordered by ModuleNumber.
// CourseID is a soft reference: it is never validated against the catalog.
type CourseModule struct {
	ID           int    `json:"id"`
	CourseID     int    `json:"course_id"`
	ModuleNumber int    `json:"module_number"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Duration     int    `json:"duration"` // minutes
}

// UserCourse is an enrollment of a user in a course. Progress runs 0–100;
// CompletedAt is set exactly once, the first time progress reaches 100.
type UserCourse struct {
	ID             int        `json:"id"`
	UserID         int        `json:"user_id"`
	CourseID       int        `json:"course_id"`
	Progress       int        `json:"progress"`
	EnrolledAt     time.Time  `json:"enrolled_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Certificate    bool       `json:"certificate"`
}

// Merchandise is a hardware item in the storefront. Availability is
// asymmetric: order-item creation may turn IsAvailable off when inventory
// hits zero, but nothing in this layer ever turns it back on.
type Merchandise struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discount_price,omitempty"`
	Inventory     int       `json:"inventory"`
	IsAvailable   bool      `json:"is_available"`
	CreatedAt     time.Time `json:"created_at"`
}

// Order is a storefront purchase. Status is a free-form string; only the
// transitions to "shipped" and "delivered" have special handling, each
// stamping its timestamp once. UpdatedAt is bumped on every status write.
type Order struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Status      string     `json:"status"`
	Total       float64    `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// OrderItem is a line of an order. MerchandiseID is optional and soft:
// when present and resolvable, creating the item decrements the referenced
// merchandise inventory by Quantity (floored at zero); when it does not
// resolve, the item is stored and the side effect is skipped.
type OrderItem struct {
	ID            int     `json:"id"`
	OrderID       int     `json:"order_id"`
	MerchandiseID *int    `json:"merchandise_id,omitempty"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
}

// PaymentMethod is a stored payment instrument. At most one method per user
// carries IsDefault=true at any time; the store maintains that invariant.
type PaymentMethod struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	Type           string    `json:"type"` // card, paypal, crypto
	IsDefault      bool      `json:"is_default"`
	Metadata       string    `json:"metadata,omitempty"`
	BillingAddress string    `json:"billing_address,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Payment records a payment attempt against an order.
type Payment struct {
	ID        int       `json:"id"`
	OrderID   int       `json:"order_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription is a recurring plan. Cancellation flips CancelAtPeriodEnd
// without touching Status; the billing provider is expected to end the
// subscription when the period closes.
type Subscription struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	Plan              string    `json:"plan"`
	Status            string    `json:"status"`
	CancelAtPeriodEnd bool      `json:"cancel_at_period_end"`
	Metadata          string    `json:"metadata,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// EmailNotification is a queued outbound email. SentAt is stamped once, on
// the first transition to status "sent".
type EmailNotification struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Subject   string     `json:"subject"`
	Template  string     `json:"template"`
	Status    string     `json:"status"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	Metadata  string     `json:"metadata,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
