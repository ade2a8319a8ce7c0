// Course catalog HTTP handlers.
//
// This file exposes REST endpoints for courses and enrollments:
//   - POST /courses                    (create)
//   - GET  /courses                    (list, filterable)
//   - GET  /courses/{id}               (fetch one)
//   - POST /courses/{id}/modules       (attach a module)
//   - GET  /courses/{id}/modules       (list modules)
//   - POST /courses/{id}/enroll        (enroll the current user)
//   - PUT  /courses/{id}/progress      (update the current user's progress)
//   - GET  /me/courses                 (the current user's enrollments)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/search"
	"github.com/hexforge/go-academy-backend/internal/services"
	"github.com/hexforge/go-academy-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogService defines course and enrollment operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CatalogService interface {
	// CreateCourse inserts a new course into the catalog.
	CreateCourse(ctx context.Context, in domain.Course) (domain.Course, error)
	// GetCourse fetches a single course by id.
	GetCourse(ctx context.Context, id int) (domain.Course, error)
	// ListCourses returns courses filtered by category and/or difficulty.
	ListCourses(ctx context.Context, category, difficulty string) []domain.Course
	// AddModule attaches a module to an existing course.
	AddModule(ctx context.Context, in domain.CourseModule) (domain.CourseModule, error)
	// ListModules returns a course's modules in order.
	ListModules(ctx context.Context, courseID int) ([]domain.CourseModule, error)
	// Enroll enrolls a user in a course (idempotent per user/course).
	Enroll(ctx context.Context, userID, courseID int) (domain.UserCourse, error)
	// UpdateProgress records a learner's progress in a course.
	UpdateProgress(ctx context.Context, userID, courseID, progress int) (domain.UserCourse, error)
	// MyCourses returns all enrollments for a user.
	MyCourses(ctx context.Context, userID int) []domain.UserCourse
}

// StorefrontService defines merchandise and order operations.
type StorefrontService interface {
	CreateMerchandise(ctx context.Context, in domain.Merchandise) (domain.Merchandise, error)
	GetMerchandise(ctx context.Context, id int) (domain.Merchandise, error)
	ListMerchandise(ctx context.Context, category string) []domain.Merchandise
	Checkout(ctx context.Context, userID int, lines []services.CheckoutLine) (*services.CheckoutResult, error)
	GetOrder(ctx context.Context, userID, orderID int) (domain.Order, []domain.OrderItem, error)
	ListOrders(ctx context.Context, userID int) []domain.Order
	UpdateOrderStatus(ctx context.Context, orderID int, status string) (domain.Order, error)
}

// BillingService defines payment-method, payment, and subscription operations.
type BillingService interface {
	AddPaymentMethod(ctx context.Context, userID int, in domain.PaymentMethod) (domain.PaymentMethod, error)
	ListPaymentMethods(ctx context.Context, userID int) []domain.PaymentMethod
	SetDefaultPaymentMethod(ctx context.Context, userID, id int) (domain.PaymentMethod, error)
	PaymentsForOrder(ctx context.Context, userID, orderID int) ([]domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int, status string) (domain.Payment, error)
	Subscribe(ctx context.Context, userID int, plan, metadata string) (domain.Subscription, error)
	ListSubscriptions(ctx context.Context, userID int) []domain.Subscription
	CancelSubscription(ctx context.Context, userID, id int) (domain.Subscription, error)
}

// NotificationService defines operations on the email notification queue.
type NotificationService interface {
	Queue(ctx context.Context, userID int, subject, template, metadata string) (domain.EmailNotification, error)
	MarkSent(ctx context.Context, id int, at *time.Time) (domain.EmailNotification, error)
	MarkFailed(ctx context.Context, id int) (domain.EmailNotification, error)
	ListForUser(ctx context.Context, userID int) []domain.EmailNotification
}

// ContentService defines article, learning-path, and search operations.
type ContentService interface {
	CreateArticle(ctx context.Context, title, summary, body, category string, authorID int) (*domain.Article, error)
	GetArticle(ctx context.Context, slug string) (*domain.Article, error)
	ListArticles(ctx context.Context, category string, page, pageSize int) ([]domain.Article, int64, error)
	Publish(ctx context.Context, slug string) error
	Search(ctx context.Context, query string) []search.Result
	CreatePath(ctx context.Context, title, description, difficulty string, steps []domain.LearningPathStep) (*domain.LearningPath, error)
	GetPath(ctx context.Context, slug string) (*domain.LearningPath, error)
	ListPaths(ctx context.Context, difficulty string) ([]domain.LearningPath, error)
	ArticlesStats(ctx context.Context) (int64, *time.Time, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for the catalog, storefront, billing,
// notifications, and editorial content. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	catalogSvc CatalogService
	shopSvc    StorefrontService
	billingSvc BillingService
	notifSvc   NotificationService
	contentSvc ContentService

	// DB backs checkout idempotency records; replay is skipped when nil.
	DB *gorm.DB
	// IdemTTL bounds how long a checkout idempotency record is honored.
	IdemTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(catalogSvc CatalogService, shopSvc StorefrontService, billingSvc BillingService, notifSvc NotificationService, contentSvc ContentService) *Handlers {
	return &Handlers{
		catalogSvc: catalogSvc,
		shopSvc:    shopSvc,
		billingSvc: billingSvc,
		notifSvc:   notifSvc,
		contentSvc: contentSvc,
		IdemTTL:    24 * time.Hour,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to user 1. It never touches c.Request if it's nil.
func userID(c *gin.Context) int {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok && id > 0 {
			return id
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			if id := utils.AtoiDefault(h, 0); id > 0 {
				return id
			}
		}
	}
	return 1
}

//
// DTOs
//

// CreateCourseRequest is the JSON payload for creating a course.
type CreateCourseRequest struct {
	Title       string   `json:"title" binding:"required,min=1,max=255" example:"Firmware Extraction 101"`
	Description string   `json:"description" example:"Pull and unpack firmware from consumer routers"`
	Category    string   `json:"category" example:"hardware"`
	AuthorID    int      `json:"author_id" example:"7"`
	Price       float64  `json:"price" example:"49.99"`
	Difficulty  string   `json:"difficulty" example:"beginner"`
	Tags        []string `json:"tags" example:"firmware,flash,soic8"`
}

// AddModuleRequest is the JSON payload for attaching a module to a course.
type AddModuleRequest struct {
	ModuleNumber int    `json:"module_number" binding:"required,min=1" example:"1"`
	Title        string `json:"title" binding:"required,min=1,max=255" example:"Finding the UART header"`
	Description  string `json:"description" example:"Locating and probing serial pads"`
	Duration     int    `json:"duration" example:"45"`
}

// UpdateProgressRequest is the JSON payload for recording course progress.
type UpdateProgressRequest struct {
	Progress int `json:"progress" example:"75"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination bounds the page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ClampPagination(c.Query("page"), c.Query("page_size"))
}

// pathID parses a positive integer path parameter; it fails the request with
// 400 and reports false when the value is malformed.
func pathID(c *gin.Context, name string) (int, bool) {
	id := utils.AtoiDefault(c.Param(name), 0)
	if id <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

//
// Handlers
//

// CreateCourse godoc
// @ID          createCourse
// @Summary     Create a course
// @Description Adds a new course to the catalog and returns the course resource.
// @Tags        Courses
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateCourseRequest  true  "Create course payload"
//
// @Success     201  {object}  domain.Course
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /courses [post]
func (h *Handlers) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	course, err := h.catalogSvc.CreateCourse(c.Request.Context(), domain.Course{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AuthorID:    req.AuthorID,
		Price:       req.Price,
		Difficulty:  req.Difficulty,
		Tags:        req.Tags,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, course)
}

// ListCourses godoc
// @ID          listCourses
// @Summary     List courses
// @Description Returns catalog courses, optionally filtered by category and difficulty.
// @Tags        Courses
// @Produce     json
//
// @Param       category    query  string  false "Filter by category"    example(hardware)
// @Param       difficulty  query  string  false "Filter by difficulty"  example(beginner)
//
// @Success     200  {array}   domain.Course
// @Router      /courses [get]
func (h *Handlers) ListCourses(c *gin.Context) {
	out := h.catalogSvc.ListCourses(c.Request.Context(), c.Query("category"), c.Query("difficulty"))
	ok(c, http.StatusOK, out)
}

// GetCourse godoc
// @ID          getCourse
// @Summary     Fetch a course
// @Tags        Courses
// @Produce     json
//
// @Param       id  path  int  true  "Course ID"  example(1)
//
// @Success     200  {object}  domain.Course
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Course not found"
// @Router      /courses/{id} [get]
func (h *Handlers) GetCourse(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	course, err := h.catalogSvc.GetCourse(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "course not found")
		return
	}
	ok(c, http.StatusOK, course)
}

// AddModule godoc
// @ID          addCourseModule
// @Summary     Attach a module to a course
// @Tags        Courses
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                        true  "Course ID"  example(1)
// @Param       body  body  handlers.AddModuleRequest  true  "Module payload"
//
// @Success     201  {object}  domain.CourseModule
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Course not found"
// @Router      /courses/{id}/modules [post]
func (h *Handlers) AddModule(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req AddModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	m, err := h.catalogSvc.AddModule(c.Request.Context(), domain.CourseModule{
		CourseID:     id,
		ModuleNumber: req.ModuleNumber,
		Title:        req.Title,
		Description:  req.Description,
		Duration:     req.Duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "course not found")
		case errors.Is(err, services.ErrEmptyTitle):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, m)
}

// ListModules godoc
// @ID          listCourseModules
// @Summary     List a course's modules
// @Tags        Courses
// @Produce     json
//
// @Param       id  path  int  true  "Course ID"  example(1)
//
// @Success     200  {array}   domain.CourseModule
// @Failure     404  {object}  handlers.ErrorResponse  "Course not found"
// @Router      /courses/{id}/modules [get]
func (h *Handlers) ListModules(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	mods, err := h.catalogSvc.ListModules(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "course not found")
		return
	}
	ok(c, http.StatusOK, mods)
}

// Enroll godoc
// @ID          enrollCourse
// @Summary     Enroll in a course
// @Description Enrolls the current user. Enrolling twice returns the existing enrollment.
// @Tags        Courses
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
// @Param       id         path    int     true  "Course ID"              example(1)
//
// @Success     201  {object}  domain.UserCourse
// @Failure     404  {object}  handlers.ErrorResponse  "Course not found"
// @Router      /courses/{id}/enroll [post]
func (h *Handlers) Enroll(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	uc, err := h.catalogSvc.Enroll(c.Request.Context(), userID(c), id)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "course not found")
		return
	}
	ok(c, http.StatusCreated, uc)
}

// UpdateProgress godoc
// @ID          updateCourseProgress
// @Summary     Update course progress
// @Description Records the current user's progress (0-100) in a course. Reaching 100 marks it completed.
// @Tags        Courses
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
// @Param       id         path    int     true  "Course ID"              example(1)
// @Param       body       body    handlers.UpdateProgressRequest  true  "Progress payload"
//
// @Success     200  {object}  domain.UserCourse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Course not found"
// @Router      /courses/{id}/progress [put]
func (h *Handlers) UpdateProgress(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	uc, err := h.catalogSvc.UpdateProgress(c.Request.Context(), userID(c), id, req.Progress)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidProgress):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "progress must be between 0 and 100")
		case errors.Is(err, services.ErrCourseNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "course not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, uc)
}

// MyCourses godoc
// @ID          myCourses
// @Summary     List the current user's enrollments
// @Tags        Courses
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(42)
//
// @Success     200  {array}  domain.UserCourse
// @Router      /me/courses [get]
func (h *Handlers) MyCourses(c *gin.Context) {
	ok(c, http.StatusOK, h.catalogSvc.MyCourses(c.Request.Context(), userID(c)))
}
