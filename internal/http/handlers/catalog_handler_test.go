package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/services"
	"github.com/hexforge/go-academy-backend/internal/store"
)

// ---------- shared test wiring ----------

func newContentDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.Article{}, &domain.LearningPath{}, &domain.LearningPathStep{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestHandlers wires real services over a fresh in-memory store and a
// throwaway sqlite DB so handler tests exercise the full request path.
func newTestHandlers(t *testing.T) (*Handlers, *store.Store, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	db := newContentDB(t)
	contentSvc, err := services.NewContentService(db)
	if err != nil {
		t.Fatalf("content service: %v", err)
	}
	h := New(
		services.NewCatalogService(st),
		services.NewStorefrontService(st),
		services.NewBillingService(st),
		services.NewNotificationService(st),
		contentSvc,
	)
	h.DB = db
	return h, st, db
}

func doJSON(r *gin.Engine, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

// ---------- courses ----------

func TestCreateCourse_CreatedAndValidation(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	r := gin.New()
	r.POST("/courses", h.CreateCourse)

	w := doJSON(r, http.MethodPost, "/courses", CreateCourseRequest{
		Title: "Firmware Extraction 101", Category: "hardware", Price: 49.99, Difficulty: "beginner",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var course domain.Course
	decodeJSON(t, w, &course)
	if course.ID == 0 || course.Title != "Firmware Extraction 101" {
		t.Fatalf("unexpected course: %+v", course)
	}

	// Malformed JSON
	req := httptest.NewRequest(http.MethodPost, "/courses", bytes.NewBufferString("{"))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: status = %d, want 400", w2.Code)
	}
}

func TestGetCourse_NotFoundAndBadID(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	r := gin.New()
	r.GET("/courses/:id", h.GetCourse)

	if w := doJSON(r, http.MethodGet, "/courses/999", nil, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing course: status = %d, want 404", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/courses/abc", nil, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status = %d, want 400", w.Code)
	}
}

func TestEnroll_UsesHeaderUserAndIsIdempotent(t *testing.T) {
	h, st, _ := newTestHandlers(t)
	course := st.CreateCourse(domain.Course{Title: "RFID Basics"})

	r := gin.New()
	r.POST("/courses/:id/enroll", h.Enroll)

	hdr := map[string]string{"X-User-ID": "42"}
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/courses/%d/enroll", course.ID), nil, hdr)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	var uc domain.UserCourse
	decodeJSON(t, w, &uc)
	if uc.UserID != 42 || uc.CourseID != course.ID {
		t.Fatalf("unexpected enrollment: %+v", uc)
	}

	// Second enroll returns the same record and leaves the counter alone.
	w2 := doJSON(r, http.MethodPost, fmt.Sprintf("/courses/%d/enroll", course.ID), nil, hdr)
	if w2.Code != http.StatusCreated {
		t.Fatalf("re-enroll status = %d, want 201", w2.Code)
	}
	var uc2 domain.UserCourse
	decodeJSON(t, w2, &uc2)
	if uc2.ID != uc.ID {
		t.Fatalf("re-enroll created a new record: %d vs %d", uc2.ID, uc.ID)
	}
	got, okC := st.GetCourse(course.ID)
	if !okC || got.EnrollmentCount != 1 {
		t.Fatalf("enrollment count = %d, want 1", got.EnrollmentCount)
	}
}

func TestUpdateProgress_Validation(t *testing.T) {
	h, st, _ := newTestHandlers(t)
	course := st.CreateCourse(domain.Course{Title: "SDR Crash Course"})

	r := gin.New()
	r.PUT("/courses/:id/progress", h.UpdateProgress)

	path := fmt.Sprintf("/courses/%d/progress", course.ID)
	if w := doJSON(r, http.MethodPut, path, UpdateProgressRequest{Progress: 101}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("progress 101: status = %d, want 400", w.Code)
	}
	w := doJSON(r, http.MethodPut, path, UpdateProgressRequest{Progress: 100}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("progress 100: status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	var uc domain.UserCourse
	decodeJSON(t, w, &uc)
	if uc.Progress != 100 || uc.CompletedAt == nil {
		t.Fatalf("completion not recorded: %+v", uc)
	}
}

func TestAddModule_And_ListModules(t *testing.T) {
	h, st, _ := newTestHandlers(t)
	course := st.CreateCourse(domain.Course{Title: "JTAG Deep Dive"})

	r := gin.New()
	r.POST("/courses/:id/modules", h.AddModule)
	r.GET("/courses/:id/modules", h.ListModules)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/courses/%d/modules", course.ID), AddModuleRequest{
		ModuleNumber: 1, Title: "Boundary scan", Duration: 30,
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("add module: status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}

	if w := doJSON(r, http.MethodPost, "/courses/999/modules", AddModuleRequest{ModuleNumber: 1, Title: "x"}, nil); w.Code != http.StatusNotFound {
		t.Fatalf("module on missing course: status = %d, want 404", w.Code)
	}

	wl := doJSON(r, http.MethodGet, fmt.Sprintf("/courses/%d/modules", course.ID), nil, nil)
	if wl.Code != http.StatusOK {
		t.Fatalf("list modules: status = %d", wl.Code)
	}
	var mods []domain.CourseModule
	decodeJSON(t, wl, &mods)
	if len(mods) != 1 || mods[0].Title != "Boundary scan" {
		t.Fatalf("unexpected modules: %+v", mods)
	}
}

func TestListCourses_FilterPassthrough(t *testing.T) {
	h, st, _ := newTestHandlers(t)
	st.CreateCourse(domain.Course{Title: "A", Category: "hardware", Difficulty: "beginner"})
	st.CreateCourse(domain.Course{Title: "B", Category: "web", Difficulty: "advanced"})

	r := gin.New()
	r.GET("/courses", h.ListCourses)

	w := doJSON(r, http.MethodGet, "/courses?category=hardware", nil, nil)
	var out []domain.Course
	decodeJSON(t, w, &out)
	if len(out) != 1 || out[0].Title != "A" {
		t.Fatalf("filtered list = %+v", out)
	}
}

func TestMyCourses_DefaultsToUserOne(t *testing.T) {
	h, st, _ := newTestHandlers(t)
	course := st.CreateCourse(domain.Course{Title: "Lockpicking Ethics"})
	st.CreateUserCourse(domain.UserCourse{UserID: 1, CourseID: course.ID})

	r := gin.New()
	r.GET("/me/courses", h.MyCourses)

	w := doJSON(r, http.MethodGet, "/me/courses", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out []domain.UserCourse
	decodeJSON(t, w, &out)
	if len(out) != 1 || out[0].UserID != 1 {
		t.Fatalf("unexpected enrollments: %+v", out)
	}
}
