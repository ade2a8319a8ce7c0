// Editorial content HTTP handlers: articles, full-text search, and learning
// paths. Article listing supports weak ETags so clients can poll cheaply.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hexforge/go-academy-backend/internal/domain"
	"github.com/hexforge/go-academy-backend/internal/services"
	"github.com/hexforge/go-academy-backend/internal/utils"
)

// CreateArticleRequest is the JSON payload for drafting an article.
type CreateArticleRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=255" example:"Sniffing UART on a smart plug"`
	Summary  string `json:"summary" example:"Finding TX/RX and reading the boot log"`
	Body     string `json:"body" binding:"required" example:"## Locating the header\n..."`
	Category string `json:"category" example:"hardware"`
	AuthorID int    `json:"author_id" example:"7"`
}

// ListArticlesResponse is a page of published articles.
type ListArticlesResponse struct {
	Items      []domain.Article `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// PathStepRequest is one ordered step in a learning path payload. A step may
// point at an article, a course, both, or neither.
type PathStepRequest struct {
	Title       string `json:"title" binding:"required" example:"Solder a header"`
	ArticleSlug string `json:"article_slug,omitempty" example:"sniffing-uart-on-a-smart-plug"`
	CourseID    *int   `json:"course_id,omitempty" example:"1"`
}

// CreatePathRequest is the JSON payload for creating a learning path.
type CreatePathRequest struct {
	Title       string            `json:"title" binding:"required,min=1,max=255" example:"Zero to UART"`
	Description string            `json:"description,omitempty"`
	Difficulty  string            `json:"difficulty,omitempty" example:"beginner"`
	Steps       []PathStepRequest `json:"steps"`
}

// CreateArticle godoc
// @ID          createArticle
// @Summary     Draft an article
// @Description Creates a draft article. The slug is derived from the title; drafts are invisible until published.
// @Tags        Content
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateArticleRequest  true  "Article payload"
//
// @Success     201  {object}  domain.Article
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Slug already taken"
// @Router      /articles [post]
func (h *Handlers) CreateArticle(c *gin.Context) {
	var req CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	a, err := h.contentSvc.CreateArticle(c.Request.Context(), req.Title, req.Summary, req.Body, req.Category, req.AuthorID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlugTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, "an article with this title already exists")
		case errors.Is(err, services.ErrEmptyTitle):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, a)
}

// GetArticle godoc
// @ID          getArticle
// @Summary     Fetch an article by slug
// @Tags        Content
// @Produce     json
//
// @Param       slug  path  string  true  "Article slug"  example(sniffing-uart-on-a-smart-plug)
//
// @Success     200  {object}  domain.Article
// @Failure     404  {object}  handlers.ErrorResponse  "Article not found"
// @Router      /articles/{slug} [get]
func (h *Handlers) GetArticle(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	a, err := h.contentSvc.GetArticle(c.Request.Context(), slug)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "article not found")
		return
	}
	ok(c, http.StatusOK, a)
}

// ListArticles godoc
// @ID          listArticles
// @Summary     List published articles (paginated)
// @Description Returns a page of published articles newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Content
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"articles:3:1700000000\")
// @Param       category       query   string  false "Filter by category"          example(hardware)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListArticlesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /articles [get]
func (h *Handlers) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.contentSvc.ArticlesStats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"articles:%d:%d"`, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, total, err := h.contentSvc.ListArticles(ctx, c.Query("category"), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := utils.TotalPages(total, pageSize)
	ok(c, http.StatusOK, ListArticlesResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// PublishArticle godoc
// @ID          publishArticle
// @Summary     Publish a draft article
// @Description Makes the article publicly visible and indexes it for search. Publishing twice keeps the original timestamp.
// @Tags        Content
// @Produce     json
//
// @Param       slug  path  string  true  "Article slug"  example(sniffing-uart-on-a-smart-plug)
//
// @Success     204  "Published"
// @Failure     404  {object}  handlers.ErrorResponse  "Article not found"
// @Router      /articles/{slug}/publish [post]
func (h *Handlers) PublishArticle(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if err := h.contentSvc.Publish(c.Request.Context(), slug); err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "article not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// SearchArticles godoc
// @ID          searchArticles
// @Summary     Search published articles
// @Description Ranks article paragraphs against the query and returns the best snippets with their source slugs.
// @Tags        Content
// @Produce     json
//
// @Param       q  query  string  true  "Search query"  example(uart baud rate)
//
// @Success     200  {array}   search.Result
// @Failure     400  {object}  handlers.ErrorResponse  "Missing query"
// @Router      /search [get]
func (h *Handlers) SearchArticles(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	ok(c, http.StatusOK, h.contentSvc.Search(c.Request.Context(), q))
}

// CreatePath godoc
// @ID          createLearningPath
// @Summary     Create a learning path
// @Description Creates an ordered sequence of steps guiding a learner through a topic.
// @Tags        Content
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreatePathRequest  true  "Learning path payload"
//
// @Success     201  {object}  domain.LearningPath
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Slug already taken"
// @Router      /paths [post]
func (h *Handlers) CreatePath(c *gin.Context) {
	var req CreatePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	steps := make([]domain.LearningPathStep, 0, len(req.Steps))
	for _, s := range req.Steps {
		steps = append(steps, domain.LearningPathStep{
			Title:       s.Title,
			ArticleSlug: s.ArticleSlug,
			CourseID:    s.CourseID,
		})
	}
	p, err := h.contentSvc.CreatePath(c.Request.Context(), req.Title, req.Description, req.Difficulty, steps)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSlugTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, "a path with this title already exists")
		case errors.Is(err, services.ErrEmptyTitle):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

// GetPath godoc
// @ID          getLearningPath
// @Summary     Fetch a learning path with its steps
// @Tags        Content
// @Produce     json
//
// @Param       slug  path  string  true  "Path slug"  example(zero-to-uart)
//
// @Success     200  {object}  domain.LearningPath
// @Failure     404  {object}  handlers.ErrorResponse  "Path not found"
// @Router      /paths/{slug} [get]
func (h *Handlers) GetPath(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	p, err := h.contentSvc.GetPath(c.Request.Context(), slug)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "path not found")
		return
	}
	ok(c, http.StatusOK, p)
}

// ListPaths godoc
// @ID          listLearningPaths
// @Summary     List learning paths
// @Tags        Content
// @Produce     json
//
// @Param       difficulty  query  string  false "Filter by difficulty"  example(beginner)
//
// @Success     200  {array}   domain.LearningPath
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /paths [get]
func (h *Handlers) ListPaths(c *gin.Context) {
	paths, err := h.contentSvc.ListPaths(c.Request.Context(), c.Query("difficulty"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, paths)
}
