// GORM-mapped models for the editorial side of the site: articles and
// learning paths. Unlike the storefront records in models.go, these are
// persisted to SQLite and soft-deleted.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Article is a published write-up (teardown, CTF walkthrough, tooling
// guide). Body is Markdown; Slug is the stable URL identifier.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Slug: unique, URL-safe identifier derived from the title.
//   - Category: editorial section (e.g. "firmware", "sdr", "lockpicking").
//   - Published / PublishedAt: visibility gate; drafts are excluded from
//     listings and search.
type Article struct {
	ID          string         `json:"id"           gorm:"type:char(36);primaryKey"`
	Slug        string         `json:"slug"         gorm:"type:varchar(255);not null;uniqueIndex"`
	Title       string         `json:"title"        gorm:"type:varchar(255);not null"`
	Summary     string         `json:"summary"      gorm:"type:text"`
	Body        string         `json:"body"         gorm:"type:text;not null"`
	Category    string         `json:"category"     gorm:"type:varchar(64);index"`
	AuthorID    int            `json:"author_id"    gorm:"not null;index"`
	Published   bool           `json:"published"    gorm:"not null;default:false"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"            gorm:"index"`
}

// TableName returns the database table name for Article.
func (Article) TableName() string { return "articles" }

// LearningPath is a curated sequence of steps guiding a learner through a
// topic. Steps reference articles and courses softly, by slug and id.
type LearningPath struct {
	ID          string         `json:"id"          gorm:"type:char(36);primaryKey"`
	Slug        string         `json:"slug"        gorm:"type:varchar(255);not null;uniqueIndex"`
	Title       string         `json:"title"       gorm:"type:varchar(255);not null"`
	Description string         `json:"description" gorm:"type:text"`
	Difficulty  string         `json:"difficulty"  gorm:"type:varchar(32);index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-"           gorm:"index"`

	// Steps are ordered by Position and cascade-deleted with the path.
	Steps []LearningPathStep `json:"steps" gorm:"foreignKey:PathID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for LearningPath.
func (LearningPath) TableName() string { return "learning_paths" }

// LearningPathStep is one stop on a learning path. ArticleSlug and CourseID
// are soft references; either (or both) may be empty.
type LearningPathStep struct {
	ID          string `json:"id"           gorm:"type:char(36);primaryKey"`
	PathID      string `json:"path_id"      gorm:"type:char(36);not null;index:idx_path_steps,priority:1"`
	Position    int    `json:"position"     gorm:"not null;index:idx_path_steps,priority:2"`
	Title       string `json:"title"        gorm:"type:varchar(255);not null"`
	ArticleSlug string `json:"article_slug,omitempty" gorm:"type:varchar(255)"`
	CourseID    *int   `json:"course_id,omitempty"`
}

// TableName returns the database table name for LearningPathStep.
func (LearningPathStep) TableName() string { return "learning_path_steps" }
