package models

import "time"

// Article status is the author's intent: a draft being prepared or a
// piece released for publication. It never moves back from PUBLISHED
// to DRAFT.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Access levels gate who may read a published article.
const (
	AccessFree = "FREE"
	AccessPro  = "PRO"
)

// Article is a news piece. Status carries the draft/published intent,
// while IsPublished is the live flag: it marks the article as actually
// released to readers. For scheduled articles the two diverge until the
// publication sweep claims the article; the sweep is the only writer of
// IsPublished after creation.
type Article struct {
	ID              int64
	Title           string
	Subtitle        string
	Body            string
	Image           *string    // Optional reference to an uploaded image
	PublicationDate time.Time  // Defaults to creation time
	ScheduledDate   *time.Time // Set only for scheduled publication
	AuthorUID       string     // Owning user, immutable after creation
	Status          string     // StatusDraft or StatusPublished
	AccessLevel     string     // AccessFree or AccessPro
	IsPublished     bool       // Live flag, see above
	Categories      []Category
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CategoryIDs returns the ids of the article's categories.
func (a *Article) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(a.Categories))
	for _, c := range a.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// DummyArticle receives article data from a JSON request. Dates arrive
// as RFC 3339 strings and are parsed in the service layer.
type DummyArticle struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Subtitle      string  `json:"subtitle,omitempty" validate:"omitempty,max=300"`
	Body          string  `json:"body" validate:"required"`
	Image         *string `json:"image,omitempty"`
	Status        string  `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	AccessLevel   string  `json:"access_level,omitempty" validate:"omitempty,oneof=FREE PRO"`
	ScheduledDate string  `json:"scheduled_date,omitempty" validate:"omitempty"`
	CategoryIDs   []int64 `json:"category_ids" validate:"required,min=1"`
}

// ArticleFilter narrows article listings. Zero values mean "no filter".
// Search matches title, subtitle and body.
type ArticleFilter struct {
	Status      string
	AccessLevel string
	CategoryID  int64
	AuthorUID   string
	Search      string
	Limit       int
	Offset      int
}

// DummyArticleFilter receives listing filters from query parameters.
type DummyArticleFilter struct {
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	AccessLevel string `json:"access_level,omitempty" validate:"omitempty,oneof=FREE PRO"`
	CategoryID  int64  `json:"category_id,omitempty"`
	AuthorUID   string `json:"author_uid,omitempty" validate:"omitempty,uuid"`
	Search      string `json:"search,omitempty"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,gt=0,lte=100"`
	Offset      int    `json:"offset,omitempty" validate:"omitempty,gte=0"`
}

// ArticlePublishedEvent is the message published to the notifications
// exchange whenever an article goes live.
type ArticlePublishedEvent struct {
	ArticleID int64 `json:"article_id"`
}
