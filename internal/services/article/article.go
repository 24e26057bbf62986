// Package services contains the business logic for articles: creation
// with draft/publish/schedule semantics, visibility-checked reads with
// caching, ownership-checked mutation and the explicit publish action.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/lib/rabbitmq"
	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/models"
	"github.com/jotanews/content-api/internal/storage/repository"
)

// Domain outcomes the handlers map to HTTP statuses. A hidden article
// surfaces as ErrNotFound, never as a forbidden error, so denied
// existence does not leak.
var (
	ErrNotFound        = errors.New("article not found")
	ErrForbidden       = errors.New("permission denied")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidSchedule = errors.New("scheduled date must be in the future")
	ErrStatusRollback  = errors.New("published article cannot return to draft")
)

// ArticleRepository defines the storage methods the service needs.
type ArticleRepository interface {
	CreateArticle(ctx context.Context, article models.Article) (int64, error)
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	UpdateArticle(ctx context.Context, article models.Article) (int, error)
	RemoveArticle(ctx context.Context, id int64) (int, error)
	MarkPublished(ctx context.Context, id int64, publicationDate time.Time, fillDate bool) (int, error)
	ListArticles(ctx context.Context, scope access.Scope, filter models.ArticleFilter) ([]*models.Article, error)
	ListCategoriesByIDs(ctx context.Context, ids []int64) ([]models.Category, error)
}

// Cache describes the cache methods used for article reads.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher publishes publication events to the broker.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ArticleService implements the article business logic.
type ArticleService struct {
	repo                 ArticleRepository
	cache                Cache
	publisher            EventPublisher
	notificationsEnabled bool
	log                  *slog.Logger
	now                  func() time.Time
}

// NewArticleService creates a new ArticleService. notificationsEnabled
// controls whether publication events are emitted at all; it is an
// explicit configuration value, not ambient state.
func NewArticleService(repo ArticleRepository, cache Cache, publisher EventPublisher,
	notificationsEnabled bool, log *slog.Logger) *ArticleService {
	return &ArticleService{
		repo:                 repo,
		cache:                cache,
		publisher:            publisher,
		notificationsEnabled: notificationsEnabled,
		log:                  log,
		now:                  time.Now,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("article:%d", id)
}

// Create stores a new article owned by authorUID. Status defaults to
// DRAFT. A scheduled date implies published intent with the live flag
// off: the article stays invisible to readers until the publication
// sweep claims it, because its publication date is the (future)
// scheduled date. An unscheduled published article goes live at once.
func (s *ArticleService) Create(ctx context.Context, authorUID string, req models.DummyArticle) (int64, error) {
	now := s.now()

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	accessLevel := req.AccessLevel
	if accessLevel == "" {
		accessLevel = models.AccessFree
	}

	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return 0, err
	}

	article := models.Article{
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Body:            req.Body,
		Image:           req.Image,
		AuthorUID:       authorUID,
		Status:          status,
		AccessLevel:     accessLevel,
		PublicationDate: now,
		Categories:      categories,
	}

	if req.ScheduledDate != "" {
		scheduled, err := time.Parse(time.RFC3339, req.ScheduledDate)
		if err != nil {
			return 0, fmt.Errorf("invalid scheduled date: %w", err)
		}
		if !scheduled.After(now) {
			return 0, ErrInvalidSchedule
		}
		article.ScheduledDate = &scheduled
		article.Status = models.StatusPublished
		article.PublicationDate = scheduled
		article.IsPublished = false
	} else if article.Status == models.StatusPublished {
		article.IsPublished = true
	}

	id, err := s.repo.CreateArticle(ctx, article)
	if err != nil {
		return 0, err
	}
	article.ID = id
	s.log.Info("created article", slog.Int64("id", id), slog.String("status", article.Status))

	if err := s.cache.Set(cacheKey(id), article, time.Hour); err != nil {
		s.log.Warn("failed to cache article", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	if article.IsPublished {
		s.notifyPublished(id)
	}
	return id, nil
}

// Get returns the article if it is visible to the requester, otherwise
// ErrNotFound.
//
// A cached snapshot that fails the visibility check is verified
// against storage before answering: the publication sweep releases
// articles in the database only, so the cached copy of a scheduled
// article still carries the pre-sweep publication date. Readers must
// see the article as soon as the sweep has run, not when the cache
// entry expires.
func (s *ArticleService) Get(ctx context.Context, requester access.Requester, id int64) (*models.Article, error) {
	var article *models.Article
	cached, err := s.cache.Get(cacheKey(id), &article)
	if err != nil {
		s.log.Warn("failed to read article from cache", slog.String("key", cacheKey(id)), sl.Err(err))
		cached = false
	}
	if !cached {
		if article, err = s.loadAndCache(ctx, id); err != nil {
			return nil, err
		}
	}

	if access.IsVisible(requester, article, s.now()) {
		return article, nil
	}
	if !cached {
		return nil, ErrNotFound
	}

	article, err = s.loadAndCache(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.IsVisible(requester, article, s.now()) {
		return nil, ErrNotFound
	}
	return article, nil
}

func (s *ArticleService) loadAndCache(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.cache.Set(cacheKey(id), article, time.Hour); err != nil {
		s.log.Warn("failed to cache article", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return article, nil
}

// List returns the articles visible to the requester that match the
// filter, newest first.
func (s *ArticleService) List(ctx context.Context, requester access.Requester, req models.DummyArticleFilter) ([]*models.Article, error) {
	filter := models.ArticleFilter{
		Status:      req.Status,
		AccessLevel: req.AccessLevel,
		CategoryID:  req.CategoryID,
		AuthorUID:   req.AuthorUID,
		Search:      req.Search,
		Limit:       req.Limit,
		Offset:      req.Offset,
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	scope := access.ResolveScope(requester, s.now())
	return s.repo.ListArticles(ctx, scope, filter)
}

// Update modifies an article the requester owns (admins bypass
// ownership). The author is immutable and a published article never
// returns to draft.
//
// Scheduling is out of scope here: ScheduledDate in the payload is
// ignored and the stored schedule is left as is. A pending schedule is
// changed only by the explicit publish action (releasing early) or by
// the sweep itself. Flipping status to PUBLISHED through an update
// makes the article readable once its publication date passes but
// emits no notification event; that event belongs to publish and the
// sweep.
func (s *ArticleService) Update(ctx context.Context, requester access.Requester, id int64, req models.DummyArticle) error {
	article, err := s.loadForMutation(ctx, requester, id, access.ActionUpdate)
	if err != nil {
		return err
	}

	if article.Status == models.StatusPublished && req.Status == models.StatusDraft {
		return ErrStatusRollback
	}

	categories, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return err
	}

	article.Title = req.Title
	article.Subtitle = req.Subtitle
	article.Body = req.Body
	article.Image = req.Image
	article.Categories = categories
	if req.AccessLevel != "" {
		article.AccessLevel = req.AccessLevel
	}
	if req.Status != "" {
		article.Status = req.Status
	}

	count, err := s.repo.UpdateArticle(ctx, *article)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("updated article", slog.Int64("id", id))

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate article cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return nil
}

// Remove deletes an article the requester owns (admins bypass
// ownership).
func (s *ArticleService) Remove(ctx context.Context, requester access.Requester, id int64) error {
	if _, err := s.loadForMutation(ctx, requester, id, access.ActionDelete); err != nil {
		return err
	}

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate article cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	count, err := s.repo.RemoveArticle(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("removed article", slog.Int64("id", id))
	return nil
}

// Publish releases an article immediately. Any editor or admin may
// publish any article; ownership is not checked here, unlike update
// and delete. A publication date still in the future (a pending
// schedule) is replaced with the current time.
func (s *ArticleService) Publish(ctx context.Context, requester access.Requester, id int64) error {
	article, err := s.loadForMutation(ctx, requester, id, access.ActionPublish)
	if err != nil {
		return err
	}

	now := s.now()
	wasLive := article.IsPublished
	fillDate := article.PublicationDate.IsZero() || article.PublicationDate.After(now)

	count, err := s.repo.MarkPublished(ctx, id, now, fillDate)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("published article", slog.Int64("id", id))

	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to invalidate article cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	if !wasLive {
		s.notifyPublished(id)
	}
	return nil
}

// loadForMutation fetches the article and checks the mutation rules.
// An article the requester cannot even see yields ErrNotFound; one
// they can see but not mutate yields ErrForbidden.
func (s *ArticleService) loadForMutation(ctx context.Context, requester access.Requester, id int64, action access.Action) (*models.Article, error) {
	article, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !access.IsVisible(requester, article, s.now()) {
		return nil, ErrNotFound
	}
	if !access.CanMutate(requester, article, action) {
		return nil, ErrForbidden
	}
	return article, nil
}

func (s *ArticleService) resolveCategories(ctx context.Context, ids []int64) ([]models.Category, error) {
	categories, err := s.repo.ListCategoriesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(categories) != len(ids) {
		return nil, ErrInvalidCategory
	}
	return categories, nil
}

func (s *ArticleService) notifyPublished(id int64) {
	if !s.notificationsEnabled {
		return
	}
	event := models.ArticlePublishedEvent{ArticleID: id}
	if err := s.publisher.Publish(rabbitmq.ArticlePublishedKey, event); err != nil {
		s.log.Error("failed to publish article event", slog.Int64("id", id), sl.Err(err))
	}
}
