package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jotanews/content-api/internal/access"
	"github.com/jotanews/content-api/internal/lib/rabbitmq"
	"github.com/jotanews/content-api/internal/models"
	"github.com/jotanews/content-api/internal/storage/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateArticle(ctx context.Context, article models.Article) (int64, error) {
	args := m.Called(ctx, article)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}
func (m *RepoMock) UpdateArticle(ctx context.Context, article models.Article) (int, error) {
	args := m.Called(ctx, article)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) RemoveArticle(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) MarkPublished(ctx context.Context, id int64, publicationDate time.Time, fillDate bool) (int, error) {
	args := m.Called(ctx, id, publicationDate, fillDate)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListArticles(ctx context.Context, scope access.Scope, filter models.ArticleFilter) ([]*models.Article, error) {
	args := m.Called(ctx, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}
func (m *RepoMock) ListCategoriesByIDs(ctx context.Context, ids []int64) ([]models.Category, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestService(repo *RepoMock, cache *CacheMock, pub *PublisherMock, now time.Time) *ArticleService {
	svc := NewArticleService(repo, cache, pub, true, newNoopLogger())
	svc.now = func() time.Time { return now }
	return svc
}

var (
	fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	poder = models.Category{ID: 1, Name: models.VerticalPoder}
	saude = models.Category{ID: 3, Name: models.VerticalSaude}

	editor = access.Requester{Authenticated: true, UserUID: "editor-uid", Role: models.RoleEditor}
	admin  = access.Requester{Authenticated: true, UserUID: "admin-uid", Role: models.RoleAdmin}
)

func proReader(uid string, categories ...models.Category) access.Requester {
	return access.Requester{
		Authenticated: true,
		UserUID:       uid,
		Role:          models.RoleReader,
		Subscription: &models.UserSubscription{
			IsActive: true,
			Plan:     models.SubscriptionPlan{Name: models.PlanPro, Categories: categories},
		},
	}
}

func TestArticleService_Create(t *testing.T) {
	req := models.DummyArticle{
		Title:       "Reforma tributaria avanca",
		Body:        "Texto integral.",
		CategoryIDs: []int64{1},
	}

	tests := []struct {
		name       string
		req        models.DummyArticle
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		wantID     int64
		wantErr    error
	}{
		{
			name: "draft by default, no event",
			req:  req,
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				r.On("ListCategoriesByIDs", mock.Anything, []int64{1}).
					Return([]models.Category{poder}, nil).Once()
				r.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.StatusDraft &&
						a.AccessLevel == models.AccessFree &&
						!a.IsPublished &&
						a.AuthorUID == "editor-uid" &&
						a.PublicationDate.Equal(fixedNow)
				})).Return(int64(42), nil).Once()
				c.On("Set", "article:42", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantID: 42,
		},
		{
			name: "immediate publish emits event",
			req: models.DummyArticle{
				Title:       req.Title,
				Body:        req.Body,
				Status:      models.StatusPublished,
				CategoryIDs: []int64{1},
			},
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				r.On("ListCategoriesByIDs", mock.Anything, []int64{1}).
					Return([]models.Category{poder}, nil).Once()
				r.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.StatusPublished && a.IsPublished
				})).Return(int64(7), nil).Once()
				c.On("Set", "article:7", mock.Anything, time.Hour).Return(nil).Once()
				p.On("Publish", rabbitmq.ArticlePublishedKey,
					models.ArticlePublishedEvent{ArticleID: 7}).Return(nil).Once()
			},
			wantID: 7,
		},
		{
			name: "scheduled article stays off, publication date is the schedule",
			req: models.DummyArticle{
				Title:         req.Title,
				Body:          req.Body,
				ScheduledDate: fixedNow.Add(48 * time.Hour).Format(time.RFC3339),
				CategoryIDs:   []int64{1},
			},
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				r.On("ListCategoriesByIDs", mock.Anything, []int64{1}).
					Return([]models.Category{poder}, nil).Once()
				r.On("CreateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Status == models.StatusPublished &&
						!a.IsPublished &&
						a.ScheduledDate != nil &&
						a.PublicationDate.Equal(*a.ScheduledDate)
				})).Return(int64(9), nil).Once()
				c.On("Set", "article:9", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantID: 9,
		},
		{
			name: "scheduled date in the past",
			req: models.DummyArticle{
				Title:         req.Title,
				Body:          req.Body,
				ScheduledDate: fixedNow.Add(-time.Hour).Format(time.RFC3339),
				CategoryIDs:   []int64{1},
			},
			setupMocks: func(r *RepoMock, _ *CacheMock, _ *PublisherMock) {
				r.On("ListCategoriesByIDs", mock.Anything, []int64{1}).
					Return([]models.Category{poder}, nil).Once()
			},
			wantErr: ErrInvalidSchedule,
		},
		{
			name: "unknown category",
			req:  models.DummyArticle{Title: req.Title, Body: req.Body, CategoryIDs: []int64{1, 99}},
			setupMocks: func(r *RepoMock, _ *CacheMock, _ *PublisherMock) {
				r.On("ListCategoriesByIDs", mock.Anything, []int64{1, 99}).
					Return([]models.Category{poder}, nil).Once()
			},
			wantErr: ErrInvalidCategory,
		},
		{
			name: "cache set failure does not fail creation",
			req:  req,
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				r.On("ListCategoriesByIDs", mock.Anything, []int64{1}).
					Return([]models.Category{poder}, nil).Once()
				r.On("CreateArticle", mock.Anything, mock.Anything).Return(int64(11), nil).Once()
				c.On("Set", "article:11", mock.Anything, time.Hour).
					Return(errors.New("redis down")).Once()
			},
			wantID: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			pub := new(PublisherMock)
			svc := newTestService(repo, cache, pub, fixedNow)

			tt.setupMocks(repo, cache, pub)

			got, err := svc.Create(context.Background(), "editor-uid", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestArticleService_Get(t *testing.T) {
	live := &models.Article{
		ID:              1,
		Title:           "Live piece",
		Status:          models.StatusPublished,
		AccessLevel:     models.AccessFree,
		IsPublished:     true,
		PublicationDate: fixedNow.Add(-time.Hour),
		AuthorUID:       "editor-uid",
		Categories:      []models.Category{poder},
	}
	draft := &models.Article{
		ID:          2,
		Title:       "Draft piece",
		Status:      models.StatusDraft,
		AccessLevel: models.AccessFree,
		AuthorUID:   "editor-uid",
		Categories:  []models.Category{poder},
	}
	// Snapshot cached before the sweep released the article: the
	// publication date is still in the future there, while the row in
	// storage already carries the swept date.
	preSweep := &models.Article{
		ID:              3,
		Title:           "Scheduled piece",
		Status:          models.StatusPublished,
		AccessLevel:     models.AccessFree,
		IsPublished:     false,
		PublicationDate: fixedNow.Add(30 * time.Minute),
		AuthorUID:       "editor-uid",
		Categories:      []models.Category{poder},
	}
	swept := &models.Article{
		ID:              3,
		Title:           "Scheduled piece",
		Status:          models.StatusPublished,
		AccessLevel:     models.AccessFree,
		IsPublished:     true,
		PublicationDate: fixedNow.Add(-time.Minute),
		AuthorUID:       "editor-uid",
		Categories:      []models.Category{poder},
	}

	tests := []struct {
		name       string
		requester  access.Requester
		id         int64
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.Article
		wantErr    error
	}{
		{
			name:      "cache hit, visible to anonymous",
			requester: access.Anonymous,
			id:        1,
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", "article:1", mock.Anything).Return(true, nil).
					Run(func(args mock.Arguments) {
						*args.Get(1).(**models.Article) = live
					}).Once()
			},
			want: live,
		},
		{
			name:      "cache miss falls back to repo",
			requester: access.Anonymous,
			id:        1,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:1", mock.Anything).Return(false, nil).Once()
				r.On("GetArticle", mock.Anything, int64(1)).Return(live, nil).Once()
				c.On("Set", "article:1", live, time.Hour).Return(nil).Once()
			},
			want: live,
		},
		{
			name:      "cache error falls back to repo",
			requester: access.Anonymous,
			id:        1,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:1", mock.Anything).
					Return(false, errors.New("cache unavailable")).Once()
				r.On("GetArticle", mock.Anything, int64(1)).Return(live, nil).Once()
				c.On("Set", "article:1", live, time.Hour).Return(nil).Once()
			},
			want: live,
		},
		{
			name:      "draft hidden from readers reads as not found",
			requester: proReader("reader-uid", poder),
			id:        2,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:2", mock.Anything).Return(false, nil).Once()
				r.On("GetArticle", mock.Anything, int64(2)).Return(draft, nil).Once()
				c.On("Set", "article:2", draft, time.Hour).Return(nil).Once()
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "draft visible to staff",
			requester: editor,
			id:        2,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:2", mock.Anything).Return(false, nil).Once()
				r.On("GetArticle", mock.Anything, int64(2)).Return(draft, nil).Once()
				c.On("Set", "article:2", draft, time.Hour).Return(nil).Once()
			},
			want: draft,
		},
		{
			name:      "missing article",
			requester: access.Anonymous,
			id:        99,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:99", mock.Anything).Return(false, nil).Once()
				r.On("GetArticle", mock.Anything, int64(99)).
					Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: ErrNotFound,
		},
		{
			name:      "stale cached snapshot is refreshed after the sweep",
			requester: access.Anonymous,
			id:        3,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:3", mock.Anything).Return(true, nil).
					Run(func(args mock.Arguments) {
						*args.Get(1).(**models.Article) = preSweep
					}).Once()
				r.On("GetArticle", mock.Anything, int64(3)).Return(swept, nil).Once()
				c.On("Set", "article:3", swept, time.Hour).Return(nil).Once()
			},
			want: swept,
		},
		{
			name:      "hidden cached article stays hidden after the refresh",
			requester: proReader("reader-uid", poder),
			id:        2,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "article:2", mock.Anything).Return(true, nil).
					Run(func(args mock.Arguments) {
						*args.Get(1).(**models.Article) = draft
					}).Once()
				r.On("GetArticle", mock.Anything, int64(2)).Return(draft, nil).Once()
				c.On("Set", "article:2", draft, time.Hour).Return(nil).Once()
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := newTestService(repo, cache, new(PublisherMock), fixedNow)

			tt.setupMocks(repo, cache)

			got, err := svc.Get(context.Background(), tt.requester, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestArticleService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, new(CacheMock), new(PublisherMock), fixedNow)

	requester := proReader("reader-uid", poder, saude)
	wantScope := access.ResolveScope(requester, fixedNow)

	repo.On("ListArticles", mock.Anything, wantScope, mock.MatchedBy(func(f models.ArticleFilter) bool {
		return f.Limit == 20 && f.CategoryID == 1
	})).Return([]*models.Article{{ID: 5}}, nil).Once()

	got, err := svc.List(context.Background(), requester, models.DummyArticleFilter{CategoryID: 1})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	repo.AssertExpectations(t)
}

func TestArticleService_Update(t *testing.T) {
	existing := func() *models.Article {
		return &models.Article{
			ID:          1,
			Title:       "Old title",
			Body:        "Old body",
			Status:      models.StatusDraft,
			AccessLevel: models.AccessFree,
			AuthorUID:   "editor-uid",
			Categories:  []models.Category{poder},
		}
	}
	req := models.DummyArticle{
		Title:       "New title",
		Body:        "New body",
		CategoryIDs: []int64{3},
	}

	tests := []struct {
		name       string
		requester  access.Requester
		req        models.DummyArticle
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:      "owner updates own draft",
			requester: editor,
			req:       req,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetArticle", mock.Anything, int64(1)).Return(existing(), nil).Once()
				r.On("ListCategoriesByIDs", mock.Anything, []int64{3}).
					Return([]models.Category{saude}, nil).Once()
				r.On("UpdateArticle", mock.Anything, mock.MatchedBy(func(a models.Article) bool {
					return a.Title == "New title" &&
						a.AuthorUID == "editor-uid" &&
						len(a.Categories) == 1 && a.Categories[0].ID == 3
				})).Return(1, nil).Once()
				c.On("Invalidate", "article:1").Return(nil).Once()
			},
		},
		{
			name:      "admin updates someone else's article",
			requester: admin,
			req:       req,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetArticle", mock.Anything, int64(1)).Return(existing(), nil).Once()
				r.On("ListCategoriesByIDs", mock.Anything, []int64{3}).
					Return([]models.Category{saude}, nil).Once()
				r.On("UpdateArticle", mock.Anything, mock.Anything).Return(1, nil).Once()
				c.On("Invalidate", "article:1").Return(nil).Once()
			},
		},
		{
			name:      "non-owning editor is forbidden",
			requester: access.Requester{Authenticated: true, UserUID: "other-uid", Role: models.RoleEditor},
			req:       req,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetArticle", mock.Anything, int64(1)).Return(existing(), nil).Once()
			},
			wantErr: ErrForbidden,
		},
		{
			name:      "published article cannot roll back to draft",
			requester: editor,
			req: models.DummyArticle{
				Title: "New title", Body: "New body",
				Status: models.StatusDraft, CategoryIDs: []int64{3},
			},
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				published := existing()
				published.Status = models.StatusPublished
				published.IsPublished = true
				r.On("GetArticle", mock.Anything, int64(1)).Return(published, nil).Once()
			},
			wantErr: ErrStatusRollback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := newTestService(repo, cache, new(PublisherMock), fixedNow)

			tt.setupMocks(repo, cache)

			err := svc.Update(context.Background(), tt.requester, 1, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestArticleService_Remove(t *testing.T) {
	owned := &models.Article{
		ID: 1, Status: models.StatusDraft, AccessLevel: models.AccessFree,
		AuthorUID: "editor-uid", Categories: []models.Category{poder},
	}

	t.Run("owner removes own article", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newTestService(repo, cache, new(PublisherMock), fixedNow)

		repo.On("GetArticle", mock.Anything, int64(1)).Return(owned, nil).Once()
		cache.On("Invalidate", "article:1").Return(nil).Once()
		repo.On("RemoveArticle", mock.Anything, int64(1)).Return(1, nil).Once()

		assert.NoError(t, svc.Remove(context.Background(), editor, 1))
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, new(CacheMock), new(PublisherMock), fixedNow)

		other := access.Requester{Authenticated: true, UserUID: "other-uid", Role: models.RoleEditor}
		repo.On("GetArticle", mock.Anything, int64(1)).Return(owned, nil).Once()

		assert.ErrorIs(t, svc.Remove(context.Background(), other, 1), ErrForbidden)
		repo.AssertExpectations(t)
	})
}

func TestArticleService_Publish(t *testing.T) {
	scheduled := fixedNow.Add(72 * time.Hour)

	tests := []struct {
		name       string
		requester  access.Requester
		article    *models.Article
		setupMocks func(r *RepoMock, c *CacheMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:      "editor publishes someone else's draft and event fires",
			requester: access.Requester{Authenticated: true, UserUID: "other-uid", Role: models.RoleEditor},
			article: &models.Article{
				ID: 1, Status: models.StatusDraft, AccessLevel: models.AccessFree,
				AuthorUID: "editor-uid", PublicationDate: fixedNow.Add(-time.Hour),
			},
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				r.On("MarkPublished", mock.Anything, int64(1), fixedNow, false).Return(1, nil).Once()
				c.On("Invalidate", "article:1").Return(nil).Once()
				p.On("Publish", rabbitmq.ArticlePublishedKey,
					models.ArticlePublishedEvent{ArticleID: 1}).Return(nil).Once()
			},
		},
		{
			name:      "publishing a scheduled article rewrites the future date",
			requester: admin,
			article: &models.Article{
				ID: 2, Status: models.StatusPublished, AccessLevel: models.AccessFree,
				AuthorUID: "editor-uid", ScheduledDate: &scheduled, PublicationDate: scheduled,
			},
			setupMocks: func(r *RepoMock, c *CacheMock, p *PublisherMock) {
				r.On("MarkPublished", mock.Anything, int64(2), fixedNow, true).Return(1, nil).Once()
				c.On("Invalidate", "article:2").Return(nil).Once()
				p.On("Publish", rabbitmq.ArticlePublishedKey,
					models.ArticlePublishedEvent{ArticleID: 2}).Return(nil).Once()
			},
		},
		{
			name:      "republishing a live article does not emit again",
			requester: editor,
			article: &models.Article{
				ID: 3, Status: models.StatusPublished, AccessLevel: models.AccessFree,
				AuthorUID: "editor-uid", IsPublished: true,
				PublicationDate: fixedNow.Add(-time.Hour),
			},
			setupMocks: func(r *RepoMock, c *CacheMock, _ *PublisherMock) {
				r.On("MarkPublished", mock.Anything, int64(3), fixedNow, false).Return(1, nil).Once()
				c.On("Invalidate", "article:3").Return(nil).Once()
			},
		},
		{
			name:      "reader cannot publish",
			requester: proReader("reader-uid", poder),
			article: &models.Article{
				ID: 4, Status: models.StatusPublished, AccessLevel: models.AccessFree,
				IsPublished: true, PublicationDate: fixedNow.Add(-time.Hour),
				AuthorUID: "editor-uid", Categories: []models.Category{poder},
			},
			setupMocks: func(_ *RepoMock, _ *CacheMock, _ *PublisherMock) {},
			wantErr:    ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			pub := new(PublisherMock)
			svc := newTestService(repo, cache, pub, fixedNow)

			repo.On("GetArticle", mock.Anything, tt.article.ID).Return(tt.article, nil).Once()
			tt.setupMocks(repo, cache, pub)

			err := svc.Publish(context.Background(), tt.requester, tt.article.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}

func TestArticleService_NotificationsDisabled(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	pub := new(PublisherMock)
	svc := NewArticleService(repo, cache, pub, false, newNoopLogger())
	svc.now = func() time.Time { return fixedNow }

	repo.On("ListCategoriesByIDs", mock.Anything, []int64{1}).
		Return([]models.Category{poder}, nil).Once()
	repo.On("CreateArticle", mock.Anything, mock.Anything).Return(int64(5), nil).Once()
	cache.On("Set", "article:5", mock.Anything, time.Hour).Return(nil).Once()

	_, err := svc.Create(context.Background(), "editor-uid", models.DummyArticle{
		Title: "t", Body: "b", Status: models.StatusPublished, CategoryIDs: []int64{1},
	})
	assert.NoError(t, err)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
