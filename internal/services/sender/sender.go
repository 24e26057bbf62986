// Package services consumes publication events and mails the eligible
// subscribers about freshly released articles.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jotanews/content-api/internal/lib/sl"
	"github.com/jotanews/content-api/internal/lib/smtp"
	"github.com/jotanews/content-api/internal/models"
)

const (
	sendAttempts  = 3
	excerptLength = 300
)

var retryDelay = 2 * time.Second

// Repository loads the published article and the subscribers whose
// plan covers it.
type Repository interface {
	GetArticle(ctx context.Context, id int64) (*models.Article, error)
	ListEligibleRecipients(ctx context.Context, articleID int64) ([]*models.NotificationRecipient, error)
}

// SenderService turns publication events into e-mails.
type SenderService struct {
	repo      Repository
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService creates a new SenderService.
func NewSenderService(repo Repository, transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		repo:      repo,
		transport: transport,
		log:       log,
	}
}

// HandleArticlePublished processes one publication event. A message
// that cannot be decoded is dropped after logging; requeueing it would
// poison the queue. Exhausted delivery retries are also dropped: the
// article is live either way and the event must not loop forever.
func (s *SenderService) HandleArticlePublished(body []byte) error {
	var event models.ArticlePublishedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal publication event", sl.Err(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	article, err := s.repo.GetArticle(ctx, event.ArticleID)
	if err != nil {
		s.log.Error("failed to load published article",
			slog.Int64("article_id", event.ArticleID), sl.Err(err))
		return fmt.Errorf("load article %d: %w", event.ArticleID, err)
	}

	recipients, err := s.repo.ListEligibleRecipients(ctx, event.ArticleID)
	if err != nil {
		s.log.Error("failed to list recipients",
			slog.Int64("article_id", event.ArticleID), sl.Err(err))
		return fmt.Errorf("list recipients for article %d: %w", event.ArticleID, err)
	}
	if len(recipients) == 0 {
		s.log.Info("no eligible recipients", slog.Int64("article_id", event.ArticleID))
		return nil
	}

	subject := "Nova publicacao: " + article.Title
	bodyText := composeBody(article)

	sent := 0
	for _, r := range recipients {
		if err := s.sendWithRetry(r.Email, subject, bodyText); err != nil {
			s.log.Error("giving up on recipient",
				slog.String("recipient", r.Email),
				slog.Int64("article_id", event.ArticleID), sl.Err(err))
			continue
		}
		sent++
	}
	s.log.Info("notification round finished",
		slog.Int64("article_id", event.ArticleID),
		slog.Int("sent", sent), slog.Int("total", len(recipients)))
	return nil
}

func composeBody(article *models.Article) string {
	// Truncate on rune boundaries, the body is UTF-8 text.
	excerpt := article.Body
	if runes := []rune(excerpt); len(runes) > excerptLength {
		excerpt = string(runes[:excerptLength]) + "..."
	}

	var b strings.Builder
	b.WriteString(article.Title + "\n")
	if article.Subtitle != "" {
		b.WriteString(article.Subtitle + "\n")
	}
	b.WriteString("\n" + excerpt + "\n")
	if len(article.Categories) > 0 {
		names := make([]string, 0, len(article.Categories))
		for _, c := range article.Categories {
			names = append(names, c.Name)
		}
		b.WriteString("\nVerticais: " + strings.Join(names, ", ") + "\n")
	}
	return b.String()
}

func (s *SenderService) sendWithRetry(to, subject, bodyText string) error {
	var lastErr error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err := s.sendEmail(to, subject, bodyText); err != nil {
			lastErr = err
			s.log.Warn("email delivery failed",
				slog.String("recipient", to), slog.Int("attempt", attempt), sl.Err(err))
			if attempt < sendAttempts {
				time.Sleep(retryDelay * time.Duration(attempt))
			}
			continue
		}
		return nil
	}
	return lastErr
}

func (s *SenderService) sendEmail(to, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.From(),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.From()); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err = wc.Close(); err != nil {
		return err
	}
	return client.Quit()
}
