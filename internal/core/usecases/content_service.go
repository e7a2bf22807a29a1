package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/jfkcannabis/storefront/internal/core/domain"
	"github.com/jfkcannabis/storefront/internal/core/ports"
	"github.com/jfkcannabis/storefront/internal/pkg/markdown"
	"github.com/jfkcannabis/storefront/internal/pkg/metrics"
)

const (
	maxTitleLength    = 200
	maxMarkdownLength = 64 * 1024
	contentCacheTTL   = 600
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ContentService manages pages, blog posts and banners authored in markdown.
type ContentService struct {
	docs   ports.ContentRepository
	cache  ports.CacheService
	events ports.EventPublisher
	now    func() time.Time
}

// NewContentService creates a new ContentService. cache and events may be nil.
func NewContentService(docs ports.ContentRepository, cache ports.CacheService, events ports.EventPublisher) *ContentService {
	return &ContentService{docs: docs, cache: cache, events: events, now: time.Now}
}

// Preview renders markdown to sanitized HTML without touching storage.
// source labels the caller in metrics (http, graphql, ws).
func (s *ContentService) Preview(source, md string) string {
	return render(source, md)
}

func render(source, md string) string {
	metrics.MarkdownRenders.WithLabelValues(source).Inc()
	metrics.MarkdownRenderBytes.Observe(float64(len(md)))
	return markdown.RenderSafe(md)
}

// Save validates doc, renders its body and creates or updates it as a draft.
// A document without an ID is created; the slug is derived from the title when empty.
func (s *ContentService) Save(ctx context.Context, doc *domain.ContentDocument) (*domain.ContentDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is required", domain.ErrInvalidContent)
	}
	d := *doc
	d.Title = strings.TrimSpace(d.Title)
	d.Slug = strings.TrimSpace(d.Slug)
	if d.Slug == "" {
		d.Slug = slug.Make(d.Title)
	}
	if err := validateContent(&d); err != nil {
		return nil, err
	}

	d.BodyHTML = render("save", d.BodyMarkdown)
	d.UpdatedAt = s.now().UTC()

	if d.ID == "" {
		d.ID = uuid.NewString()
		d.Status = domain.StatusDraft
		d.CreatedAt = d.UpdatedAt
		if err := s.docs.Create(ctx, &d); err != nil {
			return nil, fmt.Errorf("create content: %w", err)
		}
		return &d, nil
	}

	prev, err := s.docs.GetByID(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("get content %s: %w", d.ID, err)
	}
	d.Status = prev.Status
	d.PublishedAt = prev.PublishedAt
	d.CreatedAt = prev.CreatedAt
	if err := s.docs.Update(ctx, &d); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	s.invalidate(ctx, prev.Slug)
	s.invalidate(ctx, d.Slug)
	return &d, nil
}

// Get returns a document by slug.
func (s *ContentService) Get(ctx context.Context, slug string) (*domain.ContentDocument, error) {
	cacheKey := contentCacheKey(slug)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var doc domain.ContentDocument
			if err := json.Unmarshal(data, &doc); err == nil {
				return &doc, nil
			}
		}
	}

	doc, err := s.docs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(doc); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, contentCacheTTL)
		}
	}
	return doc, nil
}

// GetByID returns a document by ID, bypassing the cache.
func (s *ContentService) GetByID(ctx context.Context, id string) (*domain.ContentDocument, error) {
	return s.docs.GetByID(ctx, id)
}

// List returns documents of the given kind; an empty kind lists all.
func (s *ContentService) List(ctx context.Context, kind domain.ContentKind) ([]domain.ContentDocument, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidContent, kind)
	}
	return s.docs.List(ctx, kind)
}

// Publish marks a document published and announces it. The announcement is best-effort.
func (s *ContentService) Publish(ctx context.Context, id string) (*domain.ContentDocument, error) {
	doc, err := s.SetStatus(ctx, id, domain.StatusPublished)
	if err != nil {
		return nil, err
	}
	if err := s.Announce(ctx, doc); err != nil {
		slog.WarnContext(ctx, "announce content failed", "id", id, "error", err)
	}
	return doc, nil
}

// Unpublish reverts a document to draft and announces it. The announcement is best-effort.
func (s *ContentService) Unpublish(ctx context.Context, id string) (*domain.ContentDocument, error) {
	doc, err := s.SetStatus(ctx, id, domain.StatusDraft)
	if err != nil {
		return nil, err
	}
	if err := s.Announce(ctx, doc); err != nil {
		slog.WarnContext(ctx, "announce content failed", "id", id, "error", err)
	}
	return doc, nil
}

// SetStatus changes the publication status and drops the cached copy.
func (s *ContentService) SetStatus(ctx context.Context, id string, status domain.ContentStatus) (*domain.ContentDocument, error) {
	doc, err := s.docs.SetStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("set status %s on %s: %w", status, id, err)
	}
	metrics.ContentPublished.WithLabelValues(string(status)).Inc()
	s.invalidate(ctx, doc.Slug)
	return doc, nil
}

// Rerender re-renders the stored markdown of a document with the current pipeline.
func (s *ContentService) Rerender(ctx context.Context, id string) (*domain.ContentDocument, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get content %s: %w", id, err)
	}
	html := render("rerender", doc.BodyMarkdown)
	if html == doc.BodyHTML {
		return doc, nil
	}
	doc.BodyHTML = html
	doc.UpdatedAt = s.now().UTC()
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	s.invalidate(ctx, doc.Slug)
	return doc, nil
}

// Announce publishes a content event for doc.
func (s *ContentService) Announce(ctx context.Context, doc *domain.ContentDocument) error {
	if s.events == nil {
		return nil
	}
	return s.events.PublishContentEvent(ctx, &domain.ContentEvent{
		Time:   s.now().UTC(),
		ID:     doc.ID,
		Slug:   doc.Slug,
		Kind:   doc.Kind,
		Status: doc.Status,
	})
}

// Invalidate drops the cached copy of a document. Used by event subscribers.
func (s *ContentService) Invalidate(ctx context.Context, slug string) {
	s.invalidate(ctx, slug)
}

func (s *ContentService) invalidate(ctx context.Context, slug string) {
	if s.cache == nil || slug == "" {
		return
	}
	_ = s.cache.Delete(ctx, contentCacheKey(slug))
}

func contentCacheKey(slug string) string {
	return "content:slug:" + slug
}

func validateContent(d *domain.ContentDocument) error {
	var errs []error
	if !d.Kind.Valid() {
		errs = append(errs, fmt.Errorf("unknown kind %q", d.Kind))
	}
	if d.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if len(d.Title) > maxTitleLength {
		errs = append(errs, fmt.Errorf("title longer than %d characters", maxTitleLength))
	}
	if !slugRe.MatchString(d.Slug) {
		errs = append(errs, fmt.Errorf("slug %q must be lowercase words separated by dashes", d.Slug))
	}
	if len(d.BodyMarkdown) > maxMarkdownLength {
		errs = append(errs, fmt.Errorf("body longer than %d bytes", maxMarkdownLength))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidContent, errors.Join(errs...))
	}
	return nil
}
