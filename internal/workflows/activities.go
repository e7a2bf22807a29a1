package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// Activity names registered by the publisher worker.
const (
	ActivityRenderContent   = "RenderContent"
	ActivityMarkPublished   = "MarkPublished"
	ActivityAnnounceContent = "AnnounceContent"
	ActivityRevertToDraft   = "RevertToDraft"
)

// ContentOps is the subset of usecases.ContentService the activities drive.
type ContentOps interface {
	GetByID(ctx context.Context, id string) (*domain.ContentDocument, error)
	Rerender(ctx context.Context, id string) (*domain.ContentDocument, error)
	SetStatus(ctx context.Context, id string, status domain.ContentStatus) (*domain.ContentDocument, error)
	Announce(ctx context.Context, doc *domain.ContentDocument) error
}

// PublishActivities holds the activity implementations for the publishing workflow.
type PublishActivities struct {
	Content ContentOps
}

// RenderContent re-renders the stored markdown and returns the document slug.
func (a *PublishActivities) RenderContent(ctx context.Context, id string) (string, error) {
	doc, err := a.Content.Rerender(ctx, id)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}
	return doc.Slug, nil
}

// MarkPublished flips the document to published.
func (a *PublishActivities) MarkPublished(ctx context.Context, id string) error {
	if _, err := a.Content.SetStatus(ctx, id, domain.StatusPublished); err != nil {
		return fmt.Errorf("mark published %s: %w", id, err)
	}
	return nil
}

// AnnounceContent emits the content.published event.
func (a *PublishActivities) AnnounceContent(ctx context.Context, id string) error {
	doc, err := a.Content.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get %s: %w", id, err)
	}
	if err := a.Content.Announce(ctx, doc); err != nil {
		return fmt.Errorf("announce %s: %w", id, err)
	}
	return nil
}

// RevertToDraft undoes MarkPublished (saga compensation).
func (a *PublishActivities) RevertToDraft(ctx context.Context, id string) error {
	if _, err := a.Content.SetStatus(ctx, id, domain.StatusDraft); err != nil {
		return fmt.Errorf("revert %s: %w", id, err)
	}
	slog.InfoContext(ctx, "content reverted to draft (saga compensation)", "id", id)
	return nil
}
