package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// TaskQueue is the queue the publisher worker polls.
const TaskQueue = "content-publishing"

// PublishInput is the input for the publishing workflow.
type PublishInput struct {
	ContentID string
}

// PublishResult is returned when the workflow completes.
type PublishResult struct {
	ContentID string               `json:"content_id"`
	Slug      string               `json:"slug"`
	Status    domain.ContentStatus `json:"status"`
}

// PublishContentWorkflow renders a document, marks it published and announces it.
// If the announcement fails, the document goes back to draft (saga compensation).
func PublishContentWorkflow(ctx workflow.Context, input PublishInput) (*PublishResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting publish workflow", "contentID", input.ContentID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Render
	var slug string
	if err := workflow.ExecuteActivity(ctx, ActivityRenderContent, input.ContentID).Get(ctx, &slug); err != nil {
		return nil, err
	}

	// Step 2: Publish
	if err := workflow.ExecuteActivity(ctx, ActivityMarkPublished, input.ContentID).Get(ctx, nil); err != nil {
		return nil, err
	}

	// Step 3: Announce
	if err := workflow.ExecuteActivity(ctx, ActivityAnnounceContent, input.ContentID).Get(ctx, nil); err != nil {
		logger.Warn("announcement failed, compensating", "error", err)
		if cerr := workflow.ExecuteActivity(ctx, ActivityRevertToDraft, input.ContentID).Get(ctx, nil); cerr != nil {
			logger.Error("compensation failed", "error", cerr)
		}
		return nil, err
	}

	logger.Info("Content published", "slug", slug)
	return &PublishResult{ContentID: input.ContentID, Slug: slug, Status: domain.StatusPublished}, nil
}
