package temporaladapter

import (
	"context"
	"fmt"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/jfkcannabis/storefront/internal/workflows"
)

// Publisher implements ports.ContentPublisher by starting PublishContentWorkflow.
type Publisher struct {
	client    client.Client
	taskQueue string
}

// NewPublisher creates a Publisher on the given client. An empty taskQueue
// uses workflows.TaskQueue.
func NewPublisher(c client.Client, taskQueue string) *Publisher {
	if taskQueue == "" {
		taskQueue = workflows.TaskQueue
	}
	return &Publisher{client: c, taskQueue: taskQueue}
}

// StartPublish starts the publishing workflow for a document. One workflow
// runs per document at a time; a second call while one is running returns
// the running workflow's run ID.
func (p *Publisher) StartPublish(ctx context.Context, id string) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(id),
		TaskQueue:             p.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}
	run, err := p.client.ExecuteWorkflow(ctx, opts, workflows.PublishContentWorkflow, workflows.PublishInput{ContentID: id})
	if err != nil {
		return "", fmt.Errorf("start publish workflow: %w", err)
	}
	return run.GetRunID(), nil
}

// WorkflowID is the workflow ID used for a document.
func WorkflowID(contentID string) string {
	return "publish-content-" + contentID
}

// Dial connects to the Temporal frontend.
func Dial(hostPort, namespace string) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial: %w", err)
	}
	return c, nil
}
