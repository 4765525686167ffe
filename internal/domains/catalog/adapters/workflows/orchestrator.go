package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
	catalogworkflows "github.com/Simon-Kral/Coderr/internal/durable/temporal/workflows/catalog"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOfferWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOfferWorkflows)(nil)
)

// TemporalOfferWorkflows starts offer workflows on a Temporal cluster.
type TemporalOfferWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOfferWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOfferWorkflows(c client.Client) *TemporalOfferWorkflows {
	return &TemporalOfferWorkflows{client: c, taskQueue: catalogworkflows.OfferCreationTaskQueue}
}

// CreateOffer starts the Temporal workflow that persists an offer aggregate.
func (o *TemporalOfferWorkflows) CreateOffer(ctx context.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal offer workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildOfferCreationWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		catalogworkflows.OfferCreationWorkflow,
		catalogworkflows.OfferCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var projection catalogtypes.OfferProjection
			if err := existingRun.Get(ctx, &projection); err != nil {
				return nil, err
			}
			return &projection, nil
		}
		return nil, err
	}
	var projection catalogtypes.OfferProjection
	if err := run.Get(ctx, &projection); err != nil {
		return nil, err
	}
	return &projection, nil
}

// InlineOfferWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineOfferWorkflows struct {
	service ports.Service
}

// NewInlineOfferWorkflows wraps the catalog service for synchronous execution.
func NewInlineOfferWorkflows(service ports.Service) *InlineOfferWorkflows {
	return &InlineOfferWorkflows{service: service}
}

// CreateOffer delegates to the application service without durable orchestration.
func (o *InlineOfferWorkflows) CreateOffer(ctx context.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline offer workflows not configured")
	}
	return o.service.CreateOffer(ctx, input)
}

func buildOfferCreationWorkflowID(input catalogtypes.CreateOfferInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("offer-creation-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("offer-creation-%d-%s", input.OwnerID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// Use the first 16 hex chars to keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	traceComponent := workflowTraceID(ctx)
	if traceComponent != "" {
		return traceComponent
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
