package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/nexashop/storefront/internal/domains/checkout/ports"
	orderports "github.com/nexashop/storefront/internal/domains/orders/ports"
	checkoutworkflows "github.com/nexashop/storefront/internal/durable/temporal/workflows/checkout"
)

var (
	_ ports.OrderPlacement = (*TemporalOrderPlacement)(nil)
	_ ports.OrderPlacement = (*InlineOrderPlacement)(nil)
)

// TemporalOrderPlacement starts order-placement workflows on a Temporal cluster.
type TemporalOrderPlacement struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderPlacement wires a Temporal client into the orchestrator.
func NewTemporalOrderPlacement(c client.Client) *TemporalOrderPlacement {
	return &TemporalOrderPlacement{client: c, taskQueue: checkoutworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder starts the durable workflow and waits for its result. A
// duplicate start for the same workflow ID attaches to the running
// execution instead of placing a second order.
func (o *TemporalOrderPlacement) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*ports.PlacementResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order placement not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := fmt.Sprintf("order-placement-%s-%s", cmd.UserID, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		checkoutworkflows.OrderPlacementWorkflow,
		checkoutworkflows.OrderPlacementWorkflowInput{Command: cmd, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var result ports.PlacementResult
			if err := existingRun.Get(ctx, &result); err != nil {
				return nil, err
			}
			return &result, nil
		}
		return nil, err
	}
	var result ports.PlacementResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlineOrderPlacement places orders directly without Temporal, useful
// for tests or dev fallbacks.
type InlineOrderPlacement struct {
	orders orderports.Service
	mirror ports.CartMirror
	logger *slog.Logger
}

type InlineOption func(*InlineOrderPlacement)

func WithLogger(logger *slog.Logger) InlineOption {
	return func(o *InlineOrderPlacement) {
		o.logger = logger
	}
}

// NewInlineOrderPlacement wraps the orders service for synchronous execution.
func NewInlineOrderPlacement(orders orderports.Service, mirror ports.CartMirror, opts ...InlineOption) *InlineOrderPlacement {
	o := &InlineOrderPlacement{orders: orders, mirror: mirror}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// PlaceOrder records the order and clears the cart mirror without
// durable orchestration. The mirror clear stays best-effort.
func (o *InlineOrderPlacement) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*ports.PlacementResult, error) {
	if o == nil || o.orders == nil {
		return nil, errors.New("inline order placement not configured")
	}
	order, err := o.orders.PlaceOrder(ctx, orderports.PlaceOrderInput{
		UserID:    cmd.UserID,
		UserName:  cmd.UserName,
		UserEmail: cmd.UserEmail,
		Items:     cmd.Items,
		Subtotal:  cmd.Subtotal,
		Tax:       cmd.Tax,
		Total:     cmd.Total,
		Shipping:  cmd.Shipping,
	})
	if err != nil {
		return nil, err
	}
	result := &ports.PlacementResult{OrderID: order.ID, MirrorCleared: true}
	if o.mirror != nil {
		if err := o.mirror.Clear(ctx, cmd.UserID); err != nil {
			result.MirrorCleared = false
			if o.logger != nil {
				o.logger.LogAttrs(ctx, slog.LevelWarn, "cart mirror clear failed after order placement",
					slog.String("user.id", cmd.UserID),
					slog.String("order.id", order.ID),
					slog.String("error", err.Error()))
			}
		}
	}
	return result, nil
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
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
