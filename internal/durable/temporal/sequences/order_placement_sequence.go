package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	checkoutports "github.com/nexashop/storefront/internal/domains/checkout/ports"
	checkoutactivities "github.com/nexashop/storefront/internal/durable/temporal/activities/checkout"
)

// RunOrderPlacementSequence executes the ordered set of activities that
// turn a priced checkout command into a durable order. The mirror clear
// runs after the order exists and its failure never fails the sequence.
func RunOrderPlacementSequence(ctx workflow.Context, cmd checkoutports.PlaceOrderCommand) (*checkoutports.PlacementResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "userId", cmd.UserID, "total", cmd.Total)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var orderID string
	if err := workflow.ExecuteActivity(ctx, checkoutactivities.PlaceOrderActivityName, cmd).Get(ctx, &orderID); err != nil {
		logger.Error("order placement sequence failed", "userId", cmd.UserID, "error", err)
		return nil, err
	}

	result := &checkoutports.PlacementResult{OrderID: orderID, MirrorCleared: true}
	mirrorOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	mirrorCtx := workflow.WithActivityOptions(ctx, mirrorOptions)
	if err := workflow.ExecuteActivity(mirrorCtx, checkoutactivities.ClearCartMirrorActivityName, cmd.UserID).Get(mirrorCtx, nil); err != nil {
		logger.Warn("cart mirror clear failed after order placement", "userId", cmd.UserID, "orderId", orderID, "error", err)
		result.MirrorCleared = false
	}

	logger.Info("order placement sequence completed", "orderId", orderID, "mirrorCleared", result.MirrorCleared)
	return result, nil
}
