package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTotals_FlatTax(t *testing.T) {
	totals := ComputeTotals(45)
	require.InDelta(t, 45.00, totals.Subtotal, 1e-9)
	require.InDelta(t, 4.50, totals.Tax, 1e-9)
	require.InDelta(t, 49.50, totals.Total, 1e-9)
}

func TestComputeTotals_RoundsToCents(t *testing.T) {
	totals := ComputeTotals(33.333)
	require.InDelta(t, 33.33, totals.Subtotal, 1e-9)
	require.InDelta(t, 3.33, totals.Tax, 1e-9)
	require.InDelta(t, 36.66, totals.Total, 1e-9)
}

func TestAttempt_HappyPath(t *testing.T) {
	attempt := NewAttempt()
	require.Equal(t, PhaseIdle, attempt.Phase)

	require.NoError(t, attempt.LoadAddresses("a1"))
	require.Equal(t, PhaseAddressLoaded, attempt.Phase)

	require.NoError(t, attempt.BeginSubmission("a1", ComputeTotals(45)))
	require.Equal(t, PhaseSubmitting, attempt.Phase)
	require.True(t, attempt.InFlight())

	require.NoError(t, attempt.Complete("order-1"))
	require.Equal(t, PhaseCompleted, attempt.Phase)
	require.Equal(t, "order-1", attempt.OrderID)
}

func TestAttempt_SecondSubmissionBlocked(t *testing.T) {
	attempt := NewAttempt()
	require.NoError(t, attempt.BeginSubmission("a1", Totals{}))

	err := attempt.BeginSubmission("a1", Totals{})
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	require.ErrorIs(t, attempt.LoadAddresses("a1"), ErrSubmissionInFlight)
}

func TestAttempt_FailureIsRetryable(t *testing.T) {
	attempt := NewAttempt()
	require.NoError(t, attempt.BeginSubmission("a1", Totals{}))

	attempt.Fail(errors.New("backend down"))
	require.Equal(t, PhaseFailed, attempt.Phase)
	require.Equal(t, "a1", attempt.AddressID)
	require.Equal(t, "backend down", attempt.LastError)

	// A new submission is permitted after the terminal phase.
	require.NoError(t, attempt.BeginSubmission("a1", Totals{}))
	require.Empty(t, attempt.LastError)
}

func TestAttempt_CompleteRequiresSubmitting(t *testing.T) {
	attempt := NewAttempt()
	require.ErrorIs(t, attempt.Complete("order-1"), ErrInvalidTransition)
}
