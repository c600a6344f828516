package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/treasurydesk/internal/domain"
)

func inquiry(t *testing.T, id string, state domain.InquiryState) domain.Inquiry {
	return domain.Inquiry{
		InquiryID: id,
		Product:   bond(t, "T7Y"),
		Side:      domain.SideBuy,
		Quantity:  1_000_000,
		Price:     99.25,
		State:     state,
	}
}

func TestInquiryReceivedEndsDoneAtQuotePrice(t *testing.T) {
	ctx := context.Background()
	svc := NewInquiryService(0, quietLogger())
	got := collect[domain.Inquiry](svc)

	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q1", domain.InquiryReceived)))

	stored := svc.GetData("Q1")
	assert.Equal(t, domain.InquiryDone, stored.State)
	assert.Equal(t, DefaultQuotePrice, stored.Price)
	require.Len(t, *got, 1)
	assert.Equal(t, stored, (*got)[0])
}

func TestInquiryQuotedCompletesWithoutRequote(t *testing.T) {
	ctx := context.Background()
	svc := NewInquiryService(101, quietLogger())
	got := collect[domain.Inquiry](svc)

	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q2", domain.InquiryQuoted)))

	require.Len(t, *got, 1)
	assert.Equal(t, domain.InquiryDone, (*got)[0].State)
	assert.Equal(t, 99.25, (*got)[0].Price)
}

func TestInquiryDecisionFollowsIncomingState(t *testing.T) {
	ctx := context.Background()
	svc := NewInquiryService(0, quietLogger())
	got := collect[domain.Inquiry](svc)

	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q3", domain.InquiryReceived)))
	// Stored state is DONE, but a fresh RECEIVED event still runs the cycle.
	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q3", domain.InquiryReceived)))
	assert.Len(t, *got, 2)

	// Terminal states on the wire are stored as-is.
	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q3", domain.InquiryRejected)))
	assert.Len(t, *got, 2)
	assert.Equal(t, domain.InquiryRejected, svc.GetData("Q3").State)
}

func TestRejectInquiryDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	svc := NewInquiryService(0, quietLogger())
	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q4", domain.InquiryReceived)))
	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q5", domain.InquiryDone)))
	got := collect[domain.Inquiry](svc)

	require.NoError(t, svc.RejectInquiry("Q4"))
	require.NoError(t, svc.CustomerRejectInquiry("Q5"))

	assert.Equal(t, domain.InquiryRejected, svc.GetData("Q4").State)
	assert.Equal(t, domain.InquiryCustomerRejected, svc.GetData("Q5").State)
	assert.Empty(t, *got)

	assert.ErrorIs(t, svc.RejectInquiry("nope"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.CustomerRejectInquiry("nope"), domain.ErrNotFound)
}

func TestSendQuote(t *testing.T) {
	ctx := context.Background()
	svc := NewInquiryService(0, quietLogger())
	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q6", domain.InquiryCustomerRejected)))
	require.NoError(t, svc.OnMessage(ctx, inquiry(t, "Q7", domain.InquiryReceived)))

	// Put an open inquiry in the store without running the lifecycle.
	svc.store.Put("Q8", inquiry(t, "Q8", domain.InquiryReceived))
	got := collect[domain.Inquiry](svc)

	require.NoError(t, svc.SendQuote(ctx, "Q8", 99.75))
	require.Len(t, *got, 1)
	assert.Equal(t, 99.75, (*got)[0].Price)
	assert.Equal(t, domain.InquiryDone, (*got)[0].State)

	assert.ErrorIs(t, svc.SendQuote(ctx, "Q6", 100), domain.ErrInvalidTransition)
	assert.ErrorIs(t, svc.SendQuote(ctx, "Q7", 100), domain.ErrInvalidTransition)
	assert.ErrorIs(t, svc.SendQuote(ctx, "missing", 100), domain.ErrNotFound)
}
