package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-tutorhub/internal/bootstrap"
	"go-tutorhub/internal/events"
	"go-tutorhub/internal/payslip"
	paysliperrors "go-tutorhub/internal/payslip/errors"
	"go-tutorhub/internal/shared/contextutil"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader hands out the queued messages, then cancels the consumer.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

type fakeGenerator struct {
	calls  []payslip.GeneratePayslipRequest
	actors []payslip.Actor
	rids   []string
	errs   []error
}

func (g *fakeGenerator) Generate(ctx context.Context, actor payslip.Actor, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	idx := len(g.calls)
	g.calls = append(g.calls, req)
	g.actors = append(g.actors, actor)
	g.rids = append(g.rids, contextutil.GetRequestID(ctx))
	if idx < len(g.errs) && g.errs[idx] != nil {
		return payslip.PayslipResponse{}, g.errs[idx]
	}
	return payslip.PayslipResponse{ID: uuid.NewString(), UserID: req.UserID, PayPeriod: "2026-03"}, nil
}

type fakeAudit struct {
	entries []bootstrap.AuditLog
	rids    []string
}

func (a *fakeAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	a.entries = append(a.entries, entry)
	a.rids = append(a.rids, contextutil.GetRequestID(ctx))
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestConsumePayslipGenerationRequested(t *testing.T) {
	admin := uuid.New()
	tutorA := uuid.NewString()
	tutorB := uuid.NewString()
	tutorC := uuid.NewString()

	generationMsg := func(userID string) kafkago.Message {
		return kafkago.Message{
			Value: encode(t, events.PayslipGenerationRequestedEvent{
				EventType:   events.PayslipGenerationRequestedEventType,
				UserID:      userID,
				RequestedBy: admin.String(),
				OccurredAt:  time.Now().UTC(),
			}),
			Headers: []kafkago.Header{{Key: "request_id", Value: []byte("req-" + userID[:4])}},
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			generationMsg(tutorA),
			{Value: []byte("{not json")},
			generationMsg(tutorB),
			generationMsg(tutorC),
		},
	}
	generator := &fakeGenerator{
		errs: []error{nil, paysliperrors.ErrPayslipAlreadyExists, errors.New("db down"), nil},
	}
	shortRetryDelay(t)

	ConsumePayslipGenerationRequested(ctx, reader, generator, zap.NewNop())

	require.Len(t, generator.calls, 4)
	assert.Equal(t, tutorA, generator.calls[0].UserID)
	assert.Equal(t, payslip.Actor{ID: admin, Admin: true}, generator.actors[0])
	assert.Equal(t, "req-"+tutorA[:4], generator.rids[0])
	// the transient failure is retried on the same message before moving on
	assert.Equal(t, tutorC, generator.calls[2].UserID)
	assert.Equal(t, tutorC, generator.calls[3].UserID)

	require.Len(t, reader.committed, 4)
	assert.Equal(t, []byte("{not json"), reader.committed[1].Value)
}

func shortRetryDelay(t *testing.T) {
	t.Helper()
	prev, prevMax := generationRetryDelay, maxGenerationRetryDelay
	generationRetryDelay, maxGenerationRetryDelay = time.Millisecond, 2*time.Millisecond
	t.Cleanup(func() {
		generationRetryDelay, maxGenerationRetryDelay = prev, prevMax
	})
}

// cancellingGenerator always fails and stops the consumer after limit calls.
type cancellingGenerator struct {
	calls  int
	limit  int
	err    error
	cancel context.CancelFunc
}

func (g *cancellingGenerator) Generate(context.Context, payslip.Actor, payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	g.calls++
	if g.calls >= g.limit {
		g.cancel()
	}
	return payslip.PayslipResponse{}, g.err
}

func TestConsumePayslipGenerationRequested_FailureHandling(t *testing.T) {
	msg := func() kafkago.Message {
		return kafkago.Message{Value: encode(t, events.PayslipGenerationRequestedEvent{
			UserID:      uuid.NewString(),
			RequestedBy: uuid.NewString(),
		})}
	}

	t.Run("transient failure is never committed", func(t *testing.T) {
		shortRetryDelay(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &fakeReader{cancel: cancel, messages: []kafkago.Message{msg(), msg()}}
		generator := &cancellingGenerator{limit: 3, err: errors.New("db down"), cancel: cancel}

		ConsumePayslipGenerationRequested(ctx, reader, generator, zap.NewNop())

		assert.Equal(t, 3, generator.calls)
		assert.Empty(t, reader.committed)
		// the second message was never fetched past the failing one
		assert.Len(t, reader.messages, 1)
	})

	t.Run("rejected request is dropped without retry", func(t *testing.T) {
		shortRetryDelay(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		reader := &fakeReader{cancel: cancel, messages: []kafkago.Message{msg()}}
		generator := &fakeGenerator{errs: []error{paysliperrors.ErrInvalidUserID}}

		ConsumePayslipGenerationRequested(ctx, reader, generator, zap.NewNop())

		assert.Len(t, generator.calls, 1)
		assert.Len(t, reader.committed, 1)
	})
}

func TestConsumePayslipGenerationRequested_InvalidRequester(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{{
			Value: encode(t, events.PayslipGenerationRequestedEvent{UserID: uuid.NewString(), RequestedBy: "nobody"}),
		}},
	}
	generator := &fakeGenerator{}

	ConsumePayslipGenerationRequested(ctx, reader, generator, zap.NewNop())

	assert.Empty(t, generator.calls)
	assert.Len(t, reader.committed, 1)
}

func TestConsumePayslipStatusChanged(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payslipID := uuid.NewString()
	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			{
				Value: encode(t, events.PayslipStatusChangedEvent{
					EventType:  events.PayslipStatusChangedEventType,
					PayslipID:  payslipID,
					FromStatus: "DRAFT",
					ToStatus:   "QUERY",
					Version:    4,
				}),
				Headers: []kafkago.Header{{Key: "request_id", Value: []byte("req-9")}},
			},
			{Value: []byte("garbage")},
		},
	}
	audit := &fakeAudit{}

	ConsumePayslipStatusChanged(ctx, reader, audit, zap.NewNop())

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "PAYSLIP_STATUS_CHANGED", audit.entries[0].Action)
	assert.Equal(t, "payslip "+payslipID+" moved from DRAFT to QUERY", audit.entries[0].Message)
	assert.Equal(t, int64(4), audit.entries[0].Meta["version"])
	assert.Equal(t, "req-9", audit.rids[0])
	assert.Len(t, reader.committed, 2)
}
