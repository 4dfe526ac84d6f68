package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-tutorhub/internal/events"
	"go-tutorhub/internal/payslip"
	paysliperrors "go-tutorhub/internal/payslip/errors"
	"go-tutorhub/internal/shared/apperror"
	"go-tutorhub/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Retry delays for a request that failed for a transient reason. The reader
// does not move past the message until it is done, since committing a later
// offset would also commit the failed one.
var (
	generationRetryDelay    = time.Second
	maxGenerationRetryDelay = 30 * time.Second
)

// permanentFailure reports errors that no retry can fix, such as a request
// rejected by validation or authorization.
func permanentFailure(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError
}

// ConsumePayslipGenerationRequested creates the current-period payslip for
// every generation request. A payslip that already exists counts as done.
func ConsumePayslipGenerationRequested(
	ctx context.Context,
	reader MessageReader,
	generator PayslipGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_generation")
	log.Info("payslip generation consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip generation consumer stopped")
				return
			}
			log.Error("fetch payslip generation message failed", zap.Error(err))
			continue
		}

		var event events.PayslipGenerationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip_generation_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		requestedBy, err := uuid.Parse(event.RequestedBy)
		if err != nil {
			log.Error("invalid requested_by on generation event, dropping",
				zap.String("requested_by", event.RequestedBy),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		reqCtx := ctx
		if requestID := headerValue(msg, "request_id"); requestID != "" {
			reqCtx = contextutil.WithRequestID(ctx, requestID)
		}

		actor := payslip.Actor{ID: requestedBy, Admin: true}
		req := payslip.GeneratePayslipRequest{UserID: event.UserID}

		var res payslip.PayslipResponse
		delay := generationRetryDelay
		for {
			res, err = generator.Generate(reqCtx, actor, req)
			if err == nil || errors.Is(err, paysliperrors.ErrPayslipAlreadyExists) || permanentFailure(err) {
				break
			}

			log.Error("generate payslip from event failed, retrying",
				zap.String("user_id", event.UserID),
				zap.String("requested_by", event.RequestedBy),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				log.Info("payslip generation consumer stopped with message uncommitted",
					zap.String("user_id", event.UserID),
				)
				return
			case <-time.After(delay):
			}
			delay = min(delay*2, maxGenerationRetryDelay)
		}

		if err != nil {
			if errors.Is(err, paysliperrors.ErrPayslipAlreadyExists) {
				log.Warn("payslip already exists for period, skipping",
					zap.String("user_id", event.UserID),
				)
			} else {
				log.Error("generation request rejected, dropping",
					zap.String("user_id", event.UserID),
					zap.String("requested_by", event.RequestedBy),
					zap.Error(err),
				)
			}
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip generation message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated from event",
			zap.String("payslip_id", res.ID),
			zap.String("user_id", event.UserID),
			zap.String("pay_period", res.PayPeriod),
		)
	}
}
