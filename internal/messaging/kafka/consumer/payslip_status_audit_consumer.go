package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-tutorhub/internal/bootstrap"
	"go-tutorhub/internal/events"
	"go-tutorhub/internal/shared/contextutil"

	"go.uber.org/zap"
)

// ConsumePayslipStatusChanged records every payslip transition in the audit log.
func ConsumePayslipStatusChanged(
	ctx context.Context,
	reader MessageReader,
	audit bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_status_audit")
	log.Info("payslip status audit consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip status audit consumer stopped")
				return
			}
			log.Error("fetch payslip status message failed", zap.Error(err))
			continue
		}

		var event events.PayslipStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip_status_changed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditCtx := ctx
		if requestID := headerValue(msg, "request_id"); requestID != "" {
			auditCtx = contextutil.WithRequestID(ctx, requestID)
		}

		audit.Log(auditCtx, bootstrap.AuditLog{
			Action:  "PAYSLIP_STATUS_CHANGED",
			Message: fmt.Sprintf("payslip %s moved from %s to %s", event.PayslipID, event.FromStatus, event.ToStatus),
			Meta: map[string]any{
				"payslip_id":  event.PayslipID,
				"user_id":     event.UserID,
				"pay_period":  event.PayPeriod,
				"from_status": event.FromStatus,
				"to_status":   event.ToStatus,
				"changed_by":  event.ChangedBy,
				"version":     event.Version,
				"occurred_at": event.OccurredAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip status message failed", zap.Error(err))
		}
	}
}
