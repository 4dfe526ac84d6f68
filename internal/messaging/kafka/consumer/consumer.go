package consumer

import (
	"context"

	"go-tutorhub/internal/payslip"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type PayslipGenerator interface {
	Generate(ctx context.Context, actor payslip.Actor, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error)
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
