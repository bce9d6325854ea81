package adapters

import (
	"context"

	"shipping-quoter/internal/core/logger"

	"go.uber.org/zap"
)

// LogNotifier implements ports.Notifier by emitting a high-severity log
// entry. Deployments with a real alerting channel (email, webhook) plug in
// their own implementation; the throttling lives in the caller either way.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: logger.Get()}
}

// Notify records the operator alert.
func (n *LogNotifier) Notify(ctx context.Context, subject, message string) {
	n.logger.Error("Operator notification",
		zap.String("subject", subject),
		zap.String("message", message),
	)
}
