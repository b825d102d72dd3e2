package notifier

import (
	"go.uber.org/zap"
)

// Notifier dispatches domain events after a successful mutation.
// Delivery is fire-and-forget: a failing dispatcher must never roll
// back the transaction that produced the event.
type Notifier interface {
	Notify(event string, payload map[string]any)
}

// LogNotifier writes events to the application log. Swap in a real
// dispatcher (email, queue) without touching the services.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{
		log: log.With(zap.String("component", "notifier")),
	}
}

func (n *LogNotifier) Notify(event string, payload map[string]any) {
	n.log.Info("Event dispatched",
		zap.String("event", event),
		zap.Any("payload", payload),
	)
}
