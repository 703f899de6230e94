package classify

import (
	"context"
	"log"
)

// Escalator receives best-effort notifications when a classification
// is flagged for human review. The boolean result indicates whether
// the escalation was delivered; callers never fail on it.
type Escalator interface {
	Escalate(ctx context.Context, reason string) bool
}

// EscalatorFunc adapts a function to the Escalator interface.
type EscalatorFunc func(ctx context.Context, reason string) bool

func (f EscalatorFunc) Escalate(ctx context.Context, reason string) bool { return f(ctx, reason) }

// LogEscalator is the minimum viable escalation target: a log write.
func LogEscalator() Escalator {
	return EscalatorFunc(func(_ context.Context, reason string) bool {
		log.Printf("incident escalated: %s", reason)
		return true
	})
}
