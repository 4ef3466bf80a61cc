package service

import (
	"github.com/pinstack-dev/pinstack/internal/logger"
)

// completeDependent runs the dependent half of a paired mutation. The primary
// write is authoritative and already committed when this is called; the
// dependent write only maintains a denormalized fast path, so its failure
// must not fail the operation. A failure leaves a silent undercount that the
// repair sweep (or an idempotent retry) closes later.
func completeDependent(op string, fn func() error) {
	if err := fn(); err != nil {
		dependentWriteFailures.WithLabelValues(op).Inc()
		logger.Log.Error("dependent write failed, denormalized entry left for repair",
			"op", op, "error", err)
	}
}
