package queue

import "time"

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 30 * time.Second
)

// NextDelay returns how long to wait before retrying an entry that has
// already failed attemptCount times: 1s, 2s, 4s, ... capped at 30s.
// Pure function of the attempt count, so retry scheduling is testable
// without timers.
func NextDelay(attemptCount int) time.Duration {
	if attemptCount < 1 {
		return baseRetryDelay
	}

	delay := baseRetryDelay
	for i := 1; i < attemptCount; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
