package consumer

import "time"

func SetRetryDelays(base, max time.Duration) (restore func()) {
	oldBase, oldMax := retryBaseDelay, retryMaxDelay
	retryBaseDelay, retryMaxDelay = base, max
	return func() { retryBaseDelay, retryMaxDelay = oldBase, oldMax }
}
