//go:build cooperative

package registry

import (
	"context"
	"sync"
)

// notifier wakes goroutines parked inside AwaitTransform. This build
// parks on a channel that broadcast replaces after closing, so waiters
// can select on the wakeup and the context at the same time.
type notifier struct {
	mutex *sync.Mutex
	wake  chan struct{}
}

func newNotifier(mutex *sync.Mutex) *notifier {
	return &notifier{
		mutex: mutex,
		wake:  make(chan struct{}),
	}
}

// broadcast must be called with the registry mutex held.
func (n *notifier) broadcast() {
	close(n.wake)
	n.wake = make(chan struct{})
}

// wait must be called with the registry mutex held and returns with it
// held. The wakeup channel is captured before unlocking, so an insert
// between unlock and select still wakes this waiter.
func (n *notifier) wait(ctx context.Context) error {
	wake := n.wake

	n.mutex.Unlock()
	defer n.mutex.Lock()

	select {
	case <-wake:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
