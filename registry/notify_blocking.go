//go:build !cooperative

package registry

import (
	"context"
	"sync"
)

// notifier wakes goroutines parked inside AwaitTransform. This build
// parks on a condition variable bound to the registry mutex; context
// expiry is turned into a broadcast so parked waiters observe it.
type notifier struct {
	cond *sync.Cond
}

func newNotifier(mutex *sync.Mutex) *notifier {
	return &notifier{
		cond: sync.NewCond(mutex),
	}
}

// broadcast must be called with the registry mutex held.
func (n *notifier) broadcast() {
	n.cond.Broadcast()
}

// wait must be called with the registry mutex held and returns with it
// held. A nil result only means a wakeup happened; the caller re-checks
// its condition.
func (n *notifier) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		n.cond.L.Lock()
		n.cond.Broadcast()
		n.cond.L.Unlock()
	})
	defer stop()

	n.cond.Wait()

	return ctx.Err()
}
