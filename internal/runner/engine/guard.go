package engine

import (
	"sync/atomic"
	"time"
)

// timeoutGuard is a one-shot deadline timer. Disarm is idempotent and
// the exit path always disarms before reading Expired, which makes the
// timer-vs-exit race deterministic: natural exit wins only if Disarm
// lands before the timer fires.
type timeoutGuard struct {
	timer   *time.Timer
	expired atomic.Bool
}

// armGuard starts the timer. On expiry it marks the guard expired
// before invoking onExpire, so an exit handler observing Expired()
// after Disarm() sees a consistent answer.
func armGuard(d time.Duration, onExpire func()) *timeoutGuard {
	g := &timeoutGuard{}
	g.timer = time.AfterFunc(d, func() {
		g.expired.Store(true)
		onExpire()
	})
	return g
}

func (g *timeoutGuard) Disarm() {
	g.timer.Stop()
}

func (g *timeoutGuard) Expired() bool {
	return g.expired.Load()
}
