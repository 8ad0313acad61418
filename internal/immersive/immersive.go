// Package immersive abstracts a head-mounted display session.
package immersive

import (
	"context"
	"errors"
	"sync"
)

// ErrUnsupported is returned when no immersive device is available.
var ErrUnsupported = errors.New("immersive: not supported")

// ErrDenied is returned when the user or platform refuses the session.
var ErrDenied = errors.New("immersive: session denied")

// Session is one immersive presentation. Start blocks until the session is granted or
// refused. End callbacks fire for every end, whether requested or external (the user
// took the headset off), and must be delivered on the caller's tick goroutine.
type Session interface {
	Start(ctx context.Context) error
	End()
	Active() bool
	OnEnd(fn func())
}

// Unsupported is the session of a platform without immersive output.
type Unsupported struct{}

// Start always fails with ErrUnsupported.
func (Unsupported) Start(context.Context) error { return ErrUnsupported }

// End does nothing.
func (Unsupported) End() {}

// Active is always false.
func (Unsupported) Active() bool { return false }

// OnEnd does nothing; an unsupported session never ends.
func (Unsupported) OnEnd(func()) {}

// Loopback grants sessions immediately without any device. It is used for headless runs
// and to simulate a headset being removed.
type Loopback struct {
	mu     sync.Mutex
	active bool
	deny   error
	onEnd  []func()
}

// Deny makes the next Start calls fail with err (nil grants again).
func (l *Loopback) Deny(err error) {
	l.mu.Lock()
	l.deny = err
	l.mu.Unlock()
}

// Start grants the session unless denied or ctx is done.
func (l *Loopback) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.deny != nil {
		return l.deny
	}
	l.active = true
	return nil
}

// End ends an active session and notifies OnEnd subscribers.
func (l *Loopback) End() {
	l.mu.Lock()
	if !l.active {
		l.mu.Unlock()
		return
	}
	l.active = false
	fns := append([]func(){}, l.onEnd...)
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Disconnect simulates the device ending the session on its own.
func (l *Loopback) Disconnect() { l.End() }

// Active reports whether a session is running.
func (l *Loopback) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// OnEnd subscribes fn to session ends.
func (l *Loopback) OnEnd(fn func()) {
	l.mu.Lock()
	l.onEnd = append(l.onEnd, fn)
	l.mu.Unlock()
}
