package clock

import (
	"sync"
	"time"
)

// Clock abstracts time.Now so expiry boundaries can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}

// Real is the wall clock used in production.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// New returns the wall clock.
func New() Clock { return Real{} }

// Fake is a settable clock for tests.
type Fake struct {
	mu sync.Mutex
	t  time.Time
}

// NewFake returns a fake clock frozen at t.
func NewFake(t time.Time) *Fake {
	return &Fake{t: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

// Set pins the fake clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = t
}
