package script

import (
	"sync"
	"sync/atomic"

	"github.com/timandy/routine"
)

// reentrantMutex serializes interpreter entry per Context. Native functions
// run on the goroutine that entered the interpreter, which already holds
// the lock; link/unlink from that goroutine must therefore re-enter rather
// than deadlock.
type reentrantMutex struct {
	mu    sync.Mutex
	owner atomic.Int64 // goroutine id, 0 when unowned
	depth int          // guarded by mu
}

func (m *reentrantMutex) lock() {
	gid := routine.Goid()
	if m.owner.Load() == gid {
		m.depth++
		return
	}
	m.mu.Lock()
	m.owner.Store(gid)
	m.depth = 1
}

func (m *reentrantMutex) unlock() {
	if m.owner.Load() != routine.Goid() {
		panic("script: unlock by non-owning goroutine")
	}
	m.depth--
	if m.depth == 0 {
		m.owner.Store(0)
		m.mu.Unlock()
	}
}
