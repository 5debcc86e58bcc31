package script

import (
	"fmt"
	"sync/atomic"
)

// Class is the static descriptor shared by all Resources of one kind.
type Class struct {
	// Name identifies the kind in logs and defect messages.
	Name string

	// Destroy tears down the kind-specific payload. It runs exactly once,
	// when the refcount drops to zero. Destroy must call Unlink itself
	// before releasing any sub-resources it holds; the base layer does not
	// unlink on its behalf. A destructor that forgets is caught by the
	// emptiness assertion at Context teardown.
	Destroy func(r *Resource)
}

// Resource is a refcounted native object owned by exactly one Context for
// its entire live lifetime. Retain and Release are lock-free; only set
// membership (Unlink) takes the Context mutex.
type Resource struct {
	class *Class
	ec    *Context
	refs  atomic.Int32

	linked bool // guarded by ec.mu

	// Data carries the kind-specific payload, set by the creating native
	// function and consumed by the class destructor.
	Data any
}

// NewResource allocates and links a Resource of the given class. This is
// the only sanctioned construction path: the result has a refcount of 1, is
// a member of ec's owned-resource set, and holds a reference on ec. The
// single reference belongs to the creating caller.
func NewResource(ec *Context, class *Class) *Resource {
	r := &Resource{
		class: class,
		ec:    ec.Retain(),
	}
	r.refs.Store(1)
	ec.mu.lock()
	ec.resources[r] = struct{}{}
	r.linked = true
	ec.mu.unlock()
	return r
}

// Class returns the static descriptor of the resource's kind.
func (r *Resource) Class() *Class { return r.class }

// Context returns the owning Context. The pointer is a lookup reference
// only; holding it does not extend the Context's lifetime.
func (r *Resource) Context() *Context { return r.ec }

// Retain registers an additional holder. Lock-free, callable from any
// goroutine without the Context mutex.
func (r *Resource) Retain() {
	if r.refs.Add(1) <= 1 {
		panic(fmt.Sprintf("script: retain of destroyed %s resource", r.class.Name))
	}
}

// Release drops one holder. The drop to zero runs the class destructor
// exactly once, then releases the resource's reference on its Context.
func (r *Resource) Release() {
	n := r.refs.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic(fmt.Sprintf("script: double release of %s resource", r.class.Name))
	}
	r.class.Destroy(r)
	ec := r.ec
	r.ec = nil
	ec.Release()
}

// Unlink removes the resource from its owning Context's resource set.
// Idempotent; called by class destructors before they release their
// sub-resources.
func (r *Resource) Unlink() {
	ec := r.ec
	ec.mu.lock()
	if r.linked {
		delete(ec.resources, r)
		r.linked = false
	}
	ec.mu.unlock()
}
