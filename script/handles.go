package script

// Script-visible resource identity. Interpreters cannot hold host pointers,
// so Resources handed to script code are addressed by int64 handles kept in
// a per-Context table. The table holds the creation reference on behalf of
// the script; releasing a handle both forgets the id and drops that
// reference.

// ExportHandle assigns a script-visible id to r. Ownership of the caller's
// reference transfers to the handle table.
func (ec *Context) ExportHandle(r *Resource) int64 {
	ec.mu.lock()
	ec.nextHandle++
	id := ec.nextHandle
	ec.handles[id] = r
	ec.mu.unlock()
	return id
}

// LookupHandle resolves a script-visible id to its Resource.
func (ec *Context) LookupHandle(id int64) (*Resource, bool) {
	ec.mu.lock()
	r, ok := ec.handles[id]
	ec.mu.unlock()
	return r, ok
}

// ReleaseHandle forgets a script-visible id and releases the reference the
// handle table held. Returns false if the id is unknown.
func (ec *Context) ReleaseHandle(id int64) bool {
	ec.mu.lock()
	r, ok := ec.handles[id]
	if ok {
		delete(ec.handles, id)
	}
	ec.mu.unlock()
	if !ok {
		return false
	}
	r.Release()
	return true
}

// ReleaseAllHandles drains every script-held reference. Called on plugin
// unload; resources retained elsewhere survive until their other holders
// release them.
func (ec *Context) ReleaseAllHandles() {
	ec.mu.lock()
	drained := make([]*Resource, 0, len(ec.handles))
	for id, r := range ec.handles {
		drained = append(drained, r)
		delete(ec.handles, id)
	}
	ec.mu.unlock()
	for _, r := range drained {
		r.Release()
	}
}
