// Package script binds native host resources to embedded, per-plugin
// scripting contexts.
//
// A Context pairs one interpreter instance with the set of refcounted
// Resources created on its behalf. Any host thread may retain or release a
// Resource or the Context itself; class destructors run exactly once, and
// the interpreter is discarded only after every Resource has been drained.
// Interpreter entry is serialized by a reentrant per-Context mutex via
// Begin/End.
package script
