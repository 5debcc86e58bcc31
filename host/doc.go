// Package host loads externally supplied plugins into their own script
// contexts and tracks them in a process-wide registry. It reads and
// validates plugin manifests, binds the native function tables into each
// fresh interpreter and unwinds contexts on unload. ECMAScript plugins run
// on the goja backend from package script; wasm plugins run on the wazero
// backend provided here.
package host
