// Package hostfuncs provides the native function tables exposed to plugin
// scripts: service, page, property-tree, I/O, string, structured-message
// and metadata helpers. Handlers are engine-neutral (JSON bytes in, JSON
// bytes out) so the same tables serve both the ECMAScript and the wasm
// interpreter backends. Backend interfaces describe the host application
// collaborators each bundle delegates to.
package hostfuncs
