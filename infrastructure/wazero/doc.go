// Package wazero loads WebAssembly dependency modules with the wazero runtime.
//
// A dependency module is a reactor-style module (no _start) that scripts reach
// through require. Exported functions take and return numbers; byte buffers
// and images cross the boundary through the guest's "allocate" export and are
// copied back into host memory after the call so in-place edits are visible
// to the caller. A guest may release buffers by exporting "deallocate".
//
// Every module may import the host function scripthost.debug(ptr, len), which
// forwards a UTF-8 message to the notification sink of the running execution.
package wazero
