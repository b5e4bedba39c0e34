// Package ports defines the interfaces between the script host core and its
// infrastructure. The host depends only on these abstractions; the JavaScript
// engine, the WebAssembly loader and the parameter file parser implement them.
package ports
