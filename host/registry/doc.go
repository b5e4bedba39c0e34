// Package registry provides the ambient registry of Go-native dependency
// modules. An embedding application registers modules at construction time;
// scripts reach them with require like any WebAssembly module. The registry
// is immutable once built.
package registry
