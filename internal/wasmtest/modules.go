// Package wasmtest holds small hand-assembled WebAssembly modules for tests.
package wasmtest

// MathModule exports memory, add(i32, i32) i32, allocate(i32) i32 returning
// a fixed offset, and mark(ptr, len) which stores 7 at ptr.
var MathModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types
	0x01, 0x11, 0x03,
	0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f,
	0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x60, 0x02, 0x7f, 0x7f, 0x00,
	// functions
	0x03, 0x04, 0x03, 0x00, 0x01, 0x02,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// exports
	0x07, 0x22, 0x04,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x03, 'a', 'd', 'd', 0x00, 0x00,
	0x08, 'a', 'l', 'l', 'o', 'c', 'a', 't', 'e', 0x00, 0x01,
	0x04, 'm', 'a', 'r', 'k', 0x00, 0x02,
	// code
	0x0a, 0x19, 0x03,
	0x07, 0x00, 0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b,
	0x05, 0x00, 0x41, 0x80, 0x08, 0x0b,
	0x09, 0x00, 0x20, 0x00, 0x41, 0x07, 0x3a, 0x00, 0x00, 0x0b,
}

// HelloModule imports scripthost.debug and exports hello(), which sends the
// two bytes "hi" stored at offset 0.
var HelloModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types
	0x01, 0x09, 0x02,
	0x60, 0x02, 0x7f, 0x7f, 0x00,
	0x60, 0x00, 0x00,
	// imports
	0x02, 0x14, 0x01,
	0x0a, 's', 'c', 'r', 'i', 'p', 't', 'h', 'o', 's', 't',
	0x05, 'd', 'e', 'b', 'u', 'g', 0x00, 0x00,
	// functions
	0x03, 0x02, 0x01, 0x01,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// exports
	0x07, 0x12, 0x02,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x05, 'h', 'e', 'l', 'l', 'o', 0x00, 0x01,
	// code
	0x0a, 0x0a, 0x01,
	0x08, 0x00, 0x41, 0x00, 0x41, 0x02, 0x10, 0x00, 0x0b,
	// data
	0x0b, 0x08, 0x01, 0x00, 0x41, 0x00, 0x0b, 0x02, 'h', 'i',
}

// ArenaModule exports memory and:
//
//	allocate(size) i32     returns 1024, traps when size > 100
//	deallocate(ptr, len)   increments the i32 counter at offset 0
//	trap(ptr, len)         always traps
//	pair(ptr, len, ptr, len)
var ArenaModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// types
	0x01, 0x12, 0x03,
	0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x60, 0x02, 0x7f, 0x7f, 0x00,
	0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x00,
	// functions
	0x03, 0x05, 0x04, 0x00, 0x01, 0x01, 0x02,
	// memory
	0x05, 0x03, 0x01, 0x00, 0x01,
	// exports
	0x07, 0x30, 0x05,
	0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	0x08, 'a', 'l', 'l', 'o', 'c', 'a', 't', 'e', 0x00, 0x00,
	0x0a, 'd', 'e', 'a', 'l', 'l', 'o', 'c', 'a', 't', 'e', 0x00, 0x01,
	0x04, 't', 'r', 'a', 'p', 0x00, 0x02,
	0x04, 'p', 'a', 'i', 'r', 0x00, 0x03,
	// code
	0x0a, 0x28, 0x04,
	0x0f, 0x00, 0x20, 0x00, 0x41, 0xe4, 0x00, 0x4b, 0x04, 0x40, 0x00, 0x0b, 0x41, 0x80, 0x08, 0x0b,
	0x0f, 0x00, 0x41, 0x00, 0x41, 0x00, 0x28, 0x02, 0x00, 0x41, 0x01, 0x6a, 0x36, 0x02, 0x00, 0x0b,
	0x03, 0x00, 0x00, 0x0b,
	0x02, 0x00, 0x0b,
}
