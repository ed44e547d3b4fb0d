// liblandisc exposes the discovery engine as a C library.
//
// Build with:
//
//	go build -buildmode=c-shared -o liblandisc.so ./cmd/liblandisc
//
// Handles returned by landisc_new are opaque and single-owner: pass
// each to landisc_free exactly once. Use after free, double free, or a
// forged handle value is undefined caller misuse. Buffers returned by
// landisc_get_peers_bytes are malloc-allocated and must be released
// with landisc_free_buf exactly once.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"landisc/internal/bridge"
)

// landisc_new constructs and starts a discovery engine announcing the
// given service port under the given name. Returns 0 on a NULL name or
// construction failure.
//
//export landisc_new
func landisc_new(servicePort C.uint16_t, name *C.char) C.uintptr_t {
	if name == nil {
		return 0
	}
	h, err := bridge.Create(uint16(servicePort), C.GoString(name))
	if err != nil {
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(h))
}

// landisc_free stops the engine and releases the handle. A 0 handle is
// a no-op.
//
//export landisc_free
func landisc_free(handle C.uintptr_t) {
	if handle == 0 {
		return
	}
	ch := cgo.Handle(handle)
	if h, ok := ch.Value().(*bridge.Handle); ok {
		h.Destroy()
	}
	ch.Delete()
}

// landisc_get_peers_bytes writes the serialized peer snapshot into a
// malloc-allocated buffer. Returns 0 on success with *out_ptr/*out_len
// filled, -1 on a 0 handle or NULL output pointer with nothing written.
//
//export landisc_get_peers_bytes
func landisc_get_peers_bytes(handle C.uintptr_t, out_ptr **C.uint8_t, out_len *C.size_t) C.int32_t {
	if handle == 0 || out_ptr == nil || out_len == nil {
		return -1
	}
	h, ok := cgo.Handle(handle).Value().(*bridge.Handle)
	if !ok {
		return -1
	}

	data, err := h.PeersBytes()
	if err != nil {
		return -1
	}

	*out_ptr = (*C.uint8_t)(C.CBytes(data))
	*out_len = C.size_t(len(data))
	return 0
}

// landisc_free_buf releases a buffer returned by
// landisc_get_peers_bytes. A NULL buffer is a no-op.
//
//export landisc_free_buf
func landisc_free_buf(buf *C.uint8_t, length C.size_t) {
	if buf == nil {
		return
	}
	C.free(unsafe.Pointer(buf))
}

func main() {}
