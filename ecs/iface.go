package ecs

import "unsafe"

// iface mirrors the runtime layout of a non-empty any: a type word followed
// by a data word.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
