package intset

import "encoding/binary"

// The packed element buffer is always little-endian on the wire,
// regardless of host architecture (spec.md §6). Every access goes
// through encoding/binary.LittleEndian rather than a raw pointer cast,
// so there is no separate "swap on big-endian host" branch to maintain:
// the explicit accessor is the byte-order helper.

func getUint16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func getUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func getUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func putUint16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putUint32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putUint64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
