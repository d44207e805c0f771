package density

import "encoding/binary"

// Chunk- and signature-level little-endian helpers used by the kernel
// codecs. Frame-record serialization lives in format.go; these operate
// directly on raw byte slices inside the hot per-chunk paths instead of
// going through a location, mirroring the "unchecked advance primitive
// confined to the hot path" carve-out in spec.md's Design Notes §9.

func readUint16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func readUint32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func readUint64LE(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func putUint16LE(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putUint32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putUint64LE(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
