package density

import "encoding/binary"

// Wire-format record types. Every record is serialized explicitly as
// little-endian fields rather than reinterpreting a Go struct's memory
// layout, mirroring densityxx's own move away from reinterpret-casting
// packed C structs (format.hpp) per this port's translation notes.

// mainHeader is the fixed 16-byte record written once at the start of a
// stream.
type mainHeader struct {
	version    [3]byte
	mode       Mode
	blockType  BlockType
	reserved   [3]byte
	parameters uint64
}

func newMainHeader(mode Mode, blockType BlockType, resetCycleShift uint8) mainHeader {
	return mainHeader{
		version:    [3]byte{versionMajor, versionMinor, versionPatch},
		mode:       mode,
		blockType:  blockType,
		parameters: uint64(resetCycleShift),
	}
}

// resetCycleShift returns parameters.as_bytes[0]: the dictionary reset
// cycle shift. 0 disables periodic reset.
func (h mainHeader) resetCycleShift() uint8 {
	return byte(h.parameters)
}

func (h mainHeader) write(out *location) {
	var buf [mainHeaderSize]byte
	buf[0], buf[1], buf[2] = h.version[0], h.version[1], h.version[2]
	buf[3] = byte(h.mode)
	buf[4] = byte(h.blockType)
	buf[5], buf[6], buf[7] = h.reserved[0], h.reserved[1], h.reserved[2]
	binary.LittleEndian.PutUint64(buf[8:16], h.parameters)
	out.write(buf[:], mainHeaderSize)
}

func parseMainHeader(in *location) mainHeader {
	var buf [mainHeaderSize]byte
	in.read(buf[:], mainHeaderSize)
	var h mainHeader
	h.version = [3]byte{buf[0], buf[1], buf[2]}
	h.mode = Mode(buf[3])
	h.blockType = BlockType(buf[4])
	h.reserved = [3]byte{buf[5], buf[6], buf[7]}
	h.parameters = binary.LittleEndian.Uint64(buf[8:16])
	return h
}

// mainFooter is the fixed 4-byte record written once at the end of a
// stream, present only when parallelizable-decompressible output is
// enabled.
type mainFooter struct {
	relativePosition uint32
}

func (f mainFooter) write(out *location) {
	var buf [mainFooterSize]byte
	binary.LittleEndian.PutUint32(buf[:], f.relativePosition)
	out.write(buf[:], mainFooterSize)
}

func parseMainFooter(in *location) mainFooter {
	var buf [mainFooterSize]byte
	in.read(buf[:], mainFooterSize)
	return mainFooter{relativePosition: binary.LittleEndian.Uint32(buf[:])}
}

// blockHeader is the fixed 4-byte record written at the start of every
// block: a back-pointer to the previous block's start, enabling a
// parallel decoder to locate block boundaries without scanning forward.
type blockHeader struct {
	relativePosition uint32
}

func (h blockHeader) write(out *location) {
	var buf [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(buf[:], h.relativePosition)
	out.write(buf[:], blockHeaderSize)
}

func parseBlockHeader(in *location) blockHeader {
	var buf [blockHeaderSize]byte
	in.read(buf[:], blockHeaderSize)
	return blockHeader{relativePosition: binary.LittleEndian.Uint32(buf[:])}
}

// blockModeMarker is written mid-stream only when a block switches
// compression mode from the one in the main header.
type blockModeMarker struct {
	mode     Mode
	reserved uint8
}

func (m blockModeMarker) write(out *location) {
	var buf [blockModeMarkerSize]byte
	buf[0] = byte(m.mode)
	buf[1] = m.reserved
	out.write(buf[:], blockModeMarkerSize)
}

func parseBlockModeMarker(in *location) blockModeMarker {
	var buf [blockModeMarkerSize]byte
	in.read(buf[:], blockModeMarkerSize)
	return blockModeMarker{mode: Mode(buf[0]), reserved: buf[1]}
}

// blockFooter is the fixed 16-byte record written at the end of a block,
// present only when the stream's block type carries integrity hashes.
type blockFooter struct {
	hashsum1 uint64
	hashsum2 uint64
}

func (f blockFooter) write(out *location) {
	var buf [blockFooterSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], f.hashsum1)
	binary.LittleEndian.PutUint64(buf[8:16], f.hashsum2)
	out.write(buf[:], blockFooterSize)
}

func parseBlockFooter(in *location) blockFooter {
	var buf [blockFooterSize]byte
	in.read(buf[:], blockFooterSize)
	return blockFooter{
		hashsum1: binary.LittleEndian.Uint64(buf[0:8]),
		hashsum2: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

// check reports whether the stored hashsums match the ones computed over
// the decoded bytes.
func (f blockFooter) check(hashsum1, hashsum2 uint64) bool {
	return f.hashsum1 == hashsum1 && f.hashsum2 == hashsum2
}
