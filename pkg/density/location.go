package density

// location is a mutable cursor over a contiguous byte region. It never
// allocates or copies the region itself — it borrows a caller- or
// teleport-owned slice and tracks how much of it has been consumed.
//
// The original implementation (densityxx) expresses this with a raw
// pointer and a byte counter; here the region is an indexed slice and
// "pointer" is the current read/write offset into it, giving the same
// O(1) advance without unsafe pointer arithmetic.
type location struct {
	buf               []byte
	offset            int
	availableBytes    uint64
	initialAvailBytes uint64

	// onConsume, when set, is invoked with exactly the bytes a consume
	// call is about to pass over, before the cursor advances. The block
	// layer uses this on a teleport's staging/direct cursors to mirror
	// raw input bytes into a running integrity hash without the kernels
	// needing to know integrity checking exists.
	onConsume func([]byte)
}

// encapsulate (re)binds the location to region, resetting the cursor to
// its start.
func (l *location) encapsulate(region []byte) {
	l.buf = region
	l.offset = 0
	l.availableBytes = uint64(len(region))
	l.initialAvailBytes = l.availableBytes
}

// consume advances the cursor by n bytes. Precondition: n <= availableBytes.
func (l *location) consume(n uint64) {
	if l.onConsume != nil {
		l.onConsume(l.buf[l.offset : l.offset+int(n)])
	}
	l.offset += int(n)
	l.availableBytes -= n
}

// consumeSilently advances the cursor by n bytes without invoking
// onConsume. Used by teleport for internal direct->staging shuffles,
// which rearrange buffered bytes without handing them to a kernel, so
// they must not be mistaken for a kernel actually consuming input.
func (l *location) consumeSilently(n uint64) {
	l.offset += int(n)
	l.availableBytes -= n
}

// used returns the number of bytes consumed since encapsulate.
func (l *location) used() uint64 {
	return l.initialAvailBytes - l.availableBytes
}

// bytes returns the unconsumed remainder of the region as a slice. The
// slice aliases the underlying region; callers must not retain it across a
// consume call.
func (l *location) bytes() []byte {
	return l.buf[l.offset : l.offset+int(l.availableBytes)]
}

// read copies n bytes into dst and consumes them.
func (l *location) read(dst []byte, n uint64) {
	copy(dst[:n], l.buf[l.offset:l.offset+int(n)])
	l.consume(n)
}

// write copies n bytes from src into the region and consumes them.
func (l *location) write(src []byte, n uint64) {
	copy(l.buf[l.offset:l.offset+int(n)], src[:n])
	l.consume(n)
}
