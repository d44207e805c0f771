package density

// teleport splices a caller-owned "direct" input region with a
// codec-owned "staging" region so kernels can read a fixed number of
// bytes at a time without ever caring whether those bytes actually
// arrived in one contiguous write or straddle two refills of the input
// buffer.
//
// Grounded on densityxx's teleport_t (memory.hpp): same two-location
// design, same read()/copy() algorithms, translated from pointer
// arithmetic to slice-offset bookkeeping on location.
type teleport struct {
	stagingBuf  []byte
	staging     location
	writeOffset int
	direct      location
}

func newTeleport() *teleport {
	t := &teleport{stagingBuf: make([]byte, stagingCapacity)}
	t.staging.buf = t.stagingBuf
	return t
}

// changeInputBuffer rebinds the direct region to a fresh caller-supplied
// input buffer. Any bytes already staged remain staged.
func (t *teleport) changeInputBuffer(in []byte) {
	t.direct.encapsulate(in)
}

// resetStagingBuffer discards any staged bytes and rewinds both staging
// cursors to the start of the staging buffer.
func (t *teleport) resetStagingBuffer() {
	t.rewindStagingPointers()
	t.staging.availableBytes = 0
}

func (t *teleport) rewindStagingPointers() {
	t.staging.offset = 0
	t.writeOffset = 0
}

// copyFromDirectToStaging drains whatever is currently available in the
// direct region into the staging buffer. This is an internal buffer
// shuffle, not a delivery of bytes to a kernel, so it must not fire the
// integrity-hash consume observer: the same bytes are still pending and
// will be handed out (and hashed) exactly once, later, from staging.
func (t *teleport) copyFromDirectToStaging() {
	n := t.direct.availableBytes
	copy(t.stagingBuf[t.writeOffset:], t.direct.bytes())
	t.writeOffset += int(n)
	t.staging.availableBytes += n
	t.direct.consumeSilently(n)
}

// read returns a location exposing at least n contiguous bytes, or
// (nil, false) if fewer than n bytes are currently available — in which
// case whatever was available has been drained into the staging buffer
// and the caller should report a stall and retry once more input
// arrives.
//
// Algorithm (memory.hpp teleport_t::read):
//  1. If staging already holds >= n bytes, return it directly.
//  2. Else if staging+direct together hold >= n bytes:
//     a. if the staged bytes are still contiguous with (behind) the
//     direct cursor, revert to reading straight from direct instead of
//     growing staging further;
//     b. otherwise top staging up with just enough direct bytes to reach n.
//  3. Else drain all of direct into staging and stall.
func (t *teleport) read(n uint64) (*location, bool) {
	if t.staging.availableBytes > 0 {
		if t.staging.availableBytes >= n {
			return &t.staging, true
		}
		addon := n - t.staging.availableBytes
		if addon <= t.direct.availableBytes {
			if t.staging.availableBytes <= t.direct.used() {
				staged := t.staging.availableBytes
				t.resetStagingBuffer()
				t.direct.offset -= int(staged)
				t.direct.availableBytes += staged
				return &t.direct, true
			}
			copy(t.stagingBuf[t.writeOffset:], t.direct.bytes()[:addon])
			t.writeOffset += int(addon)
			t.staging.availableBytes += addon
			t.direct.consumeSilently(addon)
			return &t.staging, true
		}
		t.copyFromDirectToStaging()
		return nil, false
	}
	if t.direct.availableBytes >= n {
		return &t.direct, true
	}
	t.rewindStagingPointers()
	t.copyFromDirectToStaging()
	return nil, false
}

// readReserved is read(n+reserved): it requires n readable bytes plus a
// reserved trailing margin to already be available, without consuming
// the margin.
func (t *teleport) readReserved(n, reserved uint64) (*location, bool) {
	return t.read(n + reserved)
}

// availableBytes returns the total number of bytes buffered across
// staging and direct combined.
func (t *teleport) availableBytes() uint64 {
	return t.staging.availableBytes + t.direct.availableBytes
}

// availableBytesReserved returns availableBytes() minus reserved, or 0 if
// that would underflow.
func (t *teleport) availableBytesReserved(reserved uint64) uint64 {
	contained := t.availableBytes()
	if reserved >= contained {
		return 0
	}
	return contained - reserved
}

// copy drains up to n bytes (less if fewer are available) into out,
// staging first then direct, consuming both as it goes.
func (t *teleport) copy(out *location, n uint64) {
	var fromStaging, fromDirect uint64
	if t.staging.availableBytes > 0 {
		switch {
		case n <= t.staging.availableBytes:
			fromStaging = n
		case n <= t.staging.availableBytes+t.direct.availableBytes:
			fromStaging = t.staging.availableBytes
			fromDirect = n - fromStaging
		default:
			fromStaging = t.staging.availableBytes
			fromDirect = t.direct.availableBytes
		}
	} else if n <= t.direct.availableBytes {
		fromDirect = n
	} else {
		fromDirect = t.direct.availableBytes
	}

	copy(out.bytes()[:fromStaging], t.staging.bytes()[:fromStaging])
	t.staging.consume(fromStaging)
	if t.staging.availableBytes == 0 {
		t.rewindStagingPointers()
	}
	out.consume(fromStaging)

	copy(out.bytes()[:fromDirect], t.direct.bytes()[:fromDirect])
	t.direct.consume(fromDirect)
	out.consume(fromDirect)
}

// copyRemaining drains everything currently buffered into out.
func (t *teleport) copyRemaining(out *location) {
	t.copy(out, t.availableBytes())
}

// setConsumeObserver installs fn as the consume hook on both the
// staging and direct cursors, or clears it when fn is nil. See
// location.onConsume.
func (t *teleport) setConsumeObserver(fn func([]byte)) {
	t.staging.onConsume = fn
	t.direct.onConsume = fn
}
