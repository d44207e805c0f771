package density

// copyEncoder implements ModeCopy: a straight pass-through with no
// dictionary and no signatures (spec §4.5).
type copyEncoder struct{}

func (k *copyEncoder) init() {}

func (k *copyEncoder) continueEncode(in *teleport, out *location) State {
	return copyDrain(in, out, false)
}

func (k *copyEncoder) finishEncode(in *teleport, out *location) State {
	return copyDrain(in, out, true)
}

// copyDrain copies as much as fits of whatever is currently buffered in
// in into out. finishing treats input exhaustion as completion
// (StateReady) rather than suspension (StateStallOnInput).
func copyDrain(in *teleport, out *location, finishing bool) State {
	avail := in.availableBytes()
	if avail == 0 {
		if finishing {
			return StateReady
		}
		return StateStallOnInput
	}
	if out.availableBytes == 0 {
		return StateStallOnOutput
	}
	n := avail
	if out.availableBytes < n {
		n = out.availableBytes
	}
	in.copy(out, n)
	if n < avail {
		return StateStallOnOutput
	}
	if finishing {
		return StateReady
	}
	return StateStallOnInput
}

// copyDecoder implements ModeCopy decode: identical to the encoder
// since copy mode never transforms bytes, except that it must leave
// endDataOverhead trailing bytes of the teleport untouched so a main
// footer written after the last block stays readable.
type copyDecoder struct {
	endDataOverhead uint64
}

func (k *copyDecoder) init(resetCycleShift uint8, endDataOverhead uint64) {
	k.endDataOverhead = endDataOverhead
}

func (k *copyDecoder) continueDecode(in *teleport, out *location) State {
	return k.drain(in, out, false)
}

func (k *copyDecoder) finishDecode(in *teleport, out *location) State {
	return k.drain(in, out, true)
}

func (k *copyDecoder) drain(in *teleport, out *location, finishing bool) State {
	avail := in.availableBytesReserved(k.endDataOverhead)
	if avail == 0 {
		if finishing {
			return StateReady
		}
		return StateStallOnInput
	}
	if out.availableBytes == 0 {
		return StateStallOnOutput
	}
	n := avail
	if out.availableBytes < n {
		n = out.availableBytes
	}
	in.copy(out, n)
	if n < avail {
		return StateStallOnOutput
	}
	if finishing {
		return StateReady
	}
	return StateStallOnInput
}
