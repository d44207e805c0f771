package density

// Chameleon processes 32-bit chunks in units of 64, producing one
// 64-bit signature (one bit per chunk) followed by a variable-length
// body: spec §4.6.
const (
	chameleonChunkSize        = 4
	chameleonChunksPerUnit    = 64
	chameleonSignatureSize    = 8
	chameleonProcessUnitSize  = chameleonChunksPerUnit * chameleonChunkSize // 256
	chameleonMaxUnitBodySize  = chameleonChunksPerUnit * chameleonChunkSize // all-literal case
	chameleonMaxUnitSize      = chameleonSignatureSize + chameleonMaxUnitBodySize
	chameleonDecodedUnitSize  = chameleonChunksPerUnit * chameleonChunkSize

	chameleonEfficiencyCheckSignatures = 1 << 7  // 128
	chameleonBlockSignatures           = 1 << 11 // 2048

	// chameleonSignatureFlagCompressed marks a chunk as a dictionary
	// hit (16-bit hash reference emitted instead of the 32-bit literal).
	chameleonSignatureFlagCompressed = 1
)

type chameleonProcess int

const (
	chameleonProcessPrepareNewBlock chameleonProcess = iota
	chameleonProcessCheckSignatureState
	chameleonProcessReadChunk
)

// chameleonEncoder is the encode-side kernel for ModeChameleon.
type chameleonEncoder struct {
	dict chameleonDictionary

	process                 chameleonProcess
	signature               uint64
	shift                   uint8
	signaturesCount         uint32
	efficiencyChecked       bool
	signatureCopiedToMemory bool
	resetCycle              uint64

	// sigBuf/sigOffset locate the 8-byte signature slot reserved at the
	// start of the unit currently being processed, so it can be filled
	// in once the unit completes without holding a live *location across
	// chunk-by-chunk writes.
	sigBuf    []byte
	sigOffset int
}

func (k *chameleonEncoder) init() {
	*k = chameleonEncoder{resetCycle: (1 << dictionaryPreferredResetCycleShift) - 1}
	k.process = chameleonProcessPrepareNewBlock
}

func (k *chameleonEncoder) prepareNewSignature(out *location) {
	k.signaturesCount++
	k.shift = 0
	k.sigBuf = out.buf
	k.sigOffset = out.offset
	k.signature = 0
	k.signatureCopiedToMemory = false
	out.consume(chameleonSignatureSize)
}

func (k *chameleonEncoder) prepareNewBlock(out *location) State {
	if chameleonMaxUnitSize > out.availableBytes {
		return StateStallOnOutput
	}
	switch k.signaturesCount {
	case chameleonEfficiencyCheckSignatures:
		if !k.efficiencyChecked {
			k.efficiencyChecked = true
			return StateInfoEfficiencyCheck
		}
	case chameleonBlockSignatures:
		k.signaturesCount = 0
		k.efficiencyChecked = false
		if k.resetCycle > 0 {
			k.resetCycle--
		} else {
			k.dict.reset()
			k.resetCycle = (1 << dictionaryPreferredResetCycleShift) - 1
		}
		return StateInfoNewBlock
	}
	k.prepareNewSignature(out)
	return StateReady
}

// flushSignature writes the accumulated signature bits into its reserved
// slot, guarded so a retried call after a stall never writes twice.
func (k *chameleonEncoder) flushSignature() {
	if k.signatureCopiedToMemory {
		return
	}
	putUint64LE(k.sigBuf[k.sigOffset:k.sigOffset+chameleonSignatureSize], k.signature)
	k.signatureCopiedToMemory = true
}

func (k *chameleonEncoder) checkState(out *location) State {
	if k.shift == 64 {
		k.flushSignature()
		if st := k.prepareNewBlock(out); st != StateReady {
			return st
		}
	}
	return StateReady
}

// chunkKernel processes one chunk: dictionary lookup, signature bit, and
// body emission. out must already have room for at least
// chameleonChunkSize bytes (guaranteed by prepareNewBlock's upfront
// worst-case reservation).
func (k *chameleonEncoder) chunkKernel(out *location, hash uint16, chunk uint32, shift uint8) {
	slot := &k.dict.entries[hash]
	if *slot != chunk {
		*slot = chunk
		var buf [4]byte
		putUint32LE(buf[:], chunk)
		out.write(buf[:], chameleonChunkSize)
	} else {
		k.signature |= uint64(chameleonSignatureFlagCompressed) << shift
		var buf [2]byte
		putUint16LE(buf[:], hash)
		out.write(buf[:], 2)
	}
}

// processUnit consumes one full 256-byte chunk unit from in and writes
// its body to out.
func (k *chameleonEncoder) processUnit(in *location, out *location) {
	for i := uint8(0); i < chameleonChunksPerUnit; i++ {
		chunk := readUint32LE(in.buf[in.offset:])
		in.consume(chameleonChunkSize)
		k.chunkKernel(out, hashAlgorithm(chunk), chunk, i)
	}
	k.shift = 64
}

func (k *chameleonEncoder) continueEncode(in *teleport, out *location) State {
	for {
		switch k.process {
		case chameleonProcessPrepareNewBlock:
			if st := k.prepareNewBlock(out); st != StateReady {
				return st
			}
			k.process = chameleonProcessCheckSignatureState
			fallthrough
		case chameleonProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = chameleonProcessReadChunk
			fallthrough
		case chameleonProcessReadChunk:
			read, ok := in.read(chameleonProcessUnitSize)
			if !ok {
				return StateStallOnInput
			}
			k.processUnit(read, out)
			k.process = chameleonProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *chameleonEncoder) finishEncode(in *teleport, out *location) State {
	for {
		switch k.process {
		case chameleonProcessPrepareNewBlock:
			if st := k.prepareNewBlock(out); st != StateReady {
				return st
			}
			k.process = chameleonProcessCheckSignatureState
			fallthrough
		case chameleonProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = chameleonProcessReadChunk
			fallthrough
		case chameleonProcessReadChunk:
			read, ok := in.read(chameleonProcessUnitSize)
			if !ok {
				return k.finishStepByStep(in, out)
			}
			k.processUnit(read, out)
			k.process = chameleonProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

// finishStepByStep drains whatever remains in the teleport one 32-bit
// chunk at a time (fewer than one full unit), then flushes the final
// partial signature and copies any leftover sub-chunk bytes verbatim.
func (k *chameleonEncoder) finishStepByStep(in *teleport, out *location) State {
	for k.shift != 64 {
		read, ok := in.read(chameleonChunkSize)
		if !ok {
			break
		}
		chunk := readUint32LE(read.buf[read.offset:])
		read.consume(chameleonChunkSize)
		k.chunkKernel(out, hashAlgorithm(chunk), chunk, k.shift)
		k.shift++
	}
	if in.availableBytes() >= chameleonChunkSize {
		k.process = chameleonProcessCheckSignatureState
		return k.finishEncode(in, out)
	}
	k.flushSignature()
	in.copyRemaining(out)
	return StateReady
}

// chameleonDecoder is the decode-side kernel for ModeChameleon.
type chameleonDecoder struct {
	dict chameleonDictionary

	process           chameleonProcess
	signature         uint64
	shift             uint8
	signaturesCount   uint32
	efficiencyChecked bool
	resetCycleShift   uint8
	resetCycle        uint64
	endDataOverhead   uint64
}

func (k *chameleonDecoder) init(resetCycleShift uint8, endDataOverhead uint64) {
	*k = chameleonDecoder{resetCycleShift: resetCycleShift, endDataOverhead: endDataOverhead}
	if resetCycleShift != 0 {
		k.resetCycle = (1 << resetCycleShift) - 1
	}
	k.process = chameleonProcessCheckSignatureState
}

func (k *chameleonDecoder) checkState(out *location) State {
	if out.availableBytes < chameleonDecodedUnitSize {
		return StateStallOnOutput
	}
	switch k.signaturesCount {
	case chameleonEfficiencyCheckSignatures:
		if !k.efficiencyChecked {
			k.efficiencyChecked = true
			return StateInfoEfficiencyCheck
		}
	case chameleonBlockSignatures:
		k.signaturesCount = 0
		k.efficiencyChecked = false
		if k.resetCycle > 0 {
			k.resetCycle--
		} else if k.resetCycleShift != 0 {
			k.dict.reset()
			k.resetCycle = (1 << k.resetCycleShift) - 1
		}
		return StateInfoNewBlock
	}
	return StateReady
}

func (k *chameleonDecoder) readSignature(in *location) {
	k.signature = readUint64LE(in.buf[in.offset:])
	in.consume(chameleonSignatureSize)
	k.shift = 0
	k.signaturesCount++
}

func (k *chameleonDecoder) testCompressed(shift uint8) bool {
	return (k.signature>>shift)&1 == chameleonSignatureFlagCompressed
}

func (k *chameleonDecoder) chunkKernel(in *location, out *location, compressed bool) {
	var chunk uint32
	if compressed {
		hash := readUint16LE(in.buf[in.offset:])
		in.consume(2)
		chunk = k.dict.entries[hash]
	} else {
		chunk = readUint32LE(in.buf[in.offset:])
		in.consume(chameleonChunkSize)
		k.dict.entries[hashAlgorithm(chunk)] = chunk
	}
	var buf [4]byte
	putUint32LE(buf[:], chunk)
	out.write(buf[:], chameleonChunkSize)
}

func (k *chameleonDecoder) processData(in *location, out *location) {
	for i := uint8(0); i < chameleonChunksPerUnit; i++ {
		k.chunkKernel(in, out, k.testCompressed(i))
	}
	k.shift = 64
}

func (k *chameleonDecoder) continueDecode(in *teleport, out *location) State {
	for {
		switch k.process {
		case chameleonProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = chameleonProcessReadChunk
			fallthrough
		case chameleonProcessReadChunk:
			read, ok := in.readReserved(chameleonMaxUnitSize, k.endDataOverhead)
			if !ok {
				return StateStallOnInput
			}
			k.readSignature(read)
			k.processData(read, out)
			k.process = chameleonProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *chameleonDecoder) finishDecode(in *teleport, out *location) State {
	for {
		switch k.process {
		case chameleonProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = chameleonProcessReadChunk
			fallthrough
		case chameleonProcessReadChunk:
			read, ok := in.readReserved(chameleonMaxUnitSize, k.endDataOverhead)
			if !ok {
				return k.finishStepByStep(in, out)
			}
			k.readSignature(read)
			k.processData(read, out)
			k.process = chameleonProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *chameleonDecoder) finishStepByStep(in *teleport, out *location) State {
	read, ok := in.readReserved(chameleonSignatureSize, k.endDataOverhead)
	if !ok {
		return k.finishDrain(in, out)
	}
	k.readSignature(read)
	for k.shift != 64 {
		if k.testCompressed(k.shift) {
			r, ok := in.readReserved(2, k.endDataOverhead)
			if !ok {
				return StateError
			}
			if out.availableBytes < chameleonChunkSize {
				return StateError
			}
			k.chunkKernel(r, out, true)
		} else {
			r, ok := in.readReserved(chameleonChunkSize, k.endDataOverhead)
			if !ok {
				return k.finishDrain(in, out)
			}
			if out.availableBytes < chameleonChunkSize {
				return StateError
			}
			k.chunkKernel(r, out, false)
		}
		k.shift++
	}
	k.process = chameleonProcessCheckSignatureState
	return k.finishDecode(in, out)
}

func (k *chameleonDecoder) finishDrain(in *teleport, out *location) State {
	availReserved := in.availableBytesReserved(k.endDataOverhead)
	if out.availableBytes < availReserved {
		return StateError
	}
	in.copy(out, availReserved)
	return StateReady
}
