package density

// Cheetah processes 32-bit chunks in units of 32, producing one 64-bit
// signature (two bits per chunk) followed by a variable-length body:
// spec §4.7.
const (
	cheetahChunkSize       = 4
	cheetahChunksPerUnit   = 32
	cheetahSignatureSize   = 8
	cheetahProcessUnitSize = cheetahChunksPerUnit * cheetahChunkSize // 128
	cheetahMaxUnitBodySize = cheetahChunksPerUnit * cheetahChunkSize // all-literal case
	cheetahMaxUnitSize     = cheetahSignatureSize + cheetahMaxUnitBodySize
	cheetahDecodedUnitSize = cheetahChunksPerUnit * cheetahChunkSize

	cheetahEfficiencyCheckSignatures = 1 << 8  // 256
	cheetahBlockSignatures           = 1 << 12 // 4096

	cheetahFlagPredicted = 0
	cheetahFlagMapA      = 1
	cheetahFlagMapB      = 2
	cheetahFlagChunk     = 3
)

type cheetahProcess int

const (
	cheetahProcessPrepareNewBlock cheetahProcess = iota
	cheetahProcessCheckSignatureState
	cheetahProcessReadChunk
)

// cheetahEncoder is the encode-side kernel for ModeCheetah.
type cheetahEncoder struct {
	dict cheetahDictionary

	lastHash                uint16
	process                 cheetahProcess
	signature               uint64
	shift                   uint8
	signaturesCount         uint32
	efficiencyChecked       bool
	signatureCopiedToMemory bool
	resetCycle              uint64

	sigBuf    []byte
	sigOffset int
}

func (k *cheetahEncoder) init() {
	*k = cheetahEncoder{resetCycle: (1 << dictionaryPreferredResetCycleShift) - 1}
	k.process = cheetahProcessPrepareNewBlock
}

func (k *cheetahEncoder) prepareNewSignature(out *location) {
	k.signaturesCount++
	k.shift = 0
	k.sigBuf = out.buf
	k.sigOffset = out.offset
	k.signature = 0
	k.signatureCopiedToMemory = false
	out.consume(cheetahSignatureSize)
}

func (k *cheetahEncoder) prepareNewBlock(out *location) State {
	if cheetahMaxUnitSize > out.availableBytes {
		return StateStallOnOutput
	}
	switch k.signaturesCount {
	case cheetahEfficiencyCheckSignatures:
		if !k.efficiencyChecked {
			k.efficiencyChecked = true
			return StateInfoEfficiencyCheck
		}
	case cheetahBlockSignatures:
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

func (k *cheetahEncoder) flushSignature() {
	if k.signatureCopiedToMemory {
		return
	}
	putUint64LE(k.sigBuf[k.sigOffset:k.sigOffset+cheetahSignatureSize], k.signature)
	k.signatureCopiedToMemory = true
}

func (k *cheetahEncoder) checkState(out *location) State {
	if k.shift == 64 {
		k.flushSignature()
		if st := k.prepareNewBlock(out); st != StateReady {
			return st
		}
	}
	return StateReady
}

// chunkKernel encodes one chunk against the prediction table and the
// two-slot LRU dictionary, in that priority order (spec §4.7).
func (k *cheetahEncoder) chunkKernel(out *location, hash uint16, chunk uint32, shift uint8) {
	predicted := &k.dict.predictions[k.lastHash]
	if *predicted != chunk {
		slot := &k.dict.slots[hash]
		switch {
		case slot.chunkA == chunk:
			k.signature |= uint64(cheetahFlagMapA) << shift
			var buf [2]byte
			putUint16LE(buf[:], hash)
			out.write(buf[:], 2)
		case slot.chunkB == chunk:
			k.signature |= uint64(cheetahFlagMapB) << shift
			var buf [2]byte
			putUint16LE(buf[:], hash)
			out.write(buf[:], 2)
			slot.chunkB, slot.chunkA = slot.chunkA, chunk
		default:
			k.signature |= uint64(cheetahFlagChunk) << shift
			var buf [4]byte
			putUint32LE(buf[:], chunk)
			out.write(buf[:], cheetahChunkSize)
			slot.chunkB, slot.chunkA = slot.chunkA, chunk
		}
		*predicted = chunk
	}
	k.lastHash = hash
}

func (k *cheetahEncoder) processUnit(in *location, out *location) {
	for shift := uint8(0); shift < 64; shift += 2 {
		chunk := readUint32LE(in.buf[in.offset:])
		in.consume(cheetahChunkSize)
		k.chunkKernel(out, hashAlgorithm(chunk), chunk, shift)
	}
	k.shift = 64
}

func (k *cheetahEncoder) continueEncode(in *teleport, out *location) State {
	for {
		switch k.process {
		case cheetahProcessPrepareNewBlock:
			if st := k.prepareNewBlock(out); st != StateReady {
				return st
			}
			k.process = cheetahProcessCheckSignatureState
			fallthrough
		case cheetahProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = cheetahProcessReadChunk
			fallthrough
		case cheetahProcessReadChunk:
			read, ok := in.read(cheetahProcessUnitSize)
			if !ok {
				return StateStallOnInput
			}
			k.processUnit(read, out)
			k.process = cheetahProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *cheetahEncoder) finishEncode(in *teleport, out *location) State {
	for {
		switch k.process {
		case cheetahProcessPrepareNewBlock:
			if st := k.prepareNewBlock(out); st != StateReady {
				return st
			}
			k.process = cheetahProcessCheckSignatureState
			fallthrough
		case cheetahProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = cheetahProcessReadChunk
			fallthrough
		case cheetahProcessReadChunk:
			read, ok := in.read(cheetahProcessUnitSize)
			if !ok {
				return k.finishStepByStep(in, out)
			}
			k.processUnit(read, out)
			k.process = cheetahProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *cheetahEncoder) finishStepByStep(in *teleport, out *location) State {
	for k.shift != 64 {
		read, ok := in.read(cheetahChunkSize)
		if !ok {
			break
		}
		chunk := readUint32LE(read.buf[read.offset:])
		read.consume(cheetahChunkSize)
		k.chunkKernel(out, hashAlgorithm(chunk), chunk, k.shift)
		k.shift += 2
	}
	if in.availableBytes() >= cheetahChunkSize {
		k.process = cheetahProcessCheckSignatureState
		return k.finishEncode(in, out)
	}
	if st := k.checkState(out); st != StateReady {
		k.process = cheetahProcessCheckSignatureState
		return st
	}
	// No data remains to fill the tail of the signature; mark it as a
	// closing literal-chunk sentinel so decode's loop bound lines up.
	k.signature |= uint64(cheetahFlagChunk) << k.shift
	k.flushSignature()
	in.copyRemaining(out)
	return StateReady
}

// cheetahDecoder is the decode-side kernel for ModeCheetah.
type cheetahDecoder struct {
	dict cheetahDictionary

	lastHash          uint16
	process           cheetahProcess
	signature         uint64
	shift             uint8
	signaturesCount   uint32
	efficiencyChecked bool
	resetCycleShift   uint8
	resetCycle        uint64
	endDataOverhead   uint64
}

func (k *cheetahDecoder) init(resetCycleShift uint8, endDataOverhead uint64) {
	*k = cheetahDecoder{resetCycleShift: resetCycleShift, endDataOverhead: endDataOverhead}
	if resetCycleShift != 0 {
		k.resetCycle = (1 << resetCycleShift) - 1
	}
	k.process = cheetahProcessCheckSignatureState
}

func (k *cheetahDecoder) checkState(out *location) State {
	if out.availableBytes < cheetahDecodedUnitSize {
		return StateStallOnOutput
	}
	switch k.signaturesCount {
	case cheetahEfficiencyCheckSignatures:
		if !k.efficiencyChecked {
			k.efficiencyChecked = true
			return StateInfoEfficiencyCheck
		}
	case cheetahBlockSignatures:
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

func (k *cheetahDecoder) readSignature(in *location) {
	k.signature = readUint64LE(in.buf[in.offset:])
	in.consume(cheetahSignatureSize)
	k.shift = 0
	k.signaturesCount++
}

func (k *cheetahDecoder) codeAt(shift uint8) uint8 {
	return uint8((k.signature >> shift) & 0x3)
}

func (k *cheetahDecoder) writeChunk(out *location, chunk uint32) {
	var buf [4]byte
	putUint32LE(buf[:], chunk)
	copy(out.bytes()[:cheetahChunkSize], buf[:])
}

func (k *cheetahDecoder) processPredicted(out *location) {
	chunk := k.dict.predictions[k.lastHash]
	k.writeChunk(out, chunk)
	k.lastHash = hashAlgorithm(chunk)
}

func (k *cheetahDecoder) processCompressedA(hash uint16, out *location) {
	chunk := k.dict.slots[hash].chunkA
	k.writeChunk(out, chunk)
	k.dict.predictions[k.lastHash] = chunk
	k.lastHash = hash
}

func (k *cheetahDecoder) processCompressedB(hash uint16, out *location) {
	slot := &k.dict.slots[hash]
	chunk := slot.chunkB
	slot.chunkB, slot.chunkA = slot.chunkA, chunk
	k.writeChunk(out, chunk)
	k.dict.predictions[k.lastHash] = chunk
	k.lastHash = hash
}

func (k *cheetahDecoder) processUncompressed(chunk uint32, out *location) {
	hash := hashAlgorithm(chunk)
	slot := &k.dict.slots[hash]
	slot.chunkB, slot.chunkA = slot.chunkA, chunk
	k.writeChunk(out, chunk)
	k.dict.predictions[k.lastHash] = chunk
	k.lastHash = hash
}

// chunkKernel decodes one chunk according to its 2-bit code, always
// advancing out by one chunk regardless of which code fired.
func (k *cheetahDecoder) chunkKernel(in *location, out *location, code uint8) {
	switch code {
	case cheetahFlagPredicted:
		k.processPredicted(out)
	case cheetahFlagMapA:
		hash := readUint16LE(in.buf[in.offset:])
		in.consume(2)
		k.processCompressedA(hash, out)
	case cheetahFlagMapB:
		hash := readUint16LE(in.buf[in.offset:])
		in.consume(2)
		k.processCompressedB(hash, out)
	case cheetahFlagChunk:
		chunk := readUint32LE(in.buf[in.offset:])
		in.consume(cheetahChunkSize)
		k.processUncompressed(chunk, out)
	}
	out.consume(cheetahChunkSize)
}

func (k *cheetahDecoder) processData(in *location, out *location) {
	for shift := uint8(0); shift < 64; shift += 2 {
		k.chunkKernel(in, out, k.codeAt(shift))
	}
	k.shift = 64
}

func (k *cheetahDecoder) continueDecode(in *teleport, out *location) State {
	for {
		switch k.process {
		case cheetahProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = cheetahProcessReadChunk
			fallthrough
		case cheetahProcessReadChunk:
			read, ok := in.readReserved(cheetahMaxUnitSize, k.endDataOverhead)
			if !ok {
				return StateStallOnInput
			}
			k.readSignature(read)
			k.processData(read, out)
			k.process = cheetahProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *cheetahDecoder) finishDecode(in *teleport, out *location) State {
	for {
		switch k.process {
		case cheetahProcessCheckSignatureState:
			if st := k.checkState(out); st != StateReady {
				return st
			}
			k.process = cheetahProcessReadChunk
			fallthrough
		case cheetahProcessReadChunk:
			read, ok := in.readReserved(cheetahMaxUnitSize, k.endDataOverhead)
			if !ok {
				return k.finishStepByStep(in, out)
			}
			k.readSignature(read)
			k.processData(read, out)
			k.process = cheetahProcessCheckSignatureState
		default:
			return StateError
		}
	}
}

func (k *cheetahDecoder) finishStepByStep(in *teleport, out *location) State {
	read, ok := in.readReserved(cheetahSignatureSize, k.endDataOverhead)
	if !ok {
		return k.finishDrain(in, out)
	}
	k.readSignature(read)
	for k.shift != 64 {
		code := k.codeAt(k.shift)
		switch code {
		case cheetahFlagPredicted:
			if out.availableBytes < cheetahChunkSize {
				return StateError
			}
			k.processPredicted(out)
		case cheetahFlagMapA:
			r, ok := in.readReserved(2, k.endDataOverhead)
			if !ok {
				return StateError
			}
			if out.availableBytes < cheetahChunkSize {
				return StateError
			}
			hash := readUint16LE(r.buf[r.offset:])
			r.consume(2)
			k.processCompressedA(hash, out)
		case cheetahFlagMapB:
			r, ok := in.readReserved(2, k.endDataOverhead)
			if !ok {
				return StateError
			}
			if out.availableBytes < cheetahChunkSize {
				return StateError
			}
			hash := readUint16LE(r.buf[r.offset:])
			r.consume(2)
			k.processCompressedB(hash, out)
		case cheetahFlagChunk:
			r, ok := in.readReserved(cheetahChunkSize, k.endDataOverhead)
			if !ok {
				return k.finishDrain(in, out)
			}
			if out.availableBytes < cheetahChunkSize {
				return StateError
			}
			chunk := readUint32LE(r.buf[r.offset:])
			r.consume(cheetahChunkSize)
			k.processUncompressed(chunk, out)
		}
		out.consume(cheetahChunkSize)
		k.shift += 2
	}
	k.process = cheetahProcessCheckSignatureState
	return k.finishDecode(in, out)
}

func (k *cheetahDecoder) finishDrain(in *teleport, out *location) State {
	availReserved := in.availableBytesReserved(k.endDataOverhead)
	if out.availableBytes < availReserved {
		return StateError
	}
	in.copy(out, availReserved)
	return StateReady
}
