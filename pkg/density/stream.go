package density

// Stream holds the state shared by [EncodeStream] and [DecodeStream]: the
// teleport input buffer, the output cursor, and the running totals every
// exported Continue/Finish call updates.
type Stream struct {
	teleport     *teleport
	out          location
	totalRead    uint64
	totalWritten uint64
}

// UpdateInput rebinds the stream's input to a fresh buffer. Call this
// after a [StateStallOnInput] once more bytes are available.
func (s *Stream) UpdateInput(in []byte) {
	s.teleport.changeInputBuffer(in)
}

// UpdateOutput rebinds the stream's output to a fresh buffer. Call this
// after a [StateStallOnOutput] once the previous output has been drained.
func (s *Stream) UpdateOutput(out []byte) {
	s.out.encapsulate(out)
}

// TotalRead returns the number of input bytes consumed so far.
func (s *Stream) TotalRead() uint64 { return s.totalRead }

// TotalWritten returns the number of output bytes produced so far.
func (s *Stream) TotalWritten() uint64 { return s.totalWritten }

// OutputAvailableForUse returns the number of output bytes written since
// the last UpdateOutput (or Init).
func (s *Stream) OutputAvailableForUse() uint64 { return s.out.used() }

type encodeProcess int

const (
	encodeWriteHeader encodeProcess = iota
	encodeWriteBlocks
	encodeWriteFooter
)

// EncodeStream drives the write_header -> write_blocks -> write_footer
// state machine described for the stream driver: a resumable byte-stream
// compressor. Zero value is not usable; construct with
// [NewEncodeStream].
type EncodeStream struct {
	Stream

	// ParallelizableOutput, when true, causes Finish to emit a trailing
	// MainFooter record pointing at the last block's start so a
	// parallel decoder can locate it without scanning forward. Set
	// before Init; a symmetric [DecodeStream] must agree on this
	// setting, since the wire format carries no flag for it.
	ParallelizableOutput bool

	mode      Mode
	blockType BlockType
	process   encodeProcess
	block     *blockEncoder
}

// NewEncodeStream returns a ready-to-Init EncodeStream.
func NewEncodeStream() *EncodeStream {
	return &EncodeStream{Stream: Stream{teleport: newTeleport()}}
}

// Init prepares the stream for a fresh compression run and attempts to
// write the main header. Returns [StateError] for an unrecognized or
// unimplemented mode, [StateErrorOutputBufferTooSmall] if out is smaller
// than [MinimumOutputBufferSize], [StateStallOnOutput] if out cannot
// even hold the header yet, or [StateReady].
func (s *EncodeStream) Init(mode Mode, blockType BlockType, in, out []byte) State {
	if mode != ModeCopy && mode != ModeChameleon && mode != ModeCheetah {
		return StateError
	}
	if len(out) < MinimumOutputBufferSize {
		return StateErrorOutputBufferTooSmall
	}
	s.mode = mode
	s.blockType = blockType
	s.teleport = newTeleport()
	s.teleport.changeInputBuffer(in)
	s.out.encapsulate(out)
	s.block = newBlockEncoder(mode, blockType)
	s.process = encodeWriteHeader
	s.totalRead = 0
	s.totalWritten = 0
	return s.writeHeaderIfPending()
}

func (s *EncodeStream) writeHeaderIfPending() State {
	if s.process != encodeWriteHeader {
		return StateReady
	}
	if s.out.availableBytes < mainHeaderSize {
		return StateStallOnOutput
	}
	hdr := newMainHeader(s.mode, s.blockType, dictionaryPreferredResetCycleShift)
	hdr.write(&s.out)
	s.totalWritten += mainHeaderSize
	s.process = encodeWriteBlocks
	return StateReady
}

// Continue processes as much of the currently buffered input as
// in/output space allow. See [kernelEncoder.continueEncode] for the
// suspension contract.
func (s *EncodeStream) Continue() State {
	if st := s.writeHeaderIfPending(); st != StateReady {
		return st
	}
	if s.process != encodeWriteBlocks {
		return StateReady
	}
	inBefore, outBefore := s.teleport.availableBytes(), s.out.availableBytes
	st := s.block.continueBlock(s.teleport, &s.out)
	s.totalRead += inBefore - s.teleport.availableBytes()
	s.totalWritten += outBefore - s.out.availableBytes
	return st
}

// Finish flushes any residual input and emits the closing footer(s),
// treating the current input as everything that will ever arrive.
func (s *EncodeStream) Finish() State {
	if st := s.writeHeaderIfPending(); st != StateReady {
		return st
	}
	if s.process == encodeWriteFooter {
		return s.writeFooter()
	}
	inBefore, outBefore := s.teleport.availableBytes(), s.out.availableBytes
	st := s.block.finishBlock(s.teleport, &s.out)
	s.totalRead += inBefore - s.teleport.availableBytes()
	s.totalWritten += outBefore - s.out.availableBytes
	if st != StateReady {
		return st
	}
	s.process = encodeWriteFooter
	return s.writeFooter()
}

func (s *EncodeStream) writeFooter() State {
	if !s.ParallelizableOutput {
		return StateReady
	}
	if s.out.availableBytes < mainFooterSize {
		return StateStallOnOutput
	}
	footer := mainFooter{relativePosition: uint32(s.block.totalWritten - s.block.prevBlockStart)}
	footer.write(&s.out)
	s.totalWritten += mainFooterSize
	return StateReady
}

type decodeProcess int

const (
	decodeReadHeader decodeProcess = iota
	decodeReadBlocks
	decodeReadFooter
)

// DecodeStream drives the read_header -> read_blocks -> read_footer
// state machine: a resumable byte-stream decompressor symmetric to
// [EncodeStream].
type DecodeStream struct {
	Stream

	// ParallelizableOutput must match the encoder's setting: it tells
	// Finish whether a trailing MainFooter needs to be skipped over.
	ParallelizableOutput bool

	mode      Mode
	blockType BlockType
	process   decodeProcess
	block     *blockDecoder
}

// NewDecodeStream returns a ready-to-Init DecodeStream.
func NewDecodeStream() *DecodeStream {
	return &DecodeStream{Stream: Stream{teleport: newTeleport()}}
}

// Mode returns the mode recorded in the main header, valid once Init has
// progressed past read_header.
func (s *DecodeStream) Mode() Mode { return s.mode }

// BlockType returns the block type recorded in the main header, valid
// once Init has progressed past read_header.
func (s *DecodeStream) BlockType() BlockType { return s.blockType }

func (s *DecodeStream) endDataOverhead() uint64 {
	if s.ParallelizableOutput {
		return decodeEndDataOverhead
	}
	return 0
}

// Init prepares the stream for a fresh decompression run and attempts to
// read the main header.
func (s *DecodeStream) Init(in, out []byte) State {
	if len(out) < MinimumOutputBufferSize {
		return StateErrorOutputBufferTooSmall
	}
	s.teleport = newTeleport()
	s.teleport.changeInputBuffer(in)
	s.out.encapsulate(out)
	s.process = decodeReadHeader
	s.totalRead = 0
	s.totalWritten = 0
	return s.readHeaderIfPending()
}

func (s *DecodeStream) readHeaderIfPending() State {
	if s.process != decodeReadHeader {
		return StateReady
	}
	loc, ok := s.teleport.read(mainHeaderSize)
	if !ok {
		return StateStallOnInput
	}
	hdr := parseMainHeader(loc)
	s.totalRead += mainHeaderSize
	if hdr.mode == ModeLion {
		return StateError
	}
	s.mode = hdr.mode
	s.blockType = hdr.blockType
	s.block = newBlockDecoder(s.mode, s.blockType, hdr.resetCycleShift(), s.endDataOverhead())
	s.process = decodeReadBlocks
	return StateReady
}

// Continue processes as much of the currently buffered input as
// in/output space allow.
func (s *DecodeStream) Continue() State {
	if st := s.readHeaderIfPending(); st != StateReady {
		return st
	}
	if s.process != decodeReadBlocks {
		return StateReady
	}
	inBefore, outBefore := s.teleport.availableBytesReserved(s.endDataOverhead()), s.out.availableBytes
	st := s.block.continueBlock(s.teleport, &s.out)
	s.totalRead += inBefore - s.teleport.availableBytesReserved(s.endDataOverhead())
	s.totalWritten += outBefore - s.out.availableBytes
	return st
}

// Finish flushes any residual buffered bytes, treating the current
// input as everything that will ever arrive.
func (s *DecodeStream) Finish() State {
	if st := s.readHeaderIfPending(); st != StateReady {
		return st
	}
	if s.process == decodeReadFooter {
		return s.readFooter()
	}
	inBefore, outBefore := s.teleport.availableBytesReserved(s.endDataOverhead()), s.out.availableBytes
	st := s.block.finishBlock(s.teleport, &s.out)
	s.totalRead += inBefore - s.teleport.availableBytesReserved(s.endDataOverhead())
	s.totalWritten += outBefore - s.out.availableBytes
	if st != StateReady {
		return st
	}
	s.process = decodeReadFooter
	return s.readFooter()
}

func (s *DecodeStream) readFooter() State {
	if !s.ParallelizableOutput {
		return StateReady
	}
	if s.teleport.availableBytes() < mainFooterSize {
		return StateStallOnInput
	}
	loc, ok := s.teleport.read(mainFooterSize)
	if !ok {
		return StateStallOnInput
	}
	parseMainFooter(loc)
	s.totalRead += mainFooterSize
	return StateReady
}
