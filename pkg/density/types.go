package density

// Mode selects the kernel codec algorithm a stream uses to compress data.
type Mode uint8

const (
	// ModeCopy is a straight pass-through with no dictionary or signatures.
	ModeCopy Mode = iota
	// ModeChameleon is a single-hash, single-slot dictionary compressor.
	ModeChameleon
	// ModeCheetah is a two-slot LRU dictionary plus prediction-table
	// compressor.
	ModeCheetah
	// ModeLion is referenced by the wire format but not implemented.
	// [EncodeStream.Init] returns [StateError] for it, and [BufferCompress]
	// reports [BufferErrorDuringProcessing].
	ModeLion
)

// String returns the mode's name.
func (m Mode) String() string {
	switch m {
	case ModeCopy:
		return "copy"
	case ModeChameleon:
		return "chameleon"
	case ModeCheetah:
		return "cheetah"
	case ModeLion:
		return "lion"
	default:
		return "unknown"
	}
}

// BlockType selects whether blocks carry a trailing integrity hash footer.
type BlockType uint8

const (
	// BlockTypeDefault blocks have no footer.
	BlockTypeDefault BlockType = iota
	// BlockTypeWithHashsumIntegrityCheck blocks carry a 16-byte hash footer
	// over the block's uncompressed bytes.
	BlockTypeWithHashsumIntegrityCheck
)

// String returns the block type's name.
func (b BlockType) String() string {
	switch b {
	case BlockTypeDefault:
		return "default"
	case BlockTypeWithHashsumIntegrityCheck:
		return "with_hashsum_integrity_check"
	default:
		return "unknown"
	}
}

// State is the unified suspension/result code returned by every exported
// state-machine method in this package (kernel, block, and stream layers
// alike). Spec sections 4.8 describe three separate enumerations (kernel
// encode, kernel decode, stream); they are collapsed into this single type
// because the extra codes (info_new_block, info_efficiency_check,
// integrity_check_fail) only ever need translating 1:1 as they bubble up
// through block.go and stream.go — a second and third enum would only add
// boilerplate conversions at each layer boundary.
type State int

const (
	// StateReady means the call completed successfully.
	StateReady State = iota
	// StateStallOnInput means the teleport buffer has less than one
	// processing unit buffered; call UpdateInput and retry.
	StateStallOnInput
	// StateStallOnOutput means the output Location cannot hold the next
	// unit's worst-case expansion; call UpdateOutput and retry.
	StateStallOnOutput
	// StateError means the internal process state reached an unreachable
	// value, or a kernel observed framing that violates the wire format.
	// Fatal; the stream must be discarded.
	StateError
	// StateInfoNewBlock is a kernel-internal terminal signal consumed by
	// the block layer; it never escapes to a Stream caller.
	StateInfoNewBlock
	// StateInfoEfficiencyCheck is an advisory signal from the kernel that
	// the block layer currently treats as informational only.
	StateInfoEfficiencyCheck
	// StateIntegrityCheckFail means a block footer hash did not match the
	// hash of the decoded bytes. Fatal; the stream must be discarded.
	StateIntegrityCheckFail
	// StateErrorOutputBufferTooSmall means the output buffer is smaller
	// than [MinimumOutputBufferSize]. Returned only from Init.
	StateErrorOutputBufferTooSmall
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateStallOnInput:
		return "stall_on_input"
	case StateStallOnOutput:
		return "stall_on_output"
	case StateError:
		return "error"
	case StateInfoNewBlock:
		return "info_new_block"
	case StateInfoEfficiencyCheck:
		return "info_efficiency_check"
	case StateIntegrityCheckFail:
		return "integrity_check_fail"
	case StateErrorOutputBufferTooSmall:
		return "error_output_buffer_too_small"
	default:
		return "unknown"
	}
}

// BufferState is the result code for the one-shot [BufferCompress] /
// [BufferDecompress] API.
type BufferState int

const (
	// BufferOK means the whole input was processed successfully.
	BufferOK BufferState = iota
	// BufferErrorOutputBufferTooSmall means the output buffer could not
	// hold the result (or was smaller than [MinimumOutputBufferSize]).
	BufferErrorOutputBufferTooSmall
	// BufferErrorDuringProcessing means the stream reported [StateError]
	// (or, for [BufferDecompress], the input is too short to hold the main
	// header).
	BufferErrorDuringProcessing
	// BufferErrorIntegrityCheckFail means decode detected corrupted data.
	BufferErrorIntegrityCheckFail
)

// String returns the buffer state's name.
func (b BufferState) String() string {
	switch b {
	case BufferOK:
		return "ok"
	case BufferErrorOutputBufferTooSmall:
		return "error_output_buffer_too_small"
	case BufferErrorDuringProcessing:
		return "error_during_processing"
	case BufferErrorIntegrityCheckFail:
		return "error_integrity_check_fail"
	default:
		return "unknown"
	}
}

// BufferResult is returned by [BufferCompress] and [BufferDecompress].
type BufferResult struct {
	State        BufferState
	BytesRead    uint64
	BytesWritten uint64
}
