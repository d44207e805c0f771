package density

import "errors"

// Sentinel errors naming the codec's failure classes, for callers that
// report them as Go errors. The stream and buffer APIs in this package
// report failures as [State] and [BufferState] values and do not return
// these errors themselves.
//
// Callers should use [errors.Is] to check error types.
var (
	// ErrInvalidMode indicates an unknown or unsupported [Mode] was passed
	// to Init/BufferCompress/BufferDecompress.
	ErrInvalidMode = errors.New("density: invalid compression mode")

	// ErrUnsupportedMode indicates a recognized but unimplemented mode
	// (currently only [ModeLion]).
	ErrUnsupportedMode = errors.New("density: unsupported compression mode")

	// ErrOutputBufferTooSmall indicates the output buffer is smaller than
	// [MinimumOutputBufferSize].
	ErrOutputBufferTooSmall = errors.New("density: output buffer too small")

	// ErrDuringProcessing indicates the internal process state reached an
	// unreachable value, or a kernel observed framing that violates the
	// wire format.
	ErrDuringProcessing = errors.New("density: error during processing")

	// ErrIntegrityCheckFail indicates a block footer hash did not match the
	// hash of the decoded bytes.
	ErrIntegrityCheckFail = errors.New("density: integrity check failed")
)
