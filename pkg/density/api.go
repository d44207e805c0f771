package density

// BufferCompress compresses all of in into out in one call: equivalent to
// driving an [EncodeStream] through a single Init+Finish with the whole
// input and output already available. Returns [BufferErrorOutputBufferTooSmall]
// if out cannot hold the compressed result (including being smaller than
// [MinimumOutputBufferSize]), or [BufferErrorDuringProcessing] for an
// invalid mode or internal error.
func BufferCompress(in, out []byte, mode Mode, blockType BlockType) BufferResult {
	s := NewEncodeStream()
	switch s.Init(mode, blockType, in, out) {
	case StateErrorOutputBufferTooSmall, StateStallOnOutput:
		return BufferResult{State: BufferErrorOutputBufferTooSmall}
	case StateError:
		return BufferResult{State: BufferErrorDuringProcessing}
	}

	switch s.Finish() {
	case StateReady:
		return BufferResult{State: BufferOK, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	case StateStallOnOutput, StateStallOnInput:
		return BufferResult{State: BufferErrorOutputBufferTooSmall, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	default:
		return BufferResult{State: BufferErrorDuringProcessing, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	}
}

// BufferDecompress decompresses all of in into out in one call: the
// symmetric counterpart of [BufferCompress]. Returns
// [BufferErrorIntegrityCheckFail] if a block's integrity hash does not
// match its decoded bytes.
func BufferDecompress(in, out []byte) BufferResult {
	s := NewDecodeStream()
	switch s.Init(in, out) {
	case StateErrorOutputBufferTooSmall, StateStallOnOutput:
		return BufferResult{State: BufferErrorOutputBufferTooSmall}
	case StateError:
		return BufferResult{State: BufferErrorDuringProcessing}
	case StateStallOnInput:
		return BufferResult{State: BufferErrorDuringProcessing}
	}

	switch s.Finish() {
	case StateReady:
		return BufferResult{State: BufferOK, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	case StateStallOnOutput, StateStallOnInput:
		return BufferResult{State: BufferErrorOutputBufferTooSmall, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	case StateIntegrityCheckFail:
		return BufferResult{State: BufferErrorIntegrityCheckFail, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	default:
		return BufferResult{State: BufferErrorDuringProcessing, BytesRead: s.TotalRead(), BytesWritten: s.TotalWritten()}
	}
}
