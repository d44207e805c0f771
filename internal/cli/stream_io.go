package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/calvinalkan/density/pkg/density"
)

// streamBufferSize is the chunk size used to pump bytes between an
// io.Reader/io.Writer pair and a [density.EncodeStream]/[density.DecodeStream].
// It has no relationship to the codec's internal processing-unit sizes;
// it only bounds how much of the stream is held in memory at once.
const streamBufferSize = 64 * 1024

var (
	errStreamFailed  = errors.New("stream processing failed")
	errIntegrityFail = errors.New("integrity check failed: block data is corrupted")
)

func fill(r io.Reader, buf []byte) (n int, eof bool, err error) {
	n, err = r.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, true, nil
		}

		return n, false, fmt.Errorf("reading input: %w", err)
	}

	return n, false, nil
}

func flushAll(w io.Writer, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// streamCompress pumps r through an EncodeStream and into w, growing
// neither buffer beyond streamBufferSize regardless of input size.
func streamCompress(r io.Reader, w io.Writer, mode density.Mode, blockType density.BlockType, parallelizable bool) (read, written uint64, err error) {
	s := density.NewEncodeStream()
	s.ParallelizableOutput = parallelizable

	inBuf := make([]byte, streamBufferSize)
	outBuf := make([]byte, streamBufferSize)

	n, eof, err := fill(r, inBuf)
	if err != nil {
		return 0, 0, err
	}

	st := s.Init(mode, blockType, inBuf[:n], outBuf)
	started := false

	for {
		switch st {
		case density.StateStallOnOutput:
			if werr := flushAll(w, outBuf[:s.OutputAvailableForUse()]); werr != nil {
				return s.TotalRead(), s.TotalWritten(), werr
			}

			s.UpdateOutput(outBuf)

		case density.StateStallOnInput:
			if eof {
				st = s.Finish()
				started = true

				continue
			}

			n, eof, err = fill(r, inBuf)
			if err != nil {
				return s.TotalRead(), s.TotalWritten(), err
			}

			s.UpdateInput(inBuf[:n])

		case density.StateReady:
			if started {
				if werr := flushAll(w, outBuf[:s.OutputAvailableForUse()]); werr != nil {
					return s.TotalRead(), s.TotalWritten(), werr
				}

				return s.TotalRead(), s.TotalWritten(), nil
			}
			// Init just wrote the main header; drive the first
			// Continue/Finish call below.

		default:
			return s.TotalRead(), s.TotalWritten(), fmt.Errorf("%w: %s", errStreamFailed, st)
		}

		if eof {
			st = s.Finish()
		} else {
			st = s.Continue()
		}

		started = true
	}
}

// streamDecompress is the symmetric counterpart of streamCompress.
func streamDecompress(r io.Reader, w io.Writer, parallelizable bool) (read, written uint64, err error) {
	s := density.NewDecodeStream()
	s.ParallelizableOutput = parallelizable

	inBuf := make([]byte, streamBufferSize)
	outBuf := make([]byte, streamBufferSize)

	n, eof, err := fill(r, inBuf)
	if err != nil {
		return 0, 0, err
	}

	st := s.Init(inBuf[:n], outBuf)
	started := false

	for {
		switch st {
		case density.StateStallOnOutput:
			if werr := flushAll(w, outBuf[:s.OutputAvailableForUse()]); werr != nil {
				return s.TotalRead(), s.TotalWritten(), werr
			}

			s.UpdateOutput(outBuf)

		case density.StateStallOnInput:
			if eof {
				st = s.Finish()
				started = true

				continue
			}

			n, eof, err = fill(r, inBuf)
			if err != nil {
				return s.TotalRead(), s.TotalWritten(), err
			}

			s.UpdateInput(inBuf[:n])

		case density.StateReady:
			if started {
				if werr := flushAll(w, outBuf[:s.OutputAvailableForUse()]); werr != nil {
					return s.TotalRead(), s.TotalWritten(), werr
				}

				return s.TotalRead(), s.TotalWritten(), nil
			}

		case density.StateIntegrityCheckFail:
			return s.TotalRead(), s.TotalWritten(), errIntegrityFail

		default:
			return s.TotalRead(), s.TotalWritten(), fmt.Errorf("%w: %s", errStreamFailed, st)
		}

		if eof {
			st = s.Finish()
		} else {
			st = s.Continue()
		}

		started = true
	}
}
