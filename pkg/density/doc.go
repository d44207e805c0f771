// Package density implements a streaming, block-structured compression
// codec family.
//
// A producer feeds raw bytes into an [EncodeStream]; the stream emits a
// self-describing byte stream that a symmetric [DecodeStream] restores to
// the original bytes. Three algorithm modes are supported: [ModeCopy] (a
// no-op pass-through), [ModeChameleon] (a single-hash dictionary
// compressor), and [ModeCheetah] (a two-slot predictive dictionary
// compressor). Blocks may carry an optional 128-bit integrity hash
// ([BlockTypeWithHashsumIntegrityCheck]).
//
// # Basic usage
//
//	result := density.BufferCompress(input, output, density.ModeChameleon, density.BlockTypeDefault)
//	if result.State != density.BufferOK {
//	    // handle result.State
//	}
//	compressed := output[:result.BytesWritten]
//
// For input/output that does not fit in memory at once, drive an
// [EncodeStream] or [DecodeStream] directly: call Init, then Continue
// repeatedly — refilling the input buffer with UpdateInput and draining the
// output buffer with UpdateOutput whenever a Stall state is returned — and
// finally Finish once no more input will ever arrive.
//
// # Concurrency
//
// A [Stream] (embedded by both [EncodeStream] and [DecodeStream]) is a
// single-threaded state machine. It must not be driven from more than one
// goroutine at a time. Distinct Stream values share no state and may be
// driven concurrently from separate goroutines.
//
// # Error handling
//
// Suspension — [StateStallOnInput], [StateStallOnOutput] — is not an error;
// it means "call UpdateInput/UpdateOutput and call Continue/Finish again".
// Every other non-[StateReady] value is fatal for that stream instance;
// the stream must be discarded and recreated.
package density
