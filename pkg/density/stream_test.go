package density

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Seed 1: COPY mode is an identity transform -- Init+Finish with a
// generously sized output buffer must reproduce the input exactly, with
// totals matching the input/output lengths once the header and footer
// overhead are accounted for.
func Test_EncodeStream_Then_DecodeStream_Copy_Mode_Is_Identity(t *testing.T) {
	t.Parallel()

	input := []byte("the quick brown fox jumps over the lazy dog")

	enc := NewEncodeStream()
	encOut := make([]byte, 4096)
	st := enc.Init(ModeCopy, BlockTypeDefault, input, encOut)
	require.Equal(t, StateReady, st)

	st = enc.Finish()
	require.Equal(t, StateReady, st)
	require.Equal(t, uint64(len(input)), enc.TotalRead())

	compressed := encOut[:enc.TotalWritten()]

	dec := NewDecodeStream()
	decOut := make([]byte, 4096)
	st = dec.Init(compressed, decOut)
	require.Equal(t, StateReady, st)
	require.Equal(t, ModeCopy, dec.Mode())

	st = dec.Finish()
	require.Equal(t, StateReady, st)
	require.Equal(t, input, decOut[:dec.TotalWritten()])
}

func Test_EncodeStream_Then_DecodeStream_Chameleon_Roundtrips_Repetitive_Data(t *testing.T) {
	t.Parallel()

	pattern := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	input := make([]byte, 0, chameleonProcessUnitSize*3)
	for range chameleonChunksPerUnit * 3 {
		input = append(input, pattern...)
	}

	enc := NewEncodeStream()
	encOut := make([]byte, 8192)
	require.Equal(t, StateReady, enc.Init(ModeChameleon, BlockTypeDefault, input, encOut))
	require.Equal(t, StateReady, enc.Finish())

	compressed := encOut[:enc.TotalWritten()]
	require.Less(t, len(compressed), len(input), "repetitive input should shrink")

	dec := NewDecodeStream()
	decOut := make([]byte, 8192)
	require.Equal(t, StateReady, dec.Init(compressed, decOut))
	require.Equal(t, StateReady, dec.Finish())
	require.Equal(t, input, decOut[:dec.TotalWritten()])
}

func Test_EncodeStream_Then_DecodeStream_Cheetah_Roundtrips_Alternating_Data(t *testing.T) {
	t.Parallel()

	vals := distinctNonCollidingChunks(t, 2)
	a, b := vals[0], vals[1]

	input := make([]byte, 0, cheetahProcessUnitSize*3)
	for i := range cheetahChunksPerUnit * 3 {
		c := a
		if i%2 == 1 {
			c = b
		}
		var buf [4]byte
		putUint32LE(buf[:], c)
		input = append(input, buf[:]...)
	}

	enc := NewEncodeStream()
	encOut := make([]byte, 8192)
	require.Equal(t, StateReady, enc.Init(ModeCheetah, BlockTypeWithHashsumIntegrityCheck, input, encOut))
	require.Equal(t, StateReady, enc.Finish())

	compressed := encOut[:enc.TotalWritten()]

	dec := NewDecodeStream()
	decOut := make([]byte, 8192)
	require.Equal(t, StateReady, dec.Init(compressed, decOut))
	require.Equal(t, BlockTypeWithHashsumIntegrityCheck, dec.BlockType())
	require.Equal(t, StateReady, dec.Finish())
	require.Equal(t, input, decOut[:dec.TotalWritten()])
}

// Byte-at-a-time feeding via UpdateInput/Continue must produce exactly
// the same output as a single Init+Finish call over the whole input.
func Test_EncodeStream_Continue_With_Tiny_Input_Chunks_Matches_Single_Shot(t *testing.T) {
	t.Parallel()

	input := make([]byte, chameleonProcessUnitSize*2+37)
	for i := range input {
		input[i] = byte(i * 7)
	}

	oneShotOut := make([]byte, 8192)
	oneShot := NewEncodeStream()
	require.Equal(t, StateReady, oneShot.Init(ModeChameleon, BlockTypeDefault, input, oneShotOut))
	require.Equal(t, StateReady, oneShot.Finish())
	want := oneShotOut[:oneShot.TotalWritten()]

	piecewiseOut := make([]byte, 8192)
	piecewise := NewEncodeStream()
	require.Equal(t, StateReady, piecewise.Init(ModeChameleon, BlockTypeDefault, nil, piecewiseOut))

	for _, b := range input {
		piecewise.UpdateInput([]byte{b})
		for {
			st := piecewise.Continue()
			if st == StateStallOnInput {
				break
			}
			require.Equal(t, StateReady, st)
		}
	}

	require.Equal(t, StateReady, piecewise.Finish())
	require.Equal(t, want, piecewiseOut[:piecewise.TotalWritten()])
}

// Regression test: the teleport buffer's internal direct->staging
// shuffles must not be mistaken for a kernel consuming bytes, or the
// integrity hash double-counts bytes that straddle a refill and decode
// never matches encode. Feeding one byte at a time forces every single
// byte through at least one staging drain.
func Test_EncodeStream_Then_DecodeStream_Integrity_Check_Survives_Byte_At_A_Time_Feed(t *testing.T) {
	t.Parallel()

	input := make([]byte, chameleonProcessUnitSize*2+37)
	for i := range input {
		input[i] = byte(i * 13)
	}

	encOut := make([]byte, 8192)
	enc := NewEncodeStream()
	require.Equal(t, StateReady, enc.Init(ModeChameleon, BlockTypeWithHashsumIntegrityCheck, nil, encOut))

	for _, b := range input {
		enc.UpdateInput([]byte{b})
		for {
			st := enc.Continue()
			if st == StateStallOnInput {
				break
			}
			require.Equal(t, StateReady, st)
		}
	}

	require.Equal(t, StateReady, enc.Finish())
	compressed := encOut[:enc.TotalWritten()]

	decOut := make([]byte, 8192)
	dec := NewDecodeStream()
	require.Equal(t, StateReady, dec.Init(compressed, decOut))
	require.Equal(t, StateReady, dec.Finish())
	require.Equal(t, input, decOut[:dec.TotalWritten()])
}

func Test_EncodeStream_Init_Rejects_Lion_Mode(t *testing.T) {
	t.Parallel()

	s := NewEncodeStream()
	st := s.Init(ModeLion, BlockTypeDefault, []byte("x"), make([]byte, MinimumOutputBufferSize))
	require.Equal(t, StateError, st)
}

func Test_EncodeStream_Init_Rejects_Undersized_Output_Buffer(t *testing.T) {
	t.Parallel()

	s := NewEncodeStream()
	st := s.Init(ModeCopy, BlockTypeDefault, []byte("x"), make([]byte, MinimumOutputBufferSize-1))
	require.Equal(t, StateErrorOutputBufferTooSmall, st)
}

func Test_EncodeStream_Then_DecodeStream_With_ParallelizableOutput_Carries_Main_Footer(t *testing.T) {
	t.Parallel()

	input := []byte("relative position footer smoke test")

	enc := NewEncodeStream()
	enc.ParallelizableOutput = true
	encOut := make([]byte, 4096)
	require.Equal(t, StateReady, enc.Init(ModeCopy, BlockTypeDefault, input, encOut))
	require.Equal(t, StateReady, enc.Finish())

	compressed := encOut[:enc.TotalWritten()]

	dec := NewDecodeStream()
	dec.ParallelizableOutput = true
	decOut := make([]byte, 4096)
	require.Equal(t, StateReady, dec.Init(compressed, decOut))
	require.Equal(t, StateReady, dec.Finish())
	require.Equal(t, input, decOut[:dec.TotalWritten()])
	require.Equal(t, uint64(len(compressed)), dec.TotalRead())
}
