package density

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeChameleonIntegrityBlock(t *testing.T, input []byte) []byte {
	t.Helper()

	enc := newBlockEncoder(ModeChameleon, BlockTypeWithHashsumIntegrityCheck)

	tp := newTeleport()
	tp.changeInputBuffer(input)

	var out location
	out.encapsulate(make([]byte, 1024))

	st := enc.finishBlock(tp, &out)
	require.Equal(t, StateReady, st)

	return out.buf[:out.used()]
}

func decodeChameleonIntegrityBlock(blockBytes []byte, outSize int) (State, []byte) {
	dec := newBlockDecoder(ModeChameleon, BlockTypeWithHashsumIntegrityCheck, 0, 0)

	tp := newTeleport()
	tp.changeInputBuffer(blockBytes)

	var out location
	outBuf := make([]byte, outSize)
	out.encapsulate(outBuf)

	st := dec.finishBlock(tp, &out)

	return st, outBuf[:out.used()]
}

func Test_Block_Roundtrip_With_Integrity_Check_Succeeds_On_Untouched_Bytes(t *testing.T) {
	t.Parallel()

	input := []byte("abcdefgh")
	blockBytes := encodeChameleonIntegrityBlock(t, input)

	st, got := decodeChameleonIntegrityBlock(blockBytes, MinimumOutputBufferSize)
	require.Equal(t, StateReady, st)
	require.Equal(t, input, got)
}

// Seed 5 / Integrity invariant (spec.md §8): flipping any single byte of
// an integrity-checked block's body makes decode report
// StateIntegrityCheckFail.
func Test_Block_Decode_Detects_Single_Flipped_Body_Byte(t *testing.T) {
	t.Parallel()

	input := []byte("abcdefgh")
	blockBytes := encodeChameleonIntegrityBlock(t, input)

	bodyStart := blockHeaderSize + chameleonSignatureSize
	bodyEnd := len(blockBytes) - blockFooterSize
	require.Greater(t, bodyEnd, bodyStart, "block must carry at least one body byte to flip")

	corrupted := append([]byte(nil), blockBytes...)
	corrupted[bodyStart] ^= 0xFF

	st, _ := decodeChameleonIntegrityBlock(corrupted, MinimumOutputBufferSize)
	require.Equal(t, StateIntegrityCheckFail, st)
}

func Test_Block_Header_RelativePosition_Points_At_Previous_Block_Start(t *testing.T) {
	t.Parallel()

	enc := newBlockEncoder(ModeCopy, BlockTypeDefault)

	tp := newTeleport()
	tp.changeInputBuffer([]byte("first-block-bytes"))

	var out location
	out.encapsulate(make([]byte, 4096))

	require.Equal(t, uint64(0), enc.prevBlockStart)

	st := enc.finishBlock(tp, &out)
	require.Equal(t, StateReady, st)
	require.Equal(t, uint64(0), enc.prevBlockStart, "only one block was written; its header points at offset 0")
}
