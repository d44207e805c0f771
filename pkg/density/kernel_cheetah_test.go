package density

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func driveCheetahEncode(t *testing.T, in []byte) []byte {
	t.Helper()

	k := &cheetahEncoder{}
	k.init()

	tp := newTeleport()
	tp.changeInputBuffer(in)

	outBuf := make([]byte, cheetahMaxUnitSize)

	var out location
	out.encapsulate(outBuf)

	st := k.continueEncode(tp, &out)
	require.Equal(t, StateStallOnOutput, st, "output holds exactly one worst-case unit, so the kernel stalls before reserving the next signature")

	return outBuf[:out.used()]
}

// Seed 4: 32 chunks alternating A,B,A,B,... After the first two misses and
// one A-hit, the prediction table predicts every following chunk
// correctly, so most codes are "predicted". Decode must restore the exact
// alternation.
func Test_CheetahEncoder_Alternating_Chunks_Mostly_Predicted_And_Decodes_Exactly(t *testing.T) {
	t.Parallel()

	vals := distinctNonCollidingChunks(t, 2)
	a, b := vals[0], vals[1]

	chunks := make([]uint32, cheetahChunksPerUnit)
	in := make([]byte, 0, cheetahProcessUnitSize)

	for i := range chunks {
		c := a
		if i%2 == 1 {
			c = b
		}

		chunks[i] = c

		var buf [4]byte
		putUint32LE(buf[:], c)
		in = append(in, buf[:]...)
	}

	unit := driveCheetahEncode(t, in)
	sig := readUint64LE(unit[:8])

	require.Equal(t, uint8(cheetahFlagChunk), uint8((sig>>0)&0x3), "chunk 0 is a literal miss")
	require.Equal(t, uint8(cheetahFlagChunk), uint8((sig>>2)&0x3), "chunk 1 is a literal miss")
	require.Equal(t, uint8(cheetahFlagMapA), uint8((sig>>4)&0x3), "chunk 2 re-hits A via the dictionary")

	predictedCount := 0

	for shift := uint8(6); shift < 64; shift += 2 {
		if uint8((sig>>shift)&0x3) == cheetahFlagPredicted {
			predictedCount++
		}
	}

	require.Equal(t, 29, predictedCount, "every chunk after the warmup is predicted")

	// Decode the emitted unit and confirm it reconstructs the exact
	// alternating sequence.
	kd := &cheetahDecoder{}
	kd.init(0, 0)

	var decIn location
	decIn.encapsulate(unit)

	outBuf := make([]byte, cheetahDecodedUnitSize)

	var decOut location
	decOut.encapsulate(outBuf)

	kd.readSignature(&decIn)
	kd.processData(&decIn, &decOut)

	for i, c := range chunks {
		require.Equal(t, c, readUint32LE(outBuf[i*4:]), "chunk %d", i)
	}
}

// Signature accounting (spec.md §8): the body length for a cheetah unit
// equals the sum of each 2-bit code's body size (0 for predicted, 2 for
// map_a/map_b, 4 for chunk).
func Test_CheetahEncoder_Signature_Accounting_Holds(t *testing.T) {
	t.Parallel()

	vals := distinctNonCollidingChunks(t, 8)

	in := make([]byte, 0, cheetahProcessUnitSize)
	for i := range cheetahChunksPerUnit {
		c := vals[i%len(vals)]

		var buf [4]byte
		putUint32LE(buf[:], c)
		in = append(in, buf[:]...)
	}

	unit := driveCheetahEncode(t, in)
	sig := readUint64LE(unit[:8])

	want := 0

	for shift := uint8(0); shift < 64; shift += 2 {
		switch uint8((sig >> shift) & 0x3) {
		case cheetahFlagPredicted:
			want += 0
		case cheetahFlagMapA, cheetahFlagMapB:
			want += 2
		case cheetahFlagChunk:
			want += 4
		}
	}

	require.Equal(t, want, len(unit)-cheetahSignatureSize)
}

func Test_CheetahEncoder_Dictionary_Reset_After_Full_Cycle(t *testing.T) {
	t.Parallel()

	k := &cheetahEncoder{}
	k.init()
	require.Equal(t, uint64((1<<dictionaryPreferredResetCycleShift)-1), k.resetCycle)

	k.dict.slots[0].chunkA = 0xAAAAAAAA
	k.dict.predictions[0] = 0xBBBBBBBB

	var out location
	out.encapsulate(make([]byte, cheetahMaxUnitSize))

	const blocksPerResetCycle = 1 << dictionaryPreferredResetCycleShift
	for i := 0; i < blocksPerResetCycle; i++ {
		k.signaturesCount = cheetahBlockSignatures
		st := k.prepareNewBlock(&out)
		require.Equal(t, StateInfoNewBlock, st)
	}

	require.Equal(t, uint32(0), k.dict.slots[0].chunkA)
	require.Equal(t, uint32(0), k.dict.predictions[0])
}
