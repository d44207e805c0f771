package density

import "github.com/gtank/blake2/blake2b"

// hashOutputBytes is the width of the block footer's integrity digest:
// two uint64 hashsums (blockFooter).
const hashOutputBytes = 16

// integrityHashKey and integrityHashPersonalization are fixed, public
// parameters of the keyed hash used for block integrity checking. They
// are not secret — the hash defends against accidental corruption, not
// a malicious sender — so a fixed key keeps encode and decode symmetric
// without threading a key through the stream API.
var (
	integrityHashKey             = []byte("github.com/calvinalkan/density")
	integrityHashPersonalization = []byte("density-blk-v1")
)

// blockHash is a 128-bit streaming hash over a block's uncompressed
// bytes, fed incrementally as the kernel consumes input (encode) or
// produces output (decode) and read out as the two footer hashsums.
//
// The underlying Digest.Reset panics ("cannot be reset without storing
// the key" — a limitation of the library itself), so starting a new
// block builds a fresh Digest from the fixed key/personalization rather
// than resetting the old one.
type blockHash struct {
	d *blake2b.Digest
}

func newBlockHash() *blockHash {
	h := &blockHash{}
	h.reset()
	return h
}

// reset discards the current digest and starts a fresh one for the next
// block.
func (h *blockHash) reset() {
	d, err := blake2b.NewDigest(integrityHashKey, nil, integrityHashPersonalization, hashOutputBytes)
	if err != nil {
		// Only returned for malformed key/salt/personalization lengths,
		// all of which are fixed constants above.
		panic("density: invalid integrity hash parameters: " + err.Error())
	}
	h.d = d
}

// write feeds bytes into the running hash.
func (h *blockHash) write(b []byte) {
	_, _ = h.d.Write(b) // blake2b.Digest.Write never fails
}

// sum returns the two 64-bit halves of the current 128-bit digest,
// matching blockFooter's hashsum1/hashsum2 layout.
func (h *blockHash) sum() (hashsum1, hashsum2 uint64) {
	digest := h.d.Sum(nil)
	return beUint64(digest[0:8]), beUint64(digest[8:16])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
