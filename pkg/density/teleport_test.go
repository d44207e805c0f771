package density

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Teleport_Read_Returns_Direct_When_Direct_Alone_Has_Enough_Bytes(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("0123456789"))

	loc, ok := tp.read(6)
	require.True(t, ok)
	require.Same(t, &tp.direct, loc)
	require.Equal(t, uint64(10), loc.availableBytes)
}

func Test_Teleport_Read_Stalls_And_Drains_Direct_Into_Staging_When_Insufficient(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("abc"))

	loc, ok := tp.read(10)
	require.False(t, ok)
	require.Nil(t, loc)
	require.Equal(t, uint64(3), tp.staging.availableBytes)
	require.Equal(t, uint64(0), tp.direct.availableBytes)
}

func Test_Teleport_Read_Combines_Staged_Remainder_With_New_Direct_Bytes(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("abc"))

	_, ok := tp.read(10)
	require.False(t, ok)

	tp.changeInputBuffer([]byte("defghijklmnop"))

	loc, ok := tp.read(10)
	require.True(t, ok)

	got := make([]byte, 10)
	loc.read(got, 10)
	require.Equal(t, []byte("abcdefghij"), got)
}

func Test_Teleport_Read_Reverts_To_Direct_When_Staged_Bytes_Are_Still_Contiguous_Behind_It(t *testing.T) {
	t.Parallel()

	// Construct the precondition documented for teleport.read's revert
	// branch directly: the staging buffer holds bytes that were copied
	// out of the front of the *currently bound* direct region, so they
	// remain physically contiguous with what direct has left.
	data := []byte("0123456789ABCDEF")

	tp := newTeleport()
	tp.direct.encapsulate(data)
	tp.direct.consume(6) // direct.used() == 6, matching the staged count below

	copy(tp.stagingBuf[:6], data[:6])
	tp.staging.offset = 0
	tp.staging.availableBytes = 6
	tp.writeOffset = 6

	loc, ok := tp.read(10)
	require.True(t, ok)
	require.Same(t, &tp.direct, loc)
	require.Equal(t, uint64(16), loc.availableBytes)
	require.Equal(t, uint64(0), tp.staging.availableBytes)

	got := make([]byte, 16)
	loc.read(got, 16)
	require.Equal(t, data, got)
}

func Test_Teleport_AvailableBytes_Sums_Staging_And_Direct(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("0123456789"))
	_, _ = tp.read(20) // stalls, drains direct into staging

	tp.changeInputBuffer([]byte("abcde"))

	require.Equal(t, uint64(15), tp.availableBytes())
}

func Test_Teleport_AvailableBytesReserved_Saturates_At_Zero(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("abc"))

	require.Equal(t, uint64(0), tp.availableBytesReserved(10))
	require.Equal(t, uint64(1), tp.availableBytesReserved(2))
}

func Test_Teleport_Copy_Drains_Staging_Before_Direct(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("abc"))
	_, _ = tp.read(10) // stalls; "abc" now staged

	tp.changeInputBuffer([]byte("defgh"))

	var out location
	outBuf := make([]byte, 8)
	out.encapsulate(outBuf)

	tp.copy(&out, 8)
	require.Equal(t, []byte("abcdefgh"), outBuf)
	require.Equal(t, uint64(0), tp.availableBytes())
}

func Test_Teleport_CopyRemaining_Drains_Everything_Buffered(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("abc"))
	_, _ = tp.read(10)
	tp.changeInputBuffer([]byte("de"))

	var out location
	outBuf := make([]byte, 16)
	out.encapsulate(outBuf)

	tp.copyRemaining(&out)
	require.Equal(t, uint64(5), out.used())
	require.Equal(t, []byte("abcde"), outBuf[:5])
}

func Test_Teleport_SetConsumeObserver_Fires_On_Direct_Consume_And_Clears_Both_Cursors(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	tp.changeInputBuffer([]byte("abcdef"))

	var seen []byte
	tp.setConsumeObserver(func(b []byte) { seen = append(seen, b...) })

	loc, ok := tp.read(4)
	require.True(t, ok)
	loc.consume(4)

	require.Equal(t, []byte("abcd"), seen)

	tp.setConsumeObserver(nil)
	require.Nil(t, tp.staging.onConsume)
	require.Nil(t, tp.direct.onConsume)
}

// Staging-buffer bound (spec.md §8 "Staging-buffer bound"): as long as a
// caller fully consumes each unit teleport.read hands back before asking
// for the next one -- the contract every kernel in this package honors --
// staging never grows past its fixed capacity, no matter how finely the
// direct input arrives.
func Test_Teleport_StagingBuffer_Never_Exceeds_Capacity_Under_Realistic_Drive(t *testing.T) {
	t.Parallel()

	tp := newTeleport()
	require.Len(t, tp.stagingBuf, stagingCapacity)

	const unit = 256

	refill := make([]byte, 64)
	for i := range refill {
		refill[i] = byte(i)
	}

	for range 4000 {
		loc, ok := tp.read(unit)
		for !ok {
			tp.changeInputBuffer(refill)
			require.LessOrEqual(t, tp.staging.availableBytes, uint64(stagingCapacity))
			loc, ok = tp.read(unit)
		}
		loc.consume(unit)
		require.LessOrEqual(t, tp.staging.availableBytes, uint64(stagingCapacity))
	}
}
