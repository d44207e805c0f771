package density

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Location_Encapsulate_Resets_Cursor_And_Bounds(t *testing.T) {
	t.Parallel()

	var l location
	l.encapsulate([]byte("hello"))

	require.Equal(t, uint64(5), l.availableBytes)
	require.Equal(t, uint64(5), l.initialAvailBytes)
	require.Equal(t, uint64(0), l.used())
}

func Test_Location_Consume_Advances_And_Tracks_Used(t *testing.T) {
	t.Parallel()

	var l location
	l.encapsulate([]byte("0123456789"))

	l.consume(4)
	require.Equal(t, uint64(6), l.availableBytes)
	require.Equal(t, uint64(4), l.used())

	l.consume(6)
	require.Equal(t, uint64(0), l.availableBytes)
	require.Equal(t, uint64(10), l.used())
}

func Test_Location_Read_Copies_Bytes_And_Consumes(t *testing.T) {
	t.Parallel()

	var l location
	l.encapsulate([]byte("abcdef"))

	dst := make([]byte, 3)
	l.read(dst, 3)

	require.Equal(t, []byte("abc"), dst)
	require.Equal(t, uint64(3), l.used())
}

func Test_Location_Write_Copies_Bytes_And_Consumes(t *testing.T) {
	t.Parallel()

	buf := make([]byte, 6)

	var l location
	l.encapsulate(buf)
	l.write([]byte("xyz"), 3)

	require.Equal(t, []byte("xyz\x00\x00\x00"), buf)
	require.Equal(t, uint64(3), l.used())
}

func Test_Location_OnConsume_Observes_Exact_Bytes_Passed_Over(t *testing.T) {
	t.Parallel()

	var l location
	l.encapsulate([]byte("0123456789"))

	var seen []byte
	l.onConsume = func(b []byte) { seen = append(seen, b...) }

	l.consume(3)
	l.consume(2)

	require.Equal(t, []byte("01234"), seen)
}
