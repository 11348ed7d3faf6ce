package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestReaderSequential tests cursor reads across field widths.
func TestReaderSequential(t *testing.T) {
	w := NewWriter()
	w.Uint8(7)
	w.Uint16(0x0102)
	w.Uint32(0xDEADBEEF)
	w.Uint64(1 << 40)
	w.Int32(-5)
	w.Float32(1.5)
	w.Float64(-2.25)
	w.String("abc")

	r := NewReader(w.Bytes())

	u8, err := r.Uint8("a")
	require.NoError(t, err)
	require.Equal(t, uint8(7), u8)

	u16, err := r.Uint16("b")
	require.NoError(t, err)
	require.Equal(t, uint16(0x0102), u16)

	u32, err := r.Uint32("c")
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := r.Uint64("d")
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), u64)

	i32, err := r.Int32("e")
	require.NoError(t, err)
	require.Equal(t, int32(-5), i32)

	f32, err := r.Float32("f")
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32)

	f64, err := r.Float64("g")
	require.NoError(t, err)
	require.Equal(t, -2.25, f64)

	s, err := r.String("h", 3)
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	require.Equal(t, 0, r.Remaining())
}

// TestReaderShortRead tests that truncation names the field and wraps the
// sentinel.
func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.Uint32("capacity")
	require.ErrorIs(t, err, ErrUnexpectedEOF)
	require.Contains(t, err.Error(), "capacity")
	require.Contains(t, err.Error(), "offset 0")
}

// TestReaderInvalidText tests UTF-8 validation.
func TestReaderInvalidText(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFE, 0xFD})
	_, err := r.String("name", 3)

	var textErr *InvalidTextError
	require.ErrorAs(t, err, &textErr)
	require.Equal(t, "name", textErr.Field)
}

// TestReaderBytesCopies tests that decoded slices are independent of the
// input buffer.
func TestReaderBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	r := NewReader(src)
	b, err := r.Bytes("blob", 3)
	require.NoError(t, err)

	src[0] = 99
	require.Equal(t, []byte{1, 2, 3}, b)
}

// TestReaderCheckCount tests the pre-allocation count guard.
func TestReaderCheckCount(t *testing.T) {
	r := NewReader(make([]byte, 100))
	require.NoError(t, r.CheckCount("n", 10, 10))
	require.ErrorIs(t, r.CheckCount("n", 11, 10), ErrUnexpectedEOF)
	require.ErrorIs(t, r.CheckCount("n", 1<<60, 12), ErrUnexpectedEOF)
}
