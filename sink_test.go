package tide

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemSinkWriteTellSeek(t *testing.T) {
	s := NewMemSink()

	n, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	pos, err := s.Tell()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), pos)

	require.NoError(t, s.SeekSet(1))
	pos, err = s.Tell()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), pos)

	require.NoError(t, s.SeekCur(2))
	pos, err = s.Tell()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), pos)

	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	ms := s.(*memSink)
	assert.Equal(t, []byte("hello"), ms.Bytes())
}

func TestMemSinkBackPatch(t *testing.T) {
	s := NewMemSink().(*memSink)
	_, err := s.Write([]byte{0, 0, 0, 0})
	require.NoError(t, err)
	_, err = s.Write([]byte("tail"))
	require.NoError(t, err)

	require.NoError(t, s.SeekSet(0))
	_, err = s.Write([]byte("HEAD"))
	require.NoError(t, err)

	assert.Equal(t, []byte("HEADtail"), s.Bytes())
}

func TestFileSinkWriteTellSeek(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sink.bin")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	require.NoError(t, err)

	s := NewFileSink(f)
	_, err = s.Write([]byte("0123456789"))
	require.NoError(t, err)

	pos, err := s.Tell()
	require.NoError(t, err)
	assert.Equal(t, uint64(10), pos)

	require.NoError(t, s.SeekSet(2))
	_, err = s.Write([]byte("XX"))
	require.NoError(t, err)

	require.NoError(t, s.Flush())
	require.NoError(t, s.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("01XX456789"), got)
}
