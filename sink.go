package tide

import (
	"io"
	"os"

	"github.com/orcaman/writerseeker"
)

// ByteSink is the seekable, writable byte stream contract described in spec
// §6.1. The core encoder never assumes more than this: write, tell, seek,
// flush, close. A file or an in-memory buffer both qualify.
type ByteSink interface {
	Write(p []byte) (int, error)
	Tell() (uint64, error)
	SeekSet(offset uint64) error
	SeekCur(delta int64) error
	Flush() error
	Close() error
}

// fileSink adapts an *os.File to ByteSink. Opening the underlying file is
// the caller's concern; fileSink wraps a handle it is given and closes that
// handle in Close.
type fileSink struct {
	f *os.File
}

// NewFileSink wraps an already-open, writable, seekable *os.File as a
// ByteSink.
func NewFileSink(f *os.File) ByteSink {
	return &fileSink{f: f}
}

func (s *fileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

func (s *fileSink) Tell() (uint64, error) {
	off, err := s.f.Seek(0, io.SeekCurrent)
	return uint64(off), err
}

func (s *fileSink) SeekSet(offset uint64) error {
	_, err := s.f.Seek(int64(offset), io.SeekStart)
	return err
}

func (s *fileSink) SeekCur(delta int64) error {
	_, err := s.f.Seek(delta, io.SeekCurrent)
	return err
}

func (s *fileSink) Flush() error { return s.f.Sync() }
func (s *fileSink) Close() error { return s.f.Close() }

// memSink is an in-memory ByteSink backed by
// github.com/orcaman/writerseeker, a seekable in-memory buffer that supports
// the reserve-placeholder/back-patch flow this package uses for the TIDE
// and CHNK headers. It is the sink of choice for tests and for callers who
// just want the finished bytes in memory.
type memSink struct {
	ws *writerseeker.WriterSeeker
}

// NewMemSink returns a ByteSink backed by an in-memory buffer.
func NewMemSink() ByteSink {
	return &memSink{ws: &writerseeker.WriterSeeker{}}
}

func (s *memSink) Write(p []byte) (int, error) { return s.ws.Write(p) }

func (s *memSink) Tell() (uint64, error) {
	off, err := s.ws.Seek(0, io.SeekCurrent)
	return uint64(off), err
}

func (s *memSink) SeekSet(offset uint64) error {
	_, err := s.ws.Seek(int64(offset), io.SeekStart)
	return err
}

func (s *memSink) SeekCur(delta int64) error {
	_, err := s.ws.Seek(delta, io.SeekCurrent)
	return err
}

func (s *memSink) Flush() error { return nil }
func (s *memSink) Close() error { return nil }

// Bytes returns the full contents written to the sink so far. Intended for
// tests that need to inspect the finished file without a real filesystem.
func (s *memSink) Bytes() []byte {
	b, _ := io.ReadAll(s.ws.Reader())
	return b
}
