// Package tide implements the encoder for the TIDE log format, a chunked,
// multi-channel binary container for heterogeneous sampled data streams.
//
// The package covers only the writer side: the file header is rewritten
// in place once the body is known, chunk headers are back-patched on
// close, and records are packed little-endian with no padding. Reading or
// indexing an existing TIDE file is out of scope.
package tide

import "fmt"

// Block tags. Every block in a TIDE file opens with one of these as its
// 4-byte ASCII identifier.
const (
	TagTide = "TIDE"
	TagChan = "CHAN"
	TagChnk = "CHNK"
)

// FormatMajor and FormatMinor are the version numbers written into the TIDE
// preamble by this package.
const (
	FormatMajor uint8 = 1
	FormatMinor uint8 = 0
)

// Fixed block/record sizes, in bytes, excluding variable-length payloads.
const (
	blockHeaderSize   = 12 // tag(4) + size(8)
	tidePreambleSize  = 10 // major(1) + minor(1) + num_channels(4) + num_chunks(4)
	chunkPreambleSize = 25 // id(4) + count(4) + start_ts(8) + end_ts(8) + compression(1)
	entryHeaderSize   = 12 // channel_id(4) + timestamp(8)
)

// Field size bounds (I6). maxSArrayLen reflects the SArray framing's 1-byte
// length prefix, which can only address 0..255 regardless of what a bound
// written elsewhere in the format document might say; see DESIGN.md for the
// resolution of that inconsistency for name/source_desc.
const (
	maxSArrayLen = 255
	maxTypeLen   = 10
	maxArrayLen  = 1<<32 - 1
)

// WriterState reflects the LogWriter lifecycle described in spec §4.3.
type WriterState int

const (
	// StateEmpty is the transient state during construction, before the
	// TIDE block placeholder has been written.
	StateEmpty WriterState = iota
	// StateOpen accepts WriteChannel, WriteEntry, StartChunk, Flush.
	StateOpen
	// StateClosed rejects all further writes.
	StateClosed
)

func (s WriterState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("<unrecognized writer state %d>", int(s))
	}
}

// Channel is the handle returned by WriteChannel and is immutable once
// created. Ids are dense and 1-based in declaration order (I1).
type Channel struct {
	ID         uint32
	Name       string
	Type       string
	SourceDesc string
	SourceSpec []byte
	FmtSpec    []byte
	DataSize   uint32
}
