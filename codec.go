package tide

import "encoding/binary"

// This file is the RecordCodec: pure, stateless little-endian serialization
// of the packed records described in spec §3/§4.1. Nothing here performs
// I/O; every function takes and returns byte slices.

func putUint32(buf []byte, v uint32) int {
	binary.LittleEndian.PutUint32(buf, v)
	return 4
}

func putUint64(buf []byte, v uint64) int {
	binary.LittleEndian.PutUint64(buf, v)
	return 8
}

// encodeBlockHeader serializes a 12-byte block header: a 4-byte ASCII tag
// followed by an 8-byte little-endian block size.
func encodeBlockHeader(tag string, size uint64) []byte {
	buf := make([]byte, blockHeaderSize)
	copy(buf[0:4], tag)
	putUint64(buf[4:], size)
	return buf
}

// encodeTidePreamble serializes the 10-byte TIDE preamble.
func encodeTidePreamble(major, minor uint8, numChannels, numChunks uint32) []byte {
	buf := make([]byte, tidePreambleSize)
	buf[0] = major
	buf[1] = minor
	offset := 2
	offset += putUint32(buf[offset:], numChannels)
	putUint32(buf[offset:], numChunks)
	return buf
}

// encodeChunkPreamble serializes the 25-byte CHNK preamble.
func encodeChunkPreamble(id, count uint32, startTS, endTS uint64, compression uint8) []byte {
	buf := make([]byte, chunkPreambleSize)
	offset := putUint32(buf, id)
	offset += putUint32(buf[offset:], count)
	offset += putUint64(buf[offset:], startTS)
	offset += putUint64(buf[offset:], endTS)
	buf[offset] = compression
	return buf
}

// encodeEntryHeader serializes the 12-byte ENTRY header.
func encodeEntryHeader(channelID uint32, ts uint64) []byte {
	buf := make([]byte, entryHeaderSize)
	offset := putUint32(buf, channelID)
	putUint64(buf[offset:], ts)
	return buf
}

// encodeSArray frames b with a 1-byte length prefix. Fails with
// FieldTooLargeError if b exceeds 255 bytes.
func encodeSArray(field string, b []byte) ([]byte, error) {
	if len(b) > maxSArrayLen {
		return nil, NewFieldTooLargeError(field, len(b), maxSArrayLen)
	}
	buf := make([]byte, 1+len(b))
	buf[0] = byte(len(b))
	copy(buf[1:], b)
	return buf, nil
}

// encodeArray frames b with a 4-byte length prefix. Fails with
// FieldTooLargeError if b exceeds 2^32-1 bytes.
func encodeArray(field string, b []byte) ([]byte, error) {
	if len(b) > maxArrayLen {
		return nil, NewFieldTooLargeError(field, len(b), maxArrayLen)
	}
	buf := make([]byte, 4+len(b))
	putUint32(buf, uint32(len(b)))
	copy(buf[4:], b)
	return buf, nil
}

// encodeFixedType encodes a zero-padded 10-byte type field. Fails with
// FieldTooLargeError if typ exceeds 10 bytes (spec §9 open question 5: this
// is a fixed field, not an SArray).
func encodeFixedType(typ string) ([]byte, error) {
	if len(typ) > maxTypeLen {
		return nil, NewFieldTooLargeError("type", len(typ), maxTypeLen)
	}
	buf := make([]byte, maxTypeLen)
	copy(buf, typ)
	return buf, nil
}

// timestampFromSecondsMicros converts a (seconds, microseconds) pair into a
// single microseconds-since-epoch timestamp. Uses the integer constant
// 1_000_000, not the source's `10e6` float bug (spec §9 open question 1):
// that literal is floating-point 1e7, ten times too large for any sec > 0.
func timestampFromSecondsMicros(sec, usec uint64) uint64 {
	return sec*1_000_000 + usec
}
