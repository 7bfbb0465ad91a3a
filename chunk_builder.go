package tide

import "math"

// chunkBuilder is the in-memory aggregator for the currently open chunk: it
// tracks id, the file offset of its block header, entry count, min/max
// timestamps, and running byte size. It mirrors the teacher's ChunkWriter
// (chunk_writer.go), which tracks the same start/end time pair seeded from
// math.MaxUint64, but aggregates plain entry bytes rather than a compressed
// buffer since TIDE chunks are never compressed (spec §1 Non-goals).
type chunkBuilder struct {
	id          uint32
	startOffset uint64
	count       uint32
	minTS       uint64
	maxTS       uint64
	byteSize    uint64
}

func newChunkBuilder(id uint32, startOffset uint64) *chunkBuilder {
	return &chunkBuilder{
		id:          id,
		startOffset: startOffset,
		count:       0,
		minTS:       math.MaxUint64,
		maxTS:       0,
		byteSize:    chunkPreambleSize,
	}
}

// record updates the aggregate for one entry of entryTotalBytes total wire
// size at timestamp ts. Ties at the current min/max are naturally no-ops
// under min/max comparison (I3).
func (c *chunkBuilder) record(ts uint64, entryTotalBytes uint64) {
	if ts < c.minTS {
		c.minTS = ts
	}
	if ts > c.maxTS {
		c.maxTS = ts
	}
	c.count++
	c.byteSize += entryTotalBytes
}

// snapshot emits the 25-byte CHNK preamble for the aggregate's current
// state, with compression always zero (spec §1 Non-goals).
func (c *chunkBuilder) snapshot() []byte {
	return encodeChunkPreamble(c.id, c.count, c.minTS, c.maxTS, 0)
}

func (c *chunkBuilder) size() uint64  { return c.byteSize }
func (c *chunkBuilder) start() uint64 { return c.startOffset }
