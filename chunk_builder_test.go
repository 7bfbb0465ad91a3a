package tide

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunkBuilder(t *testing.T) {
	c := newChunkBuilder(1, 22)
	assert.Equal(t, uint32(1), c.id)
	assert.Equal(t, uint64(22), c.start())
	assert.Equal(t, uint64(chunkPreambleSize), c.size())
	assert.Equal(t, uint64(math.MaxUint64), c.minTS)
	assert.Equal(t, uint64(0), c.maxTS)
}

func TestChunkBuilderRecord(t *testing.T) {
	c := newChunkBuilder(1, 0)
	c.record(100, 19)
	c.record(50, 19)
	c.record(200, 19)

	assert.Equal(t, uint32(3), c.count)
	assert.Equal(t, uint64(50), c.minTS)
	assert.Equal(t, uint64(200), c.maxTS)
	assert.Equal(t, uint64(chunkPreambleSize+19*3), c.size())
}

func TestChunkBuilderRecordTiesAreNoOps(t *testing.T) {
	c := newChunkBuilder(1, 0)
	c.record(100, 10)
	c.record(100, 10)
	assert.Equal(t, uint64(100), c.minTS)
	assert.Equal(t, uint64(100), c.maxTS)
}

func TestChunkBuilderSnapshot(t *testing.T) {
	c := newChunkBuilder(7, 0)
	c.record(128, 19)
	snap := c.snapshot()
	assert.Len(t, snap, chunkPreambleSize)
	assert.Equal(t, uint32(7), getU32(snap[0:4]))
	assert.Equal(t, uint32(1), getU32(snap[4:8]))
	assert.Equal(t, uint64(128), getU64(snap[8:16]))
	assert.Equal(t, uint64(128), getU64(snap[16:24]))
	assert.Equal(t, uint8(0), snap[24])
}
