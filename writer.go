package tide

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// WriterOptions configures a LogWriter. The zero value matches spec
// defaults: implicit chunk creation on first entry, no chunk-size limit,
// and a discard logger.
type WriterOptions struct {
	// Logger receives lifecycle events (open, channel declared, chunk
	// opened/closed, close). Nil means discard. Never logged per-entry.
	Logger *slog.Logger

	// ManualChunking, if true, makes WriteEntry fail with
	// InvalidArgumentError when no chunk is currently open, instead of
	// opening one implicitly. Spec §9 notes the choice between implicit
	// and explicit chunk creation is an implementation detail with
	// identical on-disk results either way; the zero value (false)
	// preserves the spec's own default of implicit opening.
	ManualChunking bool

	// MaxChunkEntries, if nonzero, closes the current chunk automatically
	// once its entry count reaches this value; the next WriteEntry opens
	// a fresh one. Zero disables the limit (the spec default: chunks stay
	// open until StartChunk or Close).
	MaxChunkEntries uint32
}

// LogWriter is the top-level TIDE encoder state machine. It owns the sink,
// the channel registry, the optional open chunk, and the file-level
// counters. LogWriter is not safe for concurrent use (spec §5) and must not
// be copied; construct with Open or Wrap and release with Close.
type LogWriter struct {
	sink   ByteSink
	logger *slog.Logger
	opts   WriterOptions

	state WriterState

	channels     map[uint32]*Channel
	channelOrder []uint32
	numChannels  uint32
	numChunks    uint32

	current *chunkBuilder

	// lastErr poisons the writer once any I/O operation has failed; every
	// subsequent call returns it immediately (spec §7).
	lastErr error
}

// Open creates (truncating any existing contents) and wraps path as a TIDE
// log file. File opening/closing glue is normally an external concern
// (spec §1); Open exists as a convenience over Wrap + NewFileSink.
func Open(path string, opts *WriterOptions) (*LogWriter, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, NewIoFailedError("open", err)
	}
	w, err := Wrap(NewFileSink(f), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// Wrap constructs a LogWriter over an already-open ByteSink, writing the
// TIDE block placeholder (num_channels=num_chunks=0) and transitioning to
// the Open state.
func Wrap(sink ByteSink, opts *WriterOptions) (*LogWriter, error) {
	if sink == nil {
		return nil, NewInvalidArgumentError("nil sink")
	}
	if opts == nil {
		opts = &WriterOptions{}
	}
	w := &LogWriter{
		sink:     sink,
		opts:     *opts,
		logger:   defaultLogger(opts.Logger).With("component", "tide"),
		channels: make(map[uint32]*Channel),
		state:    StateEmpty,
	}
	if err := w.writeTideHeader(); err != nil {
		return nil, err
	}
	w.state = StateOpen
	w.logger.Debug("tide log opened")
	return w, nil
}

// WriteChannel declares a new channel and emits its CHAN block. Ids are
// assigned densely starting at 1, in declaration order (I1). Bounds are
// validated before any byte is written for this record (P7): a violation
// leaves the sink position untouched.
func (w *LogWriter) WriteChannel(
	name, typ, sourceDesc string,
	sourceSpec, fmtSpec []byte,
	dataSize uint32,
) (*Channel, error) {
	if w.state == StateClosed {
		return nil, ErrWriterFinalized
	}
	if w.lastErr != nil {
		return nil, w.lastErr
	}

	nameSA, err := encodeSArray("name", []byte(name))
	if err != nil {
		return nil, err
	}
	typeField, err := encodeFixedType(typ)
	if err != nil {
		return nil, err
	}
	sourceDescSA, err := encodeSArray("source_desc", []byte(sourceDesc))
	if err != nil {
		return nil, err
	}
	sourceSpecSA, err := encodeSArray("source_spec", sourceSpec)
	if err != nil {
		return nil, err
	}
	fmtSpecArr, err := encodeArray("fmt_spec", fmtSpec)
	if err != nil {
		return nil, err
	}

	id := w.numChannels + 1
	idBuf := make([]byte, 4)
	putUint32(idBuf, id)
	dataSizeBuf := make([]byte, 4)
	putUint32(dataSizeBuf, dataSize)

	body := make([]byte, 0, len(idBuf)+len(nameSA)+len(typeField)+len(sourceDescSA)+len(sourceSpecSA)+len(fmtSpecArr)+len(dataSizeBuf))
	body = append(body, idBuf...)
	body = append(body, nameSA...)
	body = append(body, typeField...)
	body = append(body, sourceDescSA...)
	body = append(body, sourceSpecSA...)
	body = append(body, fmtSpecArr...)
	body = append(body, dataSizeBuf...)

	if err := w.writeBlock(TagChan, body); err != nil {
		return nil, err
	}
	if err := w.flush(); err != nil {
		return nil, err
	}

	ch := &Channel{
		ID:         id,
		Name:       name,
		Type:       typ,
		SourceDesc: sourceDesc,
		SourceSpec: sourceSpec,
		FmtSpec:    fmtSpec,
		DataSize:   dataSize,
	}
	w.channels[id] = ch
	w.channelOrder = append(w.channelOrder, id)
	w.numChannels++
	w.logger.Debug("channel declared", "id", id, "name", name)
	return ch, nil
}

// WriteEntry appends one timestamped sample on ch. If no chunk is
// currently open, one is started implicitly unless opts.ManualChunking is
// set (spec §9 "Optional chunk creation").
func (w *LogWriter) WriteEntry(ch *Channel, sec, usec uint64, payload []byte) error {
	if w.state == StateClosed {
		return ErrWriterFinalized
	}
	if w.lastErr != nil {
		return w.lastErr
	}
	if ch == nil {
		return NewInvalidArgumentError("nil channel")
	}
	if _, ok := w.channels[ch.ID]; !ok {
		return NewInvalidArgumentError(fmt.Sprintf("unknown channel id %d", ch.ID))
	}

	if w.current == nil {
		if w.opts.ManualChunking {
			return NewInvalidArgumentError("no chunk open and ManualChunking is enabled")
		}
		if err := w.startChunk(); err != nil {
			return err
		}
	}

	payloadArr, err := encodeArray("payload", payload)
	if err != nil {
		return err
	}
	ts := timestampFromSecondsMicros(sec, usec)
	entryHdr := encodeEntryHeader(ch.ID, ts)

	if _, err := w.write(entryHdr); err != nil {
		return err
	}
	if _, err := w.write(payloadArr); err != nil {
		return err
	}

	w.current.record(ts, uint64(entryHeaderSize+len(payloadArr)))

	if w.opts.MaxChunkEntries > 0 && w.current.count >= w.opts.MaxChunkEntries {
		return w.finishChunk()
	}
	return nil
}

// StartChunk finalizes any chunk currently open and begins a new one.
// Calling it explicitly is optional (spec §9); WriteEntry opens a chunk
// lazily when needed unless opts.ManualChunking is set.
func (w *LogWriter) StartChunk() error {
	if w.state == StateClosed {
		return ErrWriterFinalized
	}
	if w.lastErr != nil {
		return w.lastErr
	}
	return w.startChunk()
}

func (w *LogWriter) startChunk() error {
	if w.current != nil {
		if err := w.finishChunk(); err != nil {
			return err
		}
	}
	offset, err := w.tell()
	if err != nil {
		return err
	}
	id := w.numChunks + 1
	header := encodeBlockHeader(TagChnk, 0)
	preamble := encodeChunkPreamble(id, 0, 0, 0, 0)
	if _, err := w.write(append(header, preamble...)); err != nil {
		return err
	}
	w.current = newChunkBuilder(id, offset)
	w.numChunks++
	w.logger.Debug("chunk opened", "id", id, "offset", offset)
	return nil
}

// finishChunk back-patches the currently open chunk's block header and
// preamble with the aggregated count/min_ts/max_ts/size, then restores the
// sink position so writing can continue at the end of the file. This is
// the key reason the writer requires a seekable sink (spec §9
// "Back-patching vs. streaming").
//
// It seeks to the chunk's start offset directly rather than backward by a
// relative delta from the current position: start offset is already
// tracked by chunkBuilder, and an absolute seek sidesteps the header/body
// bookkeeping ambiguity that a relative backward seek would introduce.
func (w *LogWriter) finishChunk() error {
	if w.current == nil {
		return nil
	}
	curPos, err := w.tell()
	if err != nil {
		return err
	}
	if err := w.seekSet(w.current.start()); err != nil {
		return err
	}
	header := encodeBlockHeader(TagChnk, w.current.size())
	preamble := w.current.snapshot()
	if _, err := w.write(append(header, preamble...)); err != nil {
		return err
	}
	if err := w.seekSet(curPos); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.logger.Debug("chunk closed", "id", w.current.id, "count", w.current.count, "bytes", w.current.size())
	w.current = nil
	return nil
}

// Flush makes bytes written so far visible to the OS without finalizing
// the open chunk or rewriting the TIDE header. It may be called repeatedly
// and, unlike Close, does not transition the writer's state; it is not a
// substitute for Close's back-patch.
func (w *LogWriter) Flush() error {
	if w.state == StateClosed {
		return ErrWriterFinalized
	}
	if w.lastErr != nil {
		return w.lastErr
	}
	return w.flush()
}

// Close finalizes the currently open chunk, rewrites the TIDE header with
// the observed channel/chunk counts (I5), flushes, and releases the sink.
// It is idempotent: calling it again after a successful Close is a no-op.
func (w *LogWriter) Close() error {
	if w.state == StateClosed {
		return nil
	}
	if w.lastErr != nil {
		return w.lastErr
	}
	if err := w.finishChunk(); err != nil {
		return err
	}
	if err := w.seekSet(0); err != nil {
		return err
	}
	if err := w.writeTideHeader(); err != nil {
		return err
	}
	if err := w.flush(); err != nil {
		return err
	}
	if err := w.sink.Close(); err != nil {
		w.poison(NewIoFailedError("close", err))
		return w.lastErr
	}
	w.state = StateClosed
	w.logger.Info("tide log closed", "channels", w.numChannels, "chunks", w.numChunks)
	return nil
}

// Channel looks up a previously declared channel by id.
func (w *LogWriter) Channel(id uint32) (*Channel, bool) {
	ch, ok := w.channels[id]
	return ch, ok
}

// Channels returns all declared channels in declaration order.
func (w *LogWriter) Channels() []*Channel {
	out := make([]*Channel, 0, len(w.channelOrder))
	for _, id := range w.channelOrder {
		out = append(out, w.channels[id])
	}
	return out
}

// CurrentChunk reports the id, entry count, and timestamp bounds of the
// currently open chunk without closing it. ok is false if no chunk is
// open.
func (w *LogWriter) CurrentChunk() (id uint32, count uint32, minTS, maxTS uint64, ok bool) {
	if w.current == nil {
		return 0, 0, 0, 0, false
	}
	return w.current.id, w.current.count, w.current.minTS, w.current.maxTS, true
}

// Offset returns the sink's current write position.
func (w *LogWriter) Offset() (uint64, error) {
	return w.tell()
}

func (w *LogWriter) writeTideHeader() error {
	header := encodeBlockHeader(TagTide, tidePreambleSize)
	preamble := encodeTidePreamble(FormatMajor, FormatMinor, w.numChannels, w.numChunks)
	if _, err := w.write(append(header, preamble...)); err != nil {
		return err
	}
	return nil
}

func (w *LogWriter) writeBlock(tag string, body []byte) error {
	header := encodeBlockHeader(tag, uint64(len(body)))
	if _, err := w.write(header); err != nil {
		return err
	}
	if _, err := w.write(body); err != nil {
		return err
	}
	return nil
}

func (w *LogWriter) write(p []byte) (int, error) {
	n, err := w.sink.Write(p)
	if err != nil {
		w.poison(NewIoFailedError("write", err))
		return n, w.lastErr
	}
	if n != len(p) {
		w.poison(NewIoFailedError("write", io.ErrShortWrite))
		return n, w.lastErr
	}
	return n, nil
}

func (w *LogWriter) tell() (uint64, error) {
	pos, err := w.sink.Tell()
	if err != nil {
		w.poison(NewIoFailedError("tell", err))
		return 0, w.lastErr
	}
	return pos, nil
}

func (w *LogWriter) seekSet(offset uint64) error {
	if err := w.sink.SeekSet(offset); err != nil {
		w.poison(NewIoFailedError("seek", err))
		return w.lastErr
	}
	return nil
}

func (w *LogWriter) flush() error {
	if err := w.sink.Flush(); err != nil {
		w.poison(NewIoFailedError("flush", err))
		return w.lastErr
	}
	return nil
}

func (w *LogWriter) poison(err error) {
	if w.lastErr == nil {
		w.lastErr = err
	}
}
