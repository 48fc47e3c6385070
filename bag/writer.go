package bag

import (
	"errors"
	"fmt"
	"io"
	"time"
)

type indexEntry struct {
	time   time.Time
	offset uint32
}

// Writer writes an uncompressed bag with a single chunk. Records are
// buffered until Close.
type Writer struct {
	w       io.Writer
	conns   []Connection
	byTopic map[string]uint32
	chunk   []byte
	index   map[uint32][]indexEntry
	count   int
	first   time.Time
	last    time.Time
	closed  bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w,
		byTopic: make(map[string]uint32),
		index:   make(map[uint32][]indexEntry)}
}

// Write appends one message. The first message on a topic defines the
// connection; c.ID is assigned by the writer. Later messages on the topic
// must carry the same type and md5sum.
func (w *Writer) Write(c Connection, t time.Time, data []byte) error {
	if w.closed {
		return errors.New("bag: write after close")
	}
	id, ok := w.byTopic[c.Topic]
	if ok {
		if prev := w.conns[id]; prev.Type != c.Type || prev.MD5 != c.MD5 {
			return fmt.Errorf("bag: topic %s is %s (%s), got %s (%s)",
				c.Topic, prev.Type, prev.MD5, c.Type, c.MD5)
		}
	} else {
		id = uint32(len(w.conns))
		c.ID = id
		w.byTopic[c.Topic] = id
		w.conns = append(w.conns, c)
		w.chunk = appendConnection(w.chunk, c)
	}
	if w.count == 0 || t.Before(w.first) {
		w.first = t
	}
	if w.count == 0 || t.After(w.last) {
		w.last = t
	}
	w.count++
	w.index[id] = append(w.index[id], indexEntry{time: t, offset: uint32(len(w.chunk))})
	hdr := appendHeader(nil,
		field{"op", []byte{opMessageData}},
		field{"conn", u32(id)},
		field{"time", rosTime(t)})
	w.chunk = appendRecord(w.chunk, hdr, data)
	return nil
}

// Close writes the bag. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var chunkCount uint32
	var body []byte
	if w.count > 0 {
		chunkCount = 1
		hdr := appendHeader(nil,
			field{"op", []byte{opChunk}},
			field{"compression", []byte(compressionNone)},
			field{"size", u32(uint32(len(w.chunk)))})
		body = appendRecord(body, hdr, w.chunk)
		for _, c := range w.conns {
			entries := w.index[c.ID]
			var data []byte
			for _, e := range entries {
				data = append(data, rosTime(e.time)...)
				data = append(data, u32(e.offset)...)
			}
			hdr := appendHeader(nil,
				field{"op", []byte{opIndexData}},
				field{"ver", u32(1)},
				field{"conn", u32(c.ID)},
				field{"count", u32(uint32(len(entries)))})
			body = appendRecord(body, hdr, data)
		}
	}

	chunkPos := uint64(len(Magic) + bagHeaderLen)
	indexPos := chunkPos + uint64(len(body))
	for _, c := range w.conns {
		body = appendConnection(body, c)
	}
	if chunkCount > 0 {
		var data []byte
		for _, c := range w.conns {
			data = append(data, u32(c.ID)...)
			data = append(data, u32(uint32(len(w.index[c.ID])))...)
		}
		hdr := appendHeader(nil,
			field{"op", []byte{opChunkInfo}},
			field{"ver", u32(1)},
			field{"chunk_pos", u64(chunkPos)},
			field{"start_time", rosTime(w.first)},
			field{"end_time", rosTime(w.last)},
			field{"count", u32(uint32(len(w.conns)))})
		body = appendRecord(body, hdr, data)
	}

	out := append([]byte(Magic), bagHeader(indexPos, uint32(len(w.conns)), chunkCount)...)
	out = append(out, body...)
	_, err := w.w.Write(out)
	return err
}

func bagHeader(indexPos uint64, connCount, chunkCount uint32) []byte {
	hdr := appendHeader(nil,
		field{"op", []byte{opBagHeader}},
		field{"index_pos", u64(indexPos)},
		field{"conn_count", u32(connCount)},
		field{"chunk_count", u32(chunkCount)})
	pad := make([]byte, bagHeaderLen-4-len(hdr)-4)
	for i := range pad {
		pad[i] = ' '
	}
	return appendRecord(nil, hdr, pad)
}

func appendConnection(buf []byte, c Connection) []byte {
	hdr := appendHeader(nil,
		field{"op", []byte{opConnection}},
		field{"conn", u32(c.ID)},
		field{"topic", []byte(c.Topic)})
	fields := []field{
		{"topic", []byte(c.Topic)},
		{"type", []byte(c.Type)},
		{"md5sum", []byte(c.MD5)},
		{"message_definition", []byte(c.Definition)}}
	if c.CallerID != "" {
		fields = append(fields, field{"callerid", []byte(c.CallerID)})
	}
	return appendRecord(buf, hdr, appendHeader(nil, fields...))
}
