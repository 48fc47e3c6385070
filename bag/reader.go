package bag

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lherman-cs/go-rosbag"
)

// Bag is an open bag file. Views over a Bag are independent of each
// other, so the same Bag can be scanned any number of times.
type Bag struct {
	path   string
	r      io.ReaderAt
	size   int64
	closer io.Closer
}

// Open opens the bag at path and checks its magic and header record.
func Open(path string) (*Bag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: err}
	}
	b, err := newBag(path, f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	b.closer = f
	return b, nil
}

// NewReader reads a bag of size bytes from r.
func NewReader(r io.ReaderAt, size int64) (*Bag, error) {
	return newBag("", r, size)
}

func newBag(path string, r io.ReaderAt, size int64) (*Bag, error) {
	magic := make([]byte, len(Magic))
	if _, err := r.ReadAt(magic, 0); err != nil || string(magic) != Magic {
		return nil, &OpenError{Path: path, Err: ErrNotBag}
	}

	b := &Bag{path: path, r: r, size: size}
	dec, _ := b.decoder()
	rec, err := dec.Next()
	if err != nil {
		return nil, &OpenError{Path: path, Err: fmt.Errorf("%w: %v", ErrNotBag, err)}
	}
	if _, ok := rec.(*rosbag.RecordBagHeader); !ok {
		return nil, &OpenError{Path: path,
			Err: fmt.Errorf("%w: first record is %T, not a bag header", ErrNotBag, rec)}
	}
	return b, nil
}

// decoder starts a decoder at the beginning of the bag.
func (b *Bag) decoder() (*rosbag.Decoder, *countingReader) {
	cr := &countingReader{r: io.NewSectionReader(b.r, 0, b.size)}
	return rosbag.NewDecoder(cr), cr
}

func (b *Bag) Path() string { return b.path }

// Close releases the file. Closing twice is a no-op.
func (b *Bag) Close() error {
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}

// View returns an iterator over the messages on the given topics, in
// on-disk order. With no topics it returns every message.
func (b *Bag) View(topics ...string) *View {
	dec, cr := b.decoder()
	v := &View{
		dec:   dec,
		cr:    cr,
		conns: make(map[uint32]Connection)}
	if len(topics) > 0 {
		v.topics = make(map[string]bool, len(topics))
		for _, t := range topics {
			v.topics[t] = true
		}
	}
	return v
}

// Each calls fn for every message on the given topics and stops at the
// first error.
func (b *Bag) Each(fn func(Message) error, topics ...string) error {
	v := b.View(topics...)
	for v.Next() {
		if err := fn(v.Message()); err != nil {
			return err
		}
	}
	return v.Err()
}

// Connections returns the connection records in order of first appearance.
func (b *Bag) Connections() ([]Connection, error) {
	v := b.View()
	for v.Next() {
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	ret := make([]Connection, 0, len(v.order))
	for _, id := range v.order {
		ret = append(ret, v.conns[id])
	}
	return ret, nil
}

// View scans messages like a bufio.Scanner scans lines.
type View struct {
	dec    *rosbag.Decoder
	cr     *countingReader
	topics map[string]bool
	conns  map[uint32]Connection
	order  []uint32
	msg    Message
	err    error
}

func (v *View) Next() bool {
	for v.err == nil {
		rec, err := v.dec.Next()
		if errors.Is(err, io.EOF) {
			return false
		}
		if err != nil {
			v.err = v.readError(err)
			return false
		}
		if v.handle(rec) {
			return true
		}
	}
	return false
}

func (v *View) Message() Message { return v.msg }

// Err returns the first read error; nil at a clean end of file.
func (v *View) Err() error { return v.err }

// handle returns true when rec is a message the view yields.
func (v *View) handle(rec rosbag.Record) bool {
	switch rec := rec.(type) {
	case *rosbag.RecordConnection:
		conn, err := connection(rec)
		if err != nil {
			v.err = v.readError(err)
			return false
		}
		if _, ok := v.conns[conn.ID]; !ok {
			v.order = append(v.order, conn.ID)
		}
		v.conns[conn.ID] = conn
	case *rosbag.RecordMessageData:
		id, err := rec.Conn()
		if err != nil {
			v.err = v.readError(err)
			return false
		}
		conn, ok := v.conns[id]
		if !ok {
			v.err = v.readError(fmt.Errorf("message on unknown connection %d", id))
			return false
		}
		if v.topics != nil && !v.topics[conn.Topic] {
			return false
		}
		t, err := rec.Time()
		if err != nil {
			v.err = v.readError(err)
			return false
		}
		// The decoder may reuse its buffers on the next record.
		data := append([]byte(nil), rec.Data()...)
		v.msg = Message{Conn: id, Topic: conn.Topic, Type: conn.Type,
			MD5: conn.MD5, Time: t.UTC(), Data: data}
		return true
	}
	// Bag header, chunk, index data and chunk info records are not
	// needed for an on-disk order scan.
	return false
}

func (v *View) readError(err error) error {
	return &ReadError{Pos: v.cr.n, Err: err}
}

func connection(rec *rosbag.RecordConnection) (Connection, error) {
	id, err := rec.Conn()
	if err != nil {
		return Connection{}, err
	}
	h, err := rec.ConnectionHeader()
	if err != nil {
		return Connection{}, fmt.Errorf("connection %d: %v", id, err)
	}
	return Connection{
		ID:       id,
		Topic:    h.Topic,
		Type:     h.Type,
		MD5:      h.MD5Sum,
		CallerID: h.CallerID}, nil
}

// countingReader tracks how far a decoder has read.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
