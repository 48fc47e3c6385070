// Package bag reads and writes ROS bag files, format version 2.0.
//
// Reading goes through the go-rosbag decoder. Writing is done here: a
// bag is the magic line followed by records, each
//
//	<header_len uint32><header><data_len uint32><data>
//
// where the header is a sequence of <field_len uint32><name>=<value>
// fields. Integers are little endian. Messages live inside chunk
// records together with the connection records that describe them.
package bag

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const Magic = "#ROSBAG V2.0\n"

// Record op codes.
const (
	opMessageData = 0x02
	opBagHeader   = 0x03
	opIndexData   = 0x04
	opChunk       = 0x05
	opChunkInfo   = 0x06
	opConnection  = 0x07
)

// The bag header record is padded to this many bytes so that it can be
// rewritten in place.
const bagHeaderLen = 4096

const compressionNone = "none"

var ErrNotBag = errors.New("not a ROS bag v2.0 file")

// OpenError reports a bag that could not be opened.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("bag: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ReadError reports a malformed or unsupported record. Pos is the
// number of bytes consumed from the bag when the error surfaced.
type ReadError struct {
	Pos int64
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("bag: read at %d: %v", e.Pos, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Connection describes the messages of one topic. Definition is
// written to new bags; the reader leaves it empty.
type Connection struct {
	ID         uint32
	Topic      string
	Type       string
	MD5        string
	Definition string
	CallerID   string
}

// Message is one message record with its connection resolved.
type Message struct {
	Conn  uint32
	Topic string
	Type  string
	MD5   string
	Time  time.Time
	Data  []byte
}

// Header fields are written in the given order.
type field struct {
	name  string
	value []byte
}

func appendHeader(buf []byte, fields ...field) []byte {
	for _, f := range fields {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(f.name)+1+len(f.value)))
		buf = append(buf, f.name...)
		buf = append(buf, '=')
		buf = append(buf, f.value...)
	}
	return buf
}

func appendRecord(buf []byte, hdr, data []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(hdr)))
	buf = append(buf, hdr...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func u32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func u64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func rosTime(t time.Time) []byte {
	b := binary.LittleEndian.AppendUint32(nil, uint32(t.Unix()))
	return binary.LittleEndian.AppendUint32(b, uint32(t.Nanosecond()))
}
