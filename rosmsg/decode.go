package rosmsg

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Serialized sizes of the fixed-length parts.
const (
	sizePose           = 7 * 8
	minSizeHeader      = 4 + 8 + 4 // seq, stamp, empty frame id
	minSizePoseStamped = minSizeHeader + sizePose
)

// DecodeError reports a payload that does not deserialize as its type.
type DecodeError struct {
	Type   string
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("rosmsg: decode %s at byte %d: %s", e.Type, e.Offset, e.Reason)
}

// Decode deserializes data as the message type typ. Types other than
// Path and Odometry decode to Other without looking at data.
func Decode(typ string, data []byte) (Message, error) {
	d := decoder{typ: typ, buf: data}
	var msg Message
	switch typ {
	case TypePath:
		msg = d.path()
	case TypeOdometry:
		msg = d.odometry()
	default:
		return Other{Name: typ}, nil
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(d.buf) {
		return nil, &DecodeError{Type: typ, Offset: d.off,
			Reason: fmt.Sprintf("%d trailing bytes", len(d.buf)-d.off)}
	}
	return msg, nil
}

// decoder reads little-endian ROS1 serialization. The first failure
// sticks; later reads return zero values.
type decoder struct {
	typ string
	buf []byte
	off int
	err error
}

func (d *decoder) fail(reason string) {
	if d.err == nil {
		d.err = &DecodeError{Type: d.typ, Offset: d.off, Reason: reason}
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.buf)-d.off < n {
		d.fail(fmt.Sprintf("need %d bytes, have %d", n, len(d.buf)-d.off))
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) uint32() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) float64() float64 {
	b := d.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (d *decoder) string() string {
	n := d.uint32()
	return string(d.take(int(n)))
}

func (d *decoder) time() Time {
	return Time{Sec: d.uint32(), Nsec: d.uint32()}
}

// count reads an array length and checks that the remaining bytes can
// hold that many elements of at least minSize bytes.
func (d *decoder) count(minSize int) int {
	n := d.uint32()
	if d.err != nil {
		return 0
	}
	if uint64(n)*uint64(minSize) > uint64(len(d.buf)-d.off) {
		d.fail(fmt.Sprintf("array of %d elements exceeds payload", n))
		return 0
	}
	return int(n)
}

func (d *decoder) header() Header {
	return Header{Seq: d.uint32(), Stamp: d.time(), FrameID: d.string()}
}

func (d *decoder) point() Point {
	return Point{X: d.float64(), Y: d.float64(), Z: d.float64()}
}

func (d *decoder) vector3() Vector3 {
	return Vector3{X: d.float64(), Y: d.float64(), Z: d.float64()}
}

func (d *decoder) pose() Pose {
	return Pose{
		Position: d.point(),
		Orientation: Quaternion{X: d.float64(), Y: d.float64(),
			Z: d.float64(), W: d.float64()}}
}

func (d *decoder) covariance() Covariance {
	var c Covariance
	for i := range c {
		c[i] = d.float64()
	}
	return c
}

func (d *decoder) path() Path {
	var p Path
	p.Header = d.header()
	n := d.count(minSizePoseStamped)
	if n > 0 {
		p.Poses = make([]PoseStamped, n)
	}
	for i := 0; i < n && d.err == nil; i++ {
		p.Poses[i] = PoseStamped{Header: d.header(), Pose: d.pose()}
	}
	return p
}

func (d *decoder) odometry() Odometry {
	var o Odometry
	o.Header = d.header()
	o.ChildFrameID = d.string()
	o.Pose = PoseWithCovariance{Pose: d.pose(), Covariance: d.covariance()}
	o.Twist = TwistWithCovariance{
		Twist:      Twist{Linear: d.vector3(), Angular: d.vector3()},
		Covariance: d.covariance()}
	return o
}
