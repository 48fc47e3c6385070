package rosmsg

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes a Path or Odometry. Other cannot be encoded.
func Encode(msg Message) ([]byte, error) {
	var e encoder
	switch m := msg.(type) {
	case Path:
		e.path(m)
	case *Path:
		e.path(*m)
	case Odometry:
		e.odometry(m)
	case *Odometry:
		e.odometry(*m)
	default:
		return nil, fmt.Errorf("rosmsg: cannot encode %T", msg)
	}
	return e.buf, nil
}

// EncodeString serializes a std_msgs/String.
func EncodeString(s string) []byte {
	var e encoder
	e.string(s)
	return e.buf
}

type encoder struct {
	buf []byte
}

func (e *encoder) uint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *encoder) float64(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *encoder) string(s string) {
	e.uint32(uint32(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) header(h Header) {
	e.uint32(h.Seq)
	e.uint32(h.Stamp.Sec)
	e.uint32(h.Stamp.Nsec)
	e.string(h.FrameID)
}

func (e *encoder) pose(p Pose) {
	for _, v := range []float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.X, p.Orientation.Y, p.Orientation.Z, p.Orientation.W} {
		e.float64(v)
	}
}

func (e *encoder) vector3(v Vector3) {
	e.float64(v.X)
	e.float64(v.Y)
	e.float64(v.Z)
}

func (e *encoder) covariance(c Covariance) {
	for _, v := range c {
		e.float64(v)
	}
}

func (e *encoder) path(p Path) {
	e.header(p.Header)
	e.uint32(uint32(len(p.Poses)))
	for _, ps := range p.Poses {
		e.header(ps.Header)
		e.pose(ps.Pose)
	}
}

func (e *encoder) odometry(o Odometry) {
	e.header(o.Header)
	e.string(o.ChildFrameID)
	e.pose(o.Pose.Pose)
	e.covariance(o.Pose.Covariance)
	e.vector3(o.Twist.Twist.Linear)
	e.vector3(o.Twist.Twist.Angular)
	e.covariance(o.Twist.Covariance)
}
