// Package rosmsg has structs and functions for the ROS1 messages that
// carry robot trajectories: nav_msgs/Path and nav_msgs/Odometry.
package rosmsg

import "time"

// Message type names as they appear in bag connection records.
const (
	TypePath     = "nav_msgs/Path"
	TypeOdometry = "nav_msgs/Odometry"
	TypeString   = "std_msgs/String"
)

// MD5 sums of the message definitions.
const (
	MD5Path     = "6227e2b7e9cce15051f669a5e197bbf7"
	MD5Odometry = "cd5e73d190d741a2f92e81eda573aca7"
	MD5String   = "992ce8a1687cec8c8bd883ec73ca41d1"
)

// Full message definitions as written to connection records: the
// message itself followed by every dependency.
const (
	DefinitionPath = `Header header
geometry_msgs/PoseStamped[] poses
` + sep + `MSG: std_msgs/Header
` + defHeader + sep + `MSG: geometry_msgs/PoseStamped
Header header
Pose pose
` + sep + `MSG: geometry_msgs/Pose
` + defPose + sep + `MSG: geometry_msgs/Point
` + defXYZ + sep + `MSG: geometry_msgs/Quaternion
` + defQuaternion

	DefinitionOdometry = `Header header
string child_frame_id
geometry_msgs/PoseWithCovariance pose
geometry_msgs/TwistWithCovariance twist
` + sep + `MSG: std_msgs/Header
` + defHeader + sep + `MSG: geometry_msgs/PoseWithCovariance
Pose pose
float64[36] covariance
` + sep + `MSG: geometry_msgs/Pose
` + defPose + sep + `MSG: geometry_msgs/Point
` + defXYZ + sep + `MSG: geometry_msgs/Quaternion
` + defQuaternion + sep + `MSG: geometry_msgs/TwistWithCovariance
Twist twist
float64[36] covariance
` + sep + `MSG: geometry_msgs/Twist
Vector3 linear
Vector3 angular
` + sep + `MSG: geometry_msgs/Vector3
` + defXYZ

	DefinitionString = "string data\n"
)

const (
	sep = "\n================================================================================\n"

	defHeader = `uint32 seq
time stamp
string frame_id
`
	defPose = `Point position
Quaternion orientation
`
	defXYZ = `float64 x
float64 y
float64 z
`
	defQuaternion = `float64 x
float64 y
float64 z
float64 w
`
)

// Message is one of Path, Odometry or Other.
type Message interface {
	Type() string
	isMessage()
}

// Time is a ROS time: seconds and nanoseconds since the Unix epoch.
type Time struct {
	Sec  uint32
	Nsec uint32
}

func NewTime(t time.Time) Time {
	return Time{Sec: uint32(t.Unix()), Nsec: uint32(t.Nanosecond())}
}

func (t Time) Time() time.Time {
	return time.Unix(int64(t.Sec), int64(t.Nsec)).UTC()
}

type Header struct {
	Seq     uint32
	Stamp   Time
	FrameID string
}

type Point struct {
	X float64
	Y float64
	Z float64
}

type Quaternion struct {
	X float64
	Y float64
	Z float64
	W float64
}

type Pose struct {
	Position    Point
	Orientation Quaternion
}

type PoseStamped struct {
	Header Header
	Pose   Pose
}

// Row-major 6x6 covariance about x, y, z, rotation about x, y, z.
type Covariance [36]float64

type PoseWithCovariance struct {
	Pose       Pose
	Covariance Covariance
}

type Vector3 struct {
	X float64
	Y float64
	Z float64
}

type Twist struct {
	Linear  Vector3
	Angular Vector3
}

type TwistWithCovariance struct {
	Twist      Twist
	Covariance Covariance
}

// Path is an ordered sequence of poses, e.g. a global plan.
type Path struct {
	Header Header
	Poses  []PoseStamped
}

func (Path) Type() string { return TypePath }
func (Path) isMessage() {}

// Odometry is an estimate of a position and velocity in free space.
type Odometry struct {
	Header       Header
	ChildFrameID string
	Pose         PoseWithCovariance
	Twist        TwistWithCovariance
}

func (Odometry) Type() string { return TypeOdometry }
func (Odometry) isMessage() {}

// Other stands for any message type this package does not decode.
type Other struct {
	Name string
}

func (o Other) Type() string { return o.Name }
func (Other) isMessage() {}
