package trajectory

import (
	"math"
	"time"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/rosmsg"
)

// Mock drives a vehicle around a circle of constant curvature and
// records what a navigation stack would publish: filtered odometry every
// Period and a global plan for the next Poses steps every PlanEvery
// odometry messages. Diagnostics go to an unrelated topic.
type Mock struct {
	Curvature float64 // 1/m; positive is a counterclockwise turn
	Speed     float64 // m/s
	Period    time.Duration
	PlanEvery int
	Poses     int

	PlanTopic  string
	OdomTopic  string
	OtherTopic string
}

func DefaultMock() Mock {
	cfg := DefaultConfig()
	return Mock{
		Curvature:  1.0 / 5.0,
		Speed:      1,
		Period:     50 * time.Millisecond,
		PlanEvery:  20,
		Poses:      10,
		PlanTopic:  cfg.PlanTopic,
		OdomTopic:  cfg.OdomTopic,
		OtherTopic: "/rosout_agg",
	}
}

var (
	connPath = bag.Connection{Type: rosmsg.TypePath, MD5: rosmsg.MD5Path,
		Definition: rosmsg.DefinitionPath, CallerID: "/move_base"}
	connOdometry = bag.Connection{Type: rosmsg.TypeOdometry, MD5: rosmsg.MD5Odometry,
		Definition: rosmsg.DefinitionOdometry, CallerID: "/ekf_localization"}
	connString = bag.Connection{Type: rosmsg.TypeString, MD5: rosmsg.MD5String,
		Definition: rosmsg.DefinitionString, CallerID: "/mock"}
)

// pose at step k. The circle starts at the origin heading along +x.
func (m Mock) pose(k int) rosmsg.Pose {
	s := m.Speed * m.Period.Seconds() * float64(k)
	theta := s * m.Curvature
	var x, y float64
	if m.Curvature == 0 {
		x = s
	} else {
		r := 1 / m.Curvature
		x = r * math.Sin(theta)
		y = r * (1 - math.Cos(theta))
	}
	return rosmsg.Pose{
		Position:    rosmsg.Point{X: x, Y: y},
		Orientation: rosmsg.Quaternion{Z: math.Sin(theta / 2), W: math.Cos(theta / 2)}}
}

// WriteBag writes n odometry messages starting at start.
func (m Mock) WriteBag(w *bag.Writer, start time.Time, n int) error {
	odomConn := connOdometry
	odomConn.Topic = m.OdomTopic
	planConn := connPath
	planConn.Topic = m.PlanTopic
	otherConn := connString
	otherConn.Topic = m.OtherTopic

	var plans uint32
	for k := 0; k < n; k++ {
		t := start.Add(time.Duration(k) * m.Period)
		stamp := rosmsg.NewTime(t)

		if m.PlanEvery > 0 && k%m.PlanEvery == 0 {
			path := rosmsg.Path{Header: rosmsg.Header{Seq: plans, Stamp: stamp, FrameID: "map"}}
			for j := 0; j < m.Poses; j++ {
				path.Poses = append(path.Poses, rosmsg.PoseStamped{
					Header: rosmsg.Header{Seq: uint32(j), Stamp: stamp, FrameID: "map"},
					Pose:   m.pose(k + j)})
			}
			data, err := rosmsg.Encode(path)
			if err != nil {
				return err
			}
			if err := w.Write(planConn, t, data); err != nil {
				return err
			}
			if err := w.Write(otherConn, t, rosmsg.EncodeString("new global plan")); err != nil {
				return err
			}
			plans++
		}

		odom := rosmsg.Odometry{
			Header:       rosmsg.Header{Seq: uint32(k), Stamp: stamp, FrameID: "odom"},
			ChildFrameID: "base_link",
			Pose:         rosmsg.PoseWithCovariance{Pose: m.pose(k)},
			Twist: rosmsg.TwistWithCovariance{Twist: rosmsg.Twist{
				Linear:  rosmsg.Vector3{X: m.Speed},
				Angular: rosmsg.Vector3{Z: m.Speed * m.Curvature}}}}
		data, err := rosmsg.Encode(odom)
		if err != nil {
			return err
		}
		if err := w.Write(odomConn, t, data); err != nil {
			return err
		}
	}
	return nil
}
