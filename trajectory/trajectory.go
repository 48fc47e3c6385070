// Package trajectory extracts planned and driven paths from bag logs.
package trajectory

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/rosmsg"
)

// Point is a position in the plane of the fixed frame, m.
type Point struct {
	X float64
	Y float64
}

// Log is a message log that can be scanned repeatedly, optionally
// restricted to some topics. *bag.Bag is a Log.
type Log interface {
	Each(fn func(bag.Message) error, topics ...string) error
}

// Catalog holds the distinct topics and message types of a log.
type Catalog struct {
	Topics map[string]struct{}
	Types  map[string]struct{}
	// Messages per topic.
	Counts map[string]int
}

// Discover scans the whole log once.
func Discover(l Log) (*Catalog, error) {
	c := &Catalog{
		Topics: make(map[string]struct{}),
		Types:  make(map[string]struct{}),
		Counts: make(map[string]int)}
	err := l.Each(func(m bag.Message) error {
		c.Topics[m.Topic] = struct{}{}
		c.Types[m.Type] = struct{}{}
		c.Counts[m.Topic]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) SortedTopics() []string {
	return sorted(c.Topics)
}

func (c *Catalog) SortedTypes() []string {
	return sorted(c.Types)
}

func sorted(set map[string]struct{}) []string {
	keys := maps.Keys(set)
	slices.Sort(keys)
	return keys
}

// Extraction is the result of scanning one topic.
type Extraction struct {
	Topic  string
	Points []Point
	// Records seen on the topic.
	Records int
	// Records with another md5sum or that did not decode.
	Skipped int
}

// ExtractPlan returns one point per pose of every nav_msgs/Path on topic,
// in pose order within a message and in log order across messages.
func ExtractPlan(l Log, topic string) (*Extraction, error) {
	return extract(l, topic, planPoints)
}

// ExtractOdometry returns one point per nav_msgs/Odometry on topic.
func ExtractOdometry(l Log, topic string) (*Extraction, error) {
	return extract(l, topic, odometryPoints)
}

// pointsFunc returns false when the message is not of the expected kind.
type pointsFunc func(m bag.Message, points []Point) ([]Point, bool)

func extract(l Log, topic string, fn pointsFunc) (*Extraction, error) {
	e := &Extraction{Topic: topic}
	err := l.Each(func(m bag.Message) error {
		e.Records++
		var ok bool
		if e.Points, ok = fn(m, e.Points); !ok {
			e.Skipped++
		}
		return nil
	}, topic)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// matches reports whether m was recorded with the given md5sum. A
// connection with md5sum "*" matches any message.
func matches(m bag.Message, md5 string) bool {
	return m.MD5 == md5 || m.MD5 == "*"
}

func planPoints(m bag.Message, points []Point) ([]Point, bool) {
	if !matches(m, rosmsg.MD5Path) {
		return points, false
	}
	msg, err := rosmsg.Decode(rosmsg.TypePath, m.Data)
	if err != nil {
		return points, false
	}
	path, ok := msg.(rosmsg.Path)
	if !ok {
		return points, false
	}
	for _, p := range path.Poses {
		points = append(points, Point{X: p.Pose.Position.X, Y: p.Pose.Position.Y})
	}
	return points, true
}

func odometryPoints(m bag.Message, points []Point) ([]Point, bool) {
	if !matches(m, rosmsg.MD5Odometry) {
		return points, false
	}
	msg, err := rosmsg.Decode(rosmsg.TypeOdometry, m.Data)
	if err != nil {
		return points, false
	}
	odom, ok := msg.(rosmsg.Odometry)
	if !ok {
		return points, false
	}
	pos := odom.Pose.Pose.Position
	return append(points, Point{X: pos.X, Y: pos.Y}), true
}
