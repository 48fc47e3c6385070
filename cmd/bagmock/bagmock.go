// Write a synthetic bag with a global plan and filtered odometry.
package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"time"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/trajectory"
)

func main() {
	m := trajectory.DefaultMock()
	out := flag.String("out", "test.bag", "output bag")
	n := flag.Int("n", 600, "number of odometry messages")
	curvature := flag.Float64("curvature", m.Curvature, "const radius of curvature, 1/m")
	speed := flag.Float64("speed", m.Speed, "const speed in m/s")
	period := flag.Int("period", int(m.Period/time.Millisecond), "odometry period, ms")
	planEvery := flag.Int("plan_every", m.PlanEvery, "odometry messages per global plan")
	poses := flag.Int("poses", m.Poses, "poses per global plan")
	flag.Parse()

	m.Curvature = *curvature
	m.Speed = *speed
	m.Period = time.Duration(*period) * time.Millisecond
	m.PlanEvery = *planEvery
	m.Poses = *poses

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)

	w := bag.NewWriter(bw)
	if err := m.WriteBag(w, time.Now(), *n); err != nil {
		log.Fatal(err)
	}
	if err := w.Close(); err != nil {
		log.Fatal(err)
	}
	if err := bw.Flush(); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d odometry messages to %s", *n, *out)
}
