package catalog

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/trajectory"
)

func TestNewRunID(t *testing.T) {
	re := regexp.MustCompile(`^\d{8}T\d{6}Z_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	a, b := NewRunID(), NewRunID()
	if !re.MatchString(a) {
		t.Fatalf("malformed run id %s", a)
	}
	if a == b {
		t.Fatalf("run ids repeat: %s", a)
	}
}

func TestMachineID(t *testing.T) {
	if MachineID("bag2csv") == "" {
		t.Fatal("empty machine id")
	}
}

func testRun() Run {
	return Run{
		ID:      "20240501T120000Z_6f1f3bb6-0a5b-4c51-9d59-5b1b7d1f0c3e",
		Bag:     "../test.bag",
		Machine: "unknown",
		Created: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Types:   []string{"nav_msgs/Odometry", "nav_msgs/Path"},
		Topics: []Topic{
			{Name: "/move_base/LinearPlanner/global_plan", Type: "nav_msgs/Path",
				MD5: "6227e2b7e9cce15051f669a5e197bbf7", Messages: 2},
			{Name: "/odometry/filtered_odom", Type: "nav_msgs/Odometry",
				MD5: "cd5e73d190d741a2f92e81eda573aca7", Messages: 4},
		},
		Extractions: []Extraction{
			{Topic: "/move_base/LinearPlanner/global_plan", Output: "../plan_path.csv",
				Records: 2, Rows: 5},
			{Topic: "/odometry/filtered_odom", Output: "../path.csv",
				Records: 4, Skipped: 1, Rows: 3},
		},
	}
}

func TestWriteRead(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	want := testRun()
	if err := Write(dbPath, want); err != nil {
		t.Fatal(err)
	}
	got, err := Read(dbPath, want.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	ids, err := IDs(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{want.ID}, ids); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}

	// A second write replaces the database.
	second := testRun()
	second.ID = NewRunID()
	if err := Write(dbPath, second); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(dbPath, want.ID); err == nil {
		t.Fatal("first run survived rewrite")
	}
	if _, err := Read(dbPath, second.ID); err != nil {
		t.Fatal(err)
	}
}

func TestForeignKeys(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "catalog.db")
	run := testRun()
	run.Topics[0].Type = "std_msgs/String"
	if err := Write(dbPath, run); err == nil {
		t.Fatal("topic with undeclared type accepted")
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 0 {
		t.Fatalf("failed write left %v", matches)
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "none.db"), "x"); err == nil {
		t.Fatal("read of missing database succeeded")
	}
	if _, err := IDs(filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Fatal("listing of missing database succeeded")
	}
}

func TestNewRun(t *testing.T) {
	m := trajectory.DefaultMock()
	var buf bytes.Buffer
	w := bag.NewWriter(&buf)
	if err := m.WriteBag(w, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), 30); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := bag.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatal(err)
	}
	conns, err := b.Connections()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	cfg := trajectory.DefaultConfig()
	cfg.PlanCSV = filepath.Join(dir, "plan_path.csv")
	cfg.OdomCSV = filepath.Join(dir, "path.csv")
	var console bytes.Buffer
	report, err := trajectory.Run(cfg, b, &console, nil)
	if err != nil {
		t.Fatal(err)
	}

	run := NewRun(NewRunID(), "unknown", cfg, conns, report)
	wantTopics := []Topic{
		{Name: m.PlanTopic, Type: "nav_msgs/Path", MD5: "6227e2b7e9cce15051f669a5e197bbf7", Messages: 2},
		{Name: m.OdomTopic, Type: "nav_msgs/Odometry", MD5: "cd5e73d190d741a2f92e81eda573aca7", Messages: 30},
		{Name: m.OtherTopic, Type: "std_msgs/String", MD5: "992ce8a1687cec8c8bd883ec73ca41d1", Messages: 2},
	}
	if diff := cmp.Diff(wantTopics, run.Topics); diff != "" {
		t.Fatalf("topics (-want +got):\n%s", diff)
	}
	wantExtractions := []Extraction{
		{Topic: m.PlanTopic, Output: cfg.PlanCSV, Records: 2, Rows: 20},
		{Topic: m.OdomTopic, Output: cfg.OdomCSV, Records: 30, Rows: 30},
	}
	if diff := cmp.Diff(wantExtractions, run.Extractions); diff != "" {
		t.Fatalf("extractions (-want +got):\n%s", diff)
	}

	dbPath := filepath.Join(dir, "catalog.db")
	if err := Write(dbPath, run); err != nil {
		t.Fatal(err)
	}
}
