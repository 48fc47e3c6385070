// Package catalog records what a bag2csv run found and wrote in a
// sqlite3 database.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	machineid "github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/a-zadorozhnaia/ROS-test-project/bag"
	"github.com/a-zadorozhnaia/ROS-test-project/trajectory"
)

const runIDTimestampFmt = "20060102T150405Z"

// NewRunID returns a unique run id: UTC timestamp and a uuid.
func NewRunID() string {
	return fmt.Sprintf("%s_%s",
		time.Now().UTC().Format(runIDTimestampFmt),
		uuid.NewString())
}

// MachineID identifies this host without exposing the raw machine id.
func MachineID(tag string) string {
	id, err := machineid.ProtectedID(tag)
	if err != nil {
		return "unknown"
	}
	return id
}

type Topic struct {
	Name     string
	Type     string
	MD5      string
	Messages int
}

type Extraction struct {
	Topic   string
	Output  string
	Records int
	Skipped int
	Rows    int
}

type Run struct {
	ID          string
	Bag         string
	Machine     string
	Created     time.Time
	Types       []string
	Topics      []Topic
	Extractions []Extraction
}

// NewRun collects a run from the bag connections and the report of
// trajectory.Run.
func NewRun(id, machine string, cfg trajectory.Config, conns []bag.Connection, report *trajectory.Report) Run {
	run := Run{
		ID:      id,
		Bag:     cfg.Bag,
		Machine: machine,
		Created: time.Now().UTC(),
		Types:   report.Catalog.SortedTypes()}

	byTopic := make(map[string]bag.Connection)
	for _, c := range conns {
		if _, ok := byTopic[c.Topic]; !ok {
			byTopic[c.Topic] = c
		}
	}
	for _, name := range report.Catalog.SortedTopics() {
		c := byTopic[name]
		run.Topics = append(run.Topics, Topic{Name: name, Type: c.Type, MD5: c.MD5,
			Messages: report.Catalog.Counts[name]})
	}

	for _, e := range []struct {
		x      *trajectory.Extraction
		output string
	}{{report.Plan, cfg.PlanCSV}, {report.Odom, cfg.OdomCSV}} {
		run.Extractions = append(run.Extractions, Extraction{
			Topic:   e.x.Topic,
			Output:  e.output,
			Records: e.x.Records,
			Skipped: e.x.Skipped,
			Rows:    len(e.x.Points)})
	}
	return run
}

func Schema() []string {
	return []string{
		`CREATE TABLE run(
  id TEXT PRIMARY KEY,
  bag TEXT NOT NULL,
  machine TEXT NOT NULL,
  created TEXT NOT NULL);`,
		`CREATE TABLE datatype(
  run TEXT NOT NULL REFERENCES run(id),
  name TEXT NOT NULL,
  PRIMARY KEY(run, name));`,
		`CREATE TABLE topic(
  run TEXT NOT NULL REFERENCES run(id),
  name TEXT NOT NULL,
  datatype TEXT NOT NULL,
  md5sum TEXT NOT NULL,
  messages INTEGER NOT NULL,
  PRIMARY KEY(run, name),
  FOREIGN KEY(run, datatype) REFERENCES datatype(run, name));`,
		`CREATE TABLE extraction(
  run TEXT NOT NULL REFERENCES run(id),
  topic TEXT NOT NULL,
  output TEXT NOT NULL,
  records INTEGER NOT NULL,
  skipped INTEGER NOT NULL,
  row_count INTEGER NOT NULL,
  PRIMARY KEY(run, topic));`,
	}
}

func open(path string) (*sql.DB, error) {
	// Caution: PRAGMA foreign_keys = ON is not sticky.
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=yes", path))
}

// Write builds the database in a working file next to dbPath and then
// renames it onto dbPath.
func Write(dbPath string, run Run) error {
	tmpfile, err := os.CreateTemp(filepath.Dir(dbPath), "catalog.*.db")
	if err != nil {
		return err
	}
	working := tmpfile.Name()
	if err := tmpfile.Close(); err != nil {
		return err
	}
	if err := build(working, run); err != nil {
		os.Remove(working)
		return err
	}
	// This is atomic
	return os.Rename(working, dbPath)
}

func build(path string, run Run) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, v := range Schema() {
		if _, err := db.Exec(v); err != nil {
			return fmt.Errorf("%v: %s", err, v)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO run(id, bag, machine, created) VALUES(?, ?, ?, ?);",
		run.ID, run.Bag, run.Machine, run.Created.Format(time.RFC3339)); err != nil {
		return err
	}
	for _, t := range run.Types {
		if _, err := tx.Exec("INSERT INTO datatype(run, name) VALUES(?, ?);", run.ID, t); err != nil {
			return fmt.Errorf("datatype %s: %w", t, err)
		}
	}
	for _, t := range run.Topics {
		if _, err := tx.Exec("INSERT INTO topic(run, name, datatype, md5sum, messages) VALUES(?, ?, ?, ?, ?);",
			run.ID, t.Name, t.Type, t.MD5, t.Messages); err != nil {
			return fmt.Errorf("topic %s: %w", t.Name, err)
		}
	}
	for _, e := range run.Extractions {
		if _, err := tx.Exec("INSERT INTO extraction(run, topic, output, records, skipped, row_count) VALUES(?, ?, ?, ?, ?, ?);",
			run.ID, e.Topic, e.Output, e.Records, e.Skipped, e.Rows); err != nil {
			return fmt.Errorf("extraction %s: %w", e.Topic, err)
		}
	}
	return tx.Commit()
}

// Read loads the run with the given id.
// IDs lists the runs recorded in dbPath, oldest first.
func IDs(dbPath string) ([]string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT id FROM run ORDER BY created, id;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func Read(dbPath, id string) (*Run, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	run := Run{ID: id}
	var created string
	err = db.QueryRow("SELECT bag, machine, created FROM run WHERE id = ?;", id).
		Scan(&run.Bag, &run.Machine, &created)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	if run.Created, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT name FROM datatype WHERE run = ? ORDER BY name;", id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		run.Types = append(run.Types, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query("SELECT name, datatype, md5sum, messages FROM topic WHERE run = ? ORDER BY name;", id)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.Name, &t.Type, &t.MD5, &t.Messages); err != nil {
			rows.Close()
			return nil, err
		}
		run.Topics = append(run.Topics, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = db.Query("SELECT topic, output, records, skipped, row_count FROM extraction WHERE run = ? ORDER BY rowid;", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var e Extraction
		if err := rows.Scan(&e.Topic, &e.Output, &e.Records, &e.Skipped, &e.Rows); err != nil {
			return nil, err
		}
		run.Extractions = append(run.Extractions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}
