package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rednote-trends/internal/model"
)

// Artifact base names. Each write produces a timestamped file plus a
// "-latest" copy; the static front end reads only the latest files.
const (
	PostsName  = "posts"
	ReportName = "trend_report"
	NotesName  = "generated_notes"
)

// Store persists the three pipeline artifacts as JSON documents under a
// single output directory.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// WritePosts persists the raw-posts artifact.
func (s *Store) WritePosts(b model.Batch) (string, error) {
	return s.write(PostsName, b.FetchedAt, b)
}

// WriteReport persists the trend-report artifact.
func (s *Store) WriteReport(r model.TrendReport) (string, error) {
	return s.write(ReportName, r.GeneratedAt, r)
}

// WriteNotes persists the generated-notes artifact.
func (s *Store) WriteNotes(n model.NoteSet) (string, error) {
	return s.write(NotesName, n.GeneratedAt, n)
}

// ReadLatestPosts loads the latest raw-posts artifact.
func (s *Store) ReadLatestPosts() (model.Batch, error) {
	var b model.Batch
	err := s.readLatest(PostsName, &b)
	return b, err
}

// ReadLatestReport loads the latest trend-report artifact.
func (s *Store) ReadLatestReport() (model.TrendReport, error) {
	var r model.TrendReport
	err := s.readLatest(ReportName, &r)
	return r, err
}

func (s *Store) write(name string, at time.Time, v any) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	if at.IsZero() {
		at = time.Now()
	}
	stamped := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.json", name, at.UTC().Format("20060102_150405")))
	if err := os.WriteFile(stamped, b, 0o644); err != nil {
		return "", err
	}
	latest := filepath.Join(s.Dir, name+"-latest.json")
	if err := os.WriteFile(latest, b, 0o644); err != nil {
		return "", err
	}
	return stamped, nil
}

func (s *Store) readLatest(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.Dir, name+"-latest.json"))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
