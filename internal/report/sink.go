// Package report writes run results as JSON lines. Reporting is best effort:
// a failing sink is logged and never fails a scenario.
package report

import (
	"bufio"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoE2E-PageFlow/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Event kinds.
const (
	KindRunStarted  = "run_started"
	KindScenario    = "scenario"
	KindRunFinished = "run_finished"
)

// StepEntry is the serialized form of a step result.
type StepEntry struct {
	Keyword    string            `json:"keyword"`
	Text       string            `json:"text"`
	Line       int               `json:"line,omitempty"`
	Status     domain.StepStatus `json:"status"`
	Error      string            `json:"error,omitempty"`
	DurationMS int64             `json:"duration_ms"`
}

// Event is one line of the report.
type Event struct {
	RunID      string            `json:"run_id"`
	Time       time.Time         `json:"time"`
	Kind       string            `json:"kind"`
	Feature    string            `json:"feature,omitempty"`
	File       string            `json:"file,omitempty"`
	Scenario   string            `json:"scenario,omitempty"`
	Status     domain.StepStatus `json:"status,omitempty"`
	Error      string            `json:"error,omitempty"`
	DurationMS int64             `json:"duration_ms,omitempty"`
	Steps      []StepEntry       `json:"steps,omitempty"`
	Context    map[string]any    `json:"context,omitempty"`
	Screenshot []byte            `json:"screenshot,omitempty"`
	Counts     map[string]int    `json:"counts,omitempty"`
}

// Attachments are diagnostics captured when a scenario fails.
type Attachments struct {
	Context    map[string]any
	Screenshot []byte
}

// Sink receives run events.
type Sink interface {
	RunID() string
	Started()
	Scenario(result domain.ScenarioResult, att *Attachments)
	Finished(counts map[string]int)
	Close() error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RunID() string { return "" }

func (NopSink) Started() {}

func (NopSink) Scenario(domain.ScenarioResult, *Attachments) {}

func (NopSink) Finished(map[string]int) {}

func (NopSink) Close() error { return nil }

// JSONLSink appends one JSON object per event to a file.
type JSONLSink struct {
	mu    sync.Mutex
	runID string
	file  *os.File
	w     *bufio.Writer
	log   *logrus.Logger
	now   func() time.Time
}

// NewJSONLSink opens (appending) the report file, creating parent directories.
func NewJSONLSink(path string, log *logrus.Logger) (*JSONLSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, domain.NewError("report", path, 0, "failed to create report directory", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, domain.NewError("report", path, 0, "failed to open report file", err)
	}
	return &JSONLSink{
		runID: uuid.NewString(),
		file:  f,
		w:     bufio.NewWriter(f),
		log:   log,
		now:   time.Now,
	}, nil
}

// RunID identifies every event of this run.
func (s *JSONLSink) RunID() string { return s.runID }

func (s *JSONLSink) Started() {
	s.write(Event{Kind: KindRunStarted})
}

func (s *JSONLSink) Scenario(result domain.ScenarioResult, att *Attachments) {
	ev := Event{
		Kind:       KindScenario,
		Feature:    result.Feature,
		File:       result.File,
		Scenario:   result.Scenario,
		Status:     result.Status,
		Error:      errString(result.Err),
		DurationMS: result.Duration.Milliseconds(),
	}
	for _, st := range result.Steps {
		ev.Steps = append(ev.Steps, StepEntry{
			Keyword:    st.Step.Keyword,
			Text:       st.Step.Text,
			Line:       st.Step.LineNumber,
			Status:     st.Status,
			Error:      errString(st.Err),
			DurationMS: st.Duration.Milliseconds(),
		})
	}
	if att != nil {
		ev.Context = att.Context
		ev.Screenshot = att.Screenshot
	}
	s.write(ev)
}

func (s *JSONLSink) Finished(counts map[string]int) {
	s.write(Event{Kind: KindRunFinished, Counts: counts})
}

// Close flushes and closes the file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return domain.NewError("report", s.file.Name(), 0, "failed to flush report", err)
	}
	return s.file.Close()
}

func (s *JSONLSink) write(ev Event) {
	ev.RunID = s.runID
	ev.Time = s.now().UTC()

	line, err := json.Marshal(ev)
	if err != nil && ev.Context != nil {
		// Context values are arbitrary; retry without them.
		s.log.WithError(err).WithField("scenario", ev.Scenario).Warn("Report context is not serializable, dropping it")
		ev.Context = nil
		line, err = json.Marshal(ev)
	}
	if err != nil {
		s.log.WithError(err).Warn("Failed to encode report event")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(append(line, '\n')); err != nil {
		s.log.WithError(err).Warn("Failed to write report event")
		return
	}
	if err := s.w.Flush(); err != nil {
		s.log.WithError(err).Warn("Failed to flush report event")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
