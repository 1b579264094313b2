package registry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Event is one audit-trail entry: who ingested or scored what, and
// when. Stored as JSON lines so the log grows by append only.
type Event struct {
	TS     time.Time      `json:"ts"`
	Action string         `json:"action"`
	CaseID string         `json:"case_id,omitempty"`
	User   string         `json:"user,omitempty"`
	Detail map[string]any `json:"detail,omitempty"`
}

// ActivitySummary aggregates the activity log for reporting.
type ActivitySummary struct {
	Total    int            `json:"total"`
	ByAction map[string]int `json:"by_action"`
	ByUser   map[string]int `json:"by_user"`
	ByCase   map[string]int `json:"by_case"`
}

// LogEvent appends an event to the activity log, stamping TS if unset.
func (r *Registry) LogEvent(ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendEvent(ev)
}

// appendEvent requires r.mu to be held.
func (r *Registry) appendEvent(ev Event) error {
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(r.dir, activityFile),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal activity event: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append activity event: %w", err)
	}
	return nil
}

// Events returns all log entries in order. Malformed lines are
// skipped, not fatal.
func (r *Registry) Events() ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(filepath.Join(r.dir, activityFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read activity log: %w", err)
	}
	return events, nil
}

// TailEvents returns the most recent n log entries, oldest first.
func (r *Registry) TailEvents(n int) ([]Event, error) {
	events, err := r.Events()
	if err != nil {
		return nil, err
	}
	if len(events) > n {
		events = events[len(events)-n:]
	}
	return events, nil
}

// SummarizeActivity aggregates the full log.
func (r *Registry) SummarizeActivity() (*ActivitySummary, error) {
	events, err := r.Events()
	if err != nil {
		return nil, err
	}

	s := &ActivitySummary{
		Total:    len(events),
		ByAction: make(map[string]int),
		ByUser:   make(map[string]int),
		ByCase:   make(map[string]int),
	}
	for _, ev := range events {
		action := ev.Action
		if action == "" {
			action = "unknown"
		}
		s.ByAction[action]++

		user := ev.User
		if user == "" {
			user = "unknown"
		}
		s.ByUser[user]++

		if ev.CaseID != "" {
			s.ByCase[ev.CaseID]++
		}
	}
	return s, nil
}

// TopCases returns case ids ordered by activity count, capped at n.
func (s *ActivitySummary) TopCases(n int) []string {
	ids := make([]string, 0, len(s.ByCase))
	for id := range s.ByCase {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if s.ByCase[ids[i]] != s.ByCase[ids[j]] {
			return s.ByCase[ids[i]] > s.ByCase[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
