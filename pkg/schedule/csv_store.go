package schedule

import (
	"context"
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Column names of the persisted table. Title is forced first on save; load
// is order-independent because rows are resolved through the header.
var storeColumns = []string{
	"Title", "Date", "Type", "Status", "Source",
	"Client", "Course/Description", "Trainer", "Medium", "Location",
	"Billing", "Invoiced", "Notes", "Date Modified", "Action Type", "Modified By",
	"ID",
}

// Columns written by earlier versions of the schedule file. Dropped on load.
var legacyColumns = map[string]bool{
	"Start Time": true,
	"End Time":   true,
	"All Day":    true,
}

const (
	storeRetries    = 3
	storeRetryDelay = time.Second
)

// CSVStore persists the event collection in a single CSV file. Concurrent
// writers race: the last full-collection write wins, with no merge.
type CSVStore struct {
	path string
	// retryDelay is the pause between attempts on a transient file error.
	retryDelay time.Duration
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path, retryDelay: storeRetryDelay}
}

// Load reads the full collection. A missing file initializes an empty one.
// Transient file errors are retried; if retries are exhausted on a
// permission error the error is surfaced, otherwise Load degrades to an
// empty collection so the session keeps working.
func (s *CSVStore) Load(ctx context.Context) ([]Event, error) {
	var lastErr error
	for attempt := 0; attempt < storeRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.retryDelay)
		}

		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			if err := s.writeAll(nil); err != nil {
				lastErr = err
				continue
			}
			return []Event{}, nil
		}

		events, err := s.readAll()
		if err != nil {
			lastErr = err
			continue
		}
		return events, nil
	}

	if errors.Is(lastErr, fs.ErrPermission) {
		return nil, lastErr
	}
	log.Errorf("failed to load schedule file %s, falling back to empty collection: %v", s.path, lastErr)
	return []Event{}, nil
}

// Save overwrites the backing file with the full collection, retrying on
// transient errors. On exhaustion the error is returned and the file is
// left unchanged.
func (s *CSVStore) Save(ctx context.Context, events []Event) error {
	var lastErr error
	for attempt := 0; attempt < storeRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.retryDelay)
		}
		if err := s.writeAll(events); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (s *CSVStore) readAll() ([]Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Event{}, nil
	}

	// Resolve columns by header name so on-disk order does not matter and
	// legacy time-of-day columns are silently dropped.
	col := map[string]int{}
	for i, name := range rows[0] {
		if !legacyColumns[name] {
			col[name] = i
		}
	}
	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	events := make([]Event, 0, len(rows)-1)
	for _, row := range rows[1:] {
		e := Event{
			Type:       EventType(field(row, "Type")),
			Status:     Status(field(row, "Status")),
			Source:     Source(field(row, "Source")),
			Client:     field(row, "Client"),
			Course:     field(row, "Course/Description"),
			Trainer:    field(row, "Trainer"),
			Medium:     Medium(field(row, "Medium")),
			Location:   field(row, "Location"),
			Billing:    field(row, "Billing"),
			Invoiced:   Invoiced(field(row, "Invoiced")),
			Notes:      field(row, "Notes"),
			ActionType: ActionType(field(row, "Action Type")),
			ModifiedBy: field(row, "Modified By"),
			ID:         field(row, "ID"),
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if raw := field(row, "Date"); raw != "" {
			e.Date = parseDate(raw)
		}
		if raw := field(row, "Date Modified"); raw != "" {
			if t, err := time.Parse(DateModifiedLayout, raw); err == nil {
				e.DateModified = t
			}
		}
		events = append(events, e)
	}
	return events, nil
}

func (s *CSVStore) writeAll(events []Event) error {
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(storeColumns); err != nil {
		return err
	}
	for _, e := range events {
		row := []string{
			e.Title(),
			formatDate(e.Date),
			string(e.Type),
			string(e.Status),
			string(e.Source),
			e.Client,
			e.Course,
			e.Trainer,
			string(e.Medium),
			e.Location,
			e.Billing,
			string(e.Invoiced),
			e.Notes,
			formatDateModified(e.DateModified),
			string(e.ActionType),
			e.ModifiedBy,
			e.ID,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseDate(raw string) time.Time {
	for _, layout := range []string{DateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return dateOnly(t)
		}
	}
	// Rows with an unreadable date keep a zero date instead of failing the load.
	return time.Time{}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatDateModified(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateModifiedLayout)
}
