// Package storage round-trips the task collection to a flat delimited text
// file: one "id,description,priority,dueDate" record per line, no quoting
// or escaping. The on-disk id field is written for readability but ignored
// on reload; loaded tasks always get fresh identifiers from the store.
package storage

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"taskman/internal/domain"
	"taskman/internal/errors"
	"taskman/internal/store"
)

const fieldsPerRecord = 4

// Record is one task's worth of persisted data. It carries no identifier:
// ids are reassigned by the store on reload.
type Record struct {
	Description string
	Priority    int
	DueDate     string
}

// MalformedLine describes a persisted line that could not be parsed into a
// record. Malformed lines are skipped, never fatal for the whole load.
type MalformedLine struct {
	Number int
	Text   string
	Err    error
}

// LoadResult is the outcome of reading a task file.
type LoadResult struct {
	Records    []Record
	Malformed  []MalformedLine
	FreshStart bool // the file did not exist; start with an empty store
}

// Service persists tasks to and from a text file.
type Service struct{}

// NewService creates a new persistence service.
func NewService() *Service {
	return &Service{}
}

// Save writes the given tasks to path, truncating any existing content.
// Records are written in the order given, which is the store's enumeration
// order when called with store.All().
func (s *Service) Save(path string, tasks []*domain.Task) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("save", path, err)
	}

	w := bufio.NewWriter(f)
	for _, task := range tasks {
		if _, err := fmt.Fprintf(w, "%d,%s,%d,%s\n", task.ID, task.Description, task.Priority, task.DueDate); err != nil {
			f.Close()
			return errors.NewIOError("save", path, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return errors.NewIOError("save", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("save", path, err)
	}
	return nil
}

// Load reads the file at path line by line. A missing file is not an error:
// the result has FreshStart set and no records. Lines that do not split
// into exactly four comma-separated fields, or whose priority is not an
// integer, are collected in Malformed and skipped. Only a genuine I/O
// failure returns a non-nil error.
func (s *Service) Load(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadResult{FreshStart: true}, nil
		}
		return nil, errors.NewIOError("load", path, err)
	}
	defer f.Close()

	result := &LoadResult{}
	scanner := bufio.NewScanner(f)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record, err := parseLine(line)
		if err != nil {
			result.Malformed = append(result.Malformed, MalformedLine{
				Number: lineNumber,
				Text:   line,
				Err:    errors.NewMalformedRecordError(lineNumber, line),
			})
			continue
		}
		result.Records = append(result.Records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.NewIOError("load", path, err)
	}
	return result, nil
}

// LoadInto loads the file at path and appends every valid record to the
// store through its normal Add operation, so loaded tasks are assigned
// fresh sequential identifiers regardless of the ids recorded on disk.
func (s *Service) LoadInto(path string, taskStore *store.TaskStore) (*LoadResult, error) {
	result, err := s.Load(path)
	if err != nil {
		return nil, err
	}
	for _, record := range result.Records {
		taskStore.Add(record.Description, record.Priority, record.DueDate)
	}
	return result, nil
}

// parseLine splits one persisted line into a record. The id field only
// counts toward the line shape; its value is discarded. Priority must
// convert to an integer but is deliberately not range-checked: the file is
// trusted beyond its shape.
func parseLine(line string) (Record, error) {
	fields := strings.Split(line, ",")
	if len(fields) != fieldsPerRecord {
		return Record{}, fmt.Errorf("expected %d fields, got %d", fieldsPerRecord, len(fields))
	}

	priority, err := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err != nil {
		return Record{}, fmt.Errorf("priority is not an integer: %w", err)
	}

	return Record{
		Description: fields[1],
		Priority:    priority,
		DueDate:     strings.TrimSpace(fields[3]),
	}, nil
}
