package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/factseeker/factseeker/internal/model"
)

// filePrefix names the day-partitioned JSONL files
const filePrefix = "factseeker_"

// Log is the append-only explainability log: one JSON object per line, one
// line per DecisionRecord, partitioned by day. Each record is synced to disk
// before Append returns, so a crash never silently drops a decision. Records
// carry their full reasoning chain and are readable without the live corpus.
type Log struct {
	dir string
	mu  sync.Mutex
}

// NewLog creates the log directory if needed and returns the log
func NewLog(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}
	return &Log{dir: dir}, nil
}

// Dir returns the audit directory
func (l *Log) Dir() string {
	return l.dir
}

// Append writes one record. The record's derived reasoning narrative is
// filled in if missing. Durable before return.
func (l *Log) Append(rec *model.DecisionRecord) (err error) {
	if rec.Reasoning == "" {
		rec.Reasoning = rec.BuildReasoning()
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.pathFor(rec.Timestamp), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close audit file: %w", closeErr)
		}
	}()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync audit file: %w", err)
	}
	return nil
}

// ReadDay returns the records written on the given day, in write order. A
// missing file means no records, not an error.
func (l *Log) ReadDay(day time.Time) ([]model.DecisionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.pathFor(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []model.DecisionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var rec model.DecisionRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parse audit line: %w", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit file: %w", err)
	}
	return records, nil
}

func (l *Log) pathFor(t time.Time) string {
	return filepath.Join(l.dir, filePrefix+t.UTC().Format("20060102")+".jsonl")
}
