// Package flatfile provides the flat-file implementation of the
// storage.Storage interface: one line-oriented text file per student
// record, plus a single counter file holding the next ID to assign.
//
// WHY FLAT FILES?
// ───────────────
// The store is single-operator scale. One file per record, scanned
// linearly per edit, is trivially inspectable with cat and grep, needs
// no driver, and keeps every mutation an atomic whole-file replace.
// Deliberately NOT a storage engine: there is no index, no query
// language, and edit cost is O(record size).
//
// CONCURRENCY
// ───────────
// A single store-wide mutex guards every mutating operation — counter
// allocation, field edits, average recomputation, and reset all
// serialize through it, so two goroutines can never allocate the same
// ID or interleave their line-rewrite passes on one file. The lock is
// owned by the Store handle, not a package global. Reads go lockless:
// the atomic replace guarantees a reader sees the old file or the new
// one, never a torn mix.
package flatfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
)

const (
	studentsDirName = "students"
	recordPrefix    = "output_"
	recordSuffix    = ".txt"
)

// Store is the concrete implementation of storage.Storage.
// A single *Store is safe for concurrent use by multiple goroutines.
type Store struct {
	mu sync.Mutex // guards all mutations of the counter and record files

	dataDir     string
	studentsDir string
	counterPath string
}

// New prepares the data root at cfg.DataDir, creating the students
// directory if it does not already exist, and returns a ready-to-use
// *Store. The counter file is created lazily on first allocation.
func New(cfg *config.Config) (*Store, error) {
	studentsDir := filepath.Join(cfg.DataDir, studentsDirName)
	if err := os.MkdirAll(studentsDir, 0o755); err != nil {
		return nil, fmt.Errorf("flatfile.New: create data dir: %w", err)
	}

	return &Store{
		dataDir:     cfg.DataDir,
		studentsDir: studentsDir,
		counterPath: filepath.Join(cfg.DataDir, counterFile),
	}, nil
}

// recordPath returns <data>/students/output_<id>.txt.
func (s *Store) recordPath(id int64) string {
	return filepath.Join(s.studentsDir,
		recordPrefix+strconv.FormatInt(id, 10)+recordSuffix)
}

// Create persists a fully-populated record under the next sequential
// ID. Allocation and the record write happen under the store lock so
// concurrent creators get distinct IDs. The counter is advanced before
// the record file is written: a crash in between wastes one ID but can
// never hand the same ID out twice.
func (s *Store) Create(rec types.Record) (int64, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := loadNextID(s.counterPath)
	if err != nil {
		return 0, "", err
	}
	if err := commitNextID(s.counterPath, id+1); err != nil {
		return 0, "", err
	}

	rec.ID = id
	rec.AverageGrade = (rec.Subjects[0].Grade + rec.Subjects[1].Grade +
		rec.Subjects[2].Grade + rec.Subjects[3].Grade) / 4.0

	path := s.recordPath(id)
	if err := atomicWrite(path, serializeRecord(rec)); err != nil {
		return 0, "", err
	}

	return id, path, nil
}

// EditField replaces one field of an existing record.
//
// The read-modify-replace sequence runs under the store lock: stream
// the record's lines, swap the first line whose key matches the
// selector, pass everything else through byte-for-byte, and commit via
// the atomic replacer. No matching line means the original file is
// never rewritten.
//
// A subject-grade edit then recomputes the cached average. The two are
// independent commits — if recomputation fails the grade edit stands
// and the returned error wraps storage.ErrMissingFields.
func (s *Store) EditField(id int64, sel types.FieldSelector, value string) error {
	// Defensive type check before any file is touched. The CLI and the
	// HTTP layer validate too, but the core never writes garbage into a
	// numeric line.
	formatted, err := formatValue(sel, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("record %d: %w", id, storage.ErrRecordNotFound)
	}
	if err != nil {
		return fmt.Errorf("EditField: read record: %w", err)
	}

	key := selectorKeys[sel]
	out, found := replaceFirst(splitLines(data), key, formatted)
	if !found {
		return fmt.Errorf("record %d has no %s line: %w",
			id, key, storage.ErrFieldNotFound)
	}

	if err := atomicWrite(path, joinLines(out)); err != nil {
		return err
	}

	if sel.IsSubjectGrade() {
		if _, err := s.recomputeAverage(path); err != nil {
			return fmt.Errorf("grade committed but average not recomputed: %w", err)
		}
	}

	return nil
}

// formatValue checks value against the selector's required kind and
// returns it in canonical serialized form.
func formatValue(sel types.FieldSelector, value string) (string, error) {
	switch sel.Kind() {
	case types.KindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return "", fmt.Errorf("%s wants a non-negative integer, got %q: %w",
				sel, value, storage.ErrValidation)
		}
		return strconv.Itoa(n), nil

	case types.KindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return "", fmt.Errorf("%s wants a non-negative number, got %q: %w",
				sel, value, storage.ErrValidation)
		}
		return formatFloat(f), nil

	default:
		// A newline here would corrupt the line format; any embedded
		// whitespace breaks the single-token value rule.
		if value == "" || strings.ContainsAny(value, " \t\r\n") {
			return "", fmt.Errorf("%s wants a single non-empty token, got %q: %w",
				sel, value, storage.ErrValidation)
		}
		return value, nil
	}
}

// GetByID reads one record back from disk. Lockless: the atomic
// replace means this sees a complete file, before or after any
// concurrent edit.
func (s *Store) GetByID(id int64) (types.Record, error) {
	data, err := os.ReadFile(s.recordPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return types.Record{}, fmt.Errorf("record %d: %w", id, storage.ErrRecordNotFound)
	}
	if err != nil {
		return types.Record{}, fmt.Errorf("GetByID: read record: %w", err)
	}

	rec := parseRecord(data)
	if rec.ID == 0 {
		// Legacy file without a STUDENT_ID line; the filename is
		// authoritative anyway.
		rec.ID = id
	}
	return rec, nil
}

// List returns every record in ascending ID order. Files that don't
// follow the output_<id>.txt naming are skipped with a warning — a
// stray file must never break the whole listing.
func (s *Store) List() ([]types.Record, error) {
	entries, err := os.ReadDir(s.studentsDir)
	if err != nil {
		return nil, fmt.Errorf("List: read students dir: %w", err)
	}

	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := recordID(entry.Name())
		if !ok {
			slog.Warn("skipping foreign file in students dir",
				slog.String("file", entry.Name()))
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]types.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.GetByID(id)
		if err != nil {
			// Removed between ReadDir and the read; not an error.
			if errors.Is(err, storage.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// recordID extracts the ID from an output_<id>.txt filename.
func recordID(name string) (int64, bool) {
	if !strings.HasPrefix(name, recordPrefix) || !strings.HasSuffix(name, recordSuffix) {
		return 0, false
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(name, recordPrefix), recordSuffix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// Reset wipes the store: every file in the students directory is
// removed (leftover temp files included) and the counter is reset to 1.
// Runs under the store lock so it cannot race an in-flight edit.
func (s *Store) Reset() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.studentsDir)
	if err != nil {
		return 0, fmt.Errorf("Reset: read students dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if err := os.Remove(filepath.Join(s.studentsDir, name)); err != nil {
			return removed, fmt.Errorf("Reset: remove %s: %w", name, err)
		}
		if _, ok := recordID(name); ok {
			removed++
		}
	}

	if err := commitNextID(s.counterPath, 1); err != nil {
		return removed, err
	}
	return removed, nil
}
