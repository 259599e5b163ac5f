// Package storage defines the Storage interface — a contract that any
// record-store backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The CLI commands and the HTTP handlers should not know or care how
// records are persisted. By depending only on this interface:
//
//   - Switching backends = implement the interface for the new store,
//     change one line in main. Zero command/handler changes.
//
//   - Writing tests = pass a fake that satisfies the interface.
//     No real files needed to unit-test a handler.
//
// The error sentinels live here too, so every layer distinguishes the
// failure kinds with errors.Is instead of matching message strings.
package storage

import (
	"errors"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Failure taxonomy. I/O errors are not a sentinel: they surface as
// wrapped *os.PathError values from the backend.
var (
	// ErrRecordNotFound: the requested ID has no backing file.
	// No side effects.
	ErrRecordNotFound = errors.New("record not found")

	// ErrFieldNotFound: the record exists but the target key is absent.
	// The file is left unchanged.
	ErrFieldNotFound = errors.New("field not found in record")

	// ErrValidation: the new value does not match the selector's
	// required type. Returned before any file is touched.
	ErrValidation = errors.New("value does not match field type")

	// ErrMissingFields: average recomputation attempted on a record
	// lacking one or more subject grades. The average is left
	// unchanged; the grade edit that triggered it still stands.
	ErrMissingFields = errors.New("record is missing subject grades")
)

// Storage is the record-store contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly.
type Storage interface {
	// Create persists a fully-populated record, assigning it the next
	// sequential ID. The record's ID and AverageGrade fields are
	// ignored on input: the ID comes from the counter and the average
	// is derived from the four subject grades. Returns the assigned ID
	// and the path of the file written.
	Create(rec types.Record) (int64, string, error)

	// EditField replaces a single field of an existing record.
	// The value arrives as a string; numeric selectors are checked
	// before anything is written. Returns ErrRecordNotFound,
	// ErrFieldNotFound, or ErrValidation as appropriate.
	//
	// When the edit targets a subject grade the cached average is
	// recomputed afterwards. A failed recomputation does not roll the
	// edit back: the returned error wraps ErrMissingFields and the new
	// grade is already committed.
	EditField(id int64, sel types.FieldSelector, value string) error

	// GetByID reads one record back from disk.
	GetByID(id int64) (types.Record, error)

	// List returns every record in the store in ascending ID order.
	// Returns an empty slice (not nil) when the store is empty.
	List() ([]types.Record, error)

	// Reset wipes the store: every record file is removed and the ID
	// counter starts again at 1. Returns the number of records removed.
	Reset() (int, error)
}
