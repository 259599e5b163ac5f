// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// commands, handlers, and storage can all import types without depending
// on each other.
package types

import "fmt"

// Subject is one graded subject on a student record.
//
// The "excludesall= " rule (the param is one literal space) rejects
// embedded spaces — record files are line oriented and a value is
// everything after "KEY = ", so names must be single tokens. Validator
// only hex-decodes 0x2C and 0x7C, so the space must be spelled out.
type Subject struct {
	Name  string  `json:"name"  validate:"required,max=49,excludesall= "`
	Grade float64 `json:"grade" validate:"gte=0"`
}

// Record represents one student's persisted data, one file per record.
//
// Struct tags serve two purposes:
//
//  1. json:"..."  — controls how the field appears when encoded to JSON
//     by the HTTP wrapper (lowercase names match REST conventions).
//
//  2. validate:"..." — rules checked by the go-playground/validator
//     package before a record ever reaches the store.
//
// ID and AverageGrade carry no validate tags: the ID is assigned by the
// store at creation time and the average is derived from the four
// subject grades, never accepted from a caller.
type Record struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"          validate:"required,max=49,excludesall= "`
	FamilyName  string `json:"family_name"   validate:"required,max=49,excludesall= "`
	DateOfBirth string `json:"date_of_birth" validate:"required,max=10"`
	FatherName  string `json:"father_name"   validate:"required,max=49,excludesall= "`
	MotherName  string `json:"mother_name"   validate:"required,max=49,excludesall= "`
	PhoneNumber string `json:"phone_number"  validate:"required,max=14,excludesall= "`
	GradeLevel  int    `json:"grade_level"   validate:"gte=0"`

	// Exactly four subjects. The on-disk key set (SUBJECT1..SUBJECT4) is
	// closed, so this is an array rather than a slice.
	Subjects [4]Subject `json:"subjects" validate:"dive"`

	// AverageGrade is derived: always the arithmetic mean of the four
	// subject grades currently on disk. The store recomputes it whenever
	// a subject grade changes, and only then.
	AverageGrade float64 `json:"average_grade"`
}

// FieldKind is the input type a field selector requires.
type FieldKind int

const (
	KindText FieldKind = iota
	KindInt
	KindFloat
)

// FieldSelector identifies which single record field an edit targets.
// The enumeration is closed: every selector maps to exactly one key in
// the record's serialized form and to one required input kind.
type FieldSelector int

const (
	SelectorName FieldSelector = iota
	SelectorFamilyName
	SelectorDateOfBirth
	SelectorFatherName
	SelectorMotherName
	SelectorPhone
	SelectorGradeLevel
	SelectorSubject1Grade
	SelectorSubject2Grade
	SelectorSubject3Grade
	SelectorSubject4Grade
)

// selectorNames maps the external spelling (CLI argument, HTTP payload)
// to the selector. The spellings match the Record json tags so callers
// see one vocabulary everywhere.
var selectorNames = map[string]FieldSelector{
	"name":           SelectorName,
	"family_name":    SelectorFamilyName,
	"date_of_birth":  SelectorDateOfBirth,
	"father_name":    SelectorFatherName,
	"mother_name":    SelectorMotherName,
	"phone_number":   SelectorPhone,
	"grade_level":    SelectorGradeLevel,
	"subject1_grade": SelectorSubject1Grade,
	"subject2_grade": SelectorSubject2Grade,
	"subject3_grade": SelectorSubject3Grade,
	"subject4_grade": SelectorSubject4Grade,
}

// ParseFieldSelector resolves an external field name to its selector.
// Unknown names return an error before any storage call is made.
func ParseFieldSelector(name string) (FieldSelector, error) {
	sel, ok := selectorNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown field %q", name)
	}
	return sel, nil
}

// String returns the external spelling of the selector.
func (s FieldSelector) String() string {
	for name, sel := range selectorNames {
		if sel == s {
			return name
		}
	}
	return fmt.Sprintf("FieldSelector(%d)", int(s))
}

// Kind reports the required input type for the selector's value.
func (s FieldSelector) Kind() FieldKind {
	switch s {
	case SelectorGradeLevel:
		return KindInt
	case SelectorSubject1Grade, SelectorSubject2Grade,
		SelectorSubject3Grade, SelectorSubject4Grade:
		return KindFloat
	default:
		return KindText
	}
}

// IsSubjectGrade reports whether the selector targets one of the four
// subject grades — the edits that require average recomputation.
func (s FieldSelector) IsSubjectGrade() bool {
	switch s {
	case SelectorSubject1Grade, SelectorSubject2Grade,
		SelectorSubject3Grade, SelectorSubject4Grade:
		return true
	}
	return false
}

// FieldNames returns every valid external field name. Used by the CLI
// to print the vocabulary in usage errors.
func FieldNames() []string {
	names := make([]string, 0, len(selectorNames))
	for name := range selectorNames {
		names = append(names, name)
	}
	return names
}
