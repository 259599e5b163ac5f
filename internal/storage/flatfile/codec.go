package flatfile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/types"
)

// Record files are line oriented: one "KEY = value" pair per line.
// The key set is fixed; unknown lines are carried through edits
// untouched but are never produced by the codec.
const (
	keyName         = "NAME"
	keyFamilyName   = "FAMILY_NAME"
	keyDOB          = "DOB"
	keyStudentID    = "STUDENT_ID"
	keyFatherName   = "FATHER_NAME"
	keyMotherName   = "MOTHER_NAME"
	keyPhoneNumber  = "PHONE_NUMBER"
	keyGrade        = "GRADE"
	keyAverageGrade = "AVERAGE_GRADE"
)

// subjectNameKey returns SUBJECTn_NAME for n in 1..4.
func subjectNameKey(n int) string {
	return fmt.Sprintf("SUBJECT%d_NAME", n)
}

// subjectGradeKey returns SUBJECTn_GRADE for n in 1..4.
func subjectGradeKey(n int) string {
	return fmt.Sprintf("SUBJECT%d_GRADE", n)
}

// selectorKeys maps each field selector to the one serialized key it
// targets.
var selectorKeys = map[types.FieldSelector]string{
	types.SelectorName:          keyName,
	types.SelectorFamilyName:    keyFamilyName,
	types.SelectorDateOfBirth:   keyDOB,
	types.SelectorFatherName:    keyFatherName,
	types.SelectorMotherName:    keyMotherName,
	types.SelectorPhone:         keyPhoneNumber,
	types.SelectorGradeLevel:    keyGrade,
	types.SelectorSubject1Grade: subjectGradeKey(1),
	types.SelectorSubject2Grade: subjectGradeKey(2),
	types.SelectorSubject3Grade: subjectGradeKey(3),
	types.SelectorSubject4Grade: subjectGradeKey(4),
}

// formatFloat renders grades and averages with fixed two decimals.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatLine renders one serialized line, without the trailing newline
// (lines are joined by joinLines).
func formatLine(key, value string) string {
	return key + " = " + value
}

// parseLine splits a "KEY = value" line. ok is false for lines that
// don't match the pattern; such lines are preserved verbatim by edits.
func parseLine(line string) (key, value string, ok bool) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key = strings.TrimSpace(parts[0])
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(parts[1]), true
}

// splitLines breaks file content into lines without their newlines.
func splitLines(data []byte) []string {
	s := strings.TrimSuffix(string(data), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// joinLines is the inverse of splitLines; files always end in a
// newline.
func joinLines(lines []string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

// replaceFirst replaces the FIRST line whose key matches key with the
// freshly formatted value; every later line, matching or not, passes
// through unchanged. A file with an accidental duplicate key keeps the
// duplicate untouched after the first occurrence — reproduced for
// compatibility with existing record files.
func replaceFirst(lines []string, key, value string) ([]string, bool) {
	out := make([]string, len(lines))
	copy(out, lines)
	for i, line := range lines {
		k, _, ok := parseLine(line)
		if ok && k == key {
			out[i] = formatLine(key, value)
			return out, true
		}
	}
	return out, false
}

// serializeRecord renders a freshly created record in canonical key
// order: identity fields, then academic fields, then the four subjects,
// then the average.
func serializeRecord(rec types.Record) []byte {
	lines := []string{
		formatLine(keyName, rec.Name),
		formatLine(keyFamilyName, rec.FamilyName),
		formatLine(keyDOB, rec.DateOfBirth),
		formatLine(keyStudentID, strconv.FormatInt(rec.ID, 10)),
		formatLine(keyFatherName, rec.FatherName),
		formatLine(keyMotherName, rec.MotherName),
		formatLine(keyPhoneNumber, rec.PhoneNumber),
		formatLine(keyGrade, strconv.Itoa(rec.GradeLevel)),
	}
	for i, sub := range rec.Subjects {
		lines = append(lines,
			formatLine(subjectNameKey(i+1), sub.Name),
			formatLine(subjectGradeKey(i+1), formatFloat(sub.Grade)),
		)
	}
	lines = append(lines, formatLine(keyAverageGrade, formatFloat(rec.AverageGrade)))
	return joinLines(lines)
}

// parseRecord reads a record back from its serialized form.
//
// Parsing is lenient: the first occurrence of each key wins, later
// duplicates and unknown lines are ignored, and absent keys simply
// leave the zero value in place. Strictness lives on the write side —
// read-side tolerance lets show/list work on legacy files.
func parseRecord(data []byte) types.Record {
	var rec types.Record
	seen := make(map[string]bool)

	for _, line := range splitLines(data) {
		key, value, ok := parseLine(line)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true

		switch key {
		case keyName:
			rec.Name = value
		case keyFamilyName:
			rec.FamilyName = value
		case keyDOB:
			rec.DateOfBirth = value
		case keyStudentID:
			if id, err := strconv.ParseInt(value, 10, 64); err == nil {
				rec.ID = id
			}
		case keyFatherName:
			rec.FatherName = value
		case keyMotherName:
			rec.MotherName = value
		case keyPhoneNumber:
			rec.PhoneNumber = value
		case keyGrade:
			if g, err := strconv.Atoi(value); err == nil {
				rec.GradeLevel = g
			}
		case keyAverageGrade:
			if avg, err := strconv.ParseFloat(value, 64); err == nil {
				rec.AverageGrade = avg
			}
		default:
			for n := 1; n <= 4; n++ {
				switch key {
				case subjectNameKey(n):
					rec.Subjects[n-1].Name = value
				case subjectGradeKey(n):
					if g, err := strconv.ParseFloat(value, 64); err == nil {
						rec.Subjects[n-1].Grade = g
					}
				}
			}
		}
	}

	return rec
}
