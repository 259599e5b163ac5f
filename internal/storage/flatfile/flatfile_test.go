package flatfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&config.Config{Env: "dev", DataDir: t.TempDir()})
	require.NoError(t, err)
	return s
}

func sampleRecord() types.Record {
	return types.Record{
		Name:        "Asha",
		FamilyName:  "Rao",
		DateOfBirth: "14/03/2011",
		FatherName:  "Vikram",
		MotherName:  "Meera",
		PhoneNumber: "5551234",
		GradeLevel:  8,
		Subjects: [4]types.Subject{
			{Name: "Math", Grade: 80.0},
			{Name: "English", Grade: 90.0},
			{Name: "Science", Grade: 70.0},
			{Name: "History", Grade: 60.0},
		},
	}
}

func readRecordFile(t *testing.T, s *Store, id int64) string {
	t.Helper()
	data, err := os.ReadFile(s.recordPath(id))
	require.NoError(t, err)
	return string(data)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	for want := int64(1); want <= 3; want++ {
		id, path, err := s.Create(sampleRecord())
		require.NoError(t, err)
		assert.Equal(t, want, id)
		assert.Equal(t, s.recordPath(want), path)
		assert.FileExists(t, path)
	}

	// Counter reflects "next to hand out", not "last issued".
	data, err := os.ReadFile(s.counterPath)
	require.NoError(t, err)
	assert.Equal(t, "4\n", string(data))
}

func TestCreateComputesAverage(t *testing.T) {
	s := newTestStore(t)

	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)

	// (80 + 90 + 70 + 60) / 4 = 75.00
	assert.Contains(t, readRecordFile(t, s, id), "AVERAGE_GRADE = 75.00\n")
}

func TestCreateConcurrentIDsAreUnique(t *testing.T) {
	s := newTestStore(t)

	const n = 20
	ids := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, err := s.Create(sampleRecord())
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
}

func TestEditFieldUpdatesOnlyTargetLine(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)

	before := strings.Split(readRecordFile(t, s, id), "\n")

	require.NoError(t, s.EditField(id, types.SelectorPhone, "5559876"))

	after := strings.Split(readRecordFile(t, s, id), "\n")
	require.Len(t, after, len(before))
	for i := range before {
		if strings.HasPrefix(before[i], "PHONE_NUMBER") {
			assert.Equal(t, "PHONE_NUMBER = 5559876", after[i])
			continue
		}
		// Every other line is byte-identical to before the edit.
		assert.Equal(t, before[i], after[i], "line %d changed", i)
	}

	rec, err := s.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "5559876", rec.PhoneNumber)
}

func TestEditSubjectGradeRecomputesAverage(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)

	require.NoError(t, s.EditField(id, types.SelectorSubject4Grade, "100"))

	content := readRecordFile(t, s, id)
	assert.Contains(t, content, "SUBJECT4_GRADE = 100.00\n")
	// (80 + 90 + 70 + 100) / 4 = 85.00
	assert.Contains(t, content, "AVERAGE_GRADE = 85.00\n")
}

func TestEditNonGradeFieldLeavesAverageAlone(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)

	require.NoError(t, s.EditField(id, types.SelectorGradeLevel, "9"))

	content := readRecordFile(t, s, id)
	assert.Contains(t, content, "GRADE = 9\n")
	assert.Contains(t, content, "AVERAGE_GRADE = 75.00\n")
}

func TestEditFieldRecordNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.EditField(99, types.SelectorName, "Nobody")
	require.ErrorIs(t, err, storage.ErrRecordNotFound)

	// No file may appear as a side effect.
	_, statErr := os.Stat(s.recordPath(99))
	assert.True(t, os.IsNotExist(statErr))
}

func TestEditFieldFieldNotFound(t *testing.T) {
	s := newTestStore(t)
	id, path, err := s.Create(sampleRecord())
	require.NoError(t, err)

	// Strip the PHONE_NUMBER line to fabricate a record missing the key.
	var kept []string
	for _, line := range strings.Split(readRecordFile(t, s, id), "\n") {
		if !strings.HasPrefix(line, "PHONE_NUMBER") {
			kept = append(kept, line)
		}
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0o644))
	before := readRecordFile(t, s, id)

	err = s.EditField(id, types.SelectorPhone, "5559876")
	require.ErrorIs(t, err, storage.ErrFieldNotFound)
	assert.NotErrorIs(t, err, storage.ErrRecordNotFound,
		"missing field is a distinct outcome from missing record")

	// File byte-identical to before the attempt.
	assert.Equal(t, before, readRecordFile(t, s, id))
}

func TestEditFieldRejectsWrongTypes(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)
	before := readRecordFile(t, s, id)

	tests := []struct {
		name  string
		sel   types.FieldSelector
		value string
	}{
		{"int gets text", types.SelectorGradeLevel, "eight"},
		{"int gets negative", types.SelectorGradeLevel, "-2"},
		{"float gets text", types.SelectorSubject1Grade, "ninety"},
		{"float gets negative", types.SelectorSubject1Grade, "-1.5"},
		{"text gets space", types.SelectorName, "two words"},
		{"text gets newline", types.SelectorName, "bad\nvalue"},
		{"text gets empty", types.SelectorName, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.EditField(id, tt.sel, tt.value)
			require.ErrorIs(t, err, storage.ErrValidation)
		})
	}

	// Nothing was written by any rejected edit.
	assert.Equal(t, before, readRecordFile(t, s, id))
}

func TestEditFieldDuplicateKeyFirstMatchWins(t *testing.T) {
	s := newTestStore(t)
	id, path, err := s.Create(sampleRecord())
	require.NoError(t, err)

	// Fabricate an accidental duplicate at the end of the file.
	content := readRecordFile(t, s, id) + "NAME = Stray\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, s.EditField(id, types.SelectorName, "Binita"))

	after := readRecordFile(t, s, id)
	assert.True(t, strings.HasPrefix(after, "NAME = Binita\n"))
	// The duplicate survives unmodified after the first occurrence.
	assert.True(t, strings.HasSuffix(after, "NAME = Stray\n"))
}

func TestEditGradeWithMissingSiblingGrade(t *testing.T) {
	s := newTestStore(t)
	id, path, err := s.Create(sampleRecord())
	require.NoError(t, err)

	// Remove SUBJECT3_GRADE so the average cannot be derived.
	var kept []string
	for _, line := range strings.Split(strings.TrimSuffix(readRecordFile(t, s, id), "\n"), "\n") {
		if !strings.HasPrefix(line, "SUBJECT3_GRADE") {
			kept = append(kept, line)
		}
	}
	require.NoError(t, os.WriteFile(path, joinLines(kept), 0o644))

	err = s.EditField(id, types.SelectorSubject1Grade, "95")
	require.ErrorIs(t, err, storage.ErrMissingFields)

	content := readRecordFile(t, s, id)
	// The grade edit itself stands; only the recompute was refused.
	assert.Contains(t, content, "SUBJECT1_GRADE = 95.00\n")
	// The stale average is never auto-repaired.
	assert.Contains(t, content, "AVERAGE_GRADE = 75.00\n")
}

func TestRecomputeAppendsAverageForLegacyRecord(t *testing.T) {
	s := newTestStore(t)
	id, path, err := s.Create(sampleRecord())
	require.NoError(t, err)

	// Legacy records predate the cached average line.
	var kept []string
	for _, line := range strings.Split(strings.TrimSuffix(readRecordFile(t, s, id), "\n"), "\n") {
		if !strings.HasPrefix(line, "AVERAGE_GRADE") {
			kept = append(kept, line)
		}
	}
	require.NoError(t, os.WriteFile(path, joinLines(kept), 0o644))

	require.NoError(t, s.EditField(id, types.SelectorSubject4Grade, "100"))

	content := readRecordFile(t, s, id)
	assert.True(t, strings.HasSuffix(content, "AVERAGE_GRADE = 85.00\n"))
}

func TestGetByIDRoundTrip(t *testing.T) {
	s := newTestStore(t)
	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)

	rec, err := s.GetByID(id)
	require.NoError(t, err)

	want := sampleRecord()
	want.ID = id
	want.AverageGrade = 75.0
	assert.Equal(t, want, rec)
}

func TestGetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetByID(404)
	assert.ErrorIs(t, err, storage.ErrRecordNotFound)
}

func TestListOrdersByIDAndSkipsForeignFiles(t *testing.T) {
	s := newTestStore(t)

	var created []int64
	for i := 0; i < 3; i++ {
		rec := sampleRecord()
		rec.Name = fmt.Sprintf("Student%d", i+1)
		id, _, err := s.Create(rec)
		require.NoError(t, err)
		created = append(created, id)
	}

	// A stray file in the directory must not break the listing.
	require.NoError(t, os.WriteFile(
		filepath.Join(s.studentsDir, "notes.txt"), []byte("scratch\n"), 0o644))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, created[i], rec.ID)
		assert.Equal(t, fmt.Sprintf("Student%d", i+1), rec.Name)
	}
}

func TestListEmptyStore(t *testing.T) {
	s := newTestStore(t)

	records, err := s.List()
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestResetWipesStoreAndCounter(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, _, err := s.Create(sampleRecord())
		require.NoError(t, err)
	}
	// Leftover temp files get swept too.
	require.NoError(t, os.WriteFile(
		filepath.Join(s.studentsDir, "output_1.txt.abc123.tmp"), []byte("junk"), 0o644))

	removed, err := s.Reset()
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	entries, err := os.ReadDir(s.studentsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(s.counterPath)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(data))

	// IDs restart at 1 after a reset.
	id, _, err := s.Create(sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

var _ storage.Storage = (*Store)(nil)
