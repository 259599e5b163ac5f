package main

import (
	"testing"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage/flatfile"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestStore points the shared store at a throwaway data dir, the
// same wiring PersistentPreRunE does for a real invocation.
func withTestStore(t *testing.T) {
	t.Helper()
	st, err := flatfile.New(&config.Config{Env: "dev", DataDir: t.TempDir()})
	require.NoError(t, err)
	store = st
}

func setCreateFlags() {
	createFlags.name = "Alex"
	createFlags.familyName = "Rao"
	createFlags.dob = "14/03/2011"
	createFlags.fatherName = "Vikram"
	createFlags.motherName = "Meera"
	createFlags.phone = "5550123"
	createFlags.gradeLevel = 8
	createFlags.subjects = []string{
		"Math=80", "English=90", "Science=70", "History=60",
	}
}

func TestRunCreatePersistsRecord(t *testing.T) {
	withTestStore(t)
	setCreateFlags()

	require.NoError(t, runCreate(createCmd, nil))

	rec, err := store.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Alex", rec.Name)
	assert.Equal(t, "5550123", rec.PhoneNumber)
	assert.InDelta(t, 75.0, rec.AverageGrade, 0.001)
}

func TestRunCreateRejectsSpacedName(t *testing.T) {
	withTestStore(t)
	setCreateFlags()
	createFlags.name = "Two Words"

	err := runCreate(createCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid record")

	// Nothing reached the store.
	records, listErr := store.List()
	require.NoError(t, listErr)
	assert.Empty(t, records)
}

func TestRunCreateRejectsWrongSubjectCount(t *testing.T) {
	withTestStore(t)
	setCreateFlags()
	createFlags.subjects = []string{"Math=80", "English=90"}

	err := runCreate(createCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly four")
}

func TestParseSubject(t *testing.T) {
	sub, err := parseSubject("Math=92.5")
	require.NoError(t, err)
	assert.Equal(t, types.Subject{Name: "Math", Grade: 92.5}, sub)

	_, err = parseSubject("Math")
	assert.Error(t, err)

	_, err = parseSubject("Math=ninety")
	assert.Error(t, err)
}
