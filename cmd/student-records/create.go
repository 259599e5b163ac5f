package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var createFlags struct {
	name       string
	familyName string
	dob        string
	fatherName string
	motherName string
	phone      string
	gradeLevel int
	subjects   []string
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new student record with the next sequential ID",
	Example: `  student-records create \
      --name Asha --family-name Rao --date-of-birth 14/03/2011 \
      --father-name Vikram --mother-name Meera --phone 5551234 \
      --grade-level 8 \
      --subject Math=92.5 --subject English=85 \
      --subject Science=78.25 --subject History=88`,
	RunE: runCreate,
}

func init() {
	f := createCmd.Flags()
	f.StringVar(&createFlags.name, "name", "", "student's first name")
	f.StringVar(&createFlags.familyName, "family-name", "", "student's family name")
	f.StringVar(&createFlags.dob, "date-of-birth", "", "date of birth, DD/MM/YYYY")
	f.StringVar(&createFlags.fatherName, "father-name", "", "father's name")
	f.StringVar(&createFlags.motherName, "mother-name", "", "mother's name")
	f.StringVar(&createFlags.phone, "phone", "", "phone number")
	f.IntVar(&createFlags.gradeLevel, "grade-level", 0, "school grade level")
	f.StringArrayVar(&createFlags.subjects, "subject", nil,
		"subject as NAME=GRADE, given exactly four times")

	for _, name := range []string{
		"name", "family-name", "date-of-birth",
		"father-name", "mother-name", "phone", "subject",
	} {
		// Errors only on a flag name typo above; fail loudly at init.
		cobra.CheckErr(createCmd.MarkFlagRequired(name))
	}

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	rec := types.Record{
		Name:        createFlags.name,
		FamilyName:  createFlags.familyName,
		DateOfBirth: createFlags.dob,
		FatherName:  createFlags.fatherName,
		MotherName:  createFlags.motherName,
		PhoneNumber: createFlags.phone,
		GradeLevel:  createFlags.gradeLevel,
	}

	if len(createFlags.subjects) != 4 {
		return fmt.Errorf("need exactly four --subject flags, got %d",
			len(createFlags.subjects))
	}
	for i, raw := range createFlags.subjects {
		sub, err := parseSubject(raw)
		if err != nil {
			return err
		}
		rec.Subjects[i] = sub
	}

	// Same validation rules the HTTP layer applies; the store itself
	// expects pre-validated fields.
	if err := validator.New().Struct(rec); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	id, path, err := store.Create(rec)
	if err != nil {
		return err
	}

	fmt.Printf("created record %d at %s\n", id, path)
	return nil
}

// parseSubject parses a NAME=GRADE pair such as "Math=92.5".
func parseSubject(raw string) (types.Subject, error) {
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		return types.Subject{}, fmt.Errorf("--subject %q: want NAME=GRADE", raw)
	}
	grade, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return types.Subject{}, fmt.Errorf("--subject %q: grade %q is not a number",
			raw, parts[1])
	}
	return types.Subject{Name: parts[0], Grade: grade}, nil
}
