package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Replace a single field of an existing record",
	Long: `Replace one field of the record with the given ID.

Editing a subject grade also recomputes the cached average. If the
record is missing other grade lines the grade edit still stands and a
warning is printed instead of recomputing.`,
	Example: `  student-records edit 3 phone_number 5559876
  student-records edit 3 subject2_grade 88.5`,
	Args: cobra.ExactArgs(3),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: must be an integer", args[0])
	}

	sel, err := types.ParseFieldSelector(args[1])
	if err != nil {
		names := types.FieldNames()
		sort.Strings(names)
		return fmt.Errorf("%w; valid fields: %s", err, strings.Join(names, ", "))
	}

	if err := store.EditField(id, sel, args[2]); err != nil {
		// The grade committed; only the derived average is stale.
		if errors.Is(err, storage.ErrMissingFields) {
			fmt.Fprintln(os.Stderr, "warning:", err)
			fmt.Printf("updated %s of record %d\n", sel, id)
			return nil
		}
		return err
	}

	fmt.Printf("updated %s of record %d\n", sel, id)
	return nil
}
