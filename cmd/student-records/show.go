package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one record",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every record in the store",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: must be an integer", args[0])
	}

	rec, err := store.GetByID(id)
	if err != nil {
		return err
	}

	fmt.Printf("id:            %d\n", rec.ID)
	fmt.Printf("name:          %s %s\n", rec.Name, rec.FamilyName)
	fmt.Printf("date of birth: %s\n", rec.DateOfBirth)
	fmt.Printf("father:        %s\n", rec.FatherName)
	fmt.Printf("mother:        %s\n", rec.MotherName)
	fmt.Printf("phone:         %s\n", rec.PhoneNumber)
	fmt.Printf("grade level:   %d\n", rec.GradeLevel)
	for _, sub := range rec.Subjects {
		fmt.Printf("subject:       %-20s %6.2f\n", sub.Name, sub.Grade)
	}
	fmt.Printf("average:       %.2f\n", rec.AverageGrade)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	records, err := store.List()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("store is empty")
		return nil
	}

	fmt.Printf("%-6s %-30s %-7s %s\n", "ID", "NAME", "GRADE", "AVERAGE")
	for _, rec := range records {
		fmt.Printf("%-6d %-30s %-7d %.2f\n",
			rec.ID, rec.Name+" "+rec.FamilyName, rec.GradeLevel, rec.AverageGrade)
	}
	return nil
}
