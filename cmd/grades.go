package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/store"
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Inspect synced grades",
}

var gradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List grades in the order they were synced",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, _ := cmd.Flags().GetString("document")
		student, _ := cmd.Flags().GetString("student")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		grades, err := st.GradeRepo().List(cmd.Context(), store.GradeQuery{
			DocumentID: docID,
			Student:    student,
			QueryOpts:  store.QueryOpts{Limit: limit},
		})
		if err != nil {
			return fmt.Errorf("list grades: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(grades) == 0 {
			fmt.Fprintln(out, "No grades found.")
			return nil
		}

		t := newTable([]string{"#", "Date", "Student", "Score", "Type", "Scheme", "Document"}, 0, 3)
		for _, g := range grades {
			t.Row(
				fmt.Sprint(g.Sequence),
				g.Date.Format("2006-01-02"),
				g.Student,
				fmt.Sprint(g.Score),
				g.AssessmentType,
				g.Scheme.DisplayName(),
				truncate(g.DocumentID, 8),
			)
		}
		lipgloss.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	gradesListCmd.Flags().StringP("document", "d", "", "Only grades for this document ID")
	gradesListCmd.Flags().String("student", "", "Only grades for this student")
	gradesListCmd.Flags().IntP("limit", "n", 0, "Maximum number of grades (0 = all)")

	gradesCmd.AddCommand(gradesListCmd)
}
