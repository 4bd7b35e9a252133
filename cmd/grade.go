package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/app"
	"github.com/abhisek/penilai/internal/grading"
	"github.com/abhisek/penilai/internal/screens/rubricview"
	"github.com/abhisek/penilai/internal/screens/scoring"
)

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Score students against a stored rubric in the terminal UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		docID, _ := cmd.Flags().GetString("document")
		studentsFlag, _ := cmd.Flags().GetString("students")
		assessmentType, _ := cmd.Flags().GetString("type")
		dateFlag, _ := cmd.Flags().GetString("date")
		resume, _ := cmd.Flags().GetString("resume")

		date := time.Now()
		if dateFlag != "" {
			d, err := time.Parse(time.DateOnly, dateFlag)
			if err != nil {
				return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", dateFlag)
			}
			date = d
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		doc, err := st.DocumentRepo().Get(ctx, docID)
		if err != nil {
			return err
		}
		r, err := st.RubricRepo().Get(ctx, docID)
		if err != nil {
			return err
		}
		if r.Empty() {
			return errors.New("the document's rubric has no criteria to score")
		}

		sess, err := grading.NewSession(doc.ID, r, parseStudents(studentsFlag))
		if err != nil {
			return err
		}
		svc := grading.NewService(st.ScoreRepo(), st.GradeRepo(), logger)
		if resume != "" {
			sess.ID = resume
			if err := svc.Resume(ctx, sess); err != nil {
				return err
			}
		}
		logger.Info("grading session started",
			"session", sess.ID,
			"resumed", resume != "",
			"document", doc.ID,
			"scheme", r.Scheme,
			"students", len(sess.Students))

		opts := scoring.Options{Date: date, AssessmentType: assessmentType}
		return app.Run(rubricview.New(doc.Title, sess, svc, opts), r.DisplayLabel())
	},
}

func init() {
	gradeCmd.Flags().StringP("document", "d", "", "Document ID (see `penilai extract --save` or `penilai generate`)")
	gradeCmd.Flags().StringP("students", "s", "", "Comma-separated student names")
	gradeCmd.Flags().StringP("type", "t", "Formatif", "Assessment type recorded with the grades")
	gradeCmd.Flags().String("date", "", "Assessment date, YYYY-MM-DD (default: today)")
	gradeCmd.Flags().String("resume", "", "Session ID whose saved draft scores to load")
	_ = gradeCmd.MarkFlagRequired("document")
	_ = gradeCmd.MarkFlagRequired("students")
}

func parseStudents(s string) []string {
	var out []string
	for name := range strings.SplitSeq(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
