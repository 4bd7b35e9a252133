package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/lessonplan"
	"github.com/abhisek/penilai/internal/llm"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a lesson plan with an LLM and store it with its rubric",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		class, _ := cmd.Flags().GetString("class")
		topic, _ := cmd.Flags().GetString("topic")
		phase, _ := cmd.Flags().GetString("phase")
		duration, _ := cmd.Flags().GetString("duration")
		schemeName, _ := cmd.Flags().GetString("scheme")
		notes, _ := cmd.Flags().GetString("notes")
		outPath, _ := cmd.Flags().GetString("out")

		req := lessonplan.Request{
			Subject:  subject,
			Class:    class,
			Topic:    topic,
			Phase:    phase,
			Duration: duration,
			Scheme:   rubric.ParseScheme(schemeName),
			Notes:    notes,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), logger)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}
		kw, err := cfg.Keywords()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Generating lesson plan...")
		plan, err := lessonplan.NewService(provider, kw, cfg.LessonPlan, logger).Generate(ctx, req)
		if err != nil {
			return err
		}

		doc := &store.Document{Title: plan.Title, Source: "generated", Markdown: plan.Markdown, CreatedAt: plan.GeneratedAt}
		if err := st.DocumentRepo().Save(ctx, doc); err != nil {
			return err
		}
		if err := st.RubricRepo().Save(ctx, doc.ID, plan.Rubric); err != nil {
			return err
		}

		if outPath != "" {
			if err := os.WriteFile(outPath, []byte(plan.Markdown), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
		}

		out := cmd.OutOrStdout()
		printRubric(out, plan.Title, plan.Rubric)
		fmt.Fprintf(out, "\nDocument: %s\n", doc.ID)
		if plan.Rubric.Empty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: no assessment criteria were found in the generated plan.")
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().String("subject", "", "Subject (mata pelajaran), e.g. Matematika")
	generateCmd.Flags().String("class", "", "Class (kelas), e.g. VII")
	generateCmd.Flags().String("topic", "", "Topic (materi pokok)")
	generateCmd.Flags().String("phase", "", "Curriculum phase (fase), e.g. D")
	generateCmd.Flags().String("duration", "", "Time allocation, e.g. \"2 x 40 menit\"")
	generateCmd.Flags().String("scheme", "", "Assessment scheme: rubric, descriptive-criteria, value-interval (default: model decides)")
	generateCmd.Flags().String("notes", "", "Extra instructions for the model")
	generateCmd.Flags().StringP("out", "o", "", "Also write the lesson plan markdown to this file")
}
