package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/docimport"
	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/rubricfile"
	"github.com/abhisek/penilai/internal/store"
	"github.com/abhisek/penilai/internal/ui/theme"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the assessment rubric from a lesson-plan document",
	Long: "Reads a markdown or HTML lesson plan (\"-\" for stdin), recovers its assessment\n" +
		"rubric and prints it. With --json the output is a rubric file usable by `penilai score`.",
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("json", false, "Print the rubric as a JSON rubric file")
	extractCmd.Flags().Bool("report", false, "Show how the document was parsed and which rows were skipped")
	extractCmd.Flags().Bool("save", false, "Store the document and its rubric in the database")
	extractCmd.Flags().String("format", "", "Input format: markdown or html (default: detect)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	showReport, _ := cmd.Flags().GetBool("report")
	save, _ := cmd.Flags().GetBool("save")
	formatFlag, _ := cmd.Flags().GetString("format")

	name := args[0]
	data, err := readInput(cmd, name)
	if err != nil {
		return err
	}

	format, err := docimport.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	if format == "" {
		format = docimport.DetectFormat(name, data)
	}
	md, err := docimport.NewImporter().Import(bytes.NewReader(data), format)
	if err != nil {
		return err
	}

	kw, err := cfg.Keywords()
	if err != nil {
		return err
	}
	r, report := rubric.NewParser(kw).ParseWithReport(md)
	logger.Debug("rubric extracted",
		"file", name,
		"scheme", r.Scheme,
		"criteria", len(r.Criteria),
		"path", report.Path,
		"skipped", len(report.Skipped))

	title := docimport.Title(md, filepath.Base(name))
	file := rubricfile.File{Version: rubricfile.Version, Title: title, Rubric: r}

	if save {
		id, err := saveDocument(cmd, title, "import:"+filepath.Base(name), md, r)
		if err != nil {
			return err
		}
		file.DocumentID = id
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved document %s\n", id)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if showReport {
			printReport(cmd.ErrOrStderr(), report)
		}
		return rubricfile.Write(out, file)
	}

	printRubric(out, title, r)
	if showReport {
		fmt.Fprintln(out)
		printReport(out, report)
	}
	return nil
}

// readInput reads a named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	var r io.Reader = cmd.InOrStdin()
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, docimport.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func saveDocument(cmd *cobra.Command, title, source, md string, r rubric.Rubric) (string, error) {
	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()

	ctx := cmd.Context()
	doc := &store.Document{Title: title, Source: source, Markdown: md}
	if err := st.DocumentRepo().Save(ctx, doc); err != nil {
		return "", err
	}
	if err := st.RubricRepo().Save(ctx, doc.ID, r); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func printRubric(w io.Writer, title string, r rubric.Rubric) {
	lipgloss.Fprintln(w, theme.Title.Render(title))
	lipgloss.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("%s, %d criteria", r.DisplayLabel(), len(r.Criteria))))
	if r.Empty() {
		lipgloss.Fprintln(w, theme.Hint.Render("No assessment criteria found."))
		return
	}

	headers := []string{"#", "Aspect", "Indicator"}
	if r.Scheme == rubric.SchemeRubric {
		headers = []string{"#", "Aspect", "4", "3", "2", "1"}
	}
	t := newTable(headers, 0).Wrap(true)

	for i, c := range r.Criteria {
		row := []string{fmt.Sprint(i + 1), c.Aspect}
		if r.Scheme == rubric.SchemeRubric {
			for score := rubric.MaxLevel; score >= 1; score-- {
				row = append(row, levelText(c.Levels, score))
			}
		} else {
			row = append(row, c.Indicator)
		}
		t.Row(row...)
	}
	lipgloss.Fprintln(w, t.Render())
}

func levelText(levels []rubric.Level, score int) string {
	for _, l := range levels {
		if l.Score == score {
			if l.Description == "" {
				return l.Label
			}
			return l.Description
		}
	}
	return ""
}

func printReport(w io.Writer, report rubric.Report) {
	fmt.Fprintf(w, "Tables: %d (%d content)\n", report.Blocks, report.ContentBlocks)
	fmt.Fprintf(w, "Scheme: %s\n", report.Classified)
	fmt.Fprintf(w, "Path:   %s\n", report.Path)
	if len(report.Skipped) == 0 {
		return
	}
	fmt.Fprintf(w, "Skipped rows (%d):\n", len(report.Skipped))
	for _, s := range report.Skipped {
		fmt.Fprintf(w, "  %-24s %s\n", s.Reason, truncate(strings.TrimSpace(s.Row), 60))
	}
}
