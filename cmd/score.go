package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/rubric"
	"github.com/abhisek/penilai/internal/rubricfile"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a final score from per-criterion scores",
	Example: "  penilai score --rubric plan.json --entry 0=4,1=3,2=2\n" +
		"  penilai score --scheme value-interval --criteria 3 --entry 0=80,1=92.5",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rubricPath, _ := cmd.Flags().GetString("rubric")
		schemeName, _ := cmd.Flags().GetString("scheme")
		n, _ := cmd.Flags().GetInt("criteria")
		entryFlag, _ := cmd.Flags().GetString("entry")

		scheme := rubric.ParseScheme(schemeName)
		if rubricPath != "" {
			f, err := os.Open(rubricPath)
			if err != nil {
				return err
			}
			r, err := rubricfile.Load(f)
			f.Close()
			if err != nil {
				return err
			}
			scheme, n = r.Scheme, len(r.Criteria)
		} else if schemeName == "" {
			return fmt.Errorf("either --rubric or --scheme is required")
		}

		entry, err := parseEntry(entryFlag)
		if err != nil {
			return err
		}
		if err := rubric.ValidateEntry(scheme, n, entry); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), rubric.FinalScoreN(scheme, n, entry))
		return nil
	},
}

func init() {
	scoreCmd.Flags().String("rubric", "", "Rubric file produced by `penilai extract --json`")
	scoreCmd.Flags().String("scheme", "", "Scheme when no rubric file is given: rubric, descriptive-criteria, value-interval")
	scoreCmd.Flags().Int("criteria", 0, "Number of criteria when no rubric file is given")
	scoreCmd.Flags().StringP("entry", "e", "", "Scores as index=value pairs, 0-based (e.g. 0=4,1=3)")
}

// parseEntry parses "0=4,1=3.5" into an Entry. A repeated index keeps the
// last value.
func parseEntry(s string) (rubric.Entry, error) {
	entry := rubric.Entry{}
	for pair := range strings.SplitSeq(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q: want index=value", pair)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("invalid criterion index %q", k)
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q for criterion %d", v, idx)
		}
		entry[idx] = val
	}
	return entry, nil
}
