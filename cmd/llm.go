package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/llm"
	"github.com/abhisek/penilai/internal/store"
	"github.com/abhisek/penilai/internal/ui/theme"
)

const eventTimeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls made while generating lesson plans",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		t := newTable([]string{"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK"}, 0, 4, 5, 6)
		rows := 0
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "yes"
			if !e.Success {
				ok = "no"
			}
			t.Row(
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format(eventTimeLayout),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			)
			rows++
		}

		out := cmd.OutOrStdout()
		if rows == 0 {
			fmt.Fprintln(out, "No LLM calls recorded.")
			return nil
		}
		lipgloss.Fprintln(out, t.Render())
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event ID %q", args[0])
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printEvent(w io.Writer, e *store.LLMEvent) {
	field := func(name, value string) {
		lipgloss.Fprintln(w, theme.Subtitle.Render(fmt.Sprintf("%-9s", name))+" "+value)
	}
	field("ID", strconv.Itoa(e.ID))
	field("Time", e.Timestamp.Local().Format(eventTimeLayout))
	field("Provider", e.Provider)
	field("Model", e.Model)
	field("Purpose", e.Purpose)
	field("Tokens", fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", e.LatencyMs))
	if e.Success {
		field("Status", theme.Met.Render("ok"))
	} else {
		field("Status", theme.Unmet.Render("failed: "+e.ErrorMessage))
	}

	section := func(name, body string) {
		fmt.Fprintln(w)
		lipgloss.Fprintln(w, theme.Title.Render(name))
		if body == "" {
			lipgloss.Fprintln(w, theme.Hint.Render("(not captured)"))
			return
		}
		fmt.Fprintln(w, body)
	}
	section("Request", e.RequestBody)
	section("Response", e.ResponseBody)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		byPurpose, err := st.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		byModel, err := st.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printPurposeUsage(out, byPurpose)
		fmt.Fprintln(out)
		printModelCost(out, byModel)
		return nil
	},
}

func printPurposeUsage(w io.Writer, usage []store.PurposeUsage) {
	t := newTable([]string{"Purpose", "Calls", "Failures", "Input", "Output", "Avg ms"}, 1, 2, 3, 4, 5)
	var calls, failures, in, outTok int
	for _, u := range usage {
		t.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.Failures),
			strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.Itoa(u.AvgLatencyMs))
		calls += u.Calls
		failures += u.Failures
		in += u.InputTokens
		outTok += u.OutputTokens
	}
	t.Row("total", strconv.Itoa(calls), strconv.Itoa(failures), strconv.Itoa(in), strconv.Itoa(outTok), "")

	lipgloss.Fprintln(w, theme.Title.Render("Usage by purpose"))
	lipgloss.Fprintln(w, t.Render())
}

func printModelCost(w io.Writer, usage []store.ModelUsage) {
	t := newTable([]string{"Model", "Calls", "Input", "Output", "Cost (USD)"}, 1, 2, 3, 4)
	var total float64
	var unpriced []string
	for _, u := range usage {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		t.Row(truncate(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
	}
	label := "total"
	if len(unpriced) > 0 {
		label = "total (partial)"
	}
	t.Row(label, "", "", "", formatCost(total))

	lipgloss.Fprintln(w, theme.Title.Render("Estimated cost"))
	lipgloss.Fprintln(w, t.Render())
	if len(unpriced) > 0 {
		lipgloss.Fprintln(w, theme.Hint.Render("No pricing for: "+strings.Join(unpriced, ", ")))
	}
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose (e.g. lesson-plan)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
