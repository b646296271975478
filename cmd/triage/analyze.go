package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Triage/internal/analysis"
	"github.com/MikeSquared-Agency/Triage/internal/intake"
	"github.com/MikeSquared-Agency/Triage/internal/render"
	"github.com/MikeSquared-Agency/Triage/internal/scoring"
)

type analyzeOptions struct {
	file   string
	form   intake.Form
	today  string
	format string
	top    int
	width  int
}

type analyzeOutput struct {
	RunID         uuid.UUID             `json:"run_id"`
	ReferenceDate string                `json:"reference_date"`
	Tasks         []analysis.ScoredTask `json:"tasks"`
	Notices       []string              `json:"notices"`
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score tasks from flags and/or a JSON file",
		Long: `Score tasks and print them highest priority first.

Examples:
  # One task from flags
  triage analyze --title "Fix login" --due 2024-06-01 --hours 1 --importance 10 --deps a,b

  # A JSON array of records, scored as of a fixed date
  triage analyze --file tasks.json --today 2024-06-01 --format json

  # Read the array from stdin and render HTML cards
  cat tasks.json | triage analyze --file - --format html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), time.Now)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.file, "file", "f", "", "JSON array of task records ('-' for stdin)")
	f.StringVar(&opts.form.Title, "title", "", "single task title")
	f.StringVar(&opts.form.DueDate, "due", "", "single task due date (YYYY-MM-DD)")
	f.StringVar(&opts.form.EstimatedHours, "hours", "", "single task estimated hours")
	f.StringVar(&opts.form.Importance, "importance", "", "single task importance (1-10)")
	f.StringVar(&opts.form.Dependencies, "deps", "", "comma-separated ids of tasks this one blocks")
	f.StringVar(&opts.today, "today", "", "reference date (YYYY-MM-DD), default today")
	f.StringVarP(&opts.format, "format", "o", "text", "output format: text, json or html")
	f.IntVarP(&opts.top, "top", "n", 0, "only print the first N tasks (0 = all)")
	f.IntVar(&opts.width, "width", 72, "card width for text output")
	return cmd
}

func runAnalyze(opts analyzeOptions, stdin io.Reader, out, errOut io.Writer, now func() time.Time) error {
	switch opts.format {
	case "text", "json", "html":
	default:
		return fmt.Errorf("unknown format %q (want text, json or html)", opts.format)
	}

	ref := scoring.Midnight(now())
	if opts.today != "" {
		t, err := time.Parse(analysis.DateLayout, opts.today)
		if err != nil {
			return fmt.Errorf("--today must be YYYY-MM-DD: %w", err)
		}
		ref = t
	}

	var bulk []byte
	if opts.file != "" {
		var err error
		if opts.file == "-" {
			bulk, err = io.ReadAll(stdin)
		} else {
			bulk, err = os.ReadFile(opts.file)
		}
		if err != nil {
			return fmt.Errorf("read tasks: %w", err)
		}
	}

	batch := intake.CollectBatch(opts.form, bulk)
	if batch.Notices == nil {
		batch.Notices = []string{}
	}

	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn}))
	analyzer := analysis.NewAnalyzer(scoring.NewScorer(scoring.DefaultPolicy()), nil, logger)
	result := analyzer.Analyze(batch.Records, ref)

	tasks := result.Tasks
	if opts.top > 0 {
		tasks = result.Top(opts.top)
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(analyzeOutput{
			RunID:         result.RunID,
			ReferenceDate: result.ReferenceDate.Format(analysis.DateLayout),
			Tasks:         tasks,
			Notices:       batch.Notices,
		})
	case "html":
		return render.HTML(out, tasks, batch.Notices)
	default:
		for _, n := range batch.Notices {
			fmt.Fprintln(errOut, n)
		}
		_, err := fmt.Fprintln(out, render.Terminal(tasks, opts.width))
		return err
	}
}
