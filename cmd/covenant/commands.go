package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/covenant/internal/config"
	"github.com/JaimeStill/covenant/pkg/extract"
	"github.com/JaimeStill/covenant/pkg/risk"
	"github.com/JaimeStill/covenant/pkg/segmenter"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type analyzeOptions struct {
	threshold      int
	baseConfidence float64
	safeConfidence float64
	lexicon        string
	workers        int
	format         string
	riskyOnly      bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "covenant",
		Short:         "Segment contracts into clauses and flag risky ones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSegmentCmd(),
		newAnalyzeCmd(),
		newLexiconCmd(),
	)

	return root
}

func newSegmentCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "segment <file>",
		Short: "Split a .txt or .pdf contract into clauses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			text, err := readContract(cmd, args[0])
			if err != nil {
				return err
			}

			clauses := segmenter.Segment(text)
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), risk.NewClauses(clauses))
			}
			return writeSegments(cmd.OutOrStdout(), args[0], clauses)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or json")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Classify every clause of a contract and summarize the risk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.format); err != nil {
				return err
			}

			classifier, err := newClassifier(cmd, opts)
			if err != nil {
				return err
			}

			text, err := readContract(cmd, args[0])
			if err != nil {
				return err
			}

			clauses, summary := classifier.Analyze(text)
			report := newReport(args[0], clauses, summary, opts.riskyOnly)

			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.threshold, "threshold", 0, "distinct keyword matches needed to label a clause Risky")
	f.Float64Var(&opts.baseConfidence, "base-confidence", 0, "confidence of a Risky clause before the keyword bonus")
	f.Float64Var(&opts.safeConfidence, "safe-confidence", 0, "confidence reported for Safe clauses")
	f.StringVar(&opts.lexicon, "lexicon", "", "path to a TOML lexicon replacing the built-in one")
	f.IntVar(&opts.workers, "workers", 0, "classification goroutines (defaults to the CPU count)")
	f.StringVar(&opts.format, "format", formatText, "output format: text or json")
	f.BoolVar(&opts.riskyOnly, "risky-only", false, "list only Risky clauses; the summary still covers all clauses")

	return cmd
}

func newLexiconCmd() *cobra.Command {
	var (
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the keyword lexicon and categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			cfg := risk.Config{LexiconPath: path}
			if err := cfg.Finalize(config.RiskEnv); err != nil {
				return err
			}
			if path != "" {
				cfg.LexiconPath = path
			}

			lexicon, err := cfg.Lexicon()
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), lexicon.File())
			}
			return writeLexicon(cmd.OutOrStdout(), lexicon)
		},
	}

	cmd.Flags().StringVar(&path, "lexicon", "", "path to a TOML lexicon replacing the built-in one")
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text or json")
	return cmd
}

// newClassifier resolves thresholds from defaults, then COVENANT_RISK_*
// variables, then explicitly set flags.
func newClassifier(cmd *cobra.Command, opts analyzeOptions) (*risk.Classifier, error) {
	var cfg risk.Config
	if err := cfg.Finalize(config.RiskEnv); err != nil {
		return nil, err
	}

	var overlay risk.Config
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		overlay.KeywordThreshold = opts.threshold
	}
	if flags.Changed("base-confidence") {
		overlay.BaseRiskyConfidence = risk.Confidence(opts.baseConfidence)
	}
	if flags.Changed("safe-confidence") {
		overlay.SafeConfidence = risk.Confidence(opts.safeConfidence)
	}
	if flags.Changed("workers") {
		overlay.Workers = opts.workers
	}
	overlay.LexiconPath = opts.lexicon

	cfg.Merge(&overlay)
	if err := cfg.Finalize(nil); err != nil {
		return nil, err
	}

	lexicon, err := cfg.Lexicon()
	if err != nil {
		return nil, err
	}

	return risk.New(lexicon, cfg), nil
}

// readContract extracts a contract's text. Pages that could not be read are
// reported on stderr and the remaining text is kept.
func readContract(cmd *cobra.Command, path string) (string, error) {
	contentType := extract.ContentTypeFor(path)
	if contentType == "" {
		return "", fmt.Errorf("%w: %s (only .txt and .pdf are accepted)", extract.ErrUnsupportedType, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	text, err := extract.Text(data, contentType)
	if errors.Is(err, extract.ErrPartial) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
		return text, nil
	}
	return text, err
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q: use text or json", format)
}
