package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/intlscan/intlscan/internal/catalog"
	"github.com/intlscan/intlscan/internal/config"
	"github.com/intlscan/intlscan/internal/report"
	"github.com/intlscan/intlscan/internal/scan"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "intlscan",
	Short: "Static analyzer for translation-key usage in JS/TS frontends",
	Long: `intlscan scans a JS/TS/JSX/TSX source tree, resolves every
translation lookup to its fully qualified catalog key, and diffs the
result against the shipped locale catalogs to report missing, unused,
and misused entries.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPathFlag string
	verboseFlag    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "Path to config file (default .intlscan.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Show progress on stderr")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(watchCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scan sources, diff against catalogs, and write the JSON report",
	Long: `Check runs the full analysis once. The report is written to the
configured report path (or --output) and the exit code is non-zero when
the run has errors or missing keys.`,
	RunE: runCheck,
}

var (
	outputFlag string
	prettyFlag bool
)

func init() {
	checkCmd.Flags().StringVar(&outputFlag, "output", "", "Report output path (overrides config)")
	checkCmd.Flags().BoolVar(&prettyFlag, "pretty", false, "Indent the JSON report")
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print every discovered translation key with its usage count",
	RunE:  runKeys,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis whenever sources or catalogs change",
	RunE:  runWatch,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return err
	}

	rep, err := runAnalysis(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	outputPath := cfg.ReportPath
	if outputFlag != "" {
		outputPath = outputFlag
	}
	data, err := rep.JSON(prettyFlag)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printSummary(rep)
	// Exit policy: pass only with zero errors and zero missing keys.
	if !rep.Clean() {
		return fmt.Errorf("%d errors, %d missing keys", rep.Summary.ErrorCount, rep.Summary.MissingKeys)
	}
	return nil
}

func runKeys(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPathFlag)
	if err != nil {
		return err
	}

	rep, err := runAnalysis(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	for _, key := range rep.TranslationKeys {
		fmt.Printf("%s (%d)\n", key, len(rep.KeyUsages[key]))
	}
	return nil
}

// runAnalysis is one full pipeline pass: discover inputs, scan, index,
// assemble. The core packages stay pure; all file discovery happens here.
func runAnalysis(ctx context.Context, cfg *config.Config) (*report.Report, error) {
	runID := uuid.NewString()
	logf("run %s: scanning %v\n", runID, cfg.SourceDirs)

	paths, err := discoverSources(cfg)
	if err != nil {
		return nil, err
	}
	logf("run %s: %d source files\n", runID, len(paths))

	scanner := scan.New(scan.Options{
		TranslationFunctionNames: cfg.TranslationFunctionNames,
		NamespaceHooks:           cfg.NamespaceHooks,
		Workers:                  cfg.Workers,
	})
	result := scanner.ScanFiles(ctx, paths)

	index, err := buildIndex(cfg)
	if err != nil {
		return nil, err
	}

	rep := report.Assemble(result, index, cfg.AllowMultiNamespaceKeys)
	logf("run %s: %d call sites, %d unique keys\n", runID, rep.Summary.TotalKeys, rep.Summary.UniqueKeys)
	return rep, nil
}

func buildIndex(cfg *config.Config) (*catalog.Index, error) {
	index := catalog.NewIndex()
	for _, locale := range cfg.Locales {
		paths, err := discoverCatalogs(cfg.CatalogDir, locale)
		if err != nil {
			return nil, err
		}
		if len(paths) == 0 {
			return nil, fmt.Errorf("no catalog files found for locale %q under %s", locale, cfg.CatalogDir)
		}
		tree, err := catalog.LoadLocale(paths)
		if err != nil {
			return nil, err
		}
		index.AddLocale(tree)
		logf("locale %s: %d catalog files\n", locale, len(paths))
	}
	return index, nil
}

func printSummary(rep *report.Report) {
	s := rep.Summary
	fmt.Printf("Scanned %d/%d files: %d keys (%d unique)\n", s.ScannedFiles, s.TotalFiles, s.TotalKeys, s.UniqueKeys)
	fmt.Printf("Missing: %d  Unused: %d  Misused: %d  Errors: %d  Warnings: %d\n",
		s.MissingKeys, s.UnusedKeys, s.MisuseKeys, s.ErrorCount, s.WarningCount)
	for _, e := range rep.Errors {
		fmt.Printf("  [%s] %s: %s\n", e.Type, e.File, e.Error)
	}
}

func logf(format string, args ...interface{}) {
	if verboseFlag {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
