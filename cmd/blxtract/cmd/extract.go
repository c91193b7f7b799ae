package cmd

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/yookoala/realpath"

	"github.com/vicschmitt/blxtract/pkg/extract"
	"github.com/vicschmitt/blxtract/pkg/progress"
)

var (
	metricsOnce    sync.Once
	extractMetrics *extract.Metrics
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [flags] <file> [<file>...]",
	Short: "Split BLX files into per-record part files",
	Long: `Split one or more BLX files into records, writing one part file per
record as <source>.partNNNN in the output directory.

Each input file is processed independently: a file that cannot be read,
written, or that fails ordered validation is reported and skipped, and the
remaining files are still processed. The exit code is non-zero if any file
failed.

Examples:
  blxtract extract dump1.blx dump2.blx
  blxtract extract --ordered --progress --output-dir ./parts dump.blx
  blxtract extract --decode --stdout dump.blx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().Bool("ordered", false, "Validate that all delimiter candidates agree before extracting")
	extractCmd.Flags().Bool("progress", false, "Report per-file progress on stderr")
	extractCmd.Flags().Bool("decode", false, "ROT-decode record payloads and trim at the end marker")
	extractCmd.Flags().Bool("keep-delims", false, "Emit raw record ranges including their leading delimiter")
	extractCmd.Flags().Bool("stdout", false, "Write all records to stdout instead of part files")
	extractCmd.Flags().StringP("output-dir", "o", "", "Directory for part files (default: config output_dir)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ordered, _ := cmd.Flags().GetBool("ordered")
	showProgress, _ := cmd.Flags().GetBool("progress")
	decode, _ := cmd.Flags().GetBool("decode")
	keepDelims, _ := cmd.Flags().GetBool("keep-delims")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}

	set, err := cfg.DelimiterSet()
	if err != nil {
		return err
	}
	opts := extract.Options{
		Set:        set,
		Ordered:    ordered,
		Decode:     decode || cfg.Decode,
		KeepDelims: keepDelims,
		Rotation:   cfg.Rotation,
	}
	if cfg.EndMarker != "" {
		opts.EndMarker = []byte(cfg.EndMarker)
	}

	if !toStdout {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	metricsOnce.Do(func() {
		extractMetrics = extract.NewMetrics()
	})

	batch := extract.NewBatchResult()
	tracker := progress.New(os.Stderr, len(args), showProgress)
	start := time.Now()
	fmt.Fprintf(os.Stderr, "[-] blxtract: extracting %d files (run %s)\n", len(args), batch.RunID)

	var streamSink *extract.StreamSink
	if toStdout {
		streamSink = extract.NewStreamSink(cmd.OutOrStdout())
	}

	for _, arg := range args {
		res, perr := extractOne(arg, opts, outputDir, streamSink, tracker)
		if perr != nil {
			fmt.Fprintf(os.Stderr, "[-] %s: %v\n", arg, perr)
		} else {
			fmt.Fprintf(os.Stderr, "[+] %s: %d records\n", arg, res.Records)
		}
		batch.Add(res, perr)
	}

	fmt.Fprintf(os.Stderr, "[-] done in %s: %d records from %d files, %d failed\n",
		time.Since(start).Round(time.Millisecond), batch.Records(), len(args), batch.Failures)

	if batch.Failed() {
		return fmt.Errorf("%d of %d files failed", batch.Failures, len(args))
	}
	return nil
}

// extractOne processes a single input file, choosing a per-file part sink
// unless a shared stream sink is in use.
func extractOne(arg string, opts extract.Options, outputDir string, streamSink *extract.StreamSink, tracker *progress.Tracker) (extract.FileResult, error) {
	path, err := realpath.Realpath(arg)
	if err != nil {
		return extract.FileResult{Path: arg}, &extract.IOError{Path: arg, Op: "resolve", Err: err}
	}

	var size int64
	if info, serr := os.Stat(path); serr == nil {
		size = info.Size()
	}
	tracker.Start(arg, size)

	var sink extract.Sink = streamSink
	if streamSink == nil {
		sink = extract.NewPartFileSink(outputDir, path)
	}

	res, err := extract.ProcessFile(path, opts, sink, extractMetrics)
	tracker.Done(arg, res.Records, err)
	return res, err
}
