package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"ytextract/config"
	"ytextract/export"
	"ytextract/extract"
	"ytextract/server"
	"ytextract/youtube"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "single":
		cmdSingle(args)
	case "batch":
		cmdBatch(args)
	case "serve":
		cmdServe(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytextract - YouTube channel metadata extractor

Usage:
  ytextract single [flags] <channel-id>   Extract one channel, abort on any error
  ytextract batch [flags]                 Extract many channels, skip the ones that fail
  ytextract serve [flags]                 Run the HTTP extraction endpoint
  ytextract help                          Show this help message

Examples:
  ytextract single UCxxxxxxxxxxxxxxxxxxxxxx                   # Last 6 months
  ytextract single --months 12 UCxxxxxxxxxxxxxxxxxxxxxx       # Last 12 months
  ytextract batch --file channels.txt --label tech            # IDs from a file
  ytextract batch --ids UCaaa,UCbbb --months 3                # IDs inline
  ytextract serve --addr :8080                                # HTTP server

The YouTube Data API key is read from the YT_DATA_API environment
variable (a .env file in the working directory is honored).

For help on a specific command: ytextract <command> -h
`)
}

func cmdSingle(args []string) {
	fs := flag.NewFlagSet("single", flag.ExitOnError)
	months := fs.Int("months", 0, "Months to look back (default from config)")
	outDir := fs.String("dir", "", "Directory for the archive (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytextract single [flags] <channel-id>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing channel-id\n")
		fs.Usage()
		os.Exit(1)
	}
	channelID := argv[0]

	cfg, extractor := setup(*months, *outDir)
	extractor.OnProgress = printProgress

	window := extract.WindowFromMonthsBack(cfg.MonthsBack, time.Now())
	fmt.Fprintf(os.Stderr, "Extracting %s, window %s...\n", channelID, window)

	result, err := extractor.ExtractChannel(context.Background(), channelID, window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting channel: %v\n", err)
		os.Exit(1)
	}

	name := export.SingleArchiveName(result.Summary.ChannelName, len(result.Videos))
	path := writeArchiveFile(cfg.OutputDir, name, result.Videos, []extract.ChannelSummary{result.Summary})

	printSummaries([]extract.ChannelSummary{result.Summary})
	fmt.Fprintf(os.Stderr, "\n%d videos in range. Archive: %s\n", len(result.Videos), path)
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	file := fs.String("file", "", "File with one channel ID per line")
	ids := fs.String("ids", "", "Comma-separated channel IDs")
	months := fs.Int("months", 0, "Months to look back (default from config)")
	label := fs.String("label", "", "Label used in the archive filename")
	outDir := fs.String("dir", "", "Directory for the archive (default from config)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytextract batch [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	channelIDs, err := collectIDs(*file, *ids)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(channelIDs) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no channel IDs given (use --file or --ids)\n")
		fs.Usage()
		os.Exit(1)
	}

	cfg, extractor := setup(*months, *outDir)
	extractor.OnProgress = printProgress

	window := extract.WindowFromMonthsBack(cfg.MonthsBack, time.Now())
	fmt.Fprintf(os.Stderr, "Extracting %d channels, window %s...\n", len(channelIDs), window)

	result := extractor.ExtractBatch(context.Background(), channelIDs, window)

	for _, f := range result.Failures {
		fmt.Fprintf(os.Stderr, "Skipped %s (failed while %s): %v\n", f.ChannelID, f.Stage, f.Err)
	}
	if len(result.Summaries) == 0 {
		fmt.Fprintf(os.Stderr, "Error: every channel failed, nothing to export\n")
		os.Exit(1)
	}

	name := export.BatchArchiveName(*label)
	path := writeArchiveFile(cfg.OutputDir, name, result.Videos, result.Summaries)

	printSummaries(result.Summaries)
	fmt.Fprintf(os.Stderr, "\nRun %s: %d videos from %d channels (%d skipped). Archive: %s\n",
		result.RunID, len(result.Videos), len(result.Summaries), len(result.Failures), path)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytextract serve [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg, extractor := setup(0, "")

	srv := server.New(extractor, cfg)
	fmt.Fprintf(os.Stderr, "Listening on %s\n", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: server stopped: %v\n", err)
		os.Exit(1)
	}
}

// setup loads config, applies command-line overrides, and builds the
// extractor. Callers that want per-channel status lines attach
// printProgress themselves.
func setup(months int, outDir string) (*config.Config, *extract.Extractor) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if months != 0 {
		if months < 1 || months > 60 {
			fmt.Fprintf(os.Stderr, "Error: --months must be between 1 and 60\n")
			os.Exit(1)
		}
		cfg.MonthsBack = months
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}

	client, err := youtube.NewClient(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating API client: %v\n", err)
		os.Exit(1)
	}

	return cfg, extract.New(client)
}

func printProgress(p extract.Progress) {
	switch p.Stage {
	case extract.StageDetailing:
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: fetching details for %d videos\n", p.Index, p.Total, p.ChannelID, p.VideosInRange)
	case extract.StageEmpty:
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: no uploads in window\n", p.Index, p.Total, p.ChannelID)
	case extract.StageDone:
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: done, %d videos\n", p.Index, p.Total, p.ChannelID, p.VideosInRange)
	case extract.StageFailed:
		// Failures are reported separately with the error attached.
	default:
		fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", p.Index, p.Total, p.ChannelID, p.Stage)
	}
}

// collectIDs merges the --file and --ids sources, preserving order.
func collectIDs(file, inline string) ([]string, error) {
	var out []string

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if id := strings.TrimSpace(line); id != "" {
				out = append(out, id)
			}
		}
	}

	if inline != "" {
		for _, part := range strings.Split(inline, ",") {
			if id := strings.TrimSpace(part); id != "" {
				out = append(out, id)
			}
		}
	}

	return out, nil
}

func writeArchiveFile(dir, name string, videos []youtube.VideoRecord, summaries []extract.ChannelSummary) string {
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating archive: %v\n", err)
		os.Exit(1)
	}

	if err := export.WriteArchive(f, videos, summaries); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Error writing archive: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing archive: %v\n", err)
		os.Exit(1)
	}

	return path
}

func printSummaries(summaries []extract.ChannelSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHANNEL ID\tNAME\tSUBSCRIBERS\tTOTAL VIDEOS\tIN RANGE")

	for _, s := range summaries {
		subs := ""
		if s.Subscribers != nil {
			subs = fmt.Sprintf("%d", *s.Subscribers)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			s.ChannelID,
			truncate(s.ChannelName, 40),
			subs,
			s.TotalVideos,
			s.VideosInRange,
		)
	}
	w.Flush()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
