// Package ytextract extracts video metadata from YouTube channels over a
// configurable publish window and packages it as CSV tables.
//
// Overview
//
// The pipeline runs per channel: resolve the uploads playlist, enumerate
// every upload, keep the videos published inside the window, fetch full
// details for the survivors, and emit one video table row per video plus
// one channel summary row. Batch runs repeat this for a list of channel
// identifiers, skipping channels that fail instead of aborting the run.
//
// Quick Start
//
// Extract the last six months of one channel:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := youtube.NewClient(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	window := extract.WindowFromMonthsBack(6, time.Now())
//	result, err := extract.New(client).ExtractChannel(ctx, "UCxxxxx", window)
//
// Package the result for delivery:
//
//	f, _ := os.Create("channel.zip")
//	export.WriteArchive(f, result.Videos, []extract.ChannelSummary{result.Summary})
//
// Configuration
//
// ytextract loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytextract.json or ~/.config/ytextract/ytextract.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YT_DATA_API: YouTube Data API v3 key (required)
//   - YTEXTRACT_BASE_URL: Override the API host (used in tests)
//   - YTEXTRACT_HTTP_TIMEOUT: Per-request HTTP timeout
//   - YTEXTRACT_MONTHS_BACK: Default look-back window in months
//   - YTEXTRACT_OUTPUT_DIR: Directory for export archives
//   - YTEXTRACT_MAX_RETRIES: Maximum retry attempts after the first try
//   - YTEXTRACT_INITIAL_BACKOFF: Initial retry backoff duration
//   - YTEXTRACT_MAX_BACKOFF: Maximum retry backoff duration
//
// A .env file in the working directory is honored.
//
// Error Handling
//
// All operations return errors that implement standard Go error handling.
//
// Checking for sentinel errors:
//
//	if errors.Is(err, ytextract.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Extracting wrapped error details:
//
//	var exhausted *ytextract.ExhaustedError
//	if errors.As(err, &exhausted) {
//		fmt.Printf("%s gave up after %d attempts: %v\n", exhausted.Op, exhausted.Attempts, exhausted.Err)
//	}
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: Data API client (channels, playlists, video details)
//   - extract: Window math, filtering, and the per-channel pipeline
//   - export: CSV tables and zip packaging
//   - server: HTTP delivery of extraction runs
//   - config: Configuration management
//   - retry: Exponential backoff retry logic
//
package ytextract
