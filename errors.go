package ytextract

import (
	"ytextract/retry"
	"ytextract/youtube"
)

// Error handling types exported for library users.
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytextract.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var exhausted *ytextract.ExhaustedError
//	if errors.As(err, &exhausted) {
//		fmt.Printf("%s failed after %d attempts\n", exhausted.Op, exhausted.Attempts)
//	}

// Type aliases for convenient error handling.
type (
	// ExhaustedError wraps the final error after retries were exhausted.
	ExhaustedError = retry.ExhaustedError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrChannelNotFound indicates the YouTube channel does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = youtube.ErrMissingAPIKey
)

// IsRetryable determines if an error should be retried.
// It returns false for permanent errors like ErrChannelNotFound.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
