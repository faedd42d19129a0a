package youtube

import "regexp"

// ISO-8601 duration as the API reports it: PT1H2M3S, PT45S, P1DT2H.
// Weeks/months/years never appear for video lengths and are not accepted.
var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts compact ISO-8601 duration text into total
// seconds. It returns nil on any parse failure; callers must treat nil as
// "duration unknown", not as zero.
func ParseISODuration(text string) *int64 {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	// "P" alone carries no components and is not a duration.
	if m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "" {
		return nil
	}

	var seconds int64
	seconds += atoi(m[1]) * 24 * 3600
	seconds += atoi(m[2]) * 3600
	seconds += atoi(m[3]) * 60
	seconds += atoi(m[4])
	return &seconds
}

// atoi parses a digit run already vetted by the pattern; empty means zero.
func atoi(s string) int64 {
	var n int64
	for _, r := range s {
		n = n*10 + int64(r-'0')
	}
	return n
}
