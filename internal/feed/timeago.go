package feed

import (
	"strconv"
	"time"
)

// TimeAgo renders the age of then relative to now using the largest
// non-zero unit.
func TimeAgo(then, now time.Time) string {
	elapsed := now.Sub(then)
	minutes := int64(elapsed / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return strconv.FormatInt(days, 10) + "day(s) ago"
	case hours > 0:
		return strconv.FormatInt(hours, 10) + "hrs ago"
	case minutes > 0:
		return strconv.FormatInt(minutes, 10) + "min ago"
	default:
		return "Just now"
	}
}

// TimeAgoFromNow is TimeAgo against the wall clock, for templates.
func TimeAgoFromNow(then time.Time) string {
	return TimeAgo(then, time.Now())
}
