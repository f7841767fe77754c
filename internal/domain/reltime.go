package domain

import (
	"fmt"
	"time"
)

// RelativeTime renders an RFC 3339 timestamp the way the feed displays it:
// under an hour is "Just now", under a day "Nh ago", under a week "Nd ago",
// anything older a plain date. Unparseable input is returned as-is.
func RelativeTime(iso string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}

	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return "Just now"
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
