package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cherinet-woyesa/eoty-platform-sub004/internal/domain"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"Seconds Ago", now.Add(-30 * time.Second), "Just now"},
		{"Under An Hour", now.Add(-59 * time.Minute), "Just now"},
		{"Hours", now.Add(-5 * time.Hour), "5h ago"},
		{"Almost A Day", now.Add(-23 * time.Hour), "23h ago"},
		{"Days", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"Almost A Week", now.Add(-6*24*time.Hour - 12*time.Hour), "6d ago"},
		{"Older", now.Add(-30 * 24 * time.Hour), "Feb 13, 2025"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.RelativeTime(tc.at.Format(time.RFC3339), now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRelativeTime_Unparseable(t *testing.T) {
	assert.Equal(t, "not-a-time", domain.RelativeTime("not-a-time", time.Now()))
}
