package notifier

import (
	"time"

	"entradalert/internal/common"
	"entradalert/internal/config"
)

// QuietHours is a daily window during which non-forced messages are held
// back. The window may cross midnight (start 22, end 7). Equal start and end
// disables it.
type QuietHours struct {
	start    int
	end      int
	location *time.Location
}

// NewQuietHours resolves the configured window and timezone.
func NewQuietHours(cfg config.MonitorConfig) (QuietHours, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return QuietHours{}, common.WrapErrorf(err, "failed to load timezone %s", cfg.Timezone)
	}
	return QuietHours{
		start:    cfg.QuietHoursStart,
		end:      cfg.QuietHoursEnd,
		location: location,
	}, nil
}

// Contains reports whether t falls inside the quiet window.
func (q QuietHours) Contains(t time.Time) bool {
	if q.start == q.end {
		return false
	}
	hour := t.In(q.location).Hour()
	if q.start < q.end {
		return hour >= q.start && hour < q.end
	}
	// Window crosses midnight.
	return hour >= q.start || hour < q.end
}
