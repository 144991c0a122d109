package reports

import (
	"fmt"
	"time"

	"canal-panel/internal/stories/dashboard"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return p, nil
	case "":
		return PeriodDay, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// AudienceFilter narrows the audience chart; nil means all.
type AudienceFilter struct {
	ClientID    *int64
	ChannelKind *dashboard.ChannelKind
}

// AudiencePoint is one bucket of the audience chart. Total is the running subscriber stock,
// never below zero.
type AudiencePoint struct {
	Date     string `json:"date"`
	NewUsers int    `json:"new_users"`
	Total    int    `json:"total"`
}

// RevenueTotals sums completed transactions per payout currency.
type RevenueTotals struct {
	ARS    float64 `json:"ars"`
	USD    float64 `json:"usd"`
	Crypto float64 `json:"crypto"`
}

const dateLayout = "2006-01-02"

// TimeLimit is the first instant the chart covers for period, at midnight UTC.
func TimeLimit(period Period, now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodWeek:
		return today.AddDate(0, 0, -56)
	case PeriodMonth:
		return today.AddDate(0, -6, 0)
	case PeriodYear:
		return today.AddDate(-5, 0, 0)
	default:
		return today.AddDate(0, 0, -7)
	}
}

// bucketStart truncates t to the start of its bucket: the day, the Monday of its week,
// the first of its month or January 1st.
func bucketStart(period Period, t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch period {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func nextBucket(period Period, t time.Time) time.Time {
	switch period {
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	case PeriodMonth:
		return t.AddDate(0, 1, 0)
	case PeriodYear:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}
