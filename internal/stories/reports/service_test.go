package reports

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"canal-panel/internal/stories/dashboard"
)

type fakeSource struct {
	points  []dashboard.MetricPoint
	txs     []dashboard.Transaction
	err     error
	filters []dashboard.MetricsFilter
}

func (f *fakeSource) MetricsSummary(ctx context.Context, filter dashboard.MetricsFilter) ([]dashboard.MetricPoint, error) {
	f.filters = append(f.filters, filter)
	return f.points, f.err
}

func (f *fakeSource) ListTransactions(ctx context.Context) ([]dashboard.Transaction, error) {
	return f.txs, f.err
}

func newTestService(src Source) *Service {
	s := NewService(src, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestTimeLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		period Period
		want   string
	}{
		{PeriodDay, "2026-03-03"},
		{PeriodWeek, "2026-01-13"},
		{PeriodMonth, "2025-09-10"},
		{PeriodYear, "2021-03-10"},
	}
	for _, tt := range tests {
		got := TimeLimit(tt.period, now)
		if got.Format(time.RFC3339) != tt.want+"T00:00:00Z" {
			t.Errorf("TimeLimit(%s) = %s, want %s midnight", tt.period, got, tt.want)
		}
	}
}

func TestAudienceDaily(t *testing.T) {
	src := &fakeSource{points: []dashboard.MetricPoint{
		{Date: "2026-03-05", NewUsers: 3},
		{Date: "2026-03-09", NewUsers: 4},
		{Date: "2026-01-01", NewUsers: 5},
	}}
	s := newTestService(src)

	got := s.Audience(context.Background(), PeriodDay, AudienceFilter{})

	wantTotals := []int{0, 0, 3, 3, 3, 3, 7, 7}
	if len(got) != len(wantTotals) {
		t.Fatalf("buckets = %d, want %d: %+v", len(got), len(wantTotals), got)
	}
	for i, p := range got {
		if p.Total != wantTotals[i] {
			t.Errorf("bucket %s total = %d, want %d", p.Date, p.Total, wantTotals[i])
		}
	}
	if got[0].Date != "2026-03-03" || got[7].Date != "2026-03-10" {
		t.Errorf("range = %s..%s", got[0].Date, got[7].Date)
	}

	f := src.filters[0]
	if f.GroupBy != "day" || f.Since == nil || !f.Since.Equal(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("filter = %+v", f)
	}
}

func TestAudienceBuckets(t *testing.T) {
	tests := []struct {
		period    Period
		wantCount int
		wantFirst string
		wantLast  string
	}{
		{PeriodWeek, 9, "2026-01-12", "2026-03-09"},
		{PeriodMonth, 7, "2025-09-01", "2026-03-01"},
		{PeriodYear, 6, "2021-01-01", "2026-01-01"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			s := newTestService(&fakeSource{points: []dashboard.MetricPoint{{Date: "2026-03-05", NewUsers: 2}}})

			got := s.Audience(context.Background(), tt.period, AudienceFilter{})
			if len(got) != tt.wantCount {
				t.Fatalf("buckets = %d, want %d", len(got), tt.wantCount)
			}
			if got[0].Date != tt.wantFirst || got[len(got)-1].Date != tt.wantLast {
				t.Errorf("range = %s..%s, want %s..%s", got[0].Date, got[len(got)-1].Date, tt.wantFirst, tt.wantLast)
			}
			if last := got[len(got)-1]; last.Total != 2 {
				t.Errorf("final stock = %d, want 2", last.Total)
			}
		})
	}
}

func TestAudienceStockNeverNegative(t *testing.T) {
	s := newTestService(&fakeSource{points: []dashboard.MetricPoint{
		{Date: "2026-03-04", NewUsers: -5},
		{Date: "2026-03-06", NewUsers: 3},
	}})

	for _, p := range s.Audience(context.Background(), PeriodDay, AudienceFilter{}) {
		if p.Total < 0 {
			t.Errorf("bucket %s total = %d", p.Date, p.Total)
		}
	}
}

func TestAudienceFailureIsZeroFilled(t *testing.T) {
	s := newTestService(&fakeSource{err: errors.New("down")})

	got := s.Audience(context.Background(), PeriodDay, AudienceFilter{})
	if len(got) != 8 {
		t.Fatalf("buckets = %d, want 8", len(got))
	}
	for _, p := range got {
		if p.Total != 0 || p.NewUsers != 0 {
			t.Errorf("bucket = %+v", p)
		}
	}
}

func TestRevenue(t *testing.T) {
	s := newTestService(&fakeSource{txs: []dashboard.Transaction{
		{Amount: 1000, Status: "Completada", Method: "mercadopago"},
		{Amount: 0.1, Status: "success", Method: "Stripe"},
		{Amount: 0.2, Status: "success", Method: "stripe"},
		{Amount: 50, Status: "completada", Method: "cripto"},
		{Amount: 25, Status: "completada", Method: "coinbase"},
		{Amount: 999, Status: "Pendiente", Method: "stripe"},
		{Amount: 7, Status: "completada", Method: "transferencia"},
	}})

	got := s.Revenue(context.Background())
	want := RevenueTotals{ARS: 1000, USD: 0.3, Crypto: 75}
	if got != want {
		t.Errorf("Revenue() = %+v, want %+v", got, want)
	}
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod(""); err != nil || p != PeriodDay {
		t.Errorf("empty = %v, %v", p, err)
	}
	if _, err := ParsePeriod("decade"); err == nil {
		t.Error("expected error")
	}
}
