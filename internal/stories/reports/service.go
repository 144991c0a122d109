package reports

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"canal-panel/internal/stories/dashboard"
)

type Service struct {
	source Source
	logger *slog.Logger
	now    func() time.Time
}

func NewService(source Source, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// Audience returns one point per bucket from the period's time limit up to now. A failed
// read yields a zero-filled series.
func (s *Service) Audience(ctx context.Context, period Period, filter AudienceFilter) []AudiencePoint {
	now := s.now().UTC()
	since := TimeLimit(period, now)

	points, err := s.source.MetricsSummary(ctx, dashboard.MetricsFilter{
		GroupBy:     string(period),
		ClientID:    filter.ClientID,
		ChannelKind: filter.ChannelKind,
		Since:       &since,
	})
	if err != nil {
		s.logger.Error("Failed to load audience metrics, using empty", "period", period, "error", err)
		points = nil
	}

	return fillBuckets(period, since, now, points)
}

func fillBuckets(period Period, since, now time.Time, points []dashboard.MetricPoint) []AudiencePoint {
	joined := make(map[string]int, len(points))
	for _, p := range points {
		t, err := time.Parse(dateLayout, p.Date[:min(len(p.Date), len(dateLayout))])
		if err != nil {
			continue
		}
		joined[bucketStart(period, t).Format(dateLayout)] += p.NewUsers
	}

	var (
		out   []AudiencePoint
		stock int
	)
	for cur := bucketStart(period, since); !cur.After(now); cur = nextBucket(period, cur) {
		key := cur.Format(dateLayout)
		stock += joined[key]
		out = append(out, AudiencePoint{Date: key, NewUsers: joined[key], Total: max(0, stock)})
	}
	return out
}

// Revenue sums completed transactions. Methods are matched by substring the same way the
// payment service names them.
func (s *Service) Revenue(ctx context.Context) RevenueTotals {
	txs, err := s.source.ListTransactions(ctx)
	if err != nil {
		s.logger.Error("Failed to load transactions, using empty", "error", err)
		return RevenueTotals{}
	}

	var ars, usd, crypto decimal.Decimal
	for _, tx := range lo.Filter(txs, func(tx dashboard.Transaction, _ int) bool { return completed(tx.Status) }) {
		amount := decimal.NewFromFloat(tx.Amount)
		method := strings.ToLower(tx.Method)
		switch {
		case strings.Contains(method, "mercadopago"):
			ars = ars.Add(amount)
		case strings.Contains(method, "stripe"):
			usd = usd.Add(amount)
		case strings.Contains(method, "coinbase"), strings.Contains(method, "cripto"):
			crypto = crypto.Add(amount)
		}
	}

	return RevenueTotals{
		ARS:    ars.InexactFloat64(),
		USD:    usd.InexactFloat64(),
		Crypto: crypto.InexactFloat64(),
	}
}

func completed(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "completada", "success":
		return true
	}
	return false
}
