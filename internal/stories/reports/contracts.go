package reports

import (
	"context"

	"canal-panel/internal/stories/dashboard"
)

type (
	// Source is the part of the backend the summary page reads.
	Source interface {
		MetricsSummary(ctx context.Context, filter dashboard.MetricsFilter) ([]dashboard.MetricPoint, error)
		ListTransactions(ctx context.Context) ([]dashboard.Transaction, error)
	}
)
