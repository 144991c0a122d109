package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/samber/lo"

	"canal-panel/internal/stories/dashboard"
)

type metricPointDTO struct {
	Fecha          string `json:"fecha"`
	NuevosUsuarios int    `json:"nuevos_usuarios"`
}

func metricsQuery(filter dashboard.MetricsFilter) url.Values {
	q := url.Values{"group_by": {lo.Ternary(filter.GroupBy != "", filter.GroupBy, "day")}}
	if filter.ClientID != nil {
		q.Set("cliente_id", strconv.FormatInt(*filter.ClientID, 10))
	}
	if filter.ChannelKind != nil {
		q.Set("canal_type", string(*filter.ChannelKind))
	}
	if filter.Since != nil {
		q.Set("fecha_inicio", filter.Since.UTC().Format(time.RFC3339))
	}
	return q
}

// MetricsSummary returns new-subscriber counts per bucket. Buckets with no joins are absent.
func (c *Client) MetricsSummary(ctx context.Context, filter dashboard.MetricsFilter) ([]dashboard.MetricPoint, error) {
	var rows []metricPointDTO
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/metricas/resumen",
		query:  metricsQuery(filter),
	}, &rows)
	if err != nil {
		return nil, errors.Wrap(err, "metrics summary")
	}
	return lo.Map(rows, func(r metricPointDTO, _ int) dashboard.MetricPoint {
		return dashboard.MetricPoint{Date: r.Fecha, NewUsers: r.NuevosUsuarios}
	}), nil
}
