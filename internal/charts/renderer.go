package charts

import (
	"fmt"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Renderer memoizes chart PNGs. Keys include the ledger revision, so any
// saved mutation makes older images unreachable; the LRU ages them out.
type Renderer struct {
	cache  cache.Cache[[]byte]
	logger *log.Logger
}

func NewRenderer(c cache.Cache[[]byte], logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Discard()
	}
	return &Renderer{cache: c, logger: logger.WithComponent(log.ComponentCharts)}
}

func (r *Renderer) Trend(revision int64, p core.Period, series core.MonthlySeries) ([]byte, error) {
	key := fmt.Sprintf("trend:%d:%s:%d", revision, p, len(series.Periods))
	return r.render(key, func() ([]byte, error) { return RenderTrend(series) })
}

func (r *Renderer) Breakdown(revision int64, p core.Period, breakdown []core.CategoryAmount) ([]byte, error) {
	key := fmt.Sprintf("breakdown:%d:%s", revision, p)
	return r.render(key, func() ([]byte, error) { return RenderBreakdown(breakdown) })
}

func (r *Renderer) render(key string, draw func() ([]byte, error)) ([]byte, error) {
	if r.cache != nil {
		if png, ok := r.cache.Get(key); ok {
			return png, nil
		}
	}
	png, err := draw()
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Set(key, png)
	}
	r.logger.Debug("Rendered chart", "key", key, log.FieldBytes, len(png))
	return png, nil
}
