package funnel

import (
	"fmt"
	"time"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// Granularity tamaño del bucket de la tendencia.
type Granularity string

const (
	ByMonth   Granularity = "month"
	ByQuarter Granularity = "quarter"
)

// ParseGranularity valida el parámetro; vacío → mensual.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case ByMonth, Granularity(""):
		return ByMonth, true
	case ByQuarter:
		return ByQuarter, true
	}
	return "", false
}

// TrendPoint un bucket de la serie temporal. Los buckets sin registros
// aparecen igualmente con tasa 0: los consumidores de gráficas dependen de
// una secuencia completa y contigua.
type TrendPoint struct {
	BucketStart time.Time `json:"bucket_start"`
	Label       string    `json:"label"` // "2026-03" o "2026-Q1"
	Counts
	Rate float64 `json:"rate"`
}

// Trend serie de conversión por bucket para una transición, ordenada
// ascendente por inicio de bucket, sin huecos entre from y to.
func Trend(records []entity.FunnelRecord, t Transition, mode Mode, from, to time.Time, g Granularity) []TrendPoint {
	if !from.Before(to) {
		return []TrendPoint{}
	}
	var points []TrendPoint
	for start := bucketStart(from, g); start.Before(to); start = nextBucket(start, g) {
		// La ventana de cada bucket se recorta a [from, to): el primer y el
		// último bucket pueden ser parciales aunque su etiqueta sea la del
		// bucket completo.
		winStart := start
		if winStart.Before(from) {
			winStart = from
		}
		end := nextBucket(start, g)
		if end.After(to) {
			end = to
		}
		c := Convert(records, t, mode, winStart, end)
		points = append(points, TrendPoint{
			BucketStart: start,
			Label:       bucketLabel(start, g),
			Counts:      c,
			Rate:        c.Rate(),
		})
	}
	return points
}

// bucketStart trunca una fecha al inicio de su bucket.
func bucketStart(tm time.Time, g Granularity) time.Time {
	switch g {
	case ByQuarter:
		qm := time.Month(((int(tm.Month())-1)/3)*3 + 1)
		return time.Date(tm.Year(), qm, 1, 0, 0, 0, 0, tm.Location())
	default:
		return time.Date(tm.Year(), tm.Month(), 1, 0, 0, 0, 0, tm.Location())
	}
}

func nextBucket(start time.Time, g Granularity) time.Time {
	if g == ByQuarter {
		return start.AddDate(0, 3, 0)
	}
	return start.AddDate(0, 1, 0)
}

func bucketLabel(start time.Time, g Granularity) string {
	if g == ByQuarter {
		q := (int(start.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", start.Year(), q)
	}
	return start.Format("2006-01")
}
