package funnel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
	"github.com/russellmoss/dashboard-api/internal/domain/funnel"
)

// La serie mensual es contigua: seis meses de ventana producen exactamente
// seis buckets, incluidos los vacíos con tasa 0.
func TestTrend_BucketsMensualesContiguosSinHuecos(t *testing.T) {
	records := []entity.FunnelRecord{
		{ContactedAt: date(2026, 1, 15), QualifiedAt: date(2026, 1, 20)},
		// febrero..mayo sin actividad
		{ContactedAt: date(2026, 6, 2), QualifiedAt: date(2026, 6, 20)},
	}
	points := funnel.Trend(records, funnel.ContactedToQualified, funnel.ModeCohort, winFrom, winTo, funnel.ByMonth)
	require.Len(t, points, 6)

	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Label
	}
	assert.Equal(t, []string{"2026-01", "2026-02", "2026-03", "2026-04", "2026-05", "2026-06"}, labels)

	for _, p := range points[1:5] {
		assert.Equal(t, 0, p.Denominator, "bucket %s debe estar vacío", p.Label)
		assert.Equal(t, 0.0, p.Rate, "bucket vacío reporta tasa 0, no se omite")
	}
}

func TestTrend_BucketsOrdenadosAscendente(t *testing.T) {
	points := funnel.Trend(nil, funnel.ContactedToQualified, funnel.ModeCohort, winFrom, winTo, funnel.ByMonth)
	for i := 1; i < len(points); i++ {
		assert.True(t, points[i-1].BucketStart.Before(points[i].BucketStart))
	}
}

func TestTrend_Trimestral(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	points := funnel.Trend(nil, funnel.OppToClosed, funnel.ModePeriod, from, to, funnel.ByQuarter)
	require.Len(t, points, 4)
	assert.Equal(t, "2026-Q1", points[0].Label)
	assert.Equal(t, "2026-Q4", points[3].Label)
}

// El primer bucket se recorta al inicio real de la ventana: un registro del
// mismo mes pero anterior a from no cuenta, aunque la etiqueta del bucket sea
// la del mes completo.
func TestTrend_PrimerBucketRecortadoAlInicioDeVentana(t *testing.T) {
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []entity.FunnelRecord{
		{ContactedAt: date(2026, 3, 10), QualifiedAt: date(2026, 3, 12)}, // antes de from
		{ContactedAt: date(2026, 3, 20), QualifiedAt: date(2026, 3, 25)},
	}
	points := funnel.Trend(records, funnel.ContactedToQualified, funnel.ModeCohort, from, to, funnel.ByMonth)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-03", points[0].Label)
	assert.Equal(t, 1, points[0].Denominator, "el registro anterior a from queda fuera del primer bucket")
	assert.Equal(t, 1, points[0].Numerator)
}

// Una ventana que arranca a mitad de mes etiqueta el bucket por su mes.
func TestTrend_VentanaAMitadDeMes(t *testing.T) {
	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	points := funnel.Trend(nil, funnel.ContactedToQualified, funnel.ModeCohort, from, to, funnel.ByMonth)
	require.Len(t, points, 2)
	assert.Equal(t, "2026-03", points[0].Label)
}

func TestTrend_VentanaInvalidaDevuelveVacio(t *testing.T) {
	points := funnel.Trend(nil, funnel.ContactedToQualified, funnel.ModeCohort, winTo, winFrom, funnel.ByMonth)
	assert.Empty(t, points)
}
