package access_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/domain/access"
	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

func sampleRow() entity.AdvisorRow {
	joined := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return entity.AdvisorRow{
		AdvisorName:  "Jane Doe",
		AdvisorEmail: "jane@example.com",
		AdvisorPhone: "+1 555 0100",
		SGAName:      "John Smith",
		SGMName:      "Casey Morgan",
		AUM:          decimal.NewFromInt(1_500_000),
		ClosedCount:  7,
		JoinedAt:     &joined,
	}
}

func TestAnonymizer_EnmascaraIdentidadYConservaMetricas(t *testing.T) {
	anon := access.NewAnonymizer("salt-de-test")
	out := anon.AdvisorRow(sampleRow())

	assert.True(t, strings.HasPrefix(out.AdvisorName, "Advisor "))
	assert.NotContains(t, out.AdvisorName, "Jane")
	assert.Empty(t, out.AdvisorEmail)
	assert.Empty(t, out.AdvisorPhone)
	assert.Empty(t, out.SGAName)
	assert.Empty(t, out.SGMName)

	// Montos, conteos y fechas sobreviven intactos.
	assert.True(t, out.AUM.Equal(decimal.NewFromInt(1_500_000)))
	assert.Equal(t, 7, out.ClosedCount)
	require.NotNil(t, out.JoinedAt)
}

// El pseudónimo es estable: agregado y drill-down muestran el mismo alias.
func TestAnonymizer_PseudonimoEstable(t *testing.T) {
	anon := access.NewAnonymizer("salt-de-test")
	assert.Equal(t, anon.Pseudonym("Jane Doe"), anon.Pseudonym("Jane Doe"))
	assert.NotEqual(t, anon.Pseudonym("Jane Doe"), anon.Pseudonym("John Smith"))
}

// Sales distintas producen alias distintos: los pseudónimos no son enlazables
// entre despliegues.
func TestAnonymizer_SalDistintaAliasDistinto(t *testing.T) {
	a := access.NewAnonymizer("salt-a")
	b := access.NewAnonymizer("salt-b")
	assert.NotEqual(t, a.Pseudonym("Jane Doe"), b.Pseudonym("Jane Doe"))
}

func TestAnonymizer_NoMutaLasFilasOriginales(t *testing.T) {
	anon := access.NewAnonymizer("salt-de-test")
	rows := []entity.AdvisorRow{sampleRow()}
	_ = anon.AdvisorRows(rows)
	assert.Equal(t, "Jane Doe", rows[0].AdvisorName,
		"las filas de entrada (posiblemente cacheadas) no deben mutarse")
}

func TestRequiresAnonymization_SoloCapitalPartner(t *testing.T) {
	cp, err := access.Resolve(descriptorFor("capital_partner"))
	require.NoError(t, err)
	assert.True(t, access.RequiresAnonymization(cp))

	for _, role := range []string{"admin", "manager", "sgm", "sga", "revops_admin", "viewer"} {
		p, err := access.Resolve(descriptorFor(role))
		require.NoError(t, err)
		assert.False(t, access.RequiresAnonymization(p), "rol %s no debe anonimizar", role)
	}
}
