package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/domain"
	"github.com/russellmoss/dashboard-api/internal/domain/access"
)

// ──────────────────────────────────────────────────────────────────────────────
// Resolve — descriptor → Permissions
// ──────────────────────────────────────────────────────────────────────────────

func descriptorFor(role string) access.SessionDescriptor {
	d := access.SessionDescriptor{
		UserID: "u-1",
		Email:  "user@example.com",
		Role:   role,
	}
	switch role {
	case "sga":
		d.SGAFilter = "Jane Doe"
	case "sgm":
		d.SGMFilter = "Casey Morgan"
	case "recruiter":
		d.RecruiterFilter = "Alex Reed"
	}
	return d
}

func TestResolve_TodosLosRolesConocidosResuelven(t *testing.T) {
	roles := []string{"admin", "manager", "sgm", "sga", "revops_admin", "recruiter", "capital_partner", "viewer"}
	for _, role := range roles {
		p, err := access.Resolve(descriptorFor(role))
		require.NoError(t, err, "rol %s debe resolver", role)
		assert.Equal(t, role, p.Role.String())
		assert.NotEmpty(t, p.AllowedPages, "rol %s debe tener al menos una página", role)
	}
}

func TestResolve_RolDesconocidoEsSesionInvalida(t *testing.T) {
	_, err := access.Resolve(access.SessionDescriptor{
		UserID: "u-1", Email: "user@example.com", Role: "superadmin",
	})
	assert.ErrorIs(t, err, domain.ErrSessionInvalid,
		"un rol fuera del conjunto cerrado nunca degrada a viewer")
}

func TestResolve_EmailVacioEsSesionInvalida(t *testing.T) {
	_, err := access.Resolve(access.SessionDescriptor{UserID: "u-1", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrSessionInvalid)
}

func TestResolve_RolConFiltroObligatorioSinFiltro(t *testing.T) {
	for _, role := range []string{"sga", "sgm", "recruiter"} {
		d := descriptorFor(role)
		d.SGAFilter, d.SGMFilter, d.RecruiterFilter = "", "", ""
		_, err := access.Resolve(d)
		assert.ErrorIs(t, err, domain.ErrSessionInvalid,
			"rol %s sin su filtro personal debe ser sesión inválida, no acceso amplio", role)
	}
}

// Solo el filtro del campo propio del rol se copia a Permissions; los demás
// se descartan aunque vengan en el descriptor.
func TestResolve_SoloSeCopiaElFiltroDelRol(t *testing.T) {
	d := descriptorFor("sga")
	d.SGMFilter = "colado"
	d.RecruiterFilter = "colado"

	p, err := access.Resolve(d)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.SGAFilter)
	assert.Empty(t, p.SGMFilter, "un sga no debe arrastrar filtro de sgm")
	assert.Empty(t, p.RecruiterFilter)
}

func TestResolve_FiltrosVaciosParaRolesSinFiltro(t *testing.T) {
	p, err := access.Resolve(descriptorFor("admin"))
	require.NoError(t, err)
	assert.Empty(t, p.SGAFilter)
	assert.Empty(t, p.SGMFilter)
	assert.Empty(t, p.RecruiterFilter)
}

// ──────────────────────────────────────────────────────────────────────────────
// Capacidades por rol
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_RecruiterSinPaginasAnaliticas(t *testing.T) {
	p, err := access.Resolve(descriptorFor("recruiter"))
	require.NoError(t, err)
	for _, page := range []access.PageID{
		access.PageDashboard, access.PageFunnel, access.PageLeaderboard,
		access.PageAdvisorDetail, access.PageHub,
	} {
		assert.False(t, p.AllowedPages[page],
			"recruiter no debe tener la página analítica %s", page)
	}
}

func TestResolve_AdminGestionaUsuarios(t *testing.T) {
	p, err := access.Resolve(descriptorFor("admin"))
	require.NoError(t, err)
	assert.True(t, p.CanManageUsers)

	v, err := access.Resolve(descriptorFor("viewer"))
	require.NoError(t, err)
	assert.False(t, v.CanManageUsers)
}
