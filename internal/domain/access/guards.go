package access

// Guards del Authorizer: predicados totales, sin efectos secundarios, que se
// evalúan al inicio de cada operación protegida, antes de cualquier I/O. Un
// deny corta la ejecución antes de que se lance consulta alguna.

// RequiresPage permite el acceso si la página está en el set del rol.
//
// Las reglas generales por rol prevalecen sobre AllowedPages: aunque el set
// venga manipulado, un recruiter nunca accede a una superficie analítica.
func RequiresPage(p Permissions, page PageID) bool {
	if p.Role == RoleRecruiter && isAnalyticsPage(page) {
		return false
	}
	return p.AllowedPages[page]
}

// ForbidRoles deniega si el rol del principal está en la lista. Se declara en
// cada punto de composición (no es una regla global): los endpoints marcados
// capital-partner-restricted la invocan con RoleCapitalPartner.
func ForbidRoles(p Permissions, roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return false
		}
	}
	return true
}

// RequireAnyRole permite solo si el rol está en la lista.
func RequireAnyRole(p Permissions, roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// AdvisorFilter filtros de fila efectivos para una consulta analítica.
type AdvisorFilter struct {
	SGANames       []string
	SGMNames       []string
	RecruiterNames []string
}

// EffectiveAdvisorFilter combina el filtro pedido por el caller con el filtro
// personal del principal. El filtro personal SIEMPRE reemplaza al del caller
// para su campo, nunca se une con él: un sga con filtro "Jane Doe" que pida
// sga_names=["John Smith"] solo ve filas de "Jane Doe".
func EffectiveAdvisorFilter(p Permissions, requested AdvisorFilter) AdvisorFilter {
	out := requested
	if p.SGAFilter != "" {
		out.SGANames = []string{p.SGAFilter}
	}
	if p.SGMFilter != "" {
		out.SGMNames = []string{p.SGMFilter}
	}
	if p.RecruiterFilter != "" {
		out.RecruiterNames = []string{p.RecruiterFilter}
	}
	return out
}

func isAnalyticsPage(page PageID) bool {
	switch page {
	case PageDashboard, PageFunnel, PageLeaderboard, PageAdvisorDetail, PageHub:
		return true
	}
	return false
}
