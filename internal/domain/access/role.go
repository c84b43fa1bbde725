// Package access contiene las reglas de autorización del gateway analítico:
// el tipo cerrado Role, la tabla de capacidades por rol, la resolución del
// principal, los guards y el proyector de anonimización.
//
// Todo el paquete es puro: sin I/O, sin estado mutable, apto para ejecutarse
// en cada request sin latencia añadida.
package access

// Role tipo cerrado de roles. Las listas de pertenencia ad hoc por endpoint
// quedan prohibidas: toda decisión sale de la tabla de capacidades.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleSGM            Role = "sgm"
	RoleSGA            Role = "sga"
	RoleRevOpsAdmin    Role = "revops_admin"
	RoleRecruiter      Role = "recruiter"
	RoleCapitalPartner Role = "capital_partner"
	RoleViewer         Role = "viewer"
)

// ParseRole valida un rol serializado (claims JWT, columna de DB).
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := capabilities[r]
	return r, ok
}

func (r Role) String() string { return string(r) }

// PageID páginas del dashboard sujetas a routing por rol.
type PageID string

const (
	PageDashboard     PageID = "dashboard"
	PageFunnel        PageID = "funnel"
	PageLeaderboard   PageID = "leaderboard"
	PageAdvisorDetail PageID = "advisor_detail"
	PageHub           PageID = "hub" // segunda superficie analítica, tag de caché independiente
	PageGoals         PageID = "goals"
	PageRequests      PageID = "requests"
	PageUsers         PageID = "users"
	PageGame          PageID = "game"
)

// capability capacidades por defecto de un rol. filterField indica qué filtro
// personal exige el rol ("" = ninguno).
type capability struct {
	pages             []PageID
	filterField       string // "sga", "sgm", "recruiter"
	canExport         bool
	canManageUsers    bool
	canManageRequests bool
}

// capabilities tabla única de capacidades. Se consume en todos los puntos de
// composición; ningún endpoint declara su propia lista de roles.
var capabilities = map[Role]capability{
	RoleAdmin: {
		pages: []PageID{
			PageDashboard, PageFunnel, PageLeaderboard, PageAdvisorDetail,
			PageHub, PageGoals, PageRequests, PageUsers, PageGame,
		},
		canExport:         true,
		canManageUsers:    true,
		canManageRequests: true,
	},
	RoleManager: {
		pages: []PageID{
			PageDashboard, PageFunnel, PageLeaderboard, PageAdvisorDetail,
			PageHub, PageGoals, PageRequests, PageGame,
		},
		canExport:         true,
		canManageRequests: true,
	},
	RoleSGM: {
		pages: []PageID{
			PageDashboard, PageFunnel, PageLeaderboard, PageAdvisorDetail,
			PageGoals, PageGame,
		},
		filterField: "sgm",
		canExport:   true,
	},
	RoleSGA: {
		pages: []PageID{
			PageDashboard, PageFunnel, PageLeaderboard, PageAdvisorDetail,
			PageGoals, PageGame,
		},
		filterField: "sga",
	},
	RoleRevOpsAdmin: {
		pages: []PageID{
			PageDashboard, PageFunnel, PageLeaderboard, PageAdvisorDetail,
			PageHub, PageRequests, PageUsers,
		},
		canExport:         true,
		canManageUsers:    true,
		canManageRequests: true,
	},
	// Recruiter tiene denegación general de superficies analíticas: solo sus
	// propias herramientas. La regla se refuerza en los guards aunque alguien
	// manipule AllowedPages.
	RoleRecruiter: {
		pages:       []PageID{PageRequests, PageGame},
		filterField: "recruiter",
	},
	// Capital partner ve agregados; los endpoints marcados restricted le
	// aplican además el proyector de anonimización.
	RoleCapitalPartner: {
		pages: []PageID{PageDashboard, PageLeaderboard, PageAdvisorDetail},
	},
	RoleViewer: {
		pages: []PageID{PageDashboard, PageGame},
	},
}
