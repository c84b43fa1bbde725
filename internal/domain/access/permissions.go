package access

import (
	"strings"

	"github.com/russellmoss/dashboard-api/internal/domain"
)

// SessionDescriptor campos del principal extraídos del token firmado. La
// verificación de firma ocurre aguas arriba (pkg/jwt + middleware); aquí el
// descriptor ya es de confianza.
type SessionDescriptor struct {
	UserID          string
	Email           string
	Role            string
	SGAFilter       string
	SGMFilter       string
	RecruiterFilter string
}

// Permissions capacidad efectiva de un principal. Se recalcula en cada
// request desde el descriptor; nunca se muta después de construirse.
//
// Invariante: exactamente uno de SGAFilter/SGMFilter/RecruiterFilter es no
// vacío para los roles que exigen filtro personal; los demás van vacíos.
type Permissions struct {
	Role              Role
	UserID            string
	Email             string
	AllowedPages      map[PageID]bool
	SGAFilter         string
	SGMFilter         string
	RecruiterFilter   string
	CanExport         bool
	CanManageUsers    bool
	CanManageRequests bool
}

// Resolve convierte un descriptor de sesión verificado en Permissions.
//
// Función pura y síncrona: sin red ni storage. Descriptor malformado o
// incompleto → domain.ErrSessionInvalid (el caller debe tratarlo como no
// autenticado, no como forbidden).
func Resolve(d SessionDescriptor) (Permissions, error) {
	if strings.TrimSpace(d.Email) == "" {
		return Permissions{}, domain.ErrSessionInvalid
	}
	role, ok := ParseRole(d.Role)
	if !ok {
		return Permissions{}, domain.ErrSessionInvalid
	}
	cap := capabilities[role]

	p := Permissions{
		Role:              role,
		UserID:            d.UserID,
		Email:             d.Email,
		AllowedPages:      make(map[PageID]bool, len(cap.pages)),
		CanExport:         cap.canExport,
		CanManageUsers:    cap.canManageUsers,
		CanManageRequests: cap.canManageRequests,
	}
	for _, pg := range cap.pages {
		p.AllowedPages[pg] = true
	}

	// Solo el filtro que exige el rol se copia del descriptor; los otros dos
	// se descartan aunque vengan poblados (token emitido por una versión
	// anterior, o manipulado).
	switch cap.filterField {
	case "sga":
		if strings.TrimSpace(d.SGAFilter) == "" {
			return Permissions{}, domain.ErrSessionInvalid
		}
		p.SGAFilter = d.SGAFilter
	case "sgm":
		if strings.TrimSpace(d.SGMFilter) == "" {
			return Permissions{}, domain.ErrSessionInvalid
		}
		p.SGMFilter = d.SGMFilter
	case "recruiter":
		if strings.TrimSpace(d.RecruiterFilter) == "" {
			return Permissions{}, domain.ErrSessionInvalid
		}
		p.RecruiterFilter = d.RecruiterFilter
	}

	return p, nil
}
