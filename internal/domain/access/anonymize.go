package access

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// Anonymizer proyector de anonimización para el rol capital_partner: sustituye
// los campos identificadores de las filas por un pseudónimo estable y descarta
// el detalle de contacto, preservando montos, fechas y conteos.
//
// Es el ÚLTIMO paso antes de que una respuesta salga del gateway; ningún
// código posterior puede leer los campos sin enmascarar.
type Anonymizer struct {
	salt []byte
}

// NewAnonymizer construye el proyector. La sal hace el pseudónimo estable
// dentro de un despliegue pero no reversible ni enlazable entre entornos.
func NewAnonymizer(salt string) *Anonymizer {
	return &Anonymizer{salt: []byte(salt)}
}

// RequiresAnonymization indica si las filas de un endpoint restringido deben
// pasar por el proyector para este principal.
func RequiresAnonymization(p Permissions) bool {
	return p.Role == RoleCapitalPartner
}

// AdvisorRows enmascara una lista de filas. Siempre devuelve copias: las
// filas originales (posiblemente cacheadas) no se tocan.
func (a *Anonymizer) AdvisorRows(rows []entity.AdvisorRow) []entity.AdvisorRow {
	out := make([]entity.AdvisorRow, len(rows))
	for i, r := range rows {
		out[i] = a.AdvisorRow(r)
	}
	return out
}

// AdvisorRow enmascara una fila individual. El drill-down de un solo asesor
// devuelve exactamente esta misma forma, nunca la identidad cruda.
func (a *Anonymizer) AdvisorRow(r entity.AdvisorRow) entity.AdvisorRow {
	r.AdvisorName = a.Pseudonym(r.AdvisorName)
	r.AdvisorEmail = ""
	r.AdvisorPhone = ""
	r.SGAName = ""
	r.SGMName = ""
	return r
}

// Pseudonym "Advisor " + primeros 4 bytes hex del SHA-256 salteado del nombre.
// Estable: el mismo asesor recibe el mismo pseudónimo en agregado y drill-down.
func (a *Anonymizer) Pseudonym(name string) string {
	h := sha256.New()
	h.Write(a.salt)
	h.Write([]byte(name))
	sum := h.Sum(nil)
	return fmt.Sprintf("Advisor %s", hex.EncodeToString(sum[:4]))
}
