// Package funnel implementa el motor numérico del funnel de reclutamiento:
// tasas de conversión por transición bajo dos semánticas temporales (period y
// cohort) y tendencias por bucket mensual o trimestral.
//
// Todo es aritmética pura sobre fechas de etapa; el mismo dataset por registro
// alimenta ambos modos sin almacenamiento separado.
package funnel

import (
	"time"

	"github.com/russellmoss/dashboard-api/internal/domain/entity"
)

// Mode semántica temporal de la conversión. Parámetro a nivel de request.
type Mode string

const (
	// ModePeriod cuenta transiciones completadas dentro de la ventana,
	// independiente de cuándo ocurrió la etapa anterior. Responde "cuántas
	// conversiones cerraron este período"; infravalora la eficiencia real.
	ModePeriod Mode = "period"
	// ModeCohort mide la cohorte que entró a la etapa anterior dentro de la
	// ventana y qué fracción alcanzó la posterior en cualquier momento. Es la
	// vista de eficiencia del funnel.
	ModeCohort Mode = "cohort"
)

// ParseMode valida el parámetro de modo; vacío → cohort (vista por defecto).
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModePeriod:
		return ModePeriod, true
	case ModeCohort, Mode(""):
		return ModeCohort, true
	}
	return "", false
}

// Transition las cuatro transiciones del funnel.
type Transition string

const (
	ContactedToQualified      Transition = "contacted_to_qualified"
	QualifiedToSalesQualified Transition = "qualified_to_sales_qualified"
	SalesQualifiedToOpp       Transition = "sales_qualified_to_opportunity"
	OppToClosed               Transition = "opportunity_to_closed"
)

// Transitions orden canónico para respuestas.
var Transitions = []Transition{
	ContactedToQualified,
	QualifiedToSalesQualified,
	SalesQualifiedToOpp,
	OppToClosed,
}

// ParseTransition valida el parámetro de transición.
func ParseTransition(s string) (Transition, bool) {
	for _, t := range Transitions {
		if Transition(s) == t {
			return t, true
		}
	}
	return "", false
}

// stageDates devuelve (fecha etapa anterior, fecha etapa posterior) para un registro.
func stageDates(r entity.FunnelRecord, t Transition) (earlier, later *time.Time) {
	switch t {
	case ContactedToQualified:
		return r.ContactedAt, r.QualifiedAt
	case QualifiedToSalesQualified:
		return r.QualifiedAt, r.SalesQualifiedAt
	case SalesQualifiedToOpp:
		return r.SalesQualifiedAt, r.OpportunityAt
	case OppToClosed:
		return r.OpportunityAt, r.ClosedAt
	}
	return nil, nil
}

// Counts numerador/denominador de una transición en una ventana.
type Counts struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Rate tasa de conversión. Denominador cero → 0, nunca NaN ni panic.
func (c Counts) Rate() float64 {
	if c.Denominator == 0 {
		return 0
	}
	return float64(c.Numerator) / float64(c.Denominator)
}

// inWindow ventana semiabierta [from, to).
func inWindow(t *time.Time, from, to time.Time) bool {
	return t != nil && !t.Before(from) && t.Before(to)
}

// Convert calcula los conteos de una transición bajo el modo indicado.
//
//   - period: denominador = registros con la fecha de la etapa anterior en la
//     ventana; numerador = registros con la fecha de la etapa posterior en la
//     ventana. Numerador y denominador salen de poblaciones de eventos
//     distintas.
//   - cohort: denominador = registros que entraron a la etapa anterior en la
//     ventana; numerador = el subconjunto de esa misma cohorte que alcanzó la
//     etapa posterior en cualquier momento (sin filtro de fecha adicional).
//     El numerador es siempre ⊆ del denominador.
func Convert(records []entity.FunnelRecord, t Transition, mode Mode, from, to time.Time) Counts {
	var c Counts
	for _, r := range records {
		earlier, later := stageDates(r, t)
		switch mode {
		case ModePeriod:
			if inWindow(earlier, from, to) {
				c.Denominator++
			}
			if inWindow(later, from, to) {
				c.Numerator++
			}
		case ModeCohort:
			if !inWindow(earlier, from, to) {
				continue
			}
			c.Denominator++
			if later != nil {
				c.Numerator++
			}
		}
	}
	return c
}

// Summary conteos y tasa de las cuatro transiciones sobre una ventana.
type Summary struct {
	Mode        Mode                 `json:"mode"`
	From        time.Time            `json:"from"`
	To          time.Time            `json:"to"`
	Transitions map[Transition]Stage `json:"transitions"`
}

// Stage resultado por transición.
type Stage struct {
	Counts
	Rate float64 `json:"rate"`
}

// Summarize calcula el resumen completo del funnel para la ventana.
func Summarize(records []entity.FunnelRecord, mode Mode, from, to time.Time) Summary {
	s := Summary{
		Mode:        mode,
		From:        from,
		To:          to,
		Transitions: make(map[Transition]Stage, len(Transitions)),
	}
	for _, t := range Transitions {
		c := Convert(records, t, mode, from, to)
		s.Transitions[t] = Stage{Counts: c, Rate: c.Rate()}
	}
	return s
}
