package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/russellmoss/dashboard-api/pkg/logger"
	"github.com/russellmoss/dashboard-api/pkg/metrics"
)

// Tag etiqueta de invalidación grupal. Hay una por superficie analítica y se
// invalidan de forma independiente: refrescar el dashboard no enfría el hub.
type Tag string

const (
	TagDashboard Tag = "dashboard"
	TagHub       Tag = "hub"
)

// Tags todas las etiquetas, para la cascada post-refresh (ambas superficies
// leen el mismo snapshot refrescado).
var Tags = []Tag{TagDashboard, TagHub}

// ParseTag valida un nombre de tag que llega por la API. Invalidar un tag
// inexistente acuñaría un contador de generación huérfano en el backend.
func ParseTag(s string) (Tag, bool) {
	for _, t := range Tags {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Query identidad y política de una consulta memoizable. El TTL es un knob de
// política por clase de consulta (agregado vs detalle), no un valor derivado,
// y siempre queda por debajo de la cadencia de refresh externa.
type Query struct {
	FuncID string
	Tag    Tag
	TTL    time.Duration
}

// Gateway memoiza consultas analíticas caras. Claves: FuncID + fingerprint
// canónico de argumentos + generación vigente del tag. Invalidate incrementa
// la generación: O(1), coherente entre instancias con Redis, y las entradas
// huérfanas mueren por TTL.
//
// Sin single-flight: dos misses concurrentes de la misma clave pueden
// computar dos veces. El coste de una estampida es trabajo duplicado, nunca
// resultados inconsistentes.
type Gateway struct {
	backend       Backend
	maxValueBytes int
	log           *logger.Logger
	met           *metrics.Manager
}

// NewGateway construye el gateway. maxValueBytes <= 0 desactiva el tope.
func NewGateway(backend Backend, maxValueBytes int, log *logger.Logger, met *metrics.Manager) *Gateway {
	return &Gateway{
		backend:       backend,
		maxValueBytes: maxValueBytes,
		log:           log.Component("cache_gateway"),
		met:           met,
	}
}

// Fingerprint serialización canónica e independiente del orden de los
// argumentos: JSON → any → JSON (encoding/json ordena las claves de mapa) →
// SHA-256. Evita divergencia silenciosa de claves si cambia el orden de los
// campos en el call site.
func Fingerprint(args any) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("fingerprint: serializar args: %w", err)
	}
	var canonical any
	if err := json.Unmarshal(raw, &canonical); err != nil {
		return "", fmt.Errorf("fingerprint: canonicalizar args: %w", err)
	}
	canon, err := json.Marshal(canonical)
	if err != nil {
		return "", fmt.Errorf("fingerprint: re-serializar args: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// GetOrComputeRaw versión sin tipos del camino de memoización. En hit
// devuelve los bytes cacheados sin invocar compute; en miss computa, guarda
// best-effort y devuelve. Un error de compute nunca escribe entrada (sin
// caché negativa); un fallo del backend nunca convierte una lectura exitosa
// en request fallida.
func (g *Gateway) GetOrComputeRaw(ctx context.Context, q Query, args any, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	key, err := g.entryKey(ctx, q, args)
	if err != nil {
		// Sin clave no hay caché, pero la consulta sigue adelante.
		g.log.Warn().Err(err).Str("func_id", q.FuncID).Msg("clave de caché no disponible, consulta directa")
		return compute(ctx)
	}

	if val, ok, err := g.backend.Get(ctx, key); err != nil {
		g.log.Warn().Err(err).Str("func_id", q.FuncID).Msg("lectura de caché falló, se recomputa")
	} else if ok {
		g.met.CacheHits.WithLabelValues(string(q.Tag)).Inc()
		return []byte(val), nil
	}

	g.met.CacheMisses.WithLabelValues(string(q.Tag)).Inc()
	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	g.store(ctx, q, key, value)
	return value, nil
}

// store escritura best-effort: tope de tamaño y errores del backend se
// registran y se descartan deliberadamente.
func (g *Gateway) store(ctx context.Context, q Query, key string, value []byte) {
	if g.maxValueBytes > 0 && len(value) > g.maxValueBytes {
		g.met.CacheSkips.Inc()
		g.log.Warn().
			Str("func_id", q.FuncID).
			Int("bytes", len(value)).
			Int("max_bytes", g.maxValueBytes).
			Msg("write de caché omitido: payload supera el tope")
		return
	}
	if err := g.backend.Set(ctx, key, string(value), q.TTL); err != nil {
		g.log.Warn().Err(err).Str("func_id", q.FuncID).Msg("write de caché falló, valor servido igualmente")
	}
}

// Invalidate sube la generación del tag: todas sus entradas quedan
// inalcanzables de inmediato, sin enumerar claves.
func (g *Gateway) Invalidate(ctx context.Context, tag Tag) error {
	if _, err := g.backend.Incr(ctx, generationKey(tag)); err != nil {
		return fmt.Errorf("invalidar tag %s: %w", tag, err)
	}
	g.met.CacheInvalidate.WithLabelValues(string(tag)).Inc()
	g.log.Info().Str("tag", string(tag)).Msg("tag invalidado")
	return nil
}

// InvalidateAll invalida ambas superficies (override manual del operador o
// cascada post-refresh).
func (g *Gateway) InvalidateAll(ctx context.Context) error {
	for _, tag := range Tags {
		if err := g.Invalidate(ctx, tag); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gateway) entryKey(ctx context.Context, q Query, args any) (string, error) {
	fp, err := Fingerprint(args)
	if err != nil {
		return "", err
	}
	gen, err := g.backend.GetCounter(ctx, generationKey(q.Tag))
	if err != nil {
		return "", fmt.Errorf("leer generación del tag %s: %w", q.Tag, err)
	}
	return fmt.Sprintf("q:%s:%d:%s:%s", q.Tag, gen, q.FuncID, fp), nil
}

func generationKey(tag Tag) string {
	return fmt.Sprintf("cachegen:%s", tag)
}

// GetOrCompute variante tipada sobre GetOrComputeRaw con codec JSON.
func GetOrCompute[T any](ctx context.Context, g *Gateway, q Query, args any, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := g.GetOrComputeRaw(ctx, q, args, func(ctx context.Context) ([]byte, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decodificar valor cacheado de %s: %w", q.FuncID, err)
	}
	return out, nil
}
