package componente

import (
	"fmt"
	"sort"
	"sync"
)

// RegistroExtensiones holds, per subject kind, an ordered sequence of
// extension points. Registration normally happens once at composition time,
// lookups and executions happen per request, so the registry optimizes for
// concurrent reads: every mutation installs a fresh sorted slice and readers
// only ever see complete snapshots.
type RegistroExtensiones struct {
	mu          sync.RWMutex
	extensiones map[TipoSujeto][]PuntoExtension
	logger      Logger
}

// NewRegistroExtensiones creates an empty registry.
func NewRegistroExtensiones(logger Logger) *RegistroExtensiones {
	return &RegistroExtensiones{
		extensiones: make(map[TipoSujeto][]PuntoExtension),
		logger:      normalizeLogger(logger),
	}
}

// Registrar appends the extension to the subject's sequence and re-sorts it
// by priority. The sort is stable, so extensions sharing a priority keep
// their registration order. Safe for concurrent use.
func (r *RegistroExtensiones) Registrar(tipo TipoSujeto, extension PuntoExtension) {
	if extension == nil {
		return
	}

	r.mu.Lock()
	actual := r.extensiones[tipo]
	// copy-on-write: readers hold snapshots of the previous slice
	siguiente := make([]PuntoExtension, len(actual), len(actual)+1)
	copy(siguiente, actual)
	siguiente = append(siguiente, extension)
	sort.SliceStable(siguiente, func(i, j int) bool {
		return siguiente[i].Prioridad() < siguiente[j].Prioridad()
	})
	r.extensiones[tipo] = siguiente
	r.mu.Unlock()

	r.logger.Info("Registrado punto de extensión: %s para tipo: %s con prioridad: %d",
		extension.Identificador(), tipo, extension.Prioridad())
}

// Extensiones returns the current snapshot for a subject kind, sorted by
// priority. A kind with no registrations yields an empty slice, never an
// error. Callers must treat the slice as read-only.
func (r *RegistroExtensiones) Extensiones(tipo TipoSujeto) []PuntoExtension {
	r.mu.RLock()
	snapshot := r.extensiones[tipo]
	r.mu.RUnlock()

	if snapshot == nil {
		return []PuntoExtension{}
	}
	return snapshot
}

// Ejecutar invokes every extension registered for the subject kind, in
// priority order, against the same input and shared context. Extensions run
// sequentially on the calling goroutine. A failing extension (returned error
// or panic) is logged and contributes no result; the remaining extensions
// still run. The result sequence holds one entry per extension that completed
// successfully, preserving their relative order.
func (r *RegistroExtensiones) Ejecutar(tipo TipoSujeto, entrada any, contexto map[string]any) []any {
	puntos := r.Extensiones(tipo)
	if contexto == nil {
		contexto = make(map[string]any)
	}

	resultados := make([]any, 0, len(puntos))
	for _, punto := range puntos {
		resultado, err := r.ejecutarAislado(punto, entrada, contexto)
		if err != nil {
			r.logger.Error("Error al ejecutar punto de extensión: %s para tipo: %s: %v",
				punto.Identificador(), tipo, err)
			continue
		}
		resultados = append(resultados, resultado)
		r.logger.Debug("Ejecutado punto de extensión: %s para tipo: %s", punto.Identificador(), tipo)
	}

	return resultados
}

// ejecutarAislado is the per-extension fault boundary: panics become errors
// so one misbehaving extension cannot abort the pipeline.
func (r *RegistroExtensiones) ejecutarAislado(punto PuntoExtension, entrada any, contexto map[string]any) (resultado any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic en punto de extensión %s: %v", punto.Identificador(), rec)
		}
	}()
	return punto.Ejecutar(entrada, contexto)
}
