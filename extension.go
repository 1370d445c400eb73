package componente

// TipoSujeto tags the category of domain object an extension applies to. The
// set is closed at compile time; new kinds are added here, not discovered at
// runtime.
type TipoSujeto string

const (
	// SujetoRecurso is the only subject kind exercised by this template.
	SujetoRecurso TipoSujeto = "recurso"
)

// PuntoExtension is a named, priority ordered unit of pluggable logic invoked
// against a subject instance and a shared context. Implementations must be
// safe for concurrent use; the registry holds a reference, not a copy.
type PuntoExtension interface {
	// Identificador returns the unique name of the extension point.
	Identificador() string
	// Prioridad orders execution. Lower values run first; ties preserve
	// registration order.
	Prioridad() int
	// Ejecutar runs the extension against the input. The context map is
	// shared across the extensions of a single pipeline run, so later
	// extensions observe earlier writes.
	Ejecutar(entrada any, contexto map[string]any) (any, error)
}

// Veto is an explicit negative verdict. A validation extension returns it (or
// plain false) to reject the enclosing mutation. Distinct from an execution
// failure, which is logged and ignored.
type Veto struct {
	Motivo string
}

type puntoExtensionFunc struct {
	id        string
	prioridad int
	fn        func(entrada any, contexto map[string]any) (any, error)
}

// NuevoPuntoExtension adapts a function into a PuntoExtension.
func NuevoPuntoExtension(id string, prioridad int, fn func(entrada any, contexto map[string]any) (any, error)) PuntoExtension {
	return &puntoExtensionFunc{id: id, prioridad: prioridad, fn: fn}
}

func (p *puntoExtensionFunc) Identificador() string { return p.id }

func (p *puntoExtensionFunc) Prioridad() int { return p.prioridad }

func (p *puntoExtensionFunc) Ejecutar(entrada any, contexto map[string]any) (any, error) {
	if p.fn == nil {
		return nil, nil
	}
	return p.fn(entrada, contexto)
}

// esVeto reports whether a single extension result is a negative verdict.
func esVeto(resultado any) bool {
	switch v := resultado.(type) {
	case bool:
		return !v
	case Veto:
		return true
	case *Veto:
		return v != nil
	}
	return false
}

// ContieneVeto reports whether any result in the sequence is a negative
// verdict.
func ContieneVeto(resultados []any) bool {
	for _, r := range resultados {
		if esVeto(r) {
			return true
		}
	}
	return false
}
