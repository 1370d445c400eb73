package componente_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	componente "github.com/osvalois-ultrasist/vucem-componente"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRegistroExtensiones_Registrar(t *testing.T) {
	t.Run("orders extensions by priority regardless of registration order", func(t *testing.T) {
		registro := componente.NewRegistroExtensiones(&captureLogger{})

		registro.Registrar(componente.SujetoRecurso, noopExtension("tercero", 30))
		registro.Registrar(componente.SujetoRecurso, noopExtension("primero", 10))
		registro.Registrar(componente.SujetoRecurso, noopExtension("segundo", 20))

		extensiones := registro.Extensiones(componente.SujetoRecurso)
		require.Len(t, extensiones, 3)
		assert.Equal(t, "primero", extensiones[0].Identificador())
		assert.Equal(t, "segundo", extensiones[1].Identificador())
		assert.Equal(t, "tercero", extensiones[2].Identificador())
	})

	t.Run("preserves registration order for equal priorities", func(t *testing.T) {
		registro := componente.NewRegistroExtensiones(&captureLogger{})

		registro.Registrar(componente.SujetoRecurso, noopExtension("a", 10))
		registro.Registrar(componente.SujetoRecurso, noopExtension("b", 10))
		registro.Registrar(componente.SujetoRecurso, noopExtension("c", 10))

		extensiones := registro.Extensiones(componente.SujetoRecurso)
		require.Len(t, extensiones, 3)
		assert.Equal(t, "a", extensiones[0].Identificador())
		assert.Equal(t, "b", extensiones[1].Identificador())
		assert.Equal(t, "c", extensiones[2].Identificador())
	})

	t.Run("keeps subjects isolated", func(t *testing.T) {
		registro := componente.NewRegistroExtensiones(&captureLogger{})

		registro.Registrar(componente.SujetoRecurso, noopExtension("recurso", 10))
		registro.Registrar(componente.TipoSujeto("tramite"), noopExtension("tramite", 10))

		assert.Len(t, registro.Extensiones(componente.SujetoRecurso), 1)
		assert.Len(t, registro.Extensiones(componente.TipoSujeto("tramite")), 1)
		assert.Empty(t, registro.Extensiones(componente.TipoSujeto("otro")))
	})

	t.Run("any permutation of priorities yields a sorted snapshot", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			prioridades := rapid.SliceOfN(rapid.IntRange(-1000, 1000), 0, 50).Draw(t, "prioridades")

			registro := componente.NewRegistroExtensiones(&captureLogger{})
			for i, p := range prioridades {
				registro.Registrar(componente.SujetoRecurso, noopExtension(fmt.Sprintf("ext-%d", i), p))
			}

			extensiones := registro.Extensiones(componente.SujetoRecurso)
			require.Len(t, extensiones, len(prioridades))
			for i := 1; i < len(extensiones); i++ {
				assert.LessOrEqual(t, extensiones[i-1].Prioridad(), extensiones[i].Prioridad())
			}
		})
	})
}

func TestRegistroExtensiones_Concurrencia(t *testing.T) {
	registro := componente.NewRegistroExtensiones(&captureLogger{})

	const total = 64
	var wg sync.WaitGroup
	wg.Add(total)
	for i := 0; i < total; i++ {
		go func(n int) {
			defer wg.Done()
			registro.Registrar(componente.SujetoRecurso, noopExtension(fmt.Sprintf("ext-%d", n), n%7))
		}(i)
	}

	// concurrent readers must always observe complete sorted snapshots
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			extensiones := registro.Extensiones(componente.SujetoRecurso)
			for j := 1; j < len(extensiones); j++ {
				assert.LessOrEqual(t, extensiones[j-1].Prioridad(), extensiones[j].Prioridad())
			}
		}
	}()

	wg.Wait()
	<-done

	assert.Len(t, registro.Extensiones(componente.SujetoRecurso), total)
}

func TestRegistroExtensiones_Ejecutar(t *testing.T) {
	t.Run("no registered extensions yields an empty result", func(t *testing.T) {
		registro := componente.NewRegistroExtensiones(&captureLogger{})

		resultados := registro.Ejecutar(componente.SujetoRecurso, "entrada", nil)

		assert.Empty(t, resultados)
		assert.False(t, componente.ContieneVeto(resultados))
	})

	t.Run("runs in priority order and collects results", func(t *testing.T) {
		registro := componente.NewRegistroExtensiones(&captureLogger{})

		var orden []string
		registrar := func(id string, prioridad int) {
			registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
				id, prioridad,
				func(entrada any, contexto map[string]any) (any, error) {
					orden = append(orden, id)
					return id, nil
				},
			))
		}
		registrar("ultimo", 99)
		registrar("primero", 1)

		resultados := registro.Ejecutar(componente.SujetoRecurso, "entrada", nil)

		assert.Equal(t, []string{"primero", "ultimo"}, orden)
		assert.Equal(t, []any{"primero", "ultimo"}, resultados)
	})

	t.Run("a failing extension is skipped and the rest still run", func(t *testing.T) {
		logger := &captureLogger{}
		registro := componente.NewRegistroExtensiones(logger)

		registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
			"falla", 1,
			func(entrada any, contexto map[string]any) (any, error) {
				return nil, errors.New("sin conexión")
			},
		))
		registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
			"sobrevive", 2,
			func(entrada any, contexto map[string]any) (any, error) {
				return "ok", nil
			},
		))

		resultados := registro.Ejecutar(componente.SujetoRecurso, "entrada", nil)

		assert.Equal(t, []any{"ok"}, resultados)
		assert.Equal(t, 1, logger.errorCount())
	})

	t.Run("a panicking extension is contained", func(t *testing.T) {
		logger := &captureLogger{}
		registro := componente.NewRegistroExtensiones(logger)

		registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
			"panico", 1,
			func(entrada any, contexto map[string]any) (any, error) {
				panic("referencia nula")
			},
		))
		registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
			"sobrevive", 2,
			func(entrada any, contexto map[string]any) (any, error) {
				return "ok", nil
			},
		))

		resultados := registro.Ejecutar(componente.SujetoRecurso, "entrada", nil)

		assert.Equal(t, []any{"ok"}, resultados)
		assert.Equal(t, 1, logger.errorCount())
	})

	t.Run("extensions share the mutation context", func(t *testing.T) {
		registro := componente.NewRegistroExtensiones(&captureLogger{})

		registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
			"escribe", 1,
			func(entrada any, contexto map[string]any) (any, error) {
				contexto["marca"] = "visto"
				return true, nil
			},
		))

		var leido any
		registro.Registrar(componente.SujetoRecurso, componente.NuevoPuntoExtension(
			"lee", 2,
			func(entrada any, contexto map[string]any) (any, error) {
				leido = contexto["marca"]
				return true, nil
			},
		))

		registro.Ejecutar(componente.SujetoRecurso, "entrada", map[string]any{})

		assert.Equal(t, "visto", leido)
	})
}

func TestContieneVeto(t *testing.T) {
	t.Run("false is a veto", func(t *testing.T) {
		assert.True(t, componente.ContieneVeto([]any{true, false}))
	})

	t.Run("a Veto value is a veto", func(t *testing.T) {
		assert.True(t, componente.ContieneVeto([]any{componente.Veto{Motivo: "fuera de horario"}}))
		assert.True(t, componente.ContieneVeto([]any{&componente.Veto{Motivo: "fuera de horario"}}))
	})

	t.Run("approvals and unrelated values are not vetoes", func(t *testing.T) {
		assert.False(t, componente.ContieneVeto(nil))
		assert.False(t, componente.ContieneVeto([]any{}))
		assert.False(t, componente.ContieneVeto([]any{true, "ok", 42, nil}))
		var vacio *componente.Veto
		assert.False(t, componente.ContieneVeto([]any{vacio}))
	})
}

func noopExtension(id string, prioridad int) componente.PuntoExtension {
	return componente.NuevoPuntoExtension(id, prioridad, func(entrada any, contexto map[string]any) (any, error) {
		return true, nil
	})
}
