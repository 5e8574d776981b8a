// Package dashboard combina várias coleções independentes em um resumo,
// tolerando a falha de qualquer uma delas.
package dashboard

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Source é uma leitura independente com seu próprio valor padrão.
type Source struct {
	name     string
	run      func(context.Context) error
	fallback func()
}

// From cria uma Source que grava em dst o resultado de fetch, ou fallback quando fetch falha.
// Cada Source escreve apenas no seu próprio destino.
func From[T any](name string, fetch func(context.Context) (T, error), fallback T, dst *T) Source {
	return Source{
		name: name,
		run: func(ctx context.Context) error {
			v, err := fetch(ctx)
			if err != nil {
				return err
			}
			*dst = v
			return nil
		},
		fallback: func() { *dst = fallback },
	}
}

// Outcome é o resultado de uma Source. Err nil significa sucesso.
type Outcome struct {
	Source string
	Err    error
}

// Report lista os resultados na ordem em que as sources foram passadas.
type Report struct {
	Outcomes []Outcome
}

// Failed retorna os nomes das sources que falharam.
func (r Report) Failed() []string {
	var out []string
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o.Source)
		}
	}
	return out
}

// AllFailed é verdadeiro quando havia sources e todas falharam.
func (r Report) AllFailed() bool {
	return len(r.Outcomes) > 0 && len(r.Failed()) == len(r.Outcomes)
}

// Gather executa todas as sources em paralelo e espera todas terminarem.
// Nunca retorna erro: falhas viram o padrão da própria source.
func Gather(ctx context.Context, sources ...Source) Report {
	outcomes := make([]Outcome, len(sources))
	var g errgroup.Group
	for i, s := range sources {
		i, s := i, s
		g.Go(func() error {
			err := s.run(ctx)
			if err != nil {
				s.fallback()
			}
			outcomes[i] = Outcome{Source: s.name, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return Report{Outcomes: outcomes}
}
