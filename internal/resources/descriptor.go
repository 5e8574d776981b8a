package resources

import (
	"time"
)

// Descriptor configura um Controller para um tipo de registro.
type Descriptor[T Record] struct {
	Name     string
	ListPath string
	// ItemPath vazio torna o recurso somente leitura.
	ItemPath string
	// Paged: a lista vem em data.content.
	Paged bool

	Samples func() []T

	SearchFields func(T) []string
	Facets       map[string]func(T) []string

	Columns []string
	Row     func(T) []string

	WithID func(T, int64) T
	// Validate recebe o registro de Create e o resultado de Merge em Update.
	Validate func(T) error
	Prepare  func(rec T, existing []T, now time.Time) T
	// Merge aplica uma atualização parcial: campos vazios na entrada mantêm o valor atual.
	Merge func(existing, input T) T
}

func one(s string) []string { return []string{s} }

// keep copia v para dst apenas se v não for vazio.
func keep(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func flag(b bool) *bool { return &b }

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
