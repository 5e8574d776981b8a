package resources

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// FilterState é o estado de busca e facetas de uma tela. Valor vazio não restringe.
type FilterState struct {
	Search string            `form:"search" json:"search,omitempty"`
	Facets map[string]string `json:"facets,omitempty"`
}

// Empty informa se o filtro não restringe nada.
func (f FilterState) Empty() bool {
	if f.Search != "" {
		return false
	}
	for _, v := range f.Facets {
		if v != "" {
			return false
		}
	}
	return true
}

// Apply devolve os registros da coleção que satisfazem o filtro, na ordem original.
// A busca é substring sem distinção de maiúsculas em qualquer campo pesquisável;
// cada faceta exige igualdade exata. Faceta desconhecida não casa com nada.
func (c *Controller[T]) Apply(f FilterState) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Filter(c.desc, c.records, f)
}

// Filter aplica f a records sem estado de controller.
func Filter[T Record](desc Descriptor[T], records []T, f FilterState) []T {
	q := strings.ToLower(f.Search)
	out := make([]T, 0, len(records))
	for _, r := range records {
		if q != "" && !matchSearch(desc, r, q) {
			continue
		}
		if !matchFacets(desc, r, f.Facets) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchSearch[T Record](desc Descriptor[T], r T, q string) bool {
	if desc.SearchFields == nil {
		return false
	}
	for _, field := range desc.SearchFields(r) {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func matchFacets[T Record](desc Descriptor[T], r T, facets map[string]string) bool {
	for name, want := range facets {
		if want == "" {
			continue
		}
		get, ok := desc.Facets[name]
		if !ok {
			return false
		}
		found := false
		for _, v := range get(r) {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FacetNames lista as facetas aceitas pelo recurso.
func (c *Controller[T]) FacetNames() []string {
	return sets.List(sets.KeySet(c.desc.Facets))
}

// FacetValues lista, ordenados, os valores presentes na coleção para a faceta.
func (c *Controller[T]) FacetValues(name string) []string {
	get, ok := c.desc.Facets[name]
	if !ok {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	vals := sets.New[string]()
	for _, r := range c.records {
		for _, v := range get(r) {
			if v != "" {
				vals.Insert(v)
			}
		}
	}
	return sets.List(vals)
}
