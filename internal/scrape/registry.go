package scrape

// Registry maps source type tags to extractor implementations. The
// mapping is fixed at construction: there is no dynamic plugin
// loading, and unknown tags surface as a typed error instead of
// falling through silently.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry builds a registry over the given extractors, keyed by
// their Type tags.
func NewRegistry(extractors ...Extractor) *Registry {
	m := make(map[string]Extractor, len(extractors))
	for _, e := range extractors {
		m[e.Type()] = e
	}
	return &Registry{extractors: m}
}

// DefaultRegistry returns the compiled-in set of site extractors.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewSporting(),
		NewTiendaRiver(),
		NewDia(),
		NewCoto(),
		NewSoloFutbol(),
	)
}

// Resolve returns the extractor registered for the type tag.
func (r *Registry) Resolve(typeTag string) (Extractor, error) {
	e, ok := r.extractors[typeTag]
	if !ok {
		return nil, &UnknownTypeError{Type: typeTag}
	}
	return e, nil
}

// Types lists the registered type tags.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.extractors))
	for t := range r.extractors {
		types = append(types, t)
	}
	return types
}
