package parser

type LanguageSpec struct {
	Name       string
	Extensions []string
	Filenames  []string
	Enabled    bool
}

// DefaultLanguageRegistry lists every language the slicer knows about.
// Dependency categories are defined over Python syntax, so only python
// ships enabled.
func DefaultLanguageRegistry() map[string]LanguageSpec {
	return map[string]LanguageSpec{
		"python": {
			Name:       "python",
			Extensions: []string{".py"},
			Enabled:    true,
		},
	}
}

func cloneLanguageRegistry(registry map[string]LanguageSpec) map[string]LanguageSpec {
	cloned := make(map[string]LanguageSpec, len(registry))
	for id, spec := range registry {
		specCopy := spec
		specCopy.Extensions = append([]string(nil), spec.Extensions...)
		specCopy.Filenames = append([]string(nil), spec.Filenames...)
		cloned[id] = specCopy
	}
	return cloned
}
