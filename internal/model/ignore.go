package model

// IgnoreSpec holds the suppression rules for one linter.
//
// When All is set every issue from the linter is ignored and ByFilename is
// irrelevant. Otherwise IDs lists issue ids ignored everywhere and
// ByFilename maps an issue id to filename globs that suppress it only for
// matching files.
type IgnoreSpec struct {
	All        bool
	IDs        map[string]struct{}
	ByFilename map[string]map[string]struct{}
}

// NewIgnoreSpec returns an empty spec with initialised containers.
func NewIgnoreSpec() *IgnoreSpec {
	return &IgnoreSpec{
		IDs:        make(map[string]struct{}),
		ByFilename: make(map[string]map[string]struct{}),
	}
}

// AddID marks an issue id as ignored everywhere.
func (s *IgnoreSpec) AddID(id string) {
	if s.IDs == nil {
		s.IDs = make(map[string]struct{})
	}

	s.IDs[id] = struct{}{}
}

// AddGlob adds a filename glob under which the issue id is ignored.
func (s *IgnoreSpec) AddGlob(id, glob string) {
	if s.ByFilename == nil {
		s.ByFilename = make(map[string]map[string]struct{})
	}

	if s.ByFilename[id] == nil {
		s.ByFilename[id] = make(map[string]struct{})
	}

	s.ByFilename[id][glob] = struct{}{}
}

// SetAll switches the spec to wildcard mode. Finer-grained rules become
// moot, so they are cleared.
func (s *IgnoreSpec) SetAll() {
	s.All = true
	s.IDs = make(map[string]struct{})
	s.ByFilename = make(map[string]map[string]struct{})
}

// Clone returns a deep copy of the spec.
func (s *IgnoreSpec) Clone() *IgnoreSpec {
	clone := NewIgnoreSpec()
	clone.All = s.All

	for id := range s.IDs {
		clone.IDs[id] = struct{}{}
	}

	for id, globs := range s.ByFilename {
		set := make(map[string]struct{}, len(globs))
		for glob := range globs {
			set[glob] = struct{}{}
		}

		clone.ByFilename[id] = set
	}

	return clone
}

// IgnoreConfig maps a linter name to its suppression rules. It is the
// merged, effective configuration used during a single run.
type IgnoreConfig map[string]*IgnoreSpec

// ShouldIgnore reports whether the issue is covered by the ignore rules.
// It is total over its inputs and never fails.
func ShouldIgnore(linterName string, issue LinterIssue, cfg IgnoreConfig) bool {
	spec, ok := cfg[linterName]
	if !ok || spec == nil {
		return false
	}

	if spec.All {
		return true
	}

	if _, ok := spec.IDs[issue.ID]; ok {
		return true
	}

	for glob := range spec.ByFilename[issue.ID] {
		if fnmatch(issue.Filename, glob) {
			return true
		}
	}

	return false
}

// NormalizeIgnoreConfig converts loosely-typed data (as decoded from YAML)
// into the canonical representation. Malformed entries are dropped rather
// than reported; suppression parsing is deliberately forgiving.
func NormalizeIgnoreConfig(raw map[string]any) IgnoreConfig {
	cfg := make(IgnoreConfig)

	for linterName, value := range raw {
		entry, ok := value.(map[string]any)
		if !ok {
			continue
		}

		spec := NewIgnoreSpec()

		switch ids := entry["ids"].(type) {
		case string:
			if ids == "*" {
				spec.SetAll()
			} else if ids != "" {
				spec.AddID(ids)
			}
		case []any:
			for _, id := range ids {
				if s, ok := id.(string); ok && s != "" {
					spec.AddID(s)
				}
			}
		}

		if !spec.All {
			if byFilename, ok := entry["by_filename"].(map[string]any); ok {
				for id, globs := range byFilename {
					switch g := globs.(type) {
					case string:
						if g != "" {
							spec.AddGlob(id, g)
						}
					case []any:
						for _, glob := range g {
							if s, ok := glob.(string); ok && s != "" {
								spec.AddGlob(id, s)
							}
						}
					}
				}
			}
		}

		cfg[linterName] = spec
	}

	return cfg
}

// MergeIgnoreConfig folds overlay into base, with overlay taking
// precedence. Overlay rules only ever add suppressions; a wildcard at any
// layer is sticky for that linter.
func MergeIgnoreConfig(base, overlay IgnoreConfig) {
	for linterName, overSpec := range overlay {
		if overSpec == nil {
			continue
		}

		baseSpec, ok := base[linterName]
		if !ok || baseSpec == nil {
			base[linterName] = overSpec.Clone()
			continue
		}

		if overSpec.All {
			baseSpec.SetAll()
		} else if !baseSpec.All {
			for id := range overSpec.IDs {
				baseSpec.AddID(id)
			}
		}

		for id, globs := range overSpec.ByFilename {
			for glob := range globs {
				baseSpec.AddGlob(id, glob)
			}
		}
	}
}
