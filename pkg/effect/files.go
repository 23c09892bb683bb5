package effect

// FileRegistry tracks the files of a run and which one is being rewritten.
type FileRegistry struct {
	paths   []string
	current int
}

// NewFileRegistry creates a registry whose current file is path.
func NewFileRegistry(path string) *FileRegistry {
	return &FileRegistry{paths: []string{path}}
}

// Register adds path and returns its index.
func (r *FileRegistry) Register(path string) int {
	r.paths = append(r.paths, path)

	return len(r.paths) - 1
}

// SetCurrent selects the file at idx. Out-of-range indexes are ignored.
func (r *FileRegistry) SetCurrent(idx int) {
	if idx >= 0 && idx < len(r.paths) {
		r.current = idx
	}
}

// Current returns the path of the current file, or "" for a nil registry.
func (r *FileRegistry) Current() string {
	if r == nil || len(r.paths) == 0 {
		return ""
	}

	return r.paths[r.current]
}

// Paths returns every registered path.
func (r *FileRegistry) Paths() []string {
	if r == nil {
		return nil
	}

	return r.paths
}
