package supervisor

import "os"

// Locator resolves the sunshine binary from an ordered candidate list.
type Locator struct {
	Candidates []string
}

// NewLocator creates a locator over a copy of candidates.
func NewLocator(candidates []string) *Locator {
	return &Locator{Candidates: append([]string(nil), candidates...)}
}

// Locate checks every candidate in order. When several exist the last one
// wins: later entries (the arm64 Homebrew prefix by default) take precedence.
func (l *Locator) Locate() (string, error) {
	var found string
	for _, path := range l.Candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		found = path
	}
	if found == "" {
		return "", &LocatorError{Candidates: append([]string(nil), l.Candidates...)}
	}
	return found, nil
}
