package lint

import (
	"sync"

	"arrowstyle/internal/engine/formatter"
	"arrowstyle/internal/engine/syntax"
)

// Session holds the memoized state shared by every file of one run: the
// formatter client and the detected indentation unit per file.
type Session struct {
	formatter *formatter.Client

	mu      sync.Mutex
	indents map[string]string
}

func NewSession(f *formatter.Client) *Session {
	if f == nil {
		f = formatter.NewClient(nil)
	}
	return &Session{formatter: f, indents: make(map[string]string)}
}

func (s *Session) Formatter() *formatter.Client {
	return s.formatter
}

// IndentUnit returns the indentation unit of src, detecting it on first use
// for each file.
func (s *Session) IndentUnit(src *syntax.Source) string {
	key := src.PhysicalFilename()
	s.mu.Lock()
	defer s.mu.Unlock()
	if unit, ok := s.indents[key]; ok {
		return unit
	}
	unit := syntax.DetectIndentUnit(src.Text)
	s.indents[key] = unit
	return unit
}

// Forget drops cached state for path, e.g. after the file changed on disk.
func (s *Session) Forget(path string) {
	s.mu.Lock()
	delete(s.indents, path)
	s.mu.Unlock()
}

func (s *Session) Close() error {
	return s.formatter.Close()
}
