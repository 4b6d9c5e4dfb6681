package annotation

import "fmt"

// Parser decodes one annotation file format.
type Parser interface {
	Name() string
	// CanParse reports whether the parser handles a file, given its path and
	// up to sniffSize leading bytes.
	CanParse(path string, head []byte) bool
	Parse(path string, data []byte) (Annotation, error)
}

const sniffSize = 512

// Registry holds parsers in priority order.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry with the .tse parser followed by the raw
// text fallback.
func NewRegistry() *Registry {
	return &Registry{
		parsers: []Parser{
			NewTSEParser(),
			NewRawTextParser(),
		},
	}
}

// Register inserts p ahead of the built-in parsers.
func (r *Registry) Register(p Parser) {
	r.parsers = append([]Parser{p}, r.parsers...)
}

// Find returns the first parser that accepts the file.
func (r *Registry) Find(path string, data []byte) (Parser, error) {
	head := data
	if len(head) > sniffSize {
		head = head[:sniffSize]
	}
	for _, p := range r.parsers {
		if p.CanParse(path, head) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no annotation parser accepts %s", path)
}

