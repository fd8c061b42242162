// Package statement parses bank-extract tables into typed statement entries.
// Each bank export format gets its own Parser; the Registry picks one by
// name so callers stay format-agnostic.
package statement

import (
	"io"
	"strings"

	"github.com/concilia-dev/concilia/internal/model"
)

// Parser converts one bank-extract stream into statement entries tagged
// with the channel (bank) they came from. Row-level failures are collected,
// not fatal.
type Parser interface {
	Parse(channel string, r io.Reader) ([]model.StatementEntry, []model.RowIssue, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&SignedParser{})
	r.Register(&SuffixParser{})
	return r
}
