// Package lexicon holds the static opposite and synonym tables the linker uses to
// compare concept labels.
package lexicon

import "strings"

// Relation is the lexical relation between two concept labels.
type Relation int

const (
	None Relation = iota
	Opposite
	Synonym
)

func (r Relation) String() string {
	switch r {
	case Opposite:
		return "opposite"
	case Synonym:
		return "synonym"
	default:
		return "none"
	}
}

// Pair is an ordered base definition a -> b.
type Pair struct {
	A, B string
}

// Index is a pair of bidirectional lookup tables. It is immutable after construction
// and safe for concurrent use.
type Index struct {
	opposites map[string]string
	synonyms  map[string]string
}

// New builds an index from ordered base pairs. When a label appears as a source more
// than once the first definition wins; the reverse direction b -> a is added only if b
// has no mapping yet.
func New(opposites, synonyms []Pair) *Index {
	return &Index{
		opposites: bidirectional(opposites),
		synonyms:  bidirectional(synonyms),
	}
}

func bidirectional(pairs []Pair) map[string]string {
	m := make(map[string]string, len(pairs)*2)
	for _, p := range pairs {
		a, b := normalize(p.A), normalize(p.B)
		if a == "" || b == "" || a == b {
			continue
		}
		if _, ok := m[a]; !ok {
			m[a] = b
		}
		if _, ok := m[b]; !ok {
			m[b] = a
		}
	}
	return m
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Relation returns Opposite, Synonym or None for the two labels. Opposition is checked
// first.
func (ix *Index) Relation(a, b string) Relation {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return None
	}
	if related(ix.opposites, a, b) {
		return Opposite
	}
	if related(ix.synonyms, a, b) {
		return Synonym
	}
	return None
}

func (ix *Index) IsOpposite(a, b string) bool { return ix.Relation(a, b) == Opposite }

func (ix *Index) IsSynonym(a, b string) bool { return ix.Relation(a, b) == Synonym }

// OppositeOf returns the single opposite recorded for label, if any.
func (ix *Index) OppositeOf(label string) (string, bool) {
	v, ok := ix.opposites[normalize(label)]
	return v, ok
}

// SynonymOf returns the single synonym recorded for label, if any.
func (ix *Index) SynonymOf(label string) (string, bool) {
	v, ok := ix.synonyms[normalize(label)]
	return v, ok
}

func related(m map[string]string, a, b string) bool {
	return m[a] == b || m[b] == a
}
