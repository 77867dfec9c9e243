package domain

// LinkKind selects which edges a linked-proposition lookup follows.
type LinkKind string

const (
	LinkSupports    LinkKind = "supports"
	LinkContradicts LinkKind = "contradicts"
	LinkAll         LinkKind = "all"
)

func ValidLinkKind(k string) bool {
	switch LinkKind(k) {
	case LinkSupports, LinkContradicts, LinkAll:
		return true
	}
	return false
}

// BiasFlag labels a structural red flag on a proposition.
type BiasFlag string

const (
	FlagSourceMonoculture BiasFlag = "SOURCE_MONOCULTURE"
	FlagUnbalancedArg     BiasFlag = "POTENTIAL_UNBALANCED_ARG"
	FlagCircularSupport   BiasFlag = "CIRCULAR_SUPPORT"
)

// MatchKind names the linker rule that fired for a pair of propositions.
type MatchKind string

const (
	MatchNone                 MatchKind = ""
	MatchDirectContradiction  MatchKind = "direct_contradiction"
	MatchOppositeConcept      MatchKind = "opposite_concept"
	MatchSupport              MatchKind = "support"
	MatchRelationalOpposition MatchKind = "relational_opposition"
)

// IsContradiction reports whether the match adds a contradiction edge.
func (m MatchKind) IsContradiction() bool {
	switch m {
	case MatchDirectContradiction, MatchOppositeConcept, MatchRelationalOpposition:
		return true
	}
	return false
}
