package lexicon

// DefaultOpposites lists base opposite pairs in definition order. Some labels appear
// as a source more than once ("liquid", "cool", "start", "right"); New keeps the first.
var DefaultOpposites = []Pair{
	{"hot", "cold"}, {"fast", "slow"}, {"big", "small"}, {"on", "off"}, {"up", "down"},
	{"large", "small"}, {"tall", "short"}, {"good", "bad"}, {"right", "wrong"}, {"left", "right"},
	{"true", "false"}, {"correct", "incorrect"}, {"same", "different"}, {"similar", "different"},
	{"liquid", "solid"}, {"gas", "solid"}, {"liquid", "gas"},
	{"open", "closed"}, {"light", "dark"}, {"heavy", "light"}, {"happy", "sad"}, {"rich", "poor"},
	{"increase", "decrease"}, {"expand", "contract"}, {"allow", "forbid"}, {"permit", "forbid"},
	{"warm", "cold"}, {"cool", "warm"}, {"cool", "hot"},
	{"wet", "dry"}, {"full", "empty"}, {"present", "absent"}, {"alive", "dead"},
	{"win", "lose"}, {"pass", "fail"}, {"accept", "reject"}, {"remember", "forget"},
	{"love", "hate"}, {"friend", "enemy"}, {"begin", "end"}, {"start", "finish"}, {"start", "end"},
	{"always", "never"}, {"often", "rarely"}, {"sometimes", "never"},
	{"safe", "dangerous"}, {"possible", "impossible"}, {"legal", "illegal"},
	{"essential", "inessential"}, {"beneficial", "harmful"}, {"great", "terrible"},
	{"bigger", "smaller"},
}

// DefaultSynonyms lists base synonym pairs in definition order.
var DefaultSynonyms = []Pair{
	{"big", "large"}, {"fast", "quick"}, {"rapid", "fast"}, {"begin", "start"},
	{"finish", "end"}, {"permit", "allow"}, {"great", "good"},
	{"essential", "important"}, {"beneficial", "helpful"}, {"harmful", "dangerous"},
}

// Default returns an index over the built-in tables.
func Default() *Index {
	return New(DefaultOpposites, DefaultSynonyms)
}
