package valueobject

// BracketKind identifies one of the recognised bracket families.
type BracketKind int

const (
	RoundBracket BracketKind = iota
	SquareBracket
	CurlyBracket
)

// BracketKindCount is the number of BracketKind values. Tables indexed by
// BracketKind can be sized with it.
const BracketKindCount = 3

// String returns the short name of the kind, used as a metric attribute.
func (k BracketKind) String() string {
	switch k {
	case RoundBracket:
		return "round"
	case SquareBracket:
		return "square"
	case CurlyBracket:
		return "curly"
	default:
		return "unknown"
	}
}

// BracketPair describes an opening and closing symbol and a display label.
type BracketPair struct {
	kind  BracketKind
	open  rune
	close rune
	label string
}

// Kind returns the family this pair belongs to.
func (p BracketPair) Kind() BracketKind {
	return p.kind
}

// Open returns the opening symbol.
func (p BracketPair) Open() rune {
	return p.open
}

// Close returns the closing symbol.
func (p BracketPair) Close() rune {
	return p.close
}

// Label returns the human-readable label, e.g. "round brackets".
func (p BracketPair) Label() string {
	return p.label
}

//nolint:gochecknoglobals // Immutable table, exposed only through copies.
var defaultBracketPairs = [BracketKindCount]BracketPair{
	{kind: RoundBracket, open: '(', close: ')', label: "round brackets"},
	{kind: SquareBracket, open: '[', close: ']', label: "square brackets"},
	{kind: CurlyBracket, open: '{', close: '}', label: "curly brackets"},
}

// DefaultBracketPairs returns the ordered round, square, curly pair set.
// The returned array is a copy; callers cannot alter the shared table.
func DefaultBracketPairs() [BracketKindCount]BracketPair {
	return defaultBracketPairs
}
