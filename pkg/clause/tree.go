package clause

// DialectID names a target serialization dialect. It is a tagged variant
// (spec §9 design note: "Model the dialect as a tagged variant... This
// supersedes the source's inheritance tree") rather than a type switch over
// concrete Go types, so a Tree can be handed to any dialect package without
// this package importing any of them.
type DialectID string

// Recognized dialect ids (spec §6 "dialect / query_class").
const (
	Native DialectID = "native"
	SQL    DialectID = "sql"
	Swish  DialectID = "swish"
)

// Options carries the serializer knobs from spec §6's `query_class_opts`.
// Not every field applies to every dialect; a dialect ignores knobs it does
// not understand and falls back to its own default for ones left empty.
type Options struct {
	Like         string // SQL LIKE keyword, default "ILIKE"
	QuoteFields  bool   // SQL: quote field names
	Wildcard     string // dialect's wildcard glyph, default "*" internal -> dialect glyph
	Fuzzify      bool   // SQL: append wildcard to bare values
	Fuzzify2     bool   // SQL: surround value with wildcards
	FuzzyOp      string // override for the fuzzy-match operator
	FuzzyNotOp   string // override for the negated fuzzy-match operator
	CroakOnError bool   // strictness: panic-by-error vs. return empty
}

// Renderer turns a Tree into a dialect-specific string. Concrete dialects
// (pkg/dialects/native, .../sqlquery, .../swish) implement this and
// register themselves with pkg/dialect; this package never imports them
// back, so there is no import cycle between the data model and its
// consumers.
type Renderer interface {
	Render(t *Tree) (string, error)
}

// Tree is a mapping from the three bucket keys "+"/""/"-" to ordered
// clause sequences (spec §3). It is the AST root, or the subtree carried
// by a group Clause.
//
// Tree intentionally holds Dialect/Options/Fields directly instead of a
// back-reference to the Parser that built it (spec §9 design note (a)):
// Fields is a non-owning pointer into an immutable registry, so a Tree
// outlives the Parser that produced it with no dangling reference.
type Tree struct {
	Dialect DialectID
	Options Options
	Fields  FieldLookup

	Must    []*Clause // "+"
	Should  []*Clause // ""
	MustNot []*Clause // "-"
}

// FieldLookup is the subset of *field.Registry that clause needs, kept as
// an interface here so this package does not import pkg/field (again,
// avoiding a needless dependency edge from the data model onto a
// consumer). pkg/field.Registry implements it.
type FieldLookup interface {
	Lookup(name string) (FieldSpec, bool)
	Names() []string
	DefaultField() (string, bool)
}

// FieldSpec is the minimal per-field shape clause/dialect code needs.
type FieldSpec struct {
	Name      string
	AliasFor  []string
	IsNumeric bool
}

// NewTree returns an empty Tree for the given dialect.
func NewTree(id DialectID) *Tree {
	return &Tree{Dialect: id}
}

// bucket returns the slice for a bucket key ("+"/""/"-"), or nil if key is
// not one of those three.
func (t *Tree) bucket(key string) *[]*Clause {
	switch key {
	case "+":
		return &t.Must
	case "":
		return &t.Should
	case "-":
		return &t.MustNot
	default:
		return nil
	}
}

// Clone returns a structural copy of t (and recursively of every group
// clause's subtree) with no references back into t. Fields is copied by
// reference since the registry is immutable after construction.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{
		Dialect: t.Dialect,
		Options: t.Options,
		Fields:  t.Fields,
	}
	out.Must = cloneClauses(t.Must)
	out.Should = cloneClauses(t.Should)
	out.MustNot = cloneClauses(t.MustNot)
	return out
}

func cloneClauses(cs []*Clause) []*Clause {
	if cs == nil {
		return nil
	}
	out := make([]*Clause, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

// WalkFunc is invoked for every clause encountered by Walk, post-order:
// group subtrees are walked before the group clause itself is visited.
// bucket is the key ("+"/""/"-") the clause belongs to in parent.
type WalkFunc func(c *Clause, parent *Tree, bucket string)

// Walk performs a post-order traversal over buckets in the fixed order
// "+", "", "-" (spec §4.4), re-entering group clauses' subtrees.
func (t *Tree) Walk(fn WalkFunc) {
	if t == nil {
		return
	}
	for _, key := range [...]string{"+", "", "-"} {
		for _, c := range *t.bucket(key) {
			if c.IsGroup() {
				c.Sub.Walk(fn)
			}
			fn(c, t, key)
		}
	}
}

// AddOrClause mutates t so that the result is parse-equivalent to
// `(orig) OR (c)`: c is appended to the "" (should) bucket.
func (t *Tree) AddOrClause(c *Clause) {
	t.Should = append(t.Should, c)
}

// AddAndClause mutates t so that the result is parse-equivalent to
// `(orig) AND (c)`: c is appended to the "+" (must) bucket.
func (t *Tree) AddAndClause(c *Clause) {
	t.Must = append(t.Must, c)
}

// AddNotClause mutates t so that the result is parse-equivalent to
// `(orig) AND NOT (c)`: c is appended to the "-" (must-not) bucket.
func (t *Tree) AddNotClause(c *Clause) {
	t.MustNot = append(t.MustNot, c)
}

// AddSubClause attaches another full subtree to t, preserving each of its
// buckets by calling the matching Add*Clause for every clause it contains.
func (t *Tree) AddSubClause(sub *Tree) {
	if sub == nil {
		return
	}
	for _, c := range sub.Must {
		t.AddAndClause(c)
	}
	for _, c := range sub.Should {
		t.AddOrClause(c)
	}
	for _, c := range sub.MustNot {
		t.AddNotClause(c)
	}
}

// Empty reports whether the tree has no clauses in any bucket.
func (t *Tree) Empty() bool {
	return t == nil || (len(t.Must) == 0 && len(t.Should) == 0 && len(t.MustNot) == 0)
}
