package parser

import (
	"regexp"

	"github.com/parsekit/squery/pkg/clause"
	"github.com/parsekit/squery/pkg/field"
	"github.com/samber/oops"
)

// Default grammar knobs (spec §4.1).
const (
	DefaultTermRegex       = `[^\s()]+`
	DefaultFieldRegex      = `[.\w]+`
	DefaultOpRegex         = `~\d+|==|<=|>=|!=|=~|!~|[:=<>~#]`
	DefaultOpNoFieldRegex  = `=~|!~|[~:#]`
	DefaultAndRegex        = `(?i)and\b`
	DefaultOrRegex         = `(?i)or\b`
	DefaultNotRegex        = `(?i)not\b`
	DefaultNearRegex       = `(?i)near(\d+)\b`
	DefaultRangeRegex      = `\.\.`
	DefaultPhraseDelim     = '"'
	DefaultOp              = clause.OpContains
)

// TermExpanderFunc rewrites a bareword term into zero or more replacement
// terms (spec §4.6). A nil return means "no change, keep the term as-is";
// any non-nil slice (including a single-element one) replaces the leaf
// with an OR-group of one leaf per returned term, each carrying the
// original field and op.
type TermExpanderFunc func(term string) []string

// Config bundles the parser configuration knobs from spec §6. It is a
// plain value struct — not a fluent builder — because unlike the teacher's
// inheritable dialect tree (pkg/dialect.Builder), squery's configuration
// is a one-shot, non-inheriting value: the flat key table in spec §6 maps
// directly onto struct fields.
type Config struct {
	// DefaultBoolOp is the initial sign for each clause: "+" (default,
	// implicit AND) or "" (implicit OR).
	DefaultBoolOp string
	// DefaultField is used when a term has no explicit field.
	DefaultField string
	// DefaultOp is injected alongside DefaultField (default ":").
	DefaultOp clause.Op
	// Fields is the field registry; nil disables alias expansion and
	// field validation entirely.
	Fields *field.Registry
	// Dialect selects the target serialization dialect.
	Dialect clause.DialectID
	// Options is passed through verbatim to the dialect.
	Options clause.Options
	// CroakOnError: on a parse error, true makes Parse return a nil Tree
	// with the error; false makes it return an empty Tree with the error.
	CroakOnError bool
	// Sloppy enables the lenient recovery mode (spec §4.2).
	Sloppy bool
	// TermExpander is the optional term-rewrite hook (spec §4.6).
	TermExpander TermExpanderFunc

	// Grammar overrides; empty strings fall back to the Default* consts
	// above.
	TermRegex      string
	FieldRegex     string
	OpRegex        string
	OpNoFieldRegex string
	AndRegex       string
	OrRegex        string
	NotRegex       string
	NearRegex      string
	RangeRegex     string
	PhraseDelim    byte
}

// Parser parses query strings according to its Config (spec §4.1–§4.3).
// A Parser is immutable after New returns and is safe for concurrent use
// by multiple goroutines (spec §5): its compiled regexes and field
// registry are never mutated post-construction.
type Parser struct {
	cfg Config

	termRe, fieldRe, opRe, opNoFieldRe *regexp.Regexp
	andRe, orRe, notRe, nearRe, rangeRe *regexp.Regexp

	lastErr error
}

func anchor(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)`)
}

func coalesce(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// New validates cfg and compiles its regex knobs, returning a ready-to-use
// Parser. It returns a ConfigError (spec §7.4) for a malformed field
// registry.
func New(cfg Config) (*Parser, error) {
	if cfg.DefaultBoolOp == "" {
		cfg.DefaultBoolOp = "+"
	}
	if cfg.DefaultOp == "" {
		cfg.DefaultOp = DefaultOp
	}
	if cfg.PhraseDelim == 0 {
		cfg.PhraseDelim = DefaultPhraseDelim
	}
	if cfg.Dialect == "" {
		cfg.Dialect = clause.Native
	}
	if cfg.Fields != nil {
		if err := cfg.Fields.Validate(); err != nil {
			return nil, err
		}
	}

	p := &Parser{cfg: cfg}
	var err error
	for _, step := range []struct {
		dst     **regexp.Regexp
		pattern string
	}{
		{&p.termRe, coalesce(cfg.TermRegex, DefaultTermRegex)},
		{&p.fieldRe, coalesce(cfg.FieldRegex, DefaultFieldRegex)},
		{&p.opRe, coalesce(cfg.OpRegex, DefaultOpRegex)},
		{&p.opNoFieldRe, coalesce(cfg.OpNoFieldRegex, DefaultOpNoFieldRegex)},
		{&p.andRe, coalesce(cfg.AndRegex, DefaultAndRegex)},
		{&p.orRe, coalesce(cfg.OrRegex, DefaultOrRegex)},
		{&p.notRe, coalesce(cfg.NotRegex, DefaultNotRegex)},
		{&p.nearRe, coalesce(cfg.NearRegex, DefaultNearRegex)},
	} {
		*step.dst, err = anchor(step.pattern)
		if err != nil {
			return nil, oops.In("squery").Code("CONFIG_ERROR").Wrap(err)
		}
	}
	p.rangeRe, err = regexp.Compile(coalesce(cfg.RangeRegex, DefaultRangeRegex))
	if err != nil {
		return nil, oops.In("squery").Code("CONFIG_ERROR").Wrap(err)
	}
	return p, nil
}

// LastError returns the error from the most recent Parse call, or nil.
// It exists for parity with the source's `parser.error` attribute for
// callers that prefer polling over checking Parse's second return value.
func (p *Parser) LastError() error {
	return p.lastErr
}

// Dialect returns the parser's configured target dialect.
func (p *Parser) Dialect() clause.DialectID {
	return p.cfg.Dialect
}

// Fields returns the parser's field registry, or nil.
func (p *Parser) Fields() *field.Registry {
	return p.cfg.Fields
}
