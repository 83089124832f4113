package parser

import (
	"strconv"

	"github.com/parsekit/squery/pkg/clause"
)

// pendingClause is a clause awaiting its final bucket assignment. The
// assignment is deferred to the end of the enclosing level (see
// resolveBuckets) because an OR connector anywhere in a level retroactively
// puts every unmarked clause in that level into the should bucket, not
// just the ones after the connector — "foo=(red or green)" renders with
// neither red nor green carrying a "+", including red, which precedes the
// "or".
type pendingClause struct {
	sign     byte // '+' or '-'; meaningless unless explicit
	explicit bool
	cl       *clause.Clause
}

// Parse parses input into a Tree using the parser's configuration.
func (p *Parser) Parse(input string) (*clause.Tree, error) {
	return p.run(input)
}

// ParsePermissive parses input in sloppy recovery mode regardless of the
// parser's configured Sloppy setting (spec §4.2), for callers that want
// strict parsing by default but a best-effort fallback on demand.
func (p *Parser) ParsePermissive(input string) (*clause.Tree, error) {
	relaxed := *p
	relaxed.cfg.Sloppy = true
	relaxed.cfg.CroakOnError = false
	return relaxed.run(input)
}

// ParseWithDialect parses input and targets the returned Tree at dialect
// id instead of the parser's configured default.
func (p *Parser) ParseWithDialect(input string, id clause.DialectID) (*clause.Tree, error) {
	retargeted := *p
	retargeted.cfg.Dialect = id
	return retargeted.run(input)
}

func (p *Parser) run(input string) (*clause.Tree, error) {
	c := newCursor(input)
	tree, err := p.parseLevel(c, "", false, "", false)
	if err == nil {
		c.skipSpace()
		if !c.eof() {
			err = parseErr(input, "unexpected input at byte %d: %q", c.pos, c.rest())
		}
	}
	if err == nil {
		tree, err = p.expandAndValidate(tree, input)
	}
	if err != nil {
		p.lastErr = err
		if p.cfg.CroakOnError {
			return nil, err
		}
		return clause.NewTree(p.cfg.Dialect), err
	}
	p.lastErr = nil
	return tree, nil
}

// parseLevel parses a sequence of clauses up to ')' or end of input. When
// called for a parenthesized subquery, parentField/parentOp (if present)
// carry the field:op pair written before the opening paren, for
// distribution onto child terms that have none of their own (spec §4.1:
// "foo=(red or green)" distributes field=foo, op="=" onto both children).
func (p *Parser) parseLevel(c *cursor, parentField string, hasParentField bool, parentOp clause.Op, hasParentOp bool) (*clause.Tree, error) {
	tree := clause.NewTree(p.cfg.Dialect)
	tree.Options = p.cfg.Options
	if p.cfg.Fields != nil {
		tree.Fields = p.cfg.Fields
	}

	var pend []pendingClause
	connector := "" // "", "and", "or" — the single connector kind seen at this level

	for {
		c.skipSpace()
		if c.eof() || c.peek() == ')' {
			break
		}

		if p.cfg.Sloppy && p.consumeStrayConnector(c) {
			continue
		}

		sign, hasSign, err := p.consumeSign(c)
		if err != nil {
			return nil, err
		}
		c.skipSpace()
		if c.eof() || c.peek() == ')' {
			if hasSign && !p.cfg.Sloppy {
				return nil, parseErr(c.s, "dangling sign with no clause")
			}
			break
		}

		fieldName, haveField, op, haveOp, err := p.consumeFieldOp(c)
		if err != nil {
			return nil, err
		}
		if haveField && hasParentField {
			return nil, parseErr(c.s, "nested field %q inside an already-qualified group", fieldName)
		}

		cl, skip, err := p.parseValue(c, fieldName, haveField, op, haveOp, parentField, hasParentField, parentOp, hasParentOp)
		if err != nil {
			return nil, err
		}
		if skip {
			// Sloppy-mode empty group: contributes nothing at all.
			p.consumeConnector(c, &connector, false)
			continue
		}

		if !haveField && hasParentField && !cl.IsGroup() {
			cl.Field = parentField
			if !haveOp && hasParentOp {
				switch {
				case cl.Range == nil:
					cl.Op = parentOp
				case hasBang(parentOp):
					cl.Op = clause.OpNegRange
				}
			}
		}

		p.applyNear(c, cl)

		if p.cfg.TermExpander != nil && cl.Quote == 0 && cl.Sub == nil && cl.Range == nil {
			if terms := p.cfg.TermExpander(cl.Scalar); terms != nil {
				sub := clause.NewTree(p.cfg.Dialect)
				sub.Options = p.cfg.Options
				sub.Fields = tree.Fields
				for _, t := range terms {
					sub.AddOrClause(&clause.Clause{Field: cl.Field, Op: cl.Op, Scalar: t})
				}
				cl = &clause.Clause{Op: clause.OpGroup, Sub: sub}
			}
		}

		pend = append(pend, pendingClause{sign: sign, explicit: hasSign, cl: cl})

		if err := p.consumeConnectorChecked(c, &connector, hasSign && sign == '-'); err != nil {
			return nil, err
		}
	}

	p.resolveBuckets(tree, pend, connector)

	if !p.cfg.Sloppy && len(tree.Must) == 0 && len(tree.Should) == 0 && len(tree.MustNot) > 0 {
		return nil, parseErr(c.s, "query consists entirely of negated clauses")
	}
	return tree, nil
}

// consumeStrayConnector discards a leading AND/OR keyword that has no
// preceding clause at this level (spec §4.2: "stray boolean keywords ...
// are discarded"), e.g. the leading "and" in "and one:two foo". It never
// fires outside sloppy mode, where such a keyword is only ever consumed
// as a trailing connector after a real clause (consumeConnectorChecked).
func (p *Parser) consumeStrayConnector(c *cursor) bool {
	save := c.pos
	if m := p.matchAnd(c); m != "" {
		return true
	}
	c.pos = save
	if m := p.matchOr(c); m != "" {
		return true
	}
	c.pos = save
	return false
}

// consumeSign consumes a leading +, -, NOT keyword, or bare ! not followed
// by one of :=~ (spec §4.1 step 2).
func (p *Parser) consumeSign(c *cursor) (sign byte, has bool, err error) {
	switch c.peek() {
	case '+':
		c.pos++
		return '+', true, nil
	case '-':
		c.pos++
		return '-', true, nil
	}
	if m := p.matchNot(c); m != "" {
		return '-', true, nil
	}
	if c.peek() == '!' {
		var next byte
		if c.pos+1 < len(c.s) {
			next = c.s[c.pos+1]
		}
		if next != ':' && next != '=' && next != '~' {
			c.pos++
			return '-', true, nil
		}
	}
	return 0, false, nil
}

// consumeFieldOp attempts "field op", "\"field\" op", "'field' op", or a
// field-less op at the cursor (spec §4.1 step 3). haveField/haveOp are
// both false when neither is present, leaving the cursor for a plain
// value.
func (p *Parser) consumeFieldOp(c *cursor) (fieldName string, haveField bool, op clause.Op, haveOp bool, err error) {
	save := c.pos
	if name, ok := p.tryQuotedField(c); ok {
		fieldName, haveField = name, true
	} else if fm := p.matchField(c); fm != "" {
		fieldName, haveField = fm, true
	}
	if haveField {
		if opm := p.matchOp(c); opm != "" {
			return fieldName, true, clause.Op(opm), true, nil
		}
		c.pos = save
		return "", false, "", false, nil
	}
	if opm := p.matchOpNoField(c); opm != "" {
		return "", false, clause.Op(opm), true, nil
	}
	return "", false, "", false, nil
}

// phraseDelim returns the configured phrase-quote character (spec §6
// `phrase_delim`, default '"'), falling back to the default for a Parser
// value that bypassed New (whose cfg.PhraseDelim would be its zero value).
func (p *Parser) phraseDelim() byte {
	if p.cfg.PhraseDelim != 0 {
		return p.cfg.PhraseDelim
	}
	return DefaultPhraseDelim
}

// altQuote returns the other of '"'/'\'' from phraseDelim: both remain
// valid delimiters for a quoted field name or value (spec §4.1's grammar
// lists `"field"`/`'field'` side by side), but only phraseDelim's
// character is a *phrase* delimiter carrying proximity semantics.
func (p *Parser) altQuote() byte {
	if p.phraseDelim() == '\'' {
		return '"'
	}
	return '\''
}

func (p *Parser) isQuoteChar(b byte) bool {
	return b == p.phraseDelim() || b == p.altQuote()
}

// tryQuotedField speculatively parses a quoted field name, rewinding if
// what follows the closing quote is not a recognized operator (in which
// case the quoted text is a value, not a field name).
func (p *Parser) tryQuotedField(c *cursor) (string, bool) {
	if !p.isQuoteChar(c.peek()) {
		return "", false
	}
	save := c.pos
	quote := c.peek()
	c.pos++
	start := c.pos
	for !c.eof() && c.peek() != quote {
		c.pos++
	}
	if c.eof() {
		c.pos = save
		return "", false
	}
	name := c.s[start:c.pos]
	afterQuote := c.pos + 1
	probe := &cursor{s: c.s, pos: afterQuote}
	m := p.matchOp(probe)
	// A "~N" right after a closing phrase delimiter is the phrase's
	// proximity suffix (handled in parseValue), not a field operator.
	if quote == p.phraseDelim() && len(m) > 1 && m[0] == '~' && isDigit(m[1]) {
		m = ""
	}
	if m != "" {
		c.pos = afterQuote
		return name, true
	}
	c.pos = save
	return "", false
}

func (p *Parser) opOrDefault(haveOp bool, op clause.Op) clause.Op {
	if haveOp {
		return op
	}
	return p.cfg.DefaultOp
}

// parseValue consumes a phrase, parenthesized subquery, or bareword term
// (spec §4.1 step 4). skip reports a sloppy-mode empty group that
// contributes nothing to the enclosing level.
func (p *Parser) parseValue(c *cursor, fieldName string, haveField bool, op clause.Op, haveOp bool, parentField string, hasParentField bool, parentOp clause.Op, hasParentOp bool) (cl *clause.Clause, skip bool, err error) {
	switch {
	case c.peek() == '(':
		c.pos++
		subField, subHasField, subOp, subHasOp := fieldName, haveField, op, haveOp
		if !subHasField && hasParentField {
			subField, subHasField = parentField, true
			if hasParentOp {
				subOp, subHasOp = parentOp, true
			}
		}
		sub, err := p.parseLevel(c, subField, subHasField, subOp, subHasOp)
		if err != nil {
			return nil, false, err
		}
		c.skipSpace()
		if c.peek() != ')' {
			return nil, false, parseErr(c.s, "missing closing )")
		}
		c.pos++
		if sub.Empty() {
			if p.cfg.Sloppy {
				return nil, true, nil
			}
			return nil, false, parseErr(c.s, "empty group")
		}
		return &clause.Clause{Op: clause.OpGroup, Sub: sub}, false, nil

	case p.isQuoteChar(c.peek()):
		quote := c.peek()
		c.pos++
		start := c.pos
		for !c.eof() && c.peek() != quote {
			c.pos++
		}
		if c.eof() {
			return nil, false, parseErr(c.s, "unterminated quoted value")
		}
		text := c.s[start:c.pos]
		c.pos++
		leaf := &clause.Clause{Field: fieldName, Op: p.opOrDefault(haveOp, op), Scalar: text, Quote: quote}
		if quote == p.phraseDelim() && c.peek() == '~' {
			save := c.pos
			c.pos++
			numStart := c.pos
			for !c.eof() && isDigit(c.peek()) {
				c.pos++
			}
			if c.pos > numStart {
				n, _ := strconv.Atoi(c.s[numStart:c.pos])
				leaf.Proximity = &n
			} else {
				c.pos = save
			}
		}
		return leaf, false, nil

	default:
		term := p.matchTerm(c)
		if term == "" {
			return nil, false, parseErr(c.s, "expected a value at byte %d", c.pos)
		}
		if lo, hi, ok := p.splitRange(term); ok {
			rangeOp := clause.OpRange
			if haveOp && hasBang(op) {
				rangeOp = clause.OpNegRange
			}
			rg := [2]string{lo, hi}
			return &clause.Clause{Field: fieldName, Op: rangeOp, Range: &rg}, false, nil
		}
		return &clause.Clause{Field: fieldName, Op: p.opOrDefault(haveOp, op), Scalar: term}, false, nil
	}
}

func hasBang(op clause.Op) bool {
	for i := 0; i < len(op); i++ {
		if op[i] == '!' {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// applyNear rewrites cl in place when a NEARn keyword immediately follows
// it (spec §4.1 step 5): the next term is appended to the value, the
// quote is forced to the configured phrase delimiter, and the proximity
// is set to n.
func (p *Parser) applyNear(c *cursor, cl *clause.Clause) {
	save := c.pos
	c.skipSpace()
	m := p.matchNear(c)
	if m == "" {
		c.pos = save
		return
	}
	n := digitsOf(m)
	c.skipSpace()
	next := p.matchTerm(c)
	if next == "" {
		c.pos = save
		return
	}
	cl.Scalar = cl.Scalar + " " + next
	cl.Quote = p.phraseDelim()
	cl.Proximity = &n
}

func digitsOf(s string) int {
	start := len(s)
	for start > 0 && isDigit(s[start-1]) {
		start--
	}
	n, _ := strconv.Atoi(s[start:])
	return n
}

// consumeConnector tries to consume a bare AND/OR connector without
// enforcing the no-mixing or no-negated-OR rules; used for the sloppy
// empty-group-skip path where those rules don't apply to a clause that
// was never added.
func (p *Parser) consumeConnector(c *cursor, connector *string, _ bool) {
	c.skipSpace()
	save := c.pos
	if m := p.matchAnd(c); m != "" {
		*connector = "and"
		return
	}
	if m := p.matchOr(c); m != "" {
		*connector = "or"
		return
	}
	c.pos = save
}

// consumeConnectorChecked consumes a trailing AND/OR connector for a
// clause that was just added to pend, enforcing that a level never mixes
// AND and OR (spec §4.1 step 6) and that an OR never follows an explicit
// negative sign (spec: "a - prefix combined with an OR connector is a
// hard error").
func (p *Parser) consumeConnectorChecked(c *cursor, connector *string, wasExplicitNegative bool) error {
	c.skipSpace()
	save := c.pos
	if m := p.matchAnd(c); m != "" {
		if *connector == "or" {
			return parseErr(c.s, "cannot mix AND and OR at the same nesting level; use parentheses")
		}
		*connector = "and"
		return nil
	}
	if m := p.matchOr(c); m != "" {
		if *connector == "and" {
			return parseErr(c.s, "cannot mix AND and OR at the same nesting level; use parentheses")
		}
		if wasExplicitNegative {
			return parseErr(c.s, "operands of OR cannot be negated")
		}
		*connector = "or"
		return nil
	}
	c.pos = save
	return nil
}

// resolveBuckets assigns every pending clause to Must/Should/MustNot. An
// explicit +/-/NOT sign always wins; an unmarked clause takes the level's
// effective sign, which is "" (should) if an OR connector appeared
// anywhere in the level, "+" (must) if only AND connectors appeared, and
// the configured DefaultBoolOp if the level used plain juxtaposition with
// no connector keyword at all. This is why "foo=(red or green)" puts red
// — which precedes the "or" — in the should bucket along with green:
// the level's sign is decided once, from every connector in it, not
// clause-by-clause in parse order.
func (p *Parser) resolveBuckets(tree *clause.Tree, pend []pendingClause, connector string) {
	levelSign := p.cfg.DefaultBoolOp
	switch connector {
	case "or":
		levelSign = ""
	case "and":
		levelSign = "+"
	}
	for _, pc := range pend {
		sign := levelSign
		if pc.explicit {
			sign = string(pc.sign)
		}
		switch sign {
		case "+":
			tree.Must = append(tree.Must, pc.cl)
		case "-":
			tree.MustNot = append(tree.MustNot, pc.cl)
		default:
			tree.Should = append(tree.Should, pc.cl)
		}
	}
}
