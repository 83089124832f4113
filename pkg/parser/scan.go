package parser

// cursor walks a query string by byte offset. Unlike the teacher's
// character-at-a-time Lexer (which tokenizes a fixed SQL keyword set up
// front), squery's grammar is a sequence of regex-shaped fragments — term,
// field, op, keyword — so the cursor exposes "try to match this pattern
// at the current position" rather than a NextToken() token stream.
type cursor struct {
	s   string
	pos int
}

func newCursor(s string) *cursor {
	return &cursor{s: s}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.s)
}

func (c *cursor) rest() string {
	return c.s[c.pos:]
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.s[c.pos]
}

func (c *cursor) skipSpace() {
	for !c.eof() && isSpace(c.s[c.pos]) {
		c.pos++
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

type anchoredRegexp interface {
	FindString(string) string
}

// matchAnchored reports the leftmost match of re at c's current position
// and advances past it, or returns "" without moving the cursor if re
// does not match there. Every regex handed to matchAnchored must have
// been compiled with a leading "^" (see anchor in config.go).
func matchAnchored(re anchoredRegexp, c *cursor) string {
	m := re.FindString(c.rest())
	if m == "" {
		return ""
	}
	c.pos += len(m)
	return m
}

func (p *Parser) matchTerm(c *cursor) string      { return matchAnchored(p.termRe, c) }
func (p *Parser) matchField(c *cursor) string     { return matchAnchored(p.fieldRe, c) }
func (p *Parser) matchOp(c *cursor) string        { return matchAnchored(p.opRe, c) }
func (p *Parser) matchOpNoField(c *cursor) string { return matchAnchored(p.opNoFieldRe, c) }
func (p *Parser) matchAnd(c *cursor) string       { return matchAnchored(p.andRe, c) }
func (p *Parser) matchOr(c *cursor) string        { return matchAnchored(p.orRe, c) }
func (p *Parser) matchNot(c *cursor) string       { return matchAnchored(p.notRe, c) }
func (p *Parser) matchNear(c *cursor) string      { return matchAnchored(p.nearRe, c) }

// splitRange splits an already-captured bareword term on the parser's
// configured range separator (spec §4.1 step 4: "term1..term2"),
// reporting ok=false if the term does not contain one or splits into an
// empty half.
func (p *Parser) splitRange(term string) (lo, hi string, ok bool) {
	loc := p.rangeRe.FindStringIndex(term)
	if loc == nil {
		return "", "", false
	}
	lo, hi = term[:loc[0]], term[loc[1]:]
	if lo == "" || hi == "" {
		return "", "", false
	}
	return lo, hi, true
}
