package memstore

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/voc/xsd"
)

// patTerm is one position of a triple pattern: a variable or a ground
// term.
type patTerm struct {
	isVar bool
	name  string
	value quad.Value
}

type pattern [3]patTerm

func (p pattern) ground() bool {
	return !p[0].isVar && !p[1].isVar && !p[2].isVar
}

type regexFilter struct {
	varName string
	re      *regexp.Regexp
}

type selectQuery struct {
	distinct bool
	vars     []string // empty means all bound variables
	patterns []pattern
	filters  []regexFilter
	limit    int
}

// updateOp is one operation of an update request. Exactly one of the
// ground forms (deleteData/insertData) or the templated form (where with
// deleteTmpl/insertTmpl) is populated.
type updateOp struct {
	deleteData []pattern
	insertData []pattern

	deleteTmpl []pattern
	insertTmpl []pattern
	where      []pattern
}

type parser struct {
	lex *lexer
	tok token
}

func newParser(in string) (*parser, error) {
	p := &parser{lex: &lexer{in: in}}
	return p, p.advance()
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("memstore: parse error near %s: %s", p.tok, fmt.Sprintf(format, args...))
}

func (p *parser) keyword(kw string) bool {
	return p.tok.kind == tokIdent && strings.EqualFold(p.tok.text, kw)
}

func (p *parser) expectKeyword(kw string) error {
	if !p.keyword(kw) {
		return p.errf("expected %s", kw)
	}
	return p.advance()
}

func (p *parser) expect(kind tokenKind, what string) error {
	if p.tok.kind != kind {
		return p.errf("expected %s", what)
	}
	return p.advance()
}

func parseSelect(in string) (*selectQuery, error) {
	p, err := newParser(in)
	if err != nil {
		return nil, err
	}
	q := &selectQuery{}
	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}
	if p.keyword("DISTINCT") {
		q.distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind == tokIdent && p.tok.text == "*" {
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for p.tok.kind == tokVar {
			q.vars = append(q.vars, p.tok.text)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if len(q.vars) == 0 {
			return nil, p.errf("expected projection variables")
		}
	}
	if err := p.expectKeyword("WHERE"); err != nil {
		return nil, err
	}
	patterns, filters, err := p.groupGraphPattern()
	if err != nil {
		return nil, err
	}
	q.patterns, q.filters = patterns, filters
	if p.keyword("LIMIT") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokIdent {
			return nil, p.errf("expected LIMIT count")
		}
		n, err := strconv.Atoi(p.tok.text)
		if err != nil {
			return nil, p.errf("bad LIMIT count %q", p.tok.text)
		}
		q.limit = n
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind != tokEOF {
		return nil, p.errf("trailing input")
	}
	return q, nil
}

// groupGraphPattern parses "{ triple* filter* }".
func (p *parser) groupGraphPattern() ([]pattern, []regexFilter, error) {
	if err := p.expect(tokLBrace, "{"); err != nil {
		return nil, nil, err
	}
	var (
		patterns []pattern
		filters  []regexFilter
	)
	for p.tok.kind != tokRBrace {
		if p.tok.kind == tokEOF {
			return nil, nil, p.errf("unterminated group pattern")
		}
		if p.keyword("FILTER") {
			f, err := p.regexFilter()
			if err != nil {
				return nil, nil, err
			}
			filters = append(filters, f)
			continue
		}
		pat, err := p.triplePattern()
		if err != nil {
			return nil, nil, err
		}
		patterns = append(patterns, pat)
	}
	return patterns, filters, p.advance()
}

func (p *parser) triplePattern() (pattern, error) {
	var pat pattern
	for i := 0; i < 3; i++ {
		t, err := p.term()
		if err != nil {
			return pat, err
		}
		pat[i] = t
	}
	if p.tok.kind == tokDot {
		if err := p.advance(); err != nil {
			return pat, err
		}
	}
	return pat, nil
}

func (p *parser) term() (patTerm, error) {
	switch p.tok.kind {
	case tokVar:
		t := patTerm{isVar: true, name: p.tok.text}
		return t, p.advance()
	case tokIRI:
		t := patTerm{value: quad.IRI(p.tok.text)}
		return t, p.advance()
	case tokLiteral:
		t := patTerm{value: literalValue(p.tok)}
		return t, p.advance()
	}
	return patTerm{}, p.errf("expected a term")
}

// regexFilter parses "FILTER REGEX(STR(?v), "re")" with an optional
// trailing dot.
func (p *parser) regexFilter() (regexFilter, error) {
	var f regexFilter
	if err := p.expectKeyword("FILTER"); err != nil {
		return f, err
	}
	if err := p.expectKeyword("REGEX"); err != nil {
		return f, err
	}
	if err := p.expect(tokLParen, "("); err != nil {
		return f, err
	}
	if err := p.expectKeyword("STR"); err != nil {
		return f, err
	}
	if err := p.expect(tokLParen, "("); err != nil {
		return f, err
	}
	if p.tok.kind != tokVar {
		return f, p.errf("expected a variable in STR()")
	}
	f.varName = p.tok.text
	if err := p.advance(); err != nil {
		return f, err
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return f, err
	}
	if err := p.expect(tokComma, ","); err != nil {
		return f, err
	}
	if p.tok.kind != tokLiteral {
		return f, p.errf("expected a regex literal")
	}
	re, err := regexp.Compile(p.tok.text)
	if err != nil {
		return f, p.errf("bad regex: %v", err)
	}
	f.re = re
	if err := p.advance(); err != nil {
		return f, err
	}
	if err := p.expect(tokRParen, ")"); err != nil {
		return f, err
	}
	if p.tok.kind == tokDot {
		return f, p.advance()
	}
	return f, nil
}

func parseUpdate(in string) ([]updateOp, error) {
	p, err := newParser(in)
	if err != nil {
		return nil, err
	}
	var ops []updateOp
	for {
		op, err := p.updateOperation()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		if p.tok.kind == tokSemicolon {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if p.tok.kind != tokEOF {
		return nil, p.errf("trailing input")
	}
	return ops, nil
}

func (p *parser) updateOperation() (updateOp, error) {
	var op updateOp
	switch {
	case p.keyword("DELETE"):
		if err := p.advance(); err != nil {
			return op, err
		}
		if p.keyword("DATA") {
			if err := p.advance(); err != nil {
				return op, err
			}
			pats, err := p.groundBlock()
			if err != nil {
				return op, err
			}
			op.deleteData = pats
			return op, nil
		}
		pats, _, err := p.groupGraphPattern()
		if err != nil {
			return op, err
		}
		op.deleteTmpl = pats
		if p.keyword("INSERT") {
			if err := p.advance(); err != nil {
				return op, err
			}
			pats, _, err := p.groupGraphPattern()
			if err != nil {
				return op, err
			}
			op.insertTmpl = pats
		}
		if err := p.expectKeyword("WHERE"); err != nil {
			return op, err
		}
		where, _, err := p.groupGraphPattern()
		if err != nil {
			return op, err
		}
		op.where = where
		return op, nil
	case p.keyword("INSERT"):
		if err := p.advance(); err != nil {
			return op, err
		}
		if p.keyword("DATA") {
			if err := p.advance(); err != nil {
				return op, err
			}
			pats, err := p.groundBlock()
			if err != nil {
				return op, err
			}
			op.insertData = pats
			return op, nil
		}
		pats, _, err := p.groupGraphPattern()
		if err != nil {
			return op, err
		}
		op.insertTmpl = pats
		if err := p.expectKeyword("WHERE"); err != nil {
			return op, err
		}
		where, _, err := p.groupGraphPattern()
		if err != nil {
			return op, err
		}
		op.where = where
		return op, nil
	}
	return op, p.errf("expected DELETE or INSERT")
}

func (p *parser) groundBlock() ([]pattern, error) {
	pats, filters, err := p.groupGraphPattern()
	if err != nil {
		return nil, err
	}
	if len(filters) > 0 {
		return nil, p.errf("FILTER not allowed in a DATA block")
	}
	for _, pat := range pats {
		if !pat.ground() {
			return nil, p.errf("variables not allowed in a DATA block")
		}
	}
	return pats, nil
}

func literalValue(t token) quad.Value {
	if t.lang != "" {
		return quad.LangString{Value: quad.String(t.text), Lang: t.lang}
	}
	if t.datatype != "" && t.datatype != xsd.String {
		return quad.TypedString{Value: quad.String(t.text), Type: quad.IRI(t.datatype)}
	}
	return quad.String(t.text)
}
