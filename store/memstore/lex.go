package memstore

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIRI           // <...>, text holds the IRI without brackets
	tokVar           // ?name, text holds the name without the marker
	tokLiteral       // "...", with optional datatype or language tag
	tokIdent         // keyword or bare word (SELECT, LIMIT, numbers)
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokDot
	tokSemicolon
	tokComma
)

type token struct {
	kind     tokenKind
	text     string
	datatype string
	lang     string
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokIRI:
		return "<" + t.text + ">"
	case tokVar:
		return "?" + t.text
	case tokLiteral:
		return `"` + t.text + `"`
	}
	return t.text
}

type lexer struct {
	in  string
	pos int
}

func (l *lexer) errf(format string, args ...interface{}) error {
	return fmt.Errorf("memstore: lex error at offset %d: %s", l.pos, fmt.Sprintf(format, args...))
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.in) && unicode.IsSpace(rune(l.in[l.pos])) {
		l.pos++
	}
}

var literalUnescaper = strings.NewReplacer(
	`\\`, "\\",
	`\"`, "\"",
	`\n`, "\n",
	`\r`, "\r",
	`\t`, "\t",
)

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.in) {
		return token{kind: tokEOF}, nil
	}
	switch c := l.in[l.pos]; c {
	case '<':
		end := strings.IndexByte(l.in[l.pos:], '>')
		if end < 0 {
			return token{}, l.errf("unterminated IRI")
		}
		t := token{kind: tokIRI, text: l.in[l.pos+1 : l.pos+end]}
		l.pos += end + 1
		return t, nil
	case '?':
		l.pos++
		start := l.pos
		for l.pos < len(l.in) && isNameByte(l.in[l.pos]) {
			l.pos++
		}
		if l.pos == start {
			return token{}, l.errf("empty variable name")
		}
		return token{kind: tokVar, text: l.in[start:l.pos]}, nil
	case '"':
		return l.literal()
	case '{':
		l.pos++
		return token{kind: tokLBrace, text: "{"}, nil
	case '}':
		l.pos++
		return token{kind: tokRBrace, text: "}"}, nil
	case '(':
		l.pos++
		return token{kind: tokLParen, text: "("}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, text: ")"}, nil
	case '.':
		l.pos++
		return token{kind: tokDot, text: "."}, nil
	case ';':
		l.pos++
		return token{kind: tokSemicolon, text: ";"}, nil
	case ',':
		l.pos++
		return token{kind: tokComma, text: ","}, nil
	}
	start := l.pos
	for l.pos < len(l.in) && isIdentByte(l.in[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return token{}, l.errf("unexpected character %q", l.in[l.pos])
	}
	return token{kind: tokIdent, text: l.in[start:l.pos]}, nil
}

func (l *lexer) literal() (token, error) {
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.in) {
			return token{}, l.errf("unterminated literal")
		}
		c := l.in[l.pos]
		if c == '\\' && l.pos+1 < len(l.in) {
			b.WriteByte(c)
			b.WriteByte(l.in[l.pos+1])
			l.pos += 2
			continue
		}
		if c == '"' {
			l.pos++
			break
		}
		b.WriteByte(c)
		l.pos++
	}
	t := token{kind: tokLiteral, text: literalUnescaper.Replace(b.String())}
	if strings.HasPrefix(l.in[l.pos:], "^^<") {
		l.pos += 2
		dt, err := l.next()
		if err != nil {
			return token{}, err
		}
		if dt.kind != tokIRI {
			return token{}, l.errf("expected datatype IRI after ^^")
		}
		t.datatype = dt.text
		return t, nil
	}
	if l.pos < len(l.in) && l.in[l.pos] == '@' {
		l.pos++
		start := l.pos
		for l.pos < len(l.in) && (isNameByte(l.in[l.pos]) || l.in[l.pos] == '-') {
			l.pos++
		}
		if l.pos == start {
			return token{}, l.errf("empty language tag")
		}
		t.lang = l.in[start:l.pos]
	}
	return t, nil
}

func isNameByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isNameByte(c) || c == '*'
}
