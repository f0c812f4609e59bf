package bibtex

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lehigh-university-libraries/bibfield/codec"
	"github.com/lehigh-university-libraries/bibfield/entry"
	"github.com/lehigh-university-libraries/bibfield/format"
	"github.com/lehigh-university-libraries/bibfield/schema"
)

// Parse reads BibTeX and returns the entries in file order. @string
// definitions go to opts.Strings when it is non-nil; @preamble and
// @comment blocks are skipped. Outside strict mode a malformed entry is
// logged and skipped.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*entry.Entry, error) {
	opts = opts.Normalize()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	p := &parser{s: scanner{data: data, line: 1}, opts: opts}
	return p.parse()
}

// errEOF marks input that ends inside a block.
var errEOF = errors.New("unexpected end of input")

type scanner struct {
	data []byte
	pos  int
	line int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.data)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.data[s.pos]
}

func (s *scanner) next() byte {
	c := s.data[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
	}
	return c
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.next()
	}
}

// skipTo advances to the next c and reports whether one was found. The
// c itself is not consumed.
func (s *scanner) skipTo(c byte) bool {
	for !s.eof() {
		if s.peek() == c {
			return true
		}
		s.next()
	}
	return false
}

// ident reads a type, macro or field name.
func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() && isIdentChar(s.peek()) {
		s.next()
	}
	return string(s.data[start:s.pos])
}

func (s *scanner) expect(c byte) error {
	s.skipSpace()
	if s.eof() {
		return errEOF
	}
	if got := s.peek(); got != c {
		return fmt.Errorf("expected %q, found %q", c, got)
	}
	s.next()
	return nil
}

// rawValue reads a field value up to the ',' or closing delimiter that ends
// it, honouring brace nesting and quoted literals. The terminator is not
// consumed.
func (s *scanner) rawValue(closer byte) (string, error) {
	start := s.pos
	depth := 0
	quoted := false
	for !s.eof() {
		c := s.peek()
		switch {
		case c == '\\':
			s.next()
			if !s.eof() {
				s.next()
			}
			continue
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == '"' && depth == 0:
			quoted = !quoted
		case depth == 0 && !quoted && (c == ',' || c == closer):
			return strings.TrimSpace(string(s.data[start:s.pos])), nil
		}
		s.next()
	}
	return "", errEOF
}

// skipBlock consumes a balanced block whose opener was already read.
func (s *scanner) skipBlock(opener, closer byte) error {
	depth := 1
	for !s.eof() {
		switch s.next() {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return errEOF
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("_-:.+/'!?&*<>", c) >= 0
}

type parser struct {
	s       scanner
	opts    *format.ParseOptions
	entries []*entry.Entry
}

func (p *parser) errorf(line int, msgFormat string, args ...any) error {
	msg := fmt.Sprintf(msgFormat, args...)
	if p.opts.SourceName != "" {
		return fmt.Errorf("%s:%d: %s", p.opts.SourceName, line, msg)
	}
	return fmt.Errorf("line %d: %s", line, msg)
}

func (p *parser) parse() ([]*entry.Entry, error) {
	for p.s.skipTo('@') {
		p.s.next()
		line, start := p.s.line, p.s.pos

		if err := p.block(); err != nil {
			err = p.errorf(line, "%v", err)
			if p.opts.Strict {
				return nil, err
			}
			slog.Warn("skipping malformed BibTeX block", "err", err)
			// Resume just after the '@' that opened the bad block.
			p.s.pos, p.s.line = start, line
		}
	}
	return p.entries, nil
}

// block parses one @-block after its '@'.
func (p *parser) block() error {
	typeName := strings.ToLower(p.s.ident())
	if typeName == "" {
		return fmt.Errorf("missing block type after '@'")
	}

	p.s.skipSpace()
	var closer byte
	switch p.s.peek() {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	default:
		return fmt.Errorf("expected '{' or '(' after @%s", typeName)
	}
	opener := p.s.next()

	switch typeName {
	case "comment", "preamble":
		slog.Debug("skipping block", "type", typeName, "line", p.s.line)
		return p.s.skipBlock(opener, closer)
	case "string":
		return p.stringDef(closer)
	default:
		return p.entry(typeName, closer)
	}
}

func (p *parser) stringDef(closer byte) error {
	p.s.skipSpace()
	name := p.s.ident()
	if name == "" {
		return fmt.Errorf("@string without a name")
	}
	if err := p.s.expect('='); err != nil {
		return fmt.Errorf("@string %s: %w", name, err)
	}
	p.s.skipSpace()
	raw, err := p.s.rawValue(closer)
	if err != nil {
		return fmt.Errorf("@string %s: %w", name, err)
	}
	if err := p.s.expect(closer); err != nil {
		return fmt.Errorf("@string %s: %w", name, err)
	}
	if p.opts.Strings != nil {
		p.opts.Strings[strings.ToLower(name)] = unwrapLines(codec.ParseField(raw))
	}
	return nil
}

func (p *parser) entry(typeName string, closer byte) error {
	typ, ok := p.opts.Types.Get(typeName)
	if !ok {
		slog.Debug("unknown entry type", "type", typeName)
		typ = &schema.EntryType{Name: typeName}
	}

	p.s.skipSpace()
	keyStart := p.s.pos
	for !p.s.eof() && p.s.peek() != ',' && p.s.peek() != closer {
		p.s.next()
	}
	if p.s.eof() {
		return errEOF
	}
	citeKey := strings.TrimSpace(string(p.s.data[keyStart:p.s.pos]))

	e, err := entry.NewWithGenerator(p.opts.IDs, typ)
	if err != nil {
		return err
	}
	if citeKey != "" {
		if err := e.SetField(schema.KeyField, citeKey); err != nil {
			return err
		}
	}

	for {
		p.s.skipSpace()
		if p.s.eof() {
			return errEOF
		}
		switch p.s.peek() {
		case closer:
			p.s.next()
			p.entries = append(p.entries, e)
			return nil
		case ',':
			p.s.next()
			continue
		}

		name := strings.ToLower(p.s.ident())
		if name == "" {
			return fmt.Errorf("entry %q: expected field name, found %q", citeKey, p.s.peek())
		}
		if err := p.s.expect('='); err != nil {
			return fmt.Errorf("entry %q field %s: %w", citeKey, name, err)
		}
		p.s.skipSpace()
		raw, err := p.s.rawValue(closer)
		if err != nil {
			return fmt.Errorf("entry %q field %s: %w", citeKey, name, err)
		}

		if name == schema.IDField {
			slog.Warn("ignoring reserved field name", "key", citeKey, "field", name, "line", p.s.line)
			continue
		}
		if e.HasField(name) {
			slog.Debug("duplicate field, keeping the last value", "key", citeKey, "field", name)
		}
		if err := e.SetField(name, p.decodeValue(name, raw)); err != nil {
			return fmt.Errorf("entry %q: %w", citeKey, err)
		}
	}
}

// decodeValue turns a raw BibTeX value into the normalized form.
func (p *parser) decodeValue(name, raw string) string {
	prefs := p.opts.Prefs

	var v string
	if prefs.ResolvesStrings(name) {
		v = codec.ParseField(raw)
	} else {
		v = codec.Shave(raw)
	}
	if !prefs.IsNonWrappableField(name) {
		v = unwrapLines(v)
	}
	if prefs.PutBracesAroundCapitalsIn(name) {
		v = codec.UnwrapCapitals(v)
	}
	return v
}

var lineBreak = regexp.MustCompile(`[ \t]*\r?\n[ \t]*`)

// unwrapLines joins lines broken by the writer's wrapping.
func unwrapLines(s string) string {
	if !strings.ContainsRune(s, '\n') {
		return s
	}
	return lineBreak.ReplaceAllString(s, " ")
}
