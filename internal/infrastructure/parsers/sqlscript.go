package parsers

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// reDollarTag matches a Postgres dollar-quote opener such as $$ or $body$.
var reDollarTag = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_]*)?\$`)

// SQLScriptParser splits a SQL script into statements.
type SQLScriptParser struct{}

// Parse reads a script from r and splits it into statements.
func (p *SQLScriptParser) Parse(r io.Reader) ([]entities.Statement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading SQL script: %w", err)
	}
	return SplitStatements(string(data))
}

type scanState int

const (
	stateCode scanState = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
	stateDollarQuote
)

func (s scanState) String() string {
	switch s {
	case stateSingleQuote:
		return "string literal"
	case stateDoubleQuote:
		return "quoted identifier"
	case stateBlockComment:
		return "block comment"
	case stateDollarQuote:
		return "dollar-quoted string"
	default:
		return "statement"
	}
}

// SplitStatements splits script on semicolons that terminate statements.
// Semicolons inside string literals, quoted identifiers, dollar-quoted bodies
// and comments are kept. Comments before the first token of a statement are
// dropped, as are statements that contain only comments or whitespace.
func SplitStatements(script string) ([]entities.Statement, error) {
	s := &splitter{src: script, line: 1}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.statements, nil
}

type splitter struct {
	src        string
	statements []entities.Statement
	buf        strings.Builder

	line      int
	startLine int
	hasCode   bool

	state      scanState
	stateLine  int
	blockDepth int
	dollarTag  string
	backslash  bool // E'' string: backslash escapes the next byte
}

func (s *splitter) run() error {
	for i := 0; i < len(s.src); i++ {
		c := s.src[i]
		next := byte(0)
		if i+1 < len(s.src) {
			next = s.src[i+1]
		}

		switch s.state {
		case stateCode:
			i = s.scanCode(i, c, next)

		case stateSingleQuote:
			s.emit(c)
			switch {
			case s.backslash && c == '\\' && next != 0:
				s.emit(next)
				i++
			case c == '\'' && next == '\'':
				s.emit(next)
				i++
			case c == '\'':
				s.state = stateCode
			}

		case stateDoubleQuote:
			s.emit(c)
			if c == '"' {
				if next == '"' {
					s.emit(next)
					i++
				} else {
					s.state = stateCode
				}
			}

		case stateLineComment:
			s.emitComment(c)
			if c == '\n' {
				s.state = stateCode
			}

		case stateBlockComment:
			s.emitComment(c)
			switch {
			case c == '/' && next == '*':
				s.emitComment(next)
				i++
				s.blockDepth++
			case c == '*' && next == '/':
				s.emitComment(next)
				i++
				s.blockDepth--
				if s.blockDepth == 0 {
					s.state = stateCode
				}
			}

		case stateDollarQuote:
			if strings.HasPrefix(s.src[i:], s.dollarTag) {
				s.emitString(s.dollarTag)
				i += len(s.dollarTag) - 1
				s.state = stateCode
				continue
			}
			s.emit(c)
		}
	}

	if s.state != stateCode && s.state != stateLineComment {
		return fmt.Errorf("line %d: unterminated %s", s.stateLine, s.state)
	}
	s.flush()
	return nil
}

// scanCode handles one byte outside any literal or comment and returns the
// index of the last byte consumed.
func (s *splitter) scanCode(i int, c, next byte) int {
	switch {
	case c == ';':
		s.flush()
	case c == '-' && next == '-':
		s.enter(stateLineComment)
		s.emitComment(c)
		s.emitComment(next)
		return i + 1
	case c == '/' && next == '*':
		s.enter(stateBlockComment)
		s.blockDepth = 1
		s.emitComment(c)
		s.emitComment(next)
		return i + 1
	case c == '\'':
		s.backslash = s.precededByEscapePrefix()
		s.markCode()
		s.enter(stateSingleQuote)
		s.emit(c)
	case c == '"':
		s.markCode()
		s.enter(stateDoubleQuote)
		s.emit(c)
	case c == '$' && !s.precededByIdentifier():
		if tag := reDollarTag.FindString(s.src[i:]); tag != "" {
			s.markCode()
			s.enter(stateDollarQuote)
			s.dollarTag = tag
			s.emitString(tag)
			return i + len(tag) - 1
		}
		s.markCode()
		s.emit(c)
	default:
		if !isSpace(c) {
			s.markCode()
		}
		s.emit(c)
	}
	return i
}

func (s *splitter) enter(state scanState) {
	s.state = state
	s.stateLine = s.line
}

func (s *splitter) markCode() {
	if !s.hasCode {
		s.hasCode = true
		s.startLine = s.line
	}
}

func (s *splitter) emit(c byte) {
	if c == '\n' {
		s.line++
	}
	if s.hasCode || !isSpace(c) {
		s.buf.WriteByte(c)
	}
}

func (s *splitter) emitString(str string) {
	for i := 0; i < len(str); i++ {
		s.emit(str[i])
	}
}

// emitComment keeps comment text only once the statement has started.
func (s *splitter) emitComment(c byte) {
	if c == '\n' {
		s.line++
	}
	if s.hasCode {
		s.buf.WriteByte(c)
	}
}

func (s *splitter) flush() {
	sql := strings.TrimSpace(s.buf.String())
	if s.hasCode && sql != "" {
		s.statements = append(s.statements, entities.Statement{SQL: sql, Line: s.startLine})
	}
	s.buf.Reset()
	s.hasCode = false
}

// precededByEscapePrefix reports whether the quote being opened belongs to
// an E'...' escape string.
func (s *splitter) precededByEscapePrefix() bool {
	text := s.buf.String()
	n := len(text)
	if n == 0 || (text[n-1] != 'E' && text[n-1] != 'e') {
		return false
	}
	return n == 1 || !isIdentChar(text[n-2])
}

// precededByIdentifier reports whether '$' continues an identifier such as
// a$b, which is never a dollar quote.
func (s *splitter) precededByIdentifier() bool {
	text := s.buf.String()
	return len(text) > 0 && isIdentChar(text[len(text)-1])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
