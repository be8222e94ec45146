package lang

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cbegin/jez-go/internal/errs"
)

// Parser is a recursive-descent parser over the directive grammar
// described for the DSL: a program is a sequence of `.name arg*
// (':' code*)?` directives.
type Parser struct {
	s *stream
}

// Parse tokenizes and parses source into an ordered list of
// directives, or the first error encountered.
func Parse(source string) ([]Directive, *errs.Error) {
	p := &Parser{s: newStream(source)}
	return p.parseProgram()
}

func (p *Parser) parseProgram() ([]Directive, *errs.Error) {
	var directives []Directive
	for {
		p.s.skipSpaceAndComments()
		if p.s.eof() {
			break
		}
		d, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

func (p *Parser) parseDirective() (Directive, *errs.Error) {
	loc := p.s.loc()
	r, _, ok := p.s.next()
	if !ok {
		return Directive{}, errs.At(errs.IncompleteInput, "expected directive", loc.Line, loc.Col)
	}
	if r != '.' {
		return Directive{}, errs.At(errs.UnexpectedToken, "expected '.'", loc.Line, loc.Col)
	}
	nameText, nameLoc := p.s.takeWhile(isWordChar)
	if nameText == "" {
		return Directive{}, errs.At(errs.IncompleteInput, "expected directive name", nameLoc.Line, nameLoc.Col)
	}
	name, err := parseDirectiveName(nameText, nameLoc)
	if err != nil {
		return Directive{}, err
	}

	var args []Argument
	for {
		p.s.skipSpaceAndComments()
		r, ok := p.s.peek()
		if !ok || r == ':' {
			break
		}
		if r == '.' {
			if next, hasNext := p.s.peekAt(1); hasNext && isWordStart(next) {
				break
			}
		}
		arg, err := p.parseArg()
		if err != nil {
			return Directive{}, err
		}
		args = append(args, arg)
	}

	var code []CodeToken
	if r, ok := p.s.peek(); ok && r == ':' {
		p.s.advance()
		code, err = p.parseCodeBody()
		if err != nil {
			return Directive{}, err
		}
	}

	return Directive{Name: name, Args: args, Code: code, Loc: loc}, nil
}

func parseDirectiveName(text string, loc Location) (DirectiveName, *errs.Error) {
	switch text {
	case "version":
		return NameVersion, nil
	case "globals":
		return NameGlobals, nil
	case "def":
		return NameDef, nil
	case "track":
		return NameTrack, nil
	default:
		return 0, errs.At(errs.UnexpectedToken, "unknown directive '"+text+"'", loc.Line, loc.Col)
	}
}

func (p *Parser) parseArg() (Argument, *errs.Error) {
	r, ok := p.s.peek()
	if !ok {
		loc := p.s.loc()
		return Argument{}, errs.At(errs.IncompleteInput, "expected argument", loc.Line, loc.Col)
	}
	if isWordStart(r) {
		word, loc := p.s.takeWhile(isWordChar)
		p.s.skipSpaceAndComments()
		if r2, ok2 := p.s.peek(); ok2 && r2 == '=' {
			p.s.advance()
			p.s.skipSpaceAndComments()
			val, err := p.parseValue()
			if err != nil {
				return Argument{}, err
			}
			return Argument{Name: word, Value: val}, nil
		}
		return Argument{Value: Value{Kind: ValWord, Text: word, Loc: loc}}, nil
	}
	val, err := p.parseValue()
	if err != nil {
		return Argument{}, err
	}
	return Argument{Value: val}, nil
}

func (p *Parser) parseValue() (Value, *errs.Error) {
	r, ok := p.s.peek()
	if !ok {
		loc := p.s.loc()
		return Value{}, errs.At(errs.IncompleteInput, "expected value", loc.Line, loc.Col)
	}
	switch {
	case r == '@':
		loc := p.s.loc()
		p.s.advance()
		word, wloc := p.s.takeWhile(isWordChar)
		if word == "" {
			return Value{}, errs.At(errs.IncompleteInput, "expected variable name", wloc.Line, wloc.Col)
		}
		loc.End = p.s.pos
		return Value{Kind: ValVariable, Text: word, Loc: loc}, nil
	case r == '\'':
		loc := p.s.loc()
		p.s.advance()
		word, wloc := p.s.takeWhile(isWordChar)
		if word == "" {
			return Value{}, errs.At(errs.IncompleteInput, "expected symbol name", wloc.Line, wloc.Col)
		}
		loc.End = p.s.pos
		return Value{Kind: ValSymbol, Text: word, Loc: loc}, nil
	case r == '"':
		return p.parseStringLiteral()
	case unicode.IsDigit(r):
		return p.parseNumber()
	case r == '-':
		if next, ok := p.s.peekAt(1); ok && unicode.IsDigit(next) {
			return p.parseNumber()
		}
		loc := p.s.loc()
		return Value{}, errs.At(errs.UnexpectedToken, "unexpected '-'", loc.Line, loc.Col)
	case isWordStart(r):
		word, loc := p.s.takeWhile(isWordChar)
		return Value{Kind: ValWord, Text: word, Loc: loc}, nil
	default:
		loc := p.s.loc()
		return Value{}, errs.At(errs.UnexpectedToken, "unexpected character '"+string(r)+"'", loc.Line, loc.Col)
	}
}

func (p *Parser) parseNumber() (Value, *errs.Error) {
	loc := p.s.loc()
	neg := false
	if r, ok := p.s.peek(); ok && r == '-' {
		neg = true
		p.s.advance()
	}
	digits, _ := p.s.takeWhile(func(r rune) bool { return unicode.IsDigit(r) || r == '.' })
	if digits == "" {
		return Value{}, errs.At(errs.IncompleteInput, "expected digits", loc.Line, loc.Col)
	}
	n, convErr := strconv.ParseFloat(digits, 64)
	if convErr != nil {
		return Value{}, errs.At(errs.UnexpectedToken, "malformed number '"+digits+"'", loc.Line, loc.Col)
	}
	if neg {
		n = -n
	}
	loc.End = p.s.pos
	return Value{Kind: ValNumber, Num: n, Loc: loc}, nil
}

func (p *Parser) parseStringLiteral() (Value, *errs.Error) {
	loc := p.s.loc()
	p.s.advance() // opening quote
	var sb strings.Builder
	for {
		r, rloc, ok := p.s.next()
		if !ok {
			return Value{}, errs.At(errs.IncompleteInput, "unterminated string literal", rloc.Line, rloc.Col)
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			esc, escLoc, ok := p.s.next()
			if !ok {
				return Value{}, errs.At(errs.IncompleteInput, "unterminated escape", escLoc.Line, escLoc.Col)
			}
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
	loc.End = p.s.pos
	return Value{Kind: ValString, Text: sb.String(), Loc: loc}, nil
}

// parseCodeBody parses the body of a `.def`/`.track` directive, ending
// at EOF or at the first '.' that begins a new directive (a bare '.'
// followed by a letter, since no code token starts that way).
func (p *Parser) parseCodeBody() ([]CodeToken, *errs.Error) {
	var code []CodeToken
	for {
		p.s.skipSpaceAndComments()
		r, ok := p.s.peek()
		if !ok {
			break
		}
		if r == '.' {
			if next, hasNext := p.s.peekAt(1); hasNext && isWordStart(next) {
				break
			}
		}
		tok, err := p.parseCodeToken()
		if err != nil {
			return nil, err
		}
		code = append(code, tok)
	}
	return code, nil
}

func (p *Parser) parseCodeToken() (CodeToken, *errs.Error) {
	loc := p.s.loc()
	r, _ := p.s.peek()
	switch r {
	case '[':
		p.s.advance()
		return CodeToken{Kind: CodeListBegin, Loc: loc}, nil
	case ']':
		p.s.advance()
		return CodeToken{Kind: CodeListEnd, Loc: loc}, nil
	case '(':
		p.s.advance()
		return CodeToken{Kind: CodeSeqBegin, Loc: loc}, nil
	case ')':
		p.s.advance()
		return CodeToken{Kind: CodeSeqEnd, Loc: loc}, nil
	case '{':
		p.s.advance()
		return CodeToken{Kind: CodeGroupBegin, Loc: loc}, nil
	case '}':
		p.s.advance()
		return CodeToken{Kind: CodeGroupEnd, Loc: loc}, nil
	case '~':
		p.s.advance()
		return CodeToken{Kind: CodeNull, Loc: loc}, nil
	case '=':
		p.s.advance()
		p.s.skipSpaceAndComments()
		name, nloc := p.s.takeWhile(isWordChar)
		if name == "" {
			return CodeToken{}, errs.At(errs.IncompleteInput, "expected variable name after '='", nloc.Line, nloc.Col)
		}
		return CodeToken{Kind: CodeStoreVar, Name: name, Loc: loc}, nil
	default:
		val, err := p.parseValue()
		if err != nil {
			return CodeToken{}, err
		}
		return CodeToken{Kind: CodeValue, Value: val, Loc: loc}, nil
	}
}
