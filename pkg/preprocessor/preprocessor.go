// Package preprocessor expands macros and conditional-compilation
// directives over a tokenized source file, producing a cleaned byte stream
// plus a text map that lets later stages translate positions in that output
// back to the original source.
package preprocessor

import (
	"bytes"
	"fmt"

	"github.com/hexaengine/hxslc/pkg/diag"
	"github.com/hexaengine/hxslc/pkg/lexer"
	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/hexaengine/hxslc/pkg/token"
)

var directiveNames = map[string]bool{
	"define": true, "if": true, "ifdef": true, "ifndef": true,
	"elif": true, "else": true, "endif": true, "include": true,
	"warning": true, "error": true, "pragma": true,
}

// isDirectiveToken reports whether t names a preprocessor directive. "if"
// and "else" are also main-language keywords, so the directive name can
// surface as either token.Keyword or token.Identifier depending on which
// vocabulary the lexer matched first.
func isDirectiveToken(t token.Token) bool {
	return (t.Kind == token.Identifier || t.Kind == token.Keyword) && directiveNames[t.Text]
}

type suppressionRange struct {
	code  diag.Code
	start int
	end   int // -1 while open
}

// Preprocessor expands one source file at a time against a shared macro
// table, so macros defined in an earlier file remain visible (the include
// model this spec recognizes paths for but does not open itself).
type Preprocessor struct {
	logger *diag.Logger
	macros *Table

	ifState  IfState
	ifStack  ifStateStack
	suppress []suppressionRange

	out *bytes.Buffer
	tm  *source.TextMap
}

// New constructs a Preprocessor sharing the given diagnostic logger.
func New(logger *diag.Logger) *Preprocessor {
	return &Preprocessor{logger: logger, macros: newTable()}
}

// reLex tokenizes an already-expanded macro body fragment so its substance
// (numeric literals, identifiers, operators) can feed back into the
// constant-expression evaluator typed correctly, rather than as raw text.
func reLex(data []byte, logger *diag.Logger) []token.Token {
	mgr := source.NewManager()
	id := mgr.Add("<macro-expansion>", data)

	return lexer.New(mgr.Get(id), lexer.NewMainConfig(), logger).Tokenize()
}

func truthy(n token.Number) bool {
	return !n.IsUnknown() && !n.IsZero()
}

// Process tokenizes file with the preprocessor's lexer configuration,
// expands directives and macros, and returns the cleaned byte buffer and a
// text map recording any (output range -> original span) adjustments.
func (p *Preprocessor) Process(file *source.File) ([]byte, *source.TextMap) {
	p.out = &bytes.Buffer{}
	p.tm = source.NewTextMap(file.ID())

	lx := lexer.New(file, lexer.NewPreprocessorConfig(), p.logger)
	stream := token.NewStream(lx.Tokenize())

	for stream.CanAdvance() {
		p.transform(stream)
	}

	if !p.ifStack.empty() {
		p.logger.Log(diag.MissingEndif, stream.Span())
	}

	for _, r := range p.suppress {
		if r.end == -1 {
			p.logger.DisableWarning(r.code, r.start)
		}
	}

	return p.out.Bytes(), p.tm
}

// transform consumes and reacts to the current token, writing to the output
// stream as needed; directive tokens are entirely swallowed.
func (p *Preprocessor) transform(s *token.Stream) {
	cur := s.Current()

	if cur.Kind == token.NewLine {
		p.out.WriteByte('\n')
		s.Advance()
		return
	}

	if cur.Kind == token.Delimiter && cur.Text == "#" {
		start := s.Position()
		s.Advance()
		s.SkipTrivia(false)

		name := s.Current()
		if !isDirectiveToken(name) {
			p.logger.Log(diag.ExpectedDirective, cur.Span)
			s.SetPosition(start)
			s.Advance()
			return
		}

		s.Advance()
		p.directive(name.Text, s)

		return
	}

	if cur.Kind == token.Identifier {
		if p.expandMacro(s, cur) {
			return
		}
	}

	p.out.WriteString(cur.Text)
	s.Advance()
}

func (p *Preprocessor) directive(name string, s *token.Stream) {
	switch name {
	case "define":
		p.handleDefine(s)
	case "if":
		p.handleIf(s)
	case "ifdef":
		p.handleIfdef(s, false)
	case "ifndef":
		p.handleIfdef(s, true)
	case "elif":
		p.handleElif(s)
	case "else":
		p.handleElse(s)
	case "endif":
		p.handleEndif(s)
	case "include":
		s.SkipTrivia(true)
		if s.Current().Kind == token.Literal {
			s.Advance()
		}
		s.SkipToEndOfLine()
	case "warning", "error":
		s.SkipToEndOfLine()
	case "pragma":
		p.handlePragma(s)
	}
}

func (p *Preprocessor) handleDefine(s *token.Stream) {
	s.SkipTrivia(true)

	nameTok := s.Current()
	if nameTok.Kind != token.Identifier {
		p.logger.Log(diag.ExpectedIdentifier, nameTok.Span)
		s.SkipToEndOfLine()
		return
	}

	s.Advance()

	m := newMacro(nameTok.Text)

	if s.Current().Kind == token.Delimiter && s.Current().Text == "(" {
		s.Advance()

		first := true
		for !s.TryDelimiter(")") {
			if !first {
				if !s.TryDelimiter(",") {
					if !s.TryRecoverParameterList() {
						break
					}

					continue
				}
			}
			first = false

			s.SkipTrivia(false)
			paramTok := s.Current()

			if paramTok.Kind != token.Identifier {
				break
			}

			s.Advance()
			m.AddParam(paramTok.Text)
		}
	}

	s.SkipTrivia(false)
	m.Body = s.SkipToEndOfLine()

	p.macros.Define(m)
}

func (p *Preprocessor) handleIf(s *token.Stream) {
	s.SkipTrivia(true)
	result := p.evalLine(s)

	p.ifStack.push(p.ifState)
	p.ifState = ifStateNone

	if truthy(result) {
		p.ifState |= ifStateBranchTaken
	} else {
		p.skipBlock(s)
	}
}

func (p *Preprocessor) handleIfdef(s *token.Stream, negate bool) {
	s.SkipTrivia(true)

	name := s.Current()
	if name.Kind == token.Identifier {
		s.Advance()
	} else {
		p.logger.Log(diag.ExpectedIdentifier, name.Span)
	}

	s.SkipToEndOfLine()

	result := p.macros.Defined(name.Text) != negate

	p.ifStack.push(p.ifState)
	p.ifState = ifStateNone

	if result {
		p.ifState |= ifStateBranchTaken
	} else {
		p.skipBlock(s)
	}
}

func (p *Preprocessor) handleElif(s *token.Stream) {
	s.SkipTrivia(true)

	if p.ifStack.empty() {
		p.logger.Log(diag.PrepMissingIf, s.Span(), "#elif")
		s.SkipToEndOfLine()
		return
	}

	if p.ifState&ifStateBranchTaken != 0 {
		p.skipBlock(s)
		return
	}

	result := p.evalLine(s)
	if truthy(result) {
		p.ifState |= ifStateBranchTaken
	} else {
		p.skipBlock(s)
	}
}

func (p *Preprocessor) handleElse(s *token.Stream) {
	s.SkipToEndOfLine()

	if p.ifStack.empty() {
		p.logger.Log(diag.PrepMissingIf, s.Span(), "#else")
		return
	}

	if p.ifState&ifStateBranchTaken != 0 {
		p.skipBlock(s)
	}
}

func (p *Preprocessor) handleEndif(s *token.Stream) {
	s.SkipToEndOfLine()

	top, ok := p.ifStack.pop()
	if !ok {
		p.logger.Log(diag.PrepMissingIf, s.Span(), "#endif")
		return
	}

	p.ifState = top
}

// skipBlock advances past tokens, tracking nested #if depth, until the
// matching #elif/#else/#endif of the current cascade is found (left as the
// next directive to process) or EOF is reached.
func (p *Preprocessor) skipBlock(s *token.Stream) {
	depth := 1

	for s.CanAdvance() {
		cur := s.Current()

		if cur.Kind == token.NewLine {
			p.out.WriteByte('\n')
			s.Advance()
			continue
		}

		if cur.Kind != token.Delimiter || cur.Text != "#" {
			s.Advance()
			continue
		}

		mark := s.Position()
		s.Advance()
		s.SkipTrivia(false)

		name := s.Current()
		if !isDirectiveToken(name) {
			s.SetPosition(mark)
			s.Advance()
			continue
		}

		switch name.Text {
		case "if", "ifdef", "ifndef":
			depth++
		case "elif", "else":
			if depth == 1 {
				s.SetPosition(mark)
				return
			}
		case "endif":
			depth--
			if depth == 0 {
				s.SetPosition(mark)
				return
			}
		}

		s.Advance()
		s.SkipToEndOfLine()
	}

	p.logger.Log(diag.MissingEndif, s.Span())
}

func (p *Preprocessor) handlePragma(s *token.Stream) {
	s.SkipTrivia(true)

	kind := s.Current()
	if kind.Kind != token.Identifier || kind.Text != "warning" {
		s.SkipToEndOfLine()
		return
	}

	s.Advance()
	s.SkipTrivia(true)

	op := s.Current()
	s.Advance()
	s.SkipTrivia(true)

	codeTok := s.Current()
	s.Advance()
	s.SkipToEndOfLine()

	code := diag.NewCode(diag.SeverityWarning, messageIDFor(codeTok.Text))
	pos := p.out.Len()

	switch op.Text {
	case "disable":
		p.suppress = append(p.suppress, suppressionRange{code: code, start: pos, end: -1})
	case "restore":
		for i := range p.suppress {
			if p.suppress[i].code == code && p.suppress[i].end == -1 {
				p.suppress[i].end = pos
				p.logger.DisableWarning(code, p.suppress[i].start)
				p.logger.RestoreWarning(code, pos)
			}
		}
	}
}

// messageIDFor maps a #pragma warning's textual diagnostic code to the
// numeric message id scheme diag.Code uses. Every name is FNV-1a hashed and
// masked to 62 bits; no name is looked up among the codes pkg/diag defines,
// so the range the pragma opens or closes is not tied to any diagnostic
// this compiler emits.
func messageIDFor(name string) uint64 {
	var h uint64 = 2166136261

	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= 16777619
	}

	return h & (1<<62 - 1)
}

// expandMacro substitutes a macro invocation's body at the output stream's
// current position, recursively expanding any macro-named tokens found
// within. Returns false if cur does not name an active macro, in which case
// the caller should emit cur verbatim.
func (p *Preprocessor) expandMacro(s *token.Stream, cur token.Token) bool {
	m, ok := p.macros.Lookup(cur.Text)
	if !ok {
		return false
	}

	s.Advance()

	start := p.out.Len()
	p.expandInto(s, m, p.out)
	end := p.out.Len()

	p.tm.Record(source.Mapping{OutputStart: start, OutputEnd: end, Original: cur.Span, LineDelta: -1})

	return true
}

// expandInto writes m's expansion (with parameters substituted and nested
// macros recursively expanded) to w.
func (p *Preprocessor) expandInto(s *token.Stream, m *Macro, w *bytes.Buffer) {
	var args [][]token.Token

	if m.IsFunctionLike() {
		s.SkipTrivia(false)

		if s.TryDelimiter("(") {
			first := true

			for !s.TryDelimiter(")") {
				if !first {
					if !s.TryDelimiter(",") {
						if !s.TryRecoverParameterList() {
							break
						}

						continue
					}

					s.SkipTrivia(false)
				}
				first = false

				args = append(args, p.readMacroArg(s))
			}
		}

		if len(args) != len(m.Params) {
			p.logger.Log(diag.MacroArgCountMismatch, s.Span(), m.Name, fmt.Sprintf("%d", len(m.Params)), fmt.Sprintf("%d", len(args)))
		}
	}

	paramIndex := make(map[string]int, len(m.Params))
	for i, name := range m.Params {
		paramIndex[name] = i
	}

	for _, t := range m.Body {
		if idx, ok := paramIndex[t.Text]; ok && t.Kind == token.Identifier && idx < len(args) {
			for _, at := range args[idx] {
				w.WriteString(at.Text)
			}

			continue
		}

		if t.Kind == token.Identifier {
			if inner, ok := p.macros.Lookup(t.Text); ok {
				p.expandInto(s, inner, w)
				continue
			}
		}

		w.WriteString(t.Text)
	}
}

// readMacroArg reads one comma-separated macro argument, tracking
// parenthesis depth so commas nested inside calls or grouping are not
// treated as argument separators. Identifiers naming an active macro expand
// before substitution; the built-in defined(X) pseudo-macro is recognized
// here too since arguments may reference it.
func (p *Preprocessor) readMacroArg(s *token.Stream) []token.Token {
	var out []token.Token
	depth := 0

	for s.CanAdvance() {
		t := s.Current()

		if t.Kind == token.Delimiter {
			switch t.Text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return out
				}
				depth--
			case ",":
				if depth == 0 {
					return out
				}
			}
		}

		if t.Kind == token.Identifier {
			if t.Text == "defined" {
				s.Advance()
				s.SkipTrivia(false)
				s.TryDelimiter("(")
				name := s.Current()
				if name.Kind == token.Identifier {
					s.Advance()
				}
				s.SkipTrivia(false)
				s.TryDelimiter(")")

				v := int64(0)
				if p.macros.Defined(name.Text) {
					v = 1
				}

				out = append(out, token.Token{Kind: token.Numeric, Span: name.Span, Text: name.Text, Num: token.NewInt(token.NumberI32, v)})
				continue
			}

			if inner, ok := p.macros.Lookup(t.Text); ok {
				s.Advance()

				var buf bytes.Buffer
				p.expandInto(s, inner, &buf)
				// Re-lex the expanded text isn't necessary for constant
				// folding purposes within an argument list: treat it as a
				// single synthetic identifier token carrying no numeric
				// value, matching how nested macro text elsewhere is just
				// replayed as raw bytes.
				out = append(out, token.Token{Kind: token.Identifier, Span: t.Span, Text: buf.String()})
				continue
			}
		}

		out = append(out, t)
		s.Advance()
	}

	return out
}

// EvalExpression reads tokens to end-of-line and evaluates them as a
// constant expression, expanding macros and the defined(X) pseudo-macro
// along the way. Exposed for callers (e.g. tests) that want to evaluate an
// expression independent of a full directive line.
func (p *Preprocessor) EvalExpression(s *token.Stream) token.Number {
	return p.evalLine(s)
}

func (p *Preprocessor) evalLine(s *token.Stream) token.Number {
	var tokens []token.Token

	for s.Current().Kind != token.NewLine && s.CanAdvance() {
		cur := s.Current()

		if cur.Kind == token.Whitespace {
			s.Advance()
			continue
		}

		if cur.Kind == token.Identifier {
			if cur.Text == "defined" {
				s.Advance()
				s.SkipTrivia(false)
				s.TryDelimiter("(")

				name := s.Current()
				if name.Kind == token.Identifier {
					s.Advance()
				}

				s.SkipTrivia(false)
				s.TryDelimiter(")")

				v := int64(0)
				if p.macros.Defined(name.Text) {
					v = 1
				}

				tokens = append(tokens, token.Token{Kind: token.Numeric, Span: name.Span, Num: token.NewInt(token.NumberI32, v)})
				continue
			}

			if m, ok := p.macros.Lookup(cur.Text); ok {
				s.Advance()

				var buf bytes.Buffer
				p.expandInto(s, m, &buf)

				for _, et := range reLex(buf.Bytes(), p.logger) {
					if et.Kind != token.EOF {
						tokens = append(tokens, et)
					}
				}

				continue
			}

			// Bare identifier: evaluates to zero, per the constant
			// expression evaluator's rule for unknown names.
			tokens = append(tokens, token.Token{Kind: token.Numeric, Span: cur.Span, Num: token.NewInt(token.NumberI32, 0)})
			s.Advance()
			continue
		}

		tokens = append(tokens, cur)
		s.Advance()
	}

	return evaluate(tokens)
}
