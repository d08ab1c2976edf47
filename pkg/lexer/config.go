package lexer

// Config bundles the keyword/operator tries and newline/whitespace emission policy that
// differ between the preprocessor's lexer and the main parser's lexer
// differ: the former emits NewLine/Whitespace/Comment tokens so it can
// reproduce them verbatim in its output, the latter drops them.
type Config struct {
	Keywords     *Trie
	Operators    *Trie
	Delimiters   map[byte]bool
	EmitTrivia   bool // whitespace, newlines, comments
	EmitComments bool
}

// DefaultKeywords is a representative subset of the HLSL/GLSL-shaped keyword
// vocabulary; the exact list is dialect-specific.
var DefaultKeywords = []string{
	"void", "bool", "int", "uint", "half", "float", "double",
	"struct", "class", "namespace", "interface", "enum",
	"if", "else", "for", "while", "do", "switch", "case", "default",
	"break", "continue", "return", "discard",
	"in", "out", "inout", "const", "static", "public", "private",
	"true", "false", "this", "operator", "cast", "using",
}

// DefaultOperators is the operator vocabulary both lexer configurations
// build their operator trie from; operator precedence is not defined here.
var DefaultOperators = []string{
	"<<=", ">>=",
	"+", "-", "*", "/", "%",
	"&&", "||", "&", "|", "^", "~", "!",
	"==", "!=", "<", "<=", ">", ">=",
	"<<", ">>",
	"=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"++", "--",
	"?", ":", "::", ".", "->",
}

// DefaultDelimiters is the single-character delimiter set.
var DefaultDelimiters = map[byte]bool{
	'(': true, ')': true, '{': true, '}': true, '[': true, ']': true,
	',': true, ';': true,
}

// NewMainConfig builds the lexer configuration used by the parser: trivia is
// dropped.
func NewMainConfig() *Config {
	return &Config{
		Keywords:   NewTrie(DefaultKeywords...),
		Operators:  NewTrie(DefaultOperators...),
		Delimiters: DefaultDelimiters,
	}
}

// NewPreprocessorConfig builds the lexer configuration used by the
// preprocessor: whitespace, newlines, and comments are emitted as tokens so
// they can be reproduced (or dropped, for comments) in the cleaned output.
func NewPreprocessorConfig() *Config {
	return &Config{
		Keywords:     NewTrie(DefaultKeywords...),
		Operators:    NewTrie(DefaultOperators...),
		Delimiters:   DefaultDelimiters,
		EmitTrivia:   true,
		EmitComments: true,
	}
}
