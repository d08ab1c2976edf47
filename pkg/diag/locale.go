package diag

// unknownMessage is returned for a code with no entry in the active locale.
const unknownMessage = "Unknown localization code"

// Locale is an immutable message table selected once at pipeline entry and
// threaded through the logger; it is never mutated globally afterward.
type Locale struct {
	name     string
	messages map[Code]string
}

// Message looks up the formatting string for a code, falling back to
// unknownMessage on miss.
func (l Locale) Message(code Code) string {
	if msg, ok := l.messages[code]; ok {
		return msg
	}

	return unknownMessage
}

// Name returns the locale identifier, e.g. "en_US".
func (l Locale) Name() string {
	return l.name
}

// defaultMessages is the built-in en_US locale table. A real deployment would
// code-generate this from an external locale database; it is hand written
// here since that database lives outside this module.
var defaultMessages = map[Code]string{
	InvalidToken:               "invalid token encountered",
	UnterminatedComment:        "unterminated block comment",
	UnterminatedString:         "unterminated string literal",
	UnexpectedEOF:              "unexpected end of file",
	ExpectedSemicolon:          "expected ';'",
	ExpectedIdentifier:         "expected identifier",
	ExpectedToken:              "expected '{}'",
	MissingOperand:             "missing operand after '{}'",
	UnexpectedToken:            "unexpected token '{}'",
	DeclarationOutOfScope:      "declaration of '{}' is not permitted in this scope",
	ModifierConflict:           "modifiers '{}' and '{}' cannot be combined",
	DuplicateDefaultCase:       "duplicate default case in switch",
	UnexpectedBreak:            "'break' used outside of a loop or switch",
	DuplicateDeclaration:       "'{}' is already declared in this scope",
	SymbolNotFound:             "symbol '{}' not found",
	SymbolWrongKind:            "symbol '{}' does not refer to a {}",
	UseBeforeDeclaration:       "use of '{}' before its declaration",
	AmbiguousOpOverload:        "ambiguous overload for operator '{}'",
	NoOverloadFound:            "no overload found for '{}'",
	OperandTypesIncompatible:   "operand types '{}' and '{}' are incompatible",
	ReturnTypeDoesNotMatch:     "return type '{}' does not match function return type '{}'",
	NonBooleanCondition:        "condition must be of type bool, found '{}'",
	NonIntegralIndex:           "array index must be int or uint, found '{}'",
	NonArrayIndexTarget:        "cannot index into non-array type '{}'",
	RecursiveStructLayout:      "struct '{}' has a recursive layout",
	CannotCast:                 "cannot cast from '{}' to '{}'",
	MissingEndif:               "missing '#endif' at end of file",
	MacroArgCountMismatch:      "macro '{}' expects {} arguments, found {}",
	ExpectedDirective:          "expected preprocessor directive",
	PrepMissingIf:              "'{}' without a matching '#if'",
	UnreachableCode:            "unreachable code",
	TooManyErrors:              "too many errors, aborting",
	InternalInvariantViolation: "internal compiler invariant violated: {}",
}

// DefaultLocale returns the built-in en_US locale.
func DefaultLocale() Locale {
	return Locale{"en_US", defaultMessages}
}

// SetLocale resolves a locale by name, falling back to DefaultLocale if the
// requested locale is unknown.
func SetLocale(name string) Locale {
	if name == "en_US" || name == "" {
		return DefaultLocale()
	}
	// Only en_US ships today; other locales fall back rather than error.
	return DefaultLocale()
}
