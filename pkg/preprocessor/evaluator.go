package preprocessor

import "github.com/hexaengine/hxslc/pkg/token"

// precedence tables for the constant-expression evaluator. Higher binds
// tighter. Unary operators always bind tighter than any binary operator.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, "<=": 7, ">": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

const unaryPrecedence = 100

func isUnaryCandidate(op string) bool {
	return op == "-" || op == "!" || op == "~"
}

// evalItem is a postfix-stream element: either an operand token or an
// operator tagged with whether it is unary.
type evalItem struct {
	tok    token.Token
	unary  bool
	isOp   bool
}

// toPostfix runs the shunting-yard algorithm over an infix token run,
// producing a postfix (RPN) item stream. Malformed input (stray closing
// parenthesis, operator used as an operand) is tolerated: offending tokens
// are simply dropped rather than aborting the whole expression.
func toPostfix(tokens []token.Token) []evalItem {
	var output []evalItem
	var opStack []evalItem

	wasOperator := true // true at start so a leading '-' is recognized as unary

	for _, t := range tokens {
		switch t.Kind {
		case token.Numeric, token.Identifier, token.Literal:
			output = append(output, evalItem{tok: t})
			wasOperator = false

		case token.Delimiter:
			if t.Text == "(" {
				opStack = append(opStack, evalItem{tok: t})
			} else if t.Text == ")" {
				matched := false
				for len(opStack) > 0 {
					top := opStack[len(opStack)-1]
					opStack = opStack[:len(opStack)-1]

					if top.tok.Kind == token.Delimiter && top.tok.Text == "(" {
						matched = true
						break
					}

					output = append(output, top)
				}

				_ = matched
				wasOperator = false
			}

		case token.Operator:
			op := t.Text

			unary := isUnaryCandidate(op) && wasOperator
			prec := binaryPrecedence[op]

			if unary {
				prec = unaryPrecedence
			}

			if wasOperator && !unary {
				// Two operators in a row with no unary reading: drop this
				// token rather than abort the expression.
				continue
			}

			wasOperator = true

			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				if top.tok.Kind == token.Delimiter && top.tok.Text == "(" {
					break
				}

				topPrec := binaryPrecedence[top.tok.Text]
				if top.unary {
					topPrec = unaryPrecedence
				}

				leftAssoc := !unary
				if topPrec > prec || (topPrec == prec && leftAssoc) {
					opStack = opStack[:len(opStack)-1]
					output = append(output, evalItem{tok: top.tok, unary: top.unary, isOp: true})
					continue
				}

				break
			}

			opStack = append(opStack, evalItem{tok: t, unary: unary, isOp: true})
		}
	}

	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]

		if top.tok.Kind == token.Delimiter {
			continue
		}

		output = append(output, evalItem{tok: top.tok, unary: top.unary, isOp: true})
	}

	return output
}

// evaluatePostfix walks a postfix item stream with an operand stack.
func evaluatePostfix(items []evalItem) token.Number {
	var stack []token.Number

	pop := func() token.Number {
		if len(stack) == 0 {
			return token.UnknownNumber
		}

		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		return n
	}

	for _, it := range items {
		t := it.tok

		switch {
		case t.Kind == token.Numeric:
			stack = append(stack, t.Num)

		case t.Kind == token.Identifier || t.Kind == token.Literal:
			stack = append(stack, token.NewInt(token.NumberI32, 0))

		case t.Kind == token.Operator && it.unary:
			a := pop()
			stack = append(stack, a.Negate(t.Text))

		case t.Kind == token.Operator:
			b := pop()
			a := pop()

			switch t.Text {
			case "&&", "||":
				stack = append(stack, a.Logical(t.Text, b))
			case "==", "!=", "<", "<=", ">", ">=":
				stack = append(stack, a.Compare(t.Text, b))
			default:
				stack = append(stack, a.Arith(t.Text, b))
			}
		}
	}

	if len(stack) != 1 {
		return token.UnknownNumber
	}

	return stack[0]
}

// evaluate runs the full constant-expression evaluation: shunting-yard to
// postfix, then stack evaluation.
func evaluate(tokens []token.Token) token.Number {
	return evaluatePostfix(toPostfix(tokens))
}
