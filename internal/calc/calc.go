// Package calc evaluates arithmetic expressions sent by chat users.
//
// Expressions are parsed with expr's parser and evaluated here over a closed
// grammar: numbers, identifiers, unary and binary arithmetic, and calls to a
// fixed set of math functions. Every other node is rejected before anything
// runs. Arithmetic is float64 throughout. Identifiers that are not known
// constants stay symbolic and are rendered back in the result.
package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"go.uber.org/zap"
)

const (
	// MaxExpressionLength bounds the work a single expression can ask for.
	MaxExpressionLength = 512

	InvalidExpressionMessage = "❌ Invalid mathematical expression."
)

type function struct {
	arity int
	call  func(args []float64) float64
}

func unary(fn func(float64) float64) function {
	return function{arity: 1, call: func(args []float64) float64 { return fn(args[0]) }}
}

func binary(fn func(float64, float64) float64) function {
	return function{arity: 2, call: func(args []float64) float64 { return fn(args[0], args[1]) }}
}

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var functions = map[string]function{
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"log":   unary(math.Log),
	"ln":    unary(math.Log),
	"log10": unary(math.Log10),
	"log2":  unary(math.Log2),
	"exp":   unary(math.Exp),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"pow":   binary(math.Pow),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
}

var operators = map[string]func(float64, float64) float64{
	"+":  func(a, b float64) float64 { return a + b },
	"-":  func(a, b float64) float64 { return a - b },
	"*":  func(a, b float64) float64 { return a * b },
	"/":  func(a, b float64) float64 { return a / b },
	"%":  math.Mod,
	"^":  math.Pow,
	"**": math.Pow,
}

// Result is either a number or, when the expression has free identifiers,
// the partially folded expression text.
type Result struct {
	Value    float64
	Symbolic string
}

func (r Result) String() string {
	if r.Symbolic != "" {
		return r.Symbolic
	}
	return FormatNumber(r.Value)
}

type Evaluator struct {
	logger *zap.Logger
}

func NewEvaluator(logger *zap.Logger) *Evaluator {
	return &Evaluator{logger: logger}
}

// Evaluate returns the user-facing reply for expression. It never returns an error:
// anything outside the arithmetic grammar yields InvalidExpressionMessage.
func (e *Evaluator) Evaluate(expression string) string {
	result, err := e.Eval(expression)
	if err != nil {
		e.logger.Debug("Rejected expression",
			zap.Error(err),
			zap.String("expression", expression))
		return InvalidExpressionMessage
	}
	return "Result: " + result.String()
}

// Eval parses and evaluates expression.
func (e *Evaluator) Eval(expression string) (Result, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return Result{}, ErrEmptyExpression
	}
	if len(expression) > MaxExpressionLength {
		return Result{}, ErrExpressionTooLong
	}

	tree, err := parser.Parse(expression)
	if err != nil {
		return Result{}, &SyntaxError{Expression: expression, Err: err}
	}

	v, err := eval(tree.Node)
	if err != nil {
		return Result{}, &SyntaxError{Expression: expression, Err: err}
	}
	if v.symbolic() {
		return Result{Symbolic: v.sym}, nil
	}
	return Result{Value: v.num}, nil
}

// operand is a folded number or a symbolic sub-expression.
type operand struct {
	num      float64
	sym      string
	compound bool
}

func (o operand) symbolic() bool {
	return o.sym != ""
}

// text renders o as part of a larger symbolic expression.
func (o operand) text() string {
	switch {
	case !o.symbolic():
		if o.num < 0 {
			return "(" + strconv.FormatFloat(o.num, 'g', -1, 64) + ")"
		}
		return strconv.FormatFloat(o.num, 'g', -1, 64)
	case o.compound:
		return "(" + o.sym + ")"
	default:
		return o.sym
	}
}

func eval(node ast.Node) (operand, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return operand{num: float64(n.Value)}, nil

	case *ast.FloatNode:
		return operand{num: n.Value}, nil

	case *ast.IdentifierNode:
		if c, ok := constants[n.Value]; ok {
			return operand{num: c}, nil
		}
		if _, ok := functions[n.Value]; ok {
			return operand{}, fmt.Errorf("function %s used as a value", n.Value)
		}
		return operand{sym: n.Value}, nil

	case *ast.UnaryNode:
		if n.Operator != "-" && n.Operator != "+" {
			return operand{}, fmt.Errorf("%w: unary %q", errUnsupported, n.Operator)
		}
		v, err := eval(n.Node)
		if err != nil {
			return operand{}, err
		}
		if n.Operator == "+" {
			return v, nil
		}
		if v.symbolic() {
			return operand{sym: "-" + v.text(), compound: true}, nil
		}
		return operand{num: -v.num}, nil

	case *ast.BinaryNode:
		op, ok := operators[n.Operator]
		if !ok {
			return operand{}, fmt.Errorf("%w: operator %q", errUnsupported, n.Operator)
		}
		left, err := eval(n.Left)
		if err != nil {
			return operand{}, err
		}
		right, err := eval(n.Right)
		if err != nil {
			return operand{}, err
		}
		if left.symbolic() || right.symbolic() {
			return operand{
				sym:      left.text() + " " + n.Operator + " " + right.text(),
				compound: true,
			}, nil
		}
		return operand{num: op(left.num, right.num)}, nil

	case *ast.CallNode:
		callee, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return operand{}, fmt.Errorf("%w: call of %T", errUnsupported, n.Callee)
		}
		return call(callee.Value, n.Arguments)

	case *ast.BuiltinNode:
		return call(n.Name, n.Arguments)
	}

	return operand{}, fmt.Errorf("%w: %T", errUnsupported, node)
}

func call(name string, arguments []ast.Node) (operand, error) {
	fn, ok := functions[name]
	if !ok {
		return operand{}, fmt.Errorf("unknown function %s", name)
	}
	if len(arguments) != fn.arity {
		return operand{}, fmt.Errorf("%s takes %d arguments, got %d", name, fn.arity, len(arguments))
	}

	args := make([]operand, len(arguments))
	symbolic := false
	for i, a := range arguments {
		v, err := eval(a)
		if err != nil {
			return operand{}, err
		}
		args[i] = v
		symbolic = symbolic || v.symbolic()
	}

	if symbolic {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.text()
		}
		return operand{sym: name + "(" + strings.Join(parts, ", ") + ")"}, nil
	}

	nums := make([]float64, len(args))
	for i, a := range args {
		nums[i] = a.num
	}
	return operand{num: fn.call(nums)}, nil
}

// FormatNumber renders integral values with a trailing ".0" so that 12 reads as "12.0".
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		format = 'g'
	}

	s := strconv.FormatFloat(v, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
