package domain

import (
	"math"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Operator is a binary arithmetic operator.
type Operator string

// Supported operators.
const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Operators lists every supported operator.
var Operators = []Operator{OpAdd, OpSub, OpMul, OpDiv}

// Expr is an arithmetic expression tree: either a Leaf or a Node.
type Expr interface {
	Eval() (float64, error)
	String() string
}

// Leaf is a numeric literal.
type Leaf struct {
	Value float64
}

// Eval returns the literal.
func (l Leaf) Eval() (float64, error) {
	return l.Value, nil
}

// String formats the literal the way the problem text presents it, always with a fractional part.
func (l Leaf) String() string {
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(l.Value, 0) && !math.IsNaN(l.Value) {
		s += ".0"
	}
	return s
}

// Node applies an operator to two sub-expressions.
type Node struct {
	Op    Operator
	Left  Expr
	Right Expr
}

// Eval evaluates both operands and applies the operator.
func (n Node) Eval() (float64, error) {
	left, err := n.Left.Eval()
	if err != nil {
		return 0, err
	}
	right, err := n.Right.Eval()
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case OpAdd:
		return left + right, nil
	case OpSub:
		return left - right, nil
	case OpMul:
		return left * right, nil
	case OpDiv:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		return left / right, nil
	default:
		return 0, zerr.With(ErrUnknownOperator, "operator", string(n.Op))
	}
}

// String renders the node fully parenthesized, e.g. "(1.5 + (2.0 * 3.25))".
func (n Node) String() string {
	return "(" + n.Left.String() + " " + string(n.Op) + " " + n.Right.String() + ")"
}
