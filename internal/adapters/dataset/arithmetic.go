package dataset

import (
	"errors"
	"math"
	"math/rand/v2"
	"strconv"

	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxRegenerations bounds how often a sample is redrawn after a division by zero.
const maxRegenerations = 100

// Generator draws random arithmetic expressions from a seeded source.
// The same seed always yields the same sequence of expressions.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed))} //nolint:gosec // Reproducible datasets, not security.
}

// Expr draws an expression whose nodes are nested at most maxDepth levels below the root.
func (g *Generator) Expr(maxDepth int) domain.Expr {
	return g.node(0, maxDepth)
}

func (g *Generator) node(depth, maxDepth int) domain.Expr {
	op := domain.Operators[g.rng.IntN(len(domain.Operators))]

	left := g.rng.Float64() > 0.5
	right := g.rng.Float64() > 0.5
	if !left && !right {
		if g.rng.Float64() > 0.5 {
			left = true
		} else {
			right = true
		}
	}
	if depth >= maxDepth {
		left, right = false, false
	}

	n := domain.Node{Op: op}
	n.Left = g.operand(left, depth, maxDepth)
	n.Right = g.operand(right, depth, maxDepth)
	return n
}

func (g *Generator) operand(nested bool, depth, maxDepth int) domain.Expr {
	if nested {
		return g.node(depth+1, maxDepth)
	}
	return domain.Leaf{Value: math.Round((g.rng.Float64()*10+1)*100) / 100}
}

// Problems draws n problems, each with a depth picked from depths.
// Expressions that divide by zero are redrawn.
func (g *Generator) Problems(n int, depths []int) ([]domain.Problem, error) {
	if len(depths) == 0 {
		return nil, zerr.With(domain.ErrInvalidExperiment, "reason", "no depths")
	}

	problems := make([]domain.Problem, 0, n)
	for range n {
		p, err := g.problem(depths)
		if err != nil {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, nil
}

func (g *Generator) problem(depths []int) (domain.Problem, error) {
	var lastErr error
	for range maxRegenerations {
		expr := g.Expr(depths[g.rng.IntN(len(depths))])
		value, err := expr.Eval()
		if errors.Is(err, domain.ErrDivisionByZero) {
			lastErr = err
			continue
		}
		if err != nil {
			return domain.Problem{}, err
		}
		return domain.Problem{
			Text:   "What is the result of " + expr.String() + "?",
			Answer: strconv.FormatFloat(value, 'g', -1, 64),
		}, nil
	}
	return domain.Problem{}, zerr.With(lastErr, "attempts", maxRegenerations)
}
