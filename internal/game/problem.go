package game

import (
	"fmt"
	"math/rand/v2"
)

// Operator is the arithmetic operation of a problem.
type Operator string

const (
	OpAdd Operator = "+"
	OpSub Operator = "-"
)

// Bounds for operands and answers; answers must be showable on one hand.
const (
	MinValue = 1
	MaxValue = 5
)

// Problem is one arithmetic question.
type Problem struct {
	A      int      `json:"a"`
	B      int      `json:"b"`
	Op     Operator `json:"op"`
	Answer int      `json:"answer"`
}

// String renders the problem as "a op b".
func (p Problem) String() string {
	if p.Op == "" {
		return ""
	}
	return fmt.Sprintf("%d %s %d", p.A, p.Op, p.B)
}

// Question renders the problem as shown to the player, "a op b = ?".
func (p Problem) Question() string {
	if p.Op == "" {
		return ""
	}
	return p.String() + " = ?"
}

// Rand is the randomness a Generator needs. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Generator produces problems whose answer is in [MinValue, MaxValue].
type Generator struct {
	rng Rand
}

// NewGenerator creates a Generator. A nil rng uses a randomly seeded PCG.
func NewGenerator(rng Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// Next samples two values and an operator until the result is in range.
// Subtraction reorders the operands to (max, min) so the result is never
// negative; addition keeps the sampled order.
func (g *Generator) Next() Problem {
	for {
		x := g.rng.IntN(MaxValue-MinValue+1) + MinValue
		y := g.rng.IntN(MaxValue-MinValue+1) + MinValue
		add := g.rng.IntN(2) == 0

		var p Problem
		if add {
			p = Problem{A: x, B: y, Op: OpAdd, Answer: x + y}
		} else {
			p = Problem{A: max(x, y), B: min(x, y), Op: OpSub}
			p.Answer = p.A - p.B
		}
		if p.Answer >= MinValue && p.Answer <= MaxValue {
			return p
		}
	}
}
