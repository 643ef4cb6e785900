package gate

import (
	"fmt"
	"math"
)

// Scorer rates how much of a token list the filters accept, from 0 to 1.
// An empty list scores 1.
type Scorer interface {
	Score(tokens []string, filters []Filter) float64
}

// PassFail counts a token as 1 if any filter accepts it.
type PassFail struct{}

func (PassFail) Score(tokens []string, filters []Filter) float64 {
	if len(tokens) == 0 {
		return 1
	}
	var total float64
	for _, tok := range tokens {
		for _, f := range filters {
			if f(tok) {
				total++
				break
			}
		}
	}
	return total / float64(len(tokens))
}

// Scaling weights a token by the first filter that accepts it: the first
// filter is worth len(filters), the last is worth 1.
type Scaling struct{}

func (Scaling) Score(tokens []string, filters []Filter) float64 {
	if len(tokens) == 0 {
		return 1
	}
	maxScore := len(tokens) * len(filters)
	if maxScore == 0 {
		return 0
	}
	total := 0
	for _, tok := range tokens {
		for i, f := range filters {
			if f(tok) {
				total += len(filters) - i
				break
			}
		}
	}
	return float64(total) / float64(maxScore)
}

// Soften raises a score to a power below 1 for short inputs, so that one
// unknown word does not sink a two-word message.
type Soften struct {
	Scorer Scorer
}

func (s Soften) Score(tokens []string, filters []Filter) float64 {
	p := s.Scorer.Score(tokens, filters)
	return math.Pow(p, sigmoid(len(tokens)))
}

func sigmoid(n int) float64 {
	return 1 / (1 + math.Exp(-0.3*float64(n-1)))
}

// ScorerByName returns one of "pass_fail", "scaling", "soft_pass_fail"
// or "soft_scaling".
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "pass_fail":
		return PassFail{}, nil
	case "scaling":
		return Scaling{}, nil
	case "soft_pass_fail":
		return Soften{Scorer: PassFail{}}, nil
	case "soft_scaling", "":
		return Soften{Scorer: Scaling{}}, nil
	default:
		return nil, fmt.Errorf("gate: unknown scorer %q", name)
	}
}
