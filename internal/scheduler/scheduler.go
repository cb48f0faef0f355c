package scheduler

import (
	"math"
	"sort"
	"time"
)

type Status string

const (
	// StatusOptimal: a feasible plan with zero soft penalty was found.
	StatusOptimal Status = "OPTIMAL"
	// StatusFeasible: a plan satisfying all hard constraints was found, but
	// the soft objective is not fully met.
	StatusFeasible Status = "FEASIBLE"
	// StatusInfeasible: the structural pre-check proved that no plan can
	// satisfy the hard constraints.
	StatusInfeasible Status = "INFEASIBLE"
	// StatusTimeout: the time budget ran out without a feasible plan and
	// without an infeasibility proof.
	StatusTimeout Status = "TIMEOUT"
)

type Solution struct {
	Status         Status
	Plan           [][]int64 // employee ids per model slot; nil unless found (or incumbent returned)
	HardViolations int
	SoftPenalty    float64
	Diagnostics    *Diagnostics
}

// Solver is the abstract solve capability the planner is written against.
// The search itself is replaceable; problem encoding and result
// interpretation live in Model and Diagnostics.
type Solver interface {
	Solve(m *Model, timeLimit time.Duration) (*Solution, error)
}

// Parameters tune the genetic search.
type Parameters struct {
	PopulationSize int32
	MaxGenerations int32
	CrossoverRate  float64
	MutationRate   float64
	EliteCount     int32
	// ReturnIncumbent returns the best candidate found on timeout even if it
	// still violates hard constraints, so a human can start from it.
	ReturnIncumbent bool
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 120,
		MaxGenerations: 400,
		CrossoverRate:  0.85,
		MutationRate:   0.08,
		EliteCount:     4,
	}
}

// GeneticSolver searches with a penalty-driven genetic algorithm: roulette
// selection, single-point crossover, per-slot mutation and elitism.
type GeneticSolver struct {
	params Parameters
}

func NewGeneticSolver(params Parameters) *GeneticSolver {
	return &GeneticSolver{params: params}
}

func (s *GeneticSolver) Solve(m *Model, timeLimit time.Duration) (*Solution, error) {
	// A structurally impossible model never reaches the search.
	diag := Diagnose(m)
	if diag.Infeasible() {
		return &Solution{Status: StatusInfeasible, Diagnostics: diag}, nil
	}

	deadline := time.Now().Add(timeLimit)

	pop := make([]*chromosome, s.params.PopulationSize)
	for i := range pop {
		pop[i] = s.randomInitChromosome(m)
		s.calcFitness(m, pop[i])
	}

	bestEver := &chromosome{fitness: -math.MaxFloat64}

	for gen := int32(0); gen < s.params.MaxGenerations; gen++ {
		if time.Now().After(deadline) {
			break
		}

		// keep the best sample of this generation
		genBest := pop[0]
		for _, ch := range pop[1:] {
			if ch.fitness > genBest.fitness {
				genBest = ch
			}
		}
		if genBest.fitness > bestEver.fitness {
			// deep copy so later breeding cannot corrupt the incumbent
			bestEver = genBest.clone()
		}

		// breed the next generation, elites survive unchanged
		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})

		newPop := make([]*chromosome, 0, s.params.PopulationSize)
		for _, elite := range pop[:s.params.EliteCount] {
			newPop = append(newPop, elite.clone())
		}

		for int32(len(newPop)) < s.params.PopulationSize {
			p1 := s.selectByRoulette(pop).clone()
			p2 := s.selectByRoulette(pop).clone()

			if randFloat() < s.params.CrossoverRate {
				s.singlePointCrossover(p1, p2)
			}

			s.mutate(m, p1)
			s.mutate(m, p2)

			newPop = append(newPop, p1)
			if int32(len(newPop)) < s.params.PopulationSize {
				newPop = append(newPop, p2)
			}
		}

		pop = newPop
		for _, ch := range pop {
			s.calcFitness(m, ch)
		}
	}

	if bestEver.genes == nil {
		return &Solution{Status: StatusTimeout, Diagnostics: diag}, nil
	}

	plan := bestEver.plan()
	hard := m.Violations(plan)
	soft := m.SoftPenalty(plan)

	solution := &Solution{
		Plan:           plan,
		HardViolations: hard,
		SoftPenalty:    soft,
		Diagnostics:    diag,
	}

	switch {
	case hard == 0 && soft == 0:
		solution.Status = StatusOptimal
	case hard == 0:
		solution.Status = StatusFeasible
	default:
		// no feasible plan within budget and no proof of infeasibility
		solution.Status = StatusTimeout
		if !s.params.ReturnIncumbent {
			solution.Plan = nil
		}
	}

	return solution, nil
}
