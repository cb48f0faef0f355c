package scheduler

import (
	"math/rand"
	"time"
)

// gene: the staffing decision for one model slot.
type gene struct {
	employeeIDs []int64
}

// chromosome: one complete candidate plan, gene i belongs to model slot i.
type chromosome struct {
	genes   []*gene
	fitness float64
}

func (ch *chromosome) clone() *chromosome {
	c := &chromosome{
		genes:   make([]*gene, len(ch.genes)),
		fitness: ch.fitness,
	}
	for i, g := range ch.genes {
		ids := make([]int64, len(g.employeeIDs))
		copy(ids, g.employeeIDs)
		c.genes[i] = &gene{employeeIDs: ids}
	}
	return c
}

func (ch *chromosome) plan() [][]int64 {
	plan := make([][]int64, len(ch.genes))
	for i, g := range ch.genes {
		plan[i] = g.employeeIDs
	}
	return plan
}

func randFloat() float64 {
	return rand.Float64()
}

// randomInitChromosome staffs every slot with a random selection from its
// eligible pool, between the slot minimum and maximum. Employees already
// placed that day are skipped where possible, so most initial chromosomes
// start close to the one-shift-per-day constraint.
func (s *GeneticSolver) randomInitChromosome(m *Model) *chromosome {
	genes := make([]*gene, len(m.Slots))
	usedPerDay := make(map[time.Time]map[int64]bool)

	for i := range m.Slots {
		slot := &m.Slots[i]

		used, ok := usedPerDay[slot.Date]
		if !ok {
			used = make(map[int64]bool)
			usedPerDay[slot.Date] = used
		}

		pool := make([]int64, len(slot.Eligible))
		copy(pool, slot.Eligible)
		rand.Shuffle(len(pool), func(a, b int) {
			pool[a], pool[b] = pool[b], pool[a]
		})

		upper := int(slot.MaxStaff)
		if len(pool) < upper {
			upper = len(pool)
		}
		want := int(slot.MinStaff)
		if upper > want {
			want += rand.Intn(upper - want + 1)
		}

		chosen := make([]int64, 0, want)
		for _, id := range pool {
			if len(chosen) == want {
				break
			}
			if used[id] {
				continue
			}
			chosen = append(chosen, id)
		}
		// fall back to already-used employees rather than understaffing the
		// slot; the fitness penalty sorts it out later
		for _, id := range pool {
			if len(chosen) >= int(slot.MinStaff) {
				break
			}
			if contains(chosen, id) {
				continue
			}
			chosen = append(chosen, id)
		}

		for _, id := range chosen {
			used[id] = true
		}
		genes[i] = &gene{employeeIDs: chosen}
	}

	return &chromosome{genes: genes}
}

// calcFitness: fitness = -(hard violations * big penalty + soft penalty), so
// any feasible plan outranks every infeasible one.
func (s *GeneticSolver) calcFitness(m *Model, ch *chromosome) {
	plan := ch.plan()
	ch.fitness = -(float64(m.Violations(plan))*hardViolationPenalty + m.SoftPenalty(plan))
}

// selectByRoulette picks a parent with probability proportional to fitness.
// Fitness values are negative penalties, so they are shifted before spinning.
func (s *GeneticSolver) selectByRoulette(pop []*chromosome) *chromosome {
	worst := pop[0].fitness
	for _, ch := range pop[1:] {
		if ch.fitness < worst {
			worst = ch.fitness
		}
	}

	sum := 0.0
	for _, ch := range pop {
		sum += ch.fitness - worst + 1
	}

	pick := rand.Float64() * sum
	partial := 0.0
	for _, ch := range pop {
		partial += ch.fitness - worst + 1
		if partial >= pick {
			return ch
		}
	}

	return pop[len(pop)-1]
}

func (s *GeneticSolver) singlePointCrossover(ch1, ch2 *chromosome) {
	if len(ch1.genes) != len(ch2.genes) || len(ch1.genes) == 0 {
		return
	}

	point := rand.Intn(len(ch1.genes))
	for i := point; i < len(ch1.genes); i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// mutate rewrites individual slot decisions: either swaps one member for a
// fresh candidate from the pool, or grows/shrinks the slot within its bounds.
func (s *GeneticSolver) mutate(m *Model, ch *chromosome) {
	for i, g := range ch.genes {
		if rand.Float64() > s.params.MutationRate {
			continue
		}

		slot := &m.Slots[i]
		if len(slot.Eligible) == 0 {
			continue
		}

		switch rand.Intn(3) {
		case 0: // replace a member
			if len(g.employeeIDs) == 0 {
				break
			}
			candidate := slot.Eligible[rand.Intn(len(slot.Eligible))]
			if !contains(g.employeeIDs, candidate) {
				g.employeeIDs[rand.Intn(len(g.employeeIDs))] = candidate
			}
		case 1: // add a member
			if int32(len(g.employeeIDs)) >= slot.MaxStaff {
				break
			}
			candidate := slot.Eligible[rand.Intn(len(slot.Eligible))]
			if !contains(g.employeeIDs, candidate) {
				g.employeeIDs = append(g.employeeIDs, candidate)
			}
		case 2: // drop a member
			if int32(len(g.employeeIDs)) <= slot.MinStaff {
				break
			}
			idx := rand.Intn(len(g.employeeIDs))
			g.employeeIDs = append(g.employeeIDs[:idx], g.employeeIDs[idx+1:]...)
		}
	}
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
