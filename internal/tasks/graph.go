package tasks

import (
	"fmt"
	"sort"

	"github.com/gammazero/toposort"
)

// DanglingRef is a dependency that names no task in the sequence.
type DanglingRef struct {
	TaskID    int
	MissingID int
}

// DependencyReport is advisory: it never blocks adding or analyzing tasks.
type DependencyReport struct {
	Dangling []DanglingRef
	Cyclic   []int // ids on at least one dependency cycle, ascending
	Order    []int // dependency-first order; nil when the graph has a cycle
}

// HasWarnings reports whether anything in the report deserves the user's attention.
func (r DependencyReport) HasWarnings() bool {
	return len(r.Dangling) > 0 || len(r.Cyclic) > 0
}

// Warnings returns one human-readable line per problem.
func (r DependencyReport) Warnings() []string {
	var lines []string
	for _, d := range r.Dangling {
		lines = append(lines, fmt.Sprintf("task %d depends on unknown task %d", d.TaskID, d.MissingID))
	}
	if len(r.Cyclic) > 0 {
		lines = append(lines, fmt.Sprintf("circular dependency between tasks %v", r.Cyclic))
	}
	return lines
}

// Inspect examines the dependency ids of the given records.
func Inspect(records []Record) DependencyReport {
	var report DependencyReport

	known := make(map[int]bool, len(records))
	for _, r := range records {
		known[r.ID] = true
	}

	graph := make(map[int][]int, len(records))
	for _, r := range records {
		for _, dep := range r.Dependencies {
			if !known[dep] {
				report.Dangling = append(report.Dangling, DanglingRef{TaskID: r.ID, MissingID: dep})
				continue
			}
			graph[r.ID] = append(graph[r.ID], dep)
		}
	}

	report.Cyclic = findCycles(records, graph)
	if len(report.Cyclic) == 0 {
		order, err := dependencyOrder(records, graph)
		if err == nil {
			report.Order = order
		}
	}

	return report
}

// findCycles walks the graph depth-first and collects every node on a back edge's path.
func findCycles(records []Record, graph map[int][]int) []int {
	inCycle := make(map[int]bool)
	visited := make(map[int]bool)
	onStack := make(map[int]bool)
	var stack []int

	var visit func(id int)
	visit = func(id int) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, next := range graph[id] {
			if onStack[next] {
				for i := len(stack) - 1; i >= 0; i-- {
					inCycle[stack[i]] = true
					if stack[i] == next {
						break
					}
				}
				continue
			}
			if !visited[next] {
				visit(next)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
	}

	for _, r := range records {
		if !visited[r.ID] {
			visit(r.ID)
		}
	}

	if len(inCycle) == 0 {
		return nil
	}
	ids := make([]int, 0, len(inCycle))
	for id := range inCycle {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// dependencyOrder sorts tasks so every task comes after the tasks it depends on.
func dependencyOrder(records []Record, graph map[int][]int) ([]int, error) {
	var edges []toposort.Edge
	for _, r := range records {
		deps := graph[r.ID]
		if len(deps) == 0 {
			edges = append(edges, toposort.Edge{nil, r.ID})
			continue
		}
		for _, dep := range deps {
			edges = append(edges, toposort.Edge{dep, r.ID})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("ordering dependencies: %w", err)
	}

	order := make([]int, 0, len(records))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(int))
		}
	}
	return order, nil
}
