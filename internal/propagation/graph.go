package propagation

import (
	"fmt"
	"strings"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/models"
)

// Factor is the multiplicative adjustment applied to a downstream service.
type Factor struct {
	Latency   float64
	ErrorRate float64
}

// Edge is a directed dependency: degradation of From flows into To.
type Edge struct {
	From    models.ServiceName
	To      models.ServiceName
	Factors map[models.HealthStatus]Factor
}

// Graph is the service dependency graph (DAG)
type Graph struct {
	edges      []Edge
	downstream map[models.ServiceName][]Edge
}

// DefaultEdges returns the fixed dependency chain with its cascade factors.
func DefaultEdges() []Edge {
	return []Edge{
		{
			From: models.Database,
			To:   models.OrdersService,
			Factors: map[models.HealthStatus]Factor{
				models.StatusUnhealthy: {Latency: 1.25, ErrorRate: 1.20},
				models.StatusDegraded:  {Latency: 1.15, ErrorRate: 1.10},
			},
		},
		{
			From: models.OrdersService,
			To:   models.APIGateway,
			Factors: map[models.HealthStatus]Factor{
				models.StatusUnhealthy: {Latency: 1.20, ErrorRate: 1.15},
				models.StatusDegraded:  {Latency: 1.10, ErrorRate: 1.05},
			},
		},
	}
}

// DefaultGraph builds the graph from DefaultEdges.
func DefaultGraph() *Graph {
	g, err := NewGraph(DefaultEdges())
	if err != nil {
		panic(fmt.Sprintf("propagation: invalid default graph: %v", err))
	}
	return g
}

// NewGraph validates the edges and builds a graph from them.
func NewGraph(edges []Edge) (*Graph, error) {
	g := &Graph{
		downstream: make(map[models.ServiceName][]Edge),
	}

	for i, e := range edges {
		if err := validateEdge(e); err != nil {
			return nil, fmt.Errorf("edge %d (%s -> %s): %w", i, e.From, e.To, err)
		}
		g.edges = append(g.edges, e)
		g.downstream[e.From] = append(g.downstream[e.From], e)
	}

	if err := g.validateAcyclic(); err != nil {
		return nil, fmt.Errorf("dependency graph contains cycles: %w", err)
	}
	return g, nil
}

func validateEdge(e Edge) error {
	if !e.From.Valid() {
		return fmt.Errorf("unknown upstream service %q", e.From)
	}
	if !e.To.Valid() {
		return fmt.Errorf("unknown downstream service %q", e.To)
	}
	if e.From == e.To {
		return fmt.Errorf("self edge")
	}
	for status, f := range e.Factors {
		if status == models.StatusHealthy {
			return fmt.Errorf("healthy upstream must not propagate")
		}
		// factors below 1 would let propagation reduce severity
		if f.Latency < 1 || f.ErrorRate < 1 {
			return fmt.Errorf("%s factors must be >= 1, got latency %g error_rate %g", status, f.Latency, f.ErrorRate)
		}
	}
	return nil
}

// validateAcyclic checks if the graph is acyclic (DAG)
func (g *Graph) validateAcyclic() error {
	visited := make(map[models.ServiceName]bool)
	recStack := make(map[models.ServiceName]bool)

	for _, e := range g.edges {
		if !visited[e.From] {
			if err := g.dfs(e.From, visited, recStack); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) dfs(name models.ServiceName, visited, recStack map[models.ServiceName]bool) error {
	visited[name] = true
	recStack[name] = true

	for _, e := range g.downstream[name] {
		if !visited[e.To] {
			if err := g.dfs(e.To, visited, recStack); err != nil {
				return err
			}
		} else if recStack[e.To] {
			return fmt.Errorf("cycle detected: %s -> %s", name, e.To)
		}
	}

	recStack[name] = false
	return nil
}

// Edges returns every edge in construction order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Downstream returns the edges leaving the named service.
func (g *Graph) Downstream(name models.ServiceName) []Edge {
	return g.downstream[name]
}

// Path returns the longest dependency chain, root cause first.
func (g *Graph) Path() []models.ServiceName {
	var best []models.ServiceName
	var walk func(name models.ServiceName, acc []models.ServiceName)
	walk = func(name models.ServiceName, acc []models.ServiceName) {
		acc = append(acc, name)
		if len(acc) > len(best) {
			best = append([]models.ServiceName(nil), acc...)
		}
		for _, e := range g.downstream[name] {
			walk(e.To, acc)
		}
	}
	for _, e := range g.edges {
		walk(e.From, nil)
	}
	return best
}

// PathString renders Path with display names, e.g.
// "Database → Orders Service → API Gateway".
func (g *Graph) PathString() string {
	path := g.Path()
	names := make([]string, len(path))
	for i, n := range path {
		names[i] = n.DisplayName()
	}
	return strings.Join(names, " → ")
}
