// Package workflow provides a minimal named-node graph executor used to wire
// pipeline stages together. Nodes are state transformers; edges define the
// execution order. Only linear chains are supported: a node has at most one
// outgoing edge, which is all the fact pipeline needs.
package workflow

import (
	"context"
	"fmt"
)

// NodeFunc transforms the pipeline state. It receives the state produced by
// the previous node and returns the state passed to the next one.
type NodeFunc[S any] func(ctx context.Context, state S) (S, error)

// Graph is a mutable builder for a node chain. Call Compile to validate it
// and obtain a Runnable.
type Graph[S any] struct {
	nodes  map[string]NodeFunc[S]
	edges  map[string]string
	entry  string
	finish string
}

// New creates an empty graph
func New[S any]() *Graph[S] {
	return &Graph[S]{
		nodes: make(map[string]NodeFunc[S]),
		edges: make(map[string]string),
	}
}

// AddNode registers a named node. Registering the same name twice replaces
// the previous function.
func (g *Graph[S]) AddNode(name string, fn NodeFunc[S]) *Graph[S] {
	g.nodes[name] = fn
	return g
}

// AddEdge connects from -> to. A node may have at most one outgoing edge;
// adding a second one replaces the first.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.edges[from] = to
	return g
}

// SetEntryPoint marks the node execution starts from
func (g *Graph[S]) SetEntryPoint(name string) *Graph[S] {
	g.entry = name
	return g
}

// SetFinishPoint marks the node execution stops after
func (g *Graph[S]) SetFinishPoint(name string) *Graph[S] {
	g.finish = name
	return g
}

// Compile validates the graph and returns an executable form.
// The entry must reach the finish by following edges, every referenced node
// must exist, and the chain must not revisit a node.
func (g *Graph[S]) Compile() (*Runnable[S], error) {
	if g.entry == "" {
		return nil, fmt.Errorf("entry point not set")
	}
	if g.finish == "" {
		return nil, fmt.Errorf("finish point not set")
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return nil, fmt.Errorf("entry point %q is not a registered node", g.entry)
	}
	if _, ok := g.nodes[g.finish]; !ok {
		return nil, fmt.Errorf("finish point %q is not a registered node", g.finish)
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, fmt.Errorf("edge source %q is not a registered node", from)
		}
		if _, ok := g.nodes[to]; !ok {
			return nil, fmt.Errorf("edge target %q is not a registered node", to)
		}
	}

	// Walk the chain once to prove the finish is reachable without a cycle
	visited := map[string]bool{}
	current := g.entry
	for {
		if visited[current] {
			return nil, fmt.Errorf("cycle detected at node %q", current)
		}
		visited[current] = true
		if current == g.finish {
			break
		}
		next, ok := g.edges[current]
		if !ok {
			return nil, fmt.Errorf("node %q has no outgoing edge and is not the finish point", current)
		}
		current = next
	}

	// Copy so later builder mutations cannot affect the compiled form
	nodes := make(map[string]NodeFunc[S], len(g.nodes))
	for k, v := range g.nodes {
		nodes[k] = v
	}
	edges := make(map[string]string, len(g.edges))
	for k, v := range g.edges {
		edges[k] = v
	}

	return &Runnable[S]{
		nodes:  nodes,
		edges:  edges,
		entry:  g.entry,
		finish: g.finish,
	}, nil
}

// Runnable is a validated, executable graph
type Runnable[S any] struct {
	nodes  map[string]NodeFunc[S]
	edges  map[string]string
	entry  string
	finish string
}

// NodeError reports which node failed during Invoke
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Invoke runs the chain from the entry point and returns the state produced
// by the finish node. A node error aborts execution and is returned as a
// *NodeError carrying the node name.
func (r *Runnable[S]) Invoke(ctx context.Context, state S) (S, error) {
	current := r.entry
	for {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("workflow cancelled before node %q: %w", current, err)
		}

		next, err := r.nodes[current](ctx, state)
		if err != nil {
			return state, &NodeError{Node: current, Err: err}
		}
		state = next

		if current == r.finish {
			return state, nil
		}
		current = r.edges[current]
	}
}
