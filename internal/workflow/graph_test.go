package workflow

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_InvokeRunsNodesInOrder(t *testing.T) {
	g := New[[]string]()
	g.AddNode("first", func(ctx context.Context, state []string) ([]string, error) {
		return append(state, "first"), nil
	})
	g.AddNode("second", func(ctx context.Context, state []string) ([]string, error) {
		return append(state, "second"), nil
	})
	g.AddEdge("first", "second")
	g.SetEntryPoint("first")
	g.SetFinishPoint("second")

	runnable, err := g.Compile()
	require.NoError(t, err)

	out, err := runnable.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, out)
}

func TestGraph_SingleNode(t *testing.T) {
	g := New[int]()
	g.AddNode("only", func(ctx context.Context, state int) (int, error) {
		return state + 1, nil
	})
	g.SetEntryPoint("only")
	g.SetFinishPoint("only")

	runnable, err := g.Compile()
	require.NoError(t, err)

	out, err := runnable.Invoke(context.Background(), 41)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestGraph_NodeErrorAbortsWithNodeName(t *testing.T) {
	g := New[int]()
	g.AddNode("boom", func(ctx context.Context, state int) (int, error) {
		return 0, fmt.Errorf("something broke")
	})
	g.AddNode("after", func(ctx context.Context, state int) (int, error) {
		t.Fatal("node after a failed node must not run")
		return 0, nil
	})
	g.AddEdge("boom", "after")
	g.SetEntryPoint("boom")
	g.SetFinishPoint("after")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "boom"`)
	assert.Contains(t, err.Error(), "something broke")

	var nodeErr *NodeError
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, "boom", nodeErr.Node)
	assert.EqualError(t, nodeErr.Unwrap(), "something broke")
}

func TestGraph_CompileValidation(t *testing.T) {
	noop := func(ctx context.Context, state int) (int, error) { return state, nil }

	tests := []struct {
		name    string
		build   func() *Graph[int]
		wantErr string
	}{
		{
			name:    "entry point not set",
			build:   func() *Graph[int] { g := New[int](); g.AddNode("a", noop); g.SetFinishPoint("a"); return g },
			wantErr: "entry point not set",
		},
		{
			name:    "finish point not set",
			build:   func() *Graph[int] { g := New[int](); g.AddNode("a", noop); g.SetEntryPoint("a"); return g },
			wantErr: "finish point not set",
		},
		{
			name: "entry point unknown",
			build: func() *Graph[int] {
				g := New[int]()
				g.AddNode("a", noop)
				g.SetEntryPoint("missing")
				g.SetFinishPoint("a")
				return g
			},
			wantErr: "not a registered node",
		},
		{
			name: "dead end before finish",
			build: func() *Graph[int] {
				g := New[int]()
				g.AddNode("a", noop)
				g.AddNode("b", noop)
				g.SetEntryPoint("a")
				g.SetFinishPoint("b")
				return g
			},
			wantErr: "no outgoing edge",
		},
		{
			name: "cycle",
			build: func() *Graph[int] {
				g := New[int]()
				g.AddNode("a", noop)
				g.AddNode("b", noop)
				g.AddNode("c", noop)
				g.AddEdge("a", "b")
				g.AddEdge("b", "a")
				g.SetEntryPoint("a")
				g.SetFinishPoint("c")
				return g
			},
			wantErr: "cycle detected",
		},
		{
			name: "edge to unknown node",
			build: func() *Graph[int] {
				g := New[int]()
				g.AddNode("a", noop)
				g.AddEdge("a", "ghost")
				g.SetEntryPoint("a")
				g.SetFinishPoint("a")
				return g
			},
			wantErr: "not a registered node",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Compile()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGraph_InvokeCancelledContext(t *testing.T) {
	g := New[int]()
	g.AddNode("a", func(ctx context.Context, state int) (int, error) {
		t.Fatal("node must not run with a cancelled context")
		return 0, nil
	})
	g.SetEntryPoint("a")
	g.SetFinishPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runnable.Invoke(ctx, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestGraph_CompiledFormIsolatedFromBuilder(t *testing.T) {
	g := New[int]()
	g.AddNode("a", func(ctx context.Context, state int) (int, error) { return state + 1, nil })
	g.SetEntryPoint("a")
	g.SetFinishPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	// Mutating the builder after compile must not affect the runnable
	g.AddNode("a", func(ctx context.Context, state int) (int, error) { return state + 100, nil })

	out, err := runnable.Invoke(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, out)
}
