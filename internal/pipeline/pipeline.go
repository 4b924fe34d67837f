package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/Tatch-AI/harper-memory-service/internal/enrich"
	"github.com/Tatch-AI/harper-memory-service/internal/workflow"
	"github.com/Tatch-AI/harper-memory-service/internal/zep"
	"github.com/Tatch-AI/harper-memory-service/pkg/errors"
	"github.com/Tatch-AI/harper-memory-service/pkg/logger"
	"github.com/Tatch-AI/harper-memory-service/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Node names
const (
	nodeQueryFacts  = "query_facts"
	nodeEnrichFacts = "enrich_facts"
)

// FactFetcher retrieves a user's facts from the knowledge graph
type FactFetcher interface {
	GetUserFacts(ctx context.Context, userID string) (*zep.FactsResponse, error)
}

// NarrativeGenerator writes an optional prose summary of the profile
type NarrativeGenerator interface {
	Generate(ctx context.Context, summary *enrich.BusinessSummary) (string, error)
}

// State is the value threaded through the workflow graph. A fetch failure is
// recorded in the state (status/error) rather than aborting the graph, so the
// enrich node can pass it through untouched.
type State struct {
	RunID           string                  `json:"run_id"`
	UserID          string                  `json:"user_id"`
	Status          string                  `json:"status"`
	Error           string                  `json:"error,omitempty"`
	Facts           []zep.Fact              `json:"facts,omitempty"`
	FactCount       int                     `json:"fact_count"`
	BusinessSummary *enrich.BusinessSummary `json:"business_summary,omitempty"`
	Narrative       string                  `json:"narrative,omitempty"`
	Timestamp       string                  `json:"timestamp"`
	ProcessedAt     string                  `json:"processed_at,omitempty"`
}

// Service runs the fetch -> enrich pipeline
type Service struct {
	fetcher  FactFetcher
	enricher *enrich.Enricher
	narrator NarrativeGenerator // nil when narrative generation is disabled
	runnable *workflow.Runnable[*State]
	logger   *zap.Logger
}

// NewService wires the two pipeline nodes into a workflow graph and compiles it
func NewService(fetcher FactFetcher, enricher *enrich.Enricher, narrator NarrativeGenerator) (*Service, error) {
	s := &Service{
		fetcher:  fetcher,
		enricher: enricher,
		narrator: narrator,
		logger:   logger.Get(),
	}

	g := workflow.New[*State]()
	g.AddNode(nodeQueryFacts, s.queryFacts)
	g.AddNode(nodeEnrichFacts, s.enrichFacts)
	g.AddEdge(nodeQueryFacts, nodeEnrichFacts)
	g.SetEntryPoint(nodeQueryFacts)
	g.SetFinishPoint(nodeEnrichFacts)

	runnable, err := g.Compile()
	if err != nil {
		return nil, errors.NewPipelineInvalidGraph(err.Error())
	}
	s.runnable = runnable

	return s, nil
}

// Run executes the pipeline for one user. The returned state carries
// status=error when the upstream fetch failed; err is reserved for engine
// failures.
func (s *Service) Run(ctx context.Context, userID string) (*State, error) {
	start := time.Now()

	initial := &State{
		RunID:  uuid.New().String(),
		UserID: userID,
	}

	s.logger.Info("Starting pipeline run",
		zap.String("run_id", initial.RunID),
		zap.String("user_id", userID),
	)

	final, err := s.runnable.Invoke(ctx, initial)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(StatusError).Inc()
		metrics.PipelineDuration.WithLabelValues(StatusError).Observe(time.Since(start).Seconds())
		if ctx.Err() != nil {
			return nil, errors.NewContextCancelled("pipeline run", err)
		}
		var nodeErr *workflow.NodeError
		if stderrors.As(err, &nodeErr) {
			return nil, errors.NewPipelineNodeFailed(nodeErr.Node, nodeErr.Err)
		}
		return nil, err
	}

	metrics.PipelineRunsTotal.WithLabelValues(final.Status).Inc()
	metrics.PipelineDuration.WithLabelValues(final.Status).Observe(time.Since(start).Seconds())

	s.logger.Info("Pipeline run finished",
		zap.String("run_id", final.RunID),
		zap.String("status", final.Status),
		zap.Int("fact_count", final.FactCount),
		zap.Duration("duration", time.Since(start)),
	)

	return final, nil
}

// queryFacts is the first node: fetch the user's facts from Zep
func (s *Service) queryFacts(ctx context.Context, state *State) (*State, error) {
	fetchStart := time.Now()
	resp, err := s.fetcher.GetUserFacts(ctx, state.UserID)
	metrics.ZepRequestDuration.Observe(time.Since(fetchStart).Seconds())

	state.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err != nil {
		var werr error
		if zep.IsNotFound(err) {
			werr = errors.NewZepUserNotFound(state.UserID)
		} else {
			statusCode := 0
			var apiErr *zep.APIError
			if stderrors.As(err, &apiErr) {
				statusCode = apiErr.StatusCode
			}
			werr = errors.NewZepRequestFailed(state.UserID, statusCode, err)
		}
		s.logger.Error("Fact fetch failed",
			zap.String("run_id", state.RunID),
			zap.String("user_id", state.UserID),
			zap.Error(werr),
		)
		state.Status = StatusError
		state.Error = werr.Error()
		return state, nil
	}

	metrics.FactsFetched.Observe(float64(len(resp.Facts)))

	state.Status = StatusSuccess
	state.Facts = resp.Facts
	state.FactCount = len(resp.Facts)
	return state, nil
}

// enrichFacts is the second node: assemble the business summary.
// Error states pass through untouched.
func (s *Service) enrichFacts(ctx context.Context, state *State) (*State, error) {
	if state.Status != StatusSuccess {
		return state, nil
	}

	state.BusinessSummary = s.enricher.Enrich(state.Facts)
	state.ProcessedAt = time.Now().UTC().Format(time.RFC3339)

	if s.narrator != nil {
		narrative, err := s.narrator.Generate(ctx, state.BusinessSummary)
		if err != nil {
			// Narrative is best-effort; never fail the run over it
			s.logger.Warn("Narrative generation failed",
				zap.String("run_id", state.RunID),
				zap.Error(err),
			)
		} else {
			state.Narrative = narrative
		}
	}

	return state, nil
}
