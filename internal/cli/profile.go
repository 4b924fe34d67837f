package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Tatch-AI/harper-memory-service/internal/enrich"
	"github.com/Tatch-AI/harper-memory-service/internal/narrative"
	"github.com/Tatch-AI/harper-memory-service/internal/pipeline"
	"github.com/Tatch-AI/harper-memory-service/internal/zep"
	"github.com/Tatch-AI/harper-memory-service/pkg/config"
	"github.com/Tatch-AI/harper-memory-service/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	outputJSON    bool
	withNarrative bool
	timeout       time.Duration
	concurrency   int
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile <user-id>...",
	Short: "Fetch and enrich the business profile for one or more users",
	Long: `Profile runs the fetch -> enrich pipeline for each user ID and prints
the resulting business summary.

Example:
  harperctl profile 4ed43ebf-21ea-455d-a63f-2e045921d86e
  harperctl profile --json 4ed43ebf-21ea-455d-a63f-2e045921d86e
  harperctl profile --narrative user-1 user-2 user-3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().BoolVar(&outputJSON, "json", false, "print the full pipeline state as JSON")
	profileCmd.Flags().BoolVar(&withNarrative, "narrative", false, "generate an LLM narrative (requires OPENAI_API_KEY)")
	profileCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall run timeout")
	profileCmd.Flags().IntVar(&concurrency, "concurrency", 4, "max users processed in parallel")
}

func runProfile(cmd *cobra.Command, args []string) error {
	env := "production"
	if verbose {
		env = "development"
	}
	if err := logger.Init(env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zepClient := zep.NewClient(cfg.ZepAPIKey,
		zep.WithBaseURL(cfg.ZepAPIURL),
		zep.WithTimeout(cfg.ZepTimeout),
	)

	var narrator pipeline.NarrativeGenerator
	if withNarrative {
		if !cfg.NarrativeEnabled() {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		narrator = narrative.NewGenerator(cfg.OpenAIAPIKey, cfg.NarrativeModel)
	}

	svc, err := pipeline.NewService(zepClient, enrich.NewEnricher(), narrator)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Fan out across users, then print in input order
	states := make([]*pipeline.State, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, userID := range args {
		g.Go(func() error {
			state, err := svc.Run(gctx, userID)
			if err != nil {
				return fmt.Errorf("user %s: %w", userID, err)
			}
			states[i] = state
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, state := range states {
		if outputJSON {
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal state: %w", err)
			}
			fmt.Println(string(data))
		} else {
			printState(os.Stdout, state)
		}
		if state.Status != pipeline.StatusSuccess {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d profile runs failed", failed, len(states))
	}
	return nil
}

// printState renders the pipeline result the way the service logs it: a
// nested, indented business summary followed by the fact count
func printState(w io.Writer, state *pipeline.State) {
	if state.Status != pipeline.StatusSuccess {
		fmt.Fprintf(w, "user %s: %s\n", state.UserID, state.Error)
		return
	}

	s := state.BusinessSummary
	fmt.Fprintf(w, "\nBusiness Summary (%s):\n", state.UserID)
	fmt.Fprintf(w, "name: %s\n", s.Name)
	fmt.Fprintf(w, "industry: %s\n", s.Industry)
	fmt.Fprintf(w, "revenue: %s\n", s.Revenue)
	fmt.Fprintf(w, "location: %s\n", s.Location)
	fmt.Fprintf(w, "\nservices:\n")
	fmt.Fprintf(w, "  type: %s\n", s.Services.Type)
	fmt.Fprintf(w, "  service_split:\n")
	fmt.Fprintf(w, "    mechanic: %s\n", s.Services.ServiceSplit.Mechanic)
	fmt.Fprintf(w, "    towing: %s\n", s.Services.ServiceSplit.Towing)
	fmt.Fprintf(w, "\ncontact:\n")
	fmt.Fprintf(w, "  owner: %s\n", s.Contact.Owner)
	fmt.Fprintf(w, "  email: %s\n", s.Contact.Email)
	fmt.Fprintf(w, "  phone: %s\n", s.Contact.Phone)
	fmt.Fprintf(w, "\ninsurance:\n")
	fmt.Fprintf(w, "  type: %s\n", s.Insurance.Type)
	fmt.Fprintf(w, "  deductible: %s\n", s.Insurance.Deductible)
	fmt.Fprintf(w, "  desired_limits: %s\n", s.Insurance.DesiredLimits)
	fmt.Fprintf(w, "\nequipment:\n")
	fmt.Fprintf(w, "  tow_truck:\n")
	fmt.Fprintf(w, "    model: %s\n", s.Equipment.TowTruck.Model)
	fmt.Fprintf(w, "    value: %s\n", s.Equipment.TowTruck.Value)
	fmt.Fprintf(w, "    operating_radius: %s\n", s.Equipment.TowTruck.OperatingRadius)
	if state.Narrative != "" {
		fmt.Fprintf(w, "\nnarrative: %s\n", state.Narrative)
	}
	fmt.Fprintf(w, "\nTotal Facts: %d\n", state.FactCount)
}
