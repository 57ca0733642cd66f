package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/deepwrite/deepwrite/internal/config"
	"github.com/deepwrite/deepwrite/internal/gateway"
	"github.com/deepwrite/deepwrite/internal/genai"
	"github.com/deepwrite/deepwrite/internal/tui"
)

// checkResult holds the outcome of a single environment check.
type checkResult struct {
	Name   string
	OK     bool
	Detail string
}

// AddDoctorCommand adds the doctor command to the root command.
func AddDoctorCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment for problems",
		Long: `Doctor verifies that DeepWrite can reach its backing services:
the persistence gateway and the generation API. Checks run concurrently
and every result is reported even when some checks fail.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd.Context(), os.Stdout)
		},
	}
	root.AddCommand(cmd)
}

// runDoctor executes all environment checks and prints a report.
func runDoctor(ctx context.Context, w io.Writer) error {
	logger := GetLogger()

	tui.CheckNoColor()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		results []checkResult
	)
	record := func(r checkResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	// Checks never return an error: a failed probe is a report line,
	// not a reason to skip the remaining probes.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		record(checkConfig(cfg))
		return nil
	})

	g.Go(func() error {
		record(checkAPIKey(cfg))
		return nil
	})

	g.Go(func() error {
		gw := gateway.NewClient(cfg.Gateway.BaseURL, &http.Client{Timeout: cfg.Gateway.Timeout}, logger)
		record(checkGateway(gctx, gw, cfg.Gateway.BaseURL))
		return nil
	})

	g.Go(func() error {
		record(checkGenAI(gctx, cfg, logger))
		return nil
	})

	_ = g.Wait()

	return printChecks(w, results)
}

// checkConfig validates the loaded configuration.
func checkConfig(cfg *config.Config) checkResult {
	if err := config.Validate(cfg); err != nil {
		return checkResult{Name: "config", OK: false, Detail: err.Error()}
	}
	return checkResult{Name: "config", OK: true, Detail: "configuration is valid"}
}

// checkAPIKey verifies that the generation API key is present.
func checkAPIKey(cfg *config.Config) checkResult {
	if os.Getenv(cfg.AI.APIKeyEnvVar) == "" {
		return checkResult{
			Name:   "api key",
			OK:     false,
			Detail: fmt.Sprintf("%s is not set", cfg.AI.APIKeyEnvVar),
		}
	}
	return checkResult{Name: "api key", OK: true, Detail: cfg.AI.APIKeyEnvVar + " is set"}
}

// checkGateway probes the persistence gateway with a cheap list request.
func checkGateway(ctx context.Context, gw gateway.Service, baseURL string) checkResult {
	if _, err := gw.ListProjects(ctx, 0); err != nil {
		return checkResult{Name: "gateway", OK: false, Detail: err.Error()}
	}
	return checkResult{Name: "gateway", OK: true, Detail: baseURL + " is reachable"}
}

// checkGenAI probes the generation API with a free model-metadata request.
func checkGenAI(ctx context.Context, cfg *config.Config, logger zerolog.Logger) checkResult {
	gen, err := genai.NewClient(genai.ClientConfig{
		BaseURL:            cfg.AI.BaseURL,
		APIKey:             os.Getenv(cfg.AI.APIKeyEnvVar),
		TextModel:          cfg.AI.Model,
		ImageGenerateModel: cfg.Image.GenerateModel,
		ImageEditModel:     cfg.Image.EditModel,
		AspectRatio:        cfg.Image.AspectRatio,
	}, &http.Client{Timeout: cfg.AI.Timeout}, logger)
	if err != nil {
		return checkResult{Name: "generation", OK: false, Detail: err.Error()}
	}

	if err := gen.Ping(ctx); err != nil {
		return checkResult{Name: "generation", OK: false, Detail: err.Error()}
	}
	return checkResult{Name: "generation", OK: true, Detail: cfg.AI.Model + " is reachable"}
}

// printChecks renders the check results and returns an error when any failed.
func printChecks(w io.Writer, results []checkResult) error {
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	okStyle := lipgloss.NewStyle().Foreground(tui.ColorSuccess)
	failStyle := lipgloss.NewStyle().Foreground(tui.ColorError)

	failed := 0
	for _, r := range results {
		mark := okStyle.Render("✓")
		if !r.OK {
			mark = failStyle.Render("✗")
			failed++
		}
		_, _ = fmt.Fprintf(w, "%s %-10s %s\n", mark, r.Name, r.Detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results)) //nolint:err113 // Summary error for exit code
	}
	_, _ = fmt.Fprintln(w, "\nAll checks passed.")
	return nil
}
