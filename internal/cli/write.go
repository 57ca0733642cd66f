package cli

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deepwrite/deepwrite/internal/config"
	"github.com/deepwrite/deepwrite/internal/errors"
	"github.com/deepwrite/deepwrite/internal/gateway"
	"github.com/deepwrite/deepwrite/internal/genai"
	"github.com/deepwrite/deepwrite/internal/task"
	"github.com/deepwrite/deepwrite/internal/tui"
)

// writeFlags holds options for the write command.
type writeFlags struct {
	// ProjectID resumes an existing gateway project instead of creating one.
	ProjectID int64
}

// AddWriteCommand adds the write command to the root command.
func AddWriteCommand(root *cobra.Command) {
	flags := &writeFlags{}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Start the interactive thesis writing workflow",
		Long: `Write opens the interactive workflow UI.

A new gateway project is created unless --project resumes an existing one.
The workflow walks through topic selection, outline, drafting, and
refinement, one step at a time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWrite(cmd.Context(), flags)
		},
	}

	cmd.Flags().Int64VarP(&flags.ProjectID, "project", "p", 0, "resume an existing project by id")

	root.AddCommand(cmd)
}

func runWrite(ctx context.Context, flags *writeFlags) error {
	logger := GetLogger()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	gw, gen, err := buildServices(cfg, logger)
	if err != nil {
		return err
	}

	initialTaskID, err := bootstrapProject(ctx, gw, flags.ProjectID, logger)
	if err != nil {
		return err
	}

	w := task.NewWorkflow(initialTaskID, gw, gen, cfg.Image.GenerateModel, cfg.Image.EditModel, logger)
	return tui.RunWorkflow(ctx, w)
}

// buildServices constructs the gateway and generation clients from config.
func buildServices(cfg *config.Config, logger zerolog.Logger) (gateway.Service, genai.Service, error) {
	gw := gateway.NewClient(cfg.Gateway.BaseURL, &http.Client{Timeout: cfg.Gateway.Timeout}, logger)

	gen, err := genai.NewClient(genai.ClientConfig{
		BaseURL:            cfg.AI.BaseURL,
		APIKey:             os.Getenv(cfg.AI.APIKeyEnvVar),
		TextModel:          cfg.AI.Model,
		ImageGenerateModel: cfg.Image.GenerateModel,
		ImageEditModel:     cfg.Image.EditModel,
		AspectRatio:        cfg.Image.AspectRatio,
	}, &http.Client{Timeout: cfg.AI.Timeout}, logger)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "set %s to your generation API key", cfg.AI.APIKeyEnvVar)
	}

	return gw, gen, nil
}

// bootstrapProject resolves the backing gateway project for the initial task.
// When projectID is zero a fresh project is created; otherwise the existing
// project is fetched so a bad id fails before the UI starts.
func bootstrapProject(ctx context.Context, gw gateway.Service, projectID int64, logger zerolog.Logger) (string, error) {
	if projectID != 0 {
		project, err := gw.GetProject(ctx, projectID)
		if err != nil {
			return "", errors.Wrapf(err, "project %d not found", projectID)
		}
		logger.Info().Int64("project_id", project.ID).Msg("resuming project")
		return strconv.FormatInt(project.ID, 10), nil
	}

	project, err := gw.CreateProject(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to create project")
	}
	logger.Info().Int64("project_id", project.ID).Msg("created project")
	return strconv.FormatInt(project.ID, 10), nil
}
