package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/deepwrite/deepwrite/internal/config"
	"github.com/deepwrite/deepwrite/internal/domain"
	"github.com/deepwrite/deepwrite/internal/gateway"
	"github.com/deepwrite/deepwrite/internal/tui"
)

// AddProjectsCommand adds the projects command to the root command.
func AddProjectsCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List thesis projects stored in the gateway",
		Long: `Display a table of thesis projects known to the persistence gateway.

Examples:
  deepwrite projects               # Display as styled table
  deepwrite projects --output json # Display as JSON array`,
		Aliases: []string{"tasks", "ls"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProjects(cmd.Context(), flags, os.Stdout)
		},
	}
	root.AddCommand(cmd)
}

// runProjects executes the projects command.
func runProjects(ctx context.Context, flags *GlobalFlags, w io.Writer) error {
	logger := GetLogger()

	tui.CheckNoColor()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	gw := gateway.NewClient(cfg.Gateway.BaseURL, &http.Client{Timeout: cfg.Gateway.Timeout}, logger)

	// ListProjects degrades to an empty slice when the gateway is
	// unreachable, so a fresh install still gets a sensible message.
	projects, err := gw.ListProjects(ctx, cfg.Gateway.UserID)
	if err != nil {
		logger.Debug().Err(err).Msg("failed to list projects")
		return fmt.Errorf("failed to list projects: %w", err)
	}

	if len(projects) == 0 {
		if flags.Output == OutputJSON {
			_, _ = fmt.Fprintln(w, "[]")
		} else {
			_, _ = fmt.Fprintln(w, "No projects. Run 'deepwrite write' to create one.")
		}
		return nil
	}

	if flags.Output == OutputJSON {
		return outputProjectsJSON(w, projects)
	}
	return outputProjectsTable(w, projects)
}

// outputProjectsJSON outputs projects as a JSON array.
func outputProjectsJSON(w io.Writer, projects []domain.Project) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(projects)
}

// outputProjectsTable outputs projects as a styled table.
func outputProjectsTable(w io.Writer, projects []domain.Project) error {
	header := lipgloss.NewStyle().Bold(true).Foreground(tui.ColorPrimary)

	_, _ = fmt.Fprintf(w, "%s\n", header.Render(fmt.Sprintf("%-8s %-40s %-12s %s", "ID", "TITLE", "STATUS", "CREATED")))
	for _, p := range projects {
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		_, _ = fmt.Fprintf(w, "%-8d %-40s %-12s %s\n", p.ID, tui.Truncate(title, 40), p.Status, p.CreatedAt)
	}
	return nil
}
