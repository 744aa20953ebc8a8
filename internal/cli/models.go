package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/moodboard/internal/config"
	"github.com/jmylchreest/moodboard/internal/llm/googlegenai"
)

// modelLister is implemented by generators that can enumerate models.
type modelLister interface {
	ListModels(ctx context.Context) ([]googlegenai.ModelInfo, error)
}

func (a *app) newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List Gemini models available for text generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			lister, ok := gen.(modelLister)
			if !ok {
				return fmt.Errorf("the configured generator cannot list models")
			}

			models, err := lister.ListModels(cmd.Context())
			if err != nil && len(models) == 0 {
				return err
			}
			if err != nil {
				a.logger.Warn("model listing incomplete", "error", err, "retrieved", len(models))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Default Model: %s\n", config.DefaultModel)
			fmt.Fprintf(out, "Current Model: %s (backend: %s)\n\n", cfg.Model, cfg.Backend)

			table := NewTable([]string{"Model", "Display Name", "Description"})
			table.SetColumnMaxWidth(2, 60)
			for _, m := range models {
				name := m.Name
				if name == strings.TrimPrefix(cfg.Model, "models/") {
					name += " *"
				}
				table.AddRow([]string{name, m.DisplayName, m.Description})
			}
			fmt.Fprint(out, table.Render())
			return nil
		},
	}
}
