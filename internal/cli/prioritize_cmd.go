package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/contract"
	"github.com/alexanderramin/taskflow/internal/importer"
	"github.com/spf13/cobra"
)

func newPrioritizeCmd(app *App) *cobra.Command {
	var file string
	var asJSON, local bool
	now := &timeFlag{loc: app.location}

	cmd := &cobra.Command{
		Use:   "prioritize",
		Short: "Rank a batch of tasks from a YAML file and plan the day",
		Example: `  taskflow prioritize --file tasks.yaml
  taskflow prioritize --file tasks.yaml --now 2025-03-15T08:00:00Z --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := importer.LoadBatch(file)
			if err != nil {
				return err
			}
			if errs := importer.ValidateBatch(batch); len(errs) > 0 {
				return fmt.Errorf("invalid task file %s:\n%w", file, errors.Join(errs...))
			}
			tasks, err := importer.Convert(batch, app.location())
			if err != nil {
				return err
			}

			req := contract.NewPrioritizeRequest(tasks)
			req.Now = now.Value()
			req.ForceLocal = local

			var resp *contract.PrioritizeResponse
			withSpinner(cmd, app, local, func() {
				resp, err = app.Prioritize.Prioritize(cmd.Context(), req)
			})
			if err != nil {
				return err
			}
			return render(cmd, app, asJSON, resp, func() string {
				return formatter.FormatPrioritize(resp)
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with the tasks to rank")
	cmd.Flags().Var(now, "now", "Reference time (RFC 3339 or YYYY-MM-DD HH:MM, default: current time)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the response as JSON")
	cmd.Flags().BoolVar(&local, "local", false, "Skip the model and use heuristic scoring")
	_ = cmd.MarkFlagRequired("file")

	cmd.AddCommand(newPrioritizeSavedCmd(app))
	return cmd
}

func newPrioritizeSavedCmd(app *App) *cobra.Command {
	var owner, project string
	var asJSON, local bool
	now := &timeFlag{loc: app.location}

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Rank an owner's open stored tasks and save the scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.SavedRequest{
				OwnerID:    owner,
				ProjectID:  project,
				Now:        now.Value(),
				ForceLocal: local,
			}

			var resp *contract.PrioritizeResponse
			var err error
			withSpinner(cmd, app, local, func() {
				resp, err = app.Prioritize.PrioritizeSaved(cmd.Context(), req)
			})
			if err != nil {
				return err
			}
			return render(cmd, app, asJSON, resp, func() string {
				return formatter.FormatPrioritize(resp)
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner whose tasks are ranked")
	cmd.Flags().StringVar(&project, "project", "", "Limit to one project")
	cmd.Flags().Var(now, "now", "Reference time (RFC 3339 or YYYY-MM-DD HH:MM, default: current time)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the response as JSON")
	cmd.Flags().BoolVar(&local, "local", false, "Skip the model and use heuristic scoring")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
