package cli

import (
	"io"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and terminal facts the commands depend on.
type App struct {
	Prioritize service.PrioritizeService
	Tasks      service.TaskService

	// IsTTY reports whether stdout is an interactive terminal. Output falls
	// back to JSON when it is not.
	IsTTY func() bool
	// RemoteEnabled shows a spinner while the model is consulted.
	RemoteEnabled bool
	// Location is used for due values without an explicit zone.
	Location *time.Location
}

func (a *App) interactive() bool {
	return a.IsTTY != nil && a.IsTTY()
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

// NewRootCmd creates the top-level "taskflow" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Task prioritization and daily planning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPrioritizeCmd(app),
		newTaskCmd(app),
	)

	return root
}

// render writes v as JSON when asked to or when stdout is not a terminal,
// and the pretty form otherwise.
func render(cmd *cobra.Command, app *App, asJSON bool, v any, pretty func() string) error {
	out := cmd.OutOrStdout()
	if asJSON || !app.interactive() {
		return formatter.WriteJSON(out, v)
	}
	_, err := io.WriteString(out, pretty())
	return err
}

// withSpinner runs fn behind a spinner on stderr when the model may be
// consulted from an interactive session.
func withSpinner(cmd *cobra.Command, app *App, local bool, fn func()) {
	if !app.interactive() || !app.RemoteEnabled || local {
		fn()
		return
	}
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Ranking tasks...")
	defer stop()
	fn()
}
