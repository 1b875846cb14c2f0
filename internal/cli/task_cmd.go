package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage stored tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskEventsCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var owner, project, title, description string
	var estimate, priority int
	var tags []string
	var asJSON bool
	due := &timeFlag{loc: app.location}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{
				OwnerID:     owner,
				ProjectID:   project,
				Title:       strings.TrimSpace(title),
				Description: description,
				DueAt:       due.Value(),
				Priority:    priority,
				Tags:        tags,
			}
			if estimate > 0 {
				t.EstimatedMin = domain.IntPtr(estimate)
			}

			if err := app.Tasks.Create(cmd.Context(), t); err != nil {
				return err
			}
			return render(cmd, app, asJSON, t, func() string {
				return formatter.FormatTaskCreated(t)
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID")
	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Free-form description")
	cmd.Flags().Var(due, "due", "Deadline (RFC 3339, YYYY-MM-DD HH:MM or YYYY-MM-DD)")
	cmd.Flags().IntVar(&estimate, "estimate", 0, "Estimated effort in minutes")
	cmd.Flags().IntVar(&priority, "priority", domain.DefaultImportance, "Importance from 1 (lowest) to 5")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored task as JSON")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var owner, project string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an owner's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := app.Tasks.List(cmd.Context(), owner, project)
			if err != nil {
				return err
			}
			return render(cmd, app, asJSON, tasks, func() string {
				return formatter.FormatTaskList(tasks, time.Now())
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID")
	cmd.Flags().StringVar(&project, "project", "", "Limit to one project")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print tasks as JSON")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func newTaskEventsCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "events <task-id>",
		Short: "Show a task's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Tasks.GetByID(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("task %s: %w", args[0], err)
			}
			events, err := app.Tasks.Events(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd, app, asJSON, events, func() string {
				return formatEvents(events)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print events as JSON")
	return cmd
}

func formatEvents(events []*domain.TaskEvent) string {
	var b strings.Builder
	for _, e := range events {
		writeEvent(&b, e)
	}
	if b.Len() == 0 {
		return formatter.Dim("No events.") + "\n"
	}
	return b.String()
}

func writeEvent(w io.Writer, e *domain.TaskEvent) {
	fmt.Fprintf(w, "%s  %-12s", formatter.Dim(e.CreatedAt.Local().Format("2006-01-02 15:04")), string(e.Type))
	switch e.Type {
	case domain.EventPrioritized:
		if score, ok := e.Payload["score"].(float64); ok {
			fmt.Fprintf(w, " %s", formatter.ScoreStyle(score).Render(fmt.Sprintf("%.2f", score)))
		}
		if strategy, ok := e.Payload["strategy"].(string); ok {
			fmt.Fprintf(w, " %s", formatter.Dim(strategy))
		}
	case domain.EventCreated:
		if title, ok := e.Payload["title"].(string); ok {
			fmt.Fprintf(w, " %s", title)
		}
	}
	fmt.Fprintln(w)
}
