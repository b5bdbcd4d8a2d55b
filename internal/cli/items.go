package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-action-board/internal/adapter/export"
	"github.com/johnquangdev/meeting-action-board/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
)

func listCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List action items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusFilter, _ := cmd.Flags().GetString("status")
			asJSON, _ := cmd.Flags().GetBool("json")

			var status entities.Status
			if statusFilter != "" {
				s, err := entities.ParseStatus(statusFilter)
				if err != nil {
					return err
				}
				status = s
			}

			return withRuntime(cmd, load, func(_ context.Context, rt *Runtime) error {
				var items []entities.ActionItem
				for _, a := range rt.Controller.Items() {
					if status == "" || a.Status == status {
						items = append(items, a)
					}
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), presenter.ToItemResponses(items))
				}
				return writeTable(cmd.OutOrStdout(), items)
			})
		},
	}

	cmd.Flags().StringP("status", "s", "", "Only show items in this column (todo, in_progress, done)")
	cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	return cmd
}

func writeTable(w io.Writer, items []entities.ActionItem) error {
	if len(items) == 0 {
		printf(w, "No action items.\n")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printf(tw, "ID\tSTATUS\tPRIORITY\tASSIGNEE\tDEADLINE\tTASK\n")
	for _, a := range items {
		printf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Status, a.Priority, a.Assignee, entities.FormatDeadline(a.Deadline), a.Task)
	}
	return tw.Flush()
}

func addCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <task>",
		Short: "Add a manual action item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := board.ManualItem{Task: args[0]}
			in.Assignee, _ = cmd.Flags().GetString("assignee")
			in.Deadline, _ = cmd.Flags().GetString("deadline")
			in.Priority, _ = cmd.Flags().GetString("priority")
			in.Status, _ = cmd.Flags().GetString("status")
			in.Context, _ = cmd.Flags().GetString("context")
			in.MeetingID, _ = cmd.Flags().GetString("meeting")

			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				a, err := rt.Controller.AddManual(ctx, in)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Added %s\n", a.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringP("assignee", "a", "", "Person responsible")
	cmd.Flags().StringP("deadline", "d", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringP("priority", "p", "", "Low, Medium or High")
	cmd.Flags().String("status", "", "Initial column")
	cmd.Flags().String("context", "", "Free text context")
	cmd.Flags().String("meeting", "", "Meeting identifier")

	return cmd
}

func moveCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move an action item to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				a, err := rt.Controller.MoveStatus(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s is now %s\n", a.ID, a.Status.Label())
				return nil
			})
		},
	}
}

func editCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit the fields of an action item",
		Long:  "Only the flags given are changed. Pass --deadline \"\" to clear the deadline.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch board.ItemPatch
			for flag, target := range map[string]**string{
				"task":     &patch.Task,
				"assignee": &patch.Assignee,
				"deadline": &patch.Deadline,
				"priority": &patch.Priority,
				"status":   &patch.Status,
				"context":  &patch.Context,
				"meeting":  &patch.MeetingID,
			} {
				if cmd.Flags().Changed(flag) {
					v, _ := cmd.Flags().GetString(flag)
					*target = &v
				}
			}

			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				a, err := rt.Controller.EditItem(ctx, args[0], patch)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Updated %s\n", a.ID)
				return nil
			})
		},
	}

	for _, flag := range []string{"task", "assignee", "deadline", "priority", "status", "context", "meeting"} {
		cmd.Flags().String(flag, "", "New "+flag)
	}

	return cmd
}

func deleteCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an action item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				if err := rt.Controller.DeleteItem(ctx, args[0]); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func clearCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every action item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to clear the board without --yes")
			}
			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				count := len(rt.Controller.Items())
				if err := rt.Controller.ClearAll(ctx); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Deleted %d items\n", count)
				return nil
			})
		},
	}

	cmd.Flags().Bool("yes", false, "Confirm deleting every item")

	return cmd
}

func importCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Bulk import action items from a CSV file with a task column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openInput(cmd, args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := export.ParseImport(f)
			if err != nil {
				return err
			}

			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				report, err := rt.Controller.BulkImport(ctx, rows)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Imported %d items, skipped %d rows\n", report.Imported, report.Skipped)
				return nil
			})
		},
	}
}

func exportCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as csv, json or txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatFlag, _ := cmd.Flags().GetString("format")
			out, _ := cmd.Flags().GetString("out")
			meetingID, _ := cmd.Flags().GetString("meeting")

			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			return withRuntime(cmd, load, func(_ context.Context, rt *Runtime) error {
				var items []entities.ActionItem
				for _, a := range rt.Controller.Items() {
					if meetingID == "" || a.MeetingID == meetingID {
						items = append(items, a)
					}
				}

				content, err := export.Render(format, items, meetingID, nowFunc())
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err = cmd.OutOrStdout().Write(content)
					return err
				}
				if err := os.WriteFile(out, content, 0o644); err != nil {
					return err
				}
				printf(cmd.ErrOrStderr(), "Wrote %d items to %s\n", len(items), out)
				return nil
			})
		},
	}

	cmd.Flags().StringP("format", "f", "csv", "csv, json or txt")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	cmd.Flags().String("meeting", "", "Only export items of this meeting")

	return cmd
}

// openInput opens path, or stdin for "-"
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}
