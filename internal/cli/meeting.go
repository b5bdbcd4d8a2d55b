package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-action-board/internal/domain/repositories"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
)

var nowFunc = time.Now

func extractCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract action items from a transcript and merge them into the board",
		Long: `Reads a transcript from --file (use - for stdin) and merges the extracted
items under --meeting-id, or fetches the latest transcript of a Google Meet
conference record with --record.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			meetingID, _ := cmd.Flags().GetString("meeting-id")
			record, _ := cmd.Flags().GetString("record")

			if (file == "") == (record == "") {
				return fmt.Errorf("exactly one of --file or --record is required")
			}

			var transcript string
			if file != "" {
				f, err := openInput(cmd, file)
				if err != nil {
					return err
				}
				data, err := io.ReadAll(f)
				_ = f.Close()
				if err != nil {
					return err
				}
				transcript = string(data)
			}

			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				var (
					report board.ExtractionReport
					err    error
				)
				if record != "" {
					report, err = rt.Controller.ExtractFromMeeting(ctx, record)
				} else {
					report, err = rt.Controller.ExtractAndMerge(ctx, transcript, meetingID)
				}
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				printf(w, "Chunks: %d  Candidates: %d  Dropped: %d\n", report.Chunks, report.Candidates, report.Dropped)
				printf(w, "Added: %d  Duplicates: %d  Ignored: %d\n", report.Merge.Added, report.Merge.Duplicates, report.Merge.Ignored)
				for _, id := range report.Merge.AddedIDs {
					printf(w, "  + %s\n", id)
				}
				return nil
			})
		},
	}

	cmd.Flags().String("file", "", "Transcript text file, - for stdin")
	cmd.Flags().String("meeting-id", "", "Meeting identifier to merge under")
	cmd.Flags().String("record", "", "Google Meet conference record id")

	return cmd
}

func meetingsCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Find Google Meet conference records by code or time window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, _ := cmd.Flags().GetString("code")
			since, _ := cmd.Flags().GetDuration("since")

			q := repositories.ConferenceQuery{MeetingCode: strings.TrimSpace(code)}
			if q.MeetingCode == "" {
				q.End = nowFunc().UTC()
				q.Start = q.End.Add(-since)
			}

			return withRuntime(cmd, load, func(ctx context.Context, rt *Runtime) error {
				records, err := rt.Controller.FindMeetings(ctx, q)
				if err != nil {
					return err
				}
				if len(records) == 0 {
					printf(cmd.OutOrStdout(), "No meetings found.\n")
					return nil
				}
				for _, r := range records {
					printf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.ID(), r.MeetingCode(), r.StartTime.Format(time.RFC3339))
				}
				return nil
			})
		},
	}

	cmd.Flags().String("code", "", "Meeting code, e.g. abc-defg-hij")
	cmd.Flags().Duration("since", 24*time.Hour, "Time window ending now when no code is given")

	return cmd
}
