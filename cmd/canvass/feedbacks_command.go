package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"canvass/internal/api"
	"canvass/internal/feedback"
)

func newFeedbacksCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var archived bool

	cmd := &cobra.Command{
		Use:   "feedbacks",
		Short: "List collected survey feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			var records []feedback.Record
			if archived {
				archiveRecords, err := loadArchivedFeedback(cmd.Context(), ctx)
				if err != nil {
					return err
				}
				records = archiveRecords
			} else {
				var resp api.FeedbackListResponse
				if err := ctx.getJSON(cmd.Context(), "/feedbacks", &resp); err != nil {
					return err
				}
				records = resp.Feedbacks
			}

			if jsonOutput {
				return writeJSON(cmd, api.FeedbackListResponse{Count: len(records), Feedbacks: records})
			}
			renderFeedbacks(cmd, records, archived)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output feedback as JSON")
	cmd.Flags().BoolVar(&archived, "archived", false, "Read from the SQLite archive instead of the daemon")
	return cmd
}

func loadArchivedFeedback(cmdCtx context.Context, ctx *commandContext) ([]feedback.Record, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Storage.ArchiveEnabled {
		return nil, fmt.Errorf("feedback archive is disabled; enable storage.archive_enabled first")
	}
	archive, err := feedback.OpenArchive(cfg.ArchivePath())
	if err != nil {
		return nil, fmt.Errorf("open feedback archive: %w", err)
	}
	defer archive.Close()
	return archive.List(cmdCtx)
}

func renderFeedbacks(cmd *cobra.Command, records []feedback.Record, archived bool) {
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		if archived {
			fmt.Fprintln(out, "No archived feedback records")
		} else {
			fmt.Fprintln(out, "No feedback records collected yet")
		}
		return
	}

	headers := []string{"Call SID", "From", "Product", "Delivery", "Review", "Completed"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.CallID,
			record.From,
			record.Answers.ProductRating.String(),
			record.Answers.DeliveryRating.String(),
			truncate(record.Answers.FinalReview, 48),
			record.Timestamp,
		})
	}
	table := renderTable(headers, rows, []columnAlignment{
		alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft,
	})
	fmt.Fprintln(out, strings.TrimRight(table, "\n"))
	fmt.Fprintf(out, "%d record(s)\n", len(records))
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
