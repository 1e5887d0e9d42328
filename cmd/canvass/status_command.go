package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"canvass/internal/api"
	"canvass/internal/dialog"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput  bool
		stageFilter string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status api.DaemonStatus
			if err := ctx.getJSON(cmd.Context(), "/api/status", &status); err != nil {
				return err
			}
			if stageFilter != "" {
				stage, ok := dialog.ParseStage(stageFilter)
				if !ok {
					return fmt.Errorf("unknown stage %q", stageFilter)
				}
				status.Sessions = filterSessions(status.Sessions, stage)
			}
			if jsonOutput {
				return writeJSON(cmd, status)
			}
			renderStatus(cmd, status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output status as JSON")
	cmd.Flags().StringVar(&stageFilter, "stage", "", "Only list sessions at this stage (e.g. await_product_rating)")
	return cmd
}

func filterSessions(sessions []api.SessionSummary, stage dialog.Stage) []api.SessionSummary {
	filtered := make([]api.SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		if dialog.Stage(sess.Stage) == stage {
			filtered = append(filtered, sess)
		}
	}
	return filtered
}

func renderStatus(cmd *cobra.Command, status api.DaemonStatus) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	lines := renderSectionHeader("Canvass Daemon", colorize)
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}

	runningKind := statusError
	runningMsg := "stopped"
	if status.Running {
		runningKind = statusOK
		runningMsg = fmt.Sprintf("pid %d", status.PID)
	}
	fmt.Fprintln(out, renderStatusLine("Daemon", runningKind, runningMsg, colorize))
	if status.Uptime != "" {
		fmt.Fprintln(out, renderStatusLine("Uptime", statusInfo, status.Uptime, colorize))
	}

	providerKind := statusWarn
	providerMsg := "public URL not configured; calls cannot be placed"
	if status.ProviderConfigured {
		providerKind = statusOK
		providerMsg = "configured"
	}
	fmt.Fprintln(out, renderStatusLine("Provider", providerKind, providerMsg, colorize))

	fmt.Fprintln(out, renderStatusLine("Active sessions", statusInfo, fmt.Sprintf("%d", status.ActiveSessions), colorize))
	fmt.Fprintln(out, renderStatusLine("Feedback records", statusInfo, fmt.Sprintf("%d", status.FeedbackCount), colorize))

	archiveMsg := "disabled"
	if status.ArchiveEnabled {
		archiveMsg = status.ArchivePath
	}
	fmt.Fprintln(out, renderStatusLine("Archive", statusInfo, archiveMsg, colorize))

	if len(status.Sessions) > 0 {
		fmt.Fprintln(out)
		headers := []string{"Call SID", "Stage", "Retries", "Updated"}
		rows := make([][]string, 0, len(status.Sessions))
		for _, sess := range status.Sessions {
			rows = append(rows, []string{
				sess.CallID,
				dialog.Stage(sess.Stage).DisplayName(),
				fmt.Sprintf("%d", sess.Retries),
				sess.UpdatedAt,
			})
		}
		table := renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft})
		fmt.Fprintln(out, strings.TrimRight(table, "\n"))
	}
}
