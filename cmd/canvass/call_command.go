package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"canvass/internal/api"
)

func newCallCommand(ctx *commandContext) *cobra.Command {
	var fromNumber string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "call <number>",
		Short: "Place an outbound survey call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.TriggerCallRequest{To: args[0], From: fromNumber}
			var resp api.TriggerCallResponse
			if err := ctx.postJSON(cmd.Context(), "/trigger-call", req, &resp); err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, resp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Call placed to %s (call SID %s)\n", args[0], resp.CallID)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromNumber, "from", "", "Caller number (defaults to telephony.from_number)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	return cmd
}
