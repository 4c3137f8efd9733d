package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ubiquibot/askbot/internal/chat"
	"github.com/ubiquibot/askbot/internal/permit"
)

func newPermitCmd() *cobra.Command {
	flags := &invocationFlags{}
	cmd := &cobra.Command{
		Use:   "permit",
		Short: "Generate a payout permit from a privileged comment",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			event, err := flags.resolveEvent()
			if err != nil {
				return err
			}

			gh, cfg, err := buildClients(ctx, event)
			if err != nil {
				return err
			}
			if cfg.Permit.SignerURL == "" {
				return fmt.Errorf("permit.signer-url is not configured")
			}
			client, err := buildLLMClient(ctx, cfg)
			if err != nil {
				return err
			}

			// Flag-based invocations carry no issue ID; fill it in.
			if event.IssueID == 0 {
				issue, err := gh.GetIssue(ctx, event.IssueNumber)
				if err != nil {
					return fmt.Errorf("fetching issue #%d: %w", event.IssueNumber, err)
				}
				event.IssueID = issue.ID
			}

			generator := permit.NewGenerator(client,
				cfg.Permit.SignerURL, cfg.Permit.ClaimURLBase, cfg.Model, cfg.Permit.EVMNetworkID)
			link, err := generator.Generate(ctx, permit.Request{
				Owner:       event.Owner,
				Repo:        event.Repo,
				IssueID:     event.IssueID,
				IssueNumber: event.IssueNumber,
				Sender:      event.Sender,
				SenderID:    event.SenderID,
				Body:        event.Body,
			})
			if err != nil {
				return deliver(ctx, gh, event, chat.ErrorDiff(err.Error()), flags.post)
			}
			return deliver(ctx, gh, event, link, flags.post)
		},
	}
	flags.register(cmd)
	return cmd
}
