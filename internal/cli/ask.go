package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ubiquibot/askbot/internal/chat"
	"github.com/ubiquibot/askbot/internal/config"
	"github.com/ubiquibot/askbot/internal/github"
	"github.com/ubiquibot/askbot/internal/llm"
)

// invocationFlags mirrors the argument surface of the hosting action:
// either an event payload file or the individual fields.
type invocationFlags struct {
	org       string
	repo      string
	issue     int
	sender    string
	body      string
	eventPath string
	post      bool
}

func (f *invocationFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.org, "org", "", "Organization or user owning the repository")
	cmd.Flags().StringVar(&f.repo, "repo", "", "Repository name")
	cmd.Flags().IntVar(&f.issue, "issue", 0, "Issue number the command was invoked on")
	cmd.Flags().StringVar(&f.sender, "sender", "", "Login of the user who invoked the command")
	cmd.Flags().StringVar(&f.body, "body", "", "Comment body containing the slash command")
	cmd.Flags().StringVar(&f.eventPath, "event", "", "Path to an issue_comment webhook payload (overrides the field flags)")
	cmd.Flags().BoolVar(&f.post, "post", false, "Post the result back to the issue instead of printing it")
}

// resolveEvent assembles the command event from the payload file or the
// individual flags.
func (f *invocationFlags) resolveEvent() (*github.CommandEvent, error) {
	if f.eventPath != "" {
		return github.ParseEventFile(f.eventPath)
	}
	if f.org == "" || f.repo == "" {
		return nil, fmt.Errorf("--org and --repo are required (or pass --event)")
	}
	return &github.CommandEvent{
		Owner:       f.org,
		Repo:        f.repo,
		IssueNumber: f.issue,
		Sender:      f.sender,
		Body:        f.body,
	}, nil
}

func newAskCmd() *cobra.Command {
	return newAnswerCmd(chat.ModeAsk, "ask", "Answer an /ask command on an issue")
}

func newResearchCmd() *cobra.Command {
	return newAnswerCmd(chat.ModeResearch, "research", "Answer a /research command on an issue")
}

func newAnswerCmd(mode chat.Mode, use, short string) *cobra.Command {
	flags := &invocationFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
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
			client, err := buildLLMClient(ctx, cfg)
			if err != nil {
				return err
			}

			assistant := chat.NewAssistant(gh, client, chat.Settings{
				Model:            cfg.Model,
				Temperature:      cfg.Temperature,
				DisabledCommands: cfg.DisabledCommands,
			})
			answer := assistant.Answer(ctx, chat.Request{
				Mode:        mode,
				IssueNumber: event.IssueNumber,
				Sender:      event.Sender,
				Body:        event.Body,
			})
			return deliver(ctx, gh, event, answer, flags.post)
		},
	}
	flags.register(cmd)
	return cmd
}

// buildClients constructs the GitHub client and loads the merged bot
// config for the event's repository.
func buildClients(ctx context.Context, event *github.CommandEvent) (*github.Client, *config.Config, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, nil, fmt.Errorf("GITHUB_TOKEN is not set")
	}
	gh := github.NewClient(event.Owner, event.Repo, token)
	cfg, err := config.Load(ctx, gh, event.Owner, event.Repo)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	return gh, cfg, nil
}

// buildLLMClient constructs the configured provider's client, or nil
// when no credential is available; the pipeline turns nil into its
// user-facing configuration message.
func buildLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey() == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case "gemini":
		return llm.NewGeminiClient(ctx, cfg.Keys.Gemini)
	case "", "openai":
		return llm.NewOpenAIClient(cfg.Keys.OpenAI)
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// deliver posts the result back to the issue or prints it.
func deliver(ctx context.Context, gh *github.Client, event *github.CommandEvent, result string, post bool) error {
	if post {
		if err := gh.PostComment(ctx, event.IssueNumber, result); err != nil {
			return err
		}
		return nil
	}
	fmt.Println(result)
	return nil
}
