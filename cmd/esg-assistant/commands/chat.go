package commands

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
	"github.com/spherical-ai/esg-assistant/internal/assistant"
	"github.com/spherical-ai/esg-assistant/internal/conversation"
	"github.com/spherical-ai/esg-assistant/internal/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat (default)",
	Long: `Start an interactive chat with the sustainability assistant.

Type a question and press Enter. Type 'esg <file_path>' to summarize and
benchmark an ESG report PDF, '/reset' to clear the conversation, and
'exit', 'quit' or 'q' to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	status := newStatusReporter()
	a, err := loadApp(ctx, status)
	if err != nil {
		return err
	}
	defer a.Close()

	session := &chatSession{
		svc:    a.service,
		state:  a.service.NewConversation(),
		input:  ui.NewLineReader(cmd.InOrStdin()),
		status: status,
	}
	return session.run(ctx)
}

// chatSession is one interactive REPL over a single transcript.
type chatSession struct {
	svc    *assistant.Service
	state  *conversation.State
	input  *ui.LineReader
	status *statusReporter
}

func (c *chatSession) run(ctx context.Context) error {
	ui.Banner("🌱 Sustainability Packaging Chatbot",
		"Ask me about LCA, ESG reporting, packaging sustainability, and more!",
		"Type 'esg <file_path>' to analyze an ESG report.",
		"Type 'exit', 'quit', or 'q' to end the conversation.",
	)

	for {
		ui.Speaker("You:")
		line, err := c.input.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				ui.Message("\n\nGoodbye! 🌍")
				return nil
			}
			return err
		}

		command := assistant.ParseCommand(line)
		switch command.Kind {
		case assistant.CommandEmpty:
			ui.Message("Please enter a question or type 'exit' to quit.")
		case assistant.CommandQuit:
			ui.Message("\nThank you for using the Sustainability Chatbot! 🌍")
			return nil
		case assistant.CommandReset:
			c.state.Reset()
			ui.Success("Conversation history cleared")
		case assistant.CommandHelp:
			printChatHelp()
		case assistant.CommandAnalyzeDocument:
			c.analyze(ctx, command.Path)
		case assistant.CommandChat:
			c.ask(ctx, command.Text)
		}
	}
}

func (c *chatSession) ask(ctx context.Context, question string) {
	c.status.waitingFor("Thinking...")
	reply, err := c.svc.Ask(ctx, c.state, question)
	if err != nil {
		printTurnError(err)
		return
	}
	ui.Newline()
	ui.Speaker("Bot:")
	ui.Message("%s", reply)
	ui.Newline()
}

func (c *chatSession) analyze(ctx context.Context, path string) {
	if path == "" {
		printTurnError(domain.InvalidInputError("please provide a file path: esg <file_path>", nil))
		return
	}

	c.status.waitingFor("Summarizing and benchmarking the ESG report. Please wait...")
	result, err := c.svc.AnalyzeFile(ctx, path)
	if err != nil {
		printTurnError(err)
		return
	}

	ui.Newline()
	ui.Speaker("Bot (ESG Summary & Benchmarking):")
	ui.Newline()
	ui.Message("%s", result.Text)
	printDocumentNotes(result)
	ui.Newline()
}

// printTurnError reports a failed turn. The loop always continues.
func printTurnError(err error) {
	ui.Error("Error: %v", err)
	switch {
	case domain.IsKind(err, domain.KindDocumentRead):
		ui.Message("Please check the file path and try again.")
	case domain.IsRetryable(err):
		ui.Message("Please try again or type 'exit' to quit.")
	}
}

func printDocumentNotes(result *assistant.Result) {
	if result.Document != nil && len(result.Document.SkippedPages) > 0 {
		ui.Warning("%d page(s) could not be read: %v", len(result.Document.SkippedPages), result.Document.SkippedPages)
	}
	if result.ReportID != "" {
		ui.Info("Saved as report %s", result.ReportID)
	}
}

func printChatHelp() {
	ui.Section("Commands")
	ui.KeyValue("esg <path>", "Summarize and benchmark an ESG report PDF")
	ui.KeyValue("/reset", "Clear the conversation history")
	ui.KeyValue("help", "Show this help")
	ui.KeyValue("exit", "End the conversation (also quit, q)")
	ui.Newline()
}
