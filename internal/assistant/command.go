package assistant

import (
	"strings"
)

// CommandKind tags the variants of Command.
type CommandKind int

const (
	CommandEmpty CommandKind = iota
	CommandChat
	CommandAnalyzeDocument
	CommandQuit
	CommandReset
	CommandHelp
)

func (k CommandKind) String() string {
	switch k {
	case CommandChat:
		return "chat"
	case CommandAnalyzeDocument:
		return "analyze_document"
	case CommandQuit:
		return "quit"
	case CommandReset:
		return "reset"
	case CommandHelp:
		return "help"
	default:
		return "empty"
	}
}

// AnalyzeToken is the chat prefix that triggers document analysis.
const AnalyzeToken = "esg"

// Command is one parsed line of interactive input. Text holds the question for
// CommandChat; Path holds the file for CommandAnalyzeDocument and may be empty
// when the user typed the token alone.
type Command struct {
	Kind CommandKind
	Text string
	Path string
}

var quitWords = map[string]bool{"exit": true, "quit": true, "q": true}

// ParseCommand classifies a line of user input.
func ParseCommand(input string) Command {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Command{Kind: CommandEmpty}
	}

	lower := strings.ToLower(trimmed)
	switch {
	case quitWords[lower]:
		return Command{Kind: CommandQuit}
	case lower == "/reset" || lower == "clear":
		return Command{Kind: CommandReset}
	case lower == "help" || lower == "/help":
		return Command{Kind: CommandHelp}
	}

	head, rest, _ := strings.Cut(trimmed, " ")
	if strings.EqualFold(head, AnalyzeToken) {
		return Command{Kind: CommandAnalyzeDocument, Path: unquote(strings.TrimSpace(rest))}
	}

	return Command{Kind: CommandChat, Text: trimmed}
}

// unquote strips one pair of matching quotes, as left by drag-and-drop in most
// terminals.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
