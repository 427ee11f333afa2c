package chat

import (
	"fmt"
	"io"

	"github.com/andrew/llm-chat/pkg/models"
	"github.com/fatih/color"
)

// Console writes the chat's user-facing output. Replies and status lines go
// to out, diagnostics to errOut.
type Console struct {
	out    io.Writer
	errOut io.Writer

	banner    *color.Color
	prompt    *color.Color
	assistant *color.Color
	notice    *color.Color
	failure   *color.Color
}

// NewConsole creates a console writing to out and errOut
func NewConsole(out, errOut io.Writer, noColor bool) *Console {
	c := &Console{
		out:       out,
		errOut:    errOut,
		banner:    color.New(color.FgGreen, color.Bold),
		prompt:    color.New(color.FgGreen, color.Bold),
		assistant: color.New(color.FgCyan, color.Bold),
		notice:    color.New(color.FgYellow),
		failure:   color.New(color.FgRed),
	}

	if noColor {
		for _, col := range []*color.Color{c.banner, c.prompt, c.assistant, c.notice, c.failure} {
			col.DisableColor()
		}
	}

	return c
}

// Welcome prints the banner and the command summary
func (c *Console) Welcome(model string) {
	fmt.Fprintln(c.out)
	c.banner.Fprintln(c.out, "🤖 AI Chatbot Assistant")
	fmt.Fprintln(c.out, "========================")
	fmt.Fprintf(c.out, "Hello! I'm your AI-powered assistant, running on %s.\n", model)
	fmt.Fprintln(c.out, "I'm here to help answer your questions and have meaningful conversations.")
	fmt.Fprintln(c.out, "Feel free to ask me anything - I'll do my best to provide helpful responses!")
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, `Type "exit" or "quit" to end our conversation.`)
	fmt.Fprintln(c.out, `Type "clear" to clear our conversation history.`)
	fmt.Fprintln(c.out, `Type "help" for more commands.`)
	fmt.Fprintln(c.out)
}

// Prompt asks for the next line of input
func (c *Console) Prompt() {
	c.prompt.Fprint(c.out, "👤 You: ")
}

// EmptyInput asks the user to type something
func (c *Console) EmptyInput() {
	c.notice.Fprintln(c.out, "💭 Please enter a message or command.")
	fmt.Fprintln(c.out)
}

// Help lists the recognized commands
func (c *Console) Help() {
	fmt.Fprintln(c.out)
	c.banner.Fprintln(c.out, "📋 Available Commands:")
	fmt.Fprintln(c.out, "- exit/quit: End the conversation")
	fmt.Fprintln(c.out, "- clear: Clear conversation history")
	fmt.Fprintln(c.out, "- help: Show this help message")
	fmt.Fprintln(c.out, "- history: Show conversation history")
	fmt.Fprintln(c.out, "- Just type your question to chat!")
	fmt.Fprintln(c.out)
}

// History prints the transcript, one numbered line per message
func (c *Console) History(messages []models.Message) {
	if len(messages) == 0 {
		fmt.Fprintln(c.out)
		c.notice.Fprintln(c.out, "📝 No conversation history yet. Start by asking a question!")
		fmt.Fprintln(c.out)
		return
	}

	fmt.Fprintln(c.out)
	c.banner.Fprintln(c.out, "📝 Conversation History:")
	fmt.Fprintln(c.out, "========================")
	for i, msg := range messages {
		fmt.Fprintf(c.out, "%d. %s: %s\n", i+1, msg.Role.Label(), msg.Content)
	}
	fmt.Fprintln(c.out)
}

// Cleared confirms the transcript was emptied
func (c *Console) Cleared() {
	fmt.Fprintln(c.out)
	c.notice.Fprintln(c.out, "🧹 Conversation history cleared!")
	fmt.Fprintln(c.out)
}

// Farewell is printed when the user leaves
func (c *Console) Farewell() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "👋 Thank you for chatting! Have a great day!")
}

// Interrupted is printed when the process receives an interrupt signal
func (c *Console) Interrupted() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "👋 Goodbye! Thanks for using the AI Chatbot!")
}

// AssistantPrefix starts a streamed reply
func (c *Console) AssistantPrefix() {
	fmt.Fprintln(c.out)
	c.assistant.Fprint(c.out, "🤖 AI: ")
}

// Fragment writes part of a reply as soon as it arrives
func (c *Console) Fragment(text string) {
	fmt.Fprint(c.out, text)
}

// EndReply terminates a reply and leaves a blank line before the next prompt
func (c *Console) EndReply() {
	fmt.Fprint(c.out, "\n\n")
}

// TurnFailed explains that the reply could not be produced
func (c *Console) TurnFailed() {
	fmt.Fprintln(c.errOut)
	c.failure.Fprintln(c.errOut, "❌ I apologize, but I encountered an error while processing your request.")
	fmt.Fprintln(c.errOut, "This might be due to:")
	fmt.Fprintln(c.errOut, "- Network connectivity issues")
	fmt.Fprintln(c.errOut, "- API rate limits")
	fmt.Fprintln(c.errOut, "- Invalid API key configuration")
	fmt.Fprintln(c.errOut)
	fmt.Fprintln(c.errOut, "Please try again, or ask a different question.")
	fmt.Fprintln(c.errOut)
}

// UnexpectedError reports a failure outside a completion call
func (c *Console) UnexpectedError(err interface{}) {
	fmt.Fprintln(c.errOut)
	c.failure.Fprintf(c.errOut, "❌ An unexpected error occurred: %v\n", err)
	fmt.Fprintln(c.out, "Please try again.")
	fmt.Fprintln(c.out)
}

// Fatal reports an error that stops the program
func (c *Console) Fatal(err error) {
	c.failure.Fprintf(c.errOut, "❌ Error: %v\n", err)
}
