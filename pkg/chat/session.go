package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andrew/llm-chat/pkg/llm"
	"github.com/andrew/llm-chat/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSystemPrompt sets the assistant's persona and tone
const DefaultSystemPrompt = `You are a helpful, friendly, and knowledgeable AI assistant.
Provide informative, concise, and relevant responses.
Maintain a conversational tone and encourage follow-up questions.
If you're unsure about something, be honest about it.`

// maxReadFailures bounds consecutive input errors before Run gives up
const maxReadFailures = 3

// Options configures a Session
type Options struct {
	Model        string
	SystemPrompt string
	ModelConfig  llm.ModelConfig
	Logger       *zap.Logger
}

// Session is one conversation: it owns the transcript, reads lines from the
// user and streams replies from the model, one turn at a time.
type Session struct {
	ID string

	client     llm.Client
	console    *Console
	input      *bufio.Reader
	transcript models.Transcript
	logger     *zap.Logger

	model        string
	systemPrompt string
	modelConfig  llm.ModelConfig
}

// NewSession creates a session reading user input from in
func NewSession(client llm.Client, in io.Reader, console *Console, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	systemPrompt := opts.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}

	id := uuid.New().String()

	return &Session{
		ID:           id,
		client:       client,
		console:      console,
		input:        bufio.NewReader(in),
		logger:       logger.With(zap.String("session", id)),
		model:        opts.Model,
		systemPrompt: systemPrompt,
		modelConfig:  opts.ModelConfig,
	}
}

// Transcript returns a copy of the conversation so far
func (s *Session) Transcript() []models.Message {
	return s.transcript.Messages()
}

// Run drives the read-dispatch-respond loop until the user exits, input ends
// or ctx is cancelled. A nil error means the user left normally.
func (s *Session) Run(ctx context.Context) error {
	s.console.Welcome(s.model)
	s.logger.Debug("session started", zap.String("model", s.model))

	readFailures := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.console.Prompt()
		line, err := s.input.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			readFailures++
			s.logger.Warn("failed to read input", zap.Error(err), zap.Int("failures", readFailures))
			s.console.UnexpectedError(err)
			if readFailures >= maxReadFailures {
				return fmt.Errorf("failed to read input: %w", err)
			}
			continue
		}
		readFailures = 0

		eof := errors.Is(err, io.EOF)
		if eof && line == "" {
			s.console.Farewell()
			return nil
		}

		if s.step(ctx, line) == ActionExit {
			return nil
		}

		if eof {
			s.console.Farewell()
			return nil
		}
	}
}

// step handles one input line. A panic is reported and the loop carries on.
func (s *Session) step(ctx context.Context, line string) (action Action) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered from panic", zap.Any("panic", r))
			s.console.UnexpectedError(r)
			action = ActionContinue
		}
	}()

	text := strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(text) == "" {
		s.console.EmptyInput()
		return ActionContinue
	}

	action = s.Dispatch(text)
	if action != ActionChat {
		return action
	}

	if err := s.Respond(ctx, text); err != nil {
		s.logger.Warn("turn failed", zap.Error(err))
	}
	return ActionContinue
}

// Respond sends text as the next user turn and streams the reply to the
// console. On success both turns are committed to the transcript; on failure
// the user turn is removed again and nothing of the partial reply is kept.
func (s *Session) Respond(ctx context.Context, text string) error {
	s.transcript.Append(models.NewMessage(models.RoleUser, text))
	committed := false
	defer func() {
		if r := recover(); r != nil {
			if !committed {
				s.transcript.DropLastUser()
			}
			panic(r)
		}
	}()

	s.console.AssistantPrefix()
	reply, err := s.stream(ctx)
	if err != nil {
		s.console.TurnFailed()
		s.transcript.DropLastUser()
		return err
	}

	s.transcript.Append(models.NewMessage(models.RoleAssistant, reply))
	committed = true
	s.console.EndReply()

	s.logger.Debug("turn committed",
		zap.Int("reply_length", len(reply)),
		zap.Int("transcript_length", s.transcript.Len()))
	return nil
}

func (s *Session) stream(ctx context.Context) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion stream panicked: %v", r)
		}
	}()

	req := llm.Request{
		Model:    s.model,
		System:   s.systemPrompt,
		Messages: s.transcript.Messages(),
		Config:   s.modelConfig,
	}

	var fullResponse strings.Builder
	err = s.client.Stream(ctx, req, func(fragment string) error {
		fullResponse.WriteString(fragment)
		s.console.Fragment(fragment)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	return fullResponse.String(), nil
}
