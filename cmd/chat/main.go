package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/andrew/llm-chat/pkg/chat"
	"github.com/andrew/llm-chat/pkg/config"
	"github.com/andrew/llm-chat/pkg/llm"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries everything a single invocation needs
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	cfg          config.Config
	systemPrompt string

	// signals is nil in tests that do not exercise interrupts
	signals <-chan os.Signal
	exit    func(code int)

	logger   *zap.Logger
	envErr   error
	reported bool
}

func main() {
	// Handle interrupts from the very start, before flags or config are read
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	a := &app{
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		signals: c,
		exit:    os.Exit,
	}
	os.Exit(a.execute(os.Args[1:]))
}

// execute runs the root command and maps the outcome to an exit code
func (a *app) execute(args []string) int {
	if a.signals != nil {
		go a.watchSignals(a.signals)
	}

	// Load .env before reading the environment; a missing file is fine
	a.envErr = godotenv.Load()
	a.cfg = config.Load()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	err := cmd.ExecuteContext(context.Background())
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		if !a.reported {
			// flag and argument errors from cobra
			a.fail(chat.NewConsole(a.out, a.errOut, a.cfg.NoColor), err)
		}
		return 1
	}
	return 0
}

// watchSignals says goodbye and exits with 0 on the first interrupt,
// whatever the session is doing at that moment
func (a *app) watchSignals(c <-chan os.Signal) {
	if _, ok := <-c; !ok {
		return
	}
	chat.NewConsole(a.out, a.errOut, true).Interrupted()
	a.exit(0)
}

// fail reports err to the user once
func (a *app) fail(console *chat.Console, err error) error {
	a.reported = true
	console.Fatal(err)
	return err
}

func newRootCmd(a *app) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a large language model from the terminal",
		Long: `chat streams replies from a hosted language model into your terminal and
keeps the conversation in memory for the rest of the session.

Commands available at the prompt: exit, quit, clear, help, history.

Configuration is read from the environment (and a .env file):
  OPENAI_API_KEY   required for the openai provider
  OPENAI_BASE_URL  alternative OpenAI-compatible endpoint
  CHAT_PROVIDER    openai (default) or ollama
  CHAT_MODEL       model name
  OLLAMA_HOST      Ollama server address`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Debug = debug
			if a.logger != nil {
				return nil
			}

			logConfig := zap.NewProductionConfig()
			logConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if debug {
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := logConfig.Build()
			if err != nil {
				return a.fail(chat.NewConsole(a.out, a.errOut, a.cfg.NoColor),
					fmt.Errorf("failed to initialize logger: %w", err))
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&a.cfg.Provider, "provider", a.cfg.Provider, "Completion provider (openai or ollama)")
	flags.StringVar(&a.cfg.Model, "model", a.cfg.Model, "Model name (defaults depend on the provider)")
	flags.StringVar(&a.systemPrompt, "system", chat.DefaultSystemPrompt, "System prompt")
	flags.Float32Var(&a.cfg.Generation.Temperature, "temp", a.cfg.Generation.Temperature, "Temperature for sampling")
	flags.Float32Var(&a.cfg.Generation.TopP, "top-p", a.cfg.Generation.TopP, "Nucleus sampling probability")
	flags.IntVar(&a.cfg.Generation.MaxTokens, "max-tokens", a.cfg.Generation.MaxTokens, "Maximum number of tokens to generate")
	flags.BoolVar(&a.cfg.NoColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")

	return cmd
}

// run validates the configuration and drives the chat session
func (a *app) run(ctx context.Context) error {
	console := chat.NewConsole(a.out, a.errOut, a.cfg.NoColor)
	a.cfg.Provider = strings.ToLower(strings.TrimSpace(a.cfg.Provider))

	if a.envErr != nil {
		a.logger.Debug("no .env file loaded, using process environment", zap.Error(a.envErr))
	}

	if err := a.cfg.Validate(); err != nil {
		a.fail(console, err)
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Fprintln(a.errOut, "Please add your OpenAI API key to the .env file.")
		}
		return err
	}

	client, err := llm.NewClient(a.cfg.ProviderConfig())
	if err != nil {
		return a.fail(console, err)
	}
	defer client.Close()

	session := chat.NewSession(client, a.in, console, chat.Options{
		Model:        a.cfg.ModelName(),
		SystemPrompt: a.systemPrompt,
		ModelConfig:  a.cfg.Generation,
		Logger:       a.logger,
	})
	a.logger.Debug("starting chat session",
		zap.String("session", session.ID),
		zap.String("provider", a.cfg.Provider),
		zap.String("model", a.cfg.ModelName()))

	if err := session.Run(ctx); err != nil {
		return a.fail(console, err)
	}
	return nil
}
