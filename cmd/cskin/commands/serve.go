package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/eino/callbacks"
	"github.com/spf13/cobra"

	"github.com/cskinhq/cskin-go/internal/assistant"
	"github.com/cskinhq/cskin-go/internal/embedder"
	"github.com/cskinhq/cskin-go/internal/language"
	"github.com/cskinhq/cskin-go/internal/logging"
	"github.com/cskinhq/cskin-go/internal/provider"
	"github.com/cskinhq/cskin-go/internal/server"
	"github.com/cskinhq/cskin-go/internal/session"
	"github.com/cskinhq/cskin-go/internal/tracing"
)

// NewServeCmd constructs the `cskin serve` command, which starts the HTTP
// consultation API.
func NewServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the C-Skin HTTP consultation API",
		Long: `Start the C-Skin HTTP server on localhost.

The server exposes the consultation API (POST /api/chat, POST /api/resume,
GET /api/sessions) plus health, readiness, and Prometheus metrics endpoints.

Session history is persisted to SQLite (~/.cskin/history.db) by default.
Set DATABASE_URL for PostgreSQL, or CSKIN_HISTORY_DB=disabled to keep
history in memory only.

Examples:
  cskin serve
  cskin serve --port 9090
  MODEL_PROVIDER=gemini cskin serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logging.New()
			ctx = logging.WithLogger(ctx, log)

			log.Info("serve starting", slog.String("provider", os.Getenv("MODEL_PROVIDER")))

			// Setup Langfuse tracing. Opt-in, no-op if keys are absent.
			handler, flush, ok := tracing.Setup()
			if ok {
				callbacks.AppendGlobalHandlers(handler)
				defer flush()
				log.Info("langfuse tracing enabled")
			} else {
				log.Info("langfuse tracing disabled", slog.String("reason", "LANGFUSE_PUBLIC_KEY not set"))
			}

			providerCfg := provider.ConfigFromEnv()
			chatModel, err := provider.New(ctx, providerCfg)
			if err != nil {
				return fmt.Errorf("serve: failed to initialise model provider: %w", err)
			}
			log.Info("provider initialised", slog.String("provider", string(providerCfg.Backend)))

			if err := embedder.ValidateForRetrieval(log); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			emb, err := embedder.NewFromEnv(ctx)
			if err != nil {
				return fmt.Errorf("serve: failed to initialise embedder: %w", err)
			}

			store, err := buildVectorStore(ctx)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer store.Close()

			retriever, err := buildRetriever(emb, store)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			// Open the session history store. CSKIN_HISTORY_DB overrides the
			// default SQLite path (~/.cskin/history.db); DATABASE_URL selects
			// PostgreSQL instead. Set CSKIN_HISTORY_DB=disabled for in-memory.
			opts := session.Options{
				DatabaseURL: os.Getenv("DATABASE_URL"),
				DBPath:      os.Getenv("CSKIN_HISTORY_DB"),
				MaxTurns:    getEnvInt("SESSION_MAX_TURNS", -1),
			}
			switch {
			case opts.DBPath == "disabled":
				opts.DBPath = ""
				log.Info("history: in-memory only via CSKIN_HISTORY_DB=disabled")
			case opts.DatabaseURL == "" && opts.DBPath == "":
				defaultPath, pathErr := session.DefaultDBPath()
				if pathErr != nil {
					log.Warn("history: could not resolve default DB path, using in-memory store", slog.Any("error", pathErr))
				} else {
					opts.DBPath = defaultPath
				}
			}
			sessionStore, err := session.NewStore(ctx, opts)
			if err != nil {
				return fmt.Errorf("serve: failed to open session store: %w", err)
			}
			defer func() { _ = sessionStore.Close() }()

			asst := assistant.New(assistant.Config{
				Model:            chatModel,
				Normalizer:       language.New(chatModel),
				Retriever:        retriever,
				Sessions:         sessionStore,
				Tone:             os.Getenv("CSKIN_TONE"),
				MaxContextTokens: getEnvInt("MODEL_MAX_CONTEXT_TOKENS", 0),
			})

			pingers := []server.Pinger{
				server.NewQdrantPinger(store),
				server.NewLLMPinger(chatModel, string(providerCfg.Backend)),
			}

			srv, err := server.New(asst, sessionStore, &server.Config{
				Host:    host,
				Port:    port,
				Logger:  log,
				Pingers: pingers,
				APIKey:  os.Getenv("CSKIN_API_KEY"),
			})
			if err != nil {
				return fmt.Errorf("serve: failed to create server: %w", err)
			}

			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host address to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "TCP port to listen on")

	return cmd
}
