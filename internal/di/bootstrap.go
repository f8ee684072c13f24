package di

import (
	"fmt"

	"github.com/lexihelp/lexi-server/internal/artifact"
	"github.com/lexihelp/lexi-server/internal/config"
	domain "github.com/lexihelp/lexi-server/internal/domain/assist"
	"github.com/lexihelp/lexi-server/internal/gemini"
	"github.com/lexihelp/lexi-server/internal/guard"
	"github.com/lexihelp/lexi-server/internal/handler"
	"github.com/lexihelp/lexi-server/internal/metrics"
	"github.com/lexihelp/lexi-server/internal/server"
	"github.com/lexihelp/lexi-server/internal/session"
	"github.com/lexihelp/lexi-server/internal/tts"
	"github.com/lexihelp/lexi-server/internal/usecase/assessment"
	"github.com/lexihelp/lexi-server/internal/usecase/assist"
)

// InitializeApp builds the application dependency graph.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()

	geminiClient, err := gemini.NewClient(cfg, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	artifactStore, err := artifact.NewStore(cfg.Artifacts.Dir)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}

	ttsClient, err := tts.NewClient(cfg.Eleven, artifactStore, logger)
	if err != nil {
		return nil, fmt.Errorf("tts client: %w", err)
	}

	contentGuard, err := guard.NewGuard(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("guard: %w", err)
	}

	prompts, err := domain.LoadPrompts()
	if err != nil {
		return nil, fmt.Errorf("prompts: %w", err)
	}

	personas, err := domain.LoadPersonas()
	if err != nil {
		return nil, fmt.Errorf("personas: %w", err)
	}

	sessionStore, err := session.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	assistService := assist.NewService(geminiClient, ttsClient, prompts, personas, logger)
	assessmentService := assessment.NewService(geminiClient, sessionStore, logger)

	router := handler.NewRouter(
		cfg,
		logger,
		sessionStore,
		metricsStore,
		handler.NewWritingHandler(assistService, logger),
		handler.NewDocumentsHandler(assistService, logger),
		handler.NewReadingHandler(assistService, logger),
		handler.NewChatHandler(assistService, contentGuard, logger),
		handler.NewSpeechHandler(assistService, artifactStore, logger),
		handler.NewAssessmentHandler(assessmentService, logger),
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, sessionStore), nil
}
