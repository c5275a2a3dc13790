package bootstrap

import (
	"log"

	"shareholder-qa-sim/internal/config"
	"shareholder-qa-sim/internal/controller"
	"shareholder-qa-sim/internal/pkg/logger"
	"shareholder-qa-sim/internal/repository/memory"
	"shareholder-qa-sim/internal/service"
	"shareholder-qa-sim/internal/websocket"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/events"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/llm/factory"
	pkgNats "shareholder-qa-sim/pkg/nats"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/simulation"
	"shareholder-qa-sim/pkg/vocabulary"
	"shareholder-qa-sim/pkg/voice"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	SessionController  controller.ISessionController
	VoiceController    controller.IVoiceController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Shared facades, exposed for tooling and shutdown
	Registry      *simulation.Registry
	SysLogger     logger.ILogger
	NatsPublisher *pkgNats.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	sessionLogger := logger.NewIsolatedLogger(cfg.App.SessionLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Dialogue Intelligence
	llmLogger := log.New(log.Writer(), "[llm] ", log.LstdFlags)
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.AzureEndpoint,
		cfg.Ai.AzureDeployment,
		cfg.Ai.AzureAPIKey,
	)
	if err != nil {
		log.Printf("Warning: LLM provider unavailable (%v), falling back to template responses", err)
		llmProvider = llm.Disabled()
	}

	vocab := vocabulary.Default()
	scorer := relevance.NewScorer(vocab)

	registry := simulation.NewRegistry(
		llmProvider,
		vocab,
		scorer,
		simulation.Config{
			MaxTurns:      cfg.Simulation.MaxTurns,
			AnswerDelay:   cfg.Simulation.AnswerDelay(),
			FollowUpDelay: cfg.Simulation.FollowUpDelay(),
		},
		dialogue.ResponderConfig{
			Mode: dialogue.ContextMode(cfg.Simulation.ContextMode),
		},
		pubSub,
		llmLogger,
	)

	// 4. Optional NATS mirror
	var natsPublisher *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPublisher, err = pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "NATS mirror disabled", map[string]interface{}{"error": err.Error()})
			natsPublisher = nil
		}
	}

	// 5. WebSockets
	hub := websocket.NewHub(sysLogger)
	go hub.Run()

	// 6. Repositories & Services
	documentRepo := memory.NewDocumentRepository()
	documentService := service.NewDocumentService(documentRepo, scorer, vocab, sysLogger)
	simulationService := service.NewSimulationService(registry, documentRepo, sysLogger)
	voiceService := service.NewVoiceService(
		voice.NewAzureSynthesizer(cfg.Speech.AzureKey, cfg.Speech.AzureRegion),
		sysLogger,
	)

	consumerService := service.NewConsumerService(pubSub, events.Topic, sessionLogger, hub, natsPublisher)

	// 7. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		SessionController:  controller.NewSessionController(simulationService),
		VoiceController:    controller.NewVoiceController(voiceService),
		ConsumerService:    consumerService,
		WebSocketHub:       hub,
		Registry:           registry,
		SysLogger:          sysLogger,
		NatsPublisher:      natsPublisher,
	}
}
