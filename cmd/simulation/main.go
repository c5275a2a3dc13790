// Command simulation runs one Q&A session from the command line and
// prints the transcript. Useful for trying document sets without the
// HTTP surface.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/fatih/color"
	"github.com/google/uuid"

	"shareholder-qa-sim/internal/config"
	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/extract"
	"shareholder-qa-sim/pkg/llm/factory"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/simulation"
	"shareholder-qa-sim/pkg/vocabulary"
)

func main() {
	maxTurns := flag.Int("turns", 1, "number of question/answer turns")
	questionsArg := flag.String("questions", "", "expected questions, separated by ';'")
	exportPath := flag.String("export", "", "write the transcript to this file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: simulation [flags] document.pdf [document2.txt ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := log.New(os.Stderr, "[sim] ", log.LstdFlags)

	documents, err := loadDocuments(flag.Args())
	if err != nil {
		log.Fatalf("load documents: %v", err)
	}

	provider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.AzureEndpoint,
		cfg.Ai.AzureDeployment,
		cfg.Ai.AzureAPIKey,
	)
	if err != nil {
		log.Fatalf("llm provider: %v", err)
	}

	var expected []string
	if *questionsArg != "" {
		for _, q := range strings.Split(*questionsArg, ";") {
			if q = strings.TrimSpace(q); q != "" {
				expected = append(expected, q)
			}
		}
	}

	vocab := vocabulary.Default()
	scorer := relevance.NewScorer(vocab)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	registry := simulation.NewRegistry(
		provider,
		vocab,
		scorer,
		simulation.Config{MaxTurns: *maxTurns},
		dialogue.ResponderConfig{Mode: dialogue.ContextMode(cfg.Simulation.ContextMode)},
		pubSub,
		logger,
	)

	engine := registry.Create(documents, expected)
	if err := engine.Start(); err != nil {
		log.Fatalf("start session: %v", err)
	}

	session := waitForCompletion(engine, 5*time.Minute)
	printTranscript(session)

	if *exportPath != "" {
		transcript := simulation.ExportTranscript(session)
		if err := os.WriteFile(*exportPath, []byte(transcript), 0o644); err != nil {
			log.Fatalf("write transcript: %v", err)
		}
		fmt.Printf("\ntranscript written to %s\n", *exportPath)
	}
}

func loadDocuments(paths []string) ([]model.Document, error) {
	var documents []model.Document
	vocab := vocabulary.Default()
	scorer := relevance.NewScorer(vocab)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		mimeType := extract.MimeFromFilename(path)
		result, err := extract.FromBytes(content, mimeType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		documents = append(documents, model.Document{
			Id:           uuid.New(),
			OriginalName: filepath.Base(path),
			MimeType:     mimeType,
			Size:         int64(len(content)),
			PageCount:    result.PageCount,
			TextContent:  result.Text,
			Topics:       scorer.ExtractTopics(result.Text, 5),
			UploadedAt:   time.Now(),
		})
	}
	return documents, nil
}

func waitForCompletion(engine *simulation.Engine, timeout time.Duration) model.Session {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		session := engine.Snapshot()
		if session.Status.Terminal() {
			return session
		}
		time.Sleep(200 * time.Millisecond)
	}
	engine.End()
	return engine.Snapshot()
}

func printTranscript(session model.Session) {
	questionerColor := color.New(color.FgCyan, color.Bold)
	responderColor := color.New(color.FgGreen, color.Bold)
	timeColor := color.New(color.Faint)

	fmt.Printf("session %s (%s)\n\n", session.Id, session.Status)

	for _, msg := range session.Messages {
		speaker := questionerColor
		if msg.Role == model.RoleResponder {
			speaker = responderColor
		}
		speaker.Printf("%s ", msg.Role.SpeakerLabel())
		timeColor.Printf("(%s)\n", msg.Timestamp.Format("15:04:05"))
		fmt.Println(msg.Content)
		fmt.Println()
	}
}
