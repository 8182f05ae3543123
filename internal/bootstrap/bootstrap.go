package bootstrap

import (
	"context"
	"fmt"

	"github.com/kirillkom/docqa/internal/config"
	"github.com/kirillkom/docqa/internal/core/domain"
	"github.com/kirillkom/docqa/internal/core/ports"
	"github.com/kirillkom/docqa/internal/core/usecase"
	"github.com/kirillkom/docqa/internal/infrastructure/chunking"
	"github.com/kirillkom/docqa/internal/infrastructure/extractor"
	"github.com/kirillkom/docqa/internal/infrastructure/keyword/bleveindex"
	"github.com/kirillkom/docqa/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/docqa/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docqa/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docqa/internal/infrastructure/resilience"
	"github.com/kirillkom/docqa/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/docqa/internal/infrastructure/vector/qdrant"
	"github.com/kirillkom/docqa/internal/infrastructure/websearch/serper"
)

// App holds the wired object graph shared by the API and worker binaries.
type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	QA        ports.QuestionAnswerer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	keywordIndex, err := bleveindex.Open(cfg.BlevePath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("open keyword index: %w", err)
	}

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		_ = keywordIndex.Close()
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load policy: %w", err)
	}

	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaJudgeModel, cfg.OllamaEmbedModel, executor)
	generator := ollama.NewGenerator(ollamaClient)
	judge := ollama.NewJudge(ollamaClient)
	embedder := ollama.NewEmbedder(ollamaClient)

	vectorDB := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)
	vectorSearcher := qdrant.NewSearcher(embedder, vectorDB)
	web := serper.New(cfg.SerperAPIKey, cfg.WebMaxResults)

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	textExtractor := extractor.New(storage)

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, chunker, embedder, vectorDB, keywordIndex)

	retriever := usecase.NewHybridRetriever(keywordIndex, vectorSearcher, cfg.RRFConstant, cfg.SimilarityFloor)
	grader := usecase.NewEvidenceGrader(judge)
	verifier := usecase.NewGroundednessVerifier(judge, policy.RefusalPhrases)
	planner := usecase.NewResearchPlanner(generator)
	synthesizer := usecase.NewResearchSynthesizer(generator)
	qa := usecase.NewAgentController(retriever, grader, verifier, planner, synthesizer, generator, web, domain.WorkflowLimits{
		TopK:            cfg.RetrievalTopK,
		MaxRetries:      cfg.MaxRetries,
		SimilarityFloor: cfg.SimilarityFloor,
		RRFConstant:     cfg.RRFConstant,
		WebMaxResults:   cfg.WebMaxResults,
	})

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QA:        qa,

		closeFn: func() {
			_ = keywordIndex.Close()
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
