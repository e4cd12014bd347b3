// Package answer orchestrates the answer pipeline: classification, token
// budgeting, retrieval, chunk selection, prompt assembly, generation,
// confidence assessment and fallback dispatch. Every stage has a safe
// default, so no internal error ever escapes to the caller as an exception.
package answer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/config"
	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/pipeline/budget"
	"github.com/ragdesk/answer-backend/internal/pipeline/classify"
	"github.com/ragdesk/answer-backend/internal/pipeline/confidence"
	"github.com/ragdesk/answer-backend/internal/pipeline/fallback"
	"github.com/ragdesk/answer-backend/internal/pipeline/selection"
	"github.com/ragdesk/answer-backend/internal/pkg/logger"
	"github.com/ragdesk/answer-backend/internal/pkg/redact"
)

const (
	defaultTemperature = 0.3
	retrievalStrategy  = "hybrid"

	// sideCallTimeout bounds the detached audit and conversation writes.
	sideCallTimeout = 5 * time.Second

	systemAcknowledgement = "ok"
)

// Usecase sequences the pipeline stages around the two external calls.
type Usecase struct {
	classifier  *classify.Classifier
	clsCache    *classify.Cache
	budgetMgr   *budget.Manager
	selector    *selection.Selector
	assessor    *confidence.Assessor
	dispatcher  *fallback.Dispatcher
	retrieval   RetrievalConnector
	generation  GenerationConnector
	auditRepo   AuditRepository
	convRepo    ConversationRepository
	cfg         config.PipelineConfig
	domainTerms []string
	logger      *zap.Logger
}

func NewUsecase(
	classifier *classify.Classifier,
	clsCache *classify.Cache,
	budgetMgr *budget.Manager,
	selector *selection.Selector,
	assessor *confidence.Assessor,
	dispatcher *fallback.Dispatcher,
	retrievalConn RetrievalConnector,
	generationConn GenerationConnector,
	auditRepo AuditRepository,
	convRepo ConversationRepository,
	cfg config.PipelineConfig,
	domainTerms []string,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		classifier:  classifier,
		clsCache:    clsCache,
		budgetMgr:   budgetMgr,
		selector:    selector,
		assessor:    assessor,
		dispatcher:  dispatcher,
		retrieval:   retrievalConn,
		generation:  generationConn,
		auditRepo:   auditRepo,
		convRepo:    convRepo,
		cfg:         cfg,
		domainTerms: domainTerms,
		logger:      logger,
	}
}

// GenerateResponse answers one query. It always returns a usable response
// for a valid request; pipeline failures surface as fallback responses, not
// errors. The only error returned is the caller's own context cancellation.
func (uc *Usecase) GenerateResponse(ctx context.Context, req *entity.AnswerRequest, meta entity.RequestMeta) (*entity.AnswerResponse, error) {
	start := time.Now()
	ctx = logger.WithSession(ctx, req.SessionID)

	cls := uc.classifyWithCache(ctx, req, meta)
	ctxzap.Info(ctx, "query classified",
		zap.String("kind", string(cls.Kind)),
		zap.String("complexity", string(cls.Complexity)),
		zap.String("reasoning", cls.Reasoning),
	)

	if cls.Kind == entity.QueryKindSystem {
		resp := uc.systemResponse(cls)
		uc.writeAudit(ctx, req, cls, resp, nil, 0, start)
		return resp, nil
	}

	history, historyKnown := uc.loadHistory(ctx, req.SessionID)

	alloc := uc.budgetMgr.Calculate(cls, uc.budgetContext(req, meta, history, historyKnown))
	ctxzap.Info(ctx, "budget allocated",
		zap.Int("total", alloc.Total),
		zap.Int("chunks", alloc.Chunks),
		zap.Strings("adjustments", alloc.AppliedAdjustments),
	)

	var warnings []string
	var candidates []entity.CandidateChunk
	var reportedConfidence float64

	retrieveCtx, cancelRetrieve := uc.stageContext(ctx, "retrieve")
	retrieved, err := uc.retrieval.Retrieve(retrieveCtx, &entity.RetrievalRequest{
		Query:               req.Query,
		ConversationContext: historyContents(history),
		Options: entity.RetrievalOptions{
			MaxResults: uc.maxResults(req, cls),
			Strategy:   retrievalStrategy,
			Threshold:  uc.cfg.MinSimilarity,
		},
	})
	cancelRetrieve()
	switch {
	case err != nil:
		// Candidates stay nil: "retrieval unknown", scored neutrally and
		// distinct from "searched and found nothing".
		warnings = append(warnings, "document retrieval was unavailable; the answer is not grounded in source passages")
	default:
		candidates = retrieved.Chunks
		reportedConfidence = retrieved.ConfidenceScore
	}

	selected := uc.selector.Select(candidates, selection.Constraints{
		TokenBudget: alloc.Chunks,
		MaxChunks:   cls.MaxChunks,
		Complexity:  cls.Complexity,
	})
	ctxzap.Info(ctx, "chunks selected",
		zap.Int("evaluated", selected.EvaluatedCount),
		zap.Int("selected", len(selected.SelectedChunks)),
		zap.Int("dropped", selected.DroppedCount),
		zap.Int("estimated_tokens", selected.EstimatedTokens),
	)

	var prompt *entity.AssembledPrompt
	var gen *entity.Generation

	// An explicitly empty retrieval means there is nothing to answer from;
	// the no-sources fallback replaces the message anyway, so the model
	// call is skipped entirely.
	skipGeneration := err == nil && candidates != nil && len(candidates) == 0

	if !skipGeneration {
		generateCtx, cancelGenerate := uc.stageContext(ctx, "generate")
		prompt, gen, err = uc.generate(generateCtx, req, history, selected.SelectedChunks, alloc)
		cancelGenerate()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			resp := uc.dispatcher.Generic(entity.AnswerResponse{
				QueryClassification: cls,
				BudgetAllocation:    alloc,
				Warnings:            warnings,
			})
			uc.finish(ctx, req, cls, alloc, &resp, nil, nil, start)
			return &resp, nil
		}
	}

	assessment := uc.assessor.Assess(
		confidence.RetrievalInput{Chunks: candidates, ReportedConfidence: reportedConfidence},
		contentInput(gen, prompt, selected.SelectedChunks),
		confidence.ContextInput{
			Query:        req.Query,
			Complexity:   cls.Complexity,
			HistoryTurns: len(history),
			DomainTerms:  uc.domainTerms,
		},
		generationInput(gen, req.Options),
	)
	ctxzap.Info(ctx, "confidence assessed",
		zap.Float64("overall", assessment.Overall),
		zap.String("level", string(assessment.Level)),
		zap.Int("issue_count", len(assessment.Issues)),
	)

	draft := entity.AnswerResponse{
		Confidence:          assessment.Overall,
		ConfidenceLevel:     assessment.Level,
		Grade:               assessment.Grade,
		Sources:             sourcesFrom(selected.SelectedChunks),
		TokenOptimization:   tokenOptimization(alloc, gen, selected),
		QueryClassification: cls,
		BudgetAllocation:    alloc,
		Warnings:            warnings,
	}
	if gen != nil {
		draft.Message = gen.Content
	}
	if prompt != nil {
		draft.Citations = prompt.Citations
	}

	final := uc.dispatcher.Dispatch(assessment.Issues, draft)
	if final.FallbackStrategy != "" {
		ctxzap.Info(ctx, "fallback strategy applied",
			zap.String("strategy", final.FallbackStrategy),
		)
	}

	uc.finish(ctx, req, cls, alloc, &final, gen, assessment.Issues, start)
	return &final, nil
}

// UtilizationReport exposes the accumulated budget statistics and the
// advisory tuning recommendations derived from them.
func (uc *Usecase) UtilizationReport() ([]budget.UtilizationSnapshot, []string) {
	stats := uc.budgetMgr.Stats()
	return stats.Snapshot(), stats.Recommendations()
}

func (uc *Usecase) classifyWithCache(ctx context.Context, req *entity.AnswerRequest, meta entity.RequestMeta) entity.Classification {
	reqCtx := classify.RequestContext{UserAgent: meta.UserAgent, Timestamp: meta.Timestamp}

	key := uc.classifier.CacheKey(req.Query, req.SessionID, reqCtx)
	if cls, ok := uc.clsCache.Get(key); ok {
		ctxzap.Debug(ctx, "classification cache hit", zap.String("cache_key", key))
		return cls
	}

	cls := uc.classifier.Classify(req.Query, req.SessionID, reqCtx)
	uc.clsCache.Put(cls)
	return cls
}

func (uc *Usecase) systemResponse(cls entity.Classification) *entity.AnswerResponse {
	return &entity.AnswerResponse{
		Message:             systemAcknowledgement,
		Confidence:          1.0,
		ConfidenceLevel:     entity.ConfidenceHigh,
		TokenOptimization:   entity.TokenOptimization{},
		QueryClassification: cls,
		BudgetAllocation:    entity.BudgetAllocation{},
	}
}

// loadHistory reads recent turns for budgeting, retrieval context and
// prompt assembly. Failures are tolerated: the pipeline proceeds as if the
// history were unknown.
func (uc *Usecase) loadHistory(ctx context.Context, sessionID string) ([]entity.ConversationTurn, bool) {
	if sessionID == "" {
		return nil, false
	}

	history, err := uc.convRepo.RecentTurns(ctx, sessionID, uc.cfg.MaxHistoryTurns)
	if err != nil {
		ctxzap.Warn(ctx, "failed to load conversation history", zap.Error(err))
		return nil, false
	}
	return history, true
}

func (uc *Usecase) budgetContext(req *entity.AnswerRequest, meta entity.RequestMeta, history []entity.ConversationTurn, historyKnown bool) budget.Context {
	bctx := budget.Context{
		ExpectedConfidence: req.Options.ExpectedConfidence,
		QueryLength:        len(req.Query),
		Domain:             req.Options.Domain,
		UserTier:           req.Options.UserTier,
		Timestamp:          meta.Timestamp,
	}
	if historyKnown {
		turns := len(history)
		bctx.HistoryTurns = &turns
	}
	return bctx
}

// stageContext tags the context with the stage name and applies the
// per-stage deadline when one is configured.
func (uc *Usecase) stageContext(ctx context.Context, stage string) (context.Context, context.CancelFunc) {
	ctx = logger.WithStage(ctx, stage)
	if uc.cfg.StageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.cfg.StageTimeout)
}

func (uc *Usecase) maxResults(req *entity.AnswerRequest, cls entity.Classification) int {
	if req.Options.MaxResults > 0 {
		return req.Options.MaxResults
	}
	// Over-fetch so selection has something to rank and drop.
	return cls.MaxChunks * 2
}

func (uc *Usecase) generate(
	ctx context.Context,
	req *entity.AnswerRequest,
	history []entity.ConversationTurn,
	chunks []entity.CandidateChunk,
	alloc entity.BudgetAllocation,
) (*entity.AssembledPrompt, *entity.Generation, error) {
	prompt, err := uc.generation.AssemblePrompt(ctx, &entity.AssemblePromptRequest{
		Query:   req.Query,
		Chunks:  chunks,
		History: history,
		Options: entity.PromptOptions{MaxHistory: uc.cfg.MaxHistoryTurns},
	})
	if err != nil {
		return nil, nil, err
	}

	temperature := defaultTemperature
	if req.Options.Temperature != nil {
		temperature = *req.Options.Temperature
	}

	gen, err := uc.generation.Generate(ctx, &entity.GenerateRequest{
		Prompt: *prompt,
		Options: entity.GenerationOptions{
			Model:       req.Options.Model,
			MaxTokens:   alloc.Response,
			Temperature: temperature,
		},
	})
	if err != nil {
		return prompt, nil, err
	}

	return prompt, gen, nil
}

// finish records utilization and fires the side calls. Skipped entirely
// when the caller already went away, so cancellation cannot leave partial
// statistics behind.
func (uc *Usecase) finish(
	ctx context.Context,
	req *entity.AnswerRequest,
	cls entity.Classification,
	alloc entity.BudgetAllocation,
	resp *entity.AnswerResponse,
	gen *entity.Generation,
	issues []entity.Issue,
	start time.Time,
) {
	if ctx.Err() != nil {
		return
	}

	used := 0
	if gen != nil {
		used = gen.Usage.Total()
	}
	uc.budgetMgr.Observe(cls.Complexity, alloc.Total, used)

	uc.writeAudit(ctx, req, cls, resp, issueTypes(issues), used, start)
	uc.appendConversation(ctx, req, resp)
}

// writeAudit persists the audit row on a detached context. Failures are
// logged and never reach the response path.
func (uc *Usecase) writeAudit(
	ctx context.Context,
	req *entity.AnswerRequest,
	cls entity.Classification,
	resp *entity.AnswerResponse,
	issueTypes []string,
	tokensUsed int,
	start time.Time,
) {
	record := &entity.AuditRecord{
		ID:               uuid.New().String(),
		SessionID:        req.SessionID,
		Query:            redact.Query(req.Query),
		Kind:             cls.Kind,
		Complexity:       cls.Complexity,
		BudgetTotal:      resp.BudgetAllocation.Total,
		ChunksSelected:   resp.TokenOptimization.ChunksSelected,
		ChunksDropped:    resp.TokenOptimization.ChunksDropped,
		TokensUsed:       tokensUsed,
		Confidence:       resp.Confidence,
		ConfidenceLevel:  resp.ConfidenceLevel,
		IssueTypes:       issueTypes,
		FallbackStrategy: resp.FallbackStrategy,
		IsError:          resp.IsError,
		LatencyMs:        time.Since(start).Milliseconds(),
		CreatedAt:        time.Now().UTC(),
	}

	bgCtx := detach(ctx)
	go func() {
		callCtx, cancel := context.WithTimeout(bgCtx, sideCallTimeout)
		defer cancel()

		if err := uc.auditRepo.Create(callCtx, record); err != nil {
			ctxzap.Warn(callCtx, "failed to write audit record", zap.Error(err))
		}
	}()
}

// appendConversation stores the exchanged turns with the same side-call
// tolerance as the audit write.
func (uc *Usecase) appendConversation(ctx context.Context, req *entity.AnswerRequest, resp *entity.AnswerResponse) {
	if req.SessionID == "" {
		return
	}

	now := time.Now().UTC()
	turns := []entity.ConversationTurn{
		{
			ID:        uuid.New().String(),
			SessionID: req.SessionID,
			Role:      entity.TurnRoleUser,
			Content:   req.Query,
			CreatedAt: now,
		},
		{
			ID:        uuid.New().String(),
			SessionID: req.SessionID,
			Role:      entity.TurnRoleAssistant,
			Content:   resp.Message,
			CreatedAt: now,
		},
	}

	bgCtx := detach(ctx)
	go func() {
		callCtx, cancel := context.WithTimeout(bgCtx, sideCallTimeout)
		defer cancel()

		if err := uc.convRepo.Append(callCtx, turns...); err != nil {
			ctxzap.Warn(callCtx, "failed to append conversation turns", zap.Error(err))
		}
	}()
}

// detach keeps the request-scoped logger but drops the caller's deadline
// and cancellation, so side calls outlive the request.
func detach(ctx context.Context) context.Context {
	return ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx))
}
