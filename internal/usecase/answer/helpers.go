package answer

import (
	"github.com/ragdesk/answer-backend/internal/entity"
	"github.com/ragdesk/answer-backend/internal/pipeline/confidence"
)

func historyContents(history []entity.ConversationTurn) []string {
	if len(history) == 0 {
		return nil
	}
	out := make([]string, 0, len(history))
	for _, turn := range history {
		out = append(out, turn.Content)
	}
	return out
}

func sourcesFrom(chunks []entity.CandidateChunk) []entity.SourceRef {
	if len(chunks) == 0 {
		return nil
	}
	out := make([]entity.SourceRef, 0, len(chunks))
	for _, chunk := range chunks {
		out = append(out, entity.SourceRef{
			SourceID:   chunk.SourceID,
			ChunkID:    chunk.ID,
			Similarity: chunk.SimilarityScore,
		})
	}
	return out
}

func tokenOptimization(alloc entity.BudgetAllocation, gen *entity.Generation, selected entity.SelectionResult) entity.TokenOptimization {
	opt := entity.TokenOptimization{
		Allocated:      alloc.Total,
		ChunksSelected: len(selected.SelectedChunks),
		ChunksDropped:  selected.DroppedCount,
	}
	if gen != nil {
		opt.Used = gen.Usage.Total()
	}
	if opt.Allocated > 0 {
		opt.UtilizationPct = float64(opt.Used) / float64(opt.Allocated) * 100
	}
	return opt
}

func contentInput(gen *entity.Generation, prompt *entity.AssembledPrompt, chunks []entity.CandidateChunk) confidence.ContentInput {
	in := confidence.ContentInput{Chunks: chunks}
	if gen != nil {
		in.Response = gen.Content
	}
	if prompt != nil {
		in.Citations = prompt.Citations
	}
	return in
}

func generationInput(gen *entity.Generation, opts entity.AnswerOptions) confidence.GenerationInput {
	if gen == nil {
		return confidence.GenerationInput{}
	}
	return confidence.GenerationInput{
		Model:        opts.Model,
		Temperature:  opts.Temperature,
		Content:      gen.Content,
		FinishReason: gen.FinishReason,
		Usage:        gen.Usage,
	}
}

func issueTypes(issues []entity.Issue) []string {
	if len(issues) == 0 {
		return nil
	}
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, string(issue.Type))
	}
	return out
}
