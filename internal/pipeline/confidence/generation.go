package confidence

import (
	"strings"

	"github.com/ragdesk/answer-backend/internal/entity"
)

// Model-tier substrings, strongest first. The first match wins.
var modelTiers = []struct {
	fragment string
	score    float64
}{
	{"gpt-4", 0.9},
	{"gpt-5", 0.9},
	{"opus", 0.9},
	{"sonnet", 0.85},
	{"gpt-3.5", 0.7},
	{"mini", 0.7},
	{"haiku", 0.7},
	{"instant", 0.6},
}

// scoreGeneration rates the generation call's own metadata: model strength,
// whether the response length and token usage look sane, and whether the
// model stopped of its own accord. A zero-value input means generation never
// ran and scores neutral without raising issues.
func (a *Assessor) scoreGeneration(in GenerationInput) entity.ComponentScore {
	w := a.cfg.Generation

	if in.absent() {
		return entity.ComponentScore{
			Score: clamp01(0.5 * (w.ModelTier + w.LengthSanity + w.FinishReason + w.TokenRatio)),
			Subfactors: map[string]float64{
				"model_tier":    0.5,
				"length_sanity": 0.5,
				"finish_reason": 0.5,
				"token_ratio":   0.5,
			},
		}
	}

	tier := modelTierScore(in.Model, in.Temperature)
	length := a.lengthSanity(len(in.Content))
	reason := finishReasonScore(in.FinishReason)
	tokens := a.tokenRatioSanity(in.Usage)

	score := clamp01(w.ModelTier*tier +
		w.LengthSanity*length +
		w.FinishReason*reason +
		w.TokenRatio*tokens)

	cs := entity.ComponentScore{
		Score: score,
		Subfactors: map[string]float64{
			"model_tier":    tier,
			"length_sanity": length,
			"finish_reason": reason,
			"token_ratio":   tokens,
		},
	}

	if in.FinishReason != "" && reason < w.MinReasonScore {
		cs.Issues = append(cs.Issues, entity.Issue{
			Type:      entity.IssueIncompleteResponse,
			Severity:  entity.SeverityLow,
			Component: "generation",
			Score:     reason,
		})
	}

	return cs
}

// modelTierScore looks the model up in the tier table and adds a bonus for
// low sampling temperature (more deterministic output reads as more
// reliable). Unknown models score neutral.
func modelTierScore(model string, temperature *float64) float64 {
	score := 0.5
	lower := strings.ToLower(model)
	for _, tier := range modelTiers {
		if strings.Contains(lower, tier.fragment) {
			score = tier.score
			break
		}
	}

	if temperature != nil {
		switch {
		case *temperature <= 0.3:
			score += 0.1
		case *temperature >= 1.0:
			score -= 0.1
		}
	}

	return clamp01(score)
}

func (a *Assessor) lengthSanity(length int) float64 {
	w := a.cfg.Generation
	switch {
	case length == 0:
		return 0
	case length < w.MinLength:
		return clamp01(float64(length) / float64(w.MinLength))
	case length > w.MaxLength:
		return 0.7
	default:
		return 1.0
	}
}

func finishReasonScore(reason string) float64 {
	switch reason {
	case entity.FinishReasonStop:
		return 1.0
	case entity.FinishReasonLength:
		return 0.6
	case "":
		return 0.5
	default:
		return 0.3
	}
}

// tokenRatioSanity checks that the completion-to-prompt token ratio sits in
// a plausible band. Missing usage scores neutral.
func (a *Assessor) tokenRatioSanity(usage entity.TokenUsage) float64 {
	if usage.PromptTokens <= 0 {
		return 0.5
	}
	ratio := float64(usage.CompletionTokens) / float64(usage.PromptTokens)
	if ratio < a.cfg.Generation.MinTokenRatio || ratio > a.cfg.Generation.MaxTokenRatio {
		return 0.3
	}
	return 1.0
}
