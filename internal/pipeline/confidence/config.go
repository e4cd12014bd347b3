package confidence

// Config fixes every weight, target and threshold the assessor uses. The
// weight tables are hand-tuned operating defaults, not derived constants;
// deployments may override any of them.
type Config struct {
	// Component weights. Must sum to 1.0 for Overall to stay in [0,1].
	RetrievalWeight  float64
	ContentWeight    float64
	ContextWeight    float64
	GenerationWeight float64

	Retrieval  RetrievalWeights
	Content    ContentWeights
	Context    ContextWeights
	Generation GenerationWeights

	// Level thresholds, checked top down.
	HighThreshold   float64
	MediumThreshold float64
	LowThreshold    float64

	// Grade thresholds for the finer six-tier reading, checked top down.
	ExcellentGrade  float64
	GoodGrade       float64
	AcceptableGrade float64
	UncertainGrade  float64
	PoorGrade       float64

	// MinOverall is the floor below which the assessment raises the
	// top-severity system issue.
	MinOverall float64
}

// RetrievalWeights scores how well retrieval supported the answer.
type RetrievalWeights struct {
	TopSimilarity   float64
	MeanSimilarity  float64
	CountAdequacy   float64
	SourceQuality   float64
	SourceDiversity float64

	// TargetChunks and TargetSources normalize the adequacy and diversity
	// sub-factors.
	TargetChunks  int
	TargetSources int
}

// ContentWeights scores the generated answer text itself.
type ContentWeights struct {
	CitationCount    float64
	CitationValidity float64
	LengthAdequacy   float64
	Coherence        float64

	TargetCitations int
	// TargetLength is the response length (characters) considered fully
	// adequate.
	TargetLength int
	// MinCitationValidity is the validated-fraction floor below which the
	// citation-quality issue fires.
	MinCitationValidity float64
}

// ContextWeights scores how answerable the query was in its context.
type ContextWeights struct {
	QueryClarity    float64
	ComplexityFit   float64
	DomainOverlap   float64
	HistoryPresence float64

	// MinClarity is the clarity floor below which the ambiguity issue fires.
	MinClarity float64
	// TargetDomainTerms normalizes the domain-overlap sub-factor.
	TargetDomainTerms int
}

// GenerationWeights scores the generation call's own metadata.
type GenerationWeights struct {
	ModelTier    float64
	LengthSanity float64
	FinishReason float64
	TokenRatio   float64

	// MinReasonScore is the finish-reason floor below which the
	// incomplete-response issue fires. With stop=1.0 and length=0.6, any
	// abnormal stop trips it.
	MinReasonScore float64

	// Sanity window for the completion-to-prompt token ratio.
	MinTokenRatio float64
	MaxTokenRatio float64

	// Sanity window for response length in characters.
	MinLength int
	MaxLength int
}

func DefaultConfig() Config {
	return Config{
		RetrievalWeight:  0.35,
		ContentWeight:    0.25,
		ContextWeight:    0.20,
		GenerationWeight: 0.20,

		Retrieval: RetrievalWeights{
			TopSimilarity:   0.4,
			MeanSimilarity:  0.2,
			CountAdequacy:   0.15,
			SourceQuality:   0.15,
			SourceDiversity: 0.1,
			TargetChunks:    5,
			TargetSources:   3,
		},

		Content: ContentWeights{
			CitationCount:       0.3,
			CitationValidity:    0.3,
			LengthAdequacy:      0.2,
			Coherence:           0.2,
			TargetCitations:     3,
			TargetLength:        500,
			MinCitationValidity: 0.7,
		},

		Context: ContextWeights{
			QueryClarity:      0.3,
			ComplexityFit:     0.2,
			DomainOverlap:     0.3,
			HistoryPresence:   0.2,
			MinClarity:        0.5,
			TargetDomainTerms: 2,
		},

		Generation: GenerationWeights{
			ModelTier:      0.4,
			LengthSanity:   0.2,
			FinishReason:   0.2,
			TokenRatio:     0.2,
			MinReasonScore: 0.8,
			MinTokenRatio:  0.05,
			MaxTokenRatio:  3.0,
			MinLength:      50,
			MaxLength:      4000,
		},

		HighThreshold:   0.8,
		MediumThreshold: 0.6,
		LowThreshold:    0.4,

		ExcellentGrade:  0.90,
		GoodGrade:       0.75,
		AcceptableGrade: 0.60,
		UncertainGrade:  0.45,
		PoorGrade:       0.30,

		MinOverall: 0.25,
	}
}
