// Package tokens estimates token counts for budget accounting. It uses the
// cl100k_base BPE encoding when available and degrades to a character
// heuristic when the encoding data cannot be loaded.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

const (
	encodingName = "cl100k_base"

	// heuristicCharsPerToken approximates English prose when no encoder
	// is available.
	heuristicCharsPerToken = 4
)

type Estimator struct {
	tke *tiktoken.Tiktoken
}

// NewEstimator returns an estimator backed by the cl100k_base encoding.
// If the encoding data is unavailable the estimator still works, using
// the character heuristic for every call.
func NewEstimator() *Estimator {
	tke, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{tke: tke}
}

// Estimate returns the token count for text. Never fails; empty text is 0.
func (e *Estimator) Estimate(text string) int {
	if text == "" {
		return 0
	}

	if e.tke != nil {
		return len(e.tke.Encode(text, nil, nil))
	}

	return (len(text) + heuristicCharsPerToken - 1) / heuristicCharsPerToken
}
