package stat

import (
	"errors"
	"slices"

	"github.com/revelaction/saf/saf"
)

type Handler struct {
	stats Stats
}

type Stats struct {
	NumDocs               int
	NumSentences          int
	NumTokens             int
	NumDependencies       int
	TokensPerSentenceMean int
	TokensPerSentenceDis  map[int]int

	// MaxDepth is the depth of the deepest token of any sentence.
	MaxDepth int

	// MalformedSentences counts the sentences without exactly one root.
	MalformedSentences int

	// Layers counts the documents carrying each optional layer.
	Layers map[string]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{TokensPerSentenceDis: map[int]int{}, Layers: map[string]int{}}
	return &Handler{
		stats: stats,
	}
}

// Aggregate adds the document of the store to the stats.
func (h *Handler) Aggregate(s *saf.Store) {
	h.stats.NumDocs++
	h.stats.NumDependencies += len(s.Dependencies())

	for _, sentence := range s.Sentences() {
		tokens := s.SentenceTokens(sentence)
		h.stats.NumSentences++
		h.stats.NumTokens += len(tokens)
		h.stats.TokensPerSentenceDis[len(tokens)]++

		if _, err := s.Root(sentence); errors.Is(err, saf.ErrMalformedSentence) {
			h.stats.MalformedSentences++
		}

		for _, d := range s.NodeDepths(sentence) {
			h.stats.MaxDepth = max(h.stats.MaxDepth, d)
		}
	}

	for _, l := range Layers(s) {
		h.stats.Layers[l]++
	}

	if h.stats.NumSentences > 0 {
		h.stats.TokensPerSentenceMean = h.stats.NumTokens / h.stats.NumSentences
	}
}

// Layers returns the names of the optional layers present in the document.
func Layers(s *saf.Store) []string {
	var layers []string
	if _, ok := s.Entities(); ok {
		layers = append(layers, "entities")
	}
	if _, ok := s.Coreferences(); ok {
		layers = append(layers, "coreferences")
	}
	if _, ok := s.Codes(); ok {
		layers = append(layers, "codes")
	}
	if _, ok := s.Sources(); ok {
		layers = append(layers, "sources")
	}
	if _, ok := s.Clauses(); ok {
		layers = append(layers, "clauses")
	}
	return layers
}

// Distribution returns the sentence lengths of the distribution, sorted.
func (s Stats) Distribution() []int {
	lengths := make([]int, 0, len(s.TokensPerSentenceDis))
	for l := range s.TokensPerSentenceDis {
		lengths = append(lengths, l)
	}
	slices.Sort(lengths)
	return lengths
}
