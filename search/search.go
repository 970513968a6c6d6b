package search

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/revelaction/saf/passive"
	"github.com/revelaction/saf/saf"
	"github.com/revelaction/saf/storage"
)

const defaultWorkers = 4

// Result holds the passive constructions found in one document.
type Result struct {
	DocId   int             `json:"doc_id"`
	Title   string          `json:"title"`
	Matches []passive.Match `json:"matches"`

	// Store is the indexed document, for rendering.
	Store *saf.Store `json:"-"`
}

// Search runs a passive rule over the documents of a repository.
type Search struct {
	rewriter *passive.Rewriter
	repo     storage.DocReader
	docID    *int
	workers  int
	log      zerolog.Logger
}

// New creates a new Search instance with the given rule and repository.
func New(rule passive.Rule, dr storage.DocReader) *Search {
	return &Search{
		rewriter: passive.NewRewriter(rule),
		repo:     dr,
		workers:  defaultWorkers,
		log:      zerolog.Nop(),
	}
}

// WithDocID restricts the search to a single document ID.
// If set, the document is read directly instead of selecting candidates
// by lemma (FindCandidates).
func (s *Search) WithDocID(id int) *Search {
	s.docID = &id
	return s
}

// WithWorkers sets the number of documents matched concurrently.
func (s *Search) WithWorkers(n int) *Search {
	if n > 0 {
		s.workers = n
	}
	return s
}

func (s *Search) WithLogger(l zerolog.Logger) *Search {
	s.log = l
	return s
}

// Run matches every candidate document and calls onResult, in document id
// order, for each document with at least one match. Documents are read and
// matched concurrently; the first error cancels the rest.
func (s *Search) Run(ctx context.Context, onResult func(Result) error) error {
	ids, err := s.candidates()
	if err != nil {
		return err
	}

	s.log.Debug().Int("candidates", len(ids)).Int("workers", s.workers).Msg("search started")

	results := make([]Result, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := s.match(id)
			if err != nil {
				return err
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, res := range results {
		if len(res.Matches) == 0 {
			continue
		}

		if err := onResult(res); err != nil {
			return err
		}
	}

	return nil
}

func (s *Search) candidates() ([]int, error) {
	if s.docID != nil {
		return []int{*s.docID}, nil
	}

	ids, err := s.repo.FindCandidates(s.rewriter.Rule().LemmaSets())
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	return ids, nil
}

func (s *Search) match(id int) (Result, error) {
	doc, err := s.repo.Read(id)
	if err != nil {
		return Result{}, err
	}

	store, err := saf.NewStore(doc.Document)
	if err != nil {
		return Result{}, fmt.Errorf("doc %d (%s): %w", id, doc.Title, err)
	}

	matches := s.rewriter.Matches(store)
	s.log.Debug().Int("doc", id).Int("matches", len(matches)).Msg("doc matched")

	return Result{
		DocId:   id,
		Title:   doc.Title,
		Matches: matches,
		Store:   store,
	}, nil
}
