package service

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xiaot623/gogo/quantumqa/internal/cache"
	"github.com/xiaot623/gogo/quantumqa/internal/domain"
)

const (
	sourceArxiv = "arxiv"
	sourceWeb   = "web"
)

// retrieve queries both sources in parallel and waits for both. A slow or
// failing source only empties its own results.
func (s *Service) retrieve(ctx context.Context, query string, maxPapers, maxWeb int) ([]domain.PaperRecord, []domain.WebRecord) {
	var (
		papers []domain.PaperRecord
		web    []domain.WebRecord
	)

	var g errgroup.Group
	g.SetLimit(2)
	g.Go(func() error {
		defer s.absorbPanic(sourceArxiv)
		papers = s.searchPapers(ctx, query, maxPapers)
		return nil
	})
	g.Go(func() error {
		defer s.absorbPanic(sourceWeb)
		web = s.searchWeb(ctx, query, maxWeb)
		return nil
	})
	_ = g.Wait()

	if papers == nil {
		papers = []domain.PaperRecord{}
	}
	if web == nil {
		web = []domain.WebRecord{}
	}
	return papers, web
}

// absorbPanic turns a panicking source into an empty result for that source.
// It must be deferred directly in the retrieval goroutine.
func (s *Service) absorbPanic(source string) {
	if r := recover(); r != nil {
		s.log.WithFields(logrus.Fields{
			"source": source,
			"panic":  fmt.Sprint(r),
			"stack":  string(debug.Stack()),
		}).Error("retrieval source panicked")
	}
}

func (s *Service) searchPapers(ctx context.Context, query string, limit int) []domain.PaperRecord {
	return cached(ctx, s, cache.RetrievalKey(sourceArxiv, limit, query), func() []domain.PaperRecord {
		return s.papers.Search(ctx, query, limit)
	})
}

func (s *Service) searchWeb(ctx context.Context, query string, limit int) []domain.WebRecord {
	return cached(ctx, s, cache.RetrievalKey(sourceWeb, limit, query), func() []domain.WebRecord {
		return s.web.Search(ctx, query, limit)
	})
}

// cached serves fetch through the retrieval cache. Cache errors count as
// misses and empty results are never stored.
func cached[T any](ctx context.Context, s *Service, key string, fetch func() []T) []T {
	if s.cache == nil {
		return fetch()
	}
	log := s.log.WithField("cache_key", key)

	var out []T
	hit, err := s.cache.GetJSON(ctx, key, &out)
	if err != nil {
		log.WithError(err).Warn("cache read failed")
	} else if hit {
		log.Debug("retrieval cache hit")
		return out
	}

	out = fetch()
	if len(out) > 0 {
		if err := s.cache.SetJSON(ctx, key, out, s.config.CacheTTL); err != nil {
			log.WithError(err).Warn("cache write failed")
		}
	}
	return out
}
