package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amazin/bookstore/internal/domain"
	"github.com/amazin/bookstore/internal/observability"
)

type Cache interface {
	Set(book *domain.Book)
	Get(isbn string) (*domain.Book, bool)
}

type Storage interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBook(ctx context.Context, isbn string) (*domain.Book, error)
}

type Service struct {
	cache   Cache
	storage Storage
	logger  *zap.Logger
	metrics observability.Metrics
}

func NewService(cache Cache, storage Storage, logger *zap.Logger, metrics observability.Metrics) *Service {
	return &Service{
		cache:   cache,
		storage: storage,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	books, err := s.storage.ListBooks(ctx)
	if err != nil {
		s.logger.Error("catalog list failed", zap.Error(err))
		return nil, err
	}
	return books, nil
}

func (s *Service) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	b, _, err := s.GetByISBNWithStats(ctx, isbn)
	return b, err
}

func (s *Service) GetByISBNWithStats(ctx context.Context, isbn string) (*domain.Book, LookupStats, error) {
	var st LookupStats

	// Try cache
	tCacheStart := time.Now()
	if book, ok := s.cache.Get(isbn); ok {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCacheStart)
		s.metrics.IncCacheHit()
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)

		s.logger.Debug("book fetched from cache",
			zap.String("isbn", isbn),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return book, st, nil
	}

	// Try DB
	s.metrics.IncCacheMiss()
	st.CacheMs = convertToMs(tCacheStart)

	tDbStart := time.Now()
	book, err := s.storage.GetBook(ctx, isbn)
	if err != nil {
		s.logger.Warn("can't find book",
			zap.String("isbn", isbn),
			zap.Error(err),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return nil, st, err
	}

	st.Source = SourceDB
	st.DBMs = convertToMs(tDbStart)

	s.cache.Set(book)

	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.DBMs)
	s.logger.Debug("book fetched from DB",
		zap.String("isbn", isbn),
		zap.Float64("cache_ms", st.CacheMs),
		zap.Float64("db_ms", st.DBMs),
	)
	return book, st, nil
}
