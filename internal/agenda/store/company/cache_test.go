//go:build integration

package company_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"ajanda/internal/agenda/models"
	"ajanda/internal/agenda/store/company"
	id "ajanda/pkg/domain"
	"ajanda/pkg/testutil/containers"
)

type CacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *company.InMemory
	store *company.Cached
	ctx   context.Context
}

func TestCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CacheSuite))
}

func (s *CacheSuite) SetupSuite() {
	s.redis = containers.GetRedis(s.T())
}

func (s *CacheSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.redis.FlushAll(s.ctx))
	s.inner = company.NewInMemory(
		models.Company{ID: id.CompanyID(uuid.New()), Name: "Anadolu"},
		models.Company{ID: id.CompanyID(uuid.New()), Name: "Axa"},
	)
	s.store = company.NewCached(s.inner, s.redis.Client, time.Minute, nil)
}

func (s *CacheSuite) TestReadThroughAndHit() {
	first, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(first, 2)

	// Mutate the inner store; the cached copy must still serve.
	s.inner.Seed(nil)
	second, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal(first, second, "second read serves from cache")
}

func (s *CacheSuite) TestInvalidateForcesReload() {
	_, err := s.store.List(s.ctx)
	s.Require().NoError(err)

	s.inner.Seed([]models.Company{{ID: id.CompanyID(uuid.New()), Name: "Yeni"}})
	s.Require().NoError(s.store.Invalidate(s.ctx))

	got, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("Yeni", got[0].Name)
}

func (s *CacheSuite) TestCorruptEntryFallsThrough() {
	s.Require().NoError(s.redis.Client.Set(s.ctx, "agenda:companies", "{broken", time.Minute).Err())

	got, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(got, 2, "corrupt cache entry degrades to the inner store")
}
