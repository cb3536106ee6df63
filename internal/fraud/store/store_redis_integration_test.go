//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"certseal/internal/fraud/store"
	"certseal/pkg/testutil/containers"
)

type RedisHistoryStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisHistoryStore
}

func TestRedisHistoryStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisHistoryStoreSuite))
}

func (s *RedisHistoryStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedisHistoryStore(s.redis.Client, 24*time.Hour)
}

func (s *RedisHistoryStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisHistoryStoreSuite) TestRecordIssuanceCheckAndInsert() {
	ctx := context.Background()

	seen, err := s.store.RecordIssuance(ctx, "maria souza|pqt-u")
	s.Require().NoError(err)
	s.False(seen)

	seen, err = s.store.RecordIssuance(ctx, "maria souza|pqt-u")
	s.Require().NoError(err)
	s.True(seen)

	seen, err = s.store.RecordIssuance(ctx, "joão lima|pqt-u")
	s.Require().NoError(err)
	s.False(seen)
}

func (s *RedisHistoryStoreSuite) TestIncrementPerfectScores() {
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.store.IncrementPerfectScores(ctx)
		s.Require().NoError(err)
		s.Equal(want, got)
	}
}

// Concurrent issuances across goroutines must observe exactly one insert,
// the property the in-memory set of the original design could not provide.
func (s *RedisHistoryStoreSuite) TestRecordIssuanceConcurrent() {
	ctx := context.Background()
	const workers = 16

	results := make(chan bool, workers)
	for range workers {
		go func() {
			seen, err := s.store.RecordIssuance(ctx, "concurrent|program")
			s.NoError(err)
			results <- seen
		}()
	}

	firsts := 0
	for range workers {
		if !<-results {
			firsts++
		}
	}
	s.Equal(1, firsts)
}
