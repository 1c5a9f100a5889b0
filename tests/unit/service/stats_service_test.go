package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxpoint/internal/domain"
	"taxpoint/internal/service"
	"taxpoint/mocks"
)

func TestGetStats(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	want := &domain.Stats{
		TotalOrders:      10,
		ResolvedOrders:   7,
		UnresolvedOrders: 3,
		SubtotalSum:      1250.00,
		TaxSum:           104.25,
		AvgCompositeRate: 0.0834,
	}
	repo.On("GetStats", mock.Anything).Return(want, nil)

	stats, err := svc.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, stats)
}

func TestGetStats_RepoError(t *testing.T) {
	repo := new(mocks.MockStatsRepo)
	svc := service.NewStatsService(repo)

	repo.On("GetStats", mock.Anything).Return(nil, errors.New("db down"))

	_, err := svc.GetStats(context.Background())
	assert.Error(t, err)
}
