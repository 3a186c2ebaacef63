package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/discoverly/discoverly/backend/internal/application/services"
	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/tests/mocks"
)

func TestEvaluateCompletenessGateOrder(t *testing.T) {
	build := func() *entities.Business { return completeBusiness("b1") }

	tests := []struct {
		reason string
		breakIt func(b *entities.Business)
	}{
		{services.ReasonNoCover, func(b *entities.Business) { b.CoverImageURL = "" }},
		{services.ReasonNoLogo, func(b *entities.Business) { b.LogoURL = "" }},
		{services.ReasonNoName, func(b *entities.Business) { b.Name = "" }},
		{services.ReasonNoIndustry, func(b *entities.Business) { b.IndustryID = ""; b.LegacyIndustry = "" }},
		{services.ReasonNoDescription, func(b *entities.Business) { b.ShortDescription = ""; b.Description = "" }},
		{services.ReasonNoLocation, func(b *entities.Business) { b.Address = entities.Address{}; b.Location = entities.GeoPoint{} }},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			b := build()
			tt.breakIt(b)
			result := services.EvaluateCompleteness(b, 1)
			assert.False(t, result.Complete)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}

	t.Run("first failure wins over later ones", func(t *testing.T) {
		b := build()
		b.CoverImageURL = ""
		b.Name = ""
		result := services.EvaluateCompleteness(b, 0)
		assert.Equal(t, services.ReasonNoCover, result.Reason)
	})

	t.Run("no widgets is the final check", func(t *testing.T) {
		result := services.EvaluateCompleteness(build(), 0)
		assert.Equal(t, services.ReasonNoWidgets, result.Reason)
	})

	t.Run("complete candidate passes", func(t *testing.T) {
		result := services.EvaluateCompleteness(build(), 1)
		assert.True(t, result.Complete)
		assert.Empty(t, result.Reason)
	})

	t.Run("legacy industry text satisfies the industry check", func(t *testing.T) {
		b := build()
		b.IndustryID = ""
		b.LegacyIndustry = "bakery"
		assert.True(t, services.EvaluateCompleteness(b, 1).Complete)
	})

	t.Run("sentinel geo point alone is not a location", func(t *testing.T) {
		b := build()
		b.Address = entities.Address{}
		b.Location = entities.GeoPoint{Latitude: 0, Longitude: 0}
		assert.Equal(t, services.ReasonNoLocation, services.EvaluateCompleteness(b, 1).Reason)
	})
}

func TestEvaluateCompletenessMonotonic(t *testing.T) {
	// Filling the reported missing field must advance the gate, never
	// regress it
	b := &entities.Business{}
	seen := map[string]bool{}

	for i := 0; i < 10; i++ {
		result := services.EvaluateCompleteness(b, 1)
		if result.Complete {
			break
		}
		require.False(t, seen[result.Reason], "gate revisited %s", result.Reason)
		seen[result.Reason] = true

		switch result.Reason {
		case services.ReasonNoCover:
			b.CoverImageURL = "cover.jpg"
		case services.ReasonNoLogo:
			b.LogoURL = "logo.png"
		case services.ReasonNoName:
			b.Name = "Named"
		case services.ReasonNoIndustry:
			b.IndustryID = "ind-1"
		case services.ReasonNoDescription:
			b.Description = "described"
		case services.ReasonNoLocation:
			b.Address.City = "Lagos"
		}
	}

	assert.True(t, services.EvaluateCompleteness(b, 1).Complete)
}

func TestFilterCompleteBatchesWidgetCounts(t *testing.T) {
	blocks := &mocks.MockContentBlockRepository{}
	svc := services.NewCompletenessService(blocks)

	withWidgets := completeBusiness("with")
	without := completeBusiness("without")
	noLogo := completeBusiness("nologo")
	noLogo.LogoURL = ""

	blocks.On("CountVisibleBatch", mock.Anything, mock.MatchedBy(func(owners []entities.BlockOwner) bool {
		// The field-failed candidate never reaches the store
		return len(owners) == 2
	})).Return(map[entities.BlockOwner]int{
		{PageID: "page-with", BusinessID: "with"}:       3,
		{PageID: "page-without", BusinessID: "without"}: 0,
	}, nil)

	passed := svc.FilterComplete(context.Background(), []*entities.Business{withWidgets, without, noLogo})

	require.Len(t, passed, 1)
	assert.Equal(t, "with", passed[0].ID)
	blocks.AssertExpectations(t)
}

func TestFilterCompleteExcludesFailedLookupsOnly(t *testing.T) {
	blocks := &mocks.MockContentBlockRepository{}
	svc := services.NewCompletenessService(blocks)

	blocks.On("CountVisibleBatch", mock.Anything, mock.Anything).
		Return(nil, errors.New("store down"))

	passed := svc.FilterComplete(context.Background(), []*entities.Business{completeBusiness("b1")})

	assert.Empty(t, passed)
}

func TestCheckSingleCandidate(t *testing.T) {
	blocks := &mocks.MockContentBlockRepository{}
	svc := services.NewCompletenessService(blocks)

	t.Run("field failure needs no store access", func(t *testing.T) {
		b := completeBusiness("b1")
		b.CoverImageURL = ""
		result, err := svc.Check(context.Background(), b)
		require.NoError(t, err)
		assert.Equal(t, services.ReasonNoCover, result.Reason)
	})

	t.Run("widget count decides the final rung", func(t *testing.T) {
		b := completeBusiness("b2")
		blocks.On("CountVisible", mock.Anything, entities.BlockOwner{PageID: "page-b2", BusinessID: "b2"}).
			Return(1, nil)
		result, err := svc.Check(context.Background(), b)
		require.NoError(t, err)
		assert.True(t, result.Complete)
	})
}
