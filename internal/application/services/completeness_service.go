package services

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/domain/repositories"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/observability"
)

// Completeness failure reasons, in gate order. The first failing check wins.
const (
	ReasonNoCover       = "noCover"
	ReasonNoLogo        = "noLogo"
	ReasonNoName        = "noName"
	ReasonNoIndustry    = "noIndustry"
	ReasonNoDescription = "noDescription"
	ReasonNoLocation    = "noLocation"
	ReasonNoWidgets     = "noWidgets"
)

// CompletenessResult is the outcome of the profile gate for one candidate
type CompletenessResult struct {
	Complete bool
	Reason   string
}

// EvaluateCompleteness runs the ordered content checks against a candidate,
// short-circuiting at the first failure. The widget count is supplied by the
// caller so the predicate itself stays pure.
func EvaluateCompleteness(b *entities.Business, visibleWidgets int) CompletenessResult {
	switch {
	case b.CoverImageURL == "":
		return CompletenessResult{Reason: ReasonNoCover}
	case b.LogoURL == "":
		return CompletenessResult{Reason: ReasonNoLogo}
	case b.Name == "":
		return CompletenessResult{Reason: ReasonNoName}
	case !b.HasIndustry():
		return CompletenessResult{Reason: ReasonNoIndustry}
	case !b.HasDescription():
		return CompletenessResult{Reason: ReasonNoDescription}
	case !b.HasResolvableLocation():
		return CompletenessResult{Reason: ReasonNoLocation}
	case visibleWidgets < 1:
		return CompletenessResult{Reason: ReasonNoWidgets}
	}
	return CompletenessResult{Complete: true}
}

// CompletenessService applies the profile gate to fetched candidate sets.
// The widget-count lookups are the dominant per-candidate cost, so they run
// through a batched loader instead of one store round trip each.
type CompletenessService struct {
	blocks repositories.ContentBlockRepository
}

// NewCompletenessService creates a new completeness service
func NewCompletenessService(blocks repositories.ContentBlockRepository) *CompletenessService {
	return &CompletenessService{blocks: blocks}
}

// Check runs the gate for a single candidate
func (s *CompletenessService) Check(ctx context.Context, b *entities.Business) (CompletenessResult, error) {
	// Cheap field checks first; only hit the store when they all pass
	if result := EvaluateCompleteness(b, 1); !result.Complete && result.Reason != ReasonNoWidgets {
		return result, nil
	}

	count, err := s.blocks.CountVisible(ctx, entities.BlockOwner{PageID: b.PageID, BusinessID: b.ID})
	if err != nil {
		return CompletenessResult{}, err
	}
	return EvaluateCompleteness(b, count), nil
}

// FilterComplete gates a fetched candidate set, returning only qualifying
// candidates in their original order. Runs before pagination so page counts
// reflect the filtered set. A candidate whose widget lookup fails is
// excluded; the rest of the batch proceeds.
func (s *CompletenessService) FilterComplete(ctx context.Context, candidates []*entities.Business) []*entities.Business {
	logger := observability.LoggerFromContext(ctx)

	// First pass: the field checks, which need no store access. Candidates
	// that survive still need their widget count.
	type pending struct {
		business *entities.Business
		thunk    dataloader.Thunk[int]
	}

	loader := dataloader.NewBatchedLoader(
		s.batchCountVisible,
		dataloader.WithBatchCapacity[entities.BlockOwner, int](len(candidates)+1),
	)

	passed := make([]*entities.Business, 0, len(candidates))
	pendings := make([]pending, 0, len(candidates))

	for _, b := range candidates {
		result := EvaluateCompleteness(b, 1)
		if !result.Complete {
			logger.Debug().
				Str("business_id", b.ID).
				Str("reason", result.Reason).
				Msg("candidate failed completeness gate")
			continue
		}
		pendings = append(pendings, pending{
			business: b,
			thunk:    loader.Load(ctx, entities.BlockOwner{PageID: b.PageID, BusinessID: b.ID}),
		})
	}

	for _, p := range pendings {
		count, err := p.thunk()
		if err != nil {
			logger.Warn().
				Err(err).
				Str("business_id", p.business.ID).
				Msg("widget count lookup failed, excluding candidate")
			continue
		}
		result := EvaluateCompleteness(p.business, count)
		if !result.Complete {
			logger.Debug().
				Str("business_id", p.business.ID).
				Str("reason", result.Reason).
				Msg("candidate failed completeness gate")
			continue
		}
		passed = append(passed, p.business)
	}

	return passed
}

func (s *CompletenessService) batchCountVisible(ctx context.Context, keys []entities.BlockOwner) []*dataloader.Result[int] {
	results := make([]*dataloader.Result[int], len(keys))

	counts, err := s.blocks.CountVisibleBatch(ctx, keys)
	for i, key := range keys {
		if err != nil {
			results[i] = &dataloader.Result[int]{Error: err}
			continue
		}
		results[i] = &dataloader.Result[int]{Data: counts[key]}
	}
	return results
}
