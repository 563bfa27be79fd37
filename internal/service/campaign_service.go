package service

import (
	"context"
	"errors"
	"math/big"

	"github.com/crowdchain-engine/internal/adapter"
	"github.com/crowdchain-engine/internal/engine"
	apperrors "github.com/crowdchain-engine/internal/errors"
	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/models"
)

const secondsPerDay = 86400

// CampaignService validates campaign drafts and prepares the payload the
// external transaction layer submits on chain. It never signs or sends a
// transaction itself.
type CampaignService struct {
	metadata    adapter.MetadataStore
	creationFee *big.Int
}

// NewCampaignService creates a campaign service. creationFee is in base
// units and is attached verbatim to every prepared payload.
func NewCampaignService(metadata adapter.MetadataStore, creationFee *big.Int) *CampaignService {
	if creationFee == nil {
		creationFee = big.NewInt(0)
	}
	return &CampaignService{
		metadata:    metadata,
		creationFee: creationFee,
	}
}

// Validate runs the draft rules and returns the normalized draft.
func (s *CampaignService) Validate(draft *models.CampaignDraft) (*models.CampaignDraft, error) {
	validated, err := engine.ValidateDraft(draft)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			return nil, apperrors.NewValidationError(verr.Field, verr.Reason)
		}
		return nil, apperrors.NewInternalError("draft validation failed", err)
	}
	return validated, nil
}

// Prepare validates the draft, pins its off-chain metadata, and returns the
// transaction payload. Milestones come back as parallel arrays matching the
// contract's creation call shape.
func (s *CampaignService) Prepare(ctx context.Context, draft *models.CampaignDraft, image []byte) (*models.CampaignPayload, error) {
	validated, err := s.Validate(draft)
	if err != nil {
		return nil, err
	}

	hash, err := s.metadata.UploadCampaignMetadata(ctx, &adapter.CampaignMetadata{
		Title:          validated.Title,
		Description:    validated.Description,
		Category:       validated.Category,
		Tags:           validated.Tags,
		AdditionalInfo: validated.AdditionalInfo,
	}, image)
	if err != nil {
		return nil, apperrors.NewProviderError("metadata pinning", err)
	}

	logging.FromContext(ctx).WithFields(map[string]interface{}{
		"metadataHash": hash,
		"milestones":   len(validated.Milestones),
	}).Info("Prepared campaign payload")

	payload := &models.CampaignPayload{
		Title:           validated.Title,
		Description:     validated.Description,
		MetadataHash:    hash,
		TargetAmount:    validated.TargetAmount,
		DurationSeconds: int64(validated.DurationDays) * secondsPerDay,
		CreationFee:     new(big.Int).Set(s.creationFee),
	}

	for _, m := range validated.Milestones {
		payload.MilestoneAmounts = append(payload.MilestoneAmounts, m.Amount)
		payload.MilestoneTitles = append(payload.MilestoneTitles, m.Title)
		payload.MilestoneDescriptions = append(payload.MilestoneDescriptions, m.Description)
		payload.MilestoneReleaseTimes = append(payload.MilestoneReleaseTimes, m.ReleaseTime)
	}

	return payload, nil
}
