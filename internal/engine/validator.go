package engine

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/models"
)

// Duration bounds for campaign drafts, in days.
const (
	MinDurationDays = 1
	MaxDurationDays = 365
)

// ValidationError reports the first rule a campaign draft failed, with the
// field path that caused it. Recoverable: surfaced to the caller, never
// retried automatically.
type ValidationError struct {
	Field  string
	Reason string
	// Delta is sum(milestones) - target in base units when the milestone
	// sum rule fails, nil otherwise.
	Delta *big.Int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidateDraft checks a campaign draft against the creation rules,
// evaluated in order with the first failure winning:
//
//  1. title and description non-empty after trimming
//  2. target amount > 0
//  3. duration within [1, 365] days
//  4. if milestones are present, their base-unit sum equals the target
//     exactly
//  5. every milestone has a non-empty title/description and amount > 0
//
// On success it returns a normalized copy of the draft (trimmed strings);
// the input is never mutated. Pure function, no side effects.
func ValidateDraft(draft *models.CampaignDraft) (*models.CampaignDraft, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}

	description := strings.TrimSpace(draft.Description)
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "description is required"}
	}

	if draft.TargetAmount == nil || draft.TargetAmount.Sign() <= 0 {
		return nil, &ValidationError{Field: "targetAmount", Reason: "target amount must be greater than zero"}
	}

	if draft.DurationDays < MinDurationDays || draft.DurationDays > MaxDurationDays {
		return nil, &ValidationError{
			Field:  "durationDays",
			Reason: fmt.Sprintf("duration must be between %d and %d days", MinDurationDays, MaxDurationDays),
		}
	}

	if len(draft.Milestones) > 0 {
		amounts := make([]*big.Int, len(draft.Milestones))
		for i := range draft.Milestones {
			amounts[i] = draft.Milestones[i].Amount
		}
		total := amount.Sum(amounts...)

		// Exact base-unit equality; a single wei of drift is a mismatch.
		if total.Cmp(draft.TargetAmount) != 0 {
			delta := new(big.Int).Sub(total, draft.TargetAmount)
			return nil, &ValidationError{
				Field: "milestones",
				Reason: fmt.Sprintf("milestone amounts sum to %s, target is %s (delta %s)",
					total.String(), draft.TargetAmount.String(), delta.String()),
				Delta: delta,
			}
		}

		for i, m := range draft.Milestones {
			if strings.TrimSpace(m.Title) == "" {
				return nil, &ValidationError{
					Field:  fmt.Sprintf("milestones[%d].title", i),
					Reason: "milestone title is required",
				}
			}
			if strings.TrimSpace(m.Description) == "" {
				return nil, &ValidationError{
					Field:  fmt.Sprintf("milestones[%d].description", i),
					Reason: "milestone description is required",
				}
			}
			if m.Amount == nil || m.Amount.Sign() <= 0 {
				return nil, &ValidationError{
					Field:  fmt.Sprintf("milestones[%d].amount", i),
					Reason: "milestone amount must be greater than zero",
				}
			}
		}
	}

	validated := *draft
	validated.Title = title
	validated.Description = description
	return &validated, nil
}
