package api

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/crowdchain-engine/internal/amount"
	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/models"
)

// milestoneRequest is one milestone in a draft request. Amounts arrive as
// decimal display-unit strings and are converted to base units exactly.
type milestoneRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	ReleaseTime int64  `json:"releaseTime,omitempty"`
}

// draftRequest is the wire form of a campaign draft.
type draftRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	TargetAmount   string             `json:"targetAmount"`
	DurationDays   int                `json:"durationDays"`
	Milestones     []milestoneRequest `json:"milestones,omitempty"`
	Category       string             `json:"category,omitempty"`
	Tags           []string           `json:"tags,omitempty"`
	AdditionalInfo string             `json:"additionalInfo,omitempty"`
	Image          string             `json:"image,omitempty"` // base64, optional cover image
}

// toDraft converts the wire form into the internal draft, converting every
// decimal amount to base units. Conversion failures report the offending
// field.
func (req *draftRequest) toDraft() (*models.CampaignDraft, string, error) {
	target, err := amount.ToBaseUnits(req.TargetAmount)
	if err != nil {
		return nil, "targetAmount", err
	}

	draft := &models.CampaignDraft{
		Title:          req.Title,
		Description:    req.Description,
		TargetAmount:   target,
		DurationDays:   req.DurationDays,
		Category:       req.Category,
		Tags:           req.Tags,
		AdditionalInfo: req.AdditionalInfo,
	}

	for i, m := range req.Milestones {
		milestoneAmount, err := amount.ToBaseUnits(m.Amount)
		if err != nil {
			return nil, fmt.Sprintf("milestones[%d].amount", i), err
		}
		draft.Milestones = append(draft.Milestones, models.MilestoneDraft{
			Title:       m.Title,
			Description: m.Description,
			Amount:      milestoneAmount,
			ReleaseTime: m.ReleaseTime,
		})
	}

	return draft, "", nil
}

// handleValidateDraft handles POST /api/campaigns/validate. Runs the draft
// rules without touching the metadata store.
func (s *Server) handleValidateDraft(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", nil)
		return
	}

	draft, field, err := req.toDraft()
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid amount", map[string]interface{}{
			"field":  field,
			"reason": err.Error(),
		})
		return
	}

	validated, err := s.campaignService.Validate(draft)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"draft": validated,
	})
}

// handlePrepareCampaign handles POST /api/campaigns/prepare. Validates the
// draft, pins its metadata and returns the transaction payload. Nothing is
// submitted on chain.
func (s *Server) handlePrepareCampaign(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body", nil)
		return
	}

	draft, field, err := req.toDraft()
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid amount", map[string]interface{}{
			"field":  field,
			"reason": err.Error(),
		})
		return
	}

	var image []byte
	if req.Image != "" {
		image, err = base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid image encoding", nil)
			return
		}
	}

	payload, err := s.campaignService.Prepare(r.Context(), draft, image)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("PrepareCampaign failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, payload)
}
