// Package adapter implements the external collaborators of the engine:
// the chain read layer and the metadata store client. Everything here
// hands plain data to the rest of the system; confirmation-depth checks
// and transaction signing are out of scope.
package adapter

import (
	"context"
	"fmt"
	"math/big"

	"github.com/crowdchain-engine/internal/models"
)

// ChainReader defines the read-only view of the crowdfunding contract.
// Implementations return already-confirmed data; the engine performs no
// verification of its own.
type ChainReader interface {
	// FetchCampaigns retrieves a page of campaign snapshots.
	FetchCampaigns(ctx context.Context, offset, limit int) ([]*models.CampaignSnapshot, error)

	// FetchContributionIDs retrieves the campaign ids a wallet has
	// contributed to.
	FetchContributionIDs(ctx context.Context, wallet string) ([]*big.Int, error)

	// FetchRewards retrieves a wallet's reward grants.
	FetchRewards(ctx context.Context, wallet string) ([]models.RewardRecord, error)

	// FetchTopContributors retrieves aggregate contribution totals for the
	// top n wallets.
	FetchTopContributors(ctx context.Context, n int) ([]models.ContributorTotal, error)
}

// EventScanner reads confirmed contribution events from the chain log.
// Separate from ChainReader so the API path never needs log-scanning
// capability.
type EventScanner interface {
	CurrentBlock(ctx context.Context) (uint64, error)
	FetchContributionEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*models.ContributionEvent, error)
}

// MetadataStore defines the content-addressed metadata/image store. The
// returned hash is an opaque campaign reference, never interpreted.
type MetadataStore interface {
	UploadCampaignMetadata(ctx context.Context, metadata *CampaignMetadata, image []byte) (string, error)
}

// CampaignMetadata is the descriptive payload stored off-chain.
type CampaignMetadata struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	AdditionalInfo string   `json:"additionalInfo,omitempty"`
}

// ReaderError wraps chain reader failures with operation context. The
// underlying cause passes through unchanged for the caller to classify.
type ReaderError struct {
	Op  string
	Err error
}

func (e *ReaderError) Error() string {
	return fmt.Sprintf("chain reader error [%s]: %v", e.Op, e.Err)
}

func (e *ReaderError) Unwrap() error {
	return e.Err
}

// NewReaderError creates a reader error
func NewReaderError(op string, err error) *ReaderError {
	return &ReaderError{Op: op, Err: err}
}
