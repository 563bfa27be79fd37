package adapter

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/crowdchain-engine/internal/models"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// crowdfundingABI covers the read-only surface of the crowdfunding
// contract consumed by this service.
const crowdfundingABI = `[
	{"name":"getCampaigns","type":"function","stateMutability":"view",
	 "inputs":[{"name":"offset","type":"uint256"},{"name":"limit","type":"uint256"}],
	 "outputs":[{"name":"campaigns","type":"tuple[]","components":[
		{"name":"id","type":"uint256"},
		{"name":"creator","type":"address"},
		{"name":"title","type":"string"},
		{"name":"description","type":"string"},
		{"name":"metadataHash","type":"string"},
		{"name":"targetAmount","type":"uint256"},
		{"name":"raisedAmount","type":"uint256"},
		{"name":"deadline","type":"uint256"},
		{"name":"contributorsCount","type":"uint256"}]}]},
	{"name":"getUserContributions","type":"function","stateMutability":"view",
	 "inputs":[{"name":"user","type":"address"}],
	 "outputs":[{"name":"campaignIds","type":"uint256[]"}]},
	{"name":"getUserRewards","type":"function","stateMutability":"view",
	 "inputs":[{"name":"user","type":"address"}],
	 "outputs":[{"name":"rewards","type":"tuple[]","components":[
		{"name":"id","type":"uint256"},
		{"name":"amount","type":"uint256"},
		{"name":"claimed","type":"bool"}]}]},
	{"name":"getTopContributors","type":"function","stateMutability":"view",
	 "inputs":[{"name":"count","type":"uint256"}],
	 "outputs":[{"name":"wallets","type":"address[]"},{"name":"totals","type":"uint256[]"}]},
	{"name":"ContributionMade","type":"event","anonymous":false,
	 "inputs":[
		{"name":"campaignId","type":"uint256","indexed":true},
		{"name":"contributor","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false}]}
]`

// chainCampaign mirrors the contract's campaign tuple layout.
type chainCampaign struct {
	Id                *big.Int
	Creator           common.Address
	Title             string
	Description       string
	MetadataHash      string
	TargetAmount      *big.Int
	RaisedAmount      *big.Int
	Deadline          *big.Int
	ContributorsCount *big.Int
}

// chainReward mirrors the contract's reward tuple layout.
type chainReward struct {
	Id      *big.Int
	Amount  *big.Int
	Claimed bool
}

// EthereumReader reads the crowdfunding contract over JSON-RPC. It is the
// concrete chain/indexer read layer; all results are plain snapshots.
type EthereumReader struct {
	client   *ethclient.Client
	contract common.Address
	abi      abi.ABI
}

// NewEthereumReader dials the RPC endpoint and binds the contract address.
func NewEthereumReader(rpcURL, contractAddress string) (*EthereumReader, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("invalid contract address: %s", contractAddress)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, NewReaderError("Dial", err)
	}

	parsed, err := abi.JSON(strings.NewReader(crowdfundingABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return &EthereumReader{
		client:   client,
		contract: common.HexToAddress(contractAddress),
		abi:      parsed,
	}, nil
}

// Close releases the underlying RPC connection.
func (r *EthereumReader) Close() {
	r.client.Close()
}

func (r *EthereumReader) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := r.abi.Pack(method, args...)
	if err != nil {
		return nil, NewReaderError(method, err)
	}

	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, NewReaderError(method, err)
	}

	out, err := r.abi.Unpack(method, result)
	if err != nil {
		return nil, NewReaderError(method, err)
	}
	return out, nil
}

// FetchCampaigns retrieves a page of campaign snapshots from the contract.
func (r *EthereumReader) FetchCampaigns(ctx context.Context, offset, limit int) ([]*models.CampaignSnapshot, error) {
	out, err := r.call(ctx, "getCampaigns", big.NewInt(int64(offset)), big.NewInt(int64(limit)))
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(out[0], new([]chainCampaign)).(*[]chainCampaign)

	now := time.Now()
	snapshots := make([]*models.CampaignSnapshot, 0, len(raw))
	for _, c := range raw {
		snapshots = append(snapshots, &models.CampaignSnapshot{
			ID:                c.Id,
			Creator:           strings.ToLower(c.Creator.Hex()),
			Title:             c.Title,
			Description:       c.Description,
			MetadataHash:      c.MetadataHash,
			RaisedAmount:      c.RaisedAmount,
			TargetAmount:      c.TargetAmount,
			Deadline:          c.Deadline.Int64(),
			ContributorsCount: c.ContributorsCount.Int64(),
			FetchedAt:         now,
		})
	}
	return snapshots, nil
}

// FetchContributionIDs retrieves the campaign ids a wallet contributed to.
func (r *EthereumReader) FetchContributionIDs(ctx context.Context, wallet string) ([]*big.Int, error) {
	if !common.IsHexAddress(wallet) {
		return nil, NewReaderError("getUserContributions", fmt.Errorf("invalid wallet address: %s", wallet))
	}

	out, err := r.call(ctx, "getUserContributions", common.HexToAddress(wallet))
	if err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// FetchRewards retrieves a wallet's reward grants.
func (r *EthereumReader) FetchRewards(ctx context.Context, wallet string) ([]models.RewardRecord, error) {
	if !common.IsHexAddress(wallet) {
		return nil, NewReaderError("getUserRewards", fmt.Errorf("invalid wallet address: %s", wallet))
	}

	out, err := r.call(ctx, "getUserRewards", common.HexToAddress(wallet))
	if err != nil {
		return nil, err
	}

	raw := *abi.ConvertType(out[0], new([]chainReward)).(*[]chainReward)

	records := make([]models.RewardRecord, 0, len(raw))
	for _, reward := range raw {
		records = append(records, models.RewardRecord{
			RewardID: reward.Id.Int64(),
			Amount:   reward.Amount,
			Claimed:  reward.Claimed,
		})
	}
	return records, nil
}

// FetchTopContributors retrieves aggregate totals for the top n wallets.
func (r *EthereumReader) FetchTopContributors(ctx context.Context, n int) ([]models.ContributorTotal, error) {
	out, err := r.call(ctx, "getTopContributors", big.NewInt(int64(n)))
	if err != nil {
		return nil, err
	}

	wallets := *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address)
	amounts := *abi.ConvertType(out[1], new([]*big.Int)).(*[]*big.Int)

	if len(wallets) != len(amounts) {
		return nil, NewReaderError("getTopContributors",
			fmt.Errorf("mismatched result lengths: %d wallets, %d totals", len(wallets), len(amounts)))
	}

	totals := make([]models.ContributorTotal, 0, len(wallets))
	for i, wallet := range wallets {
		totals = append(totals, models.ContributorTotal{
			Wallet:           strings.ToLower(wallet.Hex()),
			TotalContributed: amounts[i],
		})
	}
	return totals, nil
}

// CurrentBlock returns the latest block number on the connected chain.
func (r *EthereumReader) CurrentBlock(ctx context.Context) (uint64, error) {
	block, err := r.client.BlockNumber(ctx)
	if err != nil {
		return 0, NewReaderError("BlockNumber", err)
	}
	return block, nil
}

// FetchContributionEvents scans the ContributionMade logs emitted by the
// contract in the inclusive block range. Block timestamps are resolved per
// unique block to keep header lookups bounded.
func (r *EthereumReader) FetchContributionEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*models.ContributionEvent, error) {
	event := r.abi.Events["ContributionMade"]

	logs, err := r.client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{r.contract},
		Topics:    [][]common.Hash{{event.ID}},
	})
	if err != nil {
		return nil, NewReaderError("FilterLogs", err)
	}

	blockTimes := make(map[uint64]time.Time)
	events := make([]*models.ContributionEvent, 0, len(logs))
	for _, entry := range logs {
		if len(entry.Topics) < 3 {
			continue
		}

		timestamp, ok := blockTimes[entry.BlockNumber]
		if !ok {
			header, err := r.client.HeaderByNumber(ctx, new(big.Int).SetUint64(entry.BlockNumber))
			if err != nil {
				return nil, NewReaderError("HeaderByNumber", err)
			}
			timestamp = time.Unix(int64(header.Time), 0).UTC()
			blockTimes[entry.BlockNumber] = timestamp
		}

		unpacked, err := r.abi.Unpack("ContributionMade", entry.Data)
		if err != nil {
			return nil, NewReaderError("ContributionMade", err)
		}

		events = append(events, &models.ContributionEvent{
			CampaignID: new(big.Int).SetBytes(entry.Topics[1].Bytes()),
			Wallet:     strings.ToLower(common.BytesToAddress(entry.Topics[2].Bytes()).Hex()),
			Amount:     *abi.ConvertType(unpacked[0], new(*big.Int)).(**big.Int),
			TxHash:     entry.TxHash.Hex(),
			Timestamp:  timestamp,
		})
	}
	return events, nil
}
