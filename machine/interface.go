package machine

import (
	"context"

	"github.com/shopspring/decimal"
)

type Store interface {
	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)

	WriteCollection(col *Collection) error
	ReadCollection() (*Collection, error)
	ReadTokenCount() (uint32, error)

	WriteStage(stage *Stage) error
	ReadStage(id uint8) (*Stage, error)
	ListStages(limit int) ([]*Stage, error)

	RegisterWhitelist(stageId uint8, account string) error
	UnregisterWhitelist(stageId uint8, account string) error
	IsWhitelisted(stageId uint8, account string) (bool, error)

	ReadUserCount(account string) (uint32, error)

	CommitIssue(ci *IssueCommit) error

	ReadReservation(tokenId uint32) (*Reservation, error)
	RemoveReservation(tokenId uint32) error
	ListUnprocessedReservations(after uint32, limit int) ([]uint32, error)

	ReadCollectedFunds() (decimal.Decimal, error)
	WriteCollectedFunds(amount decimal.Decimal) error
}

// IssueCommit is everything a successful issuance decision writes, the store
// must apply it in a single transaction. UserCount and TokenCount are the new
// values, TokenCount doubles as the freshly minted token id.
type IssueCommit struct {
	Account    string
	UserCount  uint32
	TokenCount uint32
	Reserve    bool
	Payment    decimal.Decimal
}

type Registry interface {
	Issue(ctx context.Context, instr *IssueInstruction) error
	Transfer(ctx context.Context, instr *TransferInstruction) error
}

type IssueInstruction struct {
	TraceId  string        `json:"trace_id"`
	TokenId  uint32        `json:"token_id"`
	Receiver string        `json:"receiver"`
	Metadata TokenMetadata `json:"metadata"`
}

type TransferInstruction struct {
	TraceId  string          `json:"trace_id"`
	AssetId  string          `json:"asset_id"`
	Receiver string          `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
}
