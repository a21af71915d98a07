package machine

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// RequestIssue is the issuance decision function. All gates run in a fixed
// order against the state read at entry, the first failing gate aborts the
// request with no writes at all. Only after every gate passes the quota and
// counter increments are committed in one store transaction, together with
// the reservation in collectible mode. The returned token id is the
// post-increment counter value.
func (m *Machine) RequestIssue(ctx context.Context, sender string, now int64, funds []*Coin, req *IssueReq) (uint32, error) {
	col, err := m.readCollection()
	if err != nil {
		return 0, err
	}

	stage, err := m.store.ReadStage(req.StageId)
	if err != nil {
		return 0, err
	}
	if stage == nil {
		return 0, ErrUnknownStage
	}

	if stage.Start != nil && now < *stage.Start {
		return 0, &NotStartedError{Start: *stage.Start}
	}
	if stage.Finish != nil && *stage.Finish < now {
		return 0, &FinishedError{Finish: *stage.Finish}
	}

	if col.RegistryAddress == "" {
		return 0, ErrRegistryNotSet
	}

	count, err := m.store.ReadTokenCount()
	if err != nil {
		return 0, err
	}
	if count >= col.MaxTokenCount {
		return 0, ErrSoldOut
	}

	var paid decimal.Decimal
	if stage.Price != nil {
		for _, c := range funds {
			if c.AssetId == PaymentAssetId {
				paid = c.Amount
				break
			}
		}
		if paid.IsZero() {
			return 0, ErrZeroAmount
		}
		if len(funds) > 1 {
			return 0, &UnsupportedDenomError{Accepted: PaymentAssetId}
		}
		if !stage.Price.Equal(paid) {
			return 0, &WrongAmountError{Expected: *stage.Price}
		}
	}

	userCount, err := m.store.ReadUserCount(sender)
	if err != nil {
		return 0, err
	}
	if stage.WhitelistEnabled {
		member, err := m.store.IsWhitelisted(req.StageId, sender)
		if err != nil {
			return 0, err
		}
		if !member {
			return 0, &NotWhitelistedError{Account: sender}
		}
	}
	if stage.MaxPerUser != nil && userCount >= *stage.MaxPerUser {
		return 0, ErrQuotaExceeded
	}

	tokenId := count + 1
	commit := &IssueCommit{
		Account:    sender,
		UserCount:  userCount + 1,
		TokenCount: tokenId,
		Payment:    paid,
	}

	switch col.Kind.Kind {
	case CollectionKindSingle:
		err = m.store.CommitIssue(commit)
		if err != nil {
			return 0, err
		}
		return tokenId, m.registry.Issue(ctx, &IssueInstruction{
			TraceId:  issueTraceId(tokenId),
			TokenId:  tokenId,
			Receiver: sender,
			Metadata: TokenMetadata{
				Name:        fmt.Sprintf("%s #%d", col.Name, tokenId),
				Description: col.Description,
				Image:       col.Kind.Image,
			},
		})
	case CollectionKindCollectible:
		if col.Kind.PublicKey != "" {
			err = verifyReserveSignature(col.Kind.PublicKey, sender, req.Signature)
			if err != nil {
				return 0, err
			}
		}
		commit.Reserve = true
		return tokenId, m.store.CommitIssue(commit)
	}
	panic(col.Kind.Kind)
}

// ConfirmIssue finishes a collectible reservation. Only the configured
// authorizer may confirm, and a reservation is confirmed at most once, the
// record is gone afterwards so a second call fails with ErrUnknownReservation.
func (m *Machine) ConfirmIssue(ctx context.Context, sender string, req *ConfirmReq) error {
	col, err := m.readCollection()
	if err != nil {
		return err
	}
	if col.Kind.Kind != CollectionKindCollectible {
		return ErrInvalidCollectionKind
	}
	if sender != col.Kind.Authorizer {
		return ErrUnauthorized
	}

	r, err := m.store.ReadReservation(req.TokenId)
	if err != nil {
		return err
	}
	if r == nil {
		return ErrUnknownReservation
	}
	err = m.store.RemoveReservation(req.TokenId)
	if err != nil {
		return err
	}

	return m.registry.Issue(ctx, &IssueInstruction{
		TraceId:  issueTraceId(req.TokenId),
		TokenId:  req.TokenId,
		Receiver: r.UserAddress,
		Metadata: req.Metadata,
	})
}

func issueTraceId(tokenId uint32) string {
	return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("candy:token:%d", tokenId)).String()
}
