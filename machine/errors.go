package machine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnauthorized          = errors.New("unauthorized")
	ErrRegistryNotSet        = errors.New("registry address is not defined")
	ErrUnknownStage          = errors.New("unknown issue stage")
	ErrUnknownReservation    = errors.New("unknown reservation")
	ErrInvalidCollectionKind = errors.New("invalid collection kind")
	ErrSoldOut               = errors.New("no more tokens to issue")
	ErrZeroAmount            = errors.New("zero amount not allowed")
	ErrQuotaExceeded         = errors.New("issue amount per user exceeded")
	ErrInvalidSignature      = errors.New("invalid signature")
)

type NotStartedError struct {
	Start int64
}

func (e *NotStartedError) Error() string {
	return fmt.Sprintf("issue not started (time: %d)", e.Start)
}

type FinishedError struct {
	Finish int64
}

func (e *FinishedError) Error() string {
	return fmt.Sprintf("issue finished (time: %d)", e.Finish)
}

type UnsupportedDenomError struct {
	Accepted string
}

func (e *UnsupportedDenomError) Error() string {
	return fmt.Sprintf("other asset except %s is not allowed", e.Accepted)
}

type WrongAmountError struct {
	Expected decimal.Decimal
}

func (e *WrongAmountError) Error() string {
	return fmt.Sprintf("invalid amount, expected amount: %s", e.Expected)
}

type NotWhitelistedError struct {
	Account string
}

func (e *NotWhitelistedError) Error() string {
	return fmt.Sprintf("%s is not whitelisted for this stage", e.Account)
}
