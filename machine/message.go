package machine

import (
	"github.com/shopspring/decimal"
)

type ConfigureReq struct {
	Name            *string
	Description     *string
	RegistryAddress *string
}

type ConfigureStageReq struct {
	StageId          uint8
	Name             *string
	Start            *int64
	Finish           *int64
	Price            *decimal.Decimal
	MaxPerUser       *uint32
	WhitelistEnabled *bool
}

type ConfigureWhitelistReq struct {
	StageId  uint8
	Add      bool
	Accounts []string
}

type IssueReq struct {
	StageId   uint8
	Signature string
}

type ConfirmReq struct {
	TokenId  uint32
	Metadata TokenMetadata
}
