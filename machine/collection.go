package machine

import (
	"github.com/shopspring/decimal"
)

const (
	// PaymentAssetId is the only asset accepted as payment for priced stages.
	PaymentAssetId = "965e5c6e-434c-3fa9-b780-c50f43cd955c"

	CollectionKindSingle      = 10
	CollectionKindCollectible = 11
)

// CollectionKind is a tagged variant, Kind decides which fields are
// meaningful. Single issues a fixed image immediately, Collectible reserves
// the token until the authorizer confirms it with the final metadata.
type CollectionKind struct {
	Kind       int
	Image      string
	Authorizer string
	Cover      string
	PublicKey  string
}

func NewSingleKind(image string) CollectionKind {
	return CollectionKind{
		Kind:  CollectionKindSingle,
		Image: image,
	}
}

func NewCollectibleKind(authorizer, cover, publicKey string) CollectionKind {
	return CollectionKind{
		Kind:       CollectionKindCollectible,
		Authorizer: authorizer,
		Cover:      cover,
		PublicKey:  publicKey,
	}
}

type Collection struct {
	Owner           string
	Name            string
	Symbol          string
	Description     string
	MaxTokenCount   uint32
	Kind            CollectionKind
	RegistryAddress string
}

type Stage struct {
	Id               uint8
	Name             string
	Start            *int64
	Finish           *int64
	Price            *decimal.Decimal
	MaxPerUser       *uint32
	WhitelistEnabled bool
}

type Reservation struct {
	TokenId     uint32
	UserAddress string
}

type TokenMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type Coin struct {
	AssetId string
	Amount  decimal.Decimal
}
