package machine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type CollectionConfiguration struct {
	Kind       string `toml:"kind"`
	Image      string `toml:"image"`
	Authorizer string `toml:"authorizer"`
	Cover      string `toml:"cover"`
	PublicKey  string `toml:"public-key"`
}

type StageConfiguration struct {
	Id               uint8   `toml:"id"`
	Name             string  `toml:"name"`
	Start            *int64  `toml:"start"`
	Finish           *int64  `toml:"finish"`
	Price            string  `toml:"price"`
	MaxPerUser       *uint32 `toml:"max-per-user"`
	WhitelistEnabled bool    `toml:"whitelist-enabled"`
}

type RegistryConfiguration struct {
	Endpoint string `toml:"endpoint"`
}

type Configuration struct {
	Owner         string                  `toml:"owner"`
	Name          string                  `toml:"name"`
	Symbol        string                  `toml:"symbol"`
	Description   string                  `toml:"description"`
	MaxTokenCount uint32                  `toml:"max-token-count"`
	Collection    CollectionConfiguration `toml:"collection"`
	Registry      RegistryConfiguration   `toml:"registry"`
	Stages        []StageConfiguration    `toml:"stages"`
}

func Setup(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, err
	}
	if conf.Owner == "" {
		return nil, fmt.Errorf("missing collection owner")
	}
	if conf.MaxTokenCount < 1 {
		return nil, fmt.Errorf("invalid max token count %d", conf.MaxTokenCount)
	}
	switch conf.Collection.Kind {
	case "single", "collectible":
	default:
		return nil, fmt.Errorf("invalid collection kind %s", conf.Collection.Kind)
	}
	return &conf, nil
}
