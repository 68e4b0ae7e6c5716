package ticketing

import (
	"github.com/franRappazzini/boltick-contracts/pkg/config"
	"github.com/franRappazzini/boltick-contracts/pkg/config/env"
	"github.com/franRappazzini/boltick-contracts/pkg/config/memory"
	"github.com/franRappazzini/boltick-contracts/pkg/config/wrapper"
)

const (
	envConfigPrefix = "TICKETING_PROGRAM_"

	AllowPaidTierAuthorityMintConfigEnvName = envConfigPrefix + "ALLOW_PAID_TIER_AUTHORITY_MINT"
	defaultAllowPaidTierAuthorityMint       = true
)

type conf struct {
	allowPaidTierAuthorityMint config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			allowPaidTierAuthorityMint: env.NewBoolConfig(AllowPaidTierAuthorityMintConfigEnvName, defaultAllowPaidTierAuthorityMint),
		}
	}
}

type testOverrides struct {
	allowPaidTierAuthorityMint bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			allowPaidTierAuthorityMint: wrapper.NewBoolConfig(memory.NewConfig(overrides.allowPaidTierAuthorityMint), defaultAllowPaidTierAuthorityMint),
		}
	}
}
