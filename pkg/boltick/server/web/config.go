package web

import (
	"time"

	"github.com/franRappazzini/boltick-contracts/pkg/config"
	"github.com/franRappazzini/boltick-contracts/pkg/config/env"
	"github.com/franRappazzini/boltick-contracts/pkg/config/memory"
	"github.com/franRappazzini/boltick-contracts/pkg/config/wrapper"
)

const (
	envConfigPrefix = "WEB_SERVER_"

	requestsPerSecondConfigEnvName = envConfigPrefix + "REQUESTS_PER_SECOND"
	defaultRequestsPerSecond       = 10

	maxBodySizeConfigEnvName = envConfigPrefix + "MAX_BODY_SIZE"
	defaultMaxBodySize       = 16 * 1024

	maxRequestAgeConfigEnvName = envConfigPrefix + "MAX_REQUEST_AGE"
	defaultMaxRequestAge       = time.Minute

	maxTrackedSignaturesConfigEnvName = envConfigPrefix + "MAX_TRACKED_SIGNATURES"
	defaultMaxTrackedSignatures       = 100_000

	maxInvokeAttemptsConfigEnvName = envConfigPrefix + "MAX_INVOKE_ATTEMPTS"
	defaultMaxInvokeAttempts       = 3

	enableAirdropConfigEnvName = envConfigPrefix + "ENABLE_AIRDROP"
	defaultEnableAirdrop       = false

	maxAirdropLamportsConfigEnvName = envConfigPrefix + "MAX_AIRDROP_LAMPORTS"
	defaultMaxAirdropLamports       = 10_000_000_000

	enableTokenFaucetConfigEnvName = envConfigPrefix + "ENABLE_TOKEN_FAUCET"
	defaultEnableTokenFaucet       = false

	maxFaucetAmountConfigEnvName = envConfigPrefix + "MAX_FAUCET_AMOUNT"
	defaultMaxFaucetAmount       = 1_000_000_000_000
)

type conf struct {
	requestsPerSecond    config.Float64
	maxBodySize          config.Uint64
	maxRequestAge        config.Duration
	maxTrackedSignatures config.Uint64
	maxInvokeAttempts    config.Uint64
	enableAirdrop        config.Bool
	maxAirdropLamports   config.Uint64
	enableTokenFaucet    config.Bool
	maxFaucetAmount      config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			requestsPerSecond:    env.NewFloat64Config(requestsPerSecondConfigEnvName, defaultRequestsPerSecond),
			maxBodySize:          env.NewUint64Config(maxBodySizeConfigEnvName, defaultMaxBodySize),
			maxRequestAge:        env.NewDurationConfig(maxRequestAgeConfigEnvName, defaultMaxRequestAge),
			maxTrackedSignatures: env.NewUint64Config(maxTrackedSignaturesConfigEnvName, defaultMaxTrackedSignatures),
			maxInvokeAttempts:    env.NewUint64Config(maxInvokeAttemptsConfigEnvName, defaultMaxInvokeAttempts),
			enableAirdrop:        env.NewBoolConfig(enableAirdropConfigEnvName, defaultEnableAirdrop),
			maxAirdropLamports:   env.NewUint64Config(maxAirdropLamportsConfigEnvName, defaultMaxAirdropLamports),
			enableTokenFaucet:    env.NewBoolConfig(enableTokenFaucetConfigEnvName, defaultEnableTokenFaucet),
			maxFaucetAmount:      env.NewUint64Config(maxFaucetAmountConfigEnvName, defaultMaxFaucetAmount),
		}
	}
}

type testOverrides struct {
	requestsPerSecond float64
	enableAirdrop     bool
	enableTokenFaucet bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			requestsPerSecond:    wrapper.NewFloat64Config(memory.NewConfig(overrides.requestsPerSecond), defaultRequestsPerSecond),
			maxBodySize:          wrapper.NewUint64Config(memory.NewConfig(uint64(defaultMaxBodySize)), defaultMaxBodySize),
			maxRequestAge:        wrapper.NewDurationConfig(memory.NewConfig(defaultMaxRequestAge), defaultMaxRequestAge),
			maxTrackedSignatures: wrapper.NewUint64Config(memory.NewConfig(uint64(defaultMaxTrackedSignatures)), defaultMaxTrackedSignatures),
			maxInvokeAttempts:    wrapper.NewUint64Config(memory.NewConfig(uint64(defaultMaxInvokeAttempts)), defaultMaxInvokeAttempts),
			enableAirdrop:        wrapper.NewBoolConfig(memory.NewConfig(overrides.enableAirdrop), defaultEnableAirdrop),
			maxAirdropLamports:   wrapper.NewUint64Config(memory.NewConfig(uint64(defaultMaxAirdropLamports)), defaultMaxAirdropLamports),
			enableTokenFaucet:    wrapper.NewBoolConfig(memory.NewConfig(overrides.enableTokenFaucet), defaultEnableTokenFaucet),
			maxFaucetAmount:      wrapper.NewUint64Config(memory.NewConfig(uint64(defaultMaxFaucetAmount)), defaultMaxFaucetAmount),
		}
	}
}
