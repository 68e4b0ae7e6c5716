package async_auditor

import (
	"github.com/franRappazzini/boltick-contracts/pkg/config"
	"github.com/franRappazzini/boltick-contracts/pkg/config/env"
	"github.com/franRappazzini/boltick-contracts/pkg/config/memory"
	"github.com/franRappazzini/boltick-contracts/pkg/config/wrapper"
)

const (
	envConfigPrefix = "AUDITOR_SERVICE_"

	eventBatchSizeConfigEnvName = envConfigPrefix + "EVENT_BATCH_SIZE"
	defaultEventBatchSize       = 250

	auditStakingConfigEnvName = envConfigPrefix + "AUDIT_STAKING"
	defaultAuditStaking       = true

	auditTicketingConfigEnvName = envConfigPrefix + "AUDIT_TICKETING"
	defaultAuditTicketing       = true
)

type conf struct {
	eventBatchSize config.Uint64
	auditStaking   config.Bool
	auditTicketing config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			eventBatchSize: env.NewUint64Config(eventBatchSizeConfigEnvName, defaultEventBatchSize),
			auditStaking:   env.NewBoolConfig(auditStakingConfigEnvName, defaultAuditStaking),
			auditTicketing: env.NewBoolConfig(auditTicketingConfigEnvName, defaultAuditTicketing),
		}
	}
}

type testOverrides struct {
	eventBatchSize uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		return &conf{
			eventBatchSize: wrapper.NewUint64Config(memory.NewConfig(overrides.eventBatchSize), defaultEventBatchSize),
			auditStaking:   wrapper.NewBoolConfig(memory.NewConfig(true), defaultAuditStaking),
			auditTicketing: wrapper.NewBoolConfig(memory.NewConfig(true), defaultAuditTicketing),
		}
	}
}
