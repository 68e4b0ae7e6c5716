package async_auditor

import (
	"context"

	"github.com/franRappazzini/boltick-contracts/pkg/metrics"
)

const (
	metricsStructName = "async.auditor"

	violationEventName       = "InvariantViolation"
	violationCountMetricName = "Auditor/Violations"
)

func recordViolationEvent(ctx context.Context, violation *Violation) {
	metrics.RecordEvent(ctx, violationEventName, map[string]interface{}{
		"invariant": string(violation.Invariant),
		"account":   violation.Account,
		"expected":  violation.Expected,
		"actual":    violation.Actual,
	})
}
