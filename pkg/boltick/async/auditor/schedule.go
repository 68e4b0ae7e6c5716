package async_auditor

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Schedule runs an audit on a cron schedule until the context is cancelled.
// Runs that overlap a still running audit are skipped.
func (p *Auditor) Schedule(serviceCtx context.Context, spec string) error {
	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := scheduler.AddFunc(spec, func() {
		report, err := p.Audit(serviceCtx)
		if err != nil {
			p.log.WithError(err).Warn("failure auditing program state")
			return
		}

		if len(report.Violations) > 0 {
			p.log.WithField("violations", len(report.Violations)).Error("program invariants violated")
		}
	})
	if err != nil {
		return errors.Wrapf(err, "invalid audit schedule %q", spec)
	}

	scheduler.Start()
	<-serviceCtx.Done()
	<-scheduler.Stop().Done()

	return serviceCtx.Err()
}
