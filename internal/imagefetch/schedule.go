package imagefetch

import (
	"context"

	"github.com/robfig/cron/v3"

	"muze-kasif/internal/logger"
)

// Schedule runs fn on a standard 5-field cron spec until ctx is done. Runs
// never overlap; a tick that arrives while fn is busy is skipped.
func Schedule(ctx context.Context, spec string, fn func(context.Context)) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { fn(ctx) }); err != nil {
		return err
	}
	logger.L().Info("imagefetch_scheduled", "spec", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
