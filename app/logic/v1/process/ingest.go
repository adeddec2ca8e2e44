package process

import (
	"context"
	"log/slog"

	v1 "github.com/postpilot-ai/postpilot/app/logic/v1"
	"github.com/postpilot-ai/postpilot/pkg/register"
	"github.com/postpilot-ai/postpilot/pkg/safe"
)

// Posts whose scheduled time has passed get ingested shortly after
// publication. MarkIngested keeps reruns cheap: an already ingested post
// never comes back as pending.
func init() {
	register.RegisterFunc(ProcessKey{}, func(provider *Process) {
		provider.Cron().AddFunc("*/1 * * * *", func() {
			safe.RunWithComponent(func() {
				summary, err := v1.NewLearnerLogic(context.Background(), provider.Core()).BatchIngest(v1.BatchIngestOptions{})
				if err != nil {
					slog.Error("scheduled ingestion failed", slog.String("error", err.Error()))
					return
				}
				if summary.Total > 0 {
					slog.Info("scheduled ingestion finished",
						slog.Int("total", summary.Total),
						slog.Int("succeeded", summary.Succeeded),
						slog.Int("failed", summary.Failed))
				}
			}, "process.ingest")
		})
	})
}
