package jobs

import (
	"github.com/bankportal/portal-backend/shared"
	"github.com/sirupsen/logrus"
)

// MetricsReportJob periodically writes one summary log line per service so
// long-running demo instances leave a usage trail without an external
// metrics backend.
type MetricsReportJob struct {
	Registry *shared.MetricsRegistry
}

func NewMetricsReportJob(registry *shared.MetricsRegistry) *MetricsReportJob {
	return &MetricsReportJob{Registry: registry}
}

func (j *MetricsReportJob) Run() {
	logrus.Info("Starting Metrics Report Job")
	j.Registry.LogSummaries()
	logrus.Info("Metrics Report Job completed")
}
