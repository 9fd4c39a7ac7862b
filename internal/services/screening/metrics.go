package screening

import (
	"time"

	"antifraud/internal/models"
	"antifraud/internal/services/threshold"
)

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordVerdict(models.Verdict, models.Reasons) {}
func (n *NoopMetricsCollector) RecordScoringDuration(time.Duration)         {}
func (n *NoopMetricsCollector) RecordFeedback(models.Verdict, models.Verdict) {}
func (n *NoopMetricsCollector) RecordLimits(threshold.Limits)               {}
func (n *NoopMetricsCollector) RecordError(string, string)                  {}
