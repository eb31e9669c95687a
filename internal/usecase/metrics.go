package usecase

import "context"

// MetricsSummary represents aggregated analysis insights.
type MetricsSummary struct {
	TotalAnalyses              int64   `json:"total_analyses"`
	AverageOverallConfidence   float64 `json:"average_overall_confidence"`
	AverageProcessingLatencyMs float64 `json:"average_processing_latency_ms"`
}

// GetMetricsSummary aggregates analysis metrics from persisted records.
func (uc *AnalysisUseCase) GetMetricsSummary(ctx context.Context) (*MetricsSummary, error) {
	aggregation, err := uc.repo.AggregateMetrics(ctx)
	if err != nil {
		return nil, err
	}

	return &MetricsSummary{
		TotalAnalyses:              aggregation.TotalCount,
		AverageOverallConfidence:   aggregation.AverageConfidence,
		AverageProcessingLatencyMs: aggregation.AverageLatencyMs,
	}, nil
}
