package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnalysisRecord is a persisted facial analysis: the flattened per-feature
// labels for searching, plus the serialized full report for retrieval.
type AnalysisRecord struct {
	ID        uint   `gorm:"primaryKey"`
	RequestID string `gorm:"column:request_id;uniqueIndex;size:64"`
	UserID    string `gorm:"column:user_id;index;size:64"`

	EyeShape      string  `gorm:"column:eye_shape;index;size:32"`
	EyeSecondary  string  `gorm:"column:eye_secondary;size:128"`
	EyeConfidence float64 `gorm:"column:eye_confidence"`

	NoseWidth      string  `gorm:"column:nose_width;index;size:32"`
	NoseConfidence float64 `gorm:"column:nose_confidence"`

	LipFullness   string  `gorm:"column:lip_fullness;index;size:32"`
	LipBalance    string  `gorm:"column:lip_balance;size:32"`
	LipConfidence float64 `gorm:"column:lip_confidence"`

	OverallConfidence float64 `gorm:"column:overall_confidence"`
	Description       string  `gorm:"column:description;type:text"`
	SearchTags        string  `gorm:"column:search_tags;type:text"`
	FullReport        string  `gorm:"column:full_report;type:text"`

	SHA1Hash  string    `gorm:"column:sha1_hash;index;size:40"`
	LatencyMs float64   `gorm:"column:latency_ms"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the default table name.
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// MetricsAggregation holds the repository-level metric rollup.
type MetricsAggregation struct {
	TotalCount        int64
	AverageConfidence float64
	AverageLatencyMs  float64
}

// AnalysisRepository provides persistence APIs for analysis records.
type AnalysisRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAnalysisRepository creates a new repository instance.
func NewAnalysisRepository(db *gorm.DB, logger *zap.Logger) *AnalysisRepository {
	return &AnalysisRepository{db: db, logger: logger.Named("analysis_repository")}
}

// AutoMigrate ensures the schema is available.
func (r *AnalysisRepository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&AnalysisRecord{})
}

// Save persists an analysis record.
func (r *AnalysisRepository) Save(ctx context.Context, record *AnalysisRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByRequestIDAndUser retrieves an analysis matching the request and owner.
func (r *AnalysisRepository) FindByRequestIDAndUser(ctx context.Context, requestID, userID string) (*AnalysisRecord, error) {
	var record AnalysisRecord
	if err := r.db.WithContext(ctx).First(&record, "request_id = ? AND user_id = ?", requestID, userID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecent returns the newest analyses for a user.
func (r *AnalysisRepository) FindRecent(ctx context.Context, userID string, limit int) ([]*AnalysisRecord, error) {
	var records []*AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindByFeatures searches a user's analyses by classified labels. Empty
// filters are skipped.
func (r *AnalysisRepository) FindByFeatures(ctx context.Context, userID, eyeShape, noseWidth, lipFullness string, limit int) ([]*AnalysisRecord, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if eyeShape != "" {
		query = query.Where("eye_shape = ?", eyeShape)
	}
	if noseWidth != "" {
		query = query.Where("nose_width = ?", noseWidth)
	}
	if lipFullness != "" {
		query = query.Where("lip_fullness = ?", lipFullness)
	}

	var records []*AnalysisRecord
	if err := query.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindDuplicatesByHash returns other analyses of the same image for the same
// user.
func (r *AnalysisRepository) FindDuplicatesByHash(ctx context.Context, userID, hash, excludeRequestID string) ([]*AnalysisRecord, error) {
	var records []*AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sha1_hash = ? AND request_id <> ?", userID, hash, excludeRequestID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// AggregateMetrics rolls up analysis counts, average confidence, and average
// processing latency.
func (r *AnalysisRepository) AggregateMetrics(ctx context.Context) (*MetricsAggregation, error) {
	var aggregation MetricsAggregation
	row := r.db.WithContext(ctx).
		Model(&AnalysisRecord{}).
		Select("COUNT(*), COALESCE(AVG(overall_confidence), 0), COALESCE(AVG(latency_ms), 0)").
		Row()
	if err := row.Scan(&aggregation.TotalCount, &aggregation.AverageConfidence, &aggregation.AverageLatencyMs); err != nil {
		return nil, err
	}
	return &aggregation, nil
}
