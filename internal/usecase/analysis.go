package usecase

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/face-insight/internal/engine"
	"github.com/example/face-insight/internal/facemesh"
	"github.com/example/face-insight/internal/landmarker"
	"github.com/example/face-insight/internal/logging"
	"github.com/example/face-insight/internal/repository"
)

// Validation outcomes owned by this layer: the classification engine is
// never invoked unless exactly one face was detected.
var (
	ErrNoFaceDetected        = errors.New("no_face_detected")
	ErrMultipleFacesDetected = errors.New("multiple_faces_detected")
)

// AnalysisRepository defines the persistence operations needed by the use case.
type AnalysisRepository interface {
	Save(ctx context.Context, record *repository.AnalysisRecord) error
	FindByRequestIDAndUser(ctx context.Context, requestID, userID string) (*repository.AnalysisRecord, error)
	FindRecent(ctx context.Context, userID string, limit int) ([]*repository.AnalysisRecord, error)
	FindByFeatures(ctx context.Context, userID, eyeShape, noseWidth, lipFullness string, limit int) ([]*repository.AnalysisRecord, error)
	FindDuplicatesByHash(ctx context.Context, userID, hash, excludeRequestID string) ([]*repository.AnalysisRecord, error)
	AggregateMetrics(ctx context.Context) (*repository.MetricsAggregation, error)
}

// AnalysisUseCase orchestrates detection, classification, persistence, and
// caching for the analysis flow.
type AnalysisUseCase struct {
	repo           AnalysisRepository
	cache          Cache
	detector       landmarker.Client
	engine         *engine.Engine
	logger         *zap.Logger
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// AnalysisOutcome bundles what the handler returns for a fresh analysis.
type AnalysisOutcome struct {
	RequestID string
	Report    *engine.Report
}

// DuplicateReport represents prior analyses of the same image by the same
// user.
type DuplicateReport struct {
	Request    *repository.AnalysisRecord
	Duplicates []*repository.AnalysisRecord
}

// cachedAnalysis is the redis payload for a completed analysis.
type cachedAnalysis struct {
	RequestID string         `json:"request_id"`
	UserID    string         `json:"user_id"`
	Report    *engine.Report `json:"report"`
	Hash      string         `json:"sha1_hash"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewAnalysisUseCase constructs a new use case instance.
func NewAnalysisUseCase(repo AnalysisRepository, cache Cache, detector landmarker.Client, eng *engine.Engine, logger *zap.Logger) *AnalysisUseCase {
	return &AnalysisUseCase{
		repo:           repo,
		cache:          cache,
		detector:       detector,
		engine:         eng,
		logger:         logger.Named("analysis_usecase"),
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// AnalyzeImage runs the full flow: mark the request as processing, detect
// landmarks, gate on face count, classify, persist, and cache the report.
func (uc *AnalysisUseCase) AnalyzeImage(ctx context.Context, userID string, imageBytes []byte) (*AnalysisOutcome, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.analyze_image", requestID)
	started := time.Now()

	cacheKey := analysisCacheKey(requestID)
	if err := uc.withRedisRetry(ctx, requestID, "cache.set.processing", func() error {
		return uc.cache.Set(ctx, cacheKey, "processing", time.Minute)
	}); err != nil {
		opLogger.Error("failed to set processing flag", zap.Error(err))
		return nil, err
	}

	detection, err := uc.detector.Detect(ctx, imageBytes)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.detect_landmarks", requestID, err)
		opLogger.Error("landmark detection failed", zap.Error(wrapped))
		return nil, wrapped
	}

	switch {
	case detection.NumFaces == 0:
		return nil, ErrNoFaceDetected
	case detection.NumFaces > 1:
		return nil, ErrMultipleFacesDetected
	}

	set, err := facemesh.NewLandmarkSet(detection.Landmarks, detection.ImageWidth, detection.ImageHeight)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.build_landmark_set", requestID, err)
		opLogger.Error("invalid landmark payload", zap.Error(wrapped))
		return nil, wrapped
	}

	report, err := uc.engine.Analyze(set)
	if err != nil {
		wrapped := logging.NewOperationError("usecase.classify", requestID, err)
		opLogger.Error("classification failed", zap.Error(wrapped))
		return nil, wrapped
	}

	hash := sha1.Sum(imageBytes)
	hashHex := hex.EncodeToString(hash[:])
	record, err := buildRecord(requestID, userID, hashHex, report, time.Since(started))
	if err != nil {
		opLogger.Error("failed to serialize report", zap.Error(err))
		return nil, err
	}
	if err := uc.repo.Save(ctx, record); err != nil {
		wrapped := logging.NewOperationError("usecase.save_record", requestID, err)
		opLogger.Error("failed to persist analysis record", zap.Error(wrapped))
		return nil, wrapped
	}

	cached := cachedAnalysis{
		RequestID: requestID,
		UserID:    userID,
		Report:    report,
		Hash:      hashHex,
		CreatedAt: record.CreatedAt,
	}
	serialized, err := json.Marshal(cached)
	if err != nil {
		opLogger.Error("failed to serialize analysis result", zap.Error(err))
		return nil, err
	}
	if err := uc.withRedisRetry(ctx, requestID, "cache.set.result", func() error {
		return uc.cache.Set(ctx, cacheKey, string(serialized), 5*time.Minute)
	}); err != nil {
		opLogger.Error("failed to cache analysis result", zap.Error(err))
		return nil, err
	}

	return &AnalysisOutcome{RequestID: requestID, Report: report}, nil
}

// GetResult retrieves a cached analysis or falls back to persistence.
func (uc *AnalysisUseCase) GetResult(ctx context.Context, userID, requestID string) (*repository.AnalysisRecord, error) {
	cacheKey := analysisCacheKey(requestID)
	if value, err := uc.withRedisGet(ctx, requestID, "cache.get.result", cacheKey); err == nil {
		var payload cachedAnalysis
		if err := json.Unmarshal([]byte(value), &payload); err != nil {
			logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to decode cached result", zap.Error(err))
		} else if payload.Report != nil && payload.UserID == userID {
			record, err := buildRecord(requestID, userID, payload.Hash, payload.Report, 0)
			if err == nil {
				record.CreatedAt = payload.CreatedAt
				return record, nil
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		logging.WithOperation(uc.logger, "usecase.get_result", requestID).Warn("failed to read cache", zap.Error(err))
	}

	return uc.repo.FindByRequestIDAndUser(ctx, requestID, userID)
}

// GetRecent lists the user's newest analyses.
func (uc *AnalysisUseCase) GetRecent(ctx context.Context, userID string, limit int) ([]*repository.AnalysisRecord, error) {
	return uc.repo.FindRecent(ctx, userID, limit)
}

// SearchByFeatures finds the user's analyses matching the given labels.
func (uc *AnalysisUseCase) SearchByFeatures(ctx context.Context, userID, eyeShape, noseWidth, lipFullness string, limit int) ([]*repository.AnalysisRecord, error) {
	return uc.repo.FindByFeatures(ctx, userID, eyeShape, noseWidth, lipFullness, limit)
}

// GetDuplicateReport builds a duplicate detection report for an analysis.
func (uc *AnalysisUseCase) GetDuplicateReport(ctx context.Context, userID, requestID string) (*DuplicateReport, error) {
	record, err := uc.repo.FindByRequestIDAndUser(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}
	duplicates, err := uc.repo.FindDuplicatesByHash(ctx, userID, record.SHA1Hash, record.RequestID)
	if err != nil {
		return nil, err
	}
	return &DuplicateReport{Request: record, Duplicates: duplicates}, nil
}

func analysisCacheKey(requestID string) string {
	return fmt.Sprintf("analysis:%s", requestID)
}

// buildRecord flattens a report into its persisted shape. The full report is
// stored serialized alongside the searchable label columns.
func buildRecord(requestID, userID, hash string, report *engine.Report, latency time.Duration) (*repository.AnalysisRecord, error) {
	fullReport, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	searchTags, err := json.Marshal(report.Summary.SearchTags)
	if err != nil {
		return nil, err
	}

	record := &repository.AnalysisRecord{
		RequestID:         requestID,
		UserID:            userID,
		OverallConfidence: report.Summary.OverallConfidence,
		Description:       report.Summary.Description,
		SearchTags:        string(searchTags),
		FullReport:        string(fullReport),
		SHA1Hash:          hash,
		LatencyMs:         float64(latency.Milliseconds()),
		CreatedAt:         time.Now().UTC(),
	}

	if eye := report.EyeAnalysis; eye != nil {
		record.EyeShape = eye.EyeShape
		record.EyeConfidence = eye.ConfidenceScores[eye.EyeShape]
		secondary, err := json.Marshal(eye.SecondaryFeatures)
		if err != nil {
			return nil, err
		}
		record.EyeSecondary = string(secondary)
	}
	if nose := report.NoseAnalysis; nose != nil {
		record.NoseWidth = nose.NoseWidth
		record.NoseConfidence = nose.Confidence
	}
	if lip := report.LipAnalysis; lip != nil {
		record.LipFullness = lip.LipFullness
		record.LipBalance = lip.LipBalance
		record.LipConfidence = lip.Confidence
	}
	return record, nil
}

func (uc *AnalysisUseCase) withRedisRetry(ctx context.Context, requestID, operation string, fn func() error) error {
	if uc.retryAttempts <= 1 {
		return logging.NewOperationError(operation, requestID, fn())
	}

	backoff := uc.initialBackoff
	opLogger := logging.WithOperation(uc.logger, operation, requestID)
	var err error
	for attempt := 0; attempt < uc.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, requestID, ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= uc.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("redis operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}

		if !isTransientError(err) || attempt == uc.retryAttempts-1 {
			opLogger.Error("redis operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			return logging.NewOperationError(operation, requestID, err)
		}

		opLogger.Warn("transient redis error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return logging.NewOperationError(operation, requestID, err)
}

func (uc *AnalysisUseCase) withRedisGet(ctx context.Context, requestID, operation, cacheKey string) (string, error) {
	var result string
	err := uc.withRedisRetry(ctx, requestID, operation, func() error {
		value, err := uc.cache.Get(ctx, cacheKey)
		if err != nil {
			return err
		}
		result = value
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}

	return false
}
