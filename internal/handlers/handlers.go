package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/face-insight/internal/auth"
	"github.com/example/face-insight/internal/repository"
	"github.com/example/face-insight/internal/usecase"
)

// MaxUploadSize caps analyzed images at 5 MiB.
const MaxUploadSize = 5 << 20

const defaultListLimit = 10

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// RegisterRoutes wires the HTTP handlers to the Gin router. Everything but
// the health check sits behind the auth middleware.
func RegisterRoutes(router *gin.Engine, uc *usecase.AnalysisUseCase, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"service":   "face-insight",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	authed := router.Group("/", authMiddleware)
	authed.POST("/analyze", func(c *gin.Context) { analyze(c, uc) })
	authed.GET("/result/:id", func(c *gin.Context) { getResult(c, uc) })
	authed.GET("/result/:id/duplicates", func(c *gin.Context) { getDuplicates(c, uc) })
	authed.GET("/analyses/recent", func(c *gin.Context) { getRecent(c, uc) })
	authed.GET("/analyses/search", func(c *gin.Context) { searchAnalyses(c, uc) })
	authed.GET("/metrics", func(c *gin.Context) { getMetrics(c, uc) })
}

func analyze(c *gin.Context, uc *usecase.AnalysisUseCase) {
	userID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return
	}
	if contentType := file.Header.Get("Content-Type"); !allowedImageTypes[contentType] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported image type"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open image"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds upload limit"})
		return
	}

	outcome, err := uc.AnalyzeImage(c.Request.Context(), userID, data)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoFaceDetected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "no_face_detected",
				"message": "Please ensure the image contains a clear, front-facing face",
			})
		case errors.Is(err, usecase.ErrMultipleFacesDetected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "multiple_faces_detected",
				"message": "Please upload an image with only one face",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id":           outcome.RequestID,
		"eye_analysis":         outcome.Report.EyeAnalysis,
		"nose_analysis":        outcome.Report.NoseAnalysis,
		"lip_analysis":         outcome.Report.LipAnalysis,
		"summary":              outcome.Report.Summary,
		"quality":              outcome.Report.Quality,
		"unavailable_features": outcome.Report.UnavailableFeatures,
	})
}

func getResult(c *gin.Context, uc *usecase.AnalysisUseCase) {
	userID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}
	requestID := c.Param("id")
	if requestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}

	record, err := uc.GetResult(c.Request.Context(), userID, requestID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id":         record.RequestID,
		"user_id":            record.UserID,
		"eye_shape":          record.EyeShape,
		"nose_width":         record.NoseWidth,
		"lip_fullness":       record.LipFullness,
		"lip_balance":        record.LipBalance,
		"overall_confidence": record.OverallConfidence,
		"description":        record.Description,
		"created_at":         record.CreatedAt,
	})
}

func getDuplicates(c *gin.Context, uc *usecase.AnalysisUseCase) {
	userID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}
	requestID := c.Param("id")

	report, err := uc.GetDuplicateReport(c.Request.Context(), userID, requestID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
		return
	}

	duplicates := make([]gin.H, 0, len(report.Duplicates))
	for _, d := range report.Duplicates {
		duplicates = append(duplicates, gin.H{
			"request_id": d.RequestID,
			"created_at": d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id": report.Request.RequestID,
		"sha1_hash":  report.Request.SHA1Hash,
		"duplicates": duplicates,
	})
}

func getRecent(c *gin.Context, uc *usecase.AnalysisUseCase) {
	userID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	records, err := uc.GetRecent(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": recordSummaries(records)})
}

func searchAnalyses(c *gin.Context, uc *usecase.AnalysisUseCase) {
	userID, ok := auth.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	records, err := uc.SearchByFeatures(
		c.Request.Context(),
		userID,
		c.Query("eye_shape"),
		c.Query("nose_width"),
		c.Query("lip_fullness"),
		listLimit(c),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": recordSummaries(records)})
}

func getMetrics(c *gin.Context, uc *usecase.AnalysisUseCase) {
	summary, err := uc.GetMetricsSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func listLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 || limit > 100 {
		return defaultListLimit
	}
	return limit
}

func recordSummaries(records []*repository.AnalysisRecord) []gin.H {
	summaries := make([]gin.H, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, gin.H{
			"request_id":         r.RequestID,
			"eye_shape":          r.EyeShape,
			"nose_width":         r.NoseWidth,
			"lip_fullness":       r.LipFullness,
			"lip_balance":        r.LipBalance,
			"overall_confidence": r.OverallConfidence,
			"description":        r.Description,
			"created_at":         r.CreatedAt,
		})
	}
	return summaries
}
