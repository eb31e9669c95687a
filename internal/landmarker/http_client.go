package landmarker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/face-insight/internal/facemesh"
	"github.com/example/face-insight/internal/logging"
)

const detectTimeout = 10 * time.Second

// detectResponse mirrors the detector service's JSON response.
type detectResponse struct {
	FaceDetected    bool                `json:"face_detected"`
	NumFaces        int                 `json:"num_faces"`
	Landmarks       []facemesh.Landmark `json:"landmarks"`
	ImageDimensions struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"image_dimensions"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// HTTPClient talks to the detection service over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient builds a detector client for the given base URL.
func NewHTTPClient(baseURL string, logger *zap.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: detectTimeout},
		logger:  logger.Named("landmarker"),
	}
}

// Detect posts the raw image bytes to the detector and decodes the landmark
// payload. Zero or multiple faces are not errors here; the detection result
// reports the count and the caller decides.
func (c *HTTPClient) Detect(ctx context.Context, imageBytes []byte) (*Detection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(imageBytes))
	if err != nil {
		return nil, logging.NewOperationError("landmarker.build_request", "", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		wrapped := logging.NewOperationError("landmarker.detect", "", err)
		c.logger.Error("detector call failed", zap.Error(wrapped))
		return nil, wrapped
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, logging.NewOperationError("landmarker.read_response", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("detector returned status %s", resp.Status)
		wrapped := logging.NewOperationError("landmarker.detect", "", err)
		c.logger.Error("detector call failed", zap.Error(wrapped), zap.Int("status", resp.StatusCode))
		return nil, wrapped
	}

	var payload detectResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, logging.NewOperationError("landmarker.decode_response", "", err)
	}

	return &Detection{
		FaceDetected: payload.FaceDetected,
		NumFaces:     payload.NumFaces,
		Landmarks:    payload.Landmarks,
		ImageWidth:   payload.ImageDimensions.Width,
		ImageHeight:  payload.ImageDimensions.Height,
	}, nil
}
