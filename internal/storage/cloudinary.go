package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
)

// ImageUploader sends image bytes to an external object store and returns the
// resulting URL. Raw bytes are never persisted in the primary database.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, fileName string) (string, error)
}

// CloudinaryUploader uploads via Cloudinary's signed upload endpoint.
type CloudinaryUploader struct {
	cfg    config.StorageConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewCloudinaryUploader constructs the uploader.
func NewCloudinaryUploader(cfg config.StorageConfig, logger *zap.Logger) *CloudinaryUploader {
	return &CloudinaryUploader{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
		now:    time.Now,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload performs a signed multipart upload and returns the https URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, fileName string) (string, error) {
	if u.cfg.CloudName == "" || u.cfg.APIKey == "" || u.cfg.APISecret == "" {
		return "", fmt.Errorf("image storage not configured")
	}

	timestamp := strconv.FormatInt(u.now().Unix(), 10)
	signature := u.sign(timestamp)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	filePart, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := filePart.Write(data); err != nil {
		return "", err
	}
	fields := map[string]string{
		"api_key":   u.cfg.APIKey,
		"timestamp": timestamp,
		"folder":    u.cfg.Folder,
		"signature": signature,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", u.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed uploadResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image upload failed with status %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	if parsed.SecureURL == "" {
		return "", fmt.Errorf("upload response missing secure_url")
	}

	u.logger.Info("image uploaded", zap.String("file", fileName))
	return parsed.SecureURL, nil
}

// sign computes the SHA-1 signature over the sorted upload parameters, per the
// provider's signed-upload contract.
func (u *CloudinaryUploader) sign(timestamp string) string {
	toSign := fmt.Sprintf("folder=%s&timestamp=%s%s", u.cfg.Folder, timestamp, u.cfg.APISecret)
	sum := sha1.Sum([]byte(toSign))
	return hex.EncodeToString(sum[:])
}
