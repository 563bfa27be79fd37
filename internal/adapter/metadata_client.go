package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/crowdchain-engine/internal/logging"
)

// PinningClient uploads campaign metadata to an IPFS pinning service and
// returns the resulting content hash. The hash is what gets written into the
// on-chain campaign record; the engine itself never stores the metadata.
type PinningClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// NewPinningClient creates a pinning service client.
func NewPinningClient(endpoint, apiKey string, timeout time.Duration) *PinningClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PinningClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// UploadCampaignMetadata pins the metadata document, plus an optional cover
// image, and returns the content hash.
func (c *PinningClient) UploadCampaignMetadata(ctx context.Context, meta *CampaignMetadata, image []byte) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("pinning service API key not configured")
	}

	doc, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "metadata.json")
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(doc); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	if len(image) > 0 {
		imgPart, err := writer.CreateFormFile("image", "cover")
		if err != nil {
			return "", fmt.Errorf("failed to build upload form: %w", err)
		}
		if _, err := imgPart.Write(image); err != nil {
			return "", fmt.Errorf("failed to build upload form: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	body, err := c.doRequest(ctx, buf.Bytes(), writer.FormDataContentType())
	if err != nil {
		return "", err
	}

	var resp pinResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse pinning response: %w", err)
	}
	if resp.IpfsHash == "" {
		return "", fmt.Errorf("pinning service returned empty content hash")
	}

	return resp.IpfsHash, nil
}

// doRequest performs the upload with retry on rate limiting (429).
func (c *PinningClient) doRequest(ctx context.Context, payload []byte, contentType string) ([]byte, error) {
	const maxRetries = 3
	baseDelay := 1 * time.Second

	log := logging.GetGlobalLogger().WithField("endpoint", c.endpoint)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to make request: %w", err)
			if attempt < maxRetries {
				delay := baseDelay * time.Duration(1<<uint(attempt))
				log.WithError(err).Warnf("Upload failed (attempt %d/%d), retrying in %v", attempt+1, maxRetries+1, delay)
				select {
				case <-time.After(delay):
					continue
				case <-ctx.Done():
					return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
				}
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			if attempt < maxRetries {
				delay := baseDelay * time.Duration(1<<uint(attempt))
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if seconds, err := strconv.Atoi(retryAfter); err == nil {
						delay = time.Duration(seconds) * time.Second
					}
				}
				log.Warnf("Pinning service rate limited (attempt %d/%d), retrying in %v", attempt+1, maxRetries+1, delay)
				select {
				case <-time.After(delay):
					continue
				case <-ctx.Done():
					return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
				}
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, fmt.Errorf("upload failed after %d attempts: %w", maxRetries+1, lastErr)
}
