package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"strings"
	"time"

	"valorant-stats/internal/config"
	"valorant-stats/internal/constants"

	"github.com/valyala/fasthttp"
)

var ErrAnalysisFailed = errors.New("analysis service error")

// AnalysisClient talks to the video analysis service, which turns an uploaded
// gameplay video into a raw scoreboard mapping.
type AnalysisClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

type UploadResponse struct {
	Scoreboard map[string]any `json:"scoreboard"`
	Error      string         `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func NewAnalysisClient(cfg *config.Config) *AnalysisClient {
	return &AnalysisClient{
		baseURL: strings.TrimRight(cfg.AnalysisURL, "/"),
		apiKey:  cfg.AnalysisAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			MaxResponseBodySize: 16 << 20,
		},
	}
}

// WithDialer replaces the transport dial function, used to point the client at
// an in-memory listener.
func (c *AnalysisClient) WithDialer(dial func(addr string) (net.Conn, error)) *AnalysisClient {
	c.client.Dial = dial
	return c
}

// Upload streams a video to the analysis service and returns the scoreboard it
// extracted. filename is only forwarded as the multipart file name.
func (c *AnalysisClient) Upload(ctx context.Context, filename string, video io.Reader) (*UploadResponse, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("video", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + "/upload")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(form.FormDataContentType())
	req.SetBody(body.Bytes())

	result, err := doRequest[UploadResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrAnalysisFailed, result.Error)
	}
	return result, nil
}

func (c *AnalysisClient) Health(ctx context.Context) (*HealthResponse, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.baseURL + "/health")
	req.Header.SetMethod(fasthttp.MethodGet)

	return doRequest[HealthResponse](ctx, c, req)
}

func doRequest[T any](ctx context.Context, client *AnalysisClient, req *fasthttp.Request) (*T, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if client.apiKey != "" {
		req.Header.Set("Authorization", client.apiKey)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &failure) == nil && failure.Error != "" {
			return nil, fmt.Errorf("%w: %d: %s", ErrAnalysisFailed, resp.StatusCode(), failure.Error)
		}
		return nil, fmt.Errorf("%w: %d", ErrAnalysisFailed, resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
