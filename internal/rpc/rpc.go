package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"panelkeeper/internal/logger"
)

/**
 * HTTP client configuration
 * @property {string} baseUrl - Server base URL (e.g. "http://127.0.0.1:3000")
 * @property {time.Duration} timeout - Per-request timeout
 */
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

func DefaultHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		BaseURL: "http://127.0.0.1:3000",
		Timeout: 15 * time.Second,
	}
}

// HTTPResponse carries the status code and body of one exchange.
type HTTPResponse struct {
	StatusCode int
	Body       string
}

/**
 * HTTPClient 面向面板HTTP接口的客户端
 * @description
 * - Keeps a cookie jar so the anti-forgery token handed out on the page fetch
 *   stays valid for the following form submission
 * - Redirects are not followed: a 302 is an answer the caller classifies
 */
type HTTPClient struct {
	config *HTTPConfig
	client *http.Client
}

func NewHTTPClient(config *HTTPConfig) *HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

/**
 * Get 发送GET请求
 * @param {string} path - API endpoint path
 * @returns {*HTTPResponse} Response status and body
 */
func (c *HTTPClient) Get(ctx context.Context, path string) (*HTTPResponse, error) {
	reqURL := c.config.BaseURL + path
	logger.Debugf("Sending GET request to %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

/**
 * PostForm 发送表单POST请求
 * @param {string} path - API endpoint path
 * @param {url.Values} form - Form fields
 */
func (c *HTTPClient) PostForm(ctx context.Context, path string, form url.Values) (*HTTPResponse, error) {
	reqURL := c.config.BaseURL + path
	logger.Debugf("Sending POST request to %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*HTTPResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &HTTPResponse{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
