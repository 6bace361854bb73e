package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "FILEHUB_HTTP_TIMEOUT"
	adminTokenEnvKey   = "FILEHUB_ADMIN_TOKEN"
)

// Client is a simple HTTP client for the filehub API.
type Client struct {
	baseURL    string
	http       *http.Client
	adminToken string
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: httpTimeoutFromEnv()},
		adminToken: strings.TrimSpace(os.Getenv(adminTokenEnvKey)),
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, nil, &resp)
	return resp, err
}

// UploadRequest carries one file upload. DeclaredSHA256 and DeclaredSize
// are optional integrity declarations checked server-side.
type UploadRequest struct {
	Filename       string
	MediaType      string
	DeclaredSHA256 string
	DeclaredSize   int64
	Content        io.Reader
}

// UploadFile streams a multipart upload to the server.
func (c *Client) UploadFile(ctx context.Context, req UploadRequest) (FileResponse, error) {
	var resp FileResponse

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		err := writeUploadForm(writer, req)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/files", pr)
	if err != nil {
		return resp, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

func writeUploadForm(writer *multipart.Writer, req UploadRequest) error {
	part, err := writer.CreateFormFile("content", req.Filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return err
	}
	if err := writer.WriteField("filename", req.Filename); err != nil {
		return err
	}
	if req.MediaType != "" {
		if err := writer.WriteField("media_type", req.MediaType); err != nil {
			return err
		}
	}
	if req.DeclaredSHA256 != "" {
		if err := writer.WriteField("sha256", req.DeclaredSHA256); err != nil {
			return err
		}
	}
	if req.DeclaredSize > 0 {
		if err := writer.WriteField("size", strconv.FormatInt(req.DeclaredSize, 10)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) ListFiles(ctx context.Context, query url.Values) (ListFilesResponse, error) {
	var resp ListFilesResponse
	err := c.do(ctx, http.MethodGet, "/v1/files", query, nil, &resp)
	return resp, err
}

func (c *Client) GetFile(ctx context.Context, id string) (FileResponse, error) {
	var resp FileResponse
	err := c.do(ctx, http.MethodGet, "/v1/files/"+url.PathEscape(id), nil, nil, &resp)
	return resp, err
}

// DownloadFile streams the file content to a writer.
func (c *Client) DownloadFile(ctx context.Context, id string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/files/"+url.PathEscape(id)+"/download", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/files/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) StorageMetrics(ctx context.Context) (MetricsResponse, error) {
	var resp MetricsResponse
	err := c.do(ctx, http.MethodGet, "/v1/metrics/storage", nil, nil, &resp)
	return resp, err
}

// AdminGC triggers an orphan sweep. Requires FILEHUB_ADMIN_TOKEN.
func (c *Client) AdminGC(ctx context.Context) (GCResponse, error) {
	var resp GCResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/admin/gc", nil)
	if err != nil {
		return resp, err
	}
	c.setAdminHeader(req)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
		apiErr.Code = errResp.Code
		return apiErr
	}
	apiErr.Message = fmt.Sprintf("api error: %s", resp.Status)
	return apiErr
}

func (c *Client) setAdminHeader(req *http.Request) {
	if c.adminToken == "" || req == nil {
		return
	}
	req.Header.Set("X-Admin-Token", c.adminToken)
}

func httpTimeoutFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if raw == "" {
		return defaultHTTPTimeout
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	return defaultHTTPTimeout
}
