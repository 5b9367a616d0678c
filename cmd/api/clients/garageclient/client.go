package garageclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"car-advisor/cmd/api/httpclient"
	"car-advisor/garage"
)

const maxBodySize = 1024 * 1024

// Client 는 사고 분석 API(/analyze-accident/*) 호출을 담당한다.
type Client struct {
	base *httpclient.BaseClient
}

func New(baseURL string, cfg httpclient.Config) *Client {
	return &Client{base: httpclient.NewBaseClient(baseURL, cfg)}
}

func NewWithClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{base: httpclient.NewBaseClientWithClient(httpClient, baseURL)}
}

// AnalyzeQuery 는 텍스트 설명을 form-urlencoded 로 전송한다.
func (c *Client) AnalyzeQuery(ctx context.Context, query string) (*garage.RawAnalysis, error) {
	form := url.Values{}
	form.Set("query", query)

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/analyze-accident/query", nil, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

// AnalyzeImage 는 사진을 multipart "file" 필드로 전송한다.
func (c *Client) AnalyzeImage(ctx context.Context, img garage.Image) (*garage.RawAnalysis, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = "upload"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", img.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/analyze-accident/image", nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*garage.RawAnalysis, error) {
	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("analyze-accident response read failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &garage.StatusError{StatusCode: resp.StatusCode}
	}

	var out garage.RawAnalysis
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("analyze-accident response decode failed: %w", err)
	}
	return &out, nil
}
