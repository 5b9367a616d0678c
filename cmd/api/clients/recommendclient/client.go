package recommendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"car-advisor/cmd/api/httpclient"
	"car-advisor/recommend"
)

const maxBodySize = 2 * 1024 * 1024

// Client 는 외부 추천 API(POST /recommend) 호출을 담당한다.
type Client struct {
	base *httpclient.BaseClient
}

func New(baseURL string, cfg httpclient.Config) *Client {
	return &Client{base: httpclient.NewBaseClient(baseURL, cfg)}
}

func NewWithClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{base: httpclient.NewBaseClientWithClient(httpClient, baseURL)}
}

// Recommend 는 선호 조건을 그대로 전달하고 응답을 디코딩한다.
// 2xx 가 아니면 *recommend.StatusError, 바디 해석에 실패하면 recommend.ErrMalformedResponse 를 감싼 에러를 반환한다.
func (c *Client) Recommend(ctx context.Context, in recommend.Request) (*recommend.Response, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/recommend", nil, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("recommend response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &recommend.StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out recommend.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", recommend.ErrMalformedResponse, err)
	}
	return &out, nil
}
