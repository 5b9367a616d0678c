package carinfoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"car-advisor/chat"
	"car-advisor/cmd/api/httpclient"
)

const maxBodySize = 1024 * 1024

var ErrMalformedAnswer = errors.New("car-info response is not valid json")

type Client struct {
	base *httpclient.BaseClient
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("car-info request failed: status=%d", e.StatusCode)
}

func New(baseURL string, cfg httpclient.Config) *Client {
	return &Client{base: httpclient.NewBaseClient(baseURL, cfg)}
}

func NewWithClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{base: httpclient.NewBaseClientWithClient(httpClient, baseURL)}
}

// CarInfo 는 차량 Q&A 챗봇(POST /chatbot/car-info)에 질의한다.
func (c *Client) CarInfo(ctx context.Context, in chat.CarInfoRequest) (*chat.CarInfoResponse, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/chatbot/car-info", nil, bytes.NewReader(buf))
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
		return nil, fmt.Errorf("car-info response read failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out chat.CarInfoResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAnswer, err)
	}
	return &out, nil
}
