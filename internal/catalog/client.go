package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const statusSuccess = "success"

var (
	// ErrLoadFailed is the umbrella for every catalog load failure; the
	// storefront only distinguishes loaded from not loaded.
	ErrLoadFailed = errors.New("catalog load failed")

	ErrUnavailable = fmt.Errorf("catalog unreachable: %w", ErrLoadFailed)
	ErrBadStatus   = fmt.Errorf("catalog bad http status: %w", ErrLoadFailed)
	ErrBadPayload  = fmt.Errorf("catalog bad payload: %w", ErrLoadFailed)
)

type Client struct {
	URL    string
	Client *http.Client
}

func NewClient(endpoint string) *Client {
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = strings.TrimRight(endpoint, "/")
	}
	return &Client{
		URL:    endpoint,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type envelope struct {
	Status string `json:"status"`
	Data   []struct {
		Product Product `json:"product"`
	} `json:"data"`
}

// Load performs one GET against the product endpoint and unwraps the
// response envelope. Products failing Normalize are dropped; the count of
// dropped products is returned alongside the kept list.
func (c *Client) Load(ctx context.Context) ([]Product, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, 0, ErrUnavailable
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, 0, ErrUnavailable
		}
		return nil, 0, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, 0, fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if env.Status != statusSuccess || env.Data == nil {
		return nil, 0, fmt.Errorf("%w: status=%q", ErrBadPayload, env.Status)
	}

	products := make([]Product, 0, len(env.Data))
	for _, entry := range env.Data {
		products = append(products, entry.Product)
	}

	kept, dropped := Normalize(products)
	return kept, dropped, nil
}
