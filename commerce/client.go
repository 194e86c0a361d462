package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shopfront/models"
	"shopfront/utils"
)

const requestTimeout = 10 * time.Second

// Client is a typed HTTP client for the remote commerce service. Every
// response shape is decoded into an explicit struct at this boundary; a
// transport error, non-2xx status, or shape mismatch fails the call cleanly.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: requestTimeout + 5*time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", utils.GetUUID())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// Init exchanges the host-identity payload (or nothing, for an anonymous
// session) for balance and verification state.
func (c *Client) Init(ctx context.Context, hostPayload string) (InitResponse, error) {
	var body interface{} = struct{}{}
	if hostPayload != "" {
		body = InitRequest{InitData: hostPayload}
	}
	var out InitResponse
	err := c.do(ctx, http.MethodPost, "/init", body, &out)
	return out, err
}

func (c *Client) AddToCart(ctx context.Context, productID int) error {
	var out BasicResponse
	if err := c.do(ctx, http.MethodPost, "/cart/add", cartAddRequest{ProductID: productID}, &out); err != nil {
		return err
	}
	return checkBasic(out, "cart add rejected")
}

func (c *Client) UpdateCart(ctx context.Context, productID, quantity int) error {
	var out BasicResponse
	if err := c.do(ctx, http.MethodPost, "/cart/update", cartUpdateRequest{ProductID: productID, Quantity: quantity}, &out); err != nil {
		return err
	}
	return checkBasic(out, "cart update rejected")
}

func (c *Client) RemoveFromCart(ctx context.Context, productID int) error {
	var out BasicResponse
	if err := c.do(ctx, http.MethodPost, "/cart/remove", cartRemoveRequest{ProductID: productID}, &out); err != nil {
		return err
	}
	return checkBasic(out, "cart remove rejected")
}

func (c *Client) CartItems(ctx context.Context) (models.CartSnapshot, error) {
	var out models.CartSnapshot
	err := c.do(ctx, http.MethodGet, "/cart/items", nil, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (ProfileResponse, error) {
	var out ProfileResponse
	err := c.do(ctx, http.MethodGet, "/user/profile", nil, &out)
	return out, err
}

func (c *Client) Cities(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/cities", nil, &out)
	return out, err
}

// PickupLocations lists pickup points (locType "pickup") or delivery zones
// carrying a delivery price (locType "delivery") for a city.
func (c *Client) PickupLocations(ctx context.Context, locType, city string) ([]PickupLocation, error) {
	q := url.Values{}
	q.Set("type", locType)
	q.Set("city", city)
	var out []PickupLocation
	err := c.do(ctx, http.MethodGet, "/pickup-locations?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (OrderResponse, error) {
	var out OrderResponse
	err := c.do(ctx, http.MethodPost, "/order/create", req, &out)
	return out, err
}

func checkBasic(out BasicResponse, fallback string) error {
	if out.Success {
		return nil
	}
	if out.Error != "" {
		return errors.New(out.Error)
	}
	return errors.New(fallback)
}
