package cadenza

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/cadenza/internal/shared"
)

// requireID rejects empty identifiers before any I/O happens.
func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s id must not be empty", shared.ErrInvalidArgument, kind)
	}
	return nil
}

// requireIDs rejects empty or empty-element identifier lists.
func requireIDs(kind string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one %s id is required", shared.ErrInvalidArgument, kind)
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: %s id must not be empty", shared.ErrInvalidArgument, kind)
		}
	}
	return nil
}

// pageParams builds limit/offset query parameters, skipping zero values.
func pageParams(limit, offset int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	return params
}

func withMarket(params url.Values, market string) url.Values {
	if market != "" {
		params.Set("market", market)
	}
	return params
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	data, err := c.Request(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return decode(data, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := c.Request(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(data, out)
}

func (c *Client) putJSON(ctx context.Context, path string, body any) error {
	_, err := c.Request(ctx, http.MethodPut, path, nil, body)
	return err
}

func (c *Client) deleteJSON(ctx context.Context, path string, body, out any) error {
	data, err := c.Request(ctx, http.MethodDelete, path, nil, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(data, out)
}

func decode(data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeBools decodes the boolean-list responses of the check-saved
// endpoints. A shape mismatch or length mismatch invalidates the whole
// response rather than guessing at partial results.
func decodeBools(data json.RawMessage, want int) ([]bool, error) {
	var flags []bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("%w: expected a boolean list response", shared.ErrAPIRequest)
	}
	if len(flags) != want {
		return nil, fmt.Errorf("%w: expected %d booleans, got %d", shared.ErrAPIRequest, want, len(flags))
	}
	return flags, nil
}
