package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultStorefrontVersion is the Storefront API version queried.
const DefaultStorefrontVersion = "2024-01"

// ErrProductNotFound is returned when the storefront answers with a null product.
var ErrProductNotFound = errors.New("product not found")

// ProductNotFoundReason explains the usual cause of ErrProductNotFound.
const ProductNotFoundReason = "Shopify returned null. Check if product is Active and published to Storefront API channel."

const productQuery = `query getProduct($handle: String!) {
  product(handle: $handle) {
    id
    title
    description
    images(first: 1) { edges { node { url altText } } }
    variants(first: 1) { edges { node { id price { amount currencyCode } } } }
  }
}`

// StorefrontProduct mirrors the product selection of productQuery.
type StorefrontProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Images      struct {
		Edges []struct {
			Node struct {
				URL     string  `json:"url"`
				AltText *string `json:"altText"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID    string `json:"id"`
				Price struct {
					Amount       string `json:"amount"`
					CurrencyCode string `json:"currencyCode"`
				} `json:"price"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// Storefront queries the Shopify Storefront GraphQL API.
type Storefront struct {
	client   *http.Client
	endpoint string
	token    string
}

// NewStorefront creates a client for the shop at domain. endpoint overrides
// the derived GraphQL URL when set.
func NewStorefront(client *http.Client, domain, token, endpoint string) *Storefront {
	if endpoint == "" && domain != "" {
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", strings.TrimSuffix(domain, "/"), DefaultStorefrontVersion)
	}
	return &Storefront{client: client, endpoint: endpoint, token: token}
}

// Product looks a product up by handle.
func (s *Storefront) Product(ctx context.Context, handle string) (*StorefrontProduct, error) {
	if s.endpoint == "" || s.token == "" {
		return nil, errors.New("shopify storefront is not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"query":     productQuery,
		"variables": map[string]string{"handle": handle},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Storefront-Access-Token", s.token)

	body, err := do(s.client, req)
	if err != nil {
		observe("shopify", err)
		return nil, fmt.Errorf("shopify API error: %w", err)
	}

	var resp struct {
		Data struct {
			Product *StorefrontProduct `json:"product"`
		} `json:"data"`
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		observe("shopify", err)
		return nil, fmt.Errorf("failed to decode storefront response: %w", err)
	}
	if len(resp.Errors) > 0 && string(resp.Errors) != "null" {
		err := fmt.Errorf("GraphQL errors: %s", resp.Errors)
		observe("shopify", err)
		return nil, err
	}

	observe("shopify", nil)
	if resp.Data.Product == nil {
		return nil, ErrProductNotFound
	}
	return resp.Data.Product, nil
}
