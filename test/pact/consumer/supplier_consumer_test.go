//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	supplierclient "github.com/nexashop/storefront/internal/clients/http/supplier"
	pacttest "github.com/nexashop/storefront/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

func TestSupplierFeedContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	example := pacttest.ExampleProductPayload()
	productBodyMatcher := matchers.Map{
		"id":          matchers.Like(example["id"]),
		"title":       matchers.Like(example["title"]),
		"price":       matchers.Like(example["price"]),
		"stock":       matchers.Like(example["stock"]),
		"category":    matchers.Like(example["category"]),
		"image":       matchers.Like(example["image"]),
		"rating":      matchers.Like(example["rating"]),
		"reviewCount": matchers.Like(example["reviewCount"]),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StateFeedHasProducts).
		UponReceiving("a request for the full product feed").
		WithRequest("GET", "/products").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(productBodyMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateProductExists).
		UponReceiving("a request for an existing product").
		WithRequest("GET", "/products/"+pacttest.ExistingProductID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(productBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a missing product").
		WithRequest("GET", "/products/"+pacttest.MissingProductID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"error": matchers.S("product not found"),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		transport := &http.Transport{TLSClientConfig: config.TLSConfig}
		httpClient := &http.Client{Transport: transport, Timeout: 10 * time.Second}
		client, err := supplierclient.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port), httpClient)
		if err != nil {
			return fmt.Errorf("build supplier client: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		products, err := client.FetchProducts(ctx)
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		if len(products) == 0 {
			return fmt.Errorf("expected at least one product in the feed")
		}
		if products[0].ID == "" {
			return fmt.Errorf("expected product id to be set")
		}

		product, err := client.FetchProduct(ctx, pacttest.ExistingProductID)
		if err != nil {
			return fmt.Errorf("fetch product: %w", err)
		}
		if product.ID != pacttest.ExistingProductID {
			return fmt.Errorf("expected product %s, got %s", pacttest.ExistingProductID, product.ID)
		}

		if _, err := client.FetchProduct(ctx, pacttest.MissingProductID); !errors.Is(err, supplierclient.ErrProductNotFound) {
			return fmt.Errorf("expected not-found for %s, got %v", pacttest.MissingProductID, err)
		}

		return nil
	})
	require.NoError(t, err)
}
