// Package e2e provides end-to-end tests for the inventory HTTP API.
// Each test runs the real application handler in an httptest.Server backed by
// a fresh in-memory store, so ids always start at 1.
package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/abgdnv/inventory/internal/product/app"
	"github.com/abgdnv/inventory/internal/product/service"
	"github.com/abgdnv/inventory/pkg/messaging"
	"github.com/abgdnv/inventory/pkg/metrics"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// skipE2ETests is the environment variable that can be set to skip E2E tests.
const skipE2ETests = "INVENTORY_SKIP_E2E_TESTS"

// productURL is the base URL for the inventory API.
const productURL = "/api/products"

type InventoryE2ESuite struct {
	suite.Suite
	server     *httptest.Server
	httpClient *http.Client
	logger     *slog.Logger
}

func TestInventoryE2E(t *testing.T) {
	if os.Getenv(skipE2ETests) == "1" {
		t.Skip("Skipping E2E tests based on " + skipE2ETests + " env var")
	}
	suite.Run(t, new(InventoryE2ESuite))
}

func (s *InventoryE2ESuite) SetupSuite() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTest starts a new application so every test sees an empty store.
func (s *InventoryE2ESuite) SetupTest() {
	deps := app.SetupDependencies(s.logger, messaging.NopPublisher{}, metrics.New("e2e"))
	handler := app.SetupHttpHandler(deps, app.HTTPOptions{
		AllowedOrigins: []string{"http://localhost:3000"},
		MetricsPath:    "/metrics",
	})
	s.server = httptest.NewServer(handler)
	s.httpClient = s.server.Client()
}

func (s *InventoryE2ESuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

// --------------------------------------------------------------------------
// ------------------------------- Scenarios --------------------------------
// --------------------------------------------------------------------------

func (s *InventoryE2ESuite) TestCreateAndGet() {
	// given
	payload := map[string]any{"name": "Laptop", "sku": "LAP123", "price": 1200.0, "stock": 10, "category": "Electronics"}
	// when
	id, code := s.createProduct(payload)
	// then
	s.Require().Equal(http.StatusOK, code)
	s.Equal(1, id)

	found, code := s.findByID(strconv.Itoa(id))
	s.Require().Equal(http.StatusOK, code)
	s.Equal(service.ProductDto{ID: 1, Name: "Laptop", Sku: "LAP123", Price: 1200, Stock: 10, Category: "Electronics"}, found)
}

func (s *InventoryE2ESuite) TestPartialUpdate() {
	// given
	id, code := s.createProduct(map[string]any{"name": "Old Laptop", "sku": "OLAP", "price": 1000.0, "stock": 5, "category": "Electronics"})
	s.Require().Equal(http.StatusOK, code)
	// when
	var updated service.ProductDto
	code = s.doJSON(http.MethodPut, productURL+"/"+strconv.Itoa(id), map[string]any{"sku": "NLAP", "price": 900.0}, &updated)
	// then
	s.Require().Equal(http.StatusOK, code)
	s.Equal(service.ProductDto{ID: id, Name: "Old Laptop", Sku: "NLAP", Price: 900, Stock: 5, Category: "Electronics"}, updated)
}

func (s *InventoryE2ESuite) TestDeleteKeepsOthersAndNeverReusesIDs() {
	// given
	first, _ := s.createProduct(map[string]any{"name": "A", "sku": "A1", "price": 1.0, "stock": 1, "category": "C"})
	second, _ := s.createProduct(map[string]any{"name": "B", "sku": "B1", "price": 1.0, "stock": 1, "category": "C"})
	s.Require().Equal(1, first)
	s.Require().Equal(2, second)
	// when
	var deleted map[string]bool
	code := s.doJSON(http.MethodDelete, productURL+"/1", nil, &deleted)
	// then
	s.Require().Equal(http.StatusOK, code)
	s.Equal(map[string]bool{"ok": true}, deleted)

	list, code := s.findAll()
	s.Require().Equal(http.StatusOK, code)
	s.Require().Len(list, 1)
	s.Equal(2, list[0].ID)

	_, code = s.findByID("1")
	s.Equal(http.StatusNotFound, code)

	third, _ := s.createProduct(map[string]any{"name": "C", "sku": "A1", "price": 1.0, "stock": 0, "category": "C"})
	s.Equal(3, third)
}

func (s *InventoryE2ESuite) TestErrors() {
	_, code := s.createProduct(map[string]any{"name": "Laptop", "sku": "LAP123", "price": 1200.0, "stock": 10, "category": "Electronics"})
	s.Require().Equal(http.StatusOK, code)

	testCases := []struct {
		name           string
		method         string
		url            string
		payload        any
		expectedCode   int
		expectedDetail string
	}{
		{
			name:           "duplicate sku ignoring case",
			method:         http.MethodPost,
			url:            productURL,
			payload:        map[string]any{"name": "Other", "sku": "lap123", "price": 5.0, "stock": 1, "category": "X"},
			expectedCode:   http.StatusBadRequest,
			expectedDetail: "SKU must be unique",
		},
		{
			name:           "negative price",
			method:         http.MethodPost,
			url:            productURL,
			payload:        map[string]any{"name": "Other", "sku": "OTH", "price": -5.0, "stock": 1, "category": "X"},
			expectedCode:   http.StatusBadRequest,
			expectedDetail: "price must be greater than 0",
		},
		{
			name:           "missing name",
			method:         http.MethodPost,
			url:            productURL,
			payload:        map[string]any{"sku": "OTH", "price": 5.0, "stock": 1, "category": "X"},
			expectedCode:   http.StatusBadRequest,
			expectedDetail: "name is required",
		},
		{
			name:           "get missing product",
			method:         http.MethodGet,
			url:            productURL + "/999",
			expectedCode:   http.StatusNotFound,
			expectedDetail: "Product not found",
		},
		{
			name:           "update missing product",
			method:         http.MethodPut,
			url:            productURL + "/999",
			payload:        map[string]any{"price": 1.0},
			expectedCode:   http.StatusNotFound,
			expectedDetail: "Product not found",
		},
		{
			name:           "update with negative stock",
			method:         http.MethodPut,
			url:            productURL + "/1",
			payload:        map[string]any{"stock": -1},
			expectedCode:   http.StatusBadRequest,
			expectedDetail: "stock must be greater than or equal to 0",
		},
		{
			name:           "delete missing product",
			method:         http.MethodDelete,
			url:            productURL + "/999",
			expectedCode:   http.StatusNotFound,
			expectedDetail: "Product not found",
		},
		{
			name:           "non-integer id",
			method:         http.MethodGet,
			url:            productURL + "/abc",
			expectedCode:   http.StatusBadRequest,
			expectedDetail: "Invalid ID: abc",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			// when
			var body struct {
				Detail string `json:"detail"`
			}
			code := s.doJSON(tc.method, tc.url, tc.payload, &body)
			// then
			s.Equal(tc.expectedCode, code)
			s.Equal(tc.expectedDetail, body.Detail)
		})
	}

	// the rejected requests left the original product untouched
	found, code := s.findByID("1")
	s.Require().Equal(http.StatusOK, code)
	s.Equal(10, found.Stock)
}

func (s *InventoryE2ESuite) TestMetricsExposed() {
	_, _ = s.createProduct(map[string]any{"name": "A", "sku": "A1", "price": 1.0, "stock": 1, "category": "C"})

	res, err := s.httpClient.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	s.Require().NoError(err)

	s.Equal(http.StatusOK, res.StatusCode)
	s.Contains(string(body), "e2e_products_live 1")
	s.Contains(string(body), `e2e_products_operations_total{operation="create",outcome="success"} 1`)
}

// --------------------------------------------------------------------------
// ---------------------------- Helper methods ------------------------------
// --------------------------------------------------------------------------

func (s *InventoryE2ESuite) createProduct(payload map[string]any) (int, int) {
	s.T().Helper()
	var id int
	code := s.doJSON(http.MethodPost, productURL, payload, &id)
	return id, code
}

func (s *InventoryE2ESuite) findByID(id string) (service.ProductDto, int) {
	s.T().Helper()
	var product service.ProductDto
	code := s.doJSON(http.MethodGet, productURL+"/"+id, nil, &product)
	return product, code
}

func (s *InventoryE2ESuite) findAll() ([]service.ProductDto, int) {
	s.T().Helper()
	var list []service.ProductDto
	code := s.doJSON(http.MethodGet, productURL, nil, &list)
	return list, code
}

// doJSON sends payload as JSON and decodes the response body into out.
// Returns the HTTP status code.
func (s *InventoryE2ESuite) doJSON(method, path string, payload, out any) int {
	s.T().Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(s.T(), err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.server.URL+path, body)
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(s.T(), json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}
