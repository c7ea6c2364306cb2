package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"shopapi/internal/app"
	"shopapi/internal/database/sqlstore"
	"shopapi/internal/models"
	"shopapi/pkg/lib/logger/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	log := slogdiscard.NewDiscardLogger()
	storage, err := sqlstore.New(context.Background(), log, sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { storage.Close() })

	srv := httptest.NewServer(app.New(log, 8080, storage).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestShopFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/products", `{"name":"Pen","description":"Blue pen","cost":1.5,"qty":10}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var pen models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&pen))
	assert.NotZero(t, pen.Id)

	resp = do(t, http.MethodGet, srv.URL+"/products/"+strconv.Itoa(pen.Id), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Pen", got.Name)
	assert.Equal(t, "Blue pen", got.Description)
	assert.Equal(t, "1.5", got.Cost.String())
	assert.Equal(t, 10, got.Qty)

	resp = do(t, http.MethodPut, srv.URL+"/products/"+strconv.Itoa(pen.Id)+"/qty", `{"qty":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/products/"+strconv.Itoa(pen.Id)+"/qty", `{"qty":0}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/carts/nouser", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&empty))
	assert.Empty(t, empty)

	for i := 0; i < 2; i++ {
		resp = do(t, http.MethodPost, srv.URL+"/carts/u1/items", `{"product_id":`+strconv.Itoa(pen.Id)+`}`)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp = do(t, http.MethodPost, srv.URL+"/carts/u1/items", `{"product_id":999}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/carts/u1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var contents []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&contents))
	require.Len(t, contents, 2)
	assert.Equal(t, 0, contents[0].Qty)

	resp = do(t, http.MethodGet, srv.URL+"/carts/u1/details", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.Cart
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cart))
	assert.Equal(t, "u1", cart.Username)
	assert.Equal(t, contents, cart.Contents)
	assert.Equal(t, "3", cart.Cost.String())

	resp = do(t, http.MethodDelete, srv.URL+"/carts/u1/items/"+strconv.Itoa(pen.Id), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/carts/u1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/carts/u1/details", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoutes_Unknown(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPatch, srv.URL+"/products", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/carts/u1/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
