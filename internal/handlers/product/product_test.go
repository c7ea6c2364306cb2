package producthandler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopapi/internal/handlers/httperr"
	producthandler "shopapi/internal/handlers/product"
	"shopapi/internal/handlers/product/mocks"
	"shopapi/internal/models"
	serviceerrors "shopapi/internal/service"
	"shopapi/pkg/lib/logger/slogdiscard"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestHandler(service *mocks.Service) *producthandler.Handler {
	return producthandler.New(slogdiscard.NewDiscardLogger(), service)
}

var pen = models.Product{Id: 5, Name: "Pen", Description: "Blue pen", Cost: decimal.RequireFromString("1.5"), Qty: 10}

func TestHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(s *mocks.Service)
		expectedCode int
		wantLen      int
	}{
		{
			name: "Success",
			setupMock: func(s *mocks.Service) {
				s.On("ListProducts", mock.Anything).Return([]models.Product{pen}, nil)
			},
			expectedCode: http.StatusOK,
			wantLen:      1,
		},
		{
			name: "Context canceled",
			setupMock: func(s *mocks.Service) {
				s.On("ListProducts", mock.Anything).Return([]models.Product(nil), serviceerrors.ErrContextCanceled)
			},
			expectedCode: httperr.StatusClientClosedRequest,
		},
		{
			name: "Failure",
			setupMock: func(s *mocks.Service) {
				s.On("ListProducts", mock.Anything).Return([]models.Product(nil), errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			ww := httptest.NewRecorder()
			newTestHandler(mockService).ListProducts(ww, req)

			resp := ww.Result()
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedCode, resp.StatusCode)

			if tt.expectedCode == http.StatusOK {
				var got []models.Product
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
				assert.Len(t, got, tt.wantLen)
				assert.Equal(t, "Pen", got[0].Name)
				assert.True(t, pen.Cost.Equal(got[0].Cost))
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetProduct(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		setupMock    func(s *mocks.Service)
		expectedCode int
	}{
		{
			name: "Success",
			path: "/products/5",
			setupMock: func(s *mocks.Service) {
				s.On("GetProduct", mock.Anything, 5).Return(pen, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid id",
			path:         "/products/abc",
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Not found",
			path: "/products/404",
			setupMock: func(s *mocks.Service) {
				s.On("GetProduct", mock.Anything, 404).Return(models.Product{}, serviceerrors.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Deadline exceeded",
			path: "/products/5",
			setupMock: func(s *mocks.Service) {
				s.On("GetProduct", mock.Anything, 5).Return(models.Product{}, serviceerrors.ErrDeadlineExceeded)
			},
			expectedCode: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			ww := httptest.NewRecorder()
			newTestHandler(mockService).GetProduct(ww, req)

			assert.Equal(t, tt.expectedCode, ww.Code)
			if tt.expectedCode == http.StatusOK {
				var got models.Product
				require.NoError(t, json.NewDecoder(ww.Body).Decode(&got))
				assert.Equal(t, 5, got.Id)
				assert.Equal(t, "Blue pen", got.Description)
				assert.Equal(t, 10, got.Qty)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_AddProduct(t *testing.T) {
	tests := []struct {
		name         string
		body         []byte
		setupMock    func(s *mocks.Service)
		expectedCode int
	}{
		{
			name: "Success",
			body: []byte(`{"name":"Pen","description":"Blue pen","cost":"1.5","qty":10}`),
			setupMock: func(s *mocks.Service) {
				s.On("AddProduct", mock.Anything, mock.MatchedBy(func(p models.NewProduct) bool {
					return p.Name == "Pen" && p.Qty == 10 && p.Cost.Equal(decimal.RequireFromString("1.5"))
				})).Return(pen, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Empty body",
			body:         nil,
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Missing name",
			body:         []byte(`{"description":"Blue pen","cost":1.5,"qty":10}`),
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Service failure",
			body: []byte(`{"name":"Pen","cost":1.5,"qty":1}`),
			setupMock: func(s *mocks.Service) {
				s.On("AddProduct", mock.Anything, mock.Anything).Return(models.Product{}, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(tt.body))
			ww := httptest.NewRecorder()
			newTestHandler(mockService).AddProduct(ww, req)

			assert.Equal(t, tt.expectedCode, ww.Code)
			if tt.expectedCode == http.StatusCreated {
				var got models.Product
				require.NoError(t, json.NewDecoder(ww.Body).Decode(&got))
				assert.Equal(t, 5, got.Id)
			}

			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateQty(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		body         []byte
		setupMock    func(s *mocks.Service)
		expectedCode int
	}{
		{
			name: "Success zero",
			path: "/products/5/qty",
			body: []byte(`{"qty":0}`),
			setupMock: func(s *mocks.Service) {
				s.On("UpdateQty", mock.Anything, 5, 0).Return(nil).Once()
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Negative rejected by service",
			path: "/products/5/qty",
			body: []byte(`{"qty":-1}`),
			setupMock: func(s *mocks.Service) {
				s.On("UpdateQty", mock.Anything, 5, -1).Return(serviceerrors.ErrInvalidArgument)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Missing qty",
			path:         "/products/5/qty",
			body:         []byte(`{}`),
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Invalid id",
			path:         "/products/x/qty",
			body:         []byte(`{"qty":1}`),
			setupMock:    func(s *mocks.Service) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Product not found",
			path: "/products/404/qty",
			body: []byte(`{"qty":1}`),
			setupMock: func(s *mocks.Service) {
				s.On("UpdateQty", mock.Anything, 404, 1).Return(serviceerrors.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(mocks.Service)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewReader(tt.body))
			ww := httptest.NewRecorder()
			newTestHandler(mockService).UpdateQty(ww, req)

			assert.Equal(t, tt.expectedCode, ww.Code)
			mockService.AssertExpectations(t)
		})
	}
}
