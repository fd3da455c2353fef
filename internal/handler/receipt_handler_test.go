package handler

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/receipt"
)

type mockScanner struct {
	scanFn func(imageData []byte, mimeType string) (*receipt.Fields, error)
}

func (m *mockScanner) Scan(_ context.Context, imageData []byte, mimeType string) (*receipt.Fields, error) {
	if m.scanFn != nil {
		return m.scanFn(imageData, mimeType)
	}
	return nil, fmt.Errorf("not configured")
}

func newReceiptTestRouter(scanner receipt.Scanner, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuthTx(authUserID))
	h := NewReceiptHandler(scanner)
	r.POST("/v1/receipts/scan", h.ScanReceipt)
	return r
}

func receiptUpload(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "receipt.jpg")
	if err != nil {
		t.Fatalf("failed to build upload: %v", err)
	}
	fw.Write(data)
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestScanReceipt(t *testing.T) {
	tests := []struct {
		name           string
		authUserID     string
		field          string
		scanFn         func([]byte, string) (*receipt.Fields, error)
		expectedStatus int
	}{
		{
			name:       "success - fields extracted",
			authUserID: "usr-001",
			field:      "receipt",
			scanFn: func(data []byte, mime string) (*receipt.Fields, error) {
				return &receipt.Fields{Amount: 42.15, MerchantName: "Tesco"}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "unprocessable - extraction failed",
			authUserID: "usr-001",
			field:      "receipt",
			scanFn: func(data []byte, mime string) (*receipt.Fields, error) {
				return nil, fmt.Errorf("%w: garbled output", models.ErrExtractionFailed)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "bad request - wrong form field",
			authUserID:     "usr-001",
			field:          "image",
			scanFn:         nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unauthorized - no authenticated user",
			authUserID:     "",
			field:          "receipt",
			scanFn:         nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newReceiptTestRouter(&mockScanner{scanFn: tt.scanFn}, tt.authUserID)
			body, contentType := receiptUpload(t, tt.field, []byte("fake image bytes"))
			req, _ := http.NewRequest(http.MethodPost, "/v1/receipts/scan", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
