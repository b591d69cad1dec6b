package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/nexbill-backend/utils"
)

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

var receiptImage = []byte{0xFF, 0xD8, 0xFF, 0xE0}

const receiptJSON = `{
  "restaurantName": "Bakmi GM",
  "items": [
    {"name": "Bakmi Ayam", "price": 36000, "quantity": 2},
    {"name": "Es Teh", "price": 8000, "quantity": 1}
  ],
  "totalTax": 8000,
  "totalServiceCharge": 4000
}`

func TestReceiptService_Ingest(t *testing.T) {
	extractor := &stubExtractor{text: receiptJSON}
	service := NewReceiptService(extractor)

	draft, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, "Bakmi GM", draft.Title)
	require.Len(t, draft.Items, 2)
	assert.NotEmpty(t, draft.Items[0].ID)
	assert.NotEqual(t, draft.Items[0].ID, draft.Items[1].ID)
	assert.Empty(t, draft.Items[0].AssignedPersonIDs)
	assert.Equal(t, 2, draft.Items[0].Quantity)
	assertAmount(t, "36000", draft.Items[0].Price)
	assertAmount(t, "8000", draft.Tax)
	assertAmount(t, "4000", draft.ServiceCharge)
	assertAmount(t, "92000", draft.Charges().Total())
}

func TestReceiptService_Ingest_FencedResponse(t *testing.T) {
	service := NewReceiptService(&stubExtractor{text: "```json\n" + receiptJSON + "\n```"})

	draft, err := service.Ingest(context.Background(), receiptImage, "image/png")
	require.NoError(t, err)
	assert.Len(t, draft.Items, 2)
}

func TestReceiptService_Ingest_DefaultTitle(t *testing.T) {
	service := NewReceiptService(&stubExtractor{text: `{"items": [], "totalTax": 0, "totalServiceCharge": 0}`})

	draft, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, utils.DefaultScanTitle, draft.Title)
	assert.Empty(t, draft.Items)
}

func TestReceiptService_Ingest_EmptyResponseLeavesDraft(t *testing.T) {
	session := newTestSession(newMemoryStore())
	_, err := session.AddItem("Existing", amount("12"), 1)
	require.NoError(t, err)
	before := session.View()

	service := NewReceiptService(&stubExtractor{text: ""})
	scanned, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")

	assert.Nil(t, scanned)
	assert.Equal(t, utils.KindIngestionEmpty, utils.KindOf(err))
	assert.Equal(t, before, session.View())
}

func TestReceiptService_Ingest_Unavailable(t *testing.T) {
	service := NewReceiptService(&stubExtractor{err: errors.New("connection refused")})

	_, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")

	assert.Equal(t, utils.KindIngestionUnavailable, utils.KindOf(err))
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
}

func TestReceiptService_Ingest_RejectsInput(t *testing.T) {
	extractor := &stubExtractor{text: receiptJSON}
	service := NewReceiptService(extractor)

	_, err := service.Ingest(context.Background(), nil, "image/jpeg")
	assert.Equal(t, utils.KindValidationFailed, utils.KindOf(err))

	_, err = service.Ingest(context.Background(), receiptImage, "application/pdf")
	assert.Equal(t, utils.KindValidationFailed, utils.KindOf(err))

	assert.Zero(t, extractor.calls)
}

func TestParseExtraction_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "Sorry, I cannot read this receipt."},
		{"truncated", `{"items": [{"name": "Tea"`},
		{"missing items", `{"totalTax": 0, "totalServiceCharge": 0}`},
		{"missing tax", `{"items": [], "totalServiceCharge": 0}`},
		{"missing service charge", `{"items": [], "totalTax": 0}`},
		{"negative tax", `{"items": [], "totalTax": -1, "totalServiceCharge": 0}`},
		{"negative service charge", `{"items": [], "totalTax": 0, "totalServiceCharge": -2}`},
		{"negative price", `{"items": [{"name": "Tea", "price": -5, "quantity": 1}], "totalTax": 0, "totalServiceCharge": 0}`},
		{"zero quantity", `{"items": [{"name": "Tea", "price": 5, "quantity": 0}], "totalTax": 0, "totalServiceCharge": 0}`},
		{"fractional quantity", `{"items": [{"name": "Tea", "price": 5, "quantity": 1.5}], "totalTax": 0, "totalServiceCharge": 0}`},
		{"huge quantity", `{"items": [{"name": "Tea", "price": 5, "quantity": 1e12}], "totalTax": 0, "totalServiceCharge": 0}`},
		{"missing quantity", `{"items": [{"name": "Tea", "price": 5}], "totalTax": 0, "totalServiceCharge": 0}`},
		{"blank name", `{"items": [{"name": " ", "price": 5, "quantity": 1}], "totalTax": 0, "totalServiceCharge": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(tt.text)
			assert.Equal(t, utils.KindIngestionMalformed, utils.KindOf(err))
		})
	}
}

func TestParseExtraction_WholeNumberQuantity(t *testing.T) {
	extraction, err := ParseExtraction(`{"items": [{"name": "Tea", "price": 5, "quantity": 2.0}], "totalTax": 0, "totalServiceCharge": 0}`)
	require.NoError(t, err)

	draft := DraftFromExtraction(extraction)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 2, draft.Items[0].Quantity)
	assertAmount(t, "10", draft.Charges().Subtotal())
}

func TestParseExtraction_Empty(t *testing.T) {
	for _, text := range []string{"", "   \n", "```\n```"} {
		_, err := ParseExtraction(text)
		assert.Equal(t, utils.KindIngestionEmpty, utils.KindOf(err), "text %q", text)
	}
}

func TestStripFormatting(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"padded", "  {\"a\":1}\n", `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"single line fence", "```json{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripFormatting(tt.input))
		})
	}
}

func TestClaudeExtractor_Extract(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content": [{"type": "text", "text": "{\"items\": []}"}]}`))
	}))
	defer server.Close()

	extractor := NewClaudeExtractor("test-key", server.URL, "test-model", 5*time.Second)
	text, err := extractor.Extract(context.Background(), receiptImage, "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, `{"items": []}`, text)
	assert.Equal(t, "test-model", received["model"])
}

func TestClaudeExtractor_Extract_NoText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content": []}`))
	}))
	defer server.Close()

	service := NewReceiptService(NewClaudeExtractor("test-key", server.URL, "test-model", 5*time.Second))
	_, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")

	assert.Equal(t, utils.KindIngestionEmpty, utils.KindOf(err))
}

func TestClaudeExtractor_Extract_SuccessfulReplyShapes(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected utils.ErrorKind
	}{
		{"empty body", "", utils.KindIngestionEmpty},
		{"whitespace body", "  \n", utils.KindIngestionEmpty},
		{"html body", "<html>oops</html>", utils.KindIngestionMalformed},
		{"truncated json", `{"content": [`, utils.KindIngestionMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			service := NewReceiptService(NewClaudeExtractor("test-key", server.URL, "test-model", 5*time.Second))
			draft, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")

			assert.Nil(t, draft)
			assert.Equal(t, tt.expected, utils.KindOf(err))
		})
	}
}

func TestClaudeExtractor_Extract_MalformedReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	}))
	defer server.Close()

	extractor := NewClaudeExtractor("test-key", server.URL, "test-model", 5*time.Second)
	_, err := extractor.Extract(context.Background(), receiptImage, "image/jpeg")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClaudeExtractor_Extract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	service := NewReceiptService(NewClaudeExtractor("test-key", server.URL, "test-model", 5*time.Second))
	_, err := service.Ingest(context.Background(), receiptImage, "image/jpeg")

	assert.Equal(t, utils.KindIngestionUnavailable, utils.KindOf(err))
}

func TestClaudeExtractor_Extract_MissingKey(t *testing.T) {
	extractor := NewClaudeExtractor("", "http://127.0.0.1:0", "test-model", time.Second)

	_, err := extractor.Extract(context.Background(), receiptImage, "image/jpeg")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClaudeExtractor_Extract_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewReceiptService(NewClaudeExtractor("test-key", server.URL, "test-model", 5*time.Second))
	_, err := service.Ingest(ctx, receiptImage, "image/jpeg")

	assert.Equal(t, utils.KindIngestionUnavailable, utils.KindOf(err))
}

var _ Extractor = (*ClaudeExtractor)(nil)
