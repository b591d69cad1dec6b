package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEvenly(t *testing.T) {
	assert.True(t, SplitEvenly(NewAmount(100), 4).Equal(decimal.NewFromInt(25)))
	assert.True(t, SplitEvenly(NewAmount(100), 0).IsZero())
	assert.True(t, SplitEvenly(NewAmount(100), -1).IsZero())
}

func TestSafeDiv(t *testing.T) {
	assert.True(t, SafeDiv(NewAmount(10), Zero).IsZero())
	assert.True(t, SafeDiv(NewAmount(10), NewAmount(4)).Equal(NewAmount(2.5)))
}

func TestLineTotalAndSum(t *testing.T) {
	assert.True(t, LineTotal(NewAmount(12.5), 3).Equal(NewAmount(37.5)))
	assert.True(t, Sum(NewAmount(0.1), NewAmount(0.2)).Equal(NewAmount(0.3)))
	assert.True(t, Sum().IsZero())
}

func TestRoundForDisplay(t *testing.T) {
	third := SplitEvenly(NewAmount(100), 3)
	assert.Equal(t, "33.33", RoundForDisplay(third).String())
}

func TestAmountMarshalsAsNumber(t *testing.T) {
	payload, err := json.Marshal(map[string]Amount{"total": NewAmount(55)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 55}`, string(payload))
}

func TestTitleOrDefault(t *testing.T) {
	assert.Equal(t, "Untitled Bill", TitleOrDefault("   ", DefaultBillTitle))
	assert.Equal(t, "Warung Bu Tini", TitleOrDefault(" Warung  Bu\tTini ", DefaultBillTitle))
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "Me_a_b", CleanFileName("Me a/b"))
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("scan: %w", NewIngestionEmptyError())

	assert.Equal(t, KindIngestionEmpty, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
		kind ErrorKind
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest, KindValidationFailed},
		{"not found", NewNotFoundError(ErrBillNotFound), http.StatusNotFound, KindNotFound},
		{"unavailable", NewIngestionUnavailableError(errors.New("dial")), http.StatusBadGateway, KindIngestionUnavailable},
		{"malformed", NewIngestionMalformedError("missing items", nil), http.StatusUnprocessableEntity, KindIngestionMalformed},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.kind), body["kind"])
		})
	}
}

func TestValidateItemData(t *testing.T) {
	assert.NoError(t, ValidateItemData("Tea", NewAmount(0), 1))
	assert.Error(t, ValidateItemData("", NewAmount(1), 1))
	assert.Error(t, ValidateItemData("Tea", NewAmount(-1), 1))
	assert.Error(t, ValidateItemData("Tea", NewAmount(1), 0))
}
