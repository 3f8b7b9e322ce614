package verifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestValidateDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/validate_document", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Alice K", r.FormValue("userEnteredName"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "aadhaar.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "success",
			"extracted_text": {"Name": "Alice K", "AadhaarNumber": "1234"},
			"validation": {
				"cnn_tampering_check": {"is_tampered": false, "confidence": 0.97},
				"nlp_consistency_check": {"is_consistent": true, "confidence": 0.91}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))

	result, err := c.ValidateDocument(context.Background(), []byte("fake-image"), "aadhaar.jpg", "Alice K")
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "Alice K", result.ExtractedText["Name"])
	assert.Equal(t, "1234", result.ExtractedText["AadhaarNumber"])
	assert.False(t, result.Validation.CNNTamperingCheck.IsTampered)
	assert.InDelta(t, 0.91, result.Validation.NLPConsistencyCheck.Confidence, 1e-9)
}

func TestValidateDocument_FailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "failure"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))

	result, err := c.ValidateDocument(context.Background(), []byte("x"), "doc.png", "Bob")
	require.NoError(t, err)
	assert.False(t, result.Success())
}

func TestCheckFraud(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/check_fraud", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Alice K", r.PostFormValue("name_on_doc"))
		assert.Equal(t, "Alice", r.PostFormValue("user_name"))
		assert.Equal(t, "1234", r.PostFormValue("doc_number"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fraud_analysis": {
				"final_fraud_score": 12,
				"risk_reasons": ["name mismatch"],
				"name_match_score": 0.82,
				"is_duplicate_document": false
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))

	analysis, err := c.CheckFraud(context.Background(), "Alice K", "Alice", "1234")
	require.NoError(t, err)
	assert.InDelta(t, 12, analysis.FinalFraudScore, 1e-9)
	assert.Equal(t, []string{"name mismatch"}, analysis.RiskReasons)
	assert.False(t, analysis.IsDuplicateDocument)
}

func TestCheckFraud_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, zaptest.NewLogger(t))

	_, err := c.CheckFraud(context.Background(), "a", "b", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestValidateDocument_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and
		// observes the client disconnect; otherwise r.Context() is never
		// cancelled and srv.Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Minute, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ValidateDocument(ctx, []byte("x"), "doc.png", "Bob")
	require.Error(t, err)
}
