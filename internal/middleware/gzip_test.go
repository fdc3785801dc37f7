package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unlockEcho читает пароль разблокировки и отвечает JSON с его длиной.
func unlockEcho(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"unlocked": req.Password == "STOCK101",
		"length":   len(req.Password),
	})
}

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func TestGzipMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		compressBody   bool
		acceptEncoding string
		wantEncoding   string
		wantUnlocked   bool
	}{
		{
			name:           "gzip response for plain request",
			body:           `{"password":"STOCK101"}`,
			acceptEncoding: "gzip",
			wantEncoding:   "gzip",
			wantUnlocked:   true,
		},
		{
			name:           "plain response when gzip not accepted",
			body:           `{"password":"WRONG"}`,
			acceptEncoding: "",
			wantEncoding:   "",
		},
		{
			name:           "compressed request and response",
			body:           `{"password":"STOCK101"}`,
			compressBody:   true,
			acceptEncoding: "gzip, deflate",
			wantEncoding:   "gzip",
			wantUnlocked:   true,
		},
		{
			name:           "compressed request, plain response",
			body:           `{"password":"FOREX777"}`,
			compressBody:   true,
			acceptEncoding: "identity",
			wantEncoding:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(tt.body)
			if tt.compressBody {
				body = gzipBytes(t, tt.body)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/course/unlock", body)
			req.Header.Set("Content-Type", "application/json")
			if tt.compressBody {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}

			w := httptest.NewRecorder()
			GzipMiddleware(http.HandlerFunc(unlockEcho)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			require.Equal(t, http.StatusOK, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
			assert.Equal(t, tt.wantEncoding, res.Header.Get("Content-Encoding"))

			var r io.Reader = res.Body
			if tt.wantEncoding == "gzip" {
				gr, err := gzip.NewReader(res.Body)
				require.NoError(t, err)
				defer gr.Close()
				r = gr
			}

			var got struct {
				Unlocked bool `json:"unlocked"`
				Length   int  `json:"length"`
			}
			require.NoError(t, json.NewDecoder(r).Decode(&got))
			assert.Equal(t, tt.wantUnlocked, got.Unlocked)
			assert.Equal(t, len(tt.body)-len(`{"password":""}`), got.Length)
		})
	}
}

func TestGzipMiddleware_NoContentIsNotCompressed(t *testing.T) {
	h := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/toast", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, res.Header.Get("Content-Encoding"))
}

func TestGzipMiddleware_BrokenGzipBody(t *testing.T) {
	h := GzipMiddleware(http.HandlerFunc(unlockEcho))

	req := httptest.NewRequest(http.MethodPost, "/api/course/unlock", strings.NewReader("definitely not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
