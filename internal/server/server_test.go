package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"stickcheck/internal/analyze"
)

type stubRunner struct {
	gotReq analyze.Request
	resp   analyze.Response
	panics bool
}

func (s *stubRunner) Run(ctx context.Context, req analyze.Request) analyze.Response {
	if s.panics {
		panic("pipeline exploded")
	}
	s.gotReq = req
	return s.resp
}

func doAnalyze(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) analyze.Response {
	t.Helper()
	var resp analyze.Response
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAnalyze_Success(t *testing.T) {
	runner := &stubRunner{resp: analyze.Response{
		Results: []analyze.AnalysisRecord{
			{ItemID: "1", Title: "stick", Confidence: 80, Reason: "red flags"},
		},
	}}
	srv := New(":0", runner, true)

	w := doAnalyze(t, srv, `{"usernames": ["someuser"], "threshold": 60}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, analyze.Request{Usernames: []string{"someuser"}, Threshold: 60}, runner.gotReq)

	resp := decodeResponse(t, w)
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, "1", resp.Results[0].ItemID)
	assert.Empty(t, resp.Errors)
}

func TestHandleAnalyze_DefaultThreshold(t *testing.T) {
	runner := &stubRunner{resp: analyze.Response{Results: []analyze.AnalysisRecord{}}}
	srv := New(":0", runner, true)

	w := doAnalyze(t, srv, `{"usernames": ["someuser"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, analyze.DefaultThreshold, runner.gotReq.Threshold)
}

func TestHandleAnalyze_ExplicitZeroThreshold(t *testing.T) {
	runner := &stubRunner{resp: analyze.Response{Results: []analyze.AnalysisRecord{}}}
	srv := New(":0", runner, true)

	w := doAnalyze(t, srv, `{"usernames": ["someuser"], "threshold": 0}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, runner.gotReq.Threshold)
}

func TestHandleAnalyze_MissingUsernames(t *testing.T) {
	srv := New(":0", &stubRunner{}, true)

	for _, body := range []string{
		`{}`,
		`{"usernames": []}`,
		`{"usernames": ["", "   "]}`,
	} {
		w := doAnalyze(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)

		resp := decodeResponse(t, w)
		assert.Empty(t, resp.Results)
		assert.Equal(t, []string{"Please provide at least one username"}, resp.Errors)
	}
}

func TestHandleAnalyze_InvalidJSON(t *testing.T) {
	srv := New(":0", &stubRunner{}, true)

	w := doAnalyze(t, srv, `{"usernames": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	assert.Empty(t, resp.Results)
	assert.NotEmpty(t, resp.Errors)
}

func TestHandleAnalyze_MissingCredential(t *testing.T) {
	srv := New(":0", &stubRunner{}, false)

	w := doAnalyze(t, srv, `{"usernames": ["someuser"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	assert.Empty(t, resp.Results)
	assert.Equal(t, []string{"Vision model API key not configured"}, resp.Errors)
}

func TestHandleAnalyze_PanicRecovered(t *testing.T) {
	srv := New(":0", &stubRunner{panics: true}, true)

	w := doAnalyze(t, srv, `{"usernames": ["someuser"]}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	assert.Empty(t, resp.Results)
	assert.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "Server error")
}

func TestHandleAnalyze_MethodNotAllowed(t *testing.T) {
	srv := New(":0", &stubRunner{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	w := httptest.NewRecorder()
	srv.handleAnalyze(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleAnalyze_ErrorsOmittedWhenEmpty(t *testing.T) {
	runner := &stubRunner{resp: analyze.Response{Results: []analyze.AnalysisRecord{}}}
	srv := New(":0", runner, true)

	w := doAnalyze(t, srv, `{"usernames": ["someuser"]}`)
	assert.NotContains(t, w.Body.String(), "errors")
}

func TestHandleHealthz(t *testing.T) {
	srv := New(":0", &stubRunner{}, true)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.handleHealthz(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
