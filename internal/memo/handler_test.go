package memo

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, env *testEnv) (*Handler, string) {
	t.Helper()
	dir := t.TempDir()
	return NewHandler(env.svc, NewStaging(dir), 32<<20), dir
}

func doJSON(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Process(w, req)
	return w
}

func multipartBody(t *testing.T, userID, filename string, audio []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if userID != "" {
		require.NoError(t, mw.WriteField("user_id", userID))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("audio", filename)
		require.NoError(t, err)
		_, err = part.Write(audio)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doMultipart(t *testing.T, h *Handler, userID, filename string, audio []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, userID, filename, audio)
	req := httptest.NewRequest(http.MethodPost, "/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.Process(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) Result {
	t.Helper()
	var res Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	return res
}

func TestProcessEndpoint_TextSuccess(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newTestHandler(t, env)

	w := doJSON(t, h, `{"user_id":"u1","text":"Let's review the meeting notes, TODO: send recap tomorrow"}`)

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.True(t, res.Success)
	assert.Equal(t, "cnt_1", res.ContentID)
	assert.Equal(t, []string{"#meeting", "#schedule", "#todo"}, res.Tags)
	assert.NotEmpty(t, res.Summary)
}

func TestProcessEndpoint_TextMissingUserID(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newTestHandler(t, env)

	w := doJSON(t, h, `{"text":"hello"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertNoProviderCalls(t, env)
}

func TestProcessEndpoint_TextMissingTextField(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newTestHandler(t, env)

	w := doJSON(t, h, `{"user_id":"u1"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertNoProviderCalls(t, env)
}

func TestProcessEndpoint_TextEmptyStringAccepted(t *testing.T) {
	env := newTestEnv(t)
	env.summarizer.summary = ""
	h, _ := newTestHandler(t, env)

	w := doJSON(t, h, `{"user_id":"u1","text":""}`)

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"#memo"}, res.Tags)
}

func TestProcessEndpoint_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newTestHandler(t, env)

	w := doJSON(t, h, `{not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertNoProviderCalls(t, env)
}

func TestProcessEndpoint_AudioSuccess(t *testing.T) {
	env := newTestEnv(t)
	h, dir := newTestHandler(t, env)

	w := doMultipart(t, h, "u1", "recording.webm", []byte("fake-audio"))

	require.Equal(t, http.StatusOK, w.Code)
	res := decodeResult(t, w)
	assert.True(t, res.Success)
	assert.Equal(t, "hello", res.Transcript)
	assert.Equal(t, 1, env.transcriber.calls)

	assertStagingEmpty(t, dir)
}

func TestProcessEndpoint_AudioMissingUserID(t *testing.T) {
	env := newTestEnv(t)
	h, dir := newTestHandler(t, env)

	w := doMultipart(t, h, "", "recording.webm", []byte("fake-audio"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertNoProviderCalls(t, env)
	assertStagingEmpty(t, dir)
}

func TestProcessEndpoint_AudioMissingFile(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newTestHandler(t, env)

	w := doMultipart(t, h, "u1", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertNoProviderCalls(t, env)
}

func TestProcessEndpoint_UnreadableAudio(t *testing.T) {
	env := newTestEnv(t)
	env.transcriber.err = errors.New("audio decode failed: invalid webm container")
	h, dir := newTestHandler(t, env)

	w := doMultipart(t, h, "u1", "broken.webm", []byte("garbage"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeResult(t, w)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "decode failed")
	assert.Zero(t, env.store.calls)

	// The staged copy must be gone even though processing failed.
	assertStagingEmpty(t, dir)
}

func TestProcessEndpoint_StoreFailureYields500(t *testing.T) {
	env := newTestEnv(t)
	env.store.result.Success = false
	env.store.result.ContentID = ""
	env.store.result.Error = "content store returned status 502"
	h, _ := newTestHandler(t, env)

	w := doJSON(t, h, `{"user_id":"u1","text":"note to self"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	res := decodeResult(t, w)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "502")
}

func assertNoProviderCalls(t *testing.T, env *testEnv) {
	t.Helper()
	assert.Zero(t, env.transcriber.calls)
	assert.Zero(t, env.summarizer.calls)
	assert.Zero(t, env.embedder.calls)
	assert.Zero(t, env.store.calls)
}

func assertStagingEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging dir should be empty after the request")
}
