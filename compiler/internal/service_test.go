package internal

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestService_Compile(t *testing.T) {
	service := NewService(NewCompiler(Limits{}))
	rec := serve(service, http.MethodPost, "/compile", `{"source": "int x;\nx = 5 + 3;\nprint(x);"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeBody(t, rec)
	assert.Equal(t, []interface{}{"t1 = 5 + 3", "x = t1", "print x"}, body["three_address_code"])
	assert.Equal(t, []interface{}{"t1 = 8", "x = 8", "print x"}, body["optimized_code"])
	assert.Equal(t, []interface{}{}, body["semantic_errors"])
	assert.Len(t, body["tokens"], 14)
}

func TestService_CompileErrors(t *testing.T) {
	service := NewService(NewCompiler(Limits{}))
	rec := serve(service, http.MethodPost, "/compile", `{"source": "int y;\ny = z;"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []interface{}{"Undeclared variable 'z'"}, body["semantic_errors"])
	assert.Equal(t, []interface{}{}, body["three_address_code"])
	assert.Equal(t, []interface{}{}, body["optimized_code"])

	rec = serve(service, http.MethodPost, "/compile", `{"source": "int ;"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, []interface{}{"Expected identifier after type at line 1"}, body["parse_errors"])
	assert.Equal(t, map[string]interface{}{"type": "program", "statements": []interface{}{}}, body["ast"])
}

func TestService_MissingSource(t *testing.T) {
	service := NewService(NewCompiler(Limits{}))
	rec := serve(service, http.MethodPost, "/compile", `{}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []interface{}{}, decodeBody(t, rec)["tokens"])
}

func TestService_BadRequests(t *testing.T) {
	service := NewService(NewCompiler(Limits{MaxSourceBytes: 16}))
	testData := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/compile", "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/compile", `{"source": ""}`, http.StatusMethodNotAllowed},
		{http.MethodPost, "/compile", `{"source": `, http.StatusBadRequest},
		{http.MethodPost, "/compile", `not json`, http.StatusBadRequest},
		{http.MethodPost, "/compile", `{"source": 1}`, http.StatusBadRequest},
		{http.MethodPost, "/compile", `{"source": "int a; int b; int c;"}`, http.StatusRequestEntityTooLarge},
		{http.MethodPost, "/compile", `{"source": "` + strings.Repeat("a", 4096) + `"}`, http.StatusRequestEntityTooLarge},
		{http.MethodGet, "/nowhere", "", http.StatusNotFound},
	}
	for _, data := range testData {
		rec := serve(service, data.method, data.path, data.body)
		assert.Equal(t, data.status, rec.Code, "%s %s", data.method, data.path)
		if data.status != http.StatusNotFound {
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		}
	}

	rec := serve(service, http.MethodGet, "/compile", "")
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

type panickingCompiler struct{}

func (panickingCompiler) Compile(string) (*Result, error) {
	panic("boom")
}

func (panickingCompiler) Limits() Limits {
	return DefaultLimits()
}

func TestService_InternalFault(t *testing.T) {
	service := NewService(panickingCompiler{})
	rec := serve(service, http.MethodPost, "/compile", `{"source": "int x;"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "boom", body["error"])
	assert.Contains(t, body["traceback"], "panickingCompiler")

	// The service keeps serving after a fault.
	rec = serve(service, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestService_Health(t *testing.T) {
	rec := serve(NewService(NewCompiler(Limits{})), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"status": "ok"}, decodeBody(t, rec))
}

func TestService_LongExpression(t *testing.T) {
	service := NewService(NewCompiler(Limits{}))
	source := "int x; x = 1" + strings.Repeat(" + 1", 10*DefaultLimits().MaxExpressionNodes) + "; print(x);"
	request, err := json.Marshal(CompileRequest{Source: source})
	require.NoError(t, err)

	rec := serve(service, http.MethodPost, "/compile", string(request))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []interface{}{
		"Expression too long at line 1",
		"Expected expression after '=' at line 1",
	}, body["parse_errors"])
}

func TestWriteJSON_EncodingFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, decodeBody(t, rec)["error"], "encoding response failed")
}
