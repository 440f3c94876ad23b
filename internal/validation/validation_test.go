package validation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testName = Field{In: Body, Name: "name", Trim: true, Checks: []Check{
		{Tag: "required", Message: "Name is required"},
		{Tag: "min=1,max=5", Message: "Name must be between 1 and 5 characters"},
	}}
	testCount = Field{In: Body, Name: "count", Checks: []Check{
		{Tag: "required", Message: "Count is required"},
		{Integer: true, Tag: "min=1,max=5", Message: "Count must be an integer between 1 and 5"},
	}}
	testLimit = Field{In: Query, Name: "limit", Optional: true, Checks: []Check{
		{Integer: true, Tag: "min=1,max=5", Message: "limit must be an integer between 1 and 5"},
	}}
	testID = Field{In: Param, Name: "id", Trim: true, Checks: []Check{
		{Tag: "required", Message: "ID is required"},
	}}
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	echo := func(c *gin.Context) {
		n, ok := Int(c, "count")
		l, lok := Int(c, "limit")
		c.JSON(http.StatusOK, gin.H{"name": String(c, "name"), "count": n, "hasCount": ok, "limit": l, "hasLimit": lok, "id": String(c, "id")})
	}
	r.POST("/things", Rules(testName, testCount), echo)
	r.GET("/things", Rules(testLimit), echo)
	r.GET("/things/:id", Rules(testID), echo)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRules_PassesSanitizedValues(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/things", `{"name":"  abc  ","count":"3"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "abc", got["name"])
	assert.Equal(t, 3.0, got["count"])
	assert.Equal(t, true, got["hasCount"])
}

func TestRules_ReportsEveryFailure(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/things", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeResponse(t, w)
	require.Equal(t, ValidationFailed, resp.Message)
	var msgs []string
	for _, e := range resp.Errors {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	require.Equal(t, []string{
		"name: Name is required",
		"name: Name must be between 1 and 5 characters",
		"count: Count is required",
		"count: Count must be an integer between 1 and 5",
	}, msgs)
}

func TestRules_IntegerCoercion(t *testing.T) {
	r := newRouter()
	cases := []struct {
		count string
		ok    bool
	}{
		{`1`, true},
		{`5`, true},
		{`4.0`, true},
		{`"2"`, true},
		{`0`, false},
		{`6`, false},
		{`4.5`, false},
		{`"four"`, false},
		{`true`, false},
		{`[3]`, false},
		{`{"n":3}`, false},
	}
	for _, tc := range cases {
		w := do(r, http.MethodPost, "/things", `{"name":"ok","count":`+tc.count+`}`)
		if tc.ok {
			assert.Equal(t, http.StatusOK, w.Code, "count=%s", tc.count)
		} else {
			assert.Equal(t, http.StatusBadRequest, w.Code, "count=%s", tc.count)
		}
	}
}

func TestRules_TrimmedLength(t *testing.T) {
	r := newRouter()
	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/things", `{"name":"   ","count":1}`).Code)
	require.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/things", `{"name":"abcdef","count":1}`).Code)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/things", `{"name":" abcde ","count":1}`).Code)
	// length counts characters, not bytes
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/things", `{"name":"ééééé","count":1}`).Code)
}

func TestRules_MalformedBody(t *testing.T) {
	r := newRouter()
	for _, body := range []string{`{"name":`, `[1,2]`, `"text"`} {
		w := do(r, http.MethodPost, "/things", body)
		require.Equal(t, http.StatusBadRequest, w.Code, body)
		resp := decodeResponse(t, w)
		require.Len(t, resp.Errors, 1)
		require.Equal(t, "body", resp.Errors[0].Field)
	}
}

func TestRules_OptionalQuery(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodGet, "/things", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/things?limit=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 3.0, got["limit"])

	for _, q := range []string{"limit=10", "limit=0", "limit=abc", "limit=", "limit=2.5"} {
		w = do(r, http.MethodGet, "/things?"+q, "")
		require.Equal(t, http.StatusBadRequest, w.Code, q)
		resp := decodeResponse(t, w)
		require.Equal(t, "limit", resp.Errors[0].Field)
		require.Equal(t, "query", resp.Errors[0].Location)
	}
}

func TestRules_PathParam(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodGet, "/things/%20%20", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.Equal(t, "ID is required", resp.Errors[0].Message)

	w = do(r, http.MethodGet, "/things/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRules_ErrorValueIsSanitized(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/things", `{"name":"  toolong  ","count":9}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "toolong", resp.Errors[0].Value)
	assert.Equal(t, 9.0, resp.Errors[1].Value)
}

func TestIntegerAndText(t *testing.T) {
	for _, tc := range []struct {
		in any
		n  int
		ok bool
	}{
		{4.0, 4, true},
		{"4", 4, true},
		{3.5, 0, false},
		{"four", 0, false},
		{true, 0, false},
		{nil, 0, false},
		{[]any{3.0}, 0, false},
	} {
		n, ok := Integer(tc.in)
		assert.Equal(t, tc.ok, ok, "%v", tc.in)
		assert.Equal(t, tc.n, n, "%v", tc.in)
	}

	s, ok := Text(12.0)
	assert.True(t, ok)
	assert.Equal(t, "12", s)
	_, ok = Text(map[string]any{"a": 1.0})
	assert.False(t, ok)
	_, ok = Text(nil)
	assert.False(t, ok)
}
