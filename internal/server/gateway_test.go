package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type restClient struct {
	t      *testing.T
	server *httptest.Server
}

func (c *restClient) do(method, path, role, body string) (*http.Response, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(c.t, err)
	if role != "" {
		req.Header.Set(ActorIDHeader, role+"-1")
		req.Header.Set(ActorRoleHeader, role)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.server.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return resp, data
}

func newRestClient(t *testing.T) (*restClient, *testServer) {
	s := newTestServer(t)
	server := httptest.NewServer(s.handler)
	t.Cleanup(server.Close)

	return &restClient{t: t, server: server}, s
}

func TestGateway_Versions(t *testing.T) {
	c, _ := newRestClient(t)

	resp, body := c.do(http.MethodPost, "/v1/documents/doc-1/edits", "editor", `{"title":"Spec","content":"line one\nline two"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created v1.RecordEditResponse
	require.NoError(t, json.Unmarshal(body, &created))
	require.True(t, created.Created)
	assert.Equal(t, "doc-1", created.Version.DocumentID)
	assert.Equal(t, "editor-1", created.Version.Author)

	resp, body = c.do(http.MethodPost, "/v1/documents/doc-1/edits", "editor", `{"title":"Spec","content":"line one\nline two"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = c.do(http.MethodGet, "/v1/documents/doc-1/versions/current", "viewer", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var current v1.VersionResponse
	require.NoError(t, json.Unmarshal(body, &current))
	assert.Equal(t, created.Version.ID, current.Version.ID)

	resp, body = c.do(http.MethodGet, "/v1/documents/doc-1/versions?from=2020-01-01&limit=10&author=editor-1", "viewer", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var list v1.ListVersionsResponse
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list.Versions, 1)

	resp, body = c.do(http.MethodGet, "/v1/documents/doc-1/versions?from=2030-01-01", "viewer", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Versions)

	resp, _ = c.do(http.MethodGet, "/v1/documents/doc-1/versions?from=someday", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/v1/documents/doc-1/versions?limit=ten", "viewer", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGateway_Errors(t *testing.T) {
	c, _ := newRestClient(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		body   string
		code   int
	}{
		{name: "missing actor", method: http.MethodGet, path: "/v1/versions/x", code: http.StatusUnauthorized},
		{name: "unknown version", method: http.MethodGet, path: "/v1/versions/x", role: "viewer", code: http.StatusNotFound},
		{name: "viewer records", method: http.MethodPost, path: "/v1/documents/d/edits", role: "viewer", body: `{"title":"t","content":"c"}`, code: http.StatusForbidden},
		{name: "invalid body", method: http.MethodPost, path: "/v1/documents/d/edits", role: "editor", body: `{"title":`, code: http.StatusBadRequest},
		{name: "missing content", method: http.MethodPost, path: "/v1/documents/d/edits", role: "editor", body: `{"title":"t"}`, code: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/v2/anything", role: "viewer", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := c.do(tt.method, tt.path, tt.role, tt.body)
			assert.Equal(t, tt.code, resp.StatusCode, string(body))
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		})
	}
}

func TestGateway_RestoreCompareAndTags(t *testing.T) {
	c, s := newRestClient(t)

	first := s.record(t, "doc", "a\nb")
	second := s.record(t, "doc", "a\nc")

	resp, body := c.do(http.MethodGet, "/v1/versions/"+first.ID+"/compare/"+second.ID+"?unified=true", "viewer", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var cmp v1.CompareVersionsResponse
	require.NoError(t, json.Unmarshal(body, &cmp))
	assert.Equal(t, 1, cmp.Modifications)
	assert.NotEmpty(t, cmp.Unified)

	resp, body = c.do(http.MethodPost, "/v1/documents/doc/versions/"+first.ID+"/restore", "expert", `{"reason":"revert"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var restored v1.RestoreVersionResponse
	require.NoError(t, json.Unmarshal(body, &restored))
	assert.Equal(t, first.ID, restored.Current.ID)
	assert.Equal(t, second.ID, restored.Restoration.PreviousCurrentVersionID)

	resp, body = c.do(http.MethodPost, "/v1/versions/"+first.ID+"/tags", "expert", `{"label":"golden","color":"#123456"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = c.do(http.MethodGet, "/v1/documents/doc/tags/golden/versions", "viewer", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var byTag v1.ListVersionsResponse
	require.NoError(t, json.Unmarshal(body, &byTag))
	require.Len(t, byTag.Versions, 1)

	for _, path := range []string{
		"/v1/versions/" + first.ID + "/tags",
		"/v1/documents/doc/statistics",
		"/v1/documents/doc/comparisons?limit=5",
		"/v1/documents/doc/restorations",
		"/v1/documents/doc/activity?days=7",
	} {
		resp, body = c.do(http.MethodGet, path, "viewer", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, "%s: %s", path, body)
	}

	resp, _ = c.do(http.MethodGet, "/v1/metrics/global", "viewer", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = c.do(http.MethodGet, "/v1/metrics/global?days=1", "administrator", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateway_MetricsAndHealth(t *testing.T) {
	c, s := newRestClient(t)
	s.record(t, "doc", "content")

	resp, body := c.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ok")

	resp, body = c.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `docversion_versions_created_total{change_kind="creation"} 1`)
	assert.Contains(t, string(body), "docversion_request_duration_seconds")
}

type stubVersionClient struct {
	v1.VersionServiceClient
	err error
	md  metadata.MD
	req *v1.CompareVersionsRequest
}

func (s *stubVersionClient) GetVersion(ctx context.Context, _ *v1.GetVersionRequest, _ ...grpc.CallOption) (*v1.VersionResponse, error) {
	s.md, _ = metadata.FromOutgoingContext(ctx)
	return nil, s.err
}

func (s *stubVersionClient) CompareVersions(_ context.Context, in *v1.CompareVersionsRequest, _ ...grpc.CallOption) (*v1.CompareVersionsResponse, error) {
	s.req = in
	return &v1.CompareVersionsResponse{}, nil
}

func TestGateway_StatusCodes(t *testing.T) {
	tests := []struct {
		code codes.Code
		want int
	}{
		{codes.InvalidArgument, http.StatusBadRequest},
		{codes.NotFound, http.StatusNotFound},
		{codes.Aborted, http.StatusConflict},
		{codes.PermissionDenied, http.StatusForbidden},
		{codes.Unauthenticated, http.StatusUnauthorized},
		{codes.DeadlineExceeded, http.StatusGatewayTimeout},
		{codes.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			client := &stubVersionClient{err: status.Error(tt.code, "boom")}
			gateway, err := NewGateway(client)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/v1/versions/v-1", nil)
			req.Header.Set(ActorIDHeader, "alice")
			req.Header.Set(ActorRoleHeader, "viewer")
			rec := httptest.NewRecorder()
			gateway.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code.String(), body.Code)
			assert.Equal(t, "boom", body.Message)

			assert.Equal(t, []string{"alice"}, client.md.Get(ActorIDHeader))
			assert.Equal(t, []string{"viewer"}, client.md.Get(ActorRoleHeader))
		})
	}
}

func TestGateway_Routing(t *testing.T) {
	client := &stubVersionClient{}
	gateway, err := NewGateway(client)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/versions/a/compare/b?unified=true", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, client.req)
	assert.Equal(t, "a", client.req.OriginID)
	assert.Equal(t, "b", client.req.DestinationID)
	assert.True(t, client.req.Unified)

	rec = httptest.NewRecorder()
	gateway.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/versions/a", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	gateway.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nothing/here", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, codes.NotFound.String(), body.Code)
}
