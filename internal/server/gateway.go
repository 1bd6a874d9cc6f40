package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// jsonMarshaler encodes the plain v1 request and response structs.
var jsonMarshaler = &runtime.JSONBuiltin{}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// gatewayHandler serves one REST route with a context that already carries
// the forwarded actor metadata.
type gatewayHandler func(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error

// Gateway translates REST calls into VersionService calls.
type Gateway struct {
	client v1.VersionServiceClient
	mux    *runtime.ServeMux
}

// NewGateway returns the REST handler for the version service.
func NewGateway(client v1.VersionServiceClient) (*Gateway, error) {
	g := &Gateway{client: client}
	g.mux = runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, jsonMarshaler),
		runtime.WithIncomingHeaderMatcher(actorHeaderMatcher),
		runtime.WithRoutingErrorHandler(g.routingError),
	)

	routes := []struct {
		method  string
		pattern string
		rpc     string
		handler gatewayHandler
	}{
		{http.MethodPost, "/v1/documents/{documentId}/edits", v1.VersionService_RecordEdit_FullMethodName, g.recordEdit},
		{http.MethodGet, "/v1/documents/{documentId}/versions", v1.VersionService_ListVersions_FullMethodName, g.listVersions},
		{http.MethodGet, "/v1/documents/{documentId}/versions/current", v1.VersionService_GetCurrentVersion_FullMethodName, g.getCurrentVersion},
		{http.MethodPost, "/v1/documents/{documentId}/versions/{versionId}/restore", v1.VersionService_RestoreVersion_FullMethodName, g.restoreVersion},
		{http.MethodGet, "/v1/documents/{documentId}/tags/{label}/versions", v1.VersionService_ListVersionsByTag_FullMethodName, g.listVersionsByTag},
		{http.MethodGet, "/v1/documents/{documentId}/statistics", v1.VersionService_GetStatistics_FullMethodName, g.getStatistics},
		{http.MethodGet, "/v1/documents/{documentId}/comparisons", v1.VersionService_ListComparisons_FullMethodName, g.listComparisons},
		{http.MethodGet, "/v1/documents/{documentId}/restorations", v1.VersionService_ListRestorations_FullMethodName, g.listRestorations},
		{http.MethodGet, "/v1/documents/{documentId}/activity", v1.VersionService_GetActivity_FullMethodName, g.getActivity},
		{http.MethodGet, "/v1/versions/{id}", v1.VersionService_GetVersion_FullMethodName, g.getVersion},
		{http.MethodGet, "/v1/versions/{id}/compare/{otherId}", v1.VersionService_CompareVersions_FullMethodName, g.compareVersions},
		{http.MethodPost, "/v1/versions/{id}/tags", v1.VersionService_AddTag_FullMethodName, g.addTag},
		{http.MethodGet, "/v1/versions/{id}/tags", v1.VersionService_ListTags_FullMethodName, g.listTags},
		{http.MethodGet, "/v1/metrics/global", v1.VersionService_GetGlobalMetrics_FullMethodName, g.getGlobalMetrics},
	}

	for _, route := range routes {
		if err := g.mux.HandlePath(route.method, route.pattern, g.wrap(route.pattern, route.rpc, route.handler)); err != nil {
			return nil, fmt.Errorf("register %s %s: %w", route.method, route.pattern, err)
		}
	}

	return g, nil
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mux.ServeHTTP(w, r)
}

func (g *Gateway) wrap(pattern, rpc string, h gatewayHandler) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		ctx, err := runtime.AnnotateContext(r.Context(), g.mux, r, rpc, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			g.writeError(w, r, status.Errorf(codes.InvalidArgument, "%v", err))
			return
		}

		if err := h(ctx, w, r, params); err != nil {
			g.writeError(w, r, err)
		}
	}
}

// actorHeaderMatcher forwards the actor headers as grpc metadata on top of
// the headers the gateway forwards by default.
func actorHeaderMatcher(key string) (string, bool) {
	switch lower := strings.ToLower(key); lower {
	case ActorIDHeader, ActorRoleHeader:
		return lower, true
	}

	return runtime.DefaultHeaderMatcher(key)
}

func (g *Gateway) routingError(_ context.Context, _ *runtime.ServeMux, _ runtime.Marshaler, w http.ResponseWriter, r *http.Request, httpStatus int) {
	code := codes.NotFound
	switch httpStatus {
	case http.StatusMethodNotAllowed:
		code = codes.Unimplemented
	case http.StatusBadRequest:
		code = codes.InvalidArgument
	}

	g.writeJSON(w, r, httpStatus, errorBody{
		Code:    code.String(),
		Message: fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
	})
}

func (g *Gateway) writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	_, outbound := runtime.MarshalerForRequest(g.mux, r)
	writeJSON(w, outbound, code, body)
}

func (g *Gateway) writeError(w http.ResponseWriter, r *http.Request, err error) {
	st := status.Convert(err)
	g.writeJSON(w, r, runtime.HTTPStatusFromCode(st.Code()), errorBody{
		Code:    st.Code().String(),
		Message: st.Message(),
	})
}

func (g *Gateway) decodeBody(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}

	inbound, _ := runtime.MarshalerForRequest(g.mux, r)
	if err := inbound.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return status.Errorf(codes.InvalidArgument, "invalid body: %v", err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, m runtime.Marshaler, code int, body any) {
	w.Header().Set("Content-Type", m.ContentType(body))
	w.WriteHeader(code)
	if err := m.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
	}
	return n, nil
}

// queryTime accepts any layout dateparse understands.
func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s: %v", key, err)
	}
	t = t.UTC()
	return &t, nil
}

func (g *Gateway) recordEdit(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	var req v1.RecordEditRequest
	if err := g.decodeBody(r, &req); err != nil {
		return err
	}
	req.DocumentID = params["documentId"]

	resp, err := g.client.RecordEdit(ctx, &req)
	if err != nil {
		return err
	}

	code := http.StatusOK
	if resp.Created {
		code = http.StatusCreated
	}
	g.writeJSON(w, r, code, resp)
	return nil
}

func (g *Gateway) listVersions(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	req := &v1.ListVersionsRequest{
		DocumentID: params["documentId"],
		ChangeKind: r.URL.Query().Get("changeKind"),
		Author:     r.URL.Query().Get("author"),
		Tag:        r.URL.Query().Get("tag"),
	}

	var err error
	if req.From, err = queryTime(r, "from"); err != nil {
		return err
	}
	if req.To, err = queryTime(r, "to"); err != nil {
		return err
	}
	if req.Limit, err = queryInt(r, "limit"); err != nil {
		return err
	}
	if req.Offset, err = queryInt(r, "offset"); err != nil {
		return err
	}

	resp, err := g.client.ListVersions(ctx, req)
	return g.respond(w, r, resp, err)
}

func (g *Gateway) getCurrentVersion(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	resp, err := g.client.GetCurrentVersion(ctx, &v1.GetCurrentVersionRequest{DocumentID: params["documentId"]})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) restoreVersion(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	var req v1.RestoreVersionRequest
	if err := g.decodeBody(r, &req); err != nil {
		return err
	}
	req.DocumentID = params["documentId"]
	req.VersionID = params["versionId"]

	resp, err := g.client.RestoreVersion(ctx, &req)
	return g.respond(w, r, resp, err)
}

func (g *Gateway) listVersionsByTag(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	resp, err := g.client.ListVersionsByTag(ctx, &v1.ListVersionsByTagRequest{
		DocumentID: params["documentId"],
		Label:      params["label"],
	})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) getStatistics(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	resp, err := g.client.GetStatistics(ctx, &v1.GetStatisticsRequest{DocumentID: params["documentId"]})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) listComparisons(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return err
	}

	resp, err := g.client.ListComparisons(ctx, &v1.ListHistoryRequest{DocumentID: params["documentId"], Limit: limit})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) listRestorations(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return err
	}

	resp, err := g.client.ListRestorations(ctx, &v1.ListHistoryRequest{DocumentID: params["documentId"], Limit: limit})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) getActivity(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	days, err := queryInt(r, "days")
	if err != nil {
		return err
	}

	resp, err := g.client.GetActivity(ctx, &v1.GetActivityRequest{DocumentID: params["documentId"], Days: days})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) getVersion(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	resp, err := g.client.GetVersion(ctx, &v1.GetVersionRequest{ID: params["id"]})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) compareVersions(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	unified, _ := strconv.ParseBool(r.URL.Query().Get("unified"))

	resp, err := g.client.CompareVersions(ctx, &v1.CompareVersionsRequest{
		OriginID:      params["id"],
		DestinationID: params["otherId"],
		Unified:       unified,
	})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) addTag(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	var req v1.AddTagRequest
	if err := g.decodeBody(r, &req); err != nil {
		return err
	}
	req.VersionID = params["id"]

	resp, err := g.client.AddTag(ctx, &req)
	if err != nil {
		return err
	}
	g.writeJSON(w, r, http.StatusCreated, resp)
	return nil
}

func (g *Gateway) listTags(ctx context.Context, w http.ResponseWriter, r *http.Request, params map[string]string) error {
	resp, err := g.client.ListTags(ctx, &v1.ListTagsRequest{VersionID: params["id"]})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) getGlobalMetrics(ctx context.Context, w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	days, err := queryInt(r, "days")
	if err != nil {
		return err
	}

	resp, err := g.client.GetGlobalMetrics(ctx, &v1.GetGlobalMetricsRequest{Days: days})
	return g.respond(w, r, resp, err)
}

func (g *Gateway) respond(w http.ResponseWriter, r *http.Request, resp any, err error) error {
	if err != nil {
		return err
	}
	g.writeJSON(w, r, http.StatusOK, resp)
	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, jsonMarshaler, http.StatusOK, map[string]string{"status": "ok"})
}
