package server

import (
	"context"
	"net"
	"net/http"
	"testing"

	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/emrgen/docversion/internal/compress"
	"github.com/emrgen/docversion/internal/diff"
	"github.com/emrgen/docversion/internal/metrics"
	"github.com/emrgen/docversion/internal/policy"
	"github.com/emrgen/docversion/internal/service"
	"github.com/emrgen/docversion/internal/store"
	"github.com/emrgen/docversion/internal/tester"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

type testServer struct {
	client   v1.VersionServiceClient
	svc      *service.ComparisonService
	registry *prometheus.Registry
	handler  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	versions := service.NewVersionService(store.NewGormStore(tester.TestDB(t), compress.NewNop()), service.WithMetrics(m))
	svc := service.NewComparisonService(
		versions,
		service.NewTagService(versions),
		service.NewRestoreService(versions, false),
		diff.NewEngine(),
		policy.Default(),
	)

	lis := bufconn.Listen(1 << 20)
	grpcServer := NewGrpcServer(svc, m)
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(UnaryRequestTimeInterceptor()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := v1.NewVersionServiceClient(conn)
	handler, err := NewHTTPHandler(client, registry)
	require.NoError(t, err)

	return &testServer{
		client:   client,
		svc:      svc,
		registry: registry,
		handler:  handler,
	}
}

func as(actorID, role string) context.Context {
	return ActorContext(context.Background(), actorID, role)
}

func (s *testServer) record(t *testing.T, docID, content string) *v1.Version {
	t.Helper()

	resp, err := s.client.RecordEdit(as("editor-1", "editor"), &v1.RecordEditRequest{
		DocumentID: docID,
		Title:      "title",
		Content:    content,
	})
	require.NoError(t, err)
	require.True(t, resp.Created)
	return resp.Version
}
