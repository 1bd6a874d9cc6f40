package docversion

import (
	"context"
	"net"
	"strings"
	"testing"

	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubServer struct {
	v1.UnimplementedVersionServiceServer
}

func (stubServer) GetVersion(ctx context.Context, req *v1.GetVersionRequest) (*v1.VersionResponse, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	return &v1.VersionResponse{Version: &v1.Version{
		ID:      req.ID,
		Token:   "v1",
		Content: "hello",
		Title:   strings.Join(md.Get("content-type"), ","),
	}}, nil
}

func TestClient_JSONCodec(t *testing.T) {
	lis := bufconn.Listen(1 << 16)
	srv := grpc.NewServer()
	v1.RegisterVersionServiceServer(srv, stubServer{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	resp, err := c.GetVersion(context.Background(), &v1.GetVersionRequest{ID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Version.ID)
	assert.Equal(t, "hello", resp.Version.Content)
	assert.Equal(t, "application/grpc+"+v1.Codec, resp.Version.Title)

	_, err = c.RecordEdit(context.Background(), &v1.RecordEditRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
