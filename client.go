package docversion

import (
	"io"

	v1 "github.com/emrgen/docversion/apis/v1"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client talks to the version service. Messages travel as JSON under the
// "json" grpc content subtype (v1.Codec); callers that build their own
// connection must pass grpc.CallContentSubtype(v1.Codec) on every call.
type Client interface {
	io.Closer
	v1.VersionServiceClient
}

type client struct {
	conn *grpc.ClientConn
	v1.VersionServiceClient
}

// NewClient connects to the version service listening on addr, e.g. ":4020".
// The connection defaults to the v1.Codec content subtype.
func NewClient(addr string, opts ...grpc.DialOption) (Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(v1.Codec)),
	}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &client{
		conn:                 conn,
		VersionServiceClient: v1.NewVersionServiceClient(conn),
	}, nil
}

func (c *client) Close() error {
	return c.conn.Close()
}
