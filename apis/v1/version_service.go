package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const VersionService_ServiceName = "docversion.v1.VersionService"

const (
	VersionService_RecordEdit_FullMethodName        = "/docversion.v1.VersionService/RecordEdit"
	VersionService_GetVersion_FullMethodName        = "/docversion.v1.VersionService/GetVersion"
	VersionService_GetCurrentVersion_FullMethodName = "/docversion.v1.VersionService/GetCurrentVersion"
	VersionService_ListVersions_FullMethodName      = "/docversion.v1.VersionService/ListVersions"
	VersionService_CompareVersions_FullMethodName   = "/docversion.v1.VersionService/CompareVersions"
	VersionService_RestoreVersion_FullMethodName    = "/docversion.v1.VersionService/RestoreVersion"
	VersionService_AddTag_FullMethodName            = "/docversion.v1.VersionService/AddTag"
	VersionService_ListTags_FullMethodName          = "/docversion.v1.VersionService/ListTags"
	VersionService_ListVersionsByTag_FullMethodName = "/docversion.v1.VersionService/ListVersionsByTag"
	VersionService_GetStatistics_FullMethodName     = "/docversion.v1.VersionService/GetStatistics"
	VersionService_ListComparisons_FullMethodName   = "/docversion.v1.VersionService/ListComparisons"
	VersionService_ListRestorations_FullMethodName  = "/docversion.v1.VersionService/ListRestorations"
	VersionService_GetActivity_FullMethodName       = "/docversion.v1.VersionService/GetActivity"
	VersionService_GetGlobalMetrics_FullMethodName  = "/docversion.v1.VersionService/GetGlobalMetrics"
)

// VersionServiceClient is the client API for VersionService.
type VersionServiceClient interface {
	RecordEdit(ctx context.Context, in *RecordEditRequest, opts ...grpc.CallOption) (*RecordEditResponse, error)
	GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*VersionResponse, error)
	GetCurrentVersion(ctx context.Context, in *GetCurrentVersionRequest, opts ...grpc.CallOption) (*VersionResponse, error)
	ListVersions(ctx context.Context, in *ListVersionsRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error)
	CompareVersions(ctx context.Context, in *CompareVersionsRequest, opts ...grpc.CallOption) (*CompareVersionsResponse, error)
	RestoreVersion(ctx context.Context, in *RestoreVersionRequest, opts ...grpc.CallOption) (*RestoreVersionResponse, error)
	AddTag(ctx context.Context, in *AddTagRequest, opts ...grpc.CallOption) (*TagResponse, error)
	ListTags(ctx context.Context, in *ListTagsRequest, opts ...grpc.CallOption) (*ListTagsResponse, error)
	ListVersionsByTag(ctx context.Context, in *ListVersionsByTagRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error)
	GetStatistics(ctx context.Context, in *GetStatisticsRequest, opts ...grpc.CallOption) (*GetStatisticsResponse, error)
	ListComparisons(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListComparisonsResponse, error)
	ListRestorations(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListRestorationsResponse, error)
	GetActivity(ctx context.Context, in *GetActivityRequest, opts ...grpc.CallOption) (*GetActivityResponse, error)
	GetGlobalMetrics(ctx context.Context, in *GetGlobalMetricsRequest, opts ...grpc.CallOption) (*GetGlobalMetricsResponse, error)
}

type versionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewVersionServiceClient(cc grpc.ClientConnInterface) VersionServiceClient {
	return &versionServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(Codec)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *versionServiceClient) RecordEdit(ctx context.Context, in *RecordEditRequest, opts ...grpc.CallOption) (*RecordEditResponse, error) {
	return invoke[RecordEditResponse](ctx, c.cc, VersionService_RecordEdit_FullMethodName, in, opts)
}

func (c *versionServiceClient) GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*VersionResponse, error) {
	return invoke[VersionResponse](ctx, c.cc, VersionService_GetVersion_FullMethodName, in, opts)
}

func (c *versionServiceClient) GetCurrentVersion(ctx context.Context, in *GetCurrentVersionRequest, opts ...grpc.CallOption) (*VersionResponse, error) {
	return invoke[VersionResponse](ctx, c.cc, VersionService_GetCurrentVersion_FullMethodName, in, opts)
}

func (c *versionServiceClient) ListVersions(ctx context.Context, in *ListVersionsRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error) {
	return invoke[ListVersionsResponse](ctx, c.cc, VersionService_ListVersions_FullMethodName, in, opts)
}

func (c *versionServiceClient) CompareVersions(ctx context.Context, in *CompareVersionsRequest, opts ...grpc.CallOption) (*CompareVersionsResponse, error) {
	return invoke[CompareVersionsResponse](ctx, c.cc, VersionService_CompareVersions_FullMethodName, in, opts)
}

func (c *versionServiceClient) RestoreVersion(ctx context.Context, in *RestoreVersionRequest, opts ...grpc.CallOption) (*RestoreVersionResponse, error) {
	return invoke[RestoreVersionResponse](ctx, c.cc, VersionService_RestoreVersion_FullMethodName, in, opts)
}

func (c *versionServiceClient) AddTag(ctx context.Context, in *AddTagRequest, opts ...grpc.CallOption) (*TagResponse, error) {
	return invoke[TagResponse](ctx, c.cc, VersionService_AddTag_FullMethodName, in, opts)
}

func (c *versionServiceClient) ListTags(ctx context.Context, in *ListTagsRequest, opts ...grpc.CallOption) (*ListTagsResponse, error) {
	return invoke[ListTagsResponse](ctx, c.cc, VersionService_ListTags_FullMethodName, in, opts)
}

func (c *versionServiceClient) ListVersionsByTag(ctx context.Context, in *ListVersionsByTagRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error) {
	return invoke[ListVersionsResponse](ctx, c.cc, VersionService_ListVersionsByTag_FullMethodName, in, opts)
}

func (c *versionServiceClient) GetStatistics(ctx context.Context, in *GetStatisticsRequest, opts ...grpc.CallOption) (*GetStatisticsResponse, error) {
	return invoke[GetStatisticsResponse](ctx, c.cc, VersionService_GetStatistics_FullMethodName, in, opts)
}

func (c *versionServiceClient) ListComparisons(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListComparisonsResponse, error) {
	return invoke[ListComparisonsResponse](ctx, c.cc, VersionService_ListComparisons_FullMethodName, in, opts)
}

func (c *versionServiceClient) ListRestorations(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListRestorationsResponse, error) {
	return invoke[ListRestorationsResponse](ctx, c.cc, VersionService_ListRestorations_FullMethodName, in, opts)
}

func (c *versionServiceClient) GetActivity(ctx context.Context, in *GetActivityRequest, opts ...grpc.CallOption) (*GetActivityResponse, error) {
	return invoke[GetActivityResponse](ctx, c.cc, VersionService_GetActivity_FullMethodName, in, opts)
}

func (c *versionServiceClient) GetGlobalMetrics(ctx context.Context, in *GetGlobalMetricsRequest, opts ...grpc.CallOption) (*GetGlobalMetricsResponse, error) {
	return invoke[GetGlobalMetricsResponse](ctx, c.cc, VersionService_GetGlobalMetrics_FullMethodName, in, opts)
}

// VersionServiceServer is the server API for VersionService.
type VersionServiceServer interface {
	RecordEdit(context.Context, *RecordEditRequest) (*RecordEditResponse, error)
	GetVersion(context.Context, *GetVersionRequest) (*VersionResponse, error)
	GetCurrentVersion(context.Context, *GetCurrentVersionRequest) (*VersionResponse, error)
	ListVersions(context.Context, *ListVersionsRequest) (*ListVersionsResponse, error)
	CompareVersions(context.Context, *CompareVersionsRequest) (*CompareVersionsResponse, error)
	RestoreVersion(context.Context, *RestoreVersionRequest) (*RestoreVersionResponse, error)
	AddTag(context.Context, *AddTagRequest) (*TagResponse, error)
	ListTags(context.Context, *ListTagsRequest) (*ListTagsResponse, error)
	ListVersionsByTag(context.Context, *ListVersionsByTagRequest) (*ListVersionsResponse, error)
	GetStatistics(context.Context, *GetStatisticsRequest) (*GetStatisticsResponse, error)
	ListComparisons(context.Context, *ListHistoryRequest) (*ListComparisonsResponse, error)
	ListRestorations(context.Context, *ListHistoryRequest) (*ListRestorationsResponse, error)
	GetActivity(context.Context, *GetActivityRequest) (*GetActivityResponse, error)
	GetGlobalMetrics(context.Context, *GetGlobalMetricsRequest) (*GetGlobalMetricsResponse, error)
}

// UnimplementedVersionServiceServer can be embedded to have forward compatible implementations.
type UnimplementedVersionServiceServer struct{}

func (UnimplementedVersionServiceServer) RecordEdit(context.Context, *RecordEditRequest) (*RecordEditResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordEdit not implemented")
}
func (UnimplementedVersionServiceServer) GetVersion(context.Context, *GetVersionRequest) (*VersionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetVersion not implemented")
}
func (UnimplementedVersionServiceServer) GetCurrentVersion(context.Context, *GetCurrentVersionRequest) (*VersionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetCurrentVersion not implemented")
}
func (UnimplementedVersionServiceServer) ListVersions(context.Context, *ListVersionsRequest) (*ListVersionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListVersions not implemented")
}
func (UnimplementedVersionServiceServer) CompareVersions(context.Context, *CompareVersionsRequest) (*CompareVersionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CompareVersions not implemented")
}
func (UnimplementedVersionServiceServer) RestoreVersion(context.Context, *RestoreVersionRequest) (*RestoreVersionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RestoreVersion not implemented")
}
func (UnimplementedVersionServiceServer) AddTag(context.Context, *AddTagRequest) (*TagResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AddTag not implemented")
}
func (UnimplementedVersionServiceServer) ListTags(context.Context, *ListTagsRequest) (*ListTagsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTags not implemented")
}
func (UnimplementedVersionServiceServer) ListVersionsByTag(context.Context, *ListVersionsByTagRequest) (*ListVersionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListVersionsByTag not implemented")
}
func (UnimplementedVersionServiceServer) GetStatistics(context.Context, *GetStatisticsRequest) (*GetStatisticsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStatistics not implemented")
}
func (UnimplementedVersionServiceServer) ListComparisons(context.Context, *ListHistoryRequest) (*ListComparisonsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListComparisons not implemented")
}
func (UnimplementedVersionServiceServer) ListRestorations(context.Context, *ListHistoryRequest) (*ListRestorationsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListRestorations not implemented")
}
func (UnimplementedVersionServiceServer) GetActivity(context.Context, *GetActivityRequest) (*GetActivityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetActivity not implemented")
}
func (UnimplementedVersionServiceServer) GetGlobalMetrics(context.Context, *GetGlobalMetricsRequest) (*GetGlobalMetricsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetGlobalMetrics not implemented")
}

func RegisterVersionServiceServer(s grpc.ServiceRegistrar, srv VersionServiceServer) {
	s.RegisterService(&VersionService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc method handler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(VersionServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VersionServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VersionServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VersionService_ServiceDesc is the grpc.ServiceDesc for VersionService.
var VersionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: VersionService_ServiceName,
	HandlerType: (*VersionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RecordEdit", Handler: unaryHandler(VersionService_RecordEdit_FullMethodName, VersionServiceServer.RecordEdit)},
		{MethodName: "GetVersion", Handler: unaryHandler(VersionService_GetVersion_FullMethodName, VersionServiceServer.GetVersion)},
		{MethodName: "GetCurrentVersion", Handler: unaryHandler(VersionService_GetCurrentVersion_FullMethodName, VersionServiceServer.GetCurrentVersion)},
		{MethodName: "ListVersions", Handler: unaryHandler(VersionService_ListVersions_FullMethodName, VersionServiceServer.ListVersions)},
		{MethodName: "CompareVersions", Handler: unaryHandler(VersionService_CompareVersions_FullMethodName, VersionServiceServer.CompareVersions)},
		{MethodName: "RestoreVersion", Handler: unaryHandler(VersionService_RestoreVersion_FullMethodName, VersionServiceServer.RestoreVersion)},
		{MethodName: "AddTag", Handler: unaryHandler(VersionService_AddTag_FullMethodName, VersionServiceServer.AddTag)},
		{MethodName: "ListTags", Handler: unaryHandler(VersionService_ListTags_FullMethodName, VersionServiceServer.ListTags)},
		{MethodName: "ListVersionsByTag", Handler: unaryHandler(VersionService_ListVersionsByTag_FullMethodName, VersionServiceServer.ListVersionsByTag)},
		{MethodName: "GetStatistics", Handler: unaryHandler(VersionService_GetStatistics_FullMethodName, VersionServiceServer.GetStatistics)},
		{MethodName: "ListComparisons", Handler: unaryHandler(VersionService_ListComparisons_FullMethodName, VersionServiceServer.ListComparisons)},
		{MethodName: "ListRestorations", Handler: unaryHandler(VersionService_ListRestorations_FullMethodName, VersionServiceServer.ListRestorations)},
		{MethodName: "GetActivity", Handler: unaryHandler(VersionService_GetActivity_FullMethodName, VersionServiceServer.GetActivity)},
		{MethodName: "GetGlobalMetrics", Handler: unaryHandler(VersionService_GetGlobalMetrics_FullMethodName, VersionServiceServer.GetGlobalMetrics)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "docversion/v1/version.json",
}
