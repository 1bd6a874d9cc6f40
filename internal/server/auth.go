package server

import (
	"context"
	"errors"

	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/emrgen/docversion/internal/authz"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	ActorIDHeader   = "x-actor-id"
	ActorRoleHeader = "x-actor-role"
)

var methodActions = map[string]authz.Action{
	v1.VersionService_RecordEdit_FullMethodName:        authz.ActionRecordEdit,
	v1.VersionService_GetVersion_FullMethodName:        authz.ActionRead,
	v1.VersionService_GetCurrentVersion_FullMethodName: authz.ActionRead,
	v1.VersionService_ListVersions_FullMethodName:      authz.ActionRead,
	v1.VersionService_CompareVersions_FullMethodName:   authz.ActionCompare,
	v1.VersionService_RestoreVersion_FullMethodName:    authz.ActionRestore,
	v1.VersionService_AddTag_FullMethodName:            authz.ActionTag,
	v1.VersionService_ListTags_FullMethodName:          authz.ActionRead,
	v1.VersionService_ListVersionsByTag_FullMethodName: authz.ActionRead,
	v1.VersionService_GetStatistics_FullMethodName:     authz.ActionRead,
	v1.VersionService_ListComparisons_FullMethodName:   authz.ActionRead,
	v1.VersionService_ListRestorations_FullMethodName:  authz.ActionRead,
	v1.VersionService_GetActivity_FullMethodName:       authz.ActionRead,
	v1.VersionService_GetGlobalMetrics_FullMethodName:  authz.ActionGlobalMetrics,
}

type actorKey struct{}

// ActorFromContext returns the actor injected by UnaryActorInterceptor.
func ActorFromContext(ctx context.Context) (authz.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(authz.Actor)
	return actor, ok
}

func withActor(ctx context.Context, actor authz.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// UnaryActorInterceptor reads the already authenticated actor from the
// request metadata and checks the role against the method being called.
func UnaryActorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		action, ok := methodActions[info.FullMethod]
		if !ok {
			return nil, status.Errorf(codes.Unimplemented, "unknown method %s", info.FullMethod)
		}

		actor, err := actorFromMetadata(ctx)
		if err != nil {
			return nil, err
		}

		if err = actor.Authorize(action); err != nil {
			logrus.Warnf("denied %s to %s (%s)", info.FullMethod, actor.ID, actor.Role)
			return nil, status.Error(codes.PermissionDenied, err.Error())
		}

		return handler(withActor(ctx, actor), req)
	}
}

func actorFromMetadata(ctx context.Context) (authz.Actor, error) {
	headers, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return authz.Actor{}, status.Error(codes.Unauthenticated, "missing metadata")
	}

	id := firstHeader(headers, ActorIDHeader)
	if id == "" {
		return authz.Actor{}, status.Errorf(codes.Unauthenticated, "missing %s", ActorIDHeader)
	}

	role, err := authz.ParseRole(firstHeader(headers, ActorRoleHeader))
	if errors.Is(err, authz.ErrUnknownRole) {
		return authz.Actor{}, status.Error(codes.PermissionDenied, err.Error())
	}

	return authz.Actor{ID: id, Role: role}, nil
}

func firstHeader(headers metadata.MD, key string) string {
	values := headers.Get(key)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

// ActorContext returns an outgoing context carrying the actor headers.
func ActorContext(ctx context.Context, actorID, role string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, ActorIDHeader, actorID, ActorRoleHeader, role)
}
