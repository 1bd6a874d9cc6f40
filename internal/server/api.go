package server

import (
	"context"
	"errors"

	v1 "github.com/emrgen/docversion/apis/v1"
	"github.com/emrgen/docversion/internal/diff"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/service"
	"github.com/emrgen/docversion/internal/store"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var _ v1.VersionServiceServer = (*VersionAPI)(nil)

// VersionAPI exposes the comparison service over gRPC.
type VersionAPI struct {
	svc *service.ComparisonService
	v1.UnimplementedVersionServiceServer
}

func NewVersionAPI(svc *service.ComparisonService) *VersionAPI {
	return &VersionAPI{svc: svc}
}

// toStatus maps service errors onto gRPC codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrConflict), errors.Is(err, store.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	logrus.Errorf("internal error: %v", err)
	return status.Error(codes.Internal, "internal error")
}

func actorID(ctx context.Context) string {
	actor, _ := ActorFromContext(ctx)
	return actor.ID
}

func (a *VersionAPI) RecordEdit(ctx context.Context, req *v1.RecordEditRequest) (*v1.RecordEditResponse, error) {
	version, err := a.svc.RecordEdit(ctx, req.DocumentID, service.EditFields{
		Title:        req.Title,
		Description:  req.Description,
		Content:      req.Content,
		Keywords:     req.Keywords,
		Tags:         req.Tags,
		AccessLevel:  req.AccessLevel,
		AttachedFile: req.AttachedFile,
		Comment:      req.Comment,
		ChangeKind:   model.ChangeKind(req.ChangeKind),
		Force:        req.Force,
	}, actorID(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.RecordEditResponse{Created: version != nil, Version: version}, nil
}

func (a *VersionAPI) GetVersion(ctx context.Context, req *v1.GetVersionRequest) (*v1.VersionResponse, error) {
	version, err := a.svc.Versions.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.VersionResponse{Version: version}, nil
}

func (a *VersionAPI) GetCurrentVersion(ctx context.Context, req *v1.GetCurrentVersionRequest) (*v1.VersionResponse, error) {
	version, err := a.svc.Versions.GetCurrent(ctx, req.DocumentID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.VersionResponse{Version: version}, nil
}

func (a *VersionAPI) ListVersions(ctx context.Context, req *v1.ListVersionsRequest) (*v1.ListVersionsResponse, error) {
	versions, err := a.svc.Versions.List(ctx, req.DocumentID, store.VersionFilter{
		ChangeKind: model.ChangeKind(req.ChangeKind),
		Author:     req.Author,
		From:       req.From,
		To:         req.To,
		TagLabel:   req.Tag,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	total, err := a.svc.Versions.Count(ctx, req.DocumentID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.ListVersionsResponse{Versions: versions, Total: total}, nil
}

func (a *VersionAPI) CompareVersions(ctx context.Context, req *v1.CompareVersionsRequest) (*v1.CompareVersionsResponse, error) {
	res, err := a.svc.Compare(ctx, req.OriginID, req.DestinationID, actorID(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	fields := make([]v1.FieldChange, 0, len(res.FieldChanges))
	for _, fc := range res.FieldChanges {
		fields = append(fields, v1.FieldChange(fc))
	}

	resp := &v1.CompareVersionsResponse{
		Comparison:    res.Record,
		Changes:       res.Diff.Changes,
		FieldChanges:  fields,
		Additions:     res.Diff.Additions,
		Deletions:     res.Diff.Deletions,
		Modifications: res.Diff.Modifications,
		Percentage:    res.Percentage,
	}
	if req.Unified {
		resp.Unified, err = diff.Unified(res.Origin.Content, res.Destination.Content, res.Origin.Token, res.Destination.Token)
		if err != nil {
			return nil, toStatus(err)
		}
	}

	return resp, nil
}

func (a *VersionAPI) RestoreVersion(ctx context.Context, req *v1.RestoreVersionRequest) (*v1.RestoreVersionResponse, error) {
	res, err := a.svc.Restore(ctx, service.RestoreRequest{
		DocumentID:  req.DocumentID,
		VersionID:   req.VersionID,
		PerformedBy: actorID(ctx),
		Reason:      req.Reason,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.RestoreVersionResponse{
		Restoration:    res.Restoration,
		Current:        res.Current,
		AlreadyCurrent: res.AlreadyCurrent,
	}, nil
}

func (a *VersionAPI) AddTag(ctx context.Context, req *v1.AddTagRequest) (*v1.TagResponse, error) {
	tag, err := a.svc.Tags.AddTag(ctx, service.TagInput{
		VersionID:   req.VersionID,
		Label:       req.Label,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		AssignedBy:  actorID(ctx),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.TagResponse{Tag: tag}, nil
}

func (a *VersionAPI) ListTags(ctx context.Context, req *v1.ListTagsRequest) (*v1.ListTagsResponse, error) {
	tags, err := a.svc.Tags.ListTags(ctx, req.VersionID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.ListTagsResponse{Tags: tags}, nil
}

func (a *VersionAPI) ListVersionsByTag(ctx context.Context, req *v1.ListVersionsByTagRequest) (*v1.ListVersionsResponse, error) {
	versions, err := a.svc.Tags.ListVersionsByTag(ctx, req.DocumentID, req.Label)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.ListVersionsResponse{Versions: versions, Total: int64(len(versions))}, nil
}

func (a *VersionAPI) GetStatistics(ctx context.Context, req *v1.GetStatisticsRequest) (*v1.GetStatisticsResponse, error) {
	stats, err := a.svc.Statistics(ctx, req.DocumentID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.GetStatisticsResponse{Statistics: stats}, nil
}

func (a *VersionAPI) ListComparisons(ctx context.Context, req *v1.ListHistoryRequest) (*v1.ListComparisonsResponse, error) {
	comparisons, err := a.svc.ListComparisons(ctx, req.DocumentID, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.ListComparisonsResponse{Comparisons: comparisons}, nil
}

func (a *VersionAPI) ListRestorations(ctx context.Context, req *v1.ListHistoryRequest) (*v1.ListRestorationsResponse, error) {
	restorations, err := a.svc.ListRestorations(ctx, req.DocumentID, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.ListRestorationsResponse{Restorations: restorations}, nil
}

func (a *VersionAPI) GetActivity(ctx context.Context, req *v1.GetActivityRequest) (*v1.GetActivityResponse, error) {
	days, err := a.svc.Activity(ctx, req.DocumentID, req.Days)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.GetActivityResponse{Days: days}, nil
}

func (a *VersionAPI) GetGlobalMetrics(ctx context.Context, req *v1.GetGlobalMetricsRequest) (*v1.GetGlobalMetricsResponse, error) {
	m, err := a.svc.GlobalMetrics(ctx, req.Days)
	if err != nil {
		return nil, toStatus(err)
	}

	return &v1.GetGlobalMetricsResponse{Metrics: m}, nil
}
