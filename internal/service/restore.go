package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/model"
	"github.com/emrgen/docversion/internal/store"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RestoreRequest asks for a historical version to become current again.
type RestoreRequest struct {
	DocumentID  string `json:"documentId"`
	VersionID   string `json:"versionId"`
	PerformedBy string `json:"performedBy"`
	Reason      string `json:"reason"`
}

func (r RestoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DocumentID, validation.Required),
		validation.Field(&r.VersionID, validation.Required),
		validation.Field(&r.PerformedBy, validation.Required),
	)
}

// RestoreResult is the outcome of a restore. When AlreadyCurrent is set the
// target was current, nothing changed and Restoration is an unsaved record
// whose restored and previous ids are both the current version.
type RestoreResult struct {
	Restoration    *model.Restoration `json:"restoration"`
	Current        *model.Version     `json:"current"`
	AlreadyCurrent bool               `json:"alreadyCurrent"`
}

// NewRestoreService creates a new RestoreService. With cloneOnRestore set a
// restore appends a copy of the target as a new version instead of flipping
// the current flag back onto the historical record.
func NewRestoreService(versions *VersionService, cloneOnRestore bool) *RestoreService {
	return &RestoreService{
		versions:       versions,
		cloneOnRestore: cloneOnRestore,
	}
}

// RestoreService promotes historical versions to current.
type RestoreService struct {
	versions       *VersionService
	cloneOnRestore bool
}

// Restore makes the target version current and records the restoration.
func (r *RestoreService) Restore(ctx context.Context, req RestoreRequest) (*RestoreResult, error) {
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	unlock := r.versions.locks.Lock(req.DocumentID)
	defer unlock()

	res, err := r.restore(ctx, req)
	if err != nil {
		return nil, err
	}

	if res.AlreadyCurrent {
		r.versions.metrics.Restores.WithLabelValues("already_current").Inc()
		logrus.Infof("restore skipped: version %s is already current for document %s", req.VersionID, req.DocumentID)
		return res, nil
	}

	r.versions.metrics.Restores.WithLabelValues("restored").Inc()
	if r.cloneOnRestore {
		r.versions.metrics.VersionsCreated.WithLabelValues(string(model.ChangeKindRestoration)).Inc()
	}
	logrus.Infof("version restored: document=%s restored=%s previous=%s current=%s",
		req.DocumentID, res.Restoration.RestoredVersionID, res.Restoration.PreviousCurrentVersionID, res.Current.ID)

	r.versions.publish(ctx, &events.Event{
		Kind:              events.KindVersionRestored,
		DocumentID:        req.DocumentID,
		VersionID:         res.Current.ID,
		VersionToken:      res.Current.Token,
		PreviousVersionID: res.Restoration.PreviousCurrentVersionID,
		Actor:             req.PerformedBy,
	})

	return res, nil
}

// restore runs with the document lock held.
func (r *RestoreService) restore(ctx context.Context, req RestoreRequest) (*RestoreResult, error) {
	var res *RestoreResult
	err := r.versions.store.Transaction(ctx, func(tx store.Store) error {
		target, err := tx.GetVersion(ctx, req.VersionID)
		if errors.Is(err, store.ErrNotFound) {
			return notFound("version", req.VersionID)
		}
		if err != nil {
			return err
		}
		if target.DocumentID != req.DocumentID {
			return notFound(fmt.Sprintf("version of document %s", req.DocumentID), req.VersionID)
		}

		var previousID string
		current, err := tx.GetCurrentVersion(ctx, req.DocumentID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			logrus.Warnf("document %s has no current version, restoring %s", req.DocumentID, target.ID)
		case err != nil:
			return err
		default:
			previousID = current.ID
		}

		if previousID == target.ID {
			res = &RestoreResult{
				Restoration: &model.Restoration{
					DocumentID:               req.DocumentID,
					RestoredVersionID:        target.ID,
					PreviousCurrentVersionID: target.ID,
					ResultVersionID:          target.ID,
					PerformedBy:              req.PerformedBy,
					Reason:                   req.Reason,
					PerformedAt:              r.versions.now().UTC(),
				},
				Current:        target,
				AlreadyCurrent: true,
			}
			return nil
		}

		result, err := r.promote(ctx, tx, req, target, previousID)
		if err != nil {
			return err
		}

		restoration := &model.Restoration{
			ID:                       uuid.New().String(),
			DocumentID:               req.DocumentID,
			RestoredVersionID:        target.ID,
			PreviousCurrentVersionID: previousID,
			ResultVersionID:          result.ID,
			PerformedBy:              req.PerformedBy,
			Reason:                   req.Reason,
			PerformedAt:              r.versions.now().UTC(),
		}
		if err = tx.CreateRestoration(ctx, restoration); err != nil {
			return err
		}

		res = &RestoreResult{Restoration: restoration, Current: result}
		return nil
	})
	if err != nil {
		r.versions.forget(ctx, req.DocumentID)
		if errors.Is(err, store.ErrConflict) {
			r.versions.metrics.Conflicts.WithLabelValues("restore").Inc()
		}
		return nil, translate(err, "restore", req.DocumentID)
	}

	if !res.AlreadyCurrent {
		r.versions.remember(ctx, res.Current)
	}

	return res, nil
}

// promote makes target current, either by flipping its flag or by cloning
// it into a new version.
func (r *RestoreService) promote(ctx context.Context, tx store.Store, req RestoreRequest, target *model.Version, previousID string) (*model.Version, error) {
	if r.cloneOnRestore {
		comment := req.Reason
		if comment == "" {
			comment = "restored from " + target.Token
		}

		var file *model.AttachedFile
		if !target.AttachedFile.IsZero() {
			f := target.AttachedFile
			file = &f
		}

		restoredFrom := target.ID
		clone, err := r.versions.insert(ctx, tx, VersionInput{
			DocumentID:   target.DocumentID,
			Title:        target.Title,
			Description:  target.Description,
			Content:      target.Content,
			Keywords:     target.Keywords,
			Tags:         target.Tags,
			AccessLevel:  target.AccessLevel,
			AttachedFile: file,
			Comment:      comment,
			ChangeKind:   model.ChangeKindRestoration,
			Author:       req.PerformedBy,
		}, &restoredFrom)
		if err != nil {
			return nil, err
		}

		return clone, nil
	}

	if previousID != "" {
		if err := tx.DemoteCurrent(ctx, req.DocumentID, previousID); err != nil {
			return nil, err
		}
	}
	if err := tx.PromoteVersion(ctx, req.DocumentID, target.ID); err != nil {
		return nil, err
	}
	target.IsCurrent = true

	return target, nil
}
