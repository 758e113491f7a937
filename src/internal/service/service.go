package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/api/apiErrors"
	"github.com/unimonitor/sports-activity-service/src/internal/model"
	"github.com/unimonitor/sports-activity-service/src/internal/observability"
	"github.com/unimonitor/sports-activity-service/src/internal/policy"
	"github.com/unimonitor/sports-activity-service/src/internal/store"
)

// Service implements the activity/announcement lifecycle. Every operation
// takes the resolved identity as an explicit parameter; there is no ambient
// session state.
type Service struct {
	repo store.Repository
	log  *zap.Logger
}

func NewService(repos store.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repos, log: logger}
}

// ResolveIdentity exchanges a verified email for the matching portal user.
func (s *Service) ResolveIdentity(ctx context.Context, email string) (model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apiErrors.APIError{Code: apiErrors.UserNotProvisioned, Message: "no portal user for this credential"}
		}
		return model.User{}, svcErr(err)
	}
	return u, nil
}

// normalizeModality maps the public filter convention ("all" or absent means
// no filtering) onto the store's empty-string convention.
func normalizeModality(modality string) string {
	if modality == "all" {
		return ""
	}
	return modality
}

// ListPublicActivities returns approved activities, optionally restricted to
// one modality. Pending and rejected activities are never exposed here.
func (s *Service) ListPublicActivities(ctx context.Context, modality string) ([]model.Activity, error) {
	if err := policy.Authorize(nil, policy.OpListPublicActivities, nil); err != nil {
		return nil, err
	}
	approved := model.StatusApproved
	f := store.ActivityFilter{Status: &approved}
	if m := normalizeModality(modality); m != "" {
		f.Modality = &m
	}
	out, err := s.repo.ListActivities(ctx, f)
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

func (s *Service) ListPublicAnnouncements(ctx context.Context, modality string) ([]model.Announcement, error) {
	if err := policy.Authorize(nil, policy.OpListPublicAnnouncements, nil); err != nil {
		return nil, err
	}
	out, err := s.repo.ListAnnouncements(ctx, normalizeModality(modality))
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

// CreateActivity submits a new activity for moderation. Whatever status the
// caller supplied is discarded; every new activity starts PENDING.
func (s *Service) CreateActivity(ctx context.Context, actor *model.User, a model.Activity) (model.Activity, error) {
	if err := policy.Authorize(actor, policy.OpCreateActivity, nil); err != nil {
		return model.Activity{}, err
	}

	a.Status = model.StatusPending
	a.MonitorID = actor.ID
	a.MonitorName = actor.Name

	created, err := s.repo.CreateActivity(ctx, a)
	if err != nil {
		return model.Activity{}, svcErr(err)
	}
	observability.RecordSubmission()
	s.log.Info("activity submitted for moderation", zap.String("activity", created.ID), zap.String("monitor", actor.ID))
	return created, nil
}

// UpdateActivity applies a partial edit by the owning monitor. Any edit, even
// of an approved activity, sends the record back through moderation and
// refreshes the owner-name snapshot.
func (s *Service) UpdateActivity(ctx context.Context, actor *model.User, activityID string, upd model.ActivityUpdate) (model.Activity, error) {
	existing, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Activity{}, apiErrors.APIError{Code: apiErrors.NotFound, Message: "activity not found"}
		}
		return model.Activity{}, svcErr(err)
	}
	if err := policy.Authorize(actor, policy.OpUpdateActivity, &policy.Target{OwnerID: existing.MonitorID}); err != nil {
		return model.Activity{}, err
	}

	upd.ApplyTo(&existing)
	existing.Status = model.StatusPending
	existing.MonitorName = actor.Name

	if err := s.repo.UpdateActivity(ctx, existing); err != nil {
		return model.Activity{}, svcErr(err)
	}
	observability.RecordSubmission()
	s.log.Info("activity edited, back to pending", zap.String("activity", existing.ID), zap.String("monitor", actor.ID))
	return existing, nil
}

// DeleteActivity removes an activity. The owning monitor may delete its own
// records; an admin may delete any activity at any status.
func (s *Service) DeleteActivity(ctx context.Context, actor *model.User, activityID string) error {
	existing, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apiErrors.APIError{Code: apiErrors.NotFound, Message: "activity not found"}
		}
		return svcErr(err)
	}
	if err := policy.Authorize(actor, policy.OpDeleteActivity, &policy.Target{OwnerID: existing.MonitorID}); err != nil {
		return err
	}
	if err := s.repo.DeleteActivity(ctx, activityID); err != nil {
		return svcErr(err)
	}
	s.log.Info("activity deleted", zap.String("activity", activityID), zap.String("actor", actor.ID))
	return nil
}

// DecideActivity applies an admin moderation decision. Re-deciding an
// already-decided activity is an idempotent overwrite; the only way back to
// PENDING is a monitor edit.
func (s *Service) DecideActivity(ctx context.Context, actor *model.User, activityID string, decision model.Status) (model.Activity, error) {
	if err := policy.Authorize(actor, policy.OpDecideActivity, nil); err != nil {
		return model.Activity{}, err
	}
	if decision != model.StatusApproved && decision != model.StatusRejected {
		return model.Activity{}, apiErrors.APIError{
			Code: apiErrors.ValidationFailed, Field: "status",
			Message: "decision must be APPROVED or REJECTED",
		}
	}

	a, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Activity{}, apiErrors.APIError{Code: apiErrors.NotFound, Message: "activity not found"}
		}
		return model.Activity{}, svcErr(err)
	}

	a.Status = decision
	if err := s.repo.UpdateActivity(ctx, a); err != nil {
		return model.Activity{}, svcErr(err)
	}
	observability.RecordDecision(string(decision))
	s.log.Info("moderation decision applied", zap.String("activity", a.ID), zap.String("decision", string(decision)), zap.String("admin", actor.ID))
	return a, nil
}

// ListPendingActivities returns the admin moderation queue.
func (s *Service) ListPendingActivities(ctx context.Context, actor *model.User) ([]model.Activity, error) {
	if err := policy.Authorize(actor, policy.OpListAllActivities, nil); err != nil {
		return nil, err
	}
	pending := model.StatusPending
	out, err := s.repo.ListActivities(ctx, store.ActivityFilter{Status: &pending})
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

// ListAllActivities returns every activity regardless of status (admin only).
func (s *Service) ListAllActivities(ctx context.Context, actor *model.User) ([]model.Activity, error) {
	if err := policy.Authorize(actor, policy.OpListAllActivities, nil); err != nil {
		return nil, err
	}
	out, err := s.repo.ListActivities(ctx, store.ActivityFilter{})
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

// ListOwnActivities returns the actor's activities for the monitor dashboard.
// No policy gate: the result is scoped to the caller by construction.
func (s *Service) ListOwnActivities(ctx context.Context, actor *model.User) ([]model.Activity, error) {
	out, err := s.repo.ListActivities(ctx, store.ActivityFilter{OwnerID: &actor.ID})
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

// CreateAnnouncement publishes immediately; announcements skip moderation.
// The publication date is set here and never changes.
func (s *Service) CreateAnnouncement(ctx context.Context, actor *model.User, a model.Announcement) (model.Announcement, error) {
	if err := policy.Authorize(actor, policy.OpCreateAnnouncement, nil); err != nil {
		return model.Announcement{}, err
	}

	a.MonitorID = actor.ID
	a.PublishedAt = time.Now().UTC()

	created, err := s.repo.CreateAnnouncement(ctx, a)
	if err != nil {
		return model.Announcement{}, svcErr(err)
	}
	s.log.Info("announcement published", zap.String("announcement", created.ID), zap.String("monitor", actor.ID))
	return created, nil
}

func (s *Service) UpdateAnnouncement(ctx context.Context, actor *model.User, announcementID string, upd model.AnnouncementUpdate) (model.Announcement, error) {
	existing, err := s.repo.GetAnnouncement(ctx, announcementID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Announcement{}, apiErrors.APIError{Code: apiErrors.NotFound, Message: "announcement not found"}
		}
		return model.Announcement{}, svcErr(err)
	}
	if err := policy.Authorize(actor, policy.OpUpdateAnnouncement, &policy.Target{OwnerID: existing.MonitorID}); err != nil {
		return model.Announcement{}, err
	}

	upd.ApplyTo(&existing)
	if err := s.repo.UpdateAnnouncement(ctx, existing); err != nil {
		return model.Announcement{}, svcErr(err)
	}
	s.log.Info("announcement updated", zap.String("announcement", existing.ID), zap.String("monitor", actor.ID))
	return existing, nil
}

func (s *Service) DeleteAnnouncement(ctx context.Context, actor *model.User, announcementID string) error {
	existing, err := s.repo.GetAnnouncement(ctx, announcementID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apiErrors.APIError{Code: apiErrors.NotFound, Message: "announcement not found"}
		}
		return svcErr(err)
	}
	if err := policy.Authorize(actor, policy.OpDeleteAnnouncement, &policy.Target{OwnerID: existing.MonitorID}); err != nil {
		return err
	}
	if err := s.repo.DeleteAnnouncement(ctx, announcementID); err != nil {
		return svcErr(err)
	}
	s.log.Info("announcement deleted", zap.String("announcement", announcementID), zap.String("monitor", actor.ID))
	return nil
}

func (s *Service) ListOwnAnnouncements(ctx context.Context, actor *model.User) ([]model.Announcement, error) {
	out, err := s.repo.ListAnnouncementsByOwner(ctx, actor.ID)
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

// ListUsers returns the full roster for monitor management (admin only).
func (s *Service) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := policy.Authorize(actor, policy.OpListUsers, nil); err != nil {
		return nil, err
	}
	out, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, svcErr(err)
	}
	return out, nil
}

// svcErr converts store-level sentinels into API errors with stable codes.
func svcErr(err error) error {
	var vErr model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotFound):
		return apiErrors.APIError{Code: apiErrors.NotFound, Message: "record not found"}
	case errors.Is(err, model.ErrStoreUnavailable):
		return apiErrors.APIError{Code: apiErrors.StoreUnavailable, Message: "backing store unavailable, retry later"}
	case errors.As(err, &vErr):
		return apiErrors.APIError{Code: apiErrors.ValidationFailed, Field: vErr.Field, Message: vErr.Error()}
	}
	return err
}
