package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"

	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

// ActivityFilter narrows ListActivities. Nil fields apply no restriction.
type ActivityFilter struct {
	Status   *model.Status
	OwnerID  *string
	Modality *string
}

type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error)
	GetActivity(ctx context.Context, activityID string) (model.Activity, error)
	UpdateActivity(ctx context.Context, a model.Activity) error
	DeleteActivity(ctx context.Context, activityID string) error
	ListActivities(ctx context.Context, f ActivityFilter) ([]model.Activity, error)

	CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error)
	GetAnnouncement(ctx context.Context, announcementID string) (model.Announcement, error)
	UpdateAnnouncement(ctx context.Context, a model.Announcement) error
	DeleteAnnouncement(ctx context.Context, announcementID string) error
	ListAnnouncements(ctx context.Context, modality string) ([]model.Announcement, error)
	ListAnnouncementsByOwner(ctx context.Context, ownerID string) ([]model.Announcement, error)
}

type Repositories struct {
	DB  *sql.DB
	Log *zap.Logger
}

func NewRepositories(db *sql.DB, logger *zap.Logger) *Repositories {
	return &Repositories{DB: db, Log: logger}
}

// mapErr folds transient backing-store failures into ErrStoreUnavailable so
// callers can distinguish retryable faults from terminal ones.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone):
		return model.ErrStoreUnavailable
	}
	return err
}
