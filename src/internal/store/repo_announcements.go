package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

const announcementColumns = `announcement_id, title, message, published_at, modality, monitor_id`

func (r *Repositories) CreateAnnouncement(ctx context.Context, a model.Announcement) (model.Announcement, error) {
	r.Log.Debug("CreateAnnouncement: start", zap.String("modality", a.Modality), zap.String("monitor", a.MonitorID))
	if err := model.ValidateAnnouncement(a); err != nil {
		r.Log.Debug("CreateAnnouncement: validation failed", zap.Error(err))
		return model.Announcement{}, err
	}

	a.ID = uuid.New().String()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO announcements(`+announcementColumns+`) VALUES($1,$2,$3,$4,$5,$6)`,
		a.ID, a.Title, a.Message, a.PublishedAt, a.Modality, a.MonitorID)
	if err != nil {
		r.Log.Error("CreateAnnouncement: insert failed", zap.String("announcement", a.ID), zap.Error(err))
		return model.Announcement{}, mapErr(err)
	}
	r.Log.Info("CreateAnnouncement: success", zap.String("announcement", a.ID), zap.String("monitor", a.MonitorID))
	return a, nil
}

func (r *Repositories) GetAnnouncement(ctx context.Context, announcementID string) (model.Announcement, error) {
	r.Log.Debug("GetAnnouncement: start", zap.String("announcement", announcementID))
	var a model.Announcement
	if err := r.DB.QueryRowContext(ctx, `SELECT `+announcementColumns+` FROM announcements WHERE announcement_id=$1`, announcementID).
		Scan(&a.ID, &a.Title, &a.Message, &a.PublishedAt, &a.Modality, &a.MonitorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("GetAnnouncement: not found", zap.String("announcement", announcementID))
			return model.Announcement{}, model.ErrNotFound
		}
		r.Log.Error("GetAnnouncement: query failed", zap.String("announcement", announcementID), zap.Error(err))
		return model.Announcement{}, mapErr(err)
	}
	r.Log.Debug("GetAnnouncement: success", zap.String("announcement", announcementID))
	return a, nil
}

// UpdateAnnouncement overwrites the mutable columns. published_at never
// changes after creation.
func (r *Repositories) UpdateAnnouncement(ctx context.Context, a model.Announcement) error {
	r.Log.Debug("UpdateAnnouncement: start", zap.String("announcement", a.ID))
	if err := model.ValidateAnnouncement(a); err != nil {
		r.Log.Debug("UpdateAnnouncement: validation failed", zap.Error(err))
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE announcements SET title=$2, message=$3, modality=$4 WHERE announcement_id=$1`,
		a.ID, a.Title, a.Message, a.Modality)
	if err != nil {
		r.Log.Error("UpdateAnnouncement: update failed", zap.String("announcement", a.ID), zap.Error(err))
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.Log.Debug("UpdateAnnouncement: not found", zap.String("announcement", a.ID))
		return model.ErrNotFound
	}
	r.Log.Info("UpdateAnnouncement: success", zap.String("announcement", a.ID))
	return nil
}

func (r *Repositories) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	r.Log.Debug("DeleteAnnouncement: start", zap.String("announcement", announcementID))
	res, err := r.DB.ExecContext(ctx, `DELETE FROM announcements WHERE announcement_id=$1`, announcementID)
	if err != nil {
		r.Log.Error("DeleteAnnouncement: delete failed", zap.String("announcement", announcementID), zap.Error(err))
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.Log.Debug("DeleteAnnouncement: not found", zap.String("announcement", announcementID))
		return model.ErrNotFound
	}
	r.Log.Info("DeleteAnnouncement: success", zap.String("announcement", announcementID))
	return nil
}

func (r *Repositories) ListAnnouncements(ctx context.Context, modality string) ([]model.Announcement, error) {
	r.Log.Debug("ListAnnouncements: start", zap.String("modality", modality))
	query := `SELECT ` + announcementColumns + ` FROM announcements`
	var args []any
	if modality != "" {
		query += ` WHERE modality=$1`
		args = append(args, modality)
	}
	query += ` ORDER BY published_at DESC`
	return r.queryAnnouncements(ctx, query, args...)
}

func (r *Repositories) ListAnnouncementsByOwner(ctx context.Context, ownerID string) ([]model.Announcement, error) {
	r.Log.Debug("ListAnnouncementsByOwner: start", zap.String("monitor", ownerID))
	return r.queryAnnouncements(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE monitor_id=$1 ORDER BY published_at DESC`, ownerID)
}

func (r *Repositories) queryAnnouncements(ctx context.Context, query string, args ...any) ([]model.Announcement, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.Log.Error("queryAnnouncements: query failed", zap.Error(err))
		return nil, mapErr(err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.Log.Error("queryAnnouncements: close rows failed", zap.Error(err))
		}
	}(rows)

	var out []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Message, &a.PublishedAt, &a.Modality, &a.MonitorID); err != nil {
			r.Log.Error("queryAnnouncements: scan failed", zap.Error(err))
			return nil, mapErr(err)
		}
		out = append(out, a)
	}
	r.Log.Debug("queryAnnouncements: success", zap.Int("count", len(out)))
	return out, nil
}
