package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

const activityColumns = `activity_id, modality, weekday, start_time, end_time, status, monitor_id, monitor_name`

// CreateActivity validates the record shape, assigns a generated id and
// writes the row as a single statement.
func (r *Repositories) CreateActivity(ctx context.Context, a model.Activity) (model.Activity, error) {
	r.Log.Debug("CreateActivity: start", zap.String("modality", a.Modality), zap.String("monitor", a.MonitorID))
	if err := model.ValidateActivity(a); err != nil {
		r.Log.Debug("CreateActivity: validation failed", zap.Error(err))
		return model.Activity{}, err
	}

	a.ID = uuid.New().String()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO activities(`+activityColumns+`) VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.Modality, a.Weekday, a.StartTime, a.EndTime, a.Status, a.MonitorID, a.MonitorName)
	if err != nil {
		r.Log.Error("CreateActivity: insert failed", zap.String("activity", a.ID), zap.Error(err))
		return model.Activity{}, mapErr(err)
	}
	r.Log.Info("CreateActivity: success", zap.String("activity", a.ID), zap.String("monitor", a.MonitorID))
	return a, nil
}

func (r *Repositories) GetActivity(ctx context.Context, activityID string) (model.Activity, error) {
	r.Log.Debug("GetActivity: start", zap.String("activity", activityID))
	var a model.Activity
	if err := r.DB.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE activity_id=$1`, activityID).
		Scan(&a.ID, &a.Modality, &a.Weekday, &a.StartTime, &a.EndTime, &a.Status, &a.MonitorID, &a.MonitorName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("GetActivity: not found", zap.String("activity", activityID))
			return model.Activity{}, model.ErrNotFound
		}
		r.Log.Error("GetActivity: query failed", zap.String("activity", activityID), zap.Error(err))
		return model.Activity{}, mapErr(err)
	}
	r.Log.Debug("GetActivity: success", zap.String("activity", activityID))
	return a, nil
}

// UpdateActivity overwrites every mutable column of an existing row. The
// caller merges partial updates before calling; the merged record is
// validated here, at the store boundary.
func (r *Repositories) UpdateActivity(ctx context.Context, a model.Activity) error {
	r.Log.Debug("UpdateActivity: start", zap.String("activity", a.ID))
	if err := model.ValidateActivity(a); err != nil {
		r.Log.Debug("UpdateActivity: validation failed", zap.Error(err))
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		`UPDATE activities
		 SET modality=$2, weekday=$3, start_time=$4, end_time=$5, status=$6, monitor_name=$7
		 WHERE activity_id=$1`,
		a.ID, a.Modality, a.Weekday, a.StartTime, a.EndTime, a.Status, a.MonitorName)
	if err != nil {
		r.Log.Error("UpdateActivity: update failed", zap.String("activity", a.ID), zap.Error(err))
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.Log.Debug("UpdateActivity: not found", zap.String("activity", a.ID))
		return model.ErrNotFound
	}
	r.Log.Info("UpdateActivity: success", zap.String("activity", a.ID), zap.String("status", string(a.Status)))
	return nil
}

func (r *Repositories) DeleteActivity(ctx context.Context, activityID string) error {
	r.Log.Debug("DeleteActivity: start", zap.String("activity", activityID))
	res, err := r.DB.ExecContext(ctx, `DELETE FROM activities WHERE activity_id=$1`, activityID)
	if err != nil {
		r.Log.Error("DeleteActivity: delete failed", zap.String("activity", activityID), zap.Error(err))
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		r.Log.Debug("DeleteActivity: not found", zap.String("activity", activityID))
		return model.ErrNotFound
	}
	r.Log.Info("DeleteActivity: success", zap.String("activity", activityID))
	return nil
}

func (r *Repositories) ListActivities(ctx context.Context, f ActivityFilter) ([]model.Activity, error) {
	r.Log.Debug("ListActivities: start")
	query := `SELECT ` + activityColumns + ` FROM activities`
	var (
		clauses []string
		args    []any
	)
	if f.Status != nil {
		args = append(args, *f.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		clauses = append(clauses, fmt.Sprintf("monitor_id=$%d", len(args)))
	}
	if f.Modality != nil {
		args = append(args, *f.Modality)
		clauses = append(clauses, fmt.Sprintf("modality=$%d", len(args)))
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY created_at"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		r.Log.Error("ListActivities: query failed", zap.Error(err))
		return nil, mapErr(err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.Log.Error("ListActivities: close rows failed", zap.Error(err))
		}
	}(rows)

	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Modality, &a.Weekday, &a.StartTime, &a.EndTime, &a.Status, &a.MonitorID, &a.MonitorName); err != nil {
			r.Log.Error("ListActivities: scan failed", zap.Error(err))
			return nil, mapErr(err)
		}
		out = append(out, a)
	}
	r.Log.Debug("ListActivities: success", zap.Int("count", len(out)))
	return out, nil
}
