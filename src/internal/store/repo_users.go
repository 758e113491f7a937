package store

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

func (r *Repositories) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	r.Log.Debug("GetUserByEmail: start", zap.String("email", email))
	var u model.User
	if err := r.DB.QueryRowContext(ctx, `SELECT user_id, name, email, role FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("GetUserByEmail: not found", zap.String("email", email))
			return model.User{}, model.ErrNotFound
		}
		r.Log.Error("GetUserByEmail: query failed", zap.Error(err))
		return model.User{}, mapErr(err)
	}
	r.Log.Debug("GetUserByEmail: success", zap.String("user", u.ID))
	return u, nil
}

func (r *Repositories) GetUser(ctx context.Context, userID string) (model.User, error) {
	r.Log.Debug("GetUser: start", zap.String("user", userID))
	var u model.User
	if err := r.DB.QueryRowContext(ctx, `SELECT user_id, name, email, role FROM users WHERE user_id=$1`, userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("GetUser: not found", zap.String("user", userID))
			return model.User{}, model.ErrNotFound
		}
		r.Log.Error("GetUser: query failed", zap.Error(err))
		return model.User{}, mapErr(err)
	}
	r.Log.Debug("GetUser: success", zap.String("user", userID))
	return u, nil
}

func (r *Repositories) ListUsers(ctx context.Context) ([]model.User, error) {
	r.Log.Debug("ListUsers: start")
	rows, err := r.DB.QueryContext(ctx, `SELECT user_id, name, email, role FROM users ORDER BY name`)
	if err != nil {
		r.Log.Error("ListUsers: query failed", zap.Error(err))
		return nil, mapErr(err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			r.Log.Error("ListUsers: close rows failed", zap.Error(err))
		}
	}(rows)

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			r.Log.Error("ListUsers: scan failed", zap.Error(err))
			return nil, mapErr(err)
		}
		users = append(users, u)
	}
	r.Log.Debug("ListUsers: success", zap.Int("count", len(users)))
	return users, nil
}
