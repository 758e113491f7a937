package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

// Seed populates an empty database with a demo admin, two monitors and a
// handful of activities and announcements. It is a no-op when any user
// already exists, so it is safe to run on every startup.
func (r *Repositories) Seed(ctx context.Context) error {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		r.Log.Error("Seed: count users failed", zap.Error(err))
		return mapErr(err)
	}
	if count > 0 {
		r.Log.Debug("Seed: database already populated, skipping")
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		r.Log.Error("Seed: begin tx failed", zap.Error(err))
		return mapErr(err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			r.Log.Warn("Seed: rollback failed", zap.Error(err))
		}
	}()

	users := []model.User{
		{ID: uuid.New().String(), Name: "Administrador", Email: "admin@unimonitor.com", Role: model.RoleAdmin},
		{ID: uuid.New().String(), Name: "Carlos Pereira", Email: "carlos.p@unimonitor.com", Role: model.RoleMonitor},
		{ID: uuid.New().String(), Name: "Ana Souza", Email: "ana.s@unimonitor.com", Role: model.RoleMonitor},
	}
	for _, u := range users {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users(user_id, name, email, role) VALUES($1,$2,$3,$4)`,
			u.ID, u.Name, u.Email, u.Role); err != nil {
			r.Log.Error("Seed: insert user failed", zap.String("email", u.Email), zap.Error(err))
			return mapErr(err)
		}
	}
	carlos, ana := users[1], users[2]

	activities := []model.Activity{
		{Modality: "Futebol", Weekday: "Segunda-feira", StartTime: "18:00", EndTime: "19:00", Status: model.StatusApproved, MonitorID: carlos.ID, MonitorName: carlos.Name},
		{Modality: "Vôlei", Weekday: "Terça-feira", StartTime: "19:00", EndTime: "20:00", Status: model.StatusApproved, MonitorID: ana.ID, MonitorName: ana.Name},
		{Modality: "Basquete", Weekday: "Quarta-feira", StartTime: "17:30", EndTime: "18:30", Status: model.StatusPending, MonitorID: carlos.ID, MonitorName: carlos.Name},
		{Modality: "Yoga", Weekday: "Sexta-feira", StartTime: "08:00", EndTime: "09:00", Status: model.StatusRejected, MonitorID: ana.ID, MonitorName: ana.Name},
		{Modality: "Natação", Weekday: "Sábado", StartTime: "10:00", EndTime: "11:00", Status: model.StatusApproved, MonitorID: ana.ID, MonitorName: ana.Name},
	}
	for _, a := range activities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activities(`+activityColumns+`) VALUES($1,$2,$3,$4,$5,$6,$7,$8)`,
			uuid.New().String(), a.Modality, a.Weekday, a.StartTime, a.EndTime, a.Status, a.MonitorID, a.MonitorName); err != nil {
			r.Log.Error("Seed: insert activity failed", zap.String("modality", a.Modality), zap.Error(err))
			return mapErr(err)
		}
	}

	now := time.Now().UTC()
	announcements := []model.Announcement{
		{Title: "Início das Aulas de Natação", Message: "As aulas de natação começarão na próxima semana. Vagas limitadas!", PublishedAt: now, Modality: "Natação", MonitorID: ana.ID},
		{Title: "Cancelamento do Treino de Futebol", Message: "O treino de futebol de hoje foi cancelado devido à chuva.", PublishedAt: now, Modality: "Futebol", MonitorID: carlos.ID},
	}
	for _, a := range announcements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO announcements(`+announcementColumns+`) VALUES($1,$2,$3,$4,$5,$6)`,
			uuid.New().String(), a.Title, a.Message, a.PublishedAt, a.Modality, a.MonitorID); err != nil {
			r.Log.Error("Seed: insert announcement failed", zap.String("title", a.Title), zap.Error(err))
			return mapErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.Log.Error("Seed: commit failed", zap.Error(err))
		return mapErr(err)
	}
	r.Log.Info("Seed: demo data inserted", zap.Int("users", len(users)), zap.Int("activities", len(activities)), zap.Int("announcements", len(announcements)))
	return nil
}
