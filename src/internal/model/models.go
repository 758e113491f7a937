package model

import "time"

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleMonitor Role = "MONITOR"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Weekdays lists the seven values accepted for Activity.Weekday, in the
// portal's display language.
var Weekdays = []string{
	"Segunda-feira",
	"Terça-feira",
	"Quarta-feira",
	"Quinta-feira",
	"Sexta-feira",
	"Sábado",
	"Domingo",
}

// Modalities is the flat catalog of sport names activities and announcements
// are grouped by. There is no modality entity; matching is by string equality.
var Modalities = []string{
	"Futebol",
	"Vôlei",
	"Basquete",
	"Natação",
	"Handebol",
	"Atletismo",
	"Tênis de Mesa",
	"Xadrez",
	"Yoga",
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Activity struct {
	ID       string `json:"id"`
	Modality string `json:"modality" validate:"required"`
	Weekday  string `json:"weekday" validate:"required,weekday"`
	// StartTime and EndTime are same-day 24h clock times, "HH:MM".
	StartTime string `json:"start_time" validate:"required,clocktime"`
	EndTime   string `json:"end_time" validate:"required,clocktime"`
	Status    Status `json:"status"`
	MonitorID string `json:"monitor_id"`
	// MonitorName is a snapshot of the owner's name taken at creation and
	// refreshed on owner edits. It goes stale if the user is later renamed.
	MonitorName string `json:"monitor_name"`
}

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,min=5,max=100"`
	Message     string    `json:"message" validate:"required,min=10,max=500"`
	PublishedAt time.Time `json:"published_at"`
	Modality    string    `json:"modality" validate:"required"`
	MonitorID   string    `json:"monitor_id"`
}

// ActivityUpdate is a partial update to an activity's schedule fields. Nil
// fields are left unchanged; the merged record is validated as a whole.
type ActivityUpdate struct {
	Modality  *string `json:"modality"`
	Weekday   *string `json:"weekday"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

func (u ActivityUpdate) ApplyTo(a *Activity) {
	if u.Modality != nil {
		a.Modality = *u.Modality
	}
	if u.Weekday != nil {
		a.Weekday = *u.Weekday
	}
	if u.StartTime != nil {
		a.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		a.EndTime = *u.EndTime
	}
}

// AnnouncementUpdate is a partial update to an announcement. PublishedAt is
// immutable and intentionally absent.
type AnnouncementUpdate struct {
	Title    *string `json:"title"`
	Message  *string `json:"message"`
	Modality *string `json:"modality"`
}

func (u AnnouncementUpdate) ApplyTo(a *Announcement) {
	if u.Title != nil {
		a.Title = *u.Title
	}
	if u.Message != nil {
		a.Message = *u.Message
	}
	if u.Modality != nil {
		a.Modality = *u.Modality
	}
}

type AppError string

func (e AppError) Error() string { return string(e) }

const (
	ErrNotFound         = AppError("NOT_FOUND")
	ErrStoreUnavailable = AppError("STORE_UNAVAILABLE")
)
