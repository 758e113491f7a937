package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unimonitor/sports-activity-service/src/internal/api/apiErrors"
	"github.com/unimonitor/sports-activity-service/src/internal/model"
)

var (
	admin    = &model.User{ID: "admin1", Name: "Administrador", Role: model.RoleAdmin}
	monitor  = &model.User{ID: "mon1", Name: "Carlos", Role: model.RoleMonitor}
	monitor2 = &model.User{ID: "mon2", Name: "Ana", Role: model.RoleMonitor}
)

func TestAuthorize(t *testing.T) {
	ownedByMon1 := &Target{OwnerID: "mon1"}

	cases := []struct {
		name     string
		user     *model.User
		op       Operation
		target   *Target
		wantCode apiErrors.ErrorCode // "" means allowed
	}{
		{"public activities need no user", nil, OpListPublicActivities, nil, ""},
		{"public announcements need no user", nil, OpListPublicAnnouncements, nil, ""},

		{"monitor creates activity", monitor, OpCreateActivity, nil, ""},
		{"monitor creates announcement", monitor, OpCreateAnnouncement, nil, ""},
		{"admin cannot create activity", admin, OpCreateActivity, nil, apiErrors.InsufficientRole},
		{"anonymous cannot create activity", nil, OpCreateActivity, nil, apiErrors.NotAuthenticated},

		{"owner edits own activity", monitor, OpUpdateActivity, ownedByMon1, ""},
		{"owner deletes own activity", monitor, OpDeleteActivity, ownedByMon1, ""},
		{"owner edits own announcement", monitor, OpUpdateAnnouncement, ownedByMon1, ""},
		{"foreign monitor cannot edit", monitor2, OpUpdateActivity, ownedByMon1, apiErrors.InsufficientRole},
		{"foreign monitor cannot delete", monitor2, OpDeleteActivity, ownedByMon1, apiErrors.InsufficientRole},
		{"admin cannot edit activity fields", admin, OpUpdateActivity, ownedByMon1, apiErrors.InsufficientRole},
		{"admin may delete any activity", admin, OpDeleteActivity, ownedByMon1, ""},
		{"admin cannot delete announcements", admin, OpDeleteAnnouncement, ownedByMon1, apiErrors.InsufficientRole},

		{"admin decides", admin, OpDecideActivity, nil, ""},
		{"monitor cannot decide", monitor, OpDecideActivity, nil, apiErrors.InsufficientRole},
		{"anonymous cannot decide", nil, OpDecideActivity, nil, apiErrors.NotAuthenticated},

		{"admin lists all activities", admin, OpListAllActivities, nil, ""},
		{"monitor cannot list all", monitor, OpListAllActivities, nil, apiErrors.InsufficientRole},
		{"admin lists users", admin, OpListUsers, nil, ""},
		{"monitor cannot list users", monitor, OpListUsers, nil, apiErrors.InsufficientRole},

		{"unknown operation is denied", admin, Operation("something.else"), nil, apiErrors.InsufficientRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.user, tc.op, tc.target)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var e apiErrors.APIError
			assert.True(t, errors.As(err, &e))
			assert.Equal(t, tc.wantCode, e.Code)
		})
	}
}

func TestAuthorize_MissingTargetDeniesOwnership(t *testing.T) {
	// An ownership-gated operation with no target can never match rule 3.
	err := Authorize(monitor, OpUpdateActivity, nil)
	var e apiErrors.APIError
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, apiErrors.InsufficientRole, e.Code)
}
