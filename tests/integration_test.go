package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// The suite runs against a live server started with SEED_ON_STARTUP=1 and the
// default dev JWT settings.
const (
	jwtSecret = "dev-secret-change-me"
	jwtIssuer = "unimonitor.identity"

	adminEmail  = "admin@unimonitor.com"
	carlosEmail = "carlos.p@unimonitor.com"
	anaEmail    = "ana.s@unimonitor.com"
)

type Activity struct {
	ID          string `json:"id"`
	Modality    string `json:"modality"`
	Weekday     string `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	MonitorID   string `json:"monitor_id"`
	MonitorName string `json:"monitor_name"`
}

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
	Modality    string    `json:"modality"`
	MonitorID   string    `json:"monitor_id"`
}

type IntegrationTestSuite struct {
	suite.Suite
	baseURL string
	client  *http.Client
}

func (suite *IntegrationTestSuite) SetupSuite() {
	suite.baseURL = "http://localhost:8080"
	suite.client = &http.Client{Timeout: 10 * time.Second}
	suite.waitForService()
}

func (suite *IntegrationTestSuite) waitForService() {
	for i := 0; i < 30; i++ {
		resp, err := http.Get(suite.baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			return
		}
		time.Sleep(1 * time.Second)
	}
	suite.T().Fatal("service failed to start within 30 seconds")
}

func (suite *IntegrationTestSuite) tokenFor(email string) string {
	claims := jwt.MapClaims{
		"email": email,
		"iss":   jwtIssuer,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	assert.NoError(suite.T(), err)
	return signed
}

func (suite *IntegrationTestSuite) doRequest(method, path, token string, body interface{}) (*http.Response, error) {
	var req *http.Request
	var err error

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req, err = http.NewRequest(method, suite.baseURL+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, suite.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return suite.client.Do(req)
}

func (suite *IntegrationTestSuite) publicActivities(modality string) []Activity {
	t := suite.T()
	path := "/activities/public"
	if modality != "" {
		path += "?modality=" + modality
	}
	resp, err := suite.doRequest("GET", path, "", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var listResp struct {
		Activities []Activity `json:"activities"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
	return listResp.Activities
}

func containsActivity(activities []Activity, id string) bool {
	for _, a := range activities {
		if a.ID == id {
			return true
		}
	}
	return false
}

func (suite *IntegrationTestSuite) TestPublicProjectionOnlyShowsApproved() {
	t := suite.T()

	for _, a := range suite.publicActivities("") {
		assert.Equal(t, "APPROVED", a.Status, "public listing leaked a non-approved activity")
	}

	for _, a := range suite.publicActivities("Futebol") {
		assert.Equal(t, "Futebol", a.Modality)
	}
}

func (suite *IntegrationTestSuite) TestModerationFlow() {
	t := suite.T()
	carlos := suite.tokenFor(carlosEmail)
	admin := suite.tokenFor(adminEmail)

	// Monitor submits a new activity; it starts PENDING and is not public.
	createReq := map[string]string{
		"modality":   "Futebol",
		"weekday":    "Segunda-feira",
		"start_time": "18:00",
		"end_time":   "20:00",
	}
	resp, err := suite.doRequest("POST", "/activities/create", carlos, createReq)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var createResp struct {
		Activity Activity `json:"activity"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&createResp))
	activity := createResp.Activity
	assert.Equal(t, "PENDING", activity.Status)
	assert.NotEmpty(t, activity.ID)
	assert.False(t, containsActivity(suite.publicActivities(""), activity.ID))

	// Admin approves; the activity becomes public.
	resp, err = suite.doRequest("POST", "/activities/decide", admin, map[string]string{
		"id": activity.ID, "status": "APPROVED",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, containsActivity(suite.publicActivities(""), activity.ID))

	// Owner edits the weekday; the activity drops back to PENDING and
	// disappears from the public listing until re-approved.
	resp, err = suite.doRequest("POST", "/activities/update", carlos, map[string]string{
		"id": activity.ID, "weekday": "Quinta-feira",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updateResp struct {
		Activity Activity `json:"activity"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&updateResp))
	assert.Equal(t, "PENDING", updateResp.Activity.Status)
	assert.Equal(t, "Quinta-feira", updateResp.Activity.Weekday)
	assert.False(t, containsActivity(suite.publicActivities(""), activity.ID))

	// The admin queue shows it again.
	resp, err = suite.doRequest("GET", "/activities/pending", admin, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var pendingResp struct {
		Activities []Activity `json:"activities"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&pendingResp))
	assert.True(t, containsActivity(pendingResp.Activities, activity.ID))

	// Cleanup: owner deletes the activity.
	resp, err = suite.doRequest("POST", "/activities/delete", carlos, map[string]string{"id": activity.ID})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (suite *IntegrationTestSuite) TestOwnershipEnforcement() {
	t := suite.T()
	carlos := suite.tokenFor(carlosEmail)
	ana := suite.tokenFor(anaEmail)

	resp, err := suite.doRequest("POST", "/activities/create", carlos, map[string]string{
		"modality":   "Xadrez",
		"weekday":    "Sábado",
		"start_time": "09:00",
		"end_time":   "11:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var createResp struct {
		Activity Activity `json:"activity"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&createResp))
	activity := createResp.Activity

	// A different monitor may neither delete nor edit it.
	resp, err = suite.doRequest("POST", "/activities/delete", ana, map[string]string{"id": activity.ID})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = suite.doRequest("POST", "/activities/update", ana, map[string]string{
		"id": activity.ID, "weekday": "Domingo",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The record is untouched.
	resp, err = suite.doRequest("GET", "/activities/mine", carlos, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var mineResp struct {
		Activities []Activity `json:"activities"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&mineResp))
	var found *Activity
	for i := range mineResp.Activities {
		if mineResp.Activities[i].ID == activity.ID {
			found = &mineResp.Activities[i]
		}
	}
	if assert.NotNil(t, found, "activity should still exist") {
		assert.Equal(t, "Sábado", found.Weekday)
		assert.Equal(t, "PENDING", found.Status)
	}

	// Admin override: the admin may delete any monitor's activity.
	admin := suite.tokenFor(adminEmail)
	resp, err = suite.doRequest("POST", "/activities/delete", admin, map[string]string{"id": activity.ID})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (suite *IntegrationTestSuite) TestRoleGates() {
	t := suite.T()
	carlos := suite.tokenFor(carlosEmail)
	admin := suite.tokenFor(adminEmail)

	// No token at all.
	resp, err := suite.doRequest("POST", "/activities/create", "", map[string]string{"modality": "Futebol"})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid token, unprovisioned user.
	resp, err = suite.doRequest("GET", "/activities/mine", suite.tokenFor("ghost@unimonitor.com"), nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Monitor cannot decide or use admin listings.
	resp, err = suite.doRequest("POST", "/activities/decide", carlos, map[string]string{"id": "whatever", "status": "APPROVED"})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = suite.doRequest("GET", "/activities/pending", carlos, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = suite.doRequest("GET", "/users/list", carlos, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin cannot create activities.
	resp, err = suite.doRequest("POST", "/activities/create", admin, map[string]string{
		"modality": "Futebol", "weekday": "Segunda-feira", "start_time": "10:00", "end_time": "11:00",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Admin sees the roster.
	resp, err = suite.doRequest("GET", "/users/list", admin, nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (suite *IntegrationTestSuite) TestValidationRules() {
	t := suite.T()
	carlos := suite.tokenFor(carlosEmail)

	cases := []map[string]string{
		// end equal to start
		{"modality": "Futebol", "weekday": "Segunda-feira", "start_time": "10:00", "end_time": "10:00"},
		// end before start
		{"modality": "Futebol", "weekday": "Segunda-feira", "start_time": "20:00", "end_time": "18:00"},
		// unknown weekday
		{"modality": "Futebol", "weekday": "Monday", "start_time": "10:00", "end_time": "11:00"},
		// malformed time
		{"modality": "Futebol", "weekday": "Segunda-feira", "start_time": "10h00", "end_time": "11:00"},
		// empty modality
		{"modality": "", "weekday": "Segunda-feira", "start_time": "10:00", "end_time": "11:00"},
	}
	for _, body := range cases {
		resp, err := suite.doRequest("POST", "/activities/create", carlos, body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "body %v should fail validation", body)
	}

	// Numeric time comparison: "9:30" > "09:00" even though string order says otherwise.
	resp, err := suite.doRequest("POST", "/activities/create", carlos, map[string]string{
		"modality": "Atletismo", "weekday": "Domingo", "start_time": "09:00", "end_time": "9:30",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var createResp struct {
		Activity Activity `json:"activity"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&createResp))
	resp, err = suite.doRequest("POST", "/activities/delete", carlos, map[string]string{"id": createResp.Activity.ID})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (suite *IntegrationTestSuite) TestAnnouncementLifecycle() {
	t := suite.T()
	ana := suite.tokenFor(anaEmail)
	carlos := suite.tokenFor(carlosEmail)

	title := fmt.Sprintf("Aviso de integração %d", time.Now().Unix())
	resp, err := suite.doRequest("POST", "/announcements/create", ana, map[string]string{
		"title":    title,
		"message":  "Aviso criado pelo teste de integração, pode ignorar.",
		"modality": "Natação",
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var createResp struct {
		Announcement Announcement `json:"announcement"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&createResp))
	ann := createResp.Announcement
	assert.False(t, ann.PublishedAt.IsZero(), "publication date should be set at creation")

	// Announcements are public immediately, no moderation step.
	resp, err = suite.doRequest("GET", "/announcements/public?modality=Natação", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listResp struct {
		Announcements []Announcement `json:"announcements"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
	found := false
	for _, a := range listResp.Announcements {
		if a.ID == ann.ID {
			found = true
		}
	}
	assert.True(t, found, "announcement should be publicly visible right away")

	// Only the owner may touch it.
	resp, err = suite.doRequest("POST", "/announcements/delete", carlos, map[string]string{"id": ann.ID})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, err = suite.doRequest("POST", "/announcements/delete", ana, map[string]string{"id": ann.ID})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
