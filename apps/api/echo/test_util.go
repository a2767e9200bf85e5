package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/attendancr/attendancr/core"
	"github.com/attendancr/attendancr/core/attendance"
	"github.com/attendancr/attendancr/core/link"
	"github.com/attendancr/attendancr/core/roster"
	"github.com/attendancr/attendancr/core/staff"
	"github.com/attendancr/attendancr/core/student"
	telegramsvc "github.com/attendancr/attendancr/services/telegram"
	dummydb "github.com/attendancr/attendancr/storage/database/dummy"
)

func newTestConfig() *core.Config {
	return &core.Config{
		Env:             "TEST",
		TestMode:        true,
		AppName:         "Attendancr",
		CentreName:      "ABC Centre",
		SecretKey:       "secret",
		Telegram:        core.TelegramConfig{BotUsername: "attendancr_bot"},
		StaffSessionTTL: 8 * time.Hour,
		AdminTokenTTL:   24 * time.Hour,
		LinkCodeTTL:     24 * time.Hour,
	}
}

type testSource struct {
	table [][]string
	err   error
}

func (s *testSource) Fetch(context.Context) ([][]string, error) { return s.table, s.err }

// testApp bundles the server under test with the seams the tests poke at.
type testApp struct {
	server   Server
	conf     *core.Config
	source   *testSource
	staffSvc *staff.Service
	linkSvc  *link.Service

	students       student.Repository
	staffRepo      staff.Repository
	attendanceRepo attendance.Repository
	linkRepo       link.Repository
}

func setupApp(t *testing.T, notifierFailures map[string]string) *testApp {
	t.Helper()
	telegramsvc.ResetSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}
	studentRepo := dummydb.NewStudentRepository(db)
	staffRepo := dummydb.NewStaffRepository(db)
	attendanceRepo := dummydb.NewAttendanceRepository(db)
	rosterRepo := dummydb.NewRosterRepository(db)
	linkRepo := dummydb.NewLinkRepository(db)

	conf := newTestConfig()
	logger := core.NewNopLogger()
	notifier := telegramsvc.NewConsoleServiceMock(notifierFailures)
	source := &testSource{}

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)

	staffSvc := staff.NewService(staffRepo)
	linkSvc := link.NewService(linkRepo, studentRepo, notifier, conf, logger)
	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		StaffSvc:      staffSvc,
		StudentSvc:    student.NewService(studentRepo),
		AttendanceSvc: attendance.NewService(attendanceRepo, studentRepo, notifier, conf, logger),
		RosterSvc:     roster.NewService(rosterRepo, studentRepo, source, logger),
		LinkSvc:       linkSvc,
		Notifier:      notifier,
	})

	return &testApp{
		server:         server,
		conf:           conf,
		source:         source,
		staffSvc:       staffSvc,
		linkSvc:        linkSvc,
		students:       studentRepo,
		staffRepo:      staffRepo,
		attendanceRepo: attendanceRepo,
		linkRepo:       linkRepo,
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func (app *testApp) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) adminToken(t *testing.T) string {
	t.Helper()

	adm, err := app.staffSvc.CreateAdmin(context.Background(), "admin@centre.sg", "s3cr3t-pwd")
	if err != nil {
		t.Fatalf("adminToken() failed: %v", err)
	}
	token, err := GenerateToken(GetAdminClaims(adm, app.conf), app.conf)
	if err != nil {
		t.Fatalf("adminToken() failed: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rec.Code != want {
		t.Errorf("code = %v; want %v; body %s", rec.Code, want, rec.Body.String())
	}
}
