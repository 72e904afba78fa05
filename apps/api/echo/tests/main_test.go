package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/maoni/apps/api/echo"
	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/session"
	"github.com/trezcool/maoni/core/user"
	emailsvc "github.com/trezcool/maoni/services/email"
	logsvc "github.com/trezcool/maoni/services/logger"
	"github.com/trezcool/maoni/storage/docstore"
	testutil "github.com/trezcool/maoni/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	conf     *core.Config
	app      *echoapi.Server
	usrRepo  user.Repository
	fbRepo   feedback.Repository
	usrSvc   *user.Service
	fbSvc    *feedback.Service
	sessions *session.Manager
}

// setup wires a server against a fresh document store under t.TempDir().
func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig(t)

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	store, err := docstore.Open(conf.Storage.Path)
	if err != nil {
		t.Fatalf("docstore.Open() failed: %v", err)
	}
	usrRepo, err := docstore.NewUserRepository(store)
	if err != nil {
		t.Fatalf("NewUserRepository() failed: %v", err)
	}
	fbRepo := docstore.NewFeedbackRepository(store)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	fbSvc := feedback.NewService(fbRepo)
	sessions := session.NewManager(docstore.NewSessionSlot(store))

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	feedback.InitValidators(validate, translator)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:        conf,
		Logger:      logger,
		UserSvc:     usrSvc,
		FeedbackSvc: fbSvc,
		Sessions:    sessions,
		Validate:    validate,
		Translator:  translator,
	})

	return &testApp{
		conf:     conf,
		app:      app,
		usrRepo:  usrRepo,
		fbRepo:   fbRepo,
		usrSvc:   usrSvc,
		fbSvc:    fbSvc,
		sessions: sessions,
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// login establishes a session for usr and returns a matching token.
func (ta *testApp) login(t *testing.T, usr user.User) string {
	t.Helper()
	sess, err := ta.sessions.Establish(usr)
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	token, err := echoapi.GenerateToken(ta.conf, echoapi.GetSessionClaims(ta.conf, sess))
	if err != nil {
		t.Fatalf("login() failed: %v", err)
	}
	return token
}

// seedAdmin returns the synthesized default admin.
func (ta *testApp) seedAdmin(t *testing.T) user.User {
	t.Helper()
	admin, err := ta.usrRepo.GetUserByEmail(docstore.SeedAdminEmail)
	if err != nil {
		t.Fatalf("seedAdmin() failed: %v", err)
	}
	return admin
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("unmarshalBody() failed: %v; body %s", err, rec.Body.String())
	}
}
