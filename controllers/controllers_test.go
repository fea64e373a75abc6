package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/relatoria/api-go/config"
	"github.com/relatoria/api-go/models"
	"github.com/relatoria/api-go/routes"
	"github.com/relatoria/api-go/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "controllers-test-secret"

type testEnv struct {
	DB     *gorm.DB
	Store  *storage.LocalStore
	Router *gin.Engine
}

func setupTest(t *testing.T) *testEnv {
	return setupTestWithStore(t, nil)
}

// setupTestWithStore lets a test wrap the local store, e.g. to inject
// storage failures; the returned env still exposes the underlying
// LocalStore for filesystem assertions.
func setupTestWithStore(t *testing.T, wrap func(*storage.LocalStore) storage.ImageStore) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", testSecret)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.Report{}, &models.ReportImage{},
	))

	local, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	store := storage.ImageStore(local)
	if wrap != nil {
		store = wrap(local)
	}

	r := gin.New()
	routes.SetupRoutes(r, db, store, config.GetUploadConfig())

	return &testEnv{DB: db, Store: local, Router: r}
}

func (e *testEnv) createUser(t *testing.T, username string, isStaff bool) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		IsStaff:  isStaff,
	}
	require.NoError(t, e.DB.Create(user).Error)
	return user
}

func bearerFor(t *testing.T, user *models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_staff": user.IsStaff,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

type testFile struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []testFile) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+f.Field+`"; filename="`+f.Name+`"`)
		header.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// multipartBodyWithCaptions also writes one legendas field per caption,
// matching the submission contract's parallel caption list.
func multipartBodyWithCaptions(t *testing.T, fields map[string]string, files []testFile, captions []string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for _, caption := range captions {
		require.NoError(t, w.WriteField("legendas", caption))
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+f.Field+`"; filename="`+f.Name+`"`)
		header.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

type request struct {
	Method      string
	Path        string
	Body        io.Reader
	ContentType string
	Bearer      string
	ClaimToken  string
}

func (e *testEnv) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	httpReq, err := http.NewRequest(req.Method, req.Path, req.Body)
	require.NoError(t, err)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.Bearer != "" {
		httpReq.Header.Set("Authorization", req.Bearer)
	}
	if req.ClaimToken != "" {
		httpReq.Header.Set("X-Claim-Token", req.ClaimToken)
	}

	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, httpReq)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func jsonBody(t *testing.T, payload interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

// validSubmission returns form fields and a couple of acceptable images for
// an anonymous submission.
func validSubmission() (map[string]string, []testFile) {
	fields := map[string]string{
		"titulo":        "Buraco na rua",
		"conteudo":      "Um buraco enorme se abriu depois da chuva.",
		"nome_usuario":  "Carlos",
		"email_usuario": "carlos@example.com",
	}
	files := []testFile{
		{Field: "imagens", Name: "frente.jpg", ContentType: "image/jpeg", Content: []byte("jpeg-bytes-1")},
		{Field: "imagens", Name: "lado.png", ContentType: "image/png", Content: []byte("png-bytes-2")},
	}
	return fields, files
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.DB.Model(model).Count(&count).Error)
	return count
}

func (e *testEnv) storedFileCount(t *testing.T) int {
	t.Helper()
	count := 0
	err := filepath.Walk(e.Store.Root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}
