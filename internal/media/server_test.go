package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/dbmongo"
	"communitychat/internal/dbmysql"
	"communitychat/internal/logging"
	"communitychat/internal/ratelimit"
)

const fileID = "65f1c0ffee0123456789abcd"

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) UploadFile(ctx context.Context, filename, contentType string, uploaderID uint64, content io.Reader, maxBytes int64) (*dbmongo.MediaFile, error) {
	args := m.Called(ctx, filename, contentType, uploaderID, content, maxBytes)
	f, _ := args.Get(0).(*dbmongo.MediaFile)
	return f, args.Error(1)
}

func (m *MockImageStore) DownloadFile(ctx context.Context, id string) (io.ReadCloser, *dbmongo.MediaFile, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	f, _ := args.Get(1).(*dbmongo.MediaFile)
	return rc, f, args.Error(2)
}

func (m *MockImageStore) DeleteFile(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type registrarFunc func(ctx context.Context, actor common.Actor, ref *dbmysql.MediaRef) error

func (f registrarFunc) RegisterMedia(ctx context.Context, actor common.Actor, ref *dbmysql.MediaRef) error {
	return f(ctx, actor, ref)
}

func newTestServer(t *testing.T, store ImageStore, reg Registrar) http.Handler {
	limits, err := ratelimit.NewRegistry(config.RateLimitsConfig{
		Messages:          config.LimitConfig{MaxRequests: 10, Window: time.Minute},
		Images:            config.LimitConfig{MaxRequests: 2, Window: 5 * time.Minute},
		PhoneVerification: config.LimitConfig{MaxRequests: 3, Window: 5 * time.Minute},
	}, clockwork.NewFakeClock(), logging.Discard())
	require.NoError(t, err)

	srv := NewHTTPServer(store, reg, limits, "http://chat.test/media/", logging.Discard())

	r := mux.NewRouter()
	authed := r.PathPrefix("/api/v1").Subrouter()
	authed.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(common.WithActor(r.Context(), common.Actor{UserID: 12})))
		})
	})
	srv.RegisterRoutes(r, authed)
	return r
}

func uploadRequest(t *testing.T, filename, contentType, body string) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload_StoresAndRegisters(t *testing.T) {
	store := new(MockImageStore)
	store.On("UploadFile", mock.Anything, "cat.png", "image/png", uint64(12), mock.Anything, int64(MaxImageBytes)).
		Return(&dbmongo.MediaFile{ID: fileID, Filename: "cat.png", ContentType: "image/png", Size: 4}, nil)

	var registered *dbmysql.MediaRef
	h := newTestServer(t, store, registrarFunc(func(_ context.Context, actor common.Actor, ref *dbmysql.MediaRef) error {
		assert.Equal(t, uint64(12), actor.UserID)
		registered = ref
		return nil
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "cat.png", "image/png", "\x89PNG"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, fileID, resp.FileID)
	assert.Equal(t, "http://chat.test/media/"+fileID, resp.URL)
	require.NotNil(t, registered)
	assert.Equal(t, fileID, registered.FileID)
	store.AssertExpectations(t)
}

func TestUpload_RejectsNonImage(t *testing.T) {
	store := new(MockImageStore)
	h := newTestServer(t, store, registrarFunc(func(context.Context, common.Actor, *dbmysql.MediaRef) error { return nil }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "notes.txt", "text/plain", "hello"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "UploadFile")
}

func TestUpload_ImagesLimiter(t *testing.T) {
	store := new(MockImageStore)
	store.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&dbmongo.MediaFile{ID: fileID}, nil)
	h := newTestServer(t, store, registrarFunc(func(context.Context, common.Actor, *dbmysql.MediaRef) error { return nil }))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, uploadRequest(t, "a.jpg", "image/jpeg", "x"))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "a.jpg", "image/jpeg", "x"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "300", rec.Header().Get("Retry-After"))
	store.AssertNumberOfCalls(t, "UploadFile", 2)
}

func TestUpload_RegisterFailureDeletesFile(t *testing.T) {
	store := new(MockImageStore)
	store.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&dbmongo.MediaFile{ID: fileID}, nil)
	store.On("DeleteFile", mock.Anything, fileID).Return(nil)

	h := newTestServer(t, store, registrarFunc(func(context.Context, common.Actor, *dbmysql.MediaRef) error {
		return errors.New("db down")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, uploadRequest(t, "a.gif", "image/gif", "GIF89a"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	store.AssertExpectations(t)
}

func TestServeFile(t *testing.T) {
	store := new(MockImageStore)
	store.On("DownloadFile", mock.Anything, fileID).
		Return(io.NopCloser(strings.NewReader("data")), &dbmongo.MediaFile{ID: fileID, Filename: "a.webp", Size: 4}, nil)
	store.On("DownloadFile", mock.Anything, "missing").
		Return(nil, nil, &common.ChatError{Code: common.CodeNotFound, Message: "file not found"})
	h := newTestServer(t, store, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/"+fileID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
