// Package media serves image attachment upload and download over HTTP.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/dbmongo"
	"communitychat/internal/dbmysql"
	"communitychat/internal/ratelimit"
)

const MaxImageBytes = 5 << 20

// ImageStore is the GridFS side of attachments.
type ImageStore interface {
	UploadFile(ctx context.Context, filename, contentType string, uploaderID uint64, content io.Reader, maxBytes int64) (*dbmongo.MediaFile, error)
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *dbmongo.MediaFile, error)
	DeleteFile(ctx context.Context, fileID string) error
}

// Registrar records an upload so image messages can reference it.
type Registrar interface {
	RegisterMedia(ctx context.Context, actor common.Actor, ref *dbmysql.MediaRef) error
}

type HTTPServer struct {
	storage   ImageStore
	registrar Registrar
	limiter   *ratelimit.Limiter
	baseURL   string
	logger    *slog.Logger
}

func NewHTTPServer(storage ImageStore, registrar Registrar, limits *ratelimit.Registry, baseURL string, logger *slog.Logger) *HTTPServer {
	return &HTTPServer{
		storage:   storage,
		registrar: registrar,
		limiter:   limits.Images(),
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
	}
}

func (s *HTTPServer) RegisterRoutes(public, authed *mux.Router) {
	public.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet)
	authed.HandleFunc("/media", s.upload).Methods(http.MethodPost)
}

// upload accepts a multipart "file" field. The images limiter is charged
// before the body is read.
func (s *HTTPServer) upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.ActorFromContext(r.Context())
	if !ok {
		api.WriteError(w, common.ErrUnauthenticated)
		return
	}

	if res := s.limiter.Allow(ratelimit.UserKey(actor.UserID)); !res.Allowed {
		api.WriteError(w, common.RateLimited(res.ResetIn))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageBytes+64<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, common.Validation("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !common.IsAllowedImage(contentType) {
		contentType = contentTypeFor(header.Filename)
	}
	if !common.IsAllowedImage(contentType) {
		api.WriteError(w, common.Validation("only jpeg, png, gif and webp images are accepted"))
		return
	}

	stored, err := s.storage.UploadFile(r.Context(), filepath.Base(header.Filename), contentType, actor.UserID, file, MaxImageBytes)
	if err != nil {
		if errors.Is(err, dbmongo.ErrTooLarge) {
			api.WriteError(w, common.Validation("image is larger than %d MB", MaxImageBytes>>20))
			return
		}
		s.logger.Error("[MEDIA] upload failed", "user_id", actor.UserID, "error", err)
		api.WriteError(w, err)
		return
	}

	ref := &dbmysql.MediaRef{
		FileID:      stored.ID,
		FileName:    stored.Filename,
		ContentType: stored.ContentType,
		Size:        stored.Size,
	}
	if err := s.registrar.RegisterMedia(r.Context(), actor, ref); err != nil {
		s.logger.Error("[MEDIA] register failed", "file_id", stored.ID, "error", err)
		if derr := s.storage.DeleteFile(context.Background(), stored.ID); derr != nil {
			s.logger.Warn("[MEDIA] orphaned upload", "file_id", stored.ID, "error", derr)
		}
		api.WriteError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.UploadResponse{
		FileID:      stored.ID,
		URL:         fmt.Sprintf("%s/%s", s.baseURL, stored.ID),
		ContentType: stored.ContentType,
		Size:        stored.Size,
	})
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	rc, mediaFile, err := s.storage.DownloadFile(r.Context(), fileID)
	if err != nil {
		api.WriteError(w, err)
		return
	}
	defer rc.Close()

	contentType := mediaFile.ContentType
	if contentType == "" {
		contentType = contentTypeFor(mediaFile.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", fmt.Sprintf("%d", mediaFile.Size))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")

	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("[MEDIA] error streaming file", "file_id", fileID, "error", err)
	}
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
