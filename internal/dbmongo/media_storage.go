package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"communitychat/internal/common"
)

// ErrTooLarge is returned when an upload exceeds the size cap.
var ErrTooLarge = errors.New("file exceeds size limit")

type MediaStorage struct {
	gridFS *gridfs.Bucket
}

func NewMediaStorage(mongoClient *MongoClient) *MediaStorage {
	return &MediaStorage{
		gridFS: mongoClient.GridFS,
	}
}

type MediaFile struct {
	ID          string    `json:"id"` // GridFS ObjectID hex
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedBy  uint64    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

func uploadMetadata(contentType string, uploaderID uint64, at time.Time) bson.M {
	return bson.M{
		"content_type": contentType,
		"uploaded_by":  strconv.FormatUint(uploaderID, 10),
		"uploaded_at":  at,
	}
}

// UploadFile streams content into GridFS. At most maxBytes are accepted; a
// larger body aborts the upload and returns ErrTooLarge.
func (ms *MediaStorage) UploadFile(ctx context.Context, filename, contentType string, uploaderID uint64, content io.Reader, maxBytes int64) (*MediaFile, error) {
	now := time.Now().UTC()
	opts := options.GridFSUpload().SetMetadata(uploadMetadata(contentType, uploaderID, now))
	stream, err := ms.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	size, err := copyLimited(stream, content, maxBytes)
	if err != nil {
		stream.Abort()
		return nil, err
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	return &MediaFile{
		ID:          stream.FileID.(primitive.ObjectID).Hex(),
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
		UploadedBy:  uploaderID,
		UploadedAt:  now,
	}, nil
}

func copyLimited(dst io.Writer, src io.Reader, maxBytes int64) (int64, error) {
	n, err := io.Copy(dst, io.LimitReader(src, maxBytes+1))
	if err != nil {
		return n, fmt.Errorf("file copy failed: %w", err)
	}
	if n > maxBytes {
		return n, ErrTooLarge
	}
	return n, nil
}

func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, &common.ChatError{Code: common.CodeNotFound, Message: "file not found"}
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, &common.ChatError{Code: common.CodeNotFound, Message: "file not found"}
		}
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, fileFromMetadata(fileID, fileInfo.Name, fileInfo.Length, fileInfo.UploadDate, metadata), nil
}

func fileFromMetadata(id, name string, size int64, uploadedAt time.Time, metadata bson.M) *MediaFile {
	uploader, _ := strconv.ParseUint(getStringFromMap(metadata, "uploaded_by"), 10, 64)
	return &MediaFile{
		ID:          id,
		Filename:    name,
		Size:        size,
		ContentType: getStringFromMap(metadata, "content_type"),
		UploadedBy:  uploader,
		UploadedAt:  uploadedAt,
	}
}

func (ms *MediaStorage) DeleteFile(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("invalid file ID: %w", err)
	}
	return ms.gridFS.DeleteContext(ctx, objectID)
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
