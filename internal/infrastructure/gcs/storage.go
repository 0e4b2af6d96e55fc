// Package gcs wraps Google Cloud Storage as the service's durable blob
// store. Callers treat it as opaque: upload a local file, get back a
// permanent URL plus an object name usable for deletion.
package gcs

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// BlobKind selects the object name prefix and fallback content type.
type BlobKind string

const (
	BlobKindVideo     BlobKind = "video"
	BlobKindThumbnail BlobKind = "thumbnail"
)

// BlobRef identifies one durable object: the public URL handed to clients
// and the object name the store needs for deletion.
type BlobRef struct {
	URL        string
	ObjectName string
}

// IsZero reports whether no object was uploaded.
func (r BlobRef) IsZero() bool {
	return r.ObjectName == ""
}

// Config carries the bucket settings.
type Config struct {
	Bucket        string
	PublicBaseURL string // defaults to the storage.googleapis.com form
}

// Client is the blob store collaborator used by the ingestion pipeline.
type Client struct {
	bucket     *storage.BucketHandle
	bucketName string
	baseURL    string
	log        *log.Helper
}

// NewClient dials GCS and returns the client plus a cleanup function.
func NewClient(ctx context.Context, cfg Config, logger log.Logger) (*Client, func(), error) {
	if cfg.Bucket == "" {
		return nil, nil, fmt.Errorf("gcs: bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("gcs: dial storage: %w", err)
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + cfg.Bucket
	}

	helper := log.NewHelper(logger)
	helper.Infof("gcs client ready: bucket=%s", cfg.Bucket)

	cleanup := func() {
		if err := client.Close(); err != nil {
			helper.Warnf("close gcs client: %v", err)
		}
	}
	return &Client{
		bucket:     client.Bucket(cfg.Bucket),
		bucketName: cfg.Bucket,
		baseURL:    baseURL,
		log:        helper,
	}, cleanup, nil
}

// Upload streams a local file into the bucket and returns its reference.
// The local file is left in place; the caller owns its lifecycle.
func (c *Client) Upload(ctx context.Context, localPath string, kind BlobKind) (BlobRef, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return BlobRef{}, fmt.Errorf("gcs: open local file: %w", err)
	}
	defer f.Close()

	objectName := newObjectName(kind, filepath.Ext(localPath))
	w := c.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentTypeFor(kind, filepath.Ext(localPath))

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return BlobRef{}, fmt.Errorf("gcs: upload %s: %w", objectName, err)
	}
	// Close finalizes the object; the write is not durable until it returns.
	if err := w.Close(); err != nil {
		return BlobRef{}, fmt.Errorf("gcs: finalize %s: %w", objectName, err)
	}

	c.log.WithContext(ctx).Infof("uploaded blob: object=%s kind=%s", objectName, kind)
	return BlobRef{
		URL:        c.baseURL + "/" + objectName,
		ObjectName: objectName,
	}, nil
}

// Delete removes an object. Deleting an object that is already gone succeeds:
// every caller (compensation, video delete, retried delete) relies on this
// being idempotent.
func (c *Client) Delete(ctx context.Context, objectName string) error {
	if objectName == "" {
		return nil
	}
	err := c.bucket.Object(objectName).Delete(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil
		}
		return fmt.Errorf("gcs: delete %s: %w", objectName, err)
	}
	c.log.WithContext(ctx).Infof("deleted blob: object=%s", objectName)
	return nil
}

// newObjectName builds a collision-free object name under the kind's prefix.
func newObjectName(kind BlobKind, ext string) string {
	prefix := "media"
	switch kind {
	case BlobKindVideo:
		prefix = "videos"
	case BlobKindThumbnail:
		prefix = "thumbnails"
	}
	return prefix + "/" + uuid.New().String() + strings.ToLower(ext)
}

func contentTypeFor(kind BlobKind, ext string) string {
	if ct := mime.TypeByExtension(strings.ToLower(ext)); ct != "" {
		return ct
	}
	switch kind {
	case BlobKindVideo:
		return "video/mp4"
	case BlobKindThumbnail:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
