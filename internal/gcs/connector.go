// Package gcs is the Google Cloud Storage connector: upload, download, and
// listing for Scavenger artifacts such as archived sessions and shared log
// bundles.
package gcs

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Connector wraps a lazily constructed storage client. Credentials resolve
// in order: explicit service-account file, service-account JSON carried in
// configuration, Application Default Credentials.
type Connector struct {
	projectID       string
	credentialsPath string
	credentialsJSON string

	mu     sync.Mutex
	client *storage.Client
}

// New creates a connector. Either credential argument may be empty; with
// both empty the client falls back to Application Default Credentials.
func New(projectID, credentialsPath, credentialsJSON string) *Connector {
	return &Connector{
		projectID:       projectID,
		credentialsPath: credentialsPath,
		credentialsJSON: credentialsJSON,
	}
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Bucket      string            `json:"bucket_name"`
	Name        string            `json:"blob_name"`
	Size        int64             `json:"size"`
	ContentType string            `json:"content_type,omitempty"`
	Created     time.Time         `json:"created,omitempty"`
	Updated     time.Time         `json:"updated,omitempty"`
	MD5         string            `json:"md5_hash,omitempty"`
	URL         string            `json:"public_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// clientOptions picks the credential source. The returned label is for
// logging: "file" | "json" | "default".
func (c *Connector) clientOptions() ([]option.ClientOption, string) {
	if c.credentialsPath != "" {
		return []option.ClientOption{option.WithCredentialsFile(c.credentialsPath)}, "file"
	}
	if strings.TrimSpace(c.credentialsJSON) != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(c.credentialsJSON))}, "json"
	}
	return nil, "default"
}

func (c *Connector) ensureClient(ctx context.Context) (*storage.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	opts, source := c.clientOptions()
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client (%s credentials): %w", source, err)
	}
	log.Debug().Str("credentials", source).Str("project", c.projectID).Msg("storage client ready")
	c.client = client
	return client, nil
}

// Close releases the underlying client, if one was created.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// UploadFile uploads a local file to bucket/objectName.
func (c *Connector) UploadFile(ctx context.Context, bucket, filePath, objectName string, metadata map[string]string) (ObjectInfo, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("open %s: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()
	info, err := c.upload(ctx, bucket, objectName, f, "", metadata)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("upload %s to %s: %w", filePath, gsURL(bucket, objectName), err)
	}
	log.Info().Str("file", filePath).Str("object", info.URL).Msg("uploaded file")
	return info, nil
}

// UploadData uploads in-memory data to bucket/objectName with the given
// content type (text/plain when empty).
func (c *Connector) UploadData(ctx context.Context, bucket, data, objectName, contentType string, metadata map[string]string) (ObjectInfo, error) {
	if contentType == "" {
		contentType = "text/plain"
	}
	info, err := c.upload(ctx, bucket, objectName, strings.NewReader(data), contentType, metadata)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("upload data to %s: %w", gsURL(bucket, objectName), err)
	}
	log.Info().Str("object", info.URL).Int("bytes", len(data)).Msg("uploaded data")
	return info, nil
}

func (c *Connector) upload(ctx context.Context, bucket, objectName string, r io.Reader, contentType string, metadata map[string]string) (ObjectInfo, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}
	obj := client.Bucket(bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if metadata != nil {
		w.Metadata = metadata
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, fmt.Errorf("finalize object: %w", err)
	}
	return infoFromAttrs(bucket, w.Attrs()), nil
}

// DownloadFile downloads bucket/objectName to destPath.
func (c *Connector) DownloadFile(ctx context.Context, bucket, objectName, destPath string) (ObjectInfo, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return ObjectInfo{}, err
	}
	obj := client.Bucket(bucket).Object(objectName)
	r, err := obj.NewReader(ctx)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("open %s: %w", gsURL(bucket, objectName), err)
	}
	defer func() { _ = r.Close() }()

	f, err := os.Create(destPath)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create %s: %w", destPath, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(f, r); err != nil {
		return ObjectInfo{}, fmt.Errorf("download %s: %w", gsURL(bucket, objectName), err)
	}
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", gsURL(bucket, objectName), err)
	}
	log.Info().Str("object", gsURL(bucket, objectName)).Str("dest", destPath).Msg("downloaded file")
	return infoFromAttrs(bucket, attrs), nil
}

// DownloadText reads bucket/objectName as a UTF-8 string.
func (c *Connector) DownloadText(ctx context.Context, bucket, objectName string) (string, ObjectInfo, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", ObjectInfo{}, err
	}
	obj := client.Bucket(bucket).Object(objectName)
	r, err := obj.NewReader(ctx)
	if err != nil {
		return "", ObjectInfo{}, fmt.Errorf("open %s: %w", gsURL(bucket, objectName), err)
	}
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	if err != nil {
		return "", ObjectInfo{}, fmt.Errorf("read %s: %w", gsURL(bucket, objectName), err)
	}
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return "", ObjectInfo{}, fmt.Errorf("stat %s: %w", gsURL(bucket, objectName), err)
	}
	return string(b), infoFromAttrs(bucket, attrs), nil
}

// ListObjects lists bucket contents, optionally filtered by prefix and
// capped at maxResults (0 means no cap).
func (c *Connector) ListObjects(ctx context.Context, bucket, prefix string, maxResults int) ([]ObjectInfo, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}
	var q *storage.Query
	if prefix != "" {
		q = &storage.Query{Prefix: prefix}
	}
	it := client.Bucket(bucket).Objects(ctx, q)
	var out []ObjectInfo
	for {
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s: %w", bucket, err)
		}
		out = append(out, infoFromAttrs(bucket, attrs))
	}
	log.Info().Str("bucket", bucket).Str("prefix", prefix).Int("count", len(out)).Msg("listed objects")
	return out, nil
}

// ObjectExists reports whether bucket/objectName exists. Lookup failures
// other than "not found" are returned as errors.
func (c *Connector) ObjectExists(ctx context.Context, bucket, objectName string) (bool, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return false, err
	}
	_, err = client.Bucket(bucket).Object(objectName).Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", gsURL(bucket, objectName), err)
	}
	return true, nil
}

// DeleteObject removes bucket/objectName. Deleting an absent object returns
// (false, nil), matching the connector's tolerant delete semantics.
func (c *Connector) DeleteObject(ctx context.Context, bucket, objectName string) (bool, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return false, err
	}
	err = client.Bucket(bucket).Object(objectName).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		log.Warn().Str("object", gsURL(bucket, objectName)).Msg("object does not exist")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", gsURL(bucket, objectName), err)
	}
	log.Info().Str("object", gsURL(bucket, objectName)).Msg("deleted object")
	return true, nil
}

func gsURL(bucket, objectName string) string {
	return "gs://" + bucket + "/" + objectName
}

func infoFromAttrs(bucket string, attrs *storage.ObjectAttrs) ObjectInfo {
	if attrs == nil {
		return ObjectInfo{Bucket: bucket}
	}
	return ObjectInfo{
		Bucket:      bucket,
		Name:        attrs.Name,
		Size:        attrs.Size,
		ContentType: attrs.ContentType,
		Created:     attrs.Created,
		Updated:     attrs.Updated,
		MD5:         base64.StdEncoding.EncodeToString(attrs.MD5),
		URL:         gsURL(bucket, attrs.Name),
		Metadata:    attrs.Metadata,
	}
}
