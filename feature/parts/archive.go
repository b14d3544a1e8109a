package parts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"parts-manager/core/reconcile"
	"parts-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

const archivePrefix = "metadata"

// Archive keeps JSON snapshots of reconciled metadata in object storage.
type Archive struct {
	client storage.Client
	bucket string
}

// NewArchive creates an archive writing to bucket.
func NewArchive(client storage.Client, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

func userPrefix(userID int64) string {
	return fmt.Sprintf("%s/%d/", archivePrefix, userID)
}

// ObjectName returns the key of a part's snapshot.
func ObjectName(userID int64, partNumber string) string {
	return userPrefix(userID) + url.PathEscape(strings.ToLower(partNumber)) + ".json"
}

// Put stores the snapshot of m, replacing any previous one.
func (a *Archive) Put(ctx context.Context, userID int64, m reconcile.PartMetadata) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, ObjectName(userID, m.PartNumber),
		bytes.NewReader(raw), int64(len(raw)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to archive metadata: %w", err)
	}
	return nil
}

// Get loads a part's snapshot. found is false when none was archived.
func (a *Archive) Get(ctx context.Context, userID int64, partNumber string) (reconcile.PartMetadata, bool, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, ObjectName(userID, partNumber), minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return reconcile.PartMetadata{}, false, nil
		}
		return reconcile.PartMetadata{}, false, fmt.Errorf("failed to open archived metadata: %w", err)
	}
	defer obj.Close()

	var m reconcile.PartMetadata
	if err := json.NewDecoder(obj).Decode(&m); err != nil {
		if storage.IsNotFound(err) {
			return reconcile.PartMetadata{}, false, nil
		}
		return reconcile.PartMetadata{}, false, fmt.Errorf("failed to decode archived metadata: %w", err)
	}
	return m, true, nil
}

// List returns the archived part keys of a user in storage order.
func (a *Archive) List(ctx context.Context, userID int64) ([]string, error) {
	prefix := userPrefix(userID)
	var out []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archived metadata: %w", obj.Err)
		}
		name := strings.TrimSuffix(path.Base(obj.Key), ".json")
		if pn, err := url.PathUnescape(name); err == nil {
			name = pn
		}
		out = append(out, name)
	}
	return out, nil
}

// Remove deletes a part's snapshot.
func (a *Archive) Remove(ctx context.Context, userID int64, partNumber string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, ObjectName(userID, partNumber), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove archived metadata: %w", err)
	}
	return nil
}
