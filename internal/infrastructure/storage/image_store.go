// Package storage uploads post images to Google Cloud Storage.
package storage

import (
	"context"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/blog-api/pkg/helpers"
)

type ImageStore struct {
	Client *gcs.Client
	Bucket string
}

func NewImageStore(client *gcs.Client, bucket string) *ImageStore {
	return &ImageStore{Client: client, Bucket: bucket}
}

// Upload stores r under objectPath and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, objectPath, contentType, r)
}
