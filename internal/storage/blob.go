// Package storage abstracts the remote image host behind a small interface so
// services stay independent from the Azure SDK and tests can use fakes.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// ImageStore uploads, deletes and resolves public URLs for image objects.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	// URL composes the canonical public URL for a stored object key.
	URL(key string) string
}

// BlobStore is the Azure Blob Storage implementation of ImageStore.
type BlobStore struct {
	client        *azblob.Client
	containerName string
	publicBaseURL string
}

// NewBlobStore creates a store over an existing azblob client.
func NewBlobStore(client *azblob.Client, containerName, publicBaseURL string) *BlobStore {
	return &BlobStore{
		client:        client,
		containerName: containerName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// EnsureContainer creates the container with public blob access, tolerating an
// already existing one.
func (s *BlobStore) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.containerName, &azblob.CreateContainerOptions{
		Access: to.Ptr(azblob.PublicAccessTypeBlob),
	})
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.ErrorCode == string(bloberror.ContainerAlreadyExists) {
			return nil
		}
		return err
	}
	return nil
}

// Upload streams the object into the container under the given key.
func (s *BlobStore) Upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.UploadStream(ctx, s.containerName, key, bytes.NewReader(data), &azblob.UploadStreamOptions{
		BlockSize: int64(1024) * 256, // 256KB
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr(contentType),
		},
	})
	return err
}

// Delete removes the object. Missing blobs are not an error: deletion is
// best-effort and the row cascade must proceed regardless.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, key, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.ErrorCode == string(bloberror.BlobNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// URL is the deterministic composition base + container + key.
func (s *BlobStore) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.containerName, key)
}
