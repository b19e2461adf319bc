package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// AzureBlobStorage archives reports in one Azure Blob container
type AzureBlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewAzureBlobStorage connects with a connection string and makes sure the
// container exists
func NewAzureBlobStorage(ctx context.Context, connectionString, container string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", container, err)
	}

	logger = logger.With(zap.String("container", container))
	logger.Info("azure blob storage ready")
	return &AzureBlobStorage{client: client, container: container, logger: logger}, nil
}

func blobName(key string) string {
	return strings.TrimPrefix(key, "/")
}

func (s *AzureBlobStorage) Upload(ctx context.Context, key string, contentType string, data io.Reader) (string, int64, error) {
	name := blobName(key)
	counter := &countingReader{r: data}
	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := s.client.UploadStream(ctx, s.container, name, counter, opts); err != nil {
		return "", 0, fmt.Errorf("failed to upload blob %s: %w", name, err)
	}

	s.logger.Info("report archived",
		zap.String("blob", name),
		zap.String("content_type", contentType),
		zap.Int64("size", counter.count),
	)
	return name, counter.count, nil
}

func (s *AzureBlobStorage) Download(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, blobName(storagePath), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("blob %s: %w", storagePath, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to download blob %s: %w", storagePath, err)
	}
	return resp.Body, nil
}

// Delete is idempotent; a missing blob is not an error
func (s *AzureBlobStorage) Delete(ctx context.Context, storagePath string) error {
	name := blobName(storagePath)
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			s.logger.Debug("blob already gone", zap.String("blob", name))
			return nil
		}
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}
	s.logger.Info("blob deleted", zap.String("blob", name))
	return nil
}
