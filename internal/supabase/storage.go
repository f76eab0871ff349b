package supabase

import (
	"fmt"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceKey, bucket string) (*StorageClient, error) {
	// Ensure URL doesn't have trailing slash
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// BuildImagePath returns the storage path for a new project image:
// projects/{project_id}/{uuid}_{filename}.
func BuildImagePath(projectID uuid.UUID, filename string) string {
	return fmt.Sprintf("projects/%s/%s_%s", projectID.String(), uuid.New().String(), filename)
}

// CreateSignedUploadURL issues a short-lived URL the client uploads
// the object to directly. The URL lifetime is controlled by Supabase.
func (s *StorageClient) CreateSignedUploadURL(storagePath string) (string, error) {
	resp, err := s.client.CreateSignedUploadUrl(s.bucket, storagePath)
	if err != nil {
		return "", fmt.Errorf("failed to create signed upload url: %w", err)
	}
	return resp.Url, nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteProjectFiles removes every stored object under a project's
// prefix. Used when a project is deleted.
func (s *StorageClient) DeleteProjectFiles(projectID uuid.UUID) error {
	prefix := fmt.Sprintf("projects/%s/", projectID.String())

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = file.Name
		}
		_, err = s.client.RemoveFile(s.bucket, filePaths)
		if err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}
