package services

import (
	"fmt"
	"sync"
)

// MockS3Service is a mock implementation of S3Service for testing
type MockS3Service struct {
	archives   map[string][]byte // map of S3 key to archive content
	presignErr error
	mu         sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		archives: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// UploadArchive simulates uploading an order archive to S3
func (m *MockS3Service) UploadArchive(key string, content []byte) (string, error) {
	s3Key := fmt.Sprintf("archives/mock_%s.json", key)

	stored := make([]byte, len(content))
	copy(stored, content)

	m.mu.Lock()
	m.archives[s3Key] = stored
	m.mu.Unlock()

	return s3Key, nil
}

// SetPresignError makes subsequent GetPresignedURL calls fail
func (m *MockS3Service) SetPresignError(err error) {
	m.mu.Lock()
	m.presignErr = err
	m.mu.Unlock()
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	presignErr := m.presignErr
	_, exists := m.archives[s3Key]
	m.mu.RUnlock()

	if presignErr != nil {
		return "", presignErr
	}

	if !exists {
		return "", fmt.Errorf("archive not found in mock S3: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

// DeleteArchive simulates deleting an archive from S3
func (m *MockS3Service) DeleteArchive(s3Key string) error {
	if s3Key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.archives, s3Key)
	m.mu.Unlock()

	return nil
}

// GetArchives returns all stored archives (for testing assertions)
func (m *MockS3Service) GetArchives() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	archives := make(map[string][]byte, len(m.archives))
	for k, v := range m.archives {
		archives[k] = v
	}
	return archives
}

// ArchiveExists checks if an archive exists in mock storage
func (m *MockS3Service) ArchiveExists(s3Key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.archives[s3Key]
	return exists
}

// Clear removes all archives from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.archives = make(map[string][]byte)
	m.mu.Unlock()
}
