package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/reefdive/apiserver/types"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// Storage wraps an ObjectStorage backend with a stable API.
type Storage struct {
	backend ObjectStorage
}

// NewStorage constructs a Storage wrapper for the provided backend.
func NewStorage(backend ObjectStorage) *Storage {
	return &Storage{backend: backend}
}

func (s *Storage) EnsureBucket(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return s.backend.Put(ctx, key, r, size, contentType)
}

func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Get(ctx, key)
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

func (s *Storage) Bucket() string {
	return s.backend.Bucket()
}

// MedicalFormDocument is the archived copy of a submitted questionnaire.
type MedicalFormDocument struct {
	Form       types.MedicalForm `json:"form"`
	ArchivedAt time.Time         `json:"archived_at"`
}

// MedicalFormKey returns the object key for an archived form. Each archive
// gets its own key so resubmissions never overwrite earlier copies.
func MedicalFormKey(form types.MedicalForm) string {
	return "medical-forms/" + strconv.Itoa(form.BookingID) + "/" + strconv.Itoa(form.ID) + "-" + uuid.NewString() + ".json"
}

// ArchiveMedicalForm stores form as a JSON document and returns its key.
func (s *Storage) ArchiveMedicalForm(ctx context.Context, form types.MedicalForm) (string, error) {
	data, err := json.Marshal(MedicalFormDocument{Form: form, ArchivedAt: time.Now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode medical form %d: %w", form.ID, err)
	}
	key := MedicalFormKey(form)
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
		return "", fmt.Errorf("archive medical form %d: %w", form.ID, err)
	}
	return key, nil
}
