package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/models"
)

const (
	profileSize = 512
	presignTTL  = 15 * time.Minute
)

type Service struct {
	db    *gorm.DB
	store Store
}

// NewService accepts a nil store; every call then fails with storage_disabled.
func NewService(db *gorm.DB, store Store) *Service {
	return &Service{db: db, store: store}
}

type UploadInput struct {
	OrganizationID uint
	UploadedBy     uint
	Bucket         string
	FileName       string
	Data           []byte
	Entity         string
	EntityID       *uint
}

func (s *Service) enabled() error {
	if s.store == nil {
		return httperr.ErrBusiness("storage_disabled")
	}
	return nil
}

func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.StoredFile, error) {
	if err := s.enabled(); err != nil {
		return nil, err
	}

	bucket, ok := Lookup(in.Bucket)
	if !ok {
		return nil, httperr.ErrBusiness("bucket_not_found")
	}
	if len(in.Data) == 0 {
		return nil, httperr.ErrBusiness("empty_file")
	}
	if int64(len(in.Data)) > bucket.MaxSize {
		return nil, httperr.ErrBusiness("file_too_large")
	}

	ct := DetectType(in.FileName, in.Data)
	if !bucket.Allowed[ct] {
		return nil, httperr.ErrBusiness("unsupported_file_type")
	}

	data := in.Data
	if bucket.Normalize {
		var err error
		if data, err = normalizeImage(data); err != nil {
			return nil, httperr.ErrBusiness("invalid_image")
		}
		ct = mimeWEBP
	}

	key := fmt.Sprintf("%s/%d/%s%s", bucket.Name, in.OrganizationID, uuid.NewString(), extFor(ct))
	if err := s.store.Put(ctx, key, ct, data); err != nil {
		return nil, err
	}

	file := &models.StoredFile{
		OrganizationID: in.OrganizationID,
		Bucket:         bucket.Name,
		Key:            key,
		FileName:       in.FileName,
		ContentType:    ct,
		Size:           int64(len(data)),
		Entity:         in.Entity,
		EntityID:       in.EntityID,
		UploadedBy:     in.UploadedBy,
	}
	if err := s.db.WithContext(ctx).Create(file).Error; err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, fmt.Errorf("save stored file: %w", err)
	}

	return file, nil
}

func (s *Service) get(ctx context.Context, orgID, id uint) (*models.StoredFile, error) {
	var f models.StoredFile
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("file_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Service) URL(ctx context.Context, orgID, id uint) (string, error) {
	if err := s.enabled(); err != nil {
		return "", err
	}
	f, err := s.get(ctx, orgID, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, f.Key, presignTTL)
}

// URLForKey presigns a key already recorded on another row (avatars, care logs).
func (s *Service) URLForKey(ctx context.Context, key string) (string, error) {
	if err := s.enabled(); err != nil {
		return "", err
	}
	if key == "" {
		return "", nil
	}
	return s.store.PresignGet(ctx, key, presignTTL)
}

func (s *Service) Delete(ctx context.Context, orgID, id uint) error {
	if err := s.enabled(); err != nil {
		return err
	}
	f, err := s.get(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, f.Key); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(f).Error
}

func normalizeImage(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	img = imaging.Fit(img, profileSize, profileSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
