package services

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"dwellhub/internal/adapters/persistence/models"
	"dwellhub/internal/adapters/persistence/repositories"
	"dwellhub/internal/config"
	"dwellhub/internal/pkg/authz"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document service errors
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrFileTooLarge     = errors.New("file exceeds maximum size")
	ErrEmptyFile        = errors.New("file is empty")
)

// MaxUploadBytes caps a single document upload
const MaxUploadBytes = 20 << 20

// DocumentService stores uploaded files on disk under random storage keys
// and tracks their metadata in the database
type DocumentService struct {
	documentRepo *repositories.DocumentRepository
	propertyRepo *repositories.PropertyRepository
	cfg          *config.Config
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documentRepo *repositories.DocumentRepository,
	propertyRepo *repositories.PropertyRepository,
	cfg *config.Config,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		propertyRepo: propertyRepo,
		cfg:          cfg,
	}
}

// Upload saves the file to the upload directory and records its metadata.
// The stored name is a random key; the original name lives in the record.
func (s *DocumentService) Upload(ctx context.Context, ownerID uint, propertyID *uint, fileHeader *multipart.FileHeader) (*models.Document, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	if propertyID != nil {
		if _, err := s.propertyRepo.GetByID(ctx, *propertyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPropertyNotFound
			}
			return nil, err
		}
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if err := os.MkdirAll(s.cfg.Storage.UploadDir, 0o755); err != nil {
		return nil, err
	}

	storageKey := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(s.cfg.Storage.UploadDir, storageKey)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	document := &models.Document{
		PropertyID:  propertyID,
		OwnerID:     ownerID,
		Name:        fileHeader.Filename,
		StorageKey:  storageKey,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
	}

	if err := s.documentRepo.Create(ctx, document); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	log.Printf("✅ Document %d uploaded: %s (%d bytes)", document.ID, document.Name, document.SizeBytes)
	return document, nil
}

// Get gets a document's metadata. Visible to the owner and property
// management.
func (s *DocumentService) Get(ctx context.Context, actor authz.Actor, id uint) (*models.Document, error) {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	var managerID uint
	if document.PropertyID != nil {
		if property, err := s.propertyRepo.GetByID(ctx, *document.PropertyID); err == nil {
			managerID = property.ManagerID
		}
	}

	if !authz.Can(actor, authz.Resource{OwnerID: document.OwnerID, ManagerID: managerID}, authz.ActionView) {
		return nil, ErrNotAllowed
	}

	return document, nil
}

// FilePath resolves the on-disk path of a document the actor may read
func (s *DocumentService) FilePath(ctx context.Context, actor authz.Actor, id uint) (string, *models.Document, error) {
	document, err := s.Get(ctx, actor, id)
	if err != nil {
		return "", nil, err
	}
	return filepath.Join(s.cfg.Storage.UploadDir, document.StorageKey), document, nil
}

// ListByOwner lists documents a user uploaded
func (s *DocumentService) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*models.Document, int64, error) {
	return s.documentRepo.ListByOwner(ctx, ownerID, offset, limit)
}

// ListForProperty lists a property's documents
func (s *DocumentService) ListForProperty(ctx context.Context, actor authz.Actor, propertyID uint, offset, limit int) ([]*models.Document, int64, error) {
	property, err := s.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPropertyNotFound
		}
		return nil, 0, err
	}
	if !authz.CanManage(actor, property.ManagerID) {
		return nil, 0, ErrNotAllowed
	}

	return s.documentRepo.ListByProperty(ctx, propertyID, offset, limit)
}

// Delete removes the metadata record and the stored file
func (s *DocumentService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	document, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}

	var managerID uint
	if document.PropertyID != nil {
		if property, err := s.propertyRepo.GetByID(ctx, *document.PropertyID); err == nil {
			managerID = property.ManagerID
		}
	}
	if !authz.Can(actor, authz.Resource{OwnerID: document.OwnerID, ManagerID: managerID}, authz.ActionDelete) {
		return ErrNotAllowed
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.cfg.Storage.UploadDir, document.StorageKey)); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️ Failed to remove stored file for document %d: %v", id, err)
	}

	return nil
}
