package billing

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/backoffice/backend/internal/application/crud"
	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedDocumentContentTypes is the closed set of content types a
// document may carry. Stored documents are rendered artifacts, so only
// document formats appear here.
var allowedDocumentContentTypes = map[string]bool{
	"application/pdf": true,
	"text/csv":        true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// ObjectStorageService defines the object storage operations the
// document service needs. The infrastructure layer implements it with
// an S3-compatible backend.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage.
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage.
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// DocumentServiceConfig holds URL lifetimes for the document service.
type DocumentServiceConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultDocumentServiceConfig returns the default configuration.
func DefaultDocumentServiceConfig() DocumentServiceConfig {
	return DocumentServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// DocumentInput describes the file about to be stored.
type DocumentInput struct {
	Kind        billing.DocumentKind
	BudgetID    *int64
	InvoiceID   *int64
	FileName    string
	ContentType string
	SizeBytes   int64
}

// UploadTicket is the answer to an initiated upload: the pending
// document row plus the presigned URL the caller uploads to.
type UploadTicket struct {
	Document  *billing.Document `json:"document"`
	UploadURL string            `json:"upload_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// DownloadTicket carries a presigned download URL for a stored
// document.
type DownloadTicket struct {
	Document    *billing.Document `json:"document"`
	DownloadURL string            `json:"download_url"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// DocumentService tracks rendered files (budget and invoice PDFs,
// report exports) kept in object storage. Uploads go directly to
// storage through presigned URLs; the service only persists metadata.
type DocumentService struct {
	repo    billing.DocumentRepository
	budgets billing.BudgetRepository
	storage ObjectStorageService
	config  DocumentServiceConfig
	logger  *zap.Logger
}

// NewDocumentService creates the document service.
func NewDocumentService(
	repo billing.DocumentRepository,
	budgets billing.BudgetRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		repo:    repo,
		budgets: budgets,
		storage: storage,
		config:  DefaultDocumentServiceConfig(),
		logger:  logger,
	}
}

// SetConfig overrides the URL lifetimes.
func (s *DocumentService) SetConfig(config DocumentServiceConfig) {
	s.config = config
}

// Get returns the document metadata when it exists under the tenant.
func (s *DocumentService) Get(ctx context.Context, tenantID, id int64) shared.Result[*billing.Document] {
	doc, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*billing.Document](s.logger, "document", err, "fetch")
	}
	return shared.OK(doc, "document retrieved successfully")
}

// List returns the tenant's documents matching the query.
func (s *DocumentService) List(ctx context.Context, tenantID int64, q shared.Query) shared.Result[[]billing.Document] {
	docs, err := s.repo.FindAllByTenant(ctx, tenantID, q)
	if err != nil {
		return crud.Failure[[]billing.Document](s.logger, "document", err, "list")
	}
	if docs == nil {
		docs = []billing.Document{}
	}
	return shared.OK(docs, "document list retrieved successfully")
}

// InitiateUpload validates the input, creates a pending metadata row
// and returns the presigned URL the file must be uploaded to.
func (s *DocumentService) InitiateUpload(ctx context.Context, tenantID int64, in DocumentInput) shared.Result[*UploadTicket] {
	if in.FileName == "" {
		return shared.Fail[*UploadTicket](shared.ErrorKindInvalidData, "the file_name field is required")
	}
	if !allowedDocumentContentTypes[in.ContentType] {
		return shared.Fail[*UploadTicket](shared.ErrorKindInvalidData,
			fmt.Sprintf("content type %q is not allowed", in.ContentType))
	}
	if in.BudgetID == nil && in.InvoiceID == nil {
		return shared.Fail[*UploadTicket](shared.ErrorKindInvalidData, "a document must reference a budget or an invoice")
	}
	if in.BudgetID != nil {
		if _, err := s.budgets.FindByIDAndTenant(ctx, tenantID, *in.BudgetID); err != nil {
			return crud.Failure[*UploadTicket](s.logger, "budget", err, "fetch")
		}
	}

	key := s.storageKey(tenantID, in.FileName)
	doc := &billing.Document{
		TenantOwned: shared.NewTenantOwned(tenantID),
		Kind:        in.Kind,
		BudgetID:    in.BudgetID,
		InvoiceID:   in.InvoiceID,
		FileName:    in.FileName,
		StorageKey:  key,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return crud.Failure[*UploadTicket](s.logger, "document", err, "create")
	}

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, in.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		// Drop the orphaned metadata row; the object was never stored.
		if delErr := s.repo.Delete(ctx, doc); delErr != nil {
			s.logger.Warn("failed to clean up pending document",
				zap.Int64("document_id", doc.ID), zap.Error(delErr))
		}
		return crud.Failure[*UploadTicket](s.logger, "document", err, "create")
	}
	return shared.OK(&UploadTicket{Document: doc, UploadURL: url, ExpiresAt: expiresAt},
		"document upload initiated successfully")
}

// ConfirmUpload verifies the object arrived in storage and marks the
// document uploaded.
func (s *DocumentService) ConfirmUpload(ctx context.Context, tenantID, id int64) shared.Result[*billing.Document] {
	doc, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*billing.Document](s.logger, "document", err, "update")
	}
	exists, err := s.storage.ObjectExists(ctx, doc.StorageKey)
	if err != nil {
		return crud.Failure[*billing.Document](s.logger, "document", err, "update")
	}
	if !exists {
		return shared.Fail[*billing.Document](shared.ErrorKindConflict, "the uploaded file has not arrived in storage")
	}
	doc.MarkUploaded()
	doc.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, doc); err != nil {
		return crud.Failure[*billing.Document](s.logger, "document", err, "update")
	}
	return shared.OK(doc, "document updated successfully")
}

// Download returns a presigned download URL for an uploaded document.
func (s *DocumentService) Download(ctx context.Context, tenantID, id int64) shared.Result[*DownloadTicket] {
	doc, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*DownloadTicket](s.logger, "document", err, "fetch")
	}
	if !doc.Uploaded {
		return shared.Fail[*DownloadTicket](shared.ErrorKindConflict, "the document has not finished uploading")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, doc.StorageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return crud.Failure[*DownloadTicket](s.logger, "document", err, "fetch")
	}
	return shared.OK(&DownloadTicket{Document: doc, DownloadURL: url, ExpiresAt: expiresAt},
		"document retrieved successfully")
}

// Delete removes the metadata row, then the stored object best-effort:
// a storage hiccup leaves an orphaned object, never a dangling row.
func (s *DocumentService) Delete(ctx context.Context, tenantID, id int64) shared.Result[*billing.Document] {
	doc, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		return crud.Failure[*billing.Document](s.logger, "document", err, "delete")
	}
	if err := s.repo.Delete(ctx, doc); err != nil {
		return crud.Failure[*billing.Document](s.logger, "document", err, "delete")
	}
	if err := s.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("failed to delete stored object",
			zap.String("storage_key", doc.StorageKey), zap.Error(err))
	}
	return shared.OK[*billing.Document](nil, "document deleted successfully")
}

func (s *DocumentService) storageKey(tenantID int64, fileName string) string {
	return fmt.Sprintf("tenants/%d/documents/%s%s", tenantID, uuid.New().String(), path.Ext(fileName))
}
