package drive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/KasumiMercury/policy-hub/internal/domain"
	"github.com/KasumiMercury/policy-hub/internal/observability/tracing"
)

const (
	defaultContentType = "application/octet-stream"
	uploadIDProperty   = "policyHubUploadId"
)

// ClientProvider returns an HTTP client authorized for Drive.
type ClientProvider interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

type storage struct {
	clients  ClientProvider
	folderID string
	opts     []option.ClientOption
}

// NewStorage uploads into folderID, or the Drive root when it is empty.
// Every uploaded file is shared read-only with anyone holding the link.
func NewStorage(clients ClientProvider, folderID string, opts ...option.ClientOption) domain.FileStorage {
	return &storage{
		clients:  clients,
		folderID: folderID,
		opts:     opts,
	}
}

func (s *storage) Upload(ctx context.Context, upload *domain.Upload) (_ *domain.StoredFile, err error) {
	if upload == nil || upload.Body == nil {
		return nil, domain.ErrFileRequired
	}

	ctx, span := tracing.StartExternalAPISpan(ctx, "drive_upload", "drive.googleapis.com")
	defer func() {
		tracing.RecordResult(span, err)
		span.End()
	}()

	httpClient, err := s.clients.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize drive client: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, s.opts...)
	svc, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	uploadID := uuid.NewString()
	meta := &drivev3.File{
		Name:          upload.Name,
		AppProperties: map[string]string{uploadIDProperty: uploadID},
	}
	if s.folderID != "" {
		meta.Parents = []string{s.folderID}
	}

	created, err := svc.Files.Create(meta).
		Media(upload.Body, googleapi.ContentType(contentType)).
		Fields("id", "name", "webViewLink", "webContentLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to drive: %w", err)
	}

	if _, err := svc.Permissions.Create(created.Id, &drivev3.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to share drive file: %w", err)
	}

	slog.InfoContext(ctx, "file uploaded to drive",
		slog.String("event", "drive.upload.success"),
		slog.String("file_id", created.Id),
		slog.String("upload_id", uploadID),
		slog.String("content_type", contentType),
		slog.Int64("size", upload.Size),
	)

	return &domain.StoredFile{
		ID:             created.Id,
		Name:           created.Name,
		WebViewLink:    created.WebViewLink,
		WebContentLink: created.WebContentLink,
	}, nil
}
