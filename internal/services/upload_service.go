package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/senyabanana/tender-board/internal/models"
	"github.com/senyabanana/tender-board/internal/notification"
	"github.com/senyabanana/tender-board/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UploadedFile - вложение из multipart-формы.
type UploadedFile struct {
	Name        string
	Data        []byte
	ContentType string
}

// CreateTenderForm - поля multipart-формы создания тендера. Colors и
// ValidParty приходят как JSON-текст и декодируются здесь.
type CreateTenderForm struct {
	Title       string
	Descr       string
	Colors      string
	Qty         int
	ValidParty  string
	AddedBy     string
	AddedByName string
}

// UploadService координирует создание тендера: сначала загрузка всех
// вложений в хранилище, затем создание записи, затем рассылка.
type UploadService struct {
	storage  storage.ObjectStorage
	tenders  *TenderService
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewUploadService создаёт новый экземпляр UploadService.
func NewUploadService(objectStorage storage.ObjectStorage, tenders *TenderService, notifier notification.Notifier, logger *zap.Logger) *UploadService {
	return &UploadService{
		storage:  objectStorage,
		tenders:  tenders,
		notifier: notifier,
		logger:   logger,
	}
}

// UploadAndCreate загружает вложения, создает тендер и извещает всех
// поставщиков из validParty. Ответ не зависит от исходов отдельных
// уведомлений: тендер к этому моменту уже создан.
func (s *UploadService) UploadAndCreate(ctx context.Context, files []UploadedFile, form CreateTenderForm) (*models.Tender, error) {
	if len(files) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "No files uploaded")
	}

	var colors []string
	if err := json.Unmarshal([]byte(form.Colors), &colors); err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid colors field")
	}
	var validParty []string
	if err := json.Unmarshal([]byte(form.ValidParty), &validParty); err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid validParty field")
	}

	// Порядок ссылок в тендере повторяет порядок файлов в запросе,
	// сами загрузки между собой не упорядочены.
	downloadURLs := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			downloadURL, err := s.storage.Upload(gctx, file.Name, file.Data, file.ContentType)
			if err != nil {
				return fmt.Errorf("failed to upload file %s: %w", file.Name, err)
			}
			downloadURLs[i] = downloadURL
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tender, err := s.tenders.CreateTender(ctx, models.TenderRequest{
		Title:       form.Title,
		Description: form.Descr,
		Color:       colors,
		Qty:         form.Qty,
		Images:      downloadURLs,
		ValidParty:  validParty,
		AddedBy:     form.AddedBy,
		AddedByName: form.AddedByName,
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyOpened(ctx, tender, tender.ValidParty); err != nil {
		s.logger.Error("notification fan-out failed after tender creation",
			zap.String("tenderId", tender.ID),
			zap.Error(err))
	}
	return tender, nil
}
