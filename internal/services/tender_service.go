package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/senyabanana/tender-board/internal/models"
	"github.com/senyabanana/tender-board/internal/notification"
	"github.com/senyabanana/tender-board/internal/repository"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TenderService управляет жизненным циклом тендера: открыт → закрыт,
// по сроку или вручную, плюс добавление предложений.
type TenderService struct {
	Repo     repository.TenderRepository
	Parties  repository.PartyRepository
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewTenderService создаёт новый экземпляр TenderService.
func NewTenderService(repo repository.TenderRepository, parties repository.PartyRepository, notifier notification.Notifier, logger *zap.Logger) *TenderService {
	return &TenderService{
		Repo:     repo,
		Parties:  parties,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateTender создает новый тендер.
func (s *TenderService) CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error) {
	if len(tenderReq.Images) == 0 {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "No files uploaded")
	}
	return s.Repo.CreateTender(ctx, tenderReq)
}

// FetchTenders возвращает все тендеры, новые первыми, попутно закрывая
// просроченные. Каждое обновление идёт в своей горутине; сбой одного
// обновления не прерывает листинг.
func (s *TenderService) FetchTenders(ctx context.Context) ([]models.Tender, error) {
	tenders, err := s.Repo.GetTenders(ctx)
	if err != nil {
		return nil, err
	}
	if len(tenders) == 0 {
		return nil, models.NewErrorResponse(http.StatusNotFound, "No tenders available")
	}

	now := time.Now().UTC()
	var g errgroup.Group
	for i := range tenders {
		if tenders[i].Active && !tenders[i].ClosesOn.After(now) {
			tenders[i].Active = false
			tenderId := tenders[i].ID
			g.Go(func() error {
				if err := s.Repo.DeactivateTender(ctx, tenderId); err != nil {
					s.logger.Error("failed to deactivate expired tender",
						zap.String("tenderId", tenderId),
						zap.Error(err))
				}
				return nil
			})
		}
	}
	_ = g.Wait()

	return tenders, nil
}

// GetTenderDetail возвращает тендер и предложения с контактами поставщиков.
// Справочник опрашивается одним пакетным запросом; предложения с удалённым
// из справочника поставщиком остаются в выдаче с пустыми контактами.
func (s *TenderService) GetTenderDetail(ctx context.Context, tenderId string) (*models.Tender, []models.QuotationDetail, error) {
	tender, err := s.Repo.GetTenderByID(ctx, tenderId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, models.NewErrorResponse(http.StatusNotFound, "No tender found")
		}
		return nil, nil, err
	}

	partyIds := make([]string, 0, len(tender.Quotations))
	seen := make(map[string]bool)
	for _, q := range tender.Quotations {
		if !seen[q.PartyID] {
			seen[q.PartyID] = true
			partyIds = append(partyIds, q.PartyID)
		}
	}

	parties, err := s.Parties.GetPartiesByIDs(ctx, partyIds)
	if err != nil {
		return nil, nil, err
	}

	details := make([]models.QuotationDetail, 0, len(tender.Quotations))
	for _, q := range tender.Quotations {
		detail := models.QuotationDetail{
			AddedOn: q.AddedOn,
			PartyID: q.PartyID,
			Rate:    q.Rate,
			Color:   q.Color,
		}
		if party, ok := parties[q.PartyID]; ok {
			detail.Name = party.Name
			detail.Email = party.Email
			detail.Phone = party.Phone
			detail.City = party.City
			detail.CompanyName = party.CompanyName
		}
		details = append(details, detail)
	}
	return tender, details, nil
}

// CloseTender закрывает тендер вручную. Повторный вызов безопасен.
func (s *TenderService) CloseTender(ctx context.Context, tenderId string) (*models.Tender, error) {
	tender, err := s.Repo.CloseTender(ctx, tenderId, time.Now().UTC())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "tender not found")
		}
		return nil, err
	}
	return tender, nil
}

// AddQuotation добавляет предложение поставщика к тендеру.
// Повторные предложения от того же поставщика и предложения после закрытия
// не отклоняются.
func (s *TenderService) AddQuotation(ctx context.Context, tenderId, partyId string, quotationReq models.QuotationRequest) (*models.Tender, error) {
	if _, err := s.Repo.GetTenderByID(ctx, tenderId); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.NewErrorResponse(http.StatusNotFound, "Post not found")
		}
		return nil, err
	}
	return s.Repo.AddQuotation(ctx, tenderId, partyId, quotationReq.Rate, quotationReq.Color)
}

// ShareTenderResult рассылает участникам тендера ссылку на результаты.
func (s *TenderService) ShareTenderResult(ctx context.Context, tenderId string) error {
	tender, err := s.Repo.GetTenderByID(ctx, tenderId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewErrorResponse(http.StatusNotFound, "No tender found")
		}
		return err
	}
	if len(tender.ValidParty) == 0 {
		return models.NewErrorResponse(http.StatusBadRequest, "No valid parties to notify")
	}
	return s.notifier.NotifyClosed(ctx, tender, tender.ValidParty)
}
