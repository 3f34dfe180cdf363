package notification

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/senyabanana/tender-board/internal/models"
	"github.com/senyabanana/tender-board/internal/repository"
	"github.com/senyabanana/tender-board/internal/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notifier - интерфейс рассылки уведомлений по событиям тендера.
type Notifier interface {
	NotifyOpened(ctx context.Context, tender *models.Tender, partyIds []string) error
	NotifyClosed(ctx context.Context, tender *models.Tender, partyIds []string) error
}

// Dispatcher рассылает уведомления поставщикам: письмо плюс ссылка для
// WhatsApp на каждого. Попытки идут параллельно и независимо; сбой по
// одному поставщику никогда не прерывает рассылку остальным.
type Dispatcher struct {
	parties   repository.PartyRepository
	mailer    Mailer
	logger    *zap.Logger
	webOrigin string
}

// NewDispatcher создаёт новый экземпляр Dispatcher.
func NewDispatcher(parties repository.PartyRepository, mailer Mailer, logger *zap.Logger, webOrigin string) *Dispatcher {
	return &Dispatcher{
		parties:   parties,
		mailer:    mailer,
		logger:    logger,
		webOrigin: webOrigin,
	}
}

// NotifyOpened извещает поставщиков об открытии тендера.
func (d *Dispatcher) NotifyOpened(ctx context.Context, tender *models.Tender, partyIds []string) error {
	return d.fanOut(ctx, tender, partyIds, d.composeOpened)
}

// NotifyClosed извещает поставщиков о закрытии тендера и ссылке на результат.
func (d *Dispatcher) NotifyClosed(ctx context.Context, tender *models.Tender, partyIds []string) error {
	return d.fanOut(ctx, tender, partyIds, d.composeClosed)
}

// fanOut выполняет попытку уведомления для каждого поставщика в своей
// горутине. Наверх уходит только инфраструктурная ошибка справочника;
// все остальные исходы пишутся в лог.
func (d *Dispatcher) fanOut(ctx context.Context, tender *models.Tender, partyIds []string, compose composeFunc) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, partyId := range partyIds {
		partyId := partyId
		g.Go(func() error {
			party, err := d.parties.GetPartyByID(ctx, partyId)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					d.logger.Warn("party not found, skipping notification",
						zap.String("partyId", partyId),
						zap.String("tenderId", tender.ID))
					return nil
				}
				return fmt.Errorf("failed to resolve party %s: %w", partyId, err)
			}
			d.notifyParty(tender, party, compose)
			return nil
		})
	}
	return g.Wait()
}

type composeFunc func(tender *models.Tender, partyId string) (subject, body string)

// notifyParty отправляет письмо и вычисляет ссылку для WhatsApp.
// Сама ссылка никуда не отправляется, только пишется в лог.
func (d *Dispatcher) notifyParty(tender *models.Tender, party *models.Party, compose composeFunc) {
	subject, body := compose(tender, party.ID)

	if party.Email == "" {
		d.logger.Warn("no email on file, skipping mail",
			zap.String("partyId", party.ID),
			zap.String("tenderId", tender.ID))
	} else if err := d.mailer.Send(party.Email, subject, body); err != nil {
		d.logger.Error("failed to send email",
			zap.String("email", party.Email),
			zap.String("tenderId", tender.ID),
			zap.Error(err))
	} else {
		d.logger.Info("email sent", zap.String("email", party.Email))
	}

	if party.Phone == "" {
		d.logger.Info("no phone number, skipping whatsapp message",
			zap.String("partyId", party.ID))
		return
	}
	d.logger.Info("whatsapp message link",
		zap.String("phone", party.Phone),
		zap.String("url", WhatsAppURL(party.Phone, body)))
}

func (d *Dispatcher) composeOpened(tender *models.Tender, partyId string) (string, string) {
	body := fmt.Sprintf(`Dear Vendor,

We are excited to announce that a new tender has been opened!

Tender Title: %s
Closing Date: %s
Details: %s

We encourage you to review the tender and submit your proposal by the closing date. If you have any questions or need further information, please don't hesitate to reach out. Below is the link to fill the tender: %s

Best regards,

Shiva TexFabs`,
		tender.Title,
		utils.FormatClosingDate(tender.ClosesOn),
		tender.Description,
		SharingLink(d.webOrigin, partyId, tender.ID))
	return "A New Tender Has Opened", body
}

func (d *Dispatcher) composeClosed(tender *models.Tender, partyId string) (string, string) {
	body := fmt.Sprintf(`Dear Vendor,

The Tender has been closed.

Tender Title: %s
Closing Date: %s
Details: %s

To view the result, please visit the below link:
%s

Best regards,

Shiva TexFabs`,
		tender.Title,
		utils.FormatClosingDate(tender.ClosesOn),
		tender.Description,
		ResultLink(d.webOrigin, tender.ID))
	return "Result of Tendor", body
}

// SharingLink строит ссылку на страницу подачи предложения. Формат пути
// закреплён: по нему ходят получатели старых писем.
func SharingLink(origin, partyId, tenderId string) string {
	return fmt.Sprintf("%s/SharingPage/%s/%s", origin, partyId, tenderId)
}

// ResultLink строит ссылку на страницу результатов тендера.
func ResultLink(origin, tenderId string) string {
	return fmt.Sprintf("%s/tendor-result/%s", origin, tenderId)
}

// WhatsAppURL строит ссылку wa.me с текстом сообщения в query-параметре.
func WhatsAppURL(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, url.QueryEscape(message))
}
