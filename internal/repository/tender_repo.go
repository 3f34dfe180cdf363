package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/tender-board/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// TenderRepository - интерфейс для работы с тендерами.
// Добавление предложения и закрытие выполняются одним атомарным запросом,
// без чтения-изменения-записи на стороне приложения.
type TenderRepository interface {
	CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error)
	GetTenders(ctx context.Context) ([]models.Tender, error)
	GetTenderByID(ctx context.Context, tenderId string) (*models.Tender, error)
	CloseTender(ctx context.Context, tenderId string, closedAt time.Time) (*models.Tender, error)
	DeactivateTender(ctx context.Context, tenderId string) error
	AddQuotation(ctx context.Context, tenderId, partyId string, rate float64, color string) (*models.Tender, error)
}

// PostgresTenderRepository - реализация TenderRepository для базы данных.
type PostgresTenderRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTenderRepository создаёт новый экземпляр PostgresTenderRepository.
func NewPostgresTenderRepository(db *pgxpool.Pool) *PostgresTenderRepository {
	return &PostgresTenderRepository{DB: db}
}

const tenderColumns = `id, title, description, color, qty, images, valid_party, added_by, added_by_name, created_on, closes_on, active`

func scanTender(row interface{ Scan(dest ...any) error }) (*models.Tender, error) {
	var tender models.Tender
	err := row.Scan(
		&tender.ID,
		&tender.Title,
		&tender.Description,
		&tender.Color,
		&tender.Qty,
		&tender.Images,
		&tender.ValidParty,
		&tender.AddedBy,
		&tender.AddedByName,
		&tender.CreatedOn,
		&tender.ClosesOn,
		&tender.Active)
	if err != nil {
		return nil, err
	}
	return &tender, nil
}

// CreateTender создает новый тендер с окном закрытия 48 часов.
func (r *PostgresTenderRepository) CreateTender(ctx context.Context, tenderReq models.TenderRequest) (*models.Tender, error) {
	now := time.Now().UTC()
	newTender := models.Tender{
		ID:          uuid.New().String(),
		Title:       tenderReq.Title,
		Description: tenderReq.Description,
		Color:       tenderReq.Color,
		Qty:         tenderReq.Qty,
		Images:      tenderReq.Images,
		ValidParty:  tenderReq.ValidParty,
		AddedBy:     tenderReq.AddedBy,
		AddedByName: tenderReq.AddedByName,
		CreatedOn:   now,
		ClosesOn:    now.Add(models.ClosingWindow),
		Active:      true,
	}
	_, err := r.DB.Exec(ctx, `
       INSERT INTO tender (id, title, description, color, qty, images, valid_party, added_by, added_by_name, created_on, closes_on, active)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
   `,
		newTender.ID,
		newTender.Title,
		newTender.Description,
		newTender.Color,
		newTender.Qty,
		newTender.Images,
		newTender.ValidParty,
		newTender.AddedBy,
		newTender.AddedByName,
		newTender.CreatedOn,
		newTender.ClosesOn,
		newTender.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tender: %w", err)
	}
	return &newTender, nil
}

// GetTenders возвращает все тендеры с предложениями, новые первыми.
func (r *PostgresTenderRepository) GetTenders(ctx context.Context) ([]models.Tender, error) {
	query := fmt.Sprintf(`SELECT %s FROM tender ORDER BY created_on DESC`, tenderColumns)

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []models.Tender
	var ids []string
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, *tender)
		ids = append(ids, tender.ID)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if len(tenders) == 0 {
		return nil, nil
	}

	quotations, err := r.getQuotations(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tenders {
		tenders[i].Quotations = quotations[tenders[i].ID]
	}
	return tenders, nil
}

// GetTenderByID возвращает тендер с его предложениями.
func (r *PostgresTenderRepository) GetTenderByID(ctx context.Context, tenderId string) (*models.Tender, error) {
	query := fmt.Sprintf(`SELECT %s FROM tender WHERE id = $1`, tenderColumns)

	tender, err := scanTender(r.DB.QueryRow(ctx, query, tenderId))
	if err != nil {
		return nil, err
	}

	quotations, err := r.getQuotations(ctx, []string{tender.ID})
	if err != nil {
		return nil, err
	}
	tender.Quotations = quotations[tender.ID]
	return tender, nil
}

// CloseTender закрывает тендер одним условным обновлением. Повторный вызов
// не меняет наблюдаемое состояние: closes_on переписывается только при
// переходе из активного состояния.
func (r *PostgresTenderRepository) CloseTender(ctx context.Context, tenderId string, closedAt time.Time) (*models.Tender, error) {
	query := fmt.Sprintf(`
		UPDATE tender
		SET closes_on = CASE WHEN active THEN $2 ELSE closes_on END, active = false
		WHERE id = $1
		RETURNING %s`, tenderColumns)

	tender, err := scanTender(r.DB.QueryRow(ctx, query, tenderId, closedAt))
	if err != nil {
		return nil, err
	}

	quotations, err := r.getQuotations(ctx, []string{tender.ID})
	if err != nil {
		return nil, err
	}
	tender.Quotations = quotations[tender.ID]
	return tender, nil
}

// DeactivateTender снимает флаг active у просроченного тендера.
// Используется ленивой зачисткой при листинге; дата закрытия не трогается.
func (r *PostgresTenderRepository) DeactivateTender(ctx context.Context, tenderId string) error {
	_, err := r.DB.Exec(ctx, `UPDATE tender SET active = false WHERE id = $1 AND active`, tenderId)
	if err != nil {
		return fmt.Errorf("failed to deactivate tender %s: %w", tenderId, err)
	}
	return nil
}

// AddQuotation атомарно добавляет предложение и возвращает обновленный тендер.
func (r *PostgresTenderRepository) AddQuotation(ctx context.Context, tenderId, partyId string, rate float64, color string) (*models.Tender, error) {
	insertQuery := `INSERT INTO quotation (id, tender_id, party_id, rate, color, added_on)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		uuid.New().String(),
		tenderId,
		partyId,
		rate,
		color,
		time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to insert quotation: %w", err)
	}
	return r.GetTenderByID(ctx, tenderId)
}

// getQuotations загружает предложения для набора тендеров одним запросом.
func (r *PostgresTenderRepository) getQuotations(ctx context.Context, tenderIds []string) (map[string][]models.Quotation, error) {
	query := `SELECT id, tender_id, party_id, rate, COALESCE(color, ''), added_on
              FROM quotation WHERE tender_id = ANY($1) ORDER BY added_on`

	rows, err := r.DB.Query(ctx, query, pq.Array(tenderIds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quotations := make(map[string][]models.Quotation)
	for rows.Next() {
		var q models.Quotation
		if err := rows.Scan(
			&q.ID,
			&q.TenderID,
			&q.PartyID,
			&q.Rate,
			&q.Color,
			&q.AddedOn); err != nil {
			return nil, err
		}
		quotations[q.TenderID] = append(quotations[q.TenderID], q)
	}
	return quotations, rows.Err()
}
