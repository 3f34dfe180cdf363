package repository

import (
	"context"

	"github.com/senyabanana/tender-board/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PartyRepository - интерфейс справочника поставщиков (только чтение).
type PartyRepository interface {
	GetPartyByID(ctx context.Context, partyId string) (*models.Party, error)
	GetPartiesByIDs(ctx context.Context, partyIds []string) (map[string]models.Party, error)
}

// PostgresPartyRepository - реализация PartyRepository для базы данных.
type PostgresPartyRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPartyRepository создаёт новый экземпляр PostgresPartyRepository.
func NewPostgresPartyRepository(db *pgxpool.Pool) *PostgresPartyRepository {
	return &PostgresPartyRepository{DB: db}
}

// GetPartyByID возвращает поставщика по идентификатору.
func (r *PostgresPartyRepository) GetPartyByID(ctx context.Context, partyId string) (*models.Party, error) {
	var party models.Party
	query := `SELECT id, name, email, COALESCE(phone, ''), city, company_name FROM client WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, partyId).Scan(
		&party.ID,
		&party.Name,
		&party.Email,
		&party.Phone,
		&party.City,
		&party.CompanyName,
	)
	if err != nil {
		return nil, err
	}
	return &party, nil
}

// GetPartiesByIDs возвращает поставщиков одним запросом. Отсутствующие
// идентификаторы просто не попадают в результат.
func (r *PostgresPartyRepository) GetPartiesByIDs(ctx context.Context, partyIds []string) (map[string]models.Party, error) {
	parties := make(map[string]models.Party)
	if len(partyIds) == 0 {
		return parties, nil
	}

	query := `SELECT id, name, email, COALESCE(phone, ''), city, company_name FROM client WHERE id = ANY($1)`
	rows, err := r.DB.Query(ctx, query, pq.Array(partyIds))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var party models.Party
		if err := rows.Scan(
			&party.ID,
			&party.Name,
			&party.Email,
			&party.Phone,
			&party.City,
			&party.CompanyName); err != nil {
			return nil, err
		}
		parties[party.ID] = party
	}
	return parties, rows.Err()
}
