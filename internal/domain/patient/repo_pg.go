package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const patientCols = `id, chart_number, first_name, last_name, birth_date, gender,
	phone, email, address_line, city, state, postal_code,
	allergies, notes, archived, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.ChartNumber, &p.FirstName, &p.LastName, &p.BirthDate, &p.Gender,
		&p.Phone, &p.Email, &p.AddressLine, &p.City, &p.State, &p.PostalCode,
		&p.Allergies, &p.Notes, &p.Archived, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient (
			id, chart_number, first_name, last_name, birth_date, gender,
			phone, email, address_line, city, state, postal_code,
			allergies, notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		p.ID, p.ChartNumber, p.FirstName, p.LastName, p.BirthDate, p.Gender,
		p.Phone, p.Email, p.AddressLine, p.City, p.State, p.PostalCode,
		p.Allergies, p.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByChartNumber(ctx context.Context, chartNumber string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE chart_number = $1`, chartNumber))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patient SET
			chart_number = $2, first_name = $3, last_name = $4, birth_date = $5, gender = $6,
			phone = $7, email = $8, address_line = $9, city = $10, state = $11, postal_code = $12,
			allergies = $13, notes = $14, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.ChartNumber, p.FirstName, p.LastName, p.BirthDate, p.Gender,
		p.Phone, p.Email, p.AddressLine, p.City, p.State, p.PostalCode,
		p.Allergies, p.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) Archive(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE patient SET archived = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE NOT archived`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+patientCols+` FROM patient WHERE NOT archived
		ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	where := []string{"NOT archived"}
	args := []interface{}{}
	i := 1

	if name := params["name"]; name != "" {
		where = append(where, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d)", i, i))
		args = append(args, "%"+name+"%")
		i++
	}
	if chart := params["chart_number"]; chart != "" {
		where = append(where, fmt.Sprintf("chart_number = $%d", i))
		args = append(args, chart)
		i++
	}
	if phone := params["phone"]; phone != "" {
		where = append(where, fmt.Sprintf("phone LIKE $%d", i))
		args = append(args, "%"+phone+"%")
		i++
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM patient WHERE %s ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`,
		patientCols, clause, i, i+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		patients = append(patients, p)
	}
	return patients, total, rows.Err()
}
