package smiledesign

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentiq/dentiq/pkg/smile"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const analysisCols = `id, patient_id, photo_blob_id, photo_mime, source, boxes, lines, notes, created_at, updated_at`

// Boxes and lines live in JSONB columns; pgx maps them through json.RawMessage.
func scanAnalysis(row pgx.Row) (*Analysis, error) {
	var a Analysis
	var boxesRaw, linesRaw []byte
	err := row.Scan(
		&a.ID, &a.PatientID, &a.PhotoBlobID, &a.PhotoMime, &a.Source,
		&boxesRaw, &linesRaw, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if boxesRaw != nil {
		if err := json.Unmarshal(boxesRaw, &a.Boxes); err != nil {
			return nil, err
		}
	}
	if linesRaw != nil {
		var pl smile.ProportionLines
		if err := json.Unmarshal(linesRaw, &pl); err != nil {
			return nil, err
		}
		a.Lines = &pl
	}
	return &a, nil
}

func marshalJSONB(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (r *repoPG) Create(ctx context.Context, a *Analysis) error {
	a.ID = uuid.New()
	boxes, err := marshalJSONB(a.Boxes)
	if err != nil {
		return err
	}
	var lines []byte
	if a.Lines != nil {
		if lines, err = marshalJSONB(a.Lines); err != nil {
			return err
		}
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO smile_analysis (id, patient_id, photo_blob_id, photo_mime, source, boxes, lines, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.PatientID, a.PhotoBlobID, a.PhotoMime, a.Source, boxes, lines, a.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	return scanAnalysis(r.pool.QueryRow(ctx, `SELECT `+analysisCols+` FROM smile_analysis WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Analysis) error {
	boxes, err := marshalJSONB(a.Boxes)
	if err != nil {
		return err
	}
	var lines []byte
	if a.Lines != nil {
		if lines, err = marshalJSONB(a.Lines); err != nil {
			return err
		}
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE smile_analysis SET
			photo_blob_id = $2, photo_mime = $3, source = $4, boxes = $5, lines = $6, notes = $7, updated_at = NOW()
		WHERE id = $1`,
		a.ID, a.PhotoBlobID, a.PhotoMime, a.Source, boxes, lines, a.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM smile_analysis WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Analysis, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM smile_analysis WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+analysisCols+` FROM smile_analysis
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var analyses []*Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, 0, err
		}
		analyses = append(analyses, a)
	}
	return analyses, total, rows.Err()
}
