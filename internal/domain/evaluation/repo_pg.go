package evaluation

import (
	"context"

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

const evaluationCols = `id, patient_id, title, chief_complaint, status, notes, created_at, updated_at`

const toothCols = `id, evaluation_id, tooth_number, condition, treatment_type, resin_shade, notes, created_at, updated_at`

func scanEvaluation(row pgx.Row) (*Evaluation, error) {
	var e Evaluation
	err := row.Scan(
		&e.ID, &e.PatientID, &e.Title, &e.ChiefComplaint, &e.Status, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanTooth(row pgx.Row) (*ToothRecord, error) {
	var tr ToothRecord
	err := row.Scan(
		&tr.ID, &tr.EvaluationID, &tr.ToothNumber, &tr.Condition, &tr.TreatmentType,
		&tr.ResinShade, &tr.Notes, &tr.CreatedAt, &tr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *repoPG) Create(ctx context.Context, e *Evaluation) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluation (id, patient_id, title, chief_complaint, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.PatientID, e.Title, e.ChiefComplaint, e.Status, e.Notes,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	e, err := scanEvaluation(r.pool.QueryRow(ctx, `SELECT `+evaluationCols+` FROM evaluation WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	teeth, err := r.ListTeeth(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Teeth = teeth
	return e, nil
}

func (r *repoPG) Update(ctx context.Context, e *Evaluation) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE evaluation SET
			title = $2, chief_complaint = $3, status = $4, notes = $5, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.Title, e.ChiefComplaint, e.Status, e.Notes,
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
	tag, err := r.pool.Exec(ctx, `DELETE FROM evaluation WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Evaluation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM evaluation WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+evaluationCols+` FROM evaluation
		WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectEvaluations(rows, total)
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Evaluation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM evaluation`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+evaluationCols+` FROM evaluation
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	return collectEvaluations(rows, total)
}

func collectEvaluations(rows pgx.Rows, total int) ([]*Evaluation, int, error) {
	var evals []*Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, 0, err
		}
		evals = append(evals, e)
	}
	return evals, total, rows.Err()
}

func (r *repoPG) AddTooth(ctx context.Context, tr *ToothRecord) error {
	tr.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluation_tooth (id, evaluation_id, tooth_number, condition, treatment_type, resin_shade, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		tr.ID, tr.EvaluationID, tr.ToothNumber, tr.Condition, tr.TreatmentType, tr.ResinShade, tr.Notes,
	)
	return err
}

func (r *repoPG) UpdateTooth(ctx context.Context, tr *ToothRecord) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE evaluation_tooth SET
			tooth_number = $3, condition = $4, treatment_type = $5, resin_shade = $6, notes = $7, updated_at = NOW()
		WHERE id = $1 AND evaluation_id = $2`,
		tr.ID, tr.EvaluationID, tr.ToothNumber, tr.Condition, tr.TreatmentType, tr.ResinShade, tr.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) RemoveTooth(ctx context.Context, evaluationID uuid.UUID, toothID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evaluation_tooth WHERE id = $1 AND evaluation_id = $2`, toothID, evaluationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *repoPG) ListTeeth(ctx context.Context, evaluationID uuid.UUID) ([]*ToothRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+toothCols+` FROM evaluation_tooth
		WHERE evaluation_id = $1 ORDER BY tooth_number`, evaluationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teeth []*ToothRecord
	for rows.Next() {
		tr, err := scanTooth(rows)
		if err != nil {
			return nil, err
		}
		teeth = append(teeth, tr)
	}
	return teeth, rows.Err()
}
