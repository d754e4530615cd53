package repository

import (
	"database/sql"

	"github.com/emilianohg/weeksheet/internal/models"
)

type TimeCodeRepo struct {
	db *sql.DB
}

func NewTimeCodeRepo(db *sql.DB) *TimeCodeRepo {
	return &TimeCodeRepo{db: db}
}

// Create appends a code after every existing code.
func (r *TimeCodeRepo) Create(tc models.TimeCode) (*models.TimeCode, error) {
	_, err := r.db.Exec(`
		INSERT INTO time_codes (id, name, description, group_label, category, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM time_codes))
	`, tc.ID, tc.Name, tc.Description, tc.Group, string(tc.Category))
	if err != nil {
		return nil, err
	}

	return r.GetByID(tc.ID)
}

func (r *TimeCodeRepo) GetByID(id string) (*models.TimeCode, error) {
	var tc models.TimeCode
	err := r.db.QueryRow(`
		SELECT id, name, description, group_label, category
		FROM time_codes
		WHERE id = ?
	`, id).Scan(&tc.ID, &tc.Name, &tc.Description, &tc.Group, &tc.Category)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

// GetAll returns every code, chargeable first, in creation order.
func (r *TimeCodeRepo) GetAll() ([]models.TimeCode, error) {
	rows, err := r.db.Query(`
		SELECT id, name, description, group_label, category
		FROM time_codes
		ORDER BY category = 'nonChargeable', position, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.TimeCode
	for rows.Next() {
		var tc models.TimeCode
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Description, &tc.Group, &tc.Category); err != nil {
			return nil, err
		}
		codes = append(codes, tc)
	}
	return codes, rows.Err()
}

func (r *TimeCodeRepo) GetCatalog() (models.TimeCodeCatalog, error) {
	codes, err := r.GetAll()
	if err != nil {
		return models.TimeCodeCatalog{}, err
	}
	return models.NewTimeCodeCatalog(codes), nil
}

// Update rewrites every field but the id and position.
func (r *TimeCodeRepo) Update(tc models.TimeCode) error {
	_, err := r.db.Exec(`
		UPDATE time_codes
		SET name = ?, description = ?, group_label = ?, category = ?
		WHERE id = ?
	`, tc.Name, tc.Description, tc.Group, string(tc.Category), tc.ID)
	return err
}

func (r *TimeCodeRepo) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM time_codes WHERE id = ?", id)
	return err
}
