package repository

import (
	"database/sql"

	"github.com/emilianohg/weeksheet/internal/models"
)

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `p.id, p.code, p.name, p.client_id, p.created_at, c.name`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner, extra ...any) (models.Project, error) {
	var p models.Project
	var clientID sql.NullInt64
	var clientName sql.NullString

	dest := append([]any{&p.ID, &p.Code, &p.Name, &clientID, &p.CreatedAt, &clientName}, extra...)
	if err := row.Scan(dest...); err != nil {
		return p, err
	}

	if clientID.Valid {
		p.ClientID = &clientID.Int64
	}
	p.ClientName = clientName.String
	return p, nil
}

func (r *ProjectRepo) Create(code, name string, clientID *int64) (*models.Project, error) {
	result, err := r.db.Exec(
		"INSERT INTO projects (code, name, client_id) VALUES (?, ?, ?)",
		code, name, clientID,
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *ProjectRepo) GetByID(id int64) (*models.Project, error) {
	row := r.db.QueryRow(`
		SELECT `+projectColumns+`
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.id = ?
	`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) GetByCode(code string) (*models.Project, error) {
	row := r.db.QueryRow(`
		SELECT `+projectColumns+`
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.code = ?
	`, code)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns projects ordered by code, which is the order the grid
// offers them in.
func (r *ProjectRepo) GetAll() ([]models.Project, error) {
	return r.query(`
		SELECT ` + projectColumns + `
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		ORDER BY p.code
	`)
}

func (r *ProjectRepo) GetByClientID(clientID int64) ([]models.Project, error) {
	return r.query(`
		SELECT `+projectColumns+`
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		WHERE p.client_id = ?
		ORDER BY p.code
	`, clientID)
}

func (r *ProjectRepo) query(query string, args ...any) ([]models.Project, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Update(id int64, code, name string) error {
	_, err := r.db.Exec("UPDATE projects SET code = ?, name = ? WHERE id = ?", code, name, id)
	return err
}

func (r *ProjectRepo) SetClient(id int64, clientID *int64) error {
	_, err := r.db.Exec("UPDATE projects SET client_id = ? WHERE id = ?", clientID, id)
	return err
}

func (r *ProjectRepo) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}

type ProjectWithStats struct {
	models.Project
	WeekCount int
}

// GetAllWithStats counts the stored weeks each project appears in.
func (r *ProjectRepo) GetAllWithStats() ([]ProjectWithStats, error) {
	query := `
		SELECT
			` + projectColumns + `,
			COUNT(DISTINCT e.timesheet_id) as week_count
		FROM projects p
		LEFT JOIN clients c ON c.id = p.client_id
		LEFT JOIN timesheet_entries e ON e.project_id = p.id
		GROUP BY p.id
		ORDER BY p.code
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []ProjectWithStats
	for rows.Next() {
		var s ProjectWithStats
		p, err := scanProject(rows, &s.WeekCount)
		if err != nil {
			return nil, err
		}
		s.Project = p
		projects = append(projects, s)
	}
	return projects, rows.Err()
}
