package repository

import (
	"database/sql"
	"strings"

	"github.com/emilianohg/weeksheet/internal/models"
)

type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo {
	return &ClientRepo{db: db}
}

func (r *ClientRepo) Create(name string) (*models.Client, error) {
	result, err := r.db.Exec("INSERT INTO clients (name) VALUES (?)", name)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *ClientRepo) GetByID(id int64) (*models.Client, error) {
	var c models.Client
	err := r.db.QueryRow(
		"SELECT id, name, created_at FROM clients WHERE id = ?",
		id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientRepo) GetAll() ([]models.Client, error) {
	rows, err := r.db.Query("SELECT id, name, created_at FROM clients ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *ClientRepo) Update(id int64, name string) error {
	_, err := r.db.Exec("UPDATE clients SET name = ? WHERE id = ?", name, id)
	return err
}

// Delete removes a client. Its projects are kept without a client.
func (r *ClientRepo) Delete(id int64) error {
	_, err := r.db.Exec("DELETE FROM clients WHERE id = ?", id)
	return err
}

// ClientWithStats carries the codes of the projects billed to a client,
// ordered by code.
type ClientWithStats struct {
	models.Client
	ProjectCount int
	ProjectCodes []string
}

func (r *ClientRepo) GetAllWithStats() ([]ClientWithStats, error) {
	query := `
		SELECT
			c.id, c.name, c.created_at,
			(SELECT COUNT(*) FROM projects p WHERE p.client_id = c.id) AS project_count,
			(SELECT GROUP_CONCAT(code, ',') FROM (
				SELECT p.code FROM projects p WHERE p.client_id = c.id ORDER BY p.code
			)) AS project_codes
		FROM clients c
		ORDER BY c.name
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []ClientWithStats
	for rows.Next() {
		var c ClientWithStats
		var codes sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.ProjectCount, &codes); err != nil {
			return nil, err
		}
		if codes.Valid && codes.String != "" {
			c.ProjectCodes = strings.Split(codes.String, ",")
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
