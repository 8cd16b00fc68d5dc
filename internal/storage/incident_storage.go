package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/havenhouse/hms/internal/model"
)

type incidentStorage struct {
	db *pgxpool.Pool
}

func NewIncidentStorage(pool *pgxpool.Pool) IncidentStorage {
	return &incidentStorage{db: pool}
}

func (s *incidentStorage) Save(ctx context.Context, inc *model.Incident) error {
	const query = `
		INSERT INTO incidents
			(id, created_at, resident_id, incident_type, description, severity,
			 action_taken, staff_member, resolved, resolution_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.db.Exec(ctx, query,
		inc.ID, inc.CreatedAt, inc.ResidentID, inc.IncidentType, inc.Description,
		inc.Severity, inc.ActionTaken, inc.StaffMember, inc.Resolved, inc.ResolutionNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to save incident: %w", err)
	}
	return nil
}

func (s *incidentStorage) FindAll(ctx context.Context) ([]model.Incident, error) {
	const query = `
		SELECT id, created_at, resident_id, incident_type, description, severity,
		       action_taken, staff_member, resolved, resolution_notes
		FROM incidents
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var incidents []model.Incident
	for rows.Next() {
		var i model.Incident
		if err := rows.Scan(
			&i.ID, &i.CreatedAt, &i.ResidentID, &i.IncidentType, &i.Description,
			&i.Severity, &i.ActionTaken, &i.StaffMember, &i.Resolved, &i.ResolutionNotes,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		incidents = append(incidents, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return incidents, nil
}

type documentStorage struct {
	db *pgxpool.Pool
}

func NewDocumentStorage(pool *pgxpool.Pool) DocumentStorage {
	return &documentStorage{db: pool}
}

func (s *documentStorage) FindByResident(ctx context.Context, residentID string) ([]model.Document, error) {
	const query = `
		SELECT id, created_at, resident_id, name, url
		FROM documents
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, residentID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.ResidentID, &d.Name, &d.URL); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		docs = append(docs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return docs, nil
}
