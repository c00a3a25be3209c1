package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/models"
)

// incidentRepository is the SQLite-backed implementation of
// [IncidentRepository]. Incident rows and their attachment rows are written
// together by CreateIncident; list queries return incidents without
// attachment content, GetIncident loads the attachments.
type incidentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewIncidentRepository constructs an [IncidentRepository] backed by the
// provided database connection and logger.
func NewIncidentRepository(db *DB, logger *logger.Logger) IncidentRepository {
	logger.Debug().Msg("creating incident repository")
	return &incidentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateIncident persists a new incident together with its attachments and
// returns the record with the store-assigned ID.
func (r *incidentRepository) CreateIncident(ctx context.Context, incident models.Incident) (models.Incident, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, createIncident,
		incident.Title,
		incident.Description,
		incident.Priority,
		incident.Status,
		incident.FailingCode,
		incident.FixedCode,
		incident.TesterID,
		incident.TesterName,
		incident.DeveloperID,
		incident.DeveloperName,
		incident.CreatedAt,
		incident.DueDate,
	)
	if err != nil {
		log.Err(err).Str("func", "*incidentRepository.CreateIncident").Msg("error inserting incident")
		return models.Incident{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		log.Err(err).Str("func", "*incidentRepository.CreateIncident").Msg("error getting inserted incident id")
		return models.Incident{}, fmt.Errorf("unexpected DB error: %w", err)
	}
	incident.ID = id

	for position, attachment := range incident.Attachments {
		_, err := r.db.ExecContext(ctx, createAttachment,
			attachment.ID,
			incident.ID,
			attachment.Name,
			attachment.Type,
			attachment.Size,
			attachment.Data,
			position,
		)
		if err != nil {
			log.Err(err).
				Str("func", "*incidentRepository.CreateIncident").
				Int64("incident_id", incident.ID).
				Str("attachment_id", attachment.ID).
				Msg("error inserting attachment")
			return models.Incident{}, fmt.Errorf("failed to save attachment (id=%s): %w", attachment.ID, err)
		}
	}

	return incident, nil
}

// GetIncident retrieves a single incident by id, attachments included.
//
// Returns [ErrIncidentNotFound] when no row matches.
func (r *incidentRepository) GetIncident(ctx context.Context, id int64) (models.Incident, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getIncidentByID, id)

	incident, err := scanIncident(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Incident{}, ErrIncidentNotFound
		}
		log.Err(err).Str("func", "*incidentRepository.GetIncident").Int64("incident_id", id).Msg("error scanning incident row")
		return models.Incident{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	attachments, err := r.getAttachments(ctx, id)
	if err != nil {
		return models.Incident{}, err
	}
	incident.Attachments = attachments

	return incident, nil
}

// GetAllIncidents returns every incident newest first, without attachment
// content.
func (r *incidentRepository) GetAllIncidents(ctx context.Context) ([]models.Incident, error) {
	return r.SearchIncidents(ctx, IncidentFilter{})
}

// SearchIncidents returns the incidents matching the filter, newest first,
// without attachment content. The query is composed dynamically from the
// non-zero filter fields.
func (r *incidentRepository) SearchIncidents(ctx context.Context, filter IncidentFilter) ([]models.Incident, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(
		"id",
		"title",
		"description",
		"priority",
		"status",
		"failing_code",
		"fixed_code",
		"tester_id",
		"tester_name",
		"developer_id",
		"developer_name",
		"created_at",
		"due_date",
	).
		From("incidents").
		OrderBy("id DESC").
		PlaceholderFormat(sq.Question)

	if query := strings.TrimSpace(filter.Query); query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		match := sq.Or{
			sq.Like{"LOWER(title)": pattern},
			sq.Like{"LOWER(description)": pattern},
		}
		if id, err := strconv.ParseInt(strings.TrimPrefix(query, "#"), 10, 64); err == nil {
			match = append(match, sq.Eq{"id": id})
		}
		builder = builder.Where(match)
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.DeveloperID != nil {
		builder = builder.Where(sq.Eq{"developer_id": *filter.DeveloperID})
	}
	if filter.TesterID != nil {
		builder = builder.Where(sq.Eq{"tester_id": *filter.TesterID})
	}

	sqlText, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*incidentRepository.SearchIncidents").Msg("error building search query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		log.Err(err).Str("func", "*incidentRepository.SearchIncidents").Msg("error querying incidents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		incident, scanErr := scanIncident(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*incidentRepository.SearchIncidents").Msg("error scanning incident row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		incidents = append(incidents, incident)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*incidentRepository.SearchIncidents").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("error iterating incident rows: %w", rowsErr)
	}

	return incidents, nil
}

// AssignDeveloper sets the incident's developer and forces the status back
// to Open.
//
// Returns [ErrIncidentNotFound] when the id does not exist.
func (r *incidentRepository) AssignDeveloper(ctx context.Context, incidentID int64, developerID int64, developerName string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, assignIncidentDeveloper, developerID, developerName, incidentID)
	if err != nil {
		log.Err(err).
			Str("func", "*incidentRepository.AssignDeveloper").
			Int64("incident_id", incidentID).
			Int64("developer_id", developerID).
			Msg("error assigning developer")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result)
}

// UpdateStatus writes a new workflow status.
//
// Returns [ErrIncidentNotFound] when the id does not exist.
func (r *incidentRepository) UpdateStatus(ctx context.Context, incidentID int64, status models.Status) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, updateIncidentStatus, status, incidentID)
	if err != nil {
		log.Err(err).
			Str("func", "*incidentRepository.UpdateStatus").
			Int64("incident_id", incidentID).
			Str("status", string(status)).
			Msg("error updating status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result)
}

// ResolveIncident stores the fixed code and moves the incident to Resolved.
//
// Returns [ErrIncidentNotFound] when the id does not exist.
func (r *incidentRepository) ResolveIncident(ctx context.Context, incidentID int64, fixedCode string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, resolveIncident, fixedCode, incidentID)
	if err != nil {
		log.Err(err).
			Str("func", "*incidentRepository.ResolveIncident").
			Int64("incident_id", incidentID).
			Msg("error resolving incident")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return checkAffected(result)
}

func (r *incidentRepository) getAttachments(ctx context.Context, incidentID int64) ([]models.Attachment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, getIncidentAttachments, incidentID)
	if err != nil {
		log.Err(err).
			Str("func", "*incidentRepository.getAttachments").
			Int64("incident_id", incidentID).
			Msg("error querying attachments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var attachments []models.Attachment
	for rows.Next() {
		var attachment models.Attachment
		scanErr := rows.Scan(
			&attachment.ID,
			&attachment.Name,
			&attachment.Type,
			&attachment.Size,
			&attachment.Data,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "*incidentRepository.getAttachments").
				Int64("incident_id", incidentID).
				Msg("error scanning attachment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		attachments = append(attachments, attachment)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating attachment rows: %w", rowsErr)
	}

	return attachments, nil
}

func scanIncident(row rowScanner) (models.Incident, error) {
	var incident models.Incident
	var developerID sql.NullInt64

	err := row.Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.Priority,
		&incident.Status,
		&incident.FailingCode,
		&incident.FixedCode,
		&incident.TesterID,
		&incident.TesterName,
		&developerID,
		&incident.DeveloperName,
		&incident.CreatedAt,
		&incident.DueDate,
	)
	if err != nil {
		return models.Incident{}, err
	}

	if developerID.Valid {
		incident.DeveloperID = &developerID.Int64
	}

	return incident, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrIncidentNotFound
	}
	return nil
}
