package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

// incidentListCacheKey хранит полную выборку отчетов; инвалидация - при
// любой записи в таблицу.
const incidentListCacheKey = "incidents:list"

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create создает новую запись об отчете в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (title, description, incident_type, priority, status, address, latitude, longitude, incident_date, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.IncidentType,
		incident.Priority,
		incident.Status,
		incident.Address,
		incident.Latitude,
		incident.Longitude,
		incident.IncidentDate,
		incident.UserID,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает отчет по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	incident := &models.Incident{}
	query := `
		SELECT id, title, description, incident_type, priority, status, address, latitude, longitude, incident_date, created_at, updated_at, user_id
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&incident.Title,
		&incident.Description,
		&incident.IncidentType,
		&incident.Priority,
		&incident.Status,
		&incident.Address,
		&incident.Latitude,
		&incident.Longitude,
		&incident.IncidentDate,
		&incident.CreatedAt,
		&incident.UpdatedAt,
		&incident.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает все отчеты, новые первыми
func (r *IncidentRepository) List(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, title, description, incident_type, priority, status, address, latitude, longitude, incident_date, created_at, updated_at, user_id
		FROM incidents
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.IncidentType,
			&incident.Priority,
			&incident.Status,
			&incident.Address,
			&incident.Latitude,
			&incident.Longitude,
			&incident.IncidentDate,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// ListWithReporters возвращает отчеты вместе с именами заявителей
// (для админ-консоли)
func (r *IncidentRepository) ListWithReporters(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT i.id, i.title, i.description, i.incident_type, i.priority, i.status, i.address,
			i.latitude, i.longitude, i.incident_date, i.created_at, i.updated_at, i.user_id,
			COALESCE(p.full_name, 'Unknown')
		FROM incidents i
		LEFT JOIN profiles p ON p.id = i.user_id
		ORDER BY i.created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents with reporters: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.IncidentType,
			&incident.Priority,
			&incident.Status,
			&incident.Address,
			&incident.Latitude,
			&incident.Longitude,
			&incident.IncidentDate,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.UserID,
			&incident.ReporterName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in ListWithReporters: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListWithReporters: %w", err)
	}
	return incidents, nil
}

// ListGeotagged возвращает только отчеты с заполненными координатами
func (r *IncidentRepository) ListGeotagged(ctx context.Context) ([]*models.Incident, error) {
	query := `
		SELECT id, title, description, incident_type, priority, status, address, latitude, longitude, incident_date, created_at, updated_at, user_id
		FROM incidents
		WHERE latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list geotagged incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident := &models.Incident{}
		err := rows.Scan(
			&incident.ID,
			&incident.Title,
			&incident.Description,
			&incident.IncidentType,
			&incident.Priority,
			&incident.Status,
			&incident.Address,
			&incident.Latitude,
			&incident.Longitude,
			&incident.IncidentDate,
			&incident.CreatedAt,
			&incident.UpdatedAt,
			&incident.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row in ListGeotagged: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in ListGeotagged: %w", err)
	}
	return incidents, nil
}

// UpdateStatus меняет статус отчета
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE incidents SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// Stats возвращает агрегаты для дашборда: итоговые счетчики, помесячную
// динамику за последний год и распределение по типам
func (r *IncidentRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		Monthly: make([]models.MonthlyCount, 0),
		ByType:  make([]models.TypeCount, 0),
	}

	totalsQuery := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'resolved'),
			COUNT(*) FILTER (WHERE status IN ('pending', 'investigating'))
		FROM incidents;
	`
	err := r.db.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalIncidents,
		&stats.ResolvedIncidents,
		&stats.ActiveIncidents,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident totals: %w", err)
	}

	monthlyQuery := `
		SELECT to_char(date_trunc('month', incident_date), 'Mon'), COUNT(*)
		FROM incidents
		WHERE incident_date >= date_trunc('month', NOW()) - INTERVAL '11 months'
		GROUP BY date_trunc('month', incident_date)
		ORDER BY date_trunc('month', incident_date);
	`
	rows, err := r.db.Query(ctx, monthlyQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mc models.MonthlyCount
		if err := rows.Scan(&mc.Month, &mc.Reports); err != nil {
			return nil, fmt.Errorf("failed to scan monthly stats row: %w", err)
		}
		stats.Monthly = append(stats.Monthly, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error monthly stats iteration: %w", err)
	}

	typeQuery := `
		SELECT incident_type, COUNT(*)
		FROM incidents
		GROUP BY incident_type
		ORDER BY COUNT(*) DESC;
	`
	typeRows, err := r.db.Query(ctx, typeQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to get type stats: %w", err)
	}
	defer typeRows.Close()

	for typeRows.Next() {
		var tc models.TypeCount
		if err := typeRows.Scan(&tc.IncidentType, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan type stats row: %w", err)
		}
		stats.ByType = append(stats.ByType, tc)
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("error type stats iteration: %w", err)
	}

	return stats, nil
}

// GetListFromCache пытается получить полную выборку отчетов из Redis.
// Промах кеша возвращает nil без ошибки.
func (r *IncidentRepository) GetListFromCache(ctx context.Context) ([]*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident list from cache: %w", err)
	}

	incidents := make([]*models.Incident, 0)
	if err := json.Unmarshal(val, &incidents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident list from cache: %w", err)
	}
	return incidents, nil
}

// SetListCache сохраняет полную выборку отчетов в Redis
func (r *IncidentRepository) SetListCache(ctx context.Context, incidents []*models.Incident) error {
	val, err := json.Marshal(incidents)
	if err != nil {
		return fmt.Errorf("failed to marshal incident list for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentListCacheKey, val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident list in cache: %w", err)
	}
	return nil
}

// InvalidateListCache удаляет выборку отчетов из Redis кэша
func (r *IncidentRepository) InvalidateListCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, incidentListCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident list cache: %w", err)
	}
	return nil
}
