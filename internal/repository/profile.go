package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urbaneye/crime_reporting_system/internal/models"
	"github.com/urbaneye/crime_reporting_system/internal/service"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) service.ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID возвращает профиль по UUID пользователя
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, full_name, phone, address, avatar_url, is_admin, created_at, updated_at
		FROM profiles
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Phone,
		&profile.Address,
		&profile.AvatarURL,
		&profile.IsAdmin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return profile, nil
}

// List возвращает все профили, новые первыми
func (r *ProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT id, full_name, phone, address, avatar_url, is_admin, created_at, updated_at
		FROM profiles
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		profile := &models.Profile{}
		err := rows.Scan(
			&profile.ID,
			&profile.FullName,
			&profile.Phone,
			&profile.Address,
			&profile.AvatarURL,
			&profile.IsAdmin,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return profiles, nil
}

// Update применяет частичное обновление: nil-поля не трогают текущие
// значения. Возвращает итоговую запись.
func (r *ProfileRepository) Update(ctx context.Context, id uuid.UUID, upd *models.ProfileUpdate) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		UPDATE profiles SET
			full_name = COALESCE($1, full_name),
			phone = COALESCE($2, phone),
			address = COALESCE($3, address),
			avatar_url = COALESCE($4, avatar_url),
			updated_at = NOW()
		WHERE id = $5
		RETURNING id, full_name, phone, address, avatar_url, is_admin, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		upd.FullName,
		upd.Phone,
		upd.Address,
		upd.AvatarURL,
		id,
	).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Phone,
		&profile.Address,
		&profile.AvatarURL,
		&profile.IsAdmin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SetAdmin выставляет флаг администратора
func (r *ProfileRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	query := `
		UPDATE profiles SET
			is_admin = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, isAdmin, id)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("profile with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}
