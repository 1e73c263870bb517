package v1

import (
	"time"

	"github.com/urbaneye/crime_reporting_system/internal/models"
)

// DTOToIncidentModel преобразует DTO создания отчета в доменную модель
func DTOToIncidentModel(dto CreateIncidentRequest) *models.Incident {
	incident := &models.Incident{
		Title:        dto.Title,
		Description:  dto.Description,
		IncidentType: dto.IncidentType,
		Priority:     dto.Priority,
		Address:      dto.Address,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
	}
	if dto.IncidentDate != nil {
		incident.IncidentDate = *dto.IncidentDate
	} else {
		incident.IncidentDate = time.Now()
	}
	return incident
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		IncidentType: model.IncidentType,
		Priority:     model.Priority,
		Status:       model.Status,
		Address:      model.Address,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		IncidentDate: model.IncidentDate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		UserID:       model.UserID,
		ReporterName: model.ReporterName,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(incidents))
	for i, model := range incidents {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// DTOToProfileUpdate преобразует DTO в частичное обновление профиля
func DTOToProfileUpdate(dto UpdateProfileRequest) *models.ProfileUpdate {
	return &models.ProfileUpdate{
		FullName:  dto.FullName,
		Phone:     dto.Phone,
		Address:   dto.Address,
		AvatarURL: dto.AvatarURL,
	}
}

// ModelToProfileResponse преобразует профиль в DTO для ответа
func ModelToProfileResponse(model *models.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:        model.ID,
		FullName:  model.FullName,
		Phone:     model.Phone,
		Address:   model.Address,
		AvatarURL: model.AvatarURL,
		IsAdmin:   model.IsAdmin,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// ModelsToProfileResponses преобразует слайс профилей в слайс DTO
func ModelsToProfileResponses(profiles []*models.Profile) []*ProfileResponse {
	responses := make([]*ProfileResponse, len(profiles))
	for i, model := range profiles {
		responses[i] = ModelToProfileResponse(model)
	}
	return responses
}
