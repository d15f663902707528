package handler

import (
	"strconv"

	"github.com/notehub/notehub-api/internal/core/domain"
)

// authResponse is the envelope for the auth surface. Code mirrors the HTTP
// status as a string; errors is an ordered list of field messages or null.
type authResponse struct {
	Code         string             `json:"code"`
	Success      bool               `json:"success"`
	Message      string             `json:"message,omitempty"`
	Errors       []string           `json:"errors"`
	AccessToken  string             `json:"accessToken,omitempty"`
	RefreshToken string             `json:"refreshToken,omitempty"`
	User         *domain.PublicUser `json:"user,omitempty"`
}

// dataResponse is the envelope for the CRUD surfaces.
type dataResponse struct {
	Code    string   `json:"code"`
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors"`
	Data    any      `json:"data,omitempty"`
}

func newDataResponse(status int, message string, data any) dataResponse {
	return dataResponse{
		Code:    strconv.Itoa(status),
		Success: true,
		Message: message,
		Data:    data,
	}
}
