package handler

import (
	"time"

	"github.com/muralia/muralia/internal/domain"
	"github.com/muralia/muralia/internal/service"
)

// AccountDTO is the JSON representation of an account. The password hash
// never appears in any response.
type AccountDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toAccountDTO(a *domain.Account) AccountDTO {
	return AccountDTO{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

// AuthResponseDTO is returned by register and login.
type AuthResponseDTO struct {
	Token     string     `json:"token"`
	TokenType string     `json:"tokenType"`
	ExpiresIn int        `json:"expiresIn"`
	Account   AccountDTO `json:"account"`
}

func toAuthResponseDTO(a *domain.Account, token string) AuthResponseDTO {
	return AuthResponseDTO{
		Token:     token,
		TokenType: service.TokenType,
		ExpiresIn: int(service.TokenValidity.Seconds()),
		Account:   toAccountDTO(a),
	}
}

// ImageDTO is the JSON representation of image metadata.
type ImageDTO struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	FileName      string `json:"fileName"`
	FileSize      int64  `json:"fileSize"`
	MimeType      string `json:"mimeType"`
	OwnerID       int64  `json:"ownerId"`
	OwnerUsername string `json:"ownerUsername"`
	UploadedAt    string `json:"uploadedAt"`
}

func toImageDTO(img *domain.Image) ImageDTO {
	return ImageDTO{
		ID:            img.ID,
		URL:           img.URL,
		Title:         img.Title,
		Description:   img.Description,
		FileName:      img.FileName,
		FileSize:      img.FileSize,
		MimeType:      img.MimeType,
		OwnerID:       img.OwnerID,
		OwnerUsername: img.OwnerUsername,
		UploadedAt:    img.UploadedAt.Format(time.RFC3339),
	}
}

// ImageListDTO is the JSON representation of one page of images.
type ImageListDTO struct {
	Images []ImageDTO `json:"images"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func toImageListDTO(page *domain.ImagePage) ImageListDTO {
	images := make([]ImageDTO, len(page.Images))
	for i := range page.Images {
		images[i] = toImageDTO(&page.Images[i])
	}
	return ImageListDTO{
		Images: images,
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

// ErrorDTO is the structured error body for all non-2xx responses.
type ErrorDTO struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}
