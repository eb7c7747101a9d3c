package dto

import "github.com/yigit/school/internal/app/models"

// AvatarResponse is the avatar metadata; the bytes are served by GET /avatar/{id}
type AvatarResponse struct {
	ID        int64  `json:"id" example:"1"`
	StudentID int64  `json:"studentId" example:"3"`
	FilePath  string `json:"filePath" example:"avatars/3_avatar.jpg"`
	FileSize  int64  `json:"fileSize" example:"20480"`
	MediaType string `json:"mediaType" example:"image/jpeg"`
}

// FromAvatar converts a models.Avatar into its response shape
func FromAvatar(a *models.Avatar) AvatarResponse {
	if a == nil {
		return AvatarResponse{}
	}
	return AvatarResponse{
		ID:        a.ID,
		StudentID: a.StudentID,
		FilePath:  a.FilePath,
		FileSize:  a.FileSize,
		MediaType: a.MediaType,
	}
}

// FromAvatars converts an avatar list, never returning nil
func FromAvatars(avatars []*models.Avatar) []AvatarResponse {
	out := make([]AvatarResponse, 0, len(avatars))
	for _, a := range avatars {
		out = append(out, FromAvatar(a))
	}
	return out
}
