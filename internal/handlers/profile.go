package handlers

import (
	"errors"
	"net/http"

	"github.com/TrueSergey/websitewishlist/internal/services"
)

const avatarFormField = "file"

type ProfileHandler struct {
	profileService services.ProfileServiceInterface
	maxUploadBytes int64
}

func NewProfileHandler(profileService services.ProfileServiceInterface, maxUploadBytes int64) *ProfileHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &ProfileHandler{
		profileService: profileService,
		maxUploadBytes: maxUploadBytes,
	}
}

type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	caller := requireCaller(w, r)
	if caller == nil {
		return
	}

	if r.ContentLength > h.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Avatar file is too large")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Avatar file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile(avatarFormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing avatar file")
		return
	}
	defer file.Close()

	url, err := h.profileService.UploadAvatar(r.Context(), caller, header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err, "upload_avatar")
		return
	}

	writeJSON(w, http.StatusOK, AvatarResponse{AvatarURL: url})
}
