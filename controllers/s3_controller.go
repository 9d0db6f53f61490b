package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"trailmate_server/services"
)

// S3Controller hands out presigned URLs for profile-image storage
type S3Controller struct {
	S3Service *services.S3Service
}

// NewS3Controller creates a new S3Controller instance
func NewS3Controller(s3Service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: s3Service}
}

// HandleUploadURL returns a presigned PUT URL for a new profile image
func (c *S3Controller) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		http.Error(w, `{"error": "fileName and fileType are required"}`, http.StatusBadRequest)
		return
	}

	uploadURL, key, err := c.S3Service.GenerateUploadURL(r.Context(), fileName, fileType)
	if err != nil {
		log.Printf("Failed to presign upload: %v", err)
		http.Error(w, `{"error": "Failed to generate upload URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"uploadUrl": uploadURL,
		"key":       key,
	})
}

// HandleReadURL returns a presigned GET URL for a stored image
func (c *S3Controller) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, `{"error": "key is required"}`, http.StatusBadRequest)
		return
	}

	readURL, err := c.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		log.Printf("Failed to presign read: %v", err)
		http.Error(w, `{"error": "Failed to generate read URL"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"readUrl": readURL})
}
