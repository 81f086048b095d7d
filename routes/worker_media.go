package routes

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"

	"quickfix-server/middleware"
)

// validateImageFile validates extension and size (<= 5MB)
func validateImageFile(h *multipart.FileHeader) bool {
	if h == nil || h.Size <= 0 || h.Size > 5*1024*1024 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(h.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// uploadWorkerPhotos accepts a multipart form with an optional profile_photo
// and up to five work_photo files, pushes them to Cloudinary and saves the
// secure URLs on the worker profile.
func (api *API) uploadWorkerPhotos(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid form data"})
		return
	}

	profileHeader, _ := c.FormFile("profile_photo")
	var workHeaders []*multipart.FileHeader
	if c.Request.MultipartForm != nil {
		workHeaders = c.Request.MultipartForm.File["work_photo"]
	}

	if profileHeader == nil && len(workHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No files provided"})
		return
	}
	if len(workHeaders) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "At most 5 work photos per upload"})
		return
	}

	if profileHeader != nil && !validateImageFile(profileHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid profile photo"})
		return
	}
	for _, h := range workHeaders {
		if !validateImageFile(h) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid work photo"})
			return
		}
	}

	worker, err := api.Stores.Workers.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Worker profile not found"})
		return
	}

	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		log.Printf("❌ Cloudinary environment variables not set")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cloudinary not configured"})
		return
	}

	cld, err := cloudinary.NewFromURL(fmt.Sprintf("cloudinary://%s:%s@%s", apiKey, apiSecret, cloudName))
	if err != nil {
		log.Printf("❌ Failed to initialize Cloudinary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Cloudinary initialization failed"})
		return
	}

	ctx := c.Request.Context()
	upload := func(header *multipart.FileHeader, folder string) (string, error) {
		file, err := header.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		ow := true
		uf := true
		up, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:         folder,
			PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
			Overwrite:      &ow,
			UniqueFilename: &uf,
			ResourceType:   "image",
		})
		if err != nil {
			return "", err
		}
		return up.SecureURL, nil
	}

	userDir := strconv.Itoa(int(user.ID))
	data := gin.H{}

	if profileHeader != nil {
		url, err := upload(profileHeader, "workers/profile_photos/"+userDir)
		if err != nil {
			log.Printf("❌ Profile photo upload failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Profile upload failed"})
			return
		}
		worker.ProfilePicture = &url
		data["profile_picture_url"] = url
	}

	var workURLs []string
	for _, h := range workHeaders {
		url, err := upload(h, "workers/portfolio/"+userDir)
		if err != nil {
			log.Printf("❌ Work photo upload failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Work photo upload failed"})
			return
		}
		workURLs = append(workURLs, url)
	}
	if len(workURLs) > 0 {
		worker.Portfolio = append(worker.Portfolio, workURLs...)
		data["portfolio_urls"] = workURLs
	}

	if err := api.Stores.Workers.Update(ctx, worker); err != nil {
		log.Printf("Error saving worker media: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save profile"})
		return
	}

	log.Printf("✅ Media uploaded for worker %d", worker.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
