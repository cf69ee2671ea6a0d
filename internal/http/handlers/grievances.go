package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jansamadhan/backend/internal/db"
	"github.com/jansamadhan/backend/internal/http/middleware"
	"github.com/jansamadhan/backend/internal/imaging"
	"github.com/jansamadhan/backend/internal/models"
	"github.com/jansamadhan/backend/internal/service"
	"github.com/jansamadhan/backend/internal/storage"
)

type SubmitResponse struct {
	ID         string                 `json:"id"`
	Message    string                 `json:"message"`
	AIAnalysis *models.Classification `json:"ai_analysis"`
	AIStatus   string                 `json:"ai_status"`
}

// @Summary Submit a grievance
// @Description Text, a photo, or both. The grievance is stored even when AI classification fails.
// @Tags grievances
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param text formData string false "grievance text in any language"
// @Param file formData file false "photo of the grievance"
// @Success 201 {object} SubmitResponse
// @Failure 401 {object} map[string]any
// @Failure 413 {object} map[string]any
// @Failure 429 {object} map[string]any
// @Failure 500 {object} map[string]any
// @Router /submit [post]
func (h *Handler) Submit(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials", nil)
		return
	}
	ctx := c.Request.Context()

	if _, err := h.Store.GetUserByID(ctx, p.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "User not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load user", err.Error())
		return
	}

	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+(1<<20))
	}

	if err := c.Request.ParseMultipartForm(h.multipartMemory()); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fileTooLarge(c)
			return
		}
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid multipart form", err.Error())
		return
	}

	sub := service.Submission{CitizenID: p.UserID, Text: c.PostForm("text")}
	fh, err := c.FormFile("file")
	if err == nil {
		if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
			h.fileTooLarge(c)
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read uploaded file", err.Error())
			return
		}
		sub.Image = data
		sub.Filename = fh.Filename
		sub.ContentType = uploadContentType(data, fh.Header.Get("Content-Type"))
	}

	res, err := h.Intake.Submit(ctx, sub)
	if err != nil {
		h.Logger.Error().Err(err).Str("citizen_id", p.UserID).Msg("grievance submission failed")
		writeError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to store grievance", nil)
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{
		ID:         res.ID,
		Message:    "Grievance submitted successfully",
		AIAnalysis: res.Classification.Result,
		AIStatus:   string(res.Classification.Outcome),
	})
}

// @Summary List grievances
// @Description Admins see every grievance, citizens see their own. Newest first, at most 100.
// @Tags grievances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Grievance
// @Router /grievances [get]
func (h *Handler) ListGrievances(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	filter := db.GrievanceFilter{Limit: db.MaxListLimit}
	if p.Role != models.RoleAdmin {
		filter.CitizenID = p.UserID
	}
	items, err := h.Store.ListGrievances(c.Request.Context(), filter)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list grievances", err.Error())
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary Fetch the photo attached to a grievance
// @Tags grievances
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "grievance id"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]any
// @Router /grievances/{id}/image [get]
func (h *Handler) GrievanceImage(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	ctx := c.Request.Context()

	g, ok := h.loadGrievance(c, c.Param("id"))
	if !ok {
		return
	}
	if p.Role != models.RoleAdmin && g.CitizenID != p.UserID {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Grievance not found", nil)
		return
	}
	if g.ImageID == nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Grievance has no image", nil)
		return
	}

	data, meta, err := h.Blobs.GetImage(ctx, *g.ImageID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Image not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load image", err.Error())
		return
	}
	contentType := meta.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Mark a grievance resolved
// @Tags grievances
// @Produce json
// @Security BearerAuth
// @Param id path string true "grievance id"
// @Success 200 {object} models.Grievance
// @Failure 404 {object} map[string]any
// @Router /grievances/{id}/resolve [post]
func (h *Handler) ResolveGrievance(c *gin.Context) {
	g, err := h.Store.ResolveGrievance(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Grievance not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to resolve grievance", err.Error())
		return
	}
	h.Logger.Info().Str("grievance_id", g.ID).Msg("grievance resolved")
	c.JSON(http.StatusOK, g)
}

// @Summary Grievance counts by category
// @Tags grievances
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CategoryCount
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.Store.GrievanceStats(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to compute stats", err.Error())
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) loadGrievance(c *gin.Context, id string) (models.Grievance, bool) {
	g, err := h.Store.GetGrievance(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Grievance not found", nil)
			return models.Grievance{}, false
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load grievance", err.Error())
		return models.Grievance{}, false
	}
	return g, true
}

func (h *Handler) multipartMemory() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return 32 << 20
}

func (h *Handler) fileTooLarge(c *gin.Context) {
	writeError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", fmt.Sprintf("File exceeds %d MB", h.MaxUploadBytes>>20), nil)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// uploadContentType trusts the image header over the client's claim.
func uploadContentType(data []byte, declared string) string {
	if info, err := imaging.Detect(data); err == nil {
		return info.ContentType
	}
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	return http.DetectContentType(data)
}
