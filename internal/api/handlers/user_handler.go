package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rozgar/jobportal/internal/services"
	"github.com/rozgar/jobportal/internal/utils"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	u, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.ProfilePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "UserHandler.UpdateMe", "invalid request body", err)
		return
	}

	u, err := h.svc.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// UploadResume takes a multipart "file" field holding a PDF.
func (h *UserHandler) UploadResume(c *gin.Context) {
	const op = "UserHandler.UploadResume"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, op, "missing multipart field 'file'", err)
		return
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".pdf" {
		badRequest(c, op, "only .pdf is allowed", nil)
		return
	}
	if fh.Size <= 0 || fh.Size > services.MaxResumeBytes {
		badRequest(c, op, "file too large (max 10MB)", nil)
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]
	if http.DetectContentType(head) != "application/pdf" {
		badRequest(c, op, "invalid content type (must be pdf)", nil)
		return
	}

	u, err := h.svc.UploadResume(c.Request.Context(), userID, fh.Size, io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) AdminCreate(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "UserHandler.AdminCreate", "invalid request body", err)
		return
	}

	u, err := h.svc.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

type BlockRequest struct {
	Blocked *bool `json:"isBlocked" binding:"required"`
}

func (h *UserHandler) AdminSetBlocked(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "UserHandler.AdminSetBlocked", "isBlocked is required", err)
		return
	}

	u, err := h.svc.SetBlocked(c.Request.Context(), adminID, c.Param("id"), *req.Blocked)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UserHandler) AdminDelete(c *gin.Context) {
	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), adminID, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
