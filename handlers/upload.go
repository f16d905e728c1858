package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const maxUploadSize = 5 << 20 // 5 MB

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadHandler stores product/banner images on local disk, served back
// under /uploads.
type UploadHandler struct {
	dir string
}

func NewUploadHandler(dir string) *UploadHandler {
	return &UploadHandler{dir: dir}
}

func (h *UploadHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Vui lòng chọn tệp hình ảnh")
	}

	if file.Size > maxUploadSize {
		return errorJSON(c, http.StatusBadRequest, "Tệp không được vượt quá 5MB")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return errorJSON(c, http.StatusBadRequest, "Chỉ chấp nhận tệp hình ảnh (jpg, png, gif, webp)")
	}

	src, err := file.Open()
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể đọc tệp")
	}
	defer src.Close()

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể lưu tệp")
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể lưu tệp")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errorJSON(c, http.StatusInternalServerError, "Không thể lưu tệp")
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": "/uploads/" + name})
}
