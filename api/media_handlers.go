package api

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"luxestate/media"
)

func (s *Server) handleMedia(c echo.Context) error {
	rc, path, err := s.media.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "File not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load file"})
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return c.Stream(http.StatusOK, contentType, rc)
}
