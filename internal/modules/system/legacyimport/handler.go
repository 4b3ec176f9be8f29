package legacyimport

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/dwellio/core/internal/middleware"
	"github.com/dwellio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ importer *Importer }

func NewHandler(importer *Importer) *Handler { return &Handler{importer: importer} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/import", authMW, middleware.RequireAdmin())
	g.POST("/legacy", h.importLegacy)
}

// POST /import/legacy
//
// Accepts a mongodump ZIP either as the multipart field "file" or as
// the raw request body.
func (h *Handler) importLegacy(c *gin.Context) {
	data, err := readArchive(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		response.BadRequest(c, "not a valid zip archive")
		return
	}

	report, err := h.importer.Run(c.Request.Context(), zr)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, report)
}

func readArchive(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}
