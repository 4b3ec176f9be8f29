package theme

import (
	"github.com/dwellio/core/internal/middleware"
	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ store *Store }

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/appearance/configs", authMW, middleware.RequireAdmin())
	g.GET("", h.list)
	g.POST("", h.save)
	g.GET("/active", h.getActive)
	g.GET("/:id", h.getByID)
	g.PATCH("/:id", h.updatePartial)
	g.DELETE("/:id", h.remove)
	g.PUT("/:id/active", h.setActive)
}

// GET /appearance/configs
func (h *Handler) list(c *gin.Context) {
	items, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, items)
}

// POST /appearance/configs
func (h *Handler) save(c *gin.Context) {
	var dto SaveConfigDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	cfg := &models.InterfaceConfigModel{IsActive: dto.IsActive, CreatedBy: middleware.CurrentUserID(c)}
	cfg.ID = dto.ID
	cfg.SetDocument(dto.Config)

	saved, err := h.store.Save(c.Request.Context(), cfg, middleware.CurrentUserID(c), dto.Description)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, saved)
}

// GET /appearance/configs/active
func (h *Handler) getActive(c *gin.Context) {
	m, err := h.store.GetActive(c.Request.Context())
	if err != nil {
		response.DomainError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "no active configuration")
		return
	}
	response.OK(c, m)
}

// GET /appearance/configs/:id
func (h *Handler) getByID(c *gin.Context) {
	m, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, m)
}

// PATCH /appearance/configs/:id
func (h *Handler) updatePartial(c *gin.Context) {
	var patch ConfigPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.store.UpdatePartial(c.Request.Context(), c.Param("id"), &patch, middleware.CurrentUserID(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, m)
}

// DELETE /appearance/configs/:id
func (h *Handler) remove(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.DomainError(c, err)
		return
	}
	response.NoContent(c)
}

// PUT /appearance/configs/:id/active
func (h *Handler) setActive(c *gin.Context) {
	found, err := h.store.SetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	if !found {
		response.NotFoundMsg(c, "configuration not found")
		return
	}
	response.OK(c, gin.H{"activated": true})
}
