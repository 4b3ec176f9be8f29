package preset

import (
	"github.com/dwellio/core/internal/middleware"
	"github.com/dwellio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/appearance/presets", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.get)

	admin := g.Group("", middleware.RequireAdmin())
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.remove)
	admin.POST("/:id/apply", h.apply)
}

// GET /appearance/presets
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, items)
}

// GET /appearance/presets/:id
func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, m)
}

// POST /appearance/presets
func (h *Handler) create(c *gin.Context) {
	var dto CreatePresetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(c.Request.Context(), &dto, middleware.CurrentUserID(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, m)
}

// PUT /appearance/presets/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePresetDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, m)
}

// DELETE /appearance/presets/:id
func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.DomainError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /appearance/presets/:id/apply
func (h *Handler) apply(c *gin.Context) {
	cfg, err := h.svc.Apply(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, cfg)
}
