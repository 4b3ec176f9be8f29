package contextual

import (
	"github.com/dwellio/core/internal/middleware"
	"github.com/dwellio/core/internal/models"
	"github.com/dwellio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	store    *Store
	resolver *Resolver
}

func NewHandler(store *Store, resolver *Resolver) *Handler {
	return &Handler{store: store, resolver: resolver}
}

// RegisterRoutes wires the resolution endpoint (open, tokens optional)
// and the scope management endpoints (authenticated).
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalMW gin.HandlerFunc) {
	rg.GET("/appearance", optionalMW, h.resolveCurrent)
	rg.GET("/appearance/resolve", authMW, middleware.RequireAdmin(), h.resolveFor)

	g := rg.Group("/appearance/contexts", authMW)
	g.GET("", h.findActive)
	g.GET("/all", h.listForScope)
	g.POST("", h.save)
	g.POST("/deactivate", h.deactivate)
	g.DELETE("/:id", middleware.RequireAdmin(), h.remove)
}

// GET /appearance
//
// Resolves the effective configuration for the caller. Anonymous
// requests walk straight to the global scope and the portal default.
func (h *Handler) resolveCurrent(c *gin.Context) {
	res, err := h.resolver.Resolve(c.Request.Context(),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), middleware.CurrentOrgID(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, res)
}

// GET /appearance/resolve?user_id=&role=&org=
//
// Admin preview of what an arbitrary subject would see.
func (h *Handler) resolveFor(c *gin.Context) {
	res, err := h.resolver.Resolve(c.Request.Context(),
		c.Query("user_id"), c.Query("role"), c.Query("org"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, res)
}

// GET /appearance/contexts?type=&id=
func (h *Handler) findActive(c *gin.Context) {
	scope, ok := h.boundScope(c)
	if !ok {
		return
	}
	m, err := h.store.FindActive(c.Request.Context(), scope)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	if m == nil {
		response.NotFoundMsg(c, "no active configuration for scope "+scope.String())
		return
	}
	response.OK(c, m)
}

// GET /appearance/contexts/all?type=&id=
func (h *Handler) listForScope(c *gin.Context) {
	scope, ok := h.boundScope(c)
	if !ok {
		return
	}
	items, err := h.store.ListForScope(c.Request.Context(), scope)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, items)
}

// POST /appearance/contexts
func (h *Handler) save(c *gin.Context) {
	var dto SaveContextDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scope := models.ConfigContext{ScopeType: dto.ScopeType, ScopeID: dto.ScopeID}
	if !canWriteScope(c, scope) {
		response.Forbidden(c)
		return
	}
	m, err := h.store.Save(c.Request.Context(), &dto, middleware.CurrentUserID(c))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Created(c, m)
}

// POST /appearance/contexts/deactivate
func (h *Handler) deactivate(c *gin.Context) {
	var dto ScopeQueryDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	scope := dto.Context()
	if !canWriteScope(c, scope) {
		response.Forbidden(c)
		return
	}
	n, err := h.store.DeactivateScope(c.Request.Context(), scope)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, gin.H{"deactivated": n})
}

// DELETE /appearance/contexts/:id
func (h *Handler) remove(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.DomainError(c, err)
		return
	}
	response.NoContent(c)
}

// boundScope parses the scope from query params and enforces the read
// policy: users read their own scope, admins read any.
func (h *Handler) boundScope(c *gin.Context) (models.ConfigContext, bool) {
	var dto ScopeQueryDTO
	if err := c.ShouldBindQuery(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return models.ConfigContext{}, false
	}
	scope := dto.Context()
	if err := scope.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return models.ConfigContext{}, false
	}
	if !middleware.IsAdmin(c) && !isOwnUserScope(c, scope) {
		response.Forbidden(c)
		return models.ConfigContext{}, false
	}
	return scope, true
}

// canWriteScope enforces the write policy: a user scope is writable by
// that user or an admin; role, organization and global scopes are
// admin-only.
func canWriteScope(c *gin.Context, scope models.ConfigContext) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	return isOwnUserScope(c, scope)
}

func isOwnUserScope(c *gin.Context, scope models.ConfigContext) bool {
	return scope.ScopeType == models.ScopeUser && scope.ScopeID == middleware.CurrentUserID(c)
}
