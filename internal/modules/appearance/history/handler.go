package history

import (
	"fmt"
	"strconv"

	"github.com/dwellio/core/internal/pkg/pagination"
	"github.com/dwellio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ store *Store }

func NewHandler(store *Store) *Handler { return &Handler{store: store} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/appearance/history", authMW)
	g.GET("", h.list)
	g.GET("/:configId", h.listForConfig)
}

// GET /appearance/history?page=&size=
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	items, pag, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

// GET /appearance/history/:configId?limit=
func (h *Handler) listForConfig(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := parsePositive(raw); err == nil {
			limit = v
		}
	}
	items, err := h.store.ListForConfig(c.Request.Context(), c.Param("configId"), limit)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.OK(c, items)
}

func parsePositive(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive: %d", v)
	}
	return v, nil
}
