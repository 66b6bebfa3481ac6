package handler

import (
	"net/http"
	"strconv"

	"github.com/cleberrangel/progresso-api/internal/logger"
	"github.com/cleberrangel/progresso-api/internal/model"
	"github.com/cleberrangel/progresso-api/internal/repository"
	"github.com/gin-gonic/gin"
)

// HistoryHandler expõe o histórico de relatórios persistidos.
type HistoryHandler struct {
	repo *repository.HistoryRepository
}

// NewHistoryHandler cria o handler de histórico.
func NewHistoryHandler(repo *repository.HistoryRepository) *HistoryHandler {
	return &HistoryHandler{repo: repo}
}

// List devolve os relatórios mais recentes. Aceita `limit` na query.
func (h *HistoryHandler) List(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Error:   "limit inválido",
			})
			return
		}
		limit = parsed
	}

	snapshots, err := h.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.FromGin(c).Error().Err(err).Msg("Falha ao consultar histórico")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao consultar histórico",
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    snapshots,
	})
}

// Get devolve um relatório completo pelo ID.
func (h *HistoryHandler) Get(c *gin.Context) {
	id := c.Param("id")

	snapshot, err := h.repo.GetReport(c.Request.Context(), id)
	if err != nil {
		logger.FromGin(c).Error().Err(err).Str("report_id", id).Msg("Falha ao consultar relatório")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro ao consultar relatório",
		})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Error:   "relatório não encontrado",
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    snapshot,
	})
}
