package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleberrangel/progresso-api/internal/logger"
	"github.com/cleberrangel/progresso-api/internal/model"
	"github.com/cleberrangel/progresso-api/internal/service"
	"github.com/gin-gonic/gin"
)

// maxUploadSize limita o tamanho da planilha aceita (10 MB).
const maxUploadSize = 10 << 20

// ReportHandler manipula requisições de relatório
type ReportHandler struct {
	reportService *service.ReportService
	location      *time.Location
}

// NewReportHandler cria um novo handler de relatórios
func NewReportHandler(reportService *service.ReportService, loc *time.Location) *ReportHandler {
	return &ReportHandler{reportService: reportService, location: loc}
}

// Generate recebe a planilha de acompanhamento via multipart e devolve o
// relatório em JSON. O campo opcional `now` (RFC3339) fixa o instante de
// referência, útil para reprocessar planilhas antigas.
func (h *ReportHandler) Generate(c *gin.Context) {
	log := logger.FromGin(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "arquivo ausente",
			Details: "envie a planilha no campo multipart \"file\"",
		})
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "formato não suportado",
			Details: "apenas arquivos .xlsx são aceitos",
		})
		return
	}

	now := time.Now().In(h.location)
	if raw := c.PostForm("now"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{
				Success: false,
				Error:   "campo now inválido",
				Details: "use o formato RFC3339, ex: 2025-09-18T15:00:00-03:00",
			})
			return
		}
		now = parsed.In(h.location)
	}

	log.Info().
		Str("filename", header.Filename).
		Int64("size", header.Size).
		Time("reference", now).
		Msg("Processando planilha")

	report, err := h.reportService.Generate(c.Request.Context(), file, now)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Message: "relatório gerado",
		Data:    report,
	})
}

// handleError trata erros de ingestão e retorna resposta apropriada
func (h *ReportHandler) handleError(c *gin.Context, err error) {
	log := logger.FromGin(c)
	log.Error().Err(err).Msg("Falha ao gerar relatório")

	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "arquivo não é uma planilha xlsx válida",
		})
	case errors.Is(err, service.ErrEmptySheet),
		errors.Is(err, service.ErrNoTaskHeader),
		errors.Is(err, service.ErrMissingColumn),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, service.ErrNoMembers):
		c.JSON(http.StatusUnprocessableEntity, model.ErrorResponse{
			Success: false,
			Error:   "planilha fora do layout esperado",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{
			Success: false,
			Error:   "erro interno",
			Details: err.Error(),
		})
	}
}
