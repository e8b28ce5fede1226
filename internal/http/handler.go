package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contract-archive/internal/http/middleware"
	"github.com/nurpe/contract-archive/internal/model"
	"github.com/nurpe/contract-archive/internal/report"
	"github.com/nurpe/contract-archive/internal/service"
)

const (
	maxBodyBytes = 2 << 20

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"

	internalErrorPage = "<h1>خطأ داخلي</h1>"
)

type Services struct {
	Collections *service.CollectionService
	Reports     *service.ReportService
	Verify      *service.VerifyService
	Auth        *service.AuthService
	Status      *service.StatusService
}

type Handler struct {
	svc       Services
	publicURL string
	log       zerolog.Logger
}

func NewHandler(svc Services, publicURL string, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, publicURL: strings.TrimRight(publicURL, "/"), log: log}
}

func (h *Handler) Register(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", h.health)
	api.GET("/db-metrics", h.dbMetrics)
	api.GET("/status-metrics", h.statusMetrics)

	api.POST("/login", h.login)
	api.POST("/logout", h.logout)

	api.GET("/backup", h.backup)
	api.POST("/restore", h.restore)

	api.GET("/verify/:id", h.verifyCertificate)
	api.GET("/verify-qr/:id", h.verifyQR)

	reports := api.Group("/reports")
	reports.GET("/dashboard", h.dashboard)
	reports.GET("/summary", h.summary)
	reports.GET("/contracts", h.searchContracts)
	reports.GET("/export", h.exportReport)

	api.GET("/contracts/:id", h.getContract)
	api.GET("/contracts/:id/document", h.contractDocument)

	api.GET("/:table", h.listTable)
	api.POST("/:table", h.saveTable)
}

func (h *Handler) health(c *gin.Context) {
	if err := h.svc.Status.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) dbMetrics(c *gin.Context) {
	metrics, err := h.svc.Status.DBMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, metrics)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) statusMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Status.Metrics())
}

func (h *Handler) listTable(c *gin.Context) {
	docs, err := h.svc.Collections.List(c.Request.Context(), c.Param("table"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) saveTable(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	result, err := h.svc.Collections.Save(c.Request.Context(), c.Param("table"), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": result.Count, "ids": result.IDs})
}

func (h *Handler) getContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doc, err := h.svc.Collections.Get(c.Request.Context(), model.TableContracts.String(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, doc)
}

func (h *Handler) contractDocument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.svc.Verify.Document(c.Request.Context(), h.baseURL(c), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypePDF, result.Content)
}

func (h *Handler) backup(c *gin.Context) {
	tables, err := h.svc.Collections.Backup(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *Handler) restore(c *gin.Context) {
	body, ok := h.readBody(c)
	if !ok {
		return
	}
	tables, err := h.svc.Collections.Restore(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.log.Info().
		Str("request_id", middleware.GetRequestID(c)).
		Str("actor", middleware.ActorName(c)).
		Strs("tables", tables).
		Msg("restore applied")
	c.JSON(http.StatusOK, gin.H{"ok": true, "tables": tables})
}

func (h *Handler) verifyCertificate(c *gin.Context) {
	// unknown or malformed ids both get the branded not-found page
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	result, err := h.svc.Verify.Certificate(c.Request.Context(), id)
	if err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("render verification page failed")
		c.Data(http.StatusInternalServerError, contentTypeHTML, []byte(internalErrorPage))
		return
	}
	status := http.StatusOK
	if !result.Found {
		status = http.StatusNotFound
	}
	c.Data(status, contentTypeHTML, result.HTML)
}

func (h *Handler) verifyQR(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusFound, h.svc.Verify.QRImageURL(h.baseURL(c), id))
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.svc.Auth.Login(c.Request.Context(), strings.TrimSpace(req.Phone), req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.svc.Auth.Logout(c.Request.Context(), middleware.ActorName(c)); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.svc.Reports.Dashboard(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) summary(c *gin.Context) {
	summary, err := h.svc.Reports.Summary(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) searchContracts(c *gin.Context) {
	archived, _ := strconv.ParseBool(c.DefaultQuery("archived", "false"))
	contracts, err := h.svc.Reports.Search(c.Request.Context(), report.Criteria{
		Search:       strings.TrimSpace(c.Query("q")),
		Type:         c.Query("type"),
		Status:       model.ContractStatus(c.Query("status")),
		ShowArchived: archived,
		PartyName:    strings.TrimSpace(c.Query("party")),
		IDNumber:     strings.TrimSpace(c.Query("idNumber")),
		DateFrom:     c.Query("from"),
		DateTo:       c.Query("to"),
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *Handler) exportReport(c *gin.Context) {
	result, err := h.svc.Reports.Export(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypeXLSX, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTable), errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return body, true
}

// baseURL is the public origin used in verification links.
func (h *Handler) baseURL(c *gin.Context) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
