package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"labliq/analyzer/internal/business"
	"labliq/analyzer/internal/refdata"
	"labliq/analyzer/pkg/ginx"
	"labliq/analyzer/pkg/infra/mysql"
	"labliq/analyzer/pkg/jsonutil"
	"labliq/analyzer/pkg/logger"
)

// AnalysisHandler 费率分析接口处理器
type AnalysisHandler struct {
	service *business.AnalysisService
	dao     *mysql.AnalysisDAO
	store   *refdata.Store
	log     logger.Logger
}

func NewAnalysisHandler(service *business.AnalysisService, dao *mysql.AnalysisDAO, store *refdata.Store, log logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		dao:     dao,
		store:   store,
		log:     log,
	}
}

// Preview 同步批量计算（不落库、不发通知），用于小批量即时对比
// POST /api/v1/analyses/preview
func (h *AnalysisHandler) Preview(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	output, err := h.service.Preview(c.Request.Context(), req.ToShipments(), req.Overrides)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "preview failed: %v", err)
		ginx.InternalError(c, "rate preview failed")
		return
	}

	ginx.Success(c, output)
}

// Create 提交异步分析任务，立即返回 202 和轮询地址
// POST /api/v1/analyses
func (h *AnalysisHandler) Create(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	analysisID, err := h.service.Submit(c.Request.Context(), requestID, req.ToShipments(), req.Overrides)
	if err != nil {
		h.log.Errorf(c.Request.Context(), "submit analysis failed: request_id=%s, err=%v", requestID, err)
		ginx.InternalError(c, "failed to submit analysis")
		return
	}

	h.log.Infof(c.Request.Context(), "analysis submitted: request_id=%s, analysis_id=%s, shipments=%d",
		requestID, analysisID, len(req.Shipments))
	ginx.Accepted(c, analysisID, "/api/v1/analyses/"+analysisID)
}

// AnalysisDetail 分析详情响应
type AnalysisDetail struct {
	AnalysisID    string      `json:"analysis_id"`
	RequestID     string      `json:"request_id"`
	Status        string      `json:"status"`
	ShipmentCount int         `json:"shipment_count"`
	Results       interface{} `json:"results,omitempty"`
	Summary       interface{} `json:"summary,omitempty"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// Get 查询分析状态与结果
// GET /api/v1/analyses/:id
func (h *AnalysisHandler) Get(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		ginx.BadRequest(c, "analysis id is required")
		return
	}

	record, err := h.dao.GetByID(c.Request.Context(), analysisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ginx.NotFound(c, "analysis not found")
			return
		}
		h.log.Errorf(c.Request.Context(), "get analysis failed: analysis_id=%s, err=%v", analysisID, err)
		ginx.InternalError(c, "failed to get analysis")
		return
	}

	detail := &AnalysisDetail{
		AnalysisID:    record.ID,
		RequestID:     record.RequestID,
		Status:        record.Status,
		ShipmentCount: record.ShipmentCount,
		ErrorMessage:  record.ErrorMessage,
		CreatedAt:     record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:     record.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	// JSON 列可能包含历史写入的 NaN/Inf 字符串表示，返回前统一清洗
	if len(record.Results) > 0 {
		var results interface{}
		if err := json.Unmarshal(record.Results, &results); err == nil {
			detail.Results = jsonutil.Sanitize(results)
		}
	}
	if len(record.Summary) > 0 {
		var summary interface{}
		if err := json.Unmarshal(record.Summary, &summary); err == nil {
			detail.Summary = jsonutil.Sanitize(summary)
		}
	}

	ginx.Success(c, detail)
}

// Health 健康检查，附带参考数据版本
// GET /health
func (h *AnalysisHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"refdata_version": h.store.Version(),
	})
}
