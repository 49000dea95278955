package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"labliq/analyzer/internal/business"
	"labliq/analyzer/internal/domains/common"
	"labliq/analyzer/internal/domains/common/job"
	"labliq/analyzer/internal/domains/common/response"
	"labliq/analyzer/internal/model"
)

// AnalyzeHandler 费率分析 Handler
type AnalyzeHandler struct {
	ctx     context.Context
	meta    *job.Meta
	bizData *model.RateAnalysisBusinessData
}

// NewAnalyzeHandler 创建分析 Handler
// 解析标准化 Job 消息
func NewAnalyzeHandler(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
	// 解析 payload（业务数据）
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var bizData model.RateAnalysisBusinessData
	if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
		return nil, fmt.Errorf("unmarshal business data failed: %w", err)
	}

	// 校验必填字段
	if bizData.AnalysisID == "" {
		bizData.AnalysisID = meta.ID
	}
	if bizData.AnalysisID == "" {
		return nil, fmt.Errorf("analysis_id is required")
	}
	if len(bizData.Shipments) == 0 {
		return nil, fmt.Errorf("shipments is required")
	}

	return &AnalyzeHandler{
		ctx:     ctx,
		meta:    meta,
		bizData: &bizData,
	}, nil
}

// GetProcess 处理分析请求
func (h *AnalyzeHandler) GetProcess() *response.Response {
	// 创建结果
	result := response.NewAnalysisResult()

	// 处理业务逻辑
	err := h.process()

	// 包装响应
	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// process 业务处理逻辑
func (h *AnalyzeHandler) process() error {
	// 从 Context 获取 AnalysisService
	analysisService, ok := h.ctx.Value("analysis_service").(*business.AnalysisService)
	if !ok || analysisService == nil {
		return fmt.Errorf("AnalysisService not found in context")
	}

	// 构造分析输入
	input := &business.AnalysisInput{
		RequestID:  h.meta.RequestID,
		AnalysisID: h.bizData.AnalysisID,
		Shipments:  h.bizData.Shipments,
		Overrides:  h.bizData.Overrides,
	}

	// 执行分析并发送回调
	return analysisService.ExecuteAnalysis(h.ctx, input)
}
