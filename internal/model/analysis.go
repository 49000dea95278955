package model

import "labliq/analyzer/internal/rating"

// ActionTypeRateAnalysis 费率分析任务的路由键
const ActionTypeRateAnalysis = "rate_analysis"

// 分析记录状态机：PENDING → PROCESSING → COMPLETED / FAILED
const (
	AnalysisStatusPending    = "PENDING"
	AnalysisStatusProcessing = "PROCESSING"
	AnalysisStatusCompleted  = "COMPLETED"
	AnalysisStatusFailed     = "FAILED"
)

// RateAnalysisJob 费率分析任务消息（标准化）
// 用于 apiserver → worker 的消息传递
type RateAnalysisJob struct {
	Payload RateAnalysisPayload `json:"payload"`
}

// RateAnalysisPayload Job 负载
type RateAnalysisPayload struct {
	Data RateAnalysisData `json:"data"`
}

// RateAnalysisData Job 数据层
type RateAnalysisData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（MVP 固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "rate_analysis"
	ID         string `json:"id"`          // 分析 ID

	// 业务数据
	Data RateAnalysisBusinessData `json:"data"`
}

// RateAnalysisBusinessData 费率分析业务数据
// 包含 worker 执行分析所需的全部数据（避免回查 DB）
type RateAnalysisBusinessData struct {
	AnalysisID string             `json:"analysis_id"`         // 分析 ID
	Shipments  []rating.Shipment  `json:"shipments"`           // 待分析货件
	Overrides  *rating.Overrides  `json:"overrides,omitempty"` // 请求级计算条件覆盖
}

// RateAnalysisCallback 费率分析回调消息（标准化）
// 用于 worker → 回调队列消费方的消息传递
type RateAnalysisCallback struct {
	RequestID   string               `json:"request_id"`        // 对应请求的 request_id（链路追踪）
	AnalysisID  string               `json:"analysis_id"`       // 分析 ID
	Status      string               `json:"status"`            // 回调状态: SUCCESS / FAILED
	Results     []rating.RateResult  `json:"results,omitempty"` // 逐行计算结果（成功时返回）
	Summary     *rating.BatchSummary `json:"summary,omitempty"` // 汇总统计（成功时返回）
	Warnings    []string             `json:"warnings,omitempty"`
	Error       string               `json:"error,omitempty"` // 错误信息（失败时返回）
	ProcessedAt int64                `json:"processed_at"`    // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS"
	CallbackStatusFailed  = "FAILED"
)
