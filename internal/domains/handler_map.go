package domains

import (
	"labliq/analyzer/internal/domains/common"
	"labliq/analyzer/internal/domains/handlers/analysis"
	"labliq/analyzer/internal/model"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionTypeRateAnalysis: analysis.NewAnalyzeHandler,

	// 未来扩展示例：
	// "rate_audit": audit.NewAuditHandler,
}
