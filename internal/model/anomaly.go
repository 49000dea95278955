package model

// AnomalyResult 输入异常检测结果
type AnomalyResult struct {
	HasRisk bool          `json:"has_risk"`
	Issues  []AnomalyItem `json:"issues"`
}

// AnomalyItem 单条异常
type AnomalyItem struct {
	Type    string `json:"type"`    // 异常类型（如 MISSING_DESTINATION）
	Level   string `json:"level"`   // CRITICAL / WARNING
	Message string `json:"message"` // 人类可读描述
}

// 异常级别常量
const (
	AnomalyLevelCritical = "CRITICAL"
	AnomalyLevelWarning  = "WARNING"
)
