package business

import (
	"context"
	"fmt"

	"labliq/analyzer/internal/model"
	"labliq/analyzer/internal/rating"
)

// 数据质量规则阈值
const (
	maxBillableWeightLb = 150.0 // 超过即视为超重（费率表末档兜底，价格会失真）
	missingDestRatio    = 0.5   // 目的地缺失占比告警线
)

// AnomalyChecker 输入异常检测器（规则引擎）
// 在计算前对整批货件做数据质量扫描，结果随分析记录一起返回；
// 只产生告警，不阻断计算
type AnomalyChecker struct{}

// NewAnomalyChecker 创建异常检测器实例
func NewAnomalyChecker() *AnomalyChecker {
	return &AnomalyChecker{}
}

// Check 执行异常检测（基于固定规则）
func (c *AnomalyChecker) Check(ctx context.Context, shipments []rating.Shipment) (*model.AnomalyResult, error) {
	issues := make([]model.AnomalyItem, 0)

	// 规则 1：空批次
	if len(shipments) == 0 {
		issues = append(issues, model.AnomalyItem{
			Type:    "EMPTY_BATCH",
			Level:   model.AnomalyLevelCritical,
			Message: "No shipments in batch",
		})

		return &model.AnomalyResult{
			HasRisk: true,
			Issues:  issues,
		}, nil
	}

	missingDest := 0
	for i := range shipments {
		s := &shipments[i]

		// 规则 2：目的地缺失（逐行计数，整批超阈值再告警）
		if rating.Normalize5(rating.CoerceZip(s.DestinationZip)) == "" {
			missingDest++
		}

		// 规则 3：重量非法（计算时会替换为默认值 1.0，价格会失真）
		if s.Weight < 0 {
			issues = append(issues, model.AnomalyItem{
				Type:    "NEGATIVE_WEIGHT",
				Level:   model.AnomalyLevelCritical,
				Message: fmt.Sprintf("Shipment %s has negative weight %.2f", s.ShipmentID, s.Weight),
			})
		}

		// 规则 4：超重（超过费率表覆盖范围，按末档计费）
		if s.Weight > maxBillableWeightLb {
			issues = append(issues, model.AnomalyItem{
				Type:    "HEAVY_PACKAGE",
				Level:   model.AnomalyLevelWarning,
				Message: fmt.Sprintf("Shipment %s weight %.2f lb exceeds rate table coverage", s.ShipmentID, s.Weight),
			})
		}
	}

	if ratio := float64(missingDest) / float64(len(shipments)); ratio >= missingDestRatio {
		issues = append(issues, model.AnomalyItem{
			Type:    "MISSING_DESTINATIONS",
			Level:   model.AnomalyLevelWarning,
			Message: fmt.Sprintf("%d of %d shipments missing destination ZIP, placeholder rates will be used", missingDest, len(shipments)),
		})
	}

	return &model.AnomalyResult{
		HasRisk: len(issues) > 0,
		Issues:  issues,
	}, nil
}
