package mysql

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"labliq/analyzer/internal/entity"
	"labliq/analyzer/internal/model"
	"labliq/analyzer/internal/rating"
)

// AnalysisDAO 分析记录数据访问对象
type AnalysisDAO struct {
	db *gorm.DB
}

// NewAnalysisDAO 创建 AnalysisDAO 实例
func NewAnalysisDAO(dsn string) (*AnalysisDAO, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &AnalysisDAO{
		db: db,
	}, nil
}

// Create 创建分析记录（状态 PENDING）
func (dao *AnalysisDAO) Create(ctx context.Context, analysisID, requestID string, shipments []rating.Shipment) (*entity.Analysis, error) {
	rawJSON, err := json.Marshal(shipments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipments: %w", err)
	}

	record := &entity.Analysis{
		ID:            analysisID,
		RequestID:     requestID,
		ShipmentCount: len(shipments),
		RawData:       rawJSON,
		Status:        model.AnalysisStatusPending,
	}

	if err := dao.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}

	return record, nil
}

// MarkProcessing 将分析记录标记为处理中
func (dao *AnalysisDAO) MarkProcessing(ctx context.Context, analysisID string) error {
	result := dao.db.WithContext(ctx).
		Model(&entity.Analysis{}).
		Where("id = ? AND status = ?", analysisID, model.AnalysisStatusPending).
		Update("status", model.AnalysisStatusProcessing)

	if result.Error != nil {
		return fmt.Errorf("failed to mark analysis processing: %w", result.Error)
	}

	// 重复投递的消息会落到这里：记录已不在 PENDING，按幂等处理
	return nil
}

// UpdateResult 写入分析结果
// 参数：
//   - analysisID: 分析 ID
//   - results: 逐行计算结果
//   - summary: 汇总统计
//   - status: 终态（COMPLETED/FAILED）
//   - errorMsg: 错误消息（失败时）
func (dao *AnalysisDAO) UpdateResult(
	ctx context.Context,
	analysisID string,
	results []rating.RateResult,
	summary *rating.BatchSummary,
	status string,
	errorMsg string,
) error {
	updates := map[string]interface{}{
		"status": status,
	}

	if results != nil {
		resultsJSON, err := json.Marshal(results)
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		updates["results"] = resultsJSON
	}

	if summary != nil {
		summaryJSON, err := json.Marshal(summary)
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		updates["summary"] = summaryJSON
	}

	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}

	result := dao.db.WithContext(ctx).
		Model(&entity.Analysis{}).
		Where("id = ?", analysisID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found: %s", analysisID)
	}

	return nil
}

// GetByID 根据分析 ID 获取分析记录
func (dao *AnalysisDAO) GetByID(ctx context.Context, analysisID string) (*entity.Analysis, error) {
	var record entity.Analysis
	result := dao.db.WithContext(ctx).Where("id = ?", analysisID).First(&record)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", result.Error)
	}
	return &record, nil
}

// Close 关闭数据库连接
func (dao *AnalysisDAO) Close() error {
	sqlDB, err := dao.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
