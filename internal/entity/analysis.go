package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Analysis 费率分析实体（包含计算结果）
type Analysis struct {
	// 基础字段
	ID            string `gorm:"column:id;primaryKey;type:varchar(64)"`
	RequestID     string `gorm:"column:request_id;type:varchar(64);index:idx_request_id"`
	ShipmentCount int    `gorm:"column:shipment_count;not null"`

	// 请求数据
	RawData datatypes.JSON `gorm:"column:shipments;type:json;not null"`

	// 分析状态与结果
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:'PENDING';index:idx_status"`
	Results      datatypes.JSON `gorm:"column:results;type:json"`
	Summary      datatypes.JSON `gorm:"column:summary;type:json"`
	ErrorMessage string         `gorm:"column:error_message;type:varchar(1024)"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Analysis) TableName() string {
	return "analyses"
}
