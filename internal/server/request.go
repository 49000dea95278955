package server

import (
	"fmt"

	"labliq/analyzer/internal/rating"
)

// AnalyzeRequest 批量费率分析请求
type AnalyzeRequest struct {
	Shipments []ShipmentRequest `json:"shipments" binding:"required,min=1,dive"`
	Overrides *rating.Overrides `json:"overrides"`
}

// ShipmentRequest 单个货件
// ZIP 字段接收任意 JSON 标量：上游导出常把 ZIP 写成数字并丢掉前导零
type ShipmentRequest struct {
	ShipmentID     string      `json:"shipment_id"`
	OriginZip      interface{} `json:"origin_zip"`
	DestinationZip interface{} `json:"destination_zip"`
	Weight         float64     `json:"weight"`
	WeightUnit     string      `json:"weight_unit"` // lb（默认）/ oz / g / kg
	Length         float64     `json:"length"`
	Width          float64     `json:"width"`
	Height         float64     `json:"height"`
	PackageType    string      `json:"package_type"`
	ServiceLevel   string      `json:"service_level"`
	Zone           int         `json:"zone"`         // 显式区域（可选，0 表示走矩阵解析）
	CarrierRate    float64     `json:"carrier_rate"` // 当前承运商费率（对比基准）
}

// ToShipments 转换为计算引擎输入
func (r *AnalyzeRequest) ToShipments() []rating.Shipment {
	shipments := make([]rating.Shipment, 0, len(r.Shipments))
	for i, s := range r.Shipments {
		shipmentID := s.ShipmentID
		if shipmentID == "" {
			shipmentID = generateShipmentID(i)
		}

		shipments = append(shipments, rating.Shipment{
			ShipmentID:     shipmentID,
			OriginZip:      rating.CoerceZip(s.OriginZip),
			DestinationZip: rating.CoerceZip(s.DestinationZip),
			Weight:         rating.ToPounds(s.Weight, s.WeightUnit),
			Length:         s.Length,
			Width:          s.Width,
			Height:         s.Height,
			PackageType:    s.PackageType,
			ServiceLevel:   s.ServiceLevel,
			Zone:           s.Zone,
			CarrierRate:    s.CarrierRate,
		})
	}
	return shipments
}

func generateShipmentID(index int) string {
	return fmt.Sprintf("row_%d", index+1)
}
