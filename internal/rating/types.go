package rating

import (
	"regexp"
	"strings"
)

// PackageType 包裹类型（封闭枚举）
type PackageType string

const (
	PackageBox      PackageType = "box"
	PackageEnvelope PackageType = "envelope"
	PackagePak      PackageType = "pak"
	PackageCustom   PackageType = "custom"
)

// ServiceLevel 服务等级（封闭枚举）
type ServiceLevel string

const (
	ServiceStandard  ServiceLevel = "standard"
	ServiceExpedited ServiceLevel = "expedited"
	ServicePriority  ServiceLevel = "priority"
	ServiceNextDay   ServiceLevel = "next_day"
)

// serviceLevelAliases 服务等级同义词表
// 未识别的输入统一回落到 standard
var serviceLevelAliases = map[ServiceLevel][]string{
	ServiceStandard:  {"standard", "std", "regular", "ground", "normal", "basic", "economy", "eco"},
	ServiceExpedited: {"expedited", "exp", "express", "2day", "2-day", "second day", "2nd day", "two day", "2 day", "fast", "quick", "rapid"},
	ServicePriority:  {"priority", "prio", "3day", "3-day", "third day", "3rd day", "three day", "3 day"},
	ServiceNextDay:   {"next day", "next-day", "overnight", "next", "1day", "1-day", "first day", "1st day", "one day", "1 day", "nextday", "urgent", "same day"},
}

// packageTypeAliases 包裹类型同义词表
// 未识别的输入统一回落到 box
var packageTypeAliases = map[PackageType][]string{
	PackageBox:      {"box", "pkg", "package", "parcel", "carton"},
	PackageEnvelope: {"envelope", "env", "letter", "flat", "document"},
	PackagePak:      {"pak", "pack", "polybag", "poly", "bag"},
	PackageCustom:   {"custom", "other", "irregular"},
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

// CanonicalServiceLevel 服务等级归一化
// 先精确匹配同义词，再做去符号的模糊匹配，都不命中时回落 standard
func CanonicalServiceLevel(raw string) ServiceLevel {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ServiceStandard
	}

	for level, aliases := range serviceLevelAliases {
		for _, alias := range aliases {
			if s == alias {
				return level
			}
		}
	}

	// 模糊匹配：去掉非字母数字字符后做包含比较
	norm := nonAlnumRe.ReplaceAllString(s, "")
	if norm != "" {
		for level, aliases := range serviceLevelAliases {
			for _, alias := range aliases {
				aliasNorm := nonAlnumRe.ReplaceAllString(alias, "")
				if aliasNorm == "" {
					continue
				}
				if strings.Contains(norm, aliasNorm) || strings.Contains(aliasNorm, norm) {
					return level
				}
			}
		}
	}

	return ServiceStandard
}

// CanonicalPackageType 包裹类型归一化
func CanonicalPackageType(raw string) PackageType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return PackageBox
	}

	for pkg, aliases := range packageTypeAliases {
		for _, alias := range aliases {
			if s == alias {
				return pkg
			}
		}
	}

	return PackageBox
}

// Shipment 单个货件输入
type Shipment struct {
	ShipmentID     string  `json:"shipment_id"`
	OriginZip      string  `json:"origin_zip"`
	DestinationZip string  `json:"destination_zip"`
	Weight         float64 `json:"weight"`          // 实际重量（磅）
	Length         float64 `json:"length"`          // 英寸
	Width          float64 `json:"width"`           // 英寸
	Height         float64 `json:"height"`          // 英寸
	PackageType    string  `json:"package_type"`    // 归一化前的原始值
	ServiceLevel   string  `json:"service_level"`   // 归一化前的原始值
	Zone           int     `json:"zone,omitempty"`  // 显式区域（0 表示未提供，走矩阵解析）
	CarrierRate    float64 `json:"carrier_rate"`    // 当前承运商费率（对比基准，0 表示未提供）
}

// ZoneError 计算失败行的区域标记
const ZoneError = "Error"

// RateResult 单个货件的计算结果
type RateResult struct {
	ShipmentID      string  `json:"shipment_id"`
	OriginZip       string  `json:"origin_zip"`
	DestinationZip  string  `json:"destination_zip"`
	Weight          float64 `json:"weight"`
	DimWeight       float64 `json:"dim_weight"`
	BillableWeight  float64 `json:"billable_weight"`
	PackageType     string  `json:"package_type"`
	ServiceLevel    string  `json:"service_level"`
	Zone            string  `json:"zone"` // "1".."8"，失败行为 "Error"
	BaseRate        float64 `json:"base_rate"`
	FuelSurcharge   float64 `json:"fuel_surcharge"`
	DASSurcharge    float64 `json:"das_surcharge"`
	EDASSurcharge   float64 `json:"edas_surcharge"`
	RemoteSurcharge float64 `json:"remote_surcharge"`
	TotalSurcharges float64 `json:"total_surcharges"`
	MarkupPct       float64 `json:"markup_percentage"`
	MarkupAmount    float64 `json:"markup_amount"`
	FinalRate       float64 `json:"final_rate"`
	CarrierRate     float64 `json:"carrier_rate"`
	Savings         float64 `json:"savings"`
	SavingsPct      float64 `json:"savings_percent"`
	Errors          string  `json:"errors"` // 诊断信息（成功且无替换时为空）
}

// IsError 判断是否为计算失败行
func (r *RateResult) IsError() bool {
	return r.Zone == ZoneError
}

// BatchSummary 批量计算汇总统计
// 仅统计成功行；savings_percent 仅对 carrier_rate > 0 的行求均值
type BatchSummary struct {
	TotalShipments  int     `json:"total_shipments"`
	TotalBaseRate   float64 `json:"total_base_rate"`
	TotalSurcharges float64 `json:"total_surcharges"`
	TotalFinalRate  float64 `json:"total_final_rate"`
	TotalSavings    float64 `json:"total_savings"`
	AvgBaseRate     float64 `json:"avg_base_rate"`
	AvgFinalRate    float64 `json:"avg_final_rate"`
	AvgSavingsPct   float64 `json:"avg_savings_percent"`
}
