package rating

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"labliq/analyzer/pkg/jsonutil"
	"labliq/analyzer/pkg/logger"
)

// Calculator 批量费率计算编排器
// 逐行驱动 区域解析 → 基础费率 → 附加费 → 加价 → 节省 的完整流水线。
// 行级失败只影响本行：结果行区域标记为 "Error" 并携带诊断信息，
// 整批计算永不中断，输出行数恒等于输入行数。
type Calculator struct {
	resolver *ZoneResolver
	rates    *RateTable
	pricer   *Pricer
	log      logger.Logger
}

// NewCalculator 创建批量计算器
func NewCalculator(matrix *ZoneMatrix, rates *RateTable, classifier *Classifier, log logger.Logger) *Calculator {
	return &Calculator{
		resolver: NewZoneResolver(matrix),
		rates:    rates,
		pricer:   NewPricer(classifier),
		log:      log,
	}
}

// CalculateRates 批量计算
// crit 为本次调用的计算条件值，调用之间互不共享
func (c *Calculator) CalculateRates(ctx context.Context, shipments []Shipment, crit Criteria) []RateResult {
	results := make([]RateResult, 0, len(shipments))
	errorRows := 0

	for i := range shipments {
		r := c.calculateOne(ctx, &shipments[i], crit)
		if r.IsError() {
			errorRows++
		}
		results = append(results, r)
	}

	c.log.Infof(ctx, "[Calculator] Calculated rates for %d shipments, %d error rows", len(results), errorRows)
	return results
}

// calculateOne 单行计算
func (c *Calculator) calculateOne(ctx context.Context, s *Shipment, crit Criteria) RateResult {
	notes := make([]string, 0, 2)

	// 1. 必填字段缺失时逐项替换默认值，并记入诊断信息
	origin := s.OriginZip
	if Normalize5(CoerceZip(origin)) == "" {
		origin = crit.OriginZip
		notes = append(notes, fmt.Sprintf("missing origin_zip, using default %s", origin))
	}

	dest := s.DestinationZip
	if Normalize5(CoerceZip(dest)) == "" {
		dest = PlaceholderDestZip
		notes = append(notes, fmt.Sprintf("missing destination_zip, using placeholder %s", dest))
	}

	// 2. 归一化包裹类型与服务等级
	pkg := CanonicalPackageType(s.PackageType)
	level := CanonicalServiceLevel(s.ServiceLevel)

	// 3. 计费重量：实际重量与体积重取大
	dimWeight := DimWeight(s.Length, s.Width, s.Height, crit.DimDivisor)
	billable := BillableWeight(s.Weight, dimWeight)
	if billable <= 0 {
		billable = 1.0
		notes = append(notes, "missing or invalid weight, using default 1.0")
	}

	// 4. 区域：调用方显式提供（>0）时直接采用，否则走矩阵解析
	zone := s.Zone
	if zone <= 0 {
		zone = c.resolver.Resolve(origin, dest, crit.OriginZip)
	}

	// 5. 基础费率（行级可恢复错误）
	baseRate, err := c.rates.BaseRate(billable, zone, pkg)
	if err != nil {
		c.log.Warnf(ctx, "[Calculator] shipment %s: %v", s.ShipmentID, err)
		notes = append(notes, err.Error())
		return c.errorResult(s, origin, dest, pkg, level, dimWeight, billable, notes)
	}

	// 6. 附加费 + 加价 + 节省
	sur := c.pricer.ApplySurcharges(baseRate, dest, crit)
	mk := c.pricer.ApplyMarkup(baseRate+sur.Total, level, crit)
	margin := c.pricer.CalcMargin(mk.FinalRate, s.CarrierRate)

	return RateResult{
		ShipmentID:      s.ShipmentID,
		OriginZip:       origin,
		DestinationZip:  dest,
		Weight:          jsonutil.Finite(s.Weight),
		DimWeight:       dimWeight,
		BillableWeight:  billable,
		PackageType:     string(pkg),
		ServiceLevel:    string(level),
		Zone:            strconv.Itoa(zone),
		BaseRate:        round2(baseRate),
		FuelSurcharge:   sur.Fuel,
		DASSurcharge:    sur.DAS,
		EDASSurcharge:   sur.EDAS,
		RemoteSurcharge: sur.Remote,
		TotalSurcharges: sur.Total,
		MarkupPct:       mk.Pct,
		MarkupAmount:    mk.Amount,
		FinalRate:       mk.FinalRate,
		CarrierRate:     jsonutil.Finite(s.CarrierRate),
		Savings:         round2(margin.Savings),
		SavingsPct:      jsonutil.Finite(margin.SavingsPct),
		Errors:          strings.Join(notes, "; "),
	}
}

// errorResult 构造计算失败行
// 回显可识别字段，区域标记为 "Error"，金额字段全部置零
func (c *Calculator) errorResult(s *Shipment, origin, dest string, pkg PackageType, level ServiceLevel, dimWeight, billable float64, notes []string) RateResult {
	return RateResult{
		ShipmentID:     s.ShipmentID,
		OriginZip:      origin,
		DestinationZip: dest,
		Weight:         jsonutil.Finite(s.Weight),
		DimWeight:      dimWeight,
		BillableWeight: billable,
		PackageType:    string(pkg),
		ServiceLevel:   string(level),
		Zone:           ZoneError,
		CarrierRate:    jsonutil.Finite(s.CarrierRate),
		Errors:         strings.Join(notes, "; "),
	}
}

// Summary 汇总统计
// 只统计成功行（区域非 "Error"）；累加对非有限值按 0 处理，绝不传播 NaN/Inf；
// savings_percent 只在 carrier_rate > 0 的行上求均值
func (c *Calculator) Summary(results []RateResult) BatchSummary {
	var sum BatchSummary
	withCarrier := 0

	for i := range results {
		r := &results[i]
		if r.IsError() {
			continue
		}

		sum.TotalShipments++
		sum.TotalBaseRate += jsonutil.Finite(r.BaseRate)
		sum.TotalSurcharges += jsonutil.Finite(r.TotalSurcharges)
		sum.TotalFinalRate += jsonutil.Finite(r.FinalRate)

		if r.CarrierRate > 0 {
			withCarrier++
			sum.TotalSavings += jsonutil.Finite(r.Savings)
			sum.AvgSavingsPct += jsonutil.Finite(r.SavingsPct)
		}
	}

	if sum.TotalShipments > 0 {
		sum.AvgBaseRate = round2(sum.TotalBaseRate / float64(sum.TotalShipments))
		sum.AvgFinalRate = round2(sum.TotalFinalRate / float64(sum.TotalShipments))
	}
	if withCarrier > 0 {
		sum.AvgSavingsPct = round2(sum.AvgSavingsPct / float64(withCarrier))
	} else {
		sum.AvgSavingsPct = 0
	}

	sum.TotalBaseRate = round2(sum.TotalBaseRate)
	sum.TotalSurcharges = round2(sum.TotalSurcharges)
	sum.TotalFinalRate = round2(sum.TotalFinalRate)
	sum.TotalSavings = round2(sum.TotalSavings)

	return sum
}
