package rating

import (
	"context"
	"math"
	"strings"
	"testing"

	"labliq/analyzer/pkg/logger"
)

func testCalculator() *Calculator {
	return NewCalculator(testMatrix(), testRateTable(), testClassifier(), logger.NopLogger{})
}

func TestCalculateRatesWorkedExample(t *testing.T) {
	calc := testCalculator()
	crit := DefaultCriteria() // 燃油 16%，全局加价 10%

	results := calc.CalculateRates(context.Background(), []Shipment{{
		ShipmentID:     "S1",
		OriginZip:      "10001",
		DestinationZip: "90210",
		Weight:         3,
		PackageType:    "box",
		ServiceLevel:   "standard",
		Zone:           2,
		CarrierRate:    12.00,
	}}, crit)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]

	if r.Zone != "2" {
		t.Errorf("Zone = %s, want 2", r.Zone)
	}
	if r.BaseRate != 5.00 {
		t.Errorf("BaseRate = %.2f, want 5.00", r.BaseRate)
	}
	if r.FuelSurcharge != 0.80 {
		t.Errorf("FuelSurcharge = %.2f, want 0.80", r.FuelSurcharge)
	}
	if r.TotalSurcharges != 0.80 {
		t.Errorf("TotalSurcharges = %.2f, want 0.80", r.TotalSurcharges)
	}
	if r.MarkupAmount != 0.58 {
		t.Errorf("MarkupAmount = %.2f, want 0.58", r.MarkupAmount)
	}
	if r.FinalRate != 6.38 {
		t.Errorf("FinalRate = %.2f, want 6.38", r.FinalRate)
	}
	if r.Savings != 5.62 {
		t.Errorf("Savings = %.2f, want 5.62", r.Savings)
	}
	if math.Abs(r.SavingsPct-46.8333) > 0.001 {
		t.Errorf("SavingsPct = %.4f, want ~46.8333", r.SavingsPct)
	}
	if r.Errors != "" {
		t.Errorf("Errors = %q, want empty", r.Errors)
	}
}

func TestCalculateRatesDefaults(t *testing.T) {
	calc := testCalculator()
	crit := DefaultCriteria()

	// 起运地、目的地、重量全缺失：逐项替换默认值并记入诊断
	results := calc.CalculateRates(context.Background(), []Shipment{{
		ShipmentID: "S1",
	}}, crit)

	r := results[0]
	if r.IsError() {
		t.Fatalf("unexpected error row: %s", r.Errors)
	}
	if r.OriginZip != crit.OriginZip {
		t.Errorf("OriginZip = %s, want default %s", r.OriginZip, crit.OriginZip)
	}
	if r.DestinationZip != PlaceholderDestZip {
		t.Errorf("DestinationZip = %s, want placeholder %s", r.DestinationZip, PlaceholderDestZip)
	}
	if r.BillableWeight != 1.0 {
		t.Errorf("BillableWeight = %v, want 1.0", r.BillableWeight)
	}

	for _, note := range []string{"missing origin_zip", "missing destination_zip", "invalid weight"} {
		if !strings.Contains(r.Errors, note) {
			t.Errorf("Errors = %q, missing note %q", r.Errors, note)
		}
	}

	// 占位目的地：只收燃油
	if r.DASSurcharge != 0 || r.EDASSurcharge != 0 || r.RemoteSurcharge != 0 {
		t.Errorf("placeholder dest got non-fuel surcharges: %+v", r)
	}
}

func TestCalculateRatesDimWeight(t *testing.T) {
	calc := testCalculator()
	crit := DefaultCriteria()

	// 12×10×8/139 → 体积重 7.0 > 实际重量 3 → 计费重量 7.0，落入 5 磅档
	results := calc.CalculateRates(context.Background(), []Shipment{{
		ShipmentID:     "S1",
		OriginZip:      "10001",
		DestinationZip: "10002",
		Weight:         3,
		Length:         12,
		Width:          10,
		Height:         8,
	}}, crit)

	r := results[0]
	if r.DimWeight != 7.0 {
		t.Errorf("DimWeight = %v, want 7.0", r.DimWeight)
	}
	if r.BillableWeight != 7.0 {
		t.Errorf("BillableWeight = %v, want 7.0", r.BillableWeight)
	}
	if r.BaseRate != 6.00 {
		t.Errorf("BaseRate = %.2f, want 6.00 (5lb tier, zone 1)", r.BaseRate)
	}
}

func TestCalculateRatesErrorIsolation(t *testing.T) {
	calc := testCalculator()
	crit := DefaultCriteria()

	// 中间一行区域非法，前后两行正常：输出行数不变，失败行不中断整批
	results := calc.CalculateRates(context.Background(), []Shipment{
		{ShipmentID: "S1", OriginZip: "10001", DestinationZip: "10002", Weight: 1},
		{ShipmentID: "S2", OriginZip: "10001", DestinationZip: "10002", Weight: 1, Zone: 9},
		{ShipmentID: "S3", OriginZip: "10001", DestinationZip: "10002", Weight: 1},
	}, crit)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].IsError() || results[2].IsError() {
		t.Error("valid rows marked as error")
	}

	bad := results[1]
	if !bad.IsError() {
		t.Fatal("invalid-zone row not marked as error")
	}
	if bad.Zone != ZoneError {
		t.Errorf("Zone = %s, want %s", bad.Zone, ZoneError)
	}
	if bad.ShipmentID != "S2" {
		t.Errorf("ShipmentID = %s, want S2", bad.ShipmentID)
	}
	if bad.FinalRate != 0 || bad.BaseRate != 0 {
		t.Errorf("error row has non-zero money fields: %+v", bad)
	}
	if bad.Errors == "" {
		t.Error("error row has empty diagnostics")
	}
}

func TestCalculateRatesZoneFromMatrix(t *testing.T) {
	calc := testCalculator()
	crit := DefaultCriteria()

	// 未提供显式区域时走矩阵解析（100 → 606 = 4）
	results := calc.CalculateRates(context.Background(), []Shipment{{
		ShipmentID:     "S1",
		OriginZip:      "10001",
		DestinationZip: "60605",
		Weight:         1,
	}}, crit)

	if results[0].Zone != "4" {
		t.Errorf("Zone = %s, want 4", results[0].Zone)
	}
}

func TestSummary(t *testing.T) {
	calc := testCalculator()

	results := []RateResult{
		{Zone: "1", BaseRate: 5.00, TotalSurcharges: 0.80, FinalRate: 6.38, CarrierRate: 12.00, Savings: 5.62, SavingsPct: 46.83},
		{Zone: "2", BaseRate: 3.00, TotalSurcharges: 0.48, FinalRate: 3.83}, // 无对比费率
		{Zone: ZoneError},                                                   // 失败行不参与汇总
		{Zone: "3", BaseRate: 4.00, TotalSurcharges: 0.64, FinalRate: 5.10, CarrierRate: 10.00, Savings: 4.90, SavingsPct: 49.00},
	}

	sum := calc.Summary(results)

	if sum.TotalShipments != 3 {
		t.Errorf("TotalShipments = %d, want 3", sum.TotalShipments)
	}
	if sum.TotalBaseRate != 12.00 {
		t.Errorf("TotalBaseRate = %.2f, want 12.00", sum.TotalBaseRate)
	}
	if sum.TotalFinalRate != 15.31 {
		t.Errorf("TotalFinalRate = %.2f, want 15.31", sum.TotalFinalRate)
	}
	// 节省只在有对比费率的行上统计
	if sum.TotalSavings != 10.52 {
		t.Errorf("TotalSavings = %.2f, want 10.52", sum.TotalSavings)
	}
	if math.Abs(sum.AvgSavingsPct-47.92) > 0.01 {
		t.Errorf("AvgSavingsPct = %.2f, want ~47.92", sum.AvgSavingsPct)
	}
}

func TestSummaryEmptyAndNonFinite(t *testing.T) {
	calc := testCalculator()

	// 全失败批次 → 全零汇总
	sum := calc.Summary([]RateResult{{Zone: ZoneError}, {Zone: ZoneError}})
	if sum.TotalShipments != 0 || sum.AvgSavingsPct != 0 {
		t.Errorf("all-error summary = %+v, want zeros", sum)
	}

	// 非有限值按 0 处理，绝不传播
	sum = calc.Summary([]RateResult{
		{Zone: "1", BaseRate: math.NaN(), FinalRate: math.Inf(1), CarrierRate: 5, SavingsPct: math.NaN()},
	})
	if math.IsNaN(sum.TotalBaseRate) || math.IsInf(sum.TotalFinalRate, 0) || math.IsNaN(sum.AvgSavingsPct) {
		t.Errorf("non-finite values leaked into summary: %+v", sum)
	}
}
