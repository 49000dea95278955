package business

import (
	"context"
	"testing"

	"labliq/analyzer/internal/model"
	"labliq/analyzer/internal/rating"
)

func findIssue(issues []model.AnomalyItem, issueType string) *model.AnomalyItem {
	for i := range issues {
		if issues[i].Type == issueType {
			return &issues[i]
		}
	}
	return nil
}

func TestAnomalyCheckerEmptyBatch(t *testing.T) {
	checker := NewAnomalyChecker()

	result, err := checker.Check(context.Background(), nil)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !result.HasRisk {
		t.Error("empty batch should be flagged as risk")
	}
	issue := findIssue(result.Issues, "EMPTY_BATCH")
	if issue == nil {
		t.Fatal("expected EMPTY_BATCH issue")
	}
	if issue.Level != model.AnomalyLevelCritical {
		t.Errorf("EMPTY_BATCH level = %s, want %s", issue.Level, model.AnomalyLevelCritical)
	}
}

func TestAnomalyCheckerCleanBatch(t *testing.T) {
	checker := NewAnomalyChecker()

	shipments := []rating.Shipment{
		{ShipmentID: "a", OriginZip: "10001", DestinationZip: "60601", Weight: 2.0},
		{ShipmentID: "b", OriginZip: "10001", DestinationZip: "30301", Weight: 5.5},
	}

	result, err := checker.Check(context.Background(), shipments)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result.HasRisk {
		t.Errorf("clean batch flagged as risk: %+v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Errorf("expected no issues, got %d", len(result.Issues))
	}
}

func TestAnomalyCheckerWeightRules(t *testing.T) {
	checker := NewAnomalyChecker()

	shipments := []rating.Shipment{
		{ShipmentID: "neg", DestinationZip: "60601", Weight: -1.0},
		{ShipmentID: "heavy", DestinationZip: "60601", Weight: 200.0},
		{ShipmentID: "ok", DestinationZip: "60601", Weight: 3.0},
	}

	result, err := checker.Check(context.Background(), shipments)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !result.HasRisk {
		t.Error("batch with weight issues should be flagged")
	}

	neg := findIssue(result.Issues, "NEGATIVE_WEIGHT")
	if neg == nil {
		t.Fatal("expected NEGATIVE_WEIGHT issue")
	}
	if neg.Level != model.AnomalyLevelCritical {
		t.Errorf("NEGATIVE_WEIGHT level = %s, want critical", neg.Level)
	}

	heavy := findIssue(result.Issues, "HEAVY_PACKAGE")
	if heavy == nil {
		t.Fatal("expected HEAVY_PACKAGE issue")
	}
	if heavy.Level != model.AnomalyLevelWarning {
		t.Errorf("HEAVY_PACKAGE level = %s, want warning", heavy.Level)
	}
}

func TestAnomalyCheckerMissingDestinations(t *testing.T) {
	checker := NewAnomalyChecker()

	// 2/4 缺失目的地，正好到达 50% 告警线
	shipments := []rating.Shipment{
		{ShipmentID: "a", DestinationZip: "", Weight: 1.0},
		{ShipmentID: "b", DestinationZip: "abc", Weight: 1.0},
		{ShipmentID: "c", DestinationZip: "60601", Weight: 1.0},
		{ShipmentID: "d", DestinationZip: "30301", Weight: 1.0},
	}

	result, err := checker.Check(context.Background(), shipments)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if findIssue(result.Issues, "MISSING_DESTINATIONS") == nil {
		t.Error("expected MISSING_DESTINATIONS issue at 50% missing")
	}

	// 1/4 缺失，低于告警线
	shipments[1].DestinationZip = "75001"
	result, err = checker.Check(context.Background(), shipments)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if findIssue(result.Issues, "MISSING_DESTINATIONS") != nil {
		t.Error("MISSING_DESTINATIONS should not fire below threshold")
	}
}
