package server

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToShipmentsCoercesFields(t *testing.T) {
	// 上游导出常见脏数据：数字 ZIP（丢前导零）、盎司重量
	payload := `{
		"shipments": [
			{"shipment_id": "a", "origin_zip": 7001, "destination_zip": "60601-1234", "weight": 32, "weight_unit": "oz"},
			{"origin_zip": "10001", "destination_zip": 90210, "weight": 2.5}
		]
	}`

	var req AnalyzeRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	shipments := req.ToShipments()
	if len(shipments) != 2 {
		t.Fatalf("expected 2 shipments, got %d", len(shipments))
	}

	first := shipments[0]
	if first.OriginZip != "7001" {
		t.Errorf("OriginZip = %q, want 7001 (numeric ZIP coerced to string)", first.OriginZip)
	}
	if first.DestinationZip != "60601-1234" {
		t.Errorf("DestinationZip = %q", first.DestinationZip)
	}
	if math.Abs(first.Weight-2.0) > 1e-9 {
		t.Errorf("Weight = %.4f, want 2.0 (32 oz)", first.Weight)
	}

	second := shipments[1]
	if second.DestinationZip != "90210" {
		t.Errorf("DestinationZip = %q, want 90210", second.DestinationZip)
	}
	if math.Abs(second.Weight-2.5) > 1e-9 {
		t.Errorf("Weight = %.4f, want 2.5 (lb is the default unit)", second.Weight)
	}
}

func TestToShipmentsGeneratesRowIDs(t *testing.T) {
	req := AnalyzeRequest{
		Shipments: []ShipmentRequest{
			{OriginZip: "10001", Weight: 1},
			{ShipmentID: "custom", OriginZip: "10001", Weight: 1},
			{OriginZip: "10001", Weight: 1},
		},
	}

	shipments := req.ToShipments()
	if shipments[0].ShipmentID != "row_1" {
		t.Errorf("ShipmentID = %q, want row_1", shipments[0].ShipmentID)
	}
	if shipments[1].ShipmentID != "custom" {
		t.Errorf("ShipmentID = %q, want custom (explicit ID preserved)", shipments[1].ShipmentID)
	}
	if shipments[2].ShipmentID != "row_3" {
		t.Errorf("ShipmentID = %q, want row_3", shipments[2].ShipmentID)
	}
}
