package refdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"labliq/analyzer/internal/rating"
	"labliq/analyzer/pkg/logger"
)

const validDataset = `
version: 1
zone_matrix:
  dest_prefixes: ["100", "606", "900"]
  rows:
    - origin: "100"
      zones: [1, 4, 7]
    - origin: "606"
      zones: [4, 1, 5]
zip_flags:
  das: ["30301", 30302]
  edas: ["59801"]
  remote: ["59901", "bogus-zip-##"]
rates:
  letter:
    - weight: 1
      zones: [1.00, 1.20, 1.40, 1.60, 1.80, 2.00, 2.20, 2.40]
  parcel:
    - weight: 1
      zones: [3.00, 3.50, 4.00, 4.50, 5.00, 5.50, 6.00, 6.50]
    - weight: 5
      zones: [6.00, 6.50, 7.00, 7.50, 8.00, 8.50, 9.00, 9.50]
criteria:
  origin_zip: "10001"
  fuel_surcharge_pct: 16.0
  das_amount: 1.98
  edas_amount: 3.92
  remote_amount: 14.15
  dim_divisor: 139.0
  default_markup_pct: 10.0
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestLoadValidDataset(t *testing.T) {
	store, err := Load(writeDataset(t, validDataset), logger.NopLogger{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if store.Version() != 1 {
		t.Errorf("Version = %d, want 1", store.Version())
	}

	rows, cols := store.Matrix().Size()
	if rows != 2 || cols != 3 {
		t.Errorf("matrix size = %dx%d, want 2x3", rows, cols)
	}
	if zone, ok := store.Matrix().Zone("100", "606"); !ok || zone != 4 {
		t.Errorf("Zone(100, 606) = %d/%v, want 4", zone, ok)
	}

	// 数字形态的 ZIP 条目也能归一化进集合
	if !store.Classifier().IsDAS("30302") {
		t.Error("IsDAS(30302) = false, want true")
	}
	if !store.Classifier().IsEDAS("59801") {
		t.Error("IsEDAS(59801) = false, want true")
	}

	if store.Rates().Tiers(rating.CategoryParcel) != 2 {
		t.Errorf("parcel tiers = %d, want 2", store.Rates().Tiers(rating.CategoryParcel))
	}

	crit := store.Criteria()
	if crit.OriginZip != "10001" || crit.FuelSurchargePct != 16.0 {
		t.Errorf("criteria = %+v", crit)
	}
	if crit.DefaultMarkup == nil || *crit.DefaultMarkup != 10.0 {
		t.Errorf("DefaultMarkup = %v, want 10.0", crit.DefaultMarkup)
	}
}

func TestLoadCoercesDirtyZoneCells(t *testing.T) {
	dirty := `
version: 1
zone_matrix:
  dest_prefixes: ["100", "606"]
  rows:
    - origin: "100"
      zones: [1, 99]
    - origin: "606"
      zones: ["abc", 2]
zip_flags: {}
rates:
  parcel:
    - weight: 1
      zones: [3.00, 3.50, 4.00, 4.50, 5.00, 5.50, 6.00, 6.50]
criteria: {}
`
	store, err := Load(writeDataset(t, dirty), logger.NopLogger{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// 越界与非数字的单元格统一修正为 8，不阻断加载
	if zone, _ := store.Matrix().Zone("100", "606"); zone != 8 {
		t.Errorf("out-of-range cell = %d, want 8", zone)
	}
	if zone, _ := store.Matrix().Zone("606", "100"); zone != 8 {
		t.Errorf("non-numeric cell = %d, want 8", zone)
	}
	if zone, _ := store.Matrix().Zone("606", "606"); zone != 2 {
		t.Errorf("clean cell = %d, want 2", zone)
	}

	// 数据集未提供条件时落到内置默认值
	crit := store.Criteria()
	if crit.FuelSurchargePct != rating.DefaultFuelSurchargePct {
		t.Errorf("FuelSurchargePct = %v, want default", crit.FuelSurchargePct)
	}
}

func TestLoadRejectsBrokenDatasets(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing file", ""},
		{"tiny matrix", `
version: 1
zone_matrix:
  dest_prefixes: ["100", "606"]
  rows:
    - origin: "100"
      zones: [1, 2]
rates:
  parcel:
    - weight: 1
      zones: [1, 1, 1, 1, 1, 1, 1, 1]
criteria: {}
`},
		{"non-zip header", `
version: 1
zone_matrix:
  dest_prefixes: ["abc", "606"]
  rows:
    - origin: "100"
      zones: [1, 2]
    - origin: "606"
      zones: [2, 1]
rates:
  parcel:
    - weight: 1
      zones: [1, 1, 1, 1, 1, 1, 1, 1]
criteria: {}
`},
		{"short rate row", `
version: 1
zone_matrix:
  dest_prefixes: ["100", "606"]
  rows:
    - origin: "100"
      zones: [1, 2]
    - origin: "606"
      zones: [2, 1]
rates:
  parcel:
    - weight: 1
      zones: [1, 2, 3]
criteria: {}
`},
		{"missing rates", `
version: 1
zone_matrix:
  dest_prefixes: ["100", "606"]
  rows:
    - origin: "100"
      zones: [1, 2]
    - origin: "606"
      zones: [2, 1]
criteria: {}
`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var path string
			if c.name == "missing file" {
				path = filepath.Join(t.TempDir(), "absent.yaml")
			} else {
				path = writeDataset(t, c.content)
			}

			_, err := Load(path, logger.NopLogger{})
			if !errors.Is(err, rating.ErrReferenceData) {
				t.Errorf("err = %v, want ErrReferenceData", err)
			}
		})
	}
}
