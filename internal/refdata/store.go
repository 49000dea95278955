package refdata

import (
	"context"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"labliq/analyzer/internal/rating"
	"labliq/analyzer/pkg/logger"
)

// Store 参考数据集（只读）
// 从版本化的 YAML 数据集加载四张参考表：区域矩阵、ZIP 分类标记、
// 重量分段费率表、默认计算条件。加载完成后不再变化，可被多个
// goroutine 并发读取。
type Store struct {
	version    int
	matrix     *rating.ZoneMatrix
	classifier *rating.Classifier
	rates      *rating.RateTable
	criteria   rating.Criteria
}

// rawDataset YAML 数据集结构
// 单元格统一用 interface{} 接收：上游导出工具会混用字符串和数字
type rawDataset struct {
	Version    int                      `mapstructure:"version"`
	ZoneMatrix rawZoneMatrix            `mapstructure:"zone_matrix"`
	ZipFlags   rawZipFlags              `mapstructure:"zip_flags"`
	Rates      map[string][]rawRateTier `mapstructure:"rates"`
	Criteria   rawCriteria              `mapstructure:"criteria"`
}

type rawZoneMatrix struct {
	DestPrefixes []interface{} `mapstructure:"dest_prefixes"`
	Rows         []rawZoneRow  `mapstructure:"rows"`
}

type rawZoneRow struct {
	Origin interface{}   `mapstructure:"origin"`
	Zones  []interface{} `mapstructure:"zones"`
}

type rawZipFlags struct {
	DAS    []interface{} `mapstructure:"das"`
	EDAS   []interface{} `mapstructure:"edas"`
	Remote []interface{} `mapstructure:"remote"`
}

type rawRateTier struct {
	Weight interface{}   `mapstructure:"weight"`
	Zones  []interface{} `mapstructure:"zones"`
}

type rawCriteria struct {
	OriginZip        string   `mapstructure:"origin_zip"`
	FuelSurchargePct *float64 `mapstructure:"fuel_surcharge_pct"`
	DASAmount        *float64 `mapstructure:"das_amount"`
	EDASAmount       *float64 `mapstructure:"edas_amount"`
	RemoteAmount     *float64 `mapstructure:"remote_amount"`
	DimDivisor       *float64 `mapstructure:"dim_divisor"`
	DefaultMarkupPct *float64 `mapstructure:"default_markup_pct"`
}

// Load 加载参考数据集
// 数据集损坏属于致命错误，直接返回 ErrReferenceData 类错误；
// 可修复的脏数据（越界区域值、无法解析的 ZIP）在加载期清洗并告警。
func Load(path string, log logger.Logger) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, rating.ReferenceDataErrorf("read dataset %s failed: %v", path, err)
	}

	var raw rawDataset
	if err := v.Unmarshal(&raw); err != nil {
		return nil, rating.ReferenceDataErrorf("unmarshal dataset %s failed: %v", path, err)
	}

	ctx := context.Background()

	matrix, err := buildZoneMatrix(ctx, &raw.ZoneMatrix, log)
	if err != nil {
		return nil, err
	}

	rates, err := buildRateTable(&raw.Rates)
	if err != nil {
		return nil, err
	}

	classifier := buildClassifier(ctx, &raw.ZipFlags, log)
	criteria := buildCriteria(&raw.Criteria)

	rows, cols := matrix.Size()
	log.Infof(ctx, "[RefData] Loaded dataset %s: version=%d, matrix=%dx%d, letter tiers=%d, parcel tiers=%d",
		path, raw.Version, rows, cols, rates.Tiers(rating.CategoryLetter), rates.Tiers(rating.CategoryParcel))

	return &Store{
		version:    raw.Version,
		matrix:     matrix,
		classifier: classifier,
		rates:      rates,
		criteria:   criteria,
	}, nil
}

// buildZoneMatrix 构建区域矩阵
// 结构校验失败为致命错误；单元格脏数据清洗为 8（最差区域）并告警
func buildZoneMatrix(ctx context.Context, raw *rawZoneMatrix, log logger.Logger) (*rating.ZoneMatrix, error) {
	if len(raw.Rows) < 2 {
		return nil, rating.ReferenceDataErrorf("zone matrix needs at least 2 rows, got %d", len(raw.Rows))
	}
	if len(raw.DestPrefixes) < 2 {
		return nil, rating.ReferenceDataErrorf("zone matrix needs at least 2 dest prefixes, got %d", len(raw.DestPrefixes))
	}

	// 1. 目的地前缀表头必须是 ZIP 前缀形态（纯数字，补零到 3 位）
	dests := make([]string, 0, len(raw.DestPrefixes))
	for i, cell := range raw.DestPrefixes {
		prefix := rating.Prefix3(rating.CoerceZip(cell))
		if prefix == rating.PrefixInvalid || prefix == rating.PrefixInternational {
			return nil, rating.ReferenceDataErrorf("zone matrix dest prefix %d is not ZIP-like: %v", i, cell)
		}
		dests = append(dests, prefix)
	}

	// 2. 逐行清洗：起运地前缀非法的行直接跳过，区域值越界或非数字统一修正为 8
	origins := make([]string, 0, len(raw.Rows))
	cells := make(map[string]map[string]int, len(raw.Rows))
	coerced := 0

	for i, row := range raw.Rows {
		origin := rating.Prefix3(rating.CoerceZip(row.Origin))
		if origin == rating.PrefixInvalid || origin == rating.PrefixInternational {
			log.Warnf(ctx, "[RefData] skipping zone matrix row %d: origin prefix not ZIP-like: %v", i, row.Origin)
			continue
		}
		if len(row.Zones) != len(dests) {
			return nil, rating.ReferenceDataErrorf("zone matrix row %s has %d cells, expected %d", origin, len(row.Zones), len(dests))
		}

		rowCells := make(map[string]int, len(dests))
		for j, cell := range row.Zones {
			zone, err := cast.ToIntE(cell)
			if err != nil || zone < 1 || zone > 8 {
				zone = 8
				coerced++
			}
			rowCells[dests[j]] = zone
		}
		origins = append(origins, origin)
		cells[origin] = rowCells
	}

	if len(origins) < 2 {
		return nil, rating.ReferenceDataErrorf("zone matrix has %d usable rows after cleaning, need at least 2", len(origins))
	}
	if coerced > 0 {
		log.Warnf(ctx, "[RefData] coerced %d invalid zone cells to worst zone 8", coerced)
	}

	return rating.NewZoneMatrix(origins, dests, cells), nil
}

// buildClassifier 构建 ZIP 附加费分类器
// 无法归一化的 ZIP 条目跳过并告警，不阻断加载
func buildClassifier(ctx context.Context, raw *rawZipFlags, log logger.Logger) *rating.Classifier {
	load := func(name string, entries []interface{}) map[string]bool {
		set := make(map[string]bool, len(entries))
		skipped := 0
		for _, entry := range entries {
			zip := rating.Normalize5(rating.CoerceZip(entry))
			if zip == "" {
				skipped++
				continue
			}
			set[zip] = true
		}
		if skipped > 0 {
			log.Warnf(ctx, "[RefData] skipped %d unparseable %s zip entries", skipped, name)
		}
		return set
	}

	return rating.NewClassifier(
		load("das", raw.DAS),
		load("edas", raw.EDAS),
		load("remote", raw.Remote),
	)
}

// buildRateTable 构建重量分段费率表
// 费率是钱，不做静默修正：结构或数值非法直接报致命错误
func buildRateTable(raw *map[string][]rawRateTier) (*rating.RateTable, error) {
	if len(*raw) == 0 {
		return nil, rating.ReferenceDataErrorf("rates section is missing or empty")
	}

	tiers := make(map[rating.Category][]rating.RateTier, len(*raw))
	for name, rows := range *raw {
		var cat rating.Category
		switch name {
		case string(rating.CategoryLetter):
			cat = rating.CategoryLetter
		case string(rating.CategoryParcel):
			cat = rating.CategoryParcel
		default:
			return nil, rating.ReferenceDataErrorf("unknown rate category %q", name)
		}

		if len(rows) == 0 {
			return nil, rating.ReferenceDataErrorf("rate category %s has no tiers", name)
		}

		list := make([]rating.RateTier, 0, len(rows))
		for i, row := range rows {
			weight, err := cast.ToFloat64E(row.Weight)
			if err != nil || weight <= 0 {
				return nil, rating.ReferenceDataErrorf("rate category %s tier %d has invalid weight: %v", name, i, row.Weight)
			}
			if len(row.Zones) != 8 {
				return nil, rating.ReferenceDataErrorf("rate category %s tier %d has %d zone rates, expected 8", name, i, len(row.Zones))
			}

			var tier rating.RateTier
			tier.Weight = weight
			for j, cell := range row.Zones {
				rate, err := cast.ToFloat64E(cell)
				if err != nil || rate <= 0 {
					return nil, rating.ReferenceDataErrorf("rate category %s tier %d zone %d has invalid rate: %v", name, i, j+1, cell)
				}
				tier.Rates[j] = rate
			}
			list = append(list, tier)
		}
		tiers[cat] = list
	}

	return rating.NewRateTable(tiers), nil
}

// buildCriteria 构建默认计算条件
// 数据集未提供的字段取引擎内置默认值
func buildCriteria(raw *rawCriteria) rating.Criteria {
	crit := rating.DefaultCriteria()
	if raw.OriginZip != "" {
		crit.OriginZip = raw.OriginZip
	}
	if raw.FuelSurchargePct != nil {
		crit.FuelSurchargePct = *raw.FuelSurchargePct
	}
	if raw.DASAmount != nil {
		crit.DASAmount = *raw.DASAmount
	}
	if raw.EDASAmount != nil {
		crit.EDASAmount = *raw.EDASAmount
	}
	if raw.RemoteAmount != nil {
		crit.RemoteAmount = *raw.RemoteAmount
	}
	if raw.DimDivisor != nil {
		crit.DimDivisor = *raw.DimDivisor
	}
	if raw.DefaultMarkupPct != nil {
		v := *raw.DefaultMarkupPct
		crit.DefaultMarkup = &v
	}
	return crit
}

// Version 数据集版本号
func (s *Store) Version() int { return s.version }

// Matrix 区域矩阵
func (s *Store) Matrix() *rating.ZoneMatrix { return s.matrix }

// Classifier ZIP 附加费分类器
func (s *Store) Classifier() *rating.Classifier { return s.classifier }

// Rates 重量分段费率表
func (s *Store) Rates() *rating.RateTable { return s.rates }

// Criteria 默认计算条件（值拷贝，调用方可安全 Merge）
func (s *Store) Criteria() rating.Criteria { return s.criteria }
