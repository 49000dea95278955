package rating

import (
	"sort"

	"labliq/analyzer/pkg/jsonutil"
)

// Category 费率表品类
// 信封类走 letter 行，其余包裹类型统一走 parcel 行
type Category string

const (
	CategoryLetter Category = "letter"
	CategoryParcel Category = "parcel"
)

// CategoryFor 包裹类型到费率品类的映射
func CategoryFor(pkg PackageType) Category {
	if pkg == PackageEnvelope {
		return CategoryLetter
	}
	return CategoryParcel
}

// RateTier 单个重量档
// Weight 为该档的重量上限（磅）；Rates 按区域 1-8 依次排列
type RateTier struct {
	Weight float64
	Rates  [8]float64
}

// RateTable 重量分档费率表
// 每个品类的档位按重量升序排列，加载后只读
type RateTable struct {
	tiers map[Category][]RateTier
}

// NewRateTable 构造费率表（内部会对各品类按重量排序）
func NewRateTable(tiers map[Category][]RateTier) *RateTable {
	sorted := make(map[Category][]RateTier, len(tiers))
	for cat, rows := range tiers {
		cp := make([]RateTier, len(rows))
		copy(cp, rows)
		sort.Slice(cp, func(i, j int) bool { return cp[i].Weight < cp[j].Weight })
		sorted[cat] = cp
	}
	return &RateTable{tiers: sorted}
}

// Tiers 返回品类的档位数（校验与测试用）
func (t *RateTable) Tiers(cat Category) int {
	return len(t.tiers[cat])
}

// BaseRate 查询基础费率
// 档位选择：在升序重量档中找第一个严格大于输入重量的档位，取其前一档，
// 并把下标夹到 [0, last]。因此低于最小档的重量用首档，超过最大档的重量
// 用末档——不做外推，超重包裹会按末档计费（已知的有界行为，不是缺陷）。
// 恰好等于档位上限的重量命中该档本身，而不是下一档。
func (t *RateTable) BaseRate(weight float64, zone int, pkg PackageType) (float64, error) {
	if zone < 1 || zone > 8 {
		return 0, RateErrorf("zone %d out of range", zone)
	}

	cat := CategoryFor(pkg)
	rows := t.tiers[cat]
	if len(rows) == 0 {
		return 0, RateErrorf("no rates for category %q", cat)
	}

	// 右偏二分：第一个 Weight > weight 的下标
	idx := sort.Search(len(rows), func(i int) bool { return rows[i].Weight > weight })
	idx--
	if idx < 0 {
		idx = 0
	}
	if idx > len(rows)-1 {
		idx = len(rows) - 1
	}

	rate := rows[idx].Rates[zone-1]
	if !jsonutil.IsFinite(rate) || rate <= 0 {
		return 0, RateErrorf("invalid rate for weight %.2f, zone %d, category %q", weight, zone, cat)
	}

	return rate, nil
}
