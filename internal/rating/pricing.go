package rating

import (
	"math"

	"github.com/shopspring/decimal"

	"labliq/analyzer/pkg/jsonutil"
)

// round2 金额四舍五入到分
// 用 decimal 做十进制舍入，避免二进制浮点的精度毛刺
func round2(v float64) float64 {
	if !jsonutil.IsFinite(v) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Surcharges 附加费明细
type Surcharges struct {
	Fuel   float64
	DAS    float64
	EDAS   float64
	Remote float64
	Total  float64
}

// Markup 加价结果
type Markup struct {
	Pct       float64
	Amount    float64
	FinalRate float64
}

// Margin 对比承运商费率的节省结果
type Margin struct {
	Savings    float64
	SavingsPct float64
}

// Pricer 定价引擎
// 负责附加费、加价、节省三段计算；所有计算条件按调用传入，自身无状态
type Pricer struct {
	classifier *Classifier
}

// NewPricer 创建定价引擎
func NewPricer(classifier *Classifier) *Pricer {
	return &Pricer{classifier: classifier}
}

// ApplySurcharges 计算附加费明细
// 燃油附加费始终按基础费率的百分比收取，目的地缺失也不例外。
// DAS/EDAS/Remote 在目的地为空或为占位 ZIP 时整体跳过（只收燃油）。
// 偏远附加费对国际邮编和阿拉斯加/夏威夷前缀强制收取，不依赖集合判定。
func (p *Pricer) ApplySurcharges(baseRate float64, destZip string, crit Criteria) Surcharges {
	s := Surcharges{}

	// 1. 燃油附加费（始终收取）
	s.Fuel = round2(baseRate * crit.FuelSurchargePct / 100.0)
	s.Total = s.Fuel

	// 2. 空目的地或占位 ZIP：只收燃油
	cleaned := cleanZip(destZip)
	if cleaned == "" {
		return s
	}
	if isPlaceholderDestRaw(destZip) {
		return s
	}

	// 3. 前缀无法解析：只收燃油
	prefix := Prefix3(destZip)
	if prefix == PrefixInvalid {
		return s
	}

	// 4. DAS / EDAS 按分类器判定
	if p.classifier.IsDAS(destZip) {
		s.DAS = crit.DASAmount
	}
	if p.classifier.IsEDAS(destZip) {
		s.EDAS = crit.EDASAmount
	}

	// 5. 偏远附加费：国际、阿拉斯加/夏威夷强制，其余按集合
	if p.classifier.IsRemote(destZip) || isRemoteForced(prefix) {
		s.Remote = crit.RemoteAmount
	}

	s.Total = round2(s.Fuel + s.DAS + s.EDAS + s.Remote)
	return s
}

// ApplyMarkup 在（基础费率 + 附加费）上应用加价
// 全局加价优先于服务等级加价；永不失败，异常取值回落为零加价
func (p *Pricer) ApplyMarkup(rateWithSurcharges float64, level ServiceLevel, crit Criteria) Markup {
	pct := crit.MarkupFor(level)
	if !jsonutil.IsFinite(pct) || pct < 0 {
		pct = 0
	}

	amount := rateWithSurcharges * pct / 100.0
	return Markup{
		Pct:       pct,
		Amount:    round2(amount),
		FinalRate: round2(rateWithSurcharges + amount),
	}
}

// CalcMargin 计算相对承运商费率的节省
// carrierRate <= 0 视为未提供，节省与节省率都记 0
func (p *Pricer) CalcMargin(finalRate, carrierRate float64) Margin {
	if !jsonutil.IsFinite(carrierRate) || carrierRate <= 0 {
		return Margin{}
	}

	savings := carrierRate - finalRate
	return Margin{
		Savings:    savings,
		SavingsPct: savings / carrierRate * 100.0,
	}
}

// DimWeight 体积重
// ceil(长×宽×高 / 除数 × 10) / 10，向上取整到 0.1 磅；
// 任一维度缺失或非正时返回 0
func DimWeight(length, width, height, divisor float64) float64 {
	if length <= 0 || width <= 0 || height <= 0 {
		return 0
	}
	if !jsonutil.IsFinite(length) || !jsonutil.IsFinite(width) || !jsonutil.IsFinite(height) {
		return 0
	}
	if divisor <= 0 {
		divisor = DefaultDimDivisor
	}

	dim := length * width * height / divisor
	return math.Ceil(dim*10) / 10
}

// BillableWeight 计费重量
// 实际重量与体积重都有效时取较大者，只有一个有效时取该值
func BillableWeight(weight, dimWeight float64) float64 {
	if !jsonutil.IsFinite(weight) || weight < 0 {
		weight = 0
	}
	if !jsonutil.IsFinite(dimWeight) || dimWeight < 0 {
		dimWeight = 0
	}

	if weight > 0 && dimWeight > 0 {
		return math.Max(weight, dimWeight)
	}
	if weight > 0 {
		return weight
	}
	return dimWeight
}
