package rating

import "strings"

// 重量单位换算系数
const (
	ouncesPerPound = 16.0
	gramsPerPound  = 453.592
	poundsPerKilo  = 2.20462
)

// ToPounds 按单位把重量换算为磅
// 未识别的单位视为已经是磅，原样返回
func ToPounds(value float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "oz", "ounce", "ounces":
		return value / ouncesPerPound
	case "g", "gram", "grams":
		return value / gramsPerPound
	case "kg", "kilogram", "kilograms":
		return value * poundsPerKilo
	default:
		return value
	}
}
