package jsonutil

import "math"

// Finite 将非有限浮点值归一化为 0
// 输出边界契约：任何 NaN/Inf 都不允许出现在响应 JSON 中
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// IsFinite 判断浮点值是否有限
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Sanitize 深度清洗任意 JSON 结构中的非有限浮点值
// 支持 map/slice 嵌套；其他类型原样返回
func Sanitize(obj interface{}) interface{} {
	switch v := obj.(type) {
	case float64:
		return Finite(v)
	case float32:
		return Finite(float64(v))
	case map[string]interface{}:
		cleaned := make(map[string]interface{}, len(v))
		for key, val := range v {
			cleaned[key] = Sanitize(val)
		}
		return cleaned
	case []interface{}:
		cleaned := make([]interface{}, 0, len(v))
		for _, val := range v {
			cleaned = append(cleaned, Sanitize(val))
		}
		return cleaned
	default:
		return obj
	}
}
