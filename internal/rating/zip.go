package rating

import (
	"strings"

	"github.com/spf13/cast"
)

// 3 位前缀的哨兵值
const (
	PrefixInternational = "INT" // 含字母的国际邮编
	PrefixInvalid       = "000" // 空值 / 无法解析
)

// CoerceZip 将任意输入转换为 ZIP 字符串
// 上游数据里 ZIP 可能是字符串、整数、浮点数或缺失值（JSON 里的 null/数字），
// 统一经 cast 转为字符串后再做清洗
func CoerceZip(v interface{}) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(cast.ToString(v))
	// 浮点缺失值会以 "NaN" 字面量出现
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// cleanZip 去掉空白和连字符（ZIP+4 的分隔符）
func cleanZip(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// hasAlpha 是否包含字母（国际邮编特征）
func hasAlpha(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

// digitsOf 提取所有数字字符
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// zeroPad 左侧补零到指定长度后截断
func zeroPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s[:width]
}

// Normalize5 归一化为可比较的 ZIP
// 返回三种形态之一：
//   - 5 位美国 ZIP（补零、只保留数字、丢弃 ZIP+4 后缀）
//   - 大写国际邮编（含字母的输入）
//   - 空字符串（无法恢复的输入）
func Normalize5(raw string) string {
	s := cleanZip(raw)
	if s == "" {
		return ""
	}

	if hasAlpha(s) {
		return strings.ToUpper(s)
	}

	digits := digitsOf(s)
	if digits == "" {
		return ""
	}

	return zeroPad(digits, 5)
}

// Prefix3 归一化为 3 位前缀（区域矩阵查找专用）
// 含字母返回 "INT"，空值或无数字返回 "000"，否则补零后取前 3 位
func Prefix3(raw string) string {
	s := cleanZip(raw)
	if s == "" {
		return PrefixInvalid
	}

	if hasAlpha(s) {
		return PrefixInternational
	}

	digits := digitsOf(s)
	if digits == "" {
		return PrefixInvalid
	}

	return zeroPad(digits, 3)
}
