package rating

import "strings"

// Classifier 目的地附加费分类器
// 三套独立的 ZIP 集合分别判定 DAS（配送区域附加费）、EDAS（扩展配送区域附加费）、
// Remote（偏远地区附加费）。三者对未知输入的默认值刻意不对称：
// DAS 和 Remote 对未知/国际目的地保守判定为应收，EDAS 判定为不收。
// 这是沿用的既有业务行为，调整前需与业务方确认。
type Classifier struct {
	das    map[string]bool
	edas   map[string]bool
	remote map[string]bool
}

// NewClassifier 创建分类器
func NewClassifier(das, edas, remote map[string]bool) *Classifier {
	if das == nil {
		das = map[string]bool{}
	}
	if edas == nil {
		edas = map[string]bool{}
	}
	if remote == nil {
		remote = map[string]bool{}
	}
	return &Classifier{das: das, edas: edas, remote: remote}
}

// IsDAS 目的地是否应收配送区域附加费
// 空值/无法归一化 → true（未知目的地保守按应收处理）；
// 含字母（国际）→ true；否则按集合判定，缺省 false
func (c *Classifier) IsDAS(rawZip string) bool {
	s := cleanZip(rawZip)
	if hasAlpha(s) {
		return true
	}

	digits := digitsOf(s)
	if digits == "" {
		return true
	}

	return c.das[zeroPad(digits, 5)]
}

// IsEDAS 目的地是否应收扩展配送区域附加费
// 空值或非数字 → false；否则按集合判定，缺省 false
func (c *Classifier) IsEDAS(rawZip string) bool {
	s := cleanZip(rawZip)
	if s == "" || hasAlpha(s) {
		return false
	}

	digits := digitsOf(s)
	if digits == "" {
		return false
	}

	return c.edas[zeroPad(digits, 5)]
}

// IsRemote 目的地是否应收偏远地区附加费
// 空值 → false；含字母（国际）→ true；否则按集合判定，缺省 false
func (c *Classifier) IsRemote(rawZip string) bool {
	s := cleanZip(rawZip)
	if s == "" {
		return false
	}
	if hasAlpha(s) {
		return true
	}

	digits := digitsOf(s)
	if digits == "" {
		return false
	}

	return c.remote[zeroPad(digits, 5)]
}

// remoteForcedPrefixes 强制收取偏远附加费的 3 位前缀
// 995-999 为阿拉斯加，967-968 为夏威夷，不依赖 ZIP 集合
var remoteForcedPrefixes = map[string]struct{}{
	"995": {}, "996": {}, "997": {}, "998": {}, "999": {},
	"967": {}, "968": {},
}

// isRemoteForced 前缀是否在强制偏远名单中
func isRemoteForced(prefix string) bool {
	_, ok := remoteForcedPrefixes[prefix]
	return ok
}

// isPlaceholderDest 是否为流水线内部使用的占位目的地
// 占位 ZIP 代表缺失数据，除燃油外不计任何附加费
func isPlaceholderDest(zip5 string) bool {
	return zip5 == DefaultOriginZip || zip5 == PlaceholderDestZip
}

// placeholder 判定同时接受未补零的原始输入
func isPlaceholderDestRaw(raw string) bool {
	s := cleanZip(raw)
	if s == "" {
		return false
	}
	if hasAlpha(s) {
		return false
	}
	return isPlaceholderDest(strings.TrimSpace(s)) || isPlaceholderDest(Normalize5(s))
}
