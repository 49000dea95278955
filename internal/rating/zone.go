package rating

// worstZone 信息缺失或异常时的保守默认区域（最贵）
const worstZone = 8

// ZoneMatrix 区域矩阵
// 行为起运地 3 位前缀，列为目的地 3 位前缀，单元格为区域 1-8。
// 加载时已完成清洗（越界值统一替换为 8），之后只读。
type ZoneMatrix struct {
	origins []string // 保留行顺序，首行作为最后的起运地兜底
	dests   map[string]struct{}
	cells   map[string]map[string]int
}

// NewZoneMatrix 构造区域矩阵
func NewZoneMatrix(origins []string, dests []string, cells map[string]map[string]int) *ZoneMatrix {
	destSet := make(map[string]struct{}, len(dests))
	for _, d := range dests {
		destSet[d] = struct{}{}
	}
	return &ZoneMatrix{
		origins: origins,
		dests:   destSet,
		cells:   cells,
	}
}

// HasOrigin 起运地前缀是否存在
func (m *ZoneMatrix) HasOrigin(prefix string) bool {
	_, ok := m.cells[prefix]
	return ok
}

// HasDest 目的地前缀是否存在
func (m *ZoneMatrix) HasDest(prefix string) bool {
	_, ok := m.dests[prefix]
	return ok
}

// FirstOrigin 首个起运地前缀（兜底用）
func (m *ZoneMatrix) FirstOrigin() (string, bool) {
	if len(m.origins) == 0 {
		return "", false
	}
	return m.origins[0], true
}

// Zone 读取矩阵单元格
func (m *ZoneMatrix) Zone(originPrefix, destPrefix string) (int, bool) {
	row, ok := m.cells[originPrefix]
	if !ok {
		return 0, false
	}
	z, ok := row[destPrefix]
	return z, ok
}

// Size 行数与列数
func (m *ZoneMatrix) Size() (rows, cols int) {
	return len(m.origins), len(m.dests)
}

// ZoneResolver 区域解析器
// 把（起运地, 目的地）ZIP 对解析为区域 1-8。
// 永不失败：任何缺失或异常路径都返回 8（最保守的默认值）。
type ZoneResolver struct {
	matrix *ZoneMatrix
}

// NewZoneResolver 创建区域解析器
func NewZoneResolver(matrix *ZoneMatrix) *ZoneResolver {
	return &ZoneResolver{matrix: matrix}
}

// Resolve 解析运输区域
// defaultOriginZip 为起运地前缀不在矩阵中时的兜底 ZIP（来自计算条件）
func (r *ZoneResolver) Resolve(originZip, destZip, defaultOriginZip string) int {
	// 1. 含字母的目的地按国际处理
	if hasAlpha(cleanZip(destZip)) {
		return worstZone
	}

	// 2. 归一化为 3 位前缀
	originPrefix := Prefix3(originZip)
	destPrefix := Prefix3(destZip)

	// 3. 哨兵值直接按最远区域处理
	if originPrefix == PrefixInternational || originPrefix == PrefixInvalid ||
		destPrefix == PrefixInternational || destPrefix == PrefixInvalid {
		return worstZone
	}

	// 4. 起运地兜底链：本行 → 默认起运地前缀 → 矩阵首行
	if !r.matrix.HasOrigin(originPrefix) {
		originPrefix = ""
		if defaultOriginZip != "" {
			if p := Prefix3(defaultOriginZip); r.matrix.HasOrigin(p) {
				originPrefix = p
			}
		}
		if originPrefix == "" {
			first, ok := r.matrix.FirstOrigin()
			if !ok {
				return worstZone
			}
			originPrefix = first
		}
	}

	// 5. 目的地不在矩阵列中 → 最远区域
	if !r.matrix.HasDest(destPrefix) {
		return worstZone
	}

	// 6. 读取单元格；清洗后理论上总是有效，这里仍做兜底
	zone, ok := r.matrix.Zone(originPrefix, destPrefix)
	if !ok || zone < 1 || zone > 8 {
		return worstZone
	}

	return zone
}
