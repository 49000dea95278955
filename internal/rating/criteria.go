package rating

// 计算条件默认值（与参考数据集缺省一致）
const (
	DefaultOriginZip   = "10001" // 默认起运地（NYC）
	PlaceholderDestZip = "60601" // 目的地缺失时的占位 ZIP（Chicago，明确不计 DAS）

	DefaultFuelSurchargePct = 16.0
	DefaultDASAmount        = 1.98
	DefaultEDASAmount       = 3.92
	DefaultRemoteAmount     = 14.15
	DefaultDimDivisor       = 139.0
	DefaultMarkupPct        = 10.0
)

// Criteria 计算条件（不可变值）
// 每次批量计算都持有自己的一份 Criteria 副本，调用之间互不影响；
// 请求级覆盖通过 Merge 产生新值，绝不修改共享状态。
type Criteria struct {
	OriginZip        string
	FuelSurchargePct float64
	DASAmount        float64
	EDASAmount       float64
	RemoteAmount     float64
	DimDivisor       float64
	DefaultMarkup    *float64                 // 全局加价百分比（优先于服务等级加价）
	ServiceMarkups   map[ServiceLevel]float64 // 服务等级加价百分比
}

// DefaultCriteria 构造缺省计算条件
func DefaultCriteria() Criteria {
	markup := DefaultMarkupPct
	return Criteria{
		OriginZip:        DefaultOriginZip,
		FuelSurchargePct: DefaultFuelSurchargePct,
		DASAmount:        DefaultDASAmount,
		EDASAmount:       DefaultEDASAmount,
		RemoteAmount:     DefaultRemoteAmount,
		DimDivisor:       DefaultDimDivisor,
		DefaultMarkup:    &markup,
		ServiceMarkups: map[ServiceLevel]float64{
			ServiceStandard:  0.0,
			ServiceExpedited: 0.0,
			ServicePriority:  0.0,
			ServiceNextDay:   0.0,
		},
	}
}

// Overrides 请求级计算条件覆盖
// 指针字段区分"未提供"与"显式设置为 0"
type Overrides struct {
	OriginZip        *string            `json:"origin_zip,omitempty"`
	FuelSurchargePct *float64           `json:"fuel_surcharge_pct,omitempty"`
	DASAmount        *float64           `json:"das_amount,omitempty"`
	EDASAmount       *float64           `json:"edas_amount,omitempty"`
	RemoteAmount     *float64           `json:"remote_amount,omitempty"`
	DimDivisor       *float64           `json:"dim_divisor,omitempty"`
	MarkupPct        *float64           `json:"markup_pct,omitempty"`
	ServiceMarkups   map[string]float64 `json:"service_markups,omitempty"`
}

// Merge 应用覆盖，返回新的 Criteria 值
// 原 Criteria 不会被修改；覆盖后统一做取值规整
func (c Criteria) Merge(o *Overrides) Criteria {
	// 深拷贝指针与 map，保证返回值与接收者完全独立
	merged := c
	if c.DefaultMarkup != nil {
		v := *c.DefaultMarkup
		merged.DefaultMarkup = &v
	}
	merged.ServiceMarkups = make(map[ServiceLevel]float64, len(c.ServiceMarkups))
	for k, v := range c.ServiceMarkups {
		merged.ServiceMarkups[k] = v
	}

	if o != nil {
		if o.OriginZip != nil && *o.OriginZip != "" {
			merged.OriginZip = *o.OriginZip
		}
		if o.FuelSurchargePct != nil {
			merged.FuelSurchargePct = *o.FuelSurchargePct
		}
		if o.DASAmount != nil {
			merged.DASAmount = *o.DASAmount
		}
		if o.EDASAmount != nil {
			merged.EDASAmount = *o.EDASAmount
		}
		if o.RemoteAmount != nil {
			merged.RemoteAmount = *o.RemoteAmount
		}
		if o.DimDivisor != nil {
			merged.DimDivisor = *o.DimDivisor
		}
		if o.MarkupPct != nil {
			v := *o.MarkupPct
			merged.DefaultMarkup = &v
		}
		for name, pct := range o.ServiceMarkups {
			merged.ServiceMarkups[CanonicalServiceLevel(name)] = pct
		}
	}

	return merged.normalized()
}

// normalized 取值规整：附加费不允许为负，体积重除数必须为正
func (c Criteria) normalized() Criteria {
	if c.OriginZip == "" {
		c.OriginZip = DefaultOriginZip
	}
	if c.FuelSurchargePct < 0 {
		c.FuelSurchargePct = 0
	}
	if c.DASAmount < 0 {
		c.DASAmount = 0
	}
	if c.EDASAmount < 0 {
		c.EDASAmount = 0
	}
	if c.RemoteAmount < 0 {
		c.RemoteAmount = 0
	}
	if c.DimDivisor <= 0 {
		c.DimDivisor = DefaultDimDivisor
	}
	return c
}

// MarkupFor 取指定服务等级的加价百分比
// 全局加价优先于服务等级加价，都没有时为 0
func (c Criteria) MarkupFor(level ServiceLevel) float64 {
	if c.DefaultMarkup != nil {
		return *c.DefaultMarkup
	}
	if pct, ok := c.ServiceMarkups[level]; ok {
		return pct
	}
	return 0
}
