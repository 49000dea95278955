package rating

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestMergeOverrides(t *testing.T) {
	base := DefaultCriteria()
	origin := "94105"

	merged := base.Merge(&Overrides{
		OriginZip:        &origin,
		FuelSurchargePct: floatPtr(20),
		MarkupPct:        floatPtr(15),
		ServiceMarkups:   map[string]float64{"express": 25},
	})

	if merged.OriginZip != "94105" {
		t.Errorf("OriginZip = %s, want 94105", merged.OriginZip)
	}
	if merged.FuelSurchargePct != 20 {
		t.Errorf("FuelSurchargePct = %v, want 20", merged.FuelSurchargePct)
	}
	if merged.DefaultMarkup == nil || *merged.DefaultMarkup != 15 {
		t.Errorf("DefaultMarkup = %v, want 15", merged.DefaultMarkup)
	}
	// 同义词归一化后写入
	if merged.ServiceMarkups[ServiceExpedited] != 25 {
		t.Errorf("ServiceMarkups[expedited] = %v, want 25", merged.ServiceMarkups[ServiceExpedited])
	}

	// 未覆盖的字段保持默认
	if merged.DASAmount != DefaultDASAmount {
		t.Errorf("DASAmount = %v, want default", merged.DASAmount)
	}
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := DefaultCriteria()
	origMarkup := *base.DefaultMarkup

	merged := base.Merge(&Overrides{
		MarkupPct:      floatPtr(50),
		ServiceMarkups: map[string]float64{"standard": 99},
	})

	if *base.DefaultMarkup != origMarkup {
		t.Errorf("receiver DefaultMarkup mutated: %v", *base.DefaultMarkup)
	}
	if base.ServiceMarkups[ServiceStandard] == 99 {
		t.Error("receiver ServiceMarkups mutated")
	}
	if *merged.DefaultMarkup != 50 {
		t.Errorf("merged DefaultMarkup = %v, want 50", *merged.DefaultMarkup)
	}

	// 返回值的指针与 map 和接收者完全独立
	*merged.DefaultMarkup = 77
	if *base.DefaultMarkup != origMarkup {
		t.Error("merged shares DefaultMarkup pointer with receiver")
	}
}

func TestMergeNormalizes(t *testing.T) {
	base := DefaultCriteria()

	merged := base.Merge(&Overrides{
		DASAmount:  floatPtr(-5),
		DimDivisor: floatPtr(0),
	})

	// 负附加费规整为 0，非法除数回落默认值
	if merged.DASAmount != 0 {
		t.Errorf("DASAmount = %v, want 0", merged.DASAmount)
	}
	if merged.DimDivisor != DefaultDimDivisor {
		t.Errorf("DimDivisor = %v, want %v", merged.DimDivisor, DefaultDimDivisor)
	}
}

func TestMergeNilOverrides(t *testing.T) {
	base := DefaultCriteria()
	merged := base.Merge(nil)

	if merged.OriginZip != base.OriginZip || merged.FuelSurchargePct != base.FuelSurchargePct {
		t.Errorf("Merge(nil) changed values: %+v", merged)
	}
}

func TestMarkupForPrecedence(t *testing.T) {
	crit := DefaultCriteria()
	crit.ServiceMarkups[ServiceStandard] = 30

	// 全局加价优先于服务等级加价
	if got := crit.MarkupFor(ServiceStandard); got != DefaultMarkupPct {
		t.Errorf("MarkupFor = %v, want global %v", got, DefaultMarkupPct)
	}

	crit.DefaultMarkup = nil
	if got := crit.MarkupFor(ServiceStandard); got != 30 {
		t.Errorf("MarkupFor = %v, want service-level 30", got)
	}
}
