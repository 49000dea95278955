package rating

import "testing"

// testMatrix 测试用小矩阵
// 起运地 100/606，目的地 100/606/900
func testMatrix() *ZoneMatrix {
	return NewZoneMatrix(
		[]string{"100", "606"},
		[]string{"100", "606", "900"},
		map[string]map[string]int{
			"100": {"100": 1, "606": 4, "900": 7},
			"606": {"100": 4, "606": 1, "900": 5},
		},
	)
}

func TestResolveKnownPair(t *testing.T) {
	r := NewZoneResolver(testMatrix())

	if got := r.Resolve("10001", "60601", DefaultOriginZip); got != 4 {
		t.Errorf("Resolve(10001, 60601) = %d, want 4", got)
	}
	if got := r.Resolve("10001", "10002", DefaultOriginZip); got != 1 {
		t.Errorf("Resolve(10001, 10002) = %d, want 1", got)
	}
}

func TestResolveInternationalDest(t *testing.T) {
	r := NewZoneResolver(testMatrix())

	// 含字母的目的地一律区域 8
	if got := r.Resolve("10001", "M5V3A8", DefaultOriginZip); got != 8 {
		t.Errorf("Resolve international dest = %d, want 8", got)
	}
	if got := r.Resolve("M5V3A8", "60601", DefaultOriginZip); got != 8 {
		t.Errorf("Resolve international origin = %d, want 8", got)
	}
}

func TestResolveMissingInput(t *testing.T) {
	r := NewZoneResolver(testMatrix())

	if got := r.Resolve("", "60601", DefaultOriginZip); got != 8 {
		t.Errorf("Resolve empty origin = %d, want 8", got)
	}
	if got := r.Resolve("10001", "", DefaultOriginZip); got != 8 {
		t.Errorf("Resolve empty dest = %d, want 8", got)
	}
}

func TestResolveOriginFallbackChain(t *testing.T) {
	r := NewZoneResolver(testMatrix())

	// 1. 起运地前缀不在矩阵中 → 落到默认起运地（10001 → 100）
	if got := r.Resolve("30301", "60601", "10001"); got != 4 {
		t.Errorf("Resolve with default-origin fallback = %d, want 4", got)
	}

	// 2. 默认起运地也不在矩阵中 → 落到矩阵首行（100）
	if got := r.Resolve("30301", "90001", "30301"); got != 7 {
		t.Errorf("Resolve with first-row fallback = %d, want 7", got)
	}
}

func TestResolveUnknownDest(t *testing.T) {
	r := NewZoneResolver(testMatrix())

	// 目的地前缀不在矩阵列中 → 区域 8，不走起运地兜底
	if got := r.Resolve("10001", "30301", DefaultOriginZip); got != 8 {
		t.Errorf("Resolve unknown dest = %d, want 8", got)
	}
}
