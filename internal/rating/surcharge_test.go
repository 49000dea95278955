package rating

import "testing"

func testClassifier() *Classifier {
	return NewClassifier(
		map[string]bool{"30301": true},
		map[string]bool{"59801": true},
		map[string]bool{"59901": true},
	)
}

func TestIsDASDefaults(t *testing.T) {
	c := testClassifier()

	// 集合命中
	if !c.IsDAS("30301") {
		t.Error("IsDAS(30301) = false, want true")
	}
	if c.IsDAS("10001") {
		t.Error("IsDAS(10001) = true, want false")
	}

	// 未知/国际目的地保守判定为应收
	if !c.IsDAS("") {
		t.Error("IsDAS(empty) = false, want true")
	}
	if !c.IsDAS("M5V3A8") {
		t.Error("IsDAS(international) = false, want true")
	}
}

func TestIsEDASDefaults(t *testing.T) {
	c := testClassifier()

	if !c.IsEDAS("59801") {
		t.Error("IsEDAS(59801) = false, want true")
	}

	// EDAS 对未知/国际目的地默认不收（与 DAS 刻意不对称）
	if c.IsEDAS("") {
		t.Error("IsEDAS(empty) = true, want false")
	}
	if c.IsEDAS("M5V3A8") {
		t.Error("IsEDAS(international) = true, want false")
	}
}

func TestIsRemoteDefaults(t *testing.T) {
	c := testClassifier()

	if !c.IsRemote("59901") {
		t.Error("IsRemote(59901) = false, want true")
	}

	// 空值不收，国际收
	if c.IsRemote("") {
		t.Error("IsRemote(empty) = true, want false")
	}
	if !c.IsRemote("M5V3A8") {
		t.Error("IsRemote(international) = false, want true")
	}
}

func TestRemoteForcedPrefixes(t *testing.T) {
	// 阿拉斯加 995-999、夏威夷 967-968
	for _, zip := range []string{"99501", "99701", "99901", "96701", "96801"} {
		if !isRemoteForced(Prefix3(zip)) {
			t.Errorf("isRemoteForced(%s) = false, want true", zip)
		}
	}
	for _, zip := range []string{"10001", "96601", "99401"} {
		if isRemoteForced(Prefix3(zip)) {
			t.Errorf("isRemoteForced(%s) = true, want false", zip)
		}
	}
}

func TestPlaceholderDest(t *testing.T) {
	for _, raw := range []string{"10001", "60601", " 10001 "} {
		if !isPlaceholderDestRaw(raw) {
			t.Errorf("isPlaceholderDestRaw(%q) = false, want true", raw)
		}
	}
	for _, raw := range []string{"30301", "", "M5V3A8"} {
		if isPlaceholderDestRaw(raw) {
			t.Errorf("isPlaceholderDestRaw(%q) = true, want false", raw)
		}
	}
}
