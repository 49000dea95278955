package rating

import "testing"

func TestCanonicalServiceLevel(t *testing.T) {
	cases := []struct {
		in   string
		want ServiceLevel
	}{
		{"standard", ServiceStandard},
		{"Ground", ServiceStandard},
		{"ECONOMY", ServiceStandard},
		{"express", ServiceExpedited},
		{"2-Day", ServiceExpedited},
		{"2nd day", ServiceExpedited},
		{"priority", ServicePriority},
		{"3 Day", ServicePriority},
		{"overnight", ServiceNextDay},
		{"Next Day Air", ServiceNextDay}, // 模糊匹配
		{"", ServiceStandard},
		{"whatever", ServiceStandard}, // 未识别回落 standard
	}
	for _, c := range cases {
		if got := CanonicalServiceLevel(c.in); got != c.want {
			t.Errorf("CanonicalServiceLevel(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestCanonicalPackageType(t *testing.T) {
	cases := []struct {
		in   string
		want PackageType
	}{
		{"box", PackageBox},
		{"Parcel", PackageBox},
		{"envelope", PackageEnvelope},
		{"LETTER", PackageEnvelope},
		{"polybag", PackagePak},
		{"custom", PackageCustom},
		{"", PackageBox},
		{"mystery", PackageBox}, // 未识别回落 box
	}
	for _, c := range cases {
		if got := CanonicalPackageType(c.in); got != c.want {
			t.Errorf("CanonicalPackageType(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}
