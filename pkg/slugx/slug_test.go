package slugx_test

import (
	"testing"

	"github.com/Abraxas-365/vieclam/pkg/slugx"
	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Kỹ Sư Phần Mềm", "ky-su-phan-mem"},
		{"Đà Nẵng -- Developer!!", "da-nang-developer"},
		{"Nhân viên Kinh doanh (Hà Nội)", "nhan-vien-kinh-doanh-ha-noi"},
		{"Trưởng phòng Nhân sự", "truong-phong-nhan-su"},
		{"  Senior   Golang Engineer  ", "senior-golang-engineer"},
		{"C++ / Go", "c-go"},
		{"---leading and trailing---", "leading-and-trailing"},
		{"Kế toán\ttổng hợp\nnăm 2024", "ke-toan-tong-hop-nam-2024"},
		{"ĐẶNG THỊ ƯỚC", "dang-thi-uoc"},
		{"a+b", "ab"},
		{"@@@", ""},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, slugx.Make(tc.in))
		})
	}
}

func TestMake_AlwaysProducesValidSlugs(t *testing.T) {
	inputs := []string{
		"Lập trình viên Backend (Node.js/Go)",
		"-- -- --",
		"Ứng dụng — di động",
		"100% remote!!!",
		"日本語 developer",
		"Kỹ_sư__AI",
		"ổ ở ỡ ợ ờ",
	}
	for _, in := range inputs {
		got := slugx.Make(in)
		if got == "" {
			continue
		}
		assert.True(t, slugx.Valid(got), "Make(%q) = %q is not a valid slug", in, got)
	}
}

func TestMake_Deterministic(t *testing.T) {
	title := "Chuyên viên Phân tích Dữ liệu"
	assert.Equal(t, slugx.Make(title), slugx.Make(title))
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "Phan mem", slugx.RemoveDiacritics("Phần mềm"))
	assert.Equal(t, "dD", slugx.RemoveDiacritics("đĐ"))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "ky-su-phan-mem", slugx.WithSuffix("ky-su-phan-mem", 0))
	assert.Equal(t, "ky-su-phan-mem-1", slugx.WithSuffix("ky-su-phan-mem", 1))
	assert.Equal(t, "ky-su-phan-mem-12", slugx.WithSuffix("ky-su-phan-mem", 12))
}

func TestValid(t *testing.T) {
	assert.True(t, slugx.Valid("ky-su-1"))
	assert.False(t, slugx.Valid(""))
	assert.False(t, slugx.Valid("-ky"))
	assert.False(t, slugx.Valid("ky-"))
	assert.False(t, slugx.Valid("ky--su"))
	assert.False(t, slugx.Valid("Ky-su"))
}
