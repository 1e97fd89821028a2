package idgen

import (
	"errors"
	"testing"

	"github.com/anzhiyu-c/myblog/pkg/constant"
)

func TestPublicIDRoundTrip(t *testing.T) {
	if err := InitSqidsEncoderWithSeed("0123456789abcdef"); err != nil {
		t.Fatalf("初始化失败: %v", err)
	}

	for _, id := range []uint{1, 2, 99, 123456} {
		publicID, err := GeneratePublicID(id, EntityTypeUser)
		if err != nil {
			t.Fatalf("GeneratePublicID(%d) 返回错误: %v", id, err)
		}
		if len(publicID) < 6 {
			t.Errorf("公共ID %q 短于最小长度", publicID)
		}
		got, err := DecodeUserID(publicID)
		if err != nil {
			t.Fatalf("DecodeUserID(%q) 返回错误: %v", publicID, err)
		}
		if got != id {
			t.Errorf("DecodeUserID(%q) = %d, 期望 %d", publicID, got, id)
		}
	}
}

func TestDecodeUserIDRejectsOtherInput(t *testing.T) {
	if err := InitSqidsEncoderWithSeed("0123456789abcdef"); err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	otherType, err := GeneratePublicID(7, 99)
	if err != nil {
		t.Fatalf("GeneratePublicID 返回错误: %v", err)
	}

	tests := []struct {
		name     string
		publicID string
	}{
		{name: "空字符串", publicID: ""},
		{name: "非法字符", publicID: "!!!!"},
		{name: "其他实体类型", publicID: otherType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeUserID(tt.publicID); !errors.Is(err, constant.ErrInvalidPublicID) {
				t.Errorf("DecodeUserID(%q) 期望 ErrInvalidPublicID, 得到 %v", tt.publicID, err)
			}
		})
	}
}

func TestSeedChangesAlphabet(t *testing.T) {
	if shuffleAlphabet("seed-a") == shuffleAlphabet("seed-b") {
		t.Error("不同种子应产生不同字母表")
	}
	if shuffleAlphabet("seed-a") != shuffleAlphabet("seed-a") {
		t.Error("相同种子应产生相同字母表")
	}
}
