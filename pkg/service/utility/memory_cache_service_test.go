package utility

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestMemoryCacheGetSetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheService()
	defer c.Stop()

	if v, err := c.Get(ctx, "missing"); v != "" || err != nil {
		t.Errorf("不存在的键应返回空字符串, 得到 %q, %v", v, err)
	}
	_ = c.Set(ctx, "k", 42, 0)
	if v, _ := c.Get(ctx, "k"); v != "42" {
		t.Errorf("Get = %q, 期望 42", v)
	}
	_ = c.Delete(ctx, "k")
	if v, _ := c.Get(ctx, "k"); v != "" {
		t.Errorf("删除后 Get = %q", v)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheService()
	defer c.Stop()

	_ = c.Set(ctx, "short", "v", 20*time.Millisecond)
	_ = c.RPush(ctx, "list", "a")
	_ = c.Expire(ctx, "list", 20*time.Millisecond)
	time.Sleep(40 * time.Millisecond)

	if v, _ := c.Get(ctx, "short"); v != "" {
		t.Errorf("过期键仍可读取: %q", v)
	}
	if items, _ := c.LRange(ctx, "list", 0, -1); len(items) != 0 {
		t.Errorf("过期列表仍可读取: %v", items)
	}
	if err := c.Expire(ctx, "missing", time.Second); err != nil {
		t.Errorf("对不存在的键 Expire 不应报错: %v", err)
	}
}

func TestMemoryCacheList(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheService()
	defer c.Stop()

	_ = c.RPush(ctx, "l", "a", "b")
	_ = c.RPush(ctx, "l", "c\nd")

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{name: "全部", start: 0, stop: -1, want: []string{"a", "b", "c\nd"}},
		{name: "前两个", start: 0, stop: 1, want: []string{"a", "b"}},
		{name: "负索引", start: -2, stop: -1, want: []string{"b", "c\nd"}},
		{name: "越界", start: 5, stop: 10, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.LRange(ctx, "l", tt.start, tt.stop)
			if err != nil || !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LRange(%d, %d) = %q, %v; 期望 %q", tt.start, tt.stop, got, err, tt.want)
			}
		})
	}
	c.Stop()
	c.Stop()
}

func TestMemoryCacheTakeOnce(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCacheService()
	defer c.Stop()

	_ = c.Set(ctx, "answer", "1234", time.Minute)
	if v, _ := c.GetDel(ctx, "answer"); v != "1234" {
		t.Fatalf("GetDel = %q, 期望 1234", v)
	}
	if v, _ := c.GetDel(ctx, "answer"); v != "" {
		t.Errorf("第二次 GetDel 应为空, 得到 %q", v)
	}

	_ = c.PushWithTTL(ctx, "box", time.Minute, "a")
	_ = c.PushWithTTL(ctx, "box", time.Minute, "b")
	if items, _ := c.TakeList(ctx, "box"); len(items) != 2 || items[0] != "a" || items[1] != "b" {
		t.Fatalf("TakeList = %q", items)
	}
	if items, _ := c.TakeList(ctx, "box"); len(items) != 0 {
		t.Errorf("取出后列表应为空: %q", items)
	}

	_ = c.PushWithTTL(ctx, "short", 20*time.Millisecond, "x")
	time.Sleep(40 * time.Millisecond)
	if items, _ := c.TakeList(ctx, "short"); len(items) != 0 {
		t.Errorf("过期列表仍可取出: %q", items)
	}
}
