package bootstrap_test

import (
	"context"
	"testing"

	"github.com/anzhiyu-c/myblog/internal/app/bootstrap"
	"github.com/anzhiyu-c/myblog/internal/infra/persistence/storetest"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/idgen"
)

func TestRunIsStable(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	b := bootstrap.NewBootstrapper(s.Repos)

	first, err := b.Run(ctx, "")
	if err != nil {
		t.Fatalf("首次运行失败: %v", err)
	}
	if first.Secret == "" || first.IDSeed == "" {
		t.Fatalf("应生成密钥和种子: %+v", first)
	}

	second, err := b.Run(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if *second != *first {
		t.Errorf("再次运行应复用已保存的值: %+v != %+v", second, first)
	}

	saved, err := s.Repos.Setting.FindByKey(ctx, constant.SettingKeySecret)
	if err != nil || saved.Value != first.Secret {
		t.Errorf("密钥应写入 settings 表: %+v %v", saved, err)
	}

	id, err := idgen.GeneratePublicID(7, idgen.EntityTypeUser)
	if err != nil {
		t.Fatalf("编码器应已初始化: %v", err)
	}
	if got, err := idgen.DecodeUserID(id); err != nil || got != 7 {
		t.Errorf("DecodeUserID = %d, %v", got, err)
	}
}

func TestRunSecretOverride(t *testing.T) {
	s := storetest.New(t)
	res, err := bootstrap.NewBootstrapper(s.Repos).Run(context.Background(), "from-config")
	if err != nil {
		t.Fatal(err)
	}
	if res.Secret != "from-config" {
		t.Errorf("Secret = %q, 期望使用配置值", res.Secret)
	}
}
