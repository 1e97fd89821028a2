// internal/app/bootstrap/bootstrap.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anzhiyu-c/myblog/internal/configdef"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
	"github.com/anzhiyu-c/myblog/pkg/idgen"
)

// Result 是引导程序准备好的运行时密钥
type Result struct {
	Secret string
	IDSeed string
}

type Bootstrapper struct {
	repos repository.Repositories
}

func NewBootstrapper(repos repository.Repositories) *Bootstrapper {
	return &Bootstrapper{repos: repos}
}

// Run 同步 settings 表并初始化公共 ID 编码器。
// secretOverride 非空时 (来自配置文件或环境变量) 优先于数据库中保存的密钥。
func (b *Bootstrapper) Run(ctx context.Context, secretOverride string) (*Result, error) {
	log.Println("--- 开始执行引导程序 ---")

	values, err := b.syncSettings(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Secret: values[constant.SettingKeySecret], IDSeed: values[constant.SettingKeyIDSeed]}
	if secretOverride != "" {
		log.Println("使用配置文件中的 System.Secret 作为签名密钥。")
		res.Secret = secretOverride
	}

	if err := idgen.InitSqidsEncoderWithSeed(res.IDSeed); err != nil {
		return nil, err
	}
	b.checkPostTable(ctx)

	log.Println("--- 引导程序执行完成 ---")
	return res, nil
}

// syncSettings 确保 configdef 中定义的配置项都存在于数据库中，返回全部配置值
func (b *Bootstrapper) syncSettings(ctx context.Context) (map[string]string, error) {
	values := make(map[string]string, len(configdef.AllSettings))
	newlyAdded := 0

	for _, def := range configdef.AllSettings {
		s, err := b.repos.Setting.FindByKey(ctx, def.Key)
		if err == nil && s.Value != "" {
			values[def.Key] = s.Value
			continue
		}
		if err != nil && !errors.Is(err, constant.ErrNotFound) {
			return nil, fmt.Errorf("查询配置项 '%s' 失败: %w", def.Key, err)
		}

		value, err := def.Generate()
		if err != nil {
			return nil, fmt.Errorf("生成配置项 '%s' 失败: %w", def.Key, err)
		}
		if err := b.repos.Setting.Save(ctx, &model.Setting{ConfigKey: def.Key, Value: value, Comment: def.Comment}); err != nil {
			return nil, err
		}
		log.Printf("    -新增配置项: '%s' 已写入数据库。", def.Key)
		values[def.Key] = value
		newlyAdded++
	}

	if newlyAdded > 0 {
		log.Printf("--- 站点配置同步完成，共新增 %d 个配置项。---", newlyAdded)
	}
	return values, nil
}

func (b *Bootstrapper) checkPostTable(ctx context.Context) {
	n, err := b.repos.Post.Count(ctx)
	if err != nil {
		log.Printf("❌ 错误: 查询 Post 表记录数量失败: %v", err)
		return
	}
	if n == 0 {
		log.Println("Post 表为空，注册账户后即可发布第一篇文章。")
	}
}
