package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

// settingRepo 是 SettingRepository 接口的实现
type settingRepo struct {
	baseRepo
}

// NewSettingRepo 是 settingRepo 的构造函数
func NewSettingRepo(drv dialect.ExecQuerier, dialectName string) repository.SettingRepository {
	return &settingRepo{baseRepo{drv: drv, dialect: dialectName}}
}

// FindByKey 实现按键查找配置的接口
func (r *settingRepo) FindByKey(ctx context.Context, key string) (*model.Setting, error) {
	b := r.builder()
	t := b.Table(tableSettings)
	rows, err := r.query(ctx, b.Select(t.C("config_key"), t.C("value"), t.C("comment")).
		From(t).
		Where(sql.EQ(t.C("config_key"), key)).
		Limit(1))
	if err != nil {
		return nil, fmt.Errorf("查询配置 %q 失败: %w", key, err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("配置 %q: %w", key, constant.ErrNotFound)
	}
	var s model.Setting
	if err := rows.Scan(&s.ConfigKey, &s.Value, &s.Comment); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save 存在则更新，不存在则插入
func (r *settingRepo) Save(ctx context.Context, setting *model.Setting) error {
	_, err := r.FindByKey(ctx, setting.ConfigKey)
	switch {
	case err == nil:
		_, err = r.exec(ctx, r.builder().Update(tableSettings).
			Set("value", setting.Value).
			Set("comment", setting.Comment).
			Where(sql.EQ("config_key", setting.ConfigKey)))
	case errors.Is(err, constant.ErrNotFound):
		_, err = r.exec(ctx, r.builder().Insert(tableSettings).
			Columns("config_key", "value", "comment").
			Values(setting.ConfigKey, setting.Value, setting.Comment))
	}
	if err != nil {
		return fmt.Errorf("保存配置 %q 失败: %w", setting.ConfigKey, err)
	}
	return nil
}
