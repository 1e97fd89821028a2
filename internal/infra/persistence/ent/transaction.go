package ent

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"

	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

// txManager 基于 ent dialect.Driver 的事务管理器实现。
type txManager struct {
	drv dialect.Driver
}

// NewTransactionManager 是 txManager 的构造函数。
func NewTransactionManager(drv dialect.Driver) repository.TransactionManager {
	return &txManager{drv: drv}
}

// NewRepositories 返回直接使用连接池 (非事务) 的仓储集合
func NewRepositories(drv dialect.Driver) repository.Repositories {
	return newRepositories(drv, drv.Dialect())
}

func newRepositories(eq dialect.ExecQuerier, dialectName string) repository.Repositories {
	return repository.Repositories{
		User:         NewUserRepo(eq, dialectName),
		Post:         NewPostRepo(eq, dialectName),
		Comment:      NewCommentRepo(eq, dialectName),
		PostCategory: NewPostCategoryRepo(eq, dialectName),
		PostTag:      NewPostTagRepo(eq, dialectName),
		Setting:      NewSettingRepo(eq, dialectName),
	}
}

// Do 实现了 TransactionManager 接口。
// 它会开启一个事务，并将 Repositories 中的所有仓储包裹在这个事务中。
func (tm *txManager) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := tm.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}

	defer func() {
		if v := recover(); v != nil {
			tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(newRepositories(tx, tm.drv.Dialect())); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("事务执行失败: %w, 回滚事务也失败: %v", err, rerr)
		}
		return err
	}

	return tx.Commit()
}
