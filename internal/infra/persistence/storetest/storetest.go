// Package storetest 为测试提供一个迁移好的临时 SQLite 存储。
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"entgo.io/ent/dialect"

	"github.com/anzhiyu-c/myblog/internal/infra/persistence/database"
	"github.com/anzhiyu-c/myblog/internal/infra/persistence/ent"
	"github.com/anzhiyu-c/myblog/internal/pkg/security"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

// Store 聚合测试需要的驱动、仓储和事务管理器
type Store struct {
	Driver dialect.Driver
	Repos  repository.Repositories
	TM     repository.TransactionManager
}

// New 在 t.TempDir() 中创建数据库并执行迁移，测试结束后自动关闭
func New(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.NewMigrationService(db, dialect.SQLite).RunMigrations(context.Background()); err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}

	drv := database.NewDriver(db, dialect.SQLite, false)
	return &Store{
		Driver: drv,
		Repos:  ent.NewRepositories(drv),
		TM:     ent.NewTransactionManager(drv),
	}
}

// CreateUser 创建一个测试用户，密码为 "password-<username>"
func (s *Store) CreateUser(t *testing.T, username string) *model.User {
	t.Helper()
	hash, err := security.HashPassword("password-" + username)
	if err != nil {
		t.Fatalf("哈希密码失败: %v", err)
	}
	u := &model.User{Username: username, Email: username + "@example.com", PasswordHash: hash}
	if err := s.Repos.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户 %s 失败: %v", username, err)
	}
	return u
}
