package database

import (
	"context"
	"path/filepath"
	"testing"

	"entgo.io/ent/dialect"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("打开数据库失败: %v", err)
	}
	defer db.Close()

	m := NewMigrationService(db, dialect.SQLite)
	for i := 0; i < 2; i++ {
		if err := m.RunMigrations(context.Background()); err != nil {
			t.Fatalf("第 %d 次迁移失败: %v", i+1, err)
		}
	}

	for _, table := range []string{"users", "post_categories", "post_tags", "posts", "post_tag_links", "comments", "settings"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("表 %s 不存在: %v", table, err)
		}
	}

	var fk int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil || fk != 1 {
		t.Errorf("外键约束未启用: %d, %v", fk, err)
	}
}

func TestDialectName(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", dialect.SQLite, false},
		{"sqlite", dialect.SQLite, false},
		{"MariaDB", dialect.MySQL, false},
		{"postgres", dialect.Postgres, false},
		{"oracle", "", true},
	}
	for _, tt := range tests {
		got, err := DialectName(tt.input)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("DialectName(%q) = %q, %v", tt.input, got, err)
		}
	}
}
