/*
 * @Description: 数据库表结构迁移
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"entgo.io/ent/dialect"
)

// MigrationService 数据库迁移服务
type MigrationService struct {
	db      *sql.DB
	dialect string
}

// NewMigrationService 创建迁移服务，dialectName 为 ent 方言名称
func NewMigrationService(db *sql.DB, dialectName string) *MigrationService {
	return &MigrationService{
		db:      db,
		dialect: dialectName,
	}
}

// 各方言的列类型
type columnTypes struct {
	pk       string
	fk       string
	datetime string
	text     string
	suffix   string
}

func (m *MigrationService) types() columnTypes {
	switch m.dialect {
	case dialect.MySQL:
		return columnTypes{
			pk:       "BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY",
			fk:       "BIGINT UNSIGNED",
			datetime: "DATETIME",
			text:     "LONGTEXT",
			suffix:   " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		}
	case dialect.Postgres:
		return columnTypes{
			pk:       "BIGSERIAL PRIMARY KEY",
			fk:       "BIGINT",
			datetime: "TIMESTAMPTZ",
			text:     "TEXT",
		}
	default:
		return columnTypes{
			pk:       "INTEGER PRIMARY KEY AUTOINCREMENT",
			fk:       "INTEGER",
			datetime: "DATETIME",
			text:     "TEXT",
		}
	}
}

// tableStatements 按依赖顺序返回建表语句
func (m *MigrationService) tableStatements() []string {
	t := m.types()
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
	id %s,
	username VARCHAR(150) NOT NULL UNIQUE,
	email VARCHAR(254) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	created_at %s NOT NULL,
	last_login_at %s NULL
)%s`, t.pk, t.datetime, t.datetime, t.suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS post_categories (
	id %s,
	name VARCHAR(100) NOT NULL UNIQUE,
	slug VARCHAR(120) NOT NULL UNIQUE,
	created_at %s NOT NULL
)%s`, t.pk, t.datetime, t.suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS post_tags (
	id %s,
	name VARCHAR(100) NOT NULL UNIQUE,
	slug VARCHAR(120) NOT NULL UNIQUE,
	created_at %s NOT NULL
)%s`, t.pk, t.datetime, t.suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS posts (
	id %s,
	title VARCHAR(200) NOT NULL,
	content %s NOT NULL,
	date_posted %s NOT NULL,
	author_id %s NOT NULL,
	category_id %s NULL,
	CONSTRAINT fk_posts_author FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE,
	CONSTRAINT fk_posts_category FOREIGN KEY (category_id) REFERENCES post_categories(id) ON DELETE SET NULL
)%s`, t.pk, t.text, t.datetime, t.fk, t.fk, t.suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS post_tag_links (
	post_id %s NOT NULL,
	tag_id %s NOT NULL,
	PRIMARY KEY (post_id, tag_id),
	CONSTRAINT fk_links_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
	CONSTRAINT fk_links_tag FOREIGN KEY (tag_id) REFERENCES post_tags(id) ON DELETE CASCADE
)%s`, t.fk, t.fk, t.suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS comments (
	id %s,
	post_id %s NOT NULL,
	author_id %s NOT NULL,
	content %s NOT NULL,
	date_posted %s NOT NULL,
	CONSTRAINT fk_comments_post FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
	CONSTRAINT fk_comments_author FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
)%s`, t.pk, t.fk, t.fk, t.text, t.datetime, t.suffix),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS settings (
	config_key VARCHAR(100) NOT NULL PRIMARY KEY,
	value %s NOT NULL,
	comment VARCHAR(255) NOT NULL DEFAULT ''
)%s`, t.text, t.suffix),
	}
}

var indexStatements = []struct {
	name  string
	table string
	cols  string
}{
	{"idx_posts_date_posted", "posts", "date_posted, id"},
	{"idx_posts_author_id", "posts", "author_id"},
	{"idx_comments_post_id", "comments", "post_id, date_posted"},
	{"idx_post_tag_links_tag_id", "post_tag_links", "tag_id"},
}

// RunMigrations 执行所有迁移，可重复执行
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	log.Println("📋 开始执行数据库迁移...")

	for _, stmt := range m.tableStatements() {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("建表失败: %w\n%s", err, stmt)
		}
	}

	for _, idx := range indexStatements {
		if err := m.createIndex(ctx, idx.name, idx.table, idx.cols); err != nil {
			return err
		}
	}

	log.Println("✅ 数据库迁移完成")
	return nil
}

// createIndex 创建索引，MySQL 不支持 IF NOT EXISTS，重复时忽略错误
func (m *MigrationService) createIndex(ctx context.Context, name, table, cols string) error {
	var stmt string
	if m.dialect == dialect.MySQL {
		stmt = fmt.Sprintf("CREATE INDEX %s ON %s (%s)", name, table, cols)
	} else {
		stmt = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, table, cols)
	}
	_, err := m.db.ExecContext(ctx, stmt)
	if err != nil && !strings.Contains(err.Error(), "Duplicate key name") {
		return fmt.Errorf("创建索引 %s 失败: %w", name, err)
	}
	return nil
}
