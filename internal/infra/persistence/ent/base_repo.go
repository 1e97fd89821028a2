// Package ent 使用 ent 的 dialect/sql 构建器实现各仓储接口，
// 同一套查询可在 SQLite、MySQL 和 PostgreSQL 上执行。
package ent

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/ncruces/go-sqlite3"

	"github.com/anzhiyu-c/myblog/pkg/constant"
)

// 表名
const (
	tableUsers        = "users"
	tablePosts        = "posts"
	tableComments     = "comments"
	tableCategories   = "post_categories"
	tableTags         = "post_tags"
	tablePostTagLinks = "post_tag_links"
	tableSettings     = "settings"
)

// baseRepo 持有执行器和方言，执行器可以是连接池驱动也可以是事务
type baseRepo struct {
	drv     dialect.ExecQuerier
	dialect string
}

func (r baseRepo) builder() *sql.DialectBuilder {
	return sql.Dialect(r.dialect)
}

func (r baseRepo) query(ctx context.Context, q sql.Querier) (*sql.Rows, error) {
	query, args := q.Query()
	rows := &sql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r baseRepo) exec(ctx context.Context, q sql.Querier) (stdsql.Result, error) {
	query, args := q.Query()
	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// isUniqueViolation 识别三种驱动各自的唯一约束冲突错误
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.ExtendedCode()
		return code == sqlite3.CONSTRAINT_UNIQUE || code == sqlite3.CONSTRAINT_PRIMARYKEY
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// insert 执行插入并返回自增 ID，唯一约束冲突包装为 ErrConflict
func (r baseRepo) insert(ctx context.Context, ib *sql.InsertBuilder) (uint, error) {
	id, err := r.insertID(ctx, ib)
	if err != nil && isUniqueViolation(err) {
		return 0, fmt.Errorf("%v: %w", err, constant.ErrConflict)
	}
	return id, err
}

// insertID 中 PostgreSQL 没有 LastInsertId，改用 RETURNING
func (r baseRepo) insertID(ctx context.Context, ib *sql.InsertBuilder) (uint, error) {
	if r.dialect == dialect.Postgres {
		rows, err := r.query(ctx, ib.Returning("id"))
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}
			return 0, errors.New("插入后未返回 ID")
		}
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return uint(id), nil
	}

	res, err := r.exec(ctx, ib)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("获取自增 ID 失败: %w", err)
	}
	return uint(id), nil
}

// countInt 执行 SELECT COUNT(*) 类查询
func (r baseRepo) countInt(ctx context.Context, q sql.Querier) (int, error) {
	rows, err := r.query(ctx, q)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return int(n), rows.Err()
}

// dbNow 返回写入数据库的当前时间：UTC，精确到秒
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// dbTime 把时间规范为 UTC 整秒，零值取当前时间。
// SQLite 按文本保存时间，只有定宽格式才能按字符串顺序排序。
func dbTime(t time.Time) time.Time {
	if t.IsZero() {
		return dbNow()
	}
	return t.UTC().Truncate(time.Second)
}

// toAnySlice 把 ID 列表转为 sql.In 需要的参数
func toAnySlice(ids []uint) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

// nullTime 兼容不同驱动返回的时间类型 (time.Time、文本、Unix 时间戳)
type nullTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *nullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time, t.Valid = time.Time{}, false
		return nil
	case time.Time:
		t.Time, t.Valid = v.UTC(), true
		return nil
	case int64:
		t.Time, t.Valid = time.Unix(v, 0).UTC(), true
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("无法将 %T 转换为时间", src)
	}
}

func (t *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time, t.Valid = parsed.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("无法解析时间 %q", s)
}

// ptr 返回可空时间的指针形式
func (t nullTime) ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	tm := t.Time
	return &tm
}
