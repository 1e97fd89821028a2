package ent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/domain/repository"
)

type userRepo struct {
	baseRepo
}

// NewUserRepo 创建 UserRepository 的实现
func NewUserRepo(drv dialect.ExecQuerier, dialectName string) repository.UserRepository {
	return &userRepo{baseRepo{drv: drv, dialect: dialectName}}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = dbTime(user.CreatedAt)
	id, err := r.insert(ctx, r.builder().Insert(tableUsers).
		Columns("username", "email", "password_hash", "created_at").
		Values(user.Username, user.Email, user.PasswordHash, user.CreatedAt))
	if err != nil {
		return fmt.Errorf("创建用户失败: %w", err)
	}
	user.ID = id
	return nil
}

func (r *userRepo) selectUsers() (*sql.Selector, *sql.SelectTable) {
	t := r.builder().Table(tableUsers)
	s := r.builder().Select(
		t.C("id"), t.C("username"), t.C("email"), t.C("password_hash"), t.C("created_at"), t.C("last_login_at"),
	).From(t)
	return s, t
}

func (r *userRepo) scanUsers(rows *sql.Rows) ([]*model.User, error) {
	defer rows.Close()
	var users []*model.User
	for rows.Next() {
		var (
			u                    model.User
			id                   int64
			createdAt, lastLogin nullTime
		)
		if err := rows.Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &createdAt, &lastLogin); err != nil {
			return nil, err
		}
		u.ID = uint(id)
		u.CreatedAt = createdAt.Time
		u.LastLoginAt = lastLogin.ptr()
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *userRepo) findOne(ctx context.Context, s *sql.Selector, desc string) (*model.User, error) {
	rows, err := r.query(ctx, s.Limit(1))
	if err != nil {
		return nil, fmt.Errorf("查询用户 %s 失败: %w", desc, err)
	}
	users, err := r.scanUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("读取用户 %s 失败: %w", desc, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("用户 %s: %w", desc, constant.ErrNotFound)
	}
	return users[0], nil
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	s, t := r.selectUsers()
	return r.findOne(ctx, s.Where(sql.EQ(t.C("id"), id)), fmt.Sprintf("#%d", id))
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	s, t := r.selectUsers()
	return r.findOne(ctx, s.Where(sql.EQ(t.C("username"), username)), fmt.Sprintf("%q", username))
}

func (r *userRepo) FindAllByEmail(ctx context.Context, email string) ([]*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	s, t := r.selectUsers()
	s.Where(sql.EqualFold(t.C("email"), email)).OrderBy(t.C("id"))
	rows, err := r.query(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("按邮箱查询用户失败: %w", err)
	}
	return r.scanUsers(rows)
}

func (r *userRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	t := r.builder().Table(tableUsers)
	n, err := r.countInt(ctx, r.builder().Select(sql.Count("*")).From(t).
		Where(sql.EqualFold(t.C("username"), username)))
	if err != nil {
		return false, fmt.Errorf("检查用户名失败: %w", err)
	}
	return n > 0, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateOne(ctx, id, r.builder().Update(tableUsers).Set("password_hash", passwordHash))
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateOne(ctx, id, r.builder().Update(tableUsers).Set("last_login_at", dbTime(at)))
}

func (r *userRepo) updateOne(ctx context.Context, id uint, ub *sql.UpdateBuilder) error {
	res, err := r.exec(ctx, ub.Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("更新用户 #%d 失败: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("用户 #%d: %w", id, constant.ErrNotFound)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uint) error {
	posts := r.builder().Table(tablePosts)
	rows, err := r.query(ctx, r.builder().Select(posts.C("id")).From(posts).Where(sql.EQ(posts.C("author_id"), id)))
	if err != nil {
		return fmt.Errorf("查询用户文章失败: %w", err)
	}
	postIDs, err := scanIDs(rows)
	if err != nil {
		return err
	}

	postRepo := &postRepo{r.baseRepo}
	if err := postRepo.deleteByIDs(ctx, postIDs); err != nil {
		return err
	}
	if _, err := r.exec(ctx, r.builder().Delete(tableComments).Where(sql.EQ("author_id", id))); err != nil {
		return fmt.Errorf("删除用户评论失败: %w", err)
	}
	res, err := r.exec(ctx, r.builder().Delete(tableUsers).Where(sql.EQ("id", id)))
	if err != nil {
		return fmt.Errorf("删除用户 #%d 失败: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("用户 #%d: %w", id, constant.ErrNotFound)
	}
	return nil
}

func scanIDs(rows *sql.Rows) ([]uint, error) {
	defer rows.Close()
	var ids []uint
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, rows.Err()
}
