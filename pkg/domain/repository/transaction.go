// pkg/domain/repository/transaction.go
package repository

import "context"

// Repositories 结构体聚合了所有在单个事务中可能用到的仓储接口。
type Repositories struct {
	User         UserRepository
	Post         PostRepository
	Comment      CommentRepository
	PostCategory PostCategoryRepository
	PostTag      PostTagRepository
	Setting      SettingRepository
}

// TransactionManager 定义了事务管理器的接口。
// 它执行一个业务逻辑单元，并确保其中的所有数据库操作都在单个事务中完成。
type TransactionManager interface {
	// Do 方法接收一个函数，该函数会在一个事务中被调用。
	// 如果函数返回错误，事务将回滚；否则，事务将提交。
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
