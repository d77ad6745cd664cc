package book

import (
	"github.com/xiebiao/bookfund/internal/domain/store"
)

// 图书目录的仓储接口(由infrastructure层实现)
// 乐观锁语义见store.Store
type (
	AuthorRepository   = store.Store[Author]
	CategoryRepository = store.Store[Category]
	BookRepository     = store.Store[Book]
)
