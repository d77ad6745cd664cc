package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/internal/interface/http/dto"
	"github.com/xiebiao/bookfund/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	engine *facade.Facade
}

func NewBookHandler(engine *facade.Facade) *BookHandler {
	return &BookHandler{engine: engine}
}

// ListBooks 查询图书
// @Summary      查询图书
// @Description  按书名/作者/ISBN子串、分类、价格区间过滤,默认只返回上架图书
// @Tags         图书
// @Produce      json
// @Param        search      query string false "书名/作者名/ISBN"
// @Param        category_id query int    false "分类ID"
// @Param        min_price   query int    false "最低价(分,含)"
// @Param        max_price   query int    false "最高价(分,含)"
// @Param        active_only query bool   false "只看上架图书,默认true"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.BookResponse}}
// @Failure      503 {object} response.Response "存储不可用"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if !bindQuery(c, &req) {
		return
	}
	books, err := h.engine.ListBooks(c.Request.Context(), req.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.NewBookList(books), int64(len(books)))
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.engine.GetBook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// CreateBook 新增图书
// @Summary      新增图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.BookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "需要管理员角色"
// @Failure      422 {object} response.Response{data=[]invariant.FieldViolation} "字段校验失败"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.engine.CreateBook(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewBookResponse(b))
}

// UpdateBook 修改图书
// @Summary      修改图书
// @Description  version必须等于读取时的版本号,否则返回409及当前版本号
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "图书ID"
// @Param        request body dto.UpdateBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response{data=concurrency.ConflictDetail} "版本冲突"
// @Failure      422 {object} response.Response{data=[]invariant.FieldViolation} "字段校验失败"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bind(c, &req) {
		return
	}
	b, err := h.engine.UpdateBook(c.Request.Context(), id, req.Version, req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewBookResponse(b))
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  被订单明细引用的图书不能删除(409),只能下架
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int true "图书ID"
// @Param        version query int true "期望版本号"
// @Success      200 {object} response.Response
// @Failure      409 {object} response.Response{data=facade.DependentDetail} "存在关联数据或版本冲突"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	version, ok := queryVersion(c)
	if !ok {
		return
	}
	if err := h.engine.DeleteBook(c.Request.Context(), id, version); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
