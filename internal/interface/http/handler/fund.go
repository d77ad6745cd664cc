package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookfund/internal/application/facade"
	"github.com/xiebiao/bookfund/internal/domain/query"
	"github.com/xiebiao/bookfund/internal/domain/store"
	"github.com/xiebiao/bookfund/internal/interface/http/dto"
	"github.com/xiebiao/bookfund/internal/interface/http/middleware"
	"github.com/xiebiao/bookfund/pkg/response"
)

// FundHandler 基金与个人投资
// /me下的接口只操作Token中用户自己的投资记录
type FundHandler struct {
	engine *facade.Facade
}

func NewFundHandler(engine *facade.Facade) *FundHandler {
	return &FundHandler{engine: engine}
}

// ListFundInfo 基金列表(含银行名称)
// @Summary      基金列表
// @Tags         基金
// @Produce      json
// @Param        bank_id     query int    false "银行ID"
// @Param        fund_type   query string false "基金类型" Enums(Green, Yellow, Brown, Black, Blue)
// @Param        search      query string false "基金名称"
// @Param        active_only query bool   false "只看有效基金,默认true"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.FundInfoResponse}}
// @Router       /api/v1/funds/info [get]
func (h *FundHandler) ListFundInfo(c *gin.Context) {
	var req dto.ListFundsRequest
	if !bindQuery(c, &req) {
		return
	}
	infos, err := h.engine.ListFundInfo(c.Request.Context(), req.Filter())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.NewFundInfoList(infos), int64(len(infos)))
}

// ListInvestments 我的投资
// @Summary      我的投资
// @Tags         投资
// @Produce      json
// @Security     BearerAuth
// @Param        active_only query bool false "只看有效投资,默认true"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.InvestmentResponse}}
// @Router       /api/v1/me/investments [get]
func (h *FundHandler) ListInvestments(c *gin.Context) {
	var req struct {
		ActiveOnly *bool `form:"active_only"`
	}
	if !bindQuery(c, &req) {
		return
	}
	userID := middleware.GetUserID(c)
	list, err := h.engine.ListUserFunds(c.Request.Context(), query.UserFundFilter{UserID: &userID, ActiveOnly: req.ActiveOnly})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithList(c, dto.NewInvestmentList(list), int64(len(list)))
}

// CreateInvestment 新增投资
// @Summary      新增投资
// @Description  同一事务内重算投资总值与有效投资笔数
// @Tags         投资
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.InvestmentRequest true "投资信息"
// @Success      201 {object} response.Response{data=dto.InvestmentResponse}
// @Failure      422 {object} response.Response{data=[]invariant.FieldViolation} "字段校验失败"
// @Router       /api/v1/me/investments [post]
func (h *FundHandler) CreateInvestment(c *gin.Context) {
	var req dto.InvestmentRequest
	if !bind(c, &req) {
		return
	}
	uf, err := h.engine.CreateUserFund(c.Request.Context(), req.ToEntity(middleware.GetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewInvestmentResponse(uf))
}

// UpdateInvestment 修改投资
// @Summary      修改投资
// @Tags         投资
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                         true "投资ID"
// @Param        request body dto.UpdateInvestmentRequest true "投资信息"
// @Success      200 {object} response.Response{data=dto.InvestmentResponse}
// @Failure      404 {object} response.Response "投资记录不存在"
// @Failure      409 {object} response.Response{data=concurrency.ConflictDetail} "版本冲突"
// @Router       /api/v1/me/investments/{id} [put]
func (h *FundHandler) UpdateInvestment(c *gin.Context) {
	id, ok := h.ownInvestment(c)
	if !ok {
		return
	}
	var req dto.UpdateInvestmentRequest
	if !bind(c, &req) {
		return
	}
	uf, err := h.engine.UpdateUserFund(c.Request.Context(), id, req.Version, req.ToEntity(middleware.GetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewInvestmentResponse(uf))
}

// DeleteInvestment 删除投资
// @Summary      删除投资
// @Tags         投资
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  int true "投资ID"
// @Param        version query int true "期望版本号"
// @Success      200 {object} response.Response
// @Router       /api/v1/me/investments/{id} [delete]
func (h *FundHandler) DeleteInvestment(c *gin.Context) {
	id, ok := h.ownInvestment(c)
	if !ok {
		return
	}
	version, ok := queryVersion(c)
	if !ok {
		return
	}
	if err := h.engine.DeleteUserFund(c.Request.Context(), id, version); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetPortfolio 投资概览
// @Summary      投资概览
// @Description  全部投资记录(含无效)及基金、银行名称,以及有效投资的市值合计
// @Tags         投资
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.PortfolioResponse}
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/v1/me/portfolio [get]
func (h *FundHandler) GetPortfolio(c *gin.Context) {
	ov, err := h.engine.GetPortfolioOverview(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.NewPortfolioResponse(ov))
}

// ownInvestment 别人的投资记录按不存在处理
func (h *FundHandler) ownInvestment(c *gin.Context) (uint, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return 0, false
	}
	uf, err := h.engine.GetUserFund(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return 0, false
	}
	if uf.UserID != middleware.GetUserID(c) {
		response.Error(c, store.NotFoundError(store.KindUserFund, id))
		return 0, false
	}
	return id, true
}
