package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookfund/pkg/errors"
	"github.com/xiebiao/bookfund/pkg/response"
)

// pathID 解析路径参数中的ID,失败时已写入响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("无效的"+name))
		return 0, false
	}
	return uint(id), true
}

// queryVersion 删除操作的期望版本号(?version=)
func queryVersion(c *gin.Context) (uint64, bool) {
	v, err := strconv.ParseUint(c.Query("version"), 10, 64)
	if err != nil || v == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("缺少或无效的version参数"))
		return 0, false
	}
	return v, true
}

// bind JSON绑定失败时返回40901
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数格式错误: "+err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "查询参数格式错误: "+err.Error())
		return false
	}
	return true
}
