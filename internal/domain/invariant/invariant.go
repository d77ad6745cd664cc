// Package invariant 字段级与跨字段校验
//
// Checker收集全部违规项,不在第一个错误处短路:
//
//	c := invariant.New()
//	c.Length("title", b.Title, 2, 200)
//	c.Range("price", b.Price, 1, 99999)
//	c.Foreign(ctx, refs, "author_id", store.KindAuthor, b.AuthorID)
//	return c.Err()
//
// 除外键外所有检查都是纯函数;外键检查通过Refs读存储。
package invariant

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/xiebiao/bookfund/internal/domain/store"
	apperrors "github.com/xiebiao/bookfund/pkg/errors"
)

// Rule 校验规则类别
type Rule string

const (
	RuleRequired   Rule = "required"
	RuleRange      Rule = "range"
	RuleLength     Rule = "length"
	RuleFormat     Rule = "format"
	RuleForeignKey Rule = "foreign_key"
	RuleTransition Rule = "transition"
)

// FieldViolation 一条违规
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Operation 校验发生在哪种写操作上
type Operation int

const (
	OpCreate Operation = iota + 1
	OpUpdate
)

// Refs 外键存在性检查
type Refs interface {
	Exists(ctx context.Context, kind store.Kind, id uint) (bool, error)
}

// Checker 违规收集器
type Checker struct {
	violations []FieldViolation
	err        error // 外键检查时的存储错误
}

func New() *Checker {
	return &Checker{}
}

// Add 直接追加一条违规
func (c *Checker) Add(field string, rule Rule, format string, args ...interface{}) {
	c.violations = append(c.violations, FieldViolation{
		Field:   field,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

// Check ok为false时记录违规
func (c *Checker) Check(ok bool, field string, rule Rule, format string, args ...interface{}) {
	if !ok {
		c.Add(field, rule, format, args...)
	}
}

// Required 字符串必填(忽略首尾空白)
func (c *Checker) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		c.Add(field, RuleRequired, "%s不能为空", field)
		return false
	}
	return true
}

// Length 必填且长度(按字符计)在[min, max]内
func (c *Checker) Length(field, value string, min, max int) {
	if !c.Required(field, value) {
		return
	}
	c.lengthOnly(field, value, min, max)
}

// MaxLength 可选字段的长度上限,空字符串不检查
func (c *Checker) MaxLength(field, value string, max int) {
	if value == "" {
		return
	}
	c.lengthOnly(field, value, 0, max)
}

func (c *Checker) lengthOnly(field, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		if min > 0 {
			c.Add(field, RuleLength, "%s长度必须在%d-%d之间", field, min, max)
		} else {
			c.Add(field, RuleLength, "%s长度不能超过%d", field, max)
		}
	}
}

// Range 整数范围(含边界)
func (c *Checker) Range(field string, value, min, max int64) {
	if value < min || value > max {
		c.Add(field, RuleRange, "%s必须在%d-%d之间", field, min, max)
	}
}

// Min 整数下限(含边界)
func (c *Checker) Min(field string, value, min int64) {
	if value < min {
		c.Add(field, RuleRange, "%s不能小于%d", field, min)
	}
}

// Email 邮箱格式;optional为true时空值跳过
func (c *Checker) Email(field, value string, optional bool) {
	if value == "" {
		if !optional {
			c.Add(field, RuleRequired, "%s不能为空", field)
		}
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		c.Add(field, RuleFormat, "%s不是有效的邮箱地址", field)
	}
}

// URL 可选的http(s)绝对地址
func (c *Checker) URL(field, value string, max int) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		c.Add(field, RuleFormat, "%s不是有效的URL", field)
		return
	}
	c.lengthOnly(field, value, 0, max)
}

// Foreign 外键必须指向存在的行
// id为0视为未填写;存储错误记下后由Err返回(优先于违规列表)
func (c *Checker) Foreign(ctx context.Context, refs Refs, field string, kind store.Kind, id uint) {
	if id == 0 {
		c.Add(field, RuleRequired, "%s不能为空", field)
		return
	}
	if c.err != nil {
		return
	}
	ok, err := refs.Exists(ctx, kind, id)
	if err != nil {
		c.err = err
		return
	}
	if !ok {
		c.Add(field, RuleForeignKey, "%s %d 不存在", kind.Label(), id)
	}
}

// Violations 已收集的违规
func (c *Checker) Violations() []FieldViolation {
	return c.violations
}

// Err 存储错误优先;否则有违规时返回ValidationFailed
func (c *Checker) Err() error {
	if c.err != nil {
		return c.err
	}
	return Failed(c.violations)
}

// Failed 把违规列表转成ValidationFailed错误,列表为空返回nil
func Failed(violations []FieldViolation) error {
	if len(violations) == 0 {
		return nil
	}
	return apperrors.ErrValidationFailed.WithDetails(violations)
}

// ViolationsOf 从错误中取出违规列表
func ViolationsOf(err error) []FieldViolation {
	appErr := apperrors.GetAppError(err)
	if appErr.Code != apperrors.ErrCodeValidationFailed {
		return nil
	}
	v, _ := appErr.Details.([]FieldViolation)
	return v
}
