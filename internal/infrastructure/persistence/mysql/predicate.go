package mysql

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/bookfund/internal/domain/query"
)

// join 带前缀字段对应的关联表
// "author.first_name" → LEFT JOIN authors AS author ON author.id = books.author_id
type join struct {
	table      string // 关联表名
	foreignKey string // 主表上的外键列
}

var identRe = regexp.MustCompile(`^[a-z_]+(\.[a-z_]+)?$`)

// LIKE转义:用!作为转义符,MySQL与SQLite都支持ESCAPE子句
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(text string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
}

// applyPredicate 把query.Predicate翻译成WHERE子句
// 与query.Match语义一致:条件之间AND,文本搜索在自身字段内OR
func applyPredicate(db *gorm.DB, table string, pred query.Predicate, joins map[string]join) *gorm.DB {
	joined := make(map[string]bool)

	column := func(field string) (string, error) {
		if !identRe.MatchString(field) {
			return "", fmt.Errorf("非法字段名: %q", field)
		}
		alias, col, qualified := strings.Cut(field, ".")
		if !qualified {
			return table + "." + field, nil
		}
		j, ok := joins[alias]
		if !ok {
			return "", fmt.Errorf("%s不支持关联字段: %q", table, field)
		}
		if !joined[alias] {
			joined[alias] = true
			db = db.Joins(fmt.Sprintf("LEFT JOIN %s AS %s ON %s.id = %s.%s",
				j.table, alias, alias, table, j.foreignKey))
		}
		return alias + "." + col, nil
	}

	for _, c := range pred.Conditions {
		if c.Op == query.OpContains {
			parts := make([]string, 0, len(c.Fields))
			args := make([]interface{}, 0, len(c.Fields))
			pattern := likePattern(fmt.Sprint(c.Value))
			for _, f := range c.Fields {
				col, err := column(f)
				if err != nil {
					_ = db.AddError(err)
					return db
				}
				parts = append(parts, "LOWER("+col+") LIKE ? ESCAPE '!'")
				args = append(args, pattern)
			}
			db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
			continue
		}

		if len(c.Fields) != 1 {
			_ = db.AddError(fmt.Errorf("条件%s只能有一个字段", c.Op))
			return db
		}
		col, err := column(c.Fields[0])
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		switch c.Op {
		case query.OpEq:
			db = db.Where(col+" = ?", c.Value)
		case query.OpGte:
			db = db.Where(col+" >= ?", c.Value)
		case query.OpLte:
			db = db.Where(col+" <= ?", c.Value)
		default:
			_ = db.AddError(fmt.Errorf("不支持的运算符: %s", c.Op))
			return db
		}
	}
	return db
}
