// Package query 查询组合器
//
// 过滤条件(BookFilter等)只是数据,编译成Predicate后:
//   - 内存实现用Match逐行求值
//   - GORM实现翻译成WHERE子句(见persistence/mysql/predicate.go)
//
// 两者语义一致:条件之间是AND;文本搜索条件在自身字段列表内是OR,
// 大小写不敏感的子串匹配。字段名即数据库列名,"author.first_name"
// 这种带前缀的字段表示关联表上的列。
package query

import (
	"fmt"
	"reflect"
	"strings"
)

// Op 比较运算符
type Op int

const (
	OpEq       Op = iota + 1 // 等于
	OpGte                    // 大于等于
	OpLte                    // 小于等于
	OpContains               // 子串包含(任一字段)
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpGte:
		return "gte"
	case OpLte:
		return "lte"
	case OpContains:
		return "contains"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Condition 单个条件
// 除OpContains外Fields只有一个元素
type Condition struct {
	Fields []string
	Op     Op
	Value  interface{}
}

// Predicate 条件的合取
// 零值表示不加任何约束
type Predicate struct {
	Conditions []Condition
}

// All 匹配所有行
func All() Predicate { return Predicate{} }

// And 追加条件,返回新的Predicate
func (p Predicate) And(conds ...Condition) Predicate {
	out := make([]Condition, 0, len(p.Conditions)+len(conds))
	out = append(out, p.Conditions...)
	out = append(out, conds...)
	return Predicate{Conditions: out}
}

func (p Predicate) IsEmpty() bool { return len(p.Conditions) == 0 }

func Eq(field string, value interface{}) Condition {
	return Condition{Fields: []string{field}, Op: OpEq, Value: value}
}

func Gte(field string, value interface{}) Condition {
	return Condition{Fields: []string{field}, Op: OpGte, Value: value}
}

func Lte(field string, value interface{}) Condition {
	return Condition{Fields: []string{field}, Op: OpLte, Value: value}
}

// Contains text出现在任一字段中(大小写不敏感)
func Contains(text string, fields ...string) Condition {
	return Condition{Fields: fields, Op: OpContains, Value: text}
}

// Fields 一行数据的字段视图(内存求值用)
type Fields map[string]interface{}

// Match 在内存中对一行求值
// 缺失的字段视为不满足条件
func Match(p Predicate, row Fields) bool {
	for _, c := range p.Conditions {
		if !matchCondition(c, row) {
			return false
		}
	}
	return true
}

func matchCondition(c Condition, row Fields) bool {
	if c.Op == OpContains {
		needle := strings.ToLower(fmt.Sprint(c.Value))
		for _, f := range c.Fields {
			v, ok := row[f]
			if !ok || v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	}

	if len(c.Fields) != 1 {
		return false
	}
	v, ok := row[c.Fields[0]]
	if !ok || v == nil {
		return false
	}

	switch c.Op {
	case OpEq:
		return equal(v, c.Value)
	case OpGte:
		l, lok := toInt64(v)
		r, rok := toInt64(c.Value)
		return lok && rok && l >= r
	case OpLte:
		l, lok := toInt64(v)
		r, rok := toInt64(c.Value)
		return lok && rok && l <= r
	default:
		return false
	}
}

func equal(a, b interface{}) bool {
	if l, ok := toInt64(a); ok {
		r, ok := toInt64(b)
		return ok && l == r
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch av.Kind() {
	case reflect.Bool:
		return bv.Kind() == reflect.Bool && av.Bool() == bv.Bool()
	case reflect.String:
		return bv.Kind() == reflect.String && av.String() == bv.String()
	default:
		return reflect.DeepEqual(a, b)
	}
}

// toInt64 统一数值类型(包括OrderStatus这类具名整数类型)
func toInt64(v interface{}) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	default:
		return 0, false
	}
}
