package mysql

import (
	"time"
)

// VersionedModel 所有模型共有的主键与乐观锁版本号
// 版本号由仓储显式写入(插入为1,条件更新时+1),不依赖数据库默认值
type VersionedModel struct {
	ID      uint   `gorm:"primaryKey"`
	Version uint64 `gorm:"not null;comment:乐观锁版本号"`
}

func (v *VersionedModel) base() *VersionedModel { return v }

// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换
// 3. 一对多关联字段只用于建立外键约束(ON DELETE RESTRICT),查询时不加载
// 4. 布尔字段不设default,否则GORM插入false时会被默认值覆盖

// AuthorModel 作者
type AuthorModel struct {
	VersionedModel
	FirstName string      `gorm:"size:50;not null;comment:名"`
	LastName  string      `gorm:"index;size:50;not null;comment:姓"`
	Biography string      `gorm:"type:text;comment:简介"`
	BirthDate *time.Time  `gorm:"comment:出生日期"`
	Email     string      `gorm:"size:100;comment:邮箱"`
	Website   string      `gorm:"size:500;comment:个人网站"`
	CreatedAt time.Time   `gorm:"comment:创建时间"`
	UpdatedAt time.Time   `gorm:"comment:更新时间"`
	Books     []BookModel `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}

func (AuthorModel) TableName() string { return "authors" }

// CategoryModel 分类
type CategoryModel struct {
	VersionedModel
	Name         string      `gorm:"size:100;not null;comment:分类名"`
	Description  string      `gorm:"size:500;comment:描述"`
	DisplayOrder int         `gorm:"not null;comment:排序"`
	IsActive     bool        `gorm:"index;not null;comment:是否启用"`
	CreatedAt    time.Time   `gorm:"comment:创建时间"`
	UpdatedAt    time.Time   `gorm:"comment:更新时间"`
	Books        []BookModel `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (CategoryModel) TableName() string { return "categories" }

// BookModel 图书
// 1. 价格使用int64存储"分"为单位
// 2. 复合索引idx_list优化"分类+价格区间+上架"的列表查询
type BookModel struct {
	VersionedModel
	Title         string           `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Description   string           `gorm:"type:text;comment:图书描述"`
	ISBN          string           `gorm:"index;size:20;not null;comment:ISBN号"`
	Price         int64            `gorm:"index:idx_list,priority:2;not null;comment:价格(分)"`
	StockQuantity int              `gorm:"not null;comment:库存数量"`
	PublishedDate time.Time        `gorm:"comment:出版日期"`
	IsActive      bool             `gorm:"index:idx_list,priority:3;not null;comment:是否上架"`
	ImageURL      string           `gorm:"size:500;comment:封面图片URL"`
	AuthorID      uint             `gorm:"index;not null;comment:作者ID"`
	CategoryID    uint             `gorm:"index:idx_list,priority:1;not null;comment:分类ID"`
	CreatedAt     time.Time        `gorm:"comment:创建时间"`
	UpdatedAt     time.Time        `gorm:"comment:更新时间"`
	OrderItems    []OrderItemModel `gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
}

func (BookModel) TableName() string { return "books" }

// CustomerModel 客户
type CustomerModel struct {
	VersionedModel
	FirstName        string       `gorm:"size:50;not null;comment:名"`
	LastName         string       `gorm:"size:50;not null;comment:姓"`
	Email            string       `gorm:"index;size:100;not null;comment:邮箱"`
	Phone            string       `gorm:"size:20;comment:电话"`
	Address          string       `gorm:"size:200;comment:地址"`
	City             string       `gorm:"size:50;comment:城市"`
	PostalCode       string       `gorm:"size:20;comment:邮编"`
	RegistrationDate time.Time    `gorm:"comment:注册日期"`
	CreatedAt        time.Time    `gorm:"comment:创建时间"`
	UpdatedAt        time.Time    `gorm:"comment:更新时间"`
	Orders           []OrderModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
}

func (CustomerModel) TableName() string { return "customers" }

// OrderModel 订单
// 1. 与OrderItemModel是一对多关系
// 2. OrderNumber有唯一索引(业务主键)
// 3. Status使用int存储(节省空间,便于索引)
type OrderModel struct {
	VersionedModel
	OrderNumber     string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	OrderDate       time.Time        `gorm:"index;comment:下单时间"`
	TotalAmount     int64            `gorm:"not null;comment:订单总金额(分)"`
	Status          int              `gorm:"index;type:tinyint;not null;comment:订单状态(1待支付2已支付3已发货4已完成5已取消)"`
	ShippingAddress string           `gorm:"size:200;comment:收货地址"`
	CustomerID      uint             `gorm:"index;not null;comment:客户ID"`
	CreatedAt       time.Time        `gorm:"comment:创建时间"`
	UpdatedAt       time.Time        `gorm:"comment:更新时间"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单明细
// UnitPrice记录下单时的价格快照
type OrderItemModel struct {
	VersionedModel
	Quantity  int       `gorm:"not null;comment:购买数量"`
	UnitPrice int64     `gorm:"not null;comment:下单时单价(分)"`
	OrderID   uint      `gorm:"index;not null;comment:订单ID"`
	BookID    uint      `gorm:"index;not null;comment:图书ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// BankModel 银行
type BankModel struct {
	VersionedModel
	Name        string      `gorm:"size:50;not null;comment:银行名称"`
	Description string      `gorm:"size:200;comment:描述"`
	IsActive    bool        `gorm:"index;not null;comment:是否启用"`
	CreatedDate time.Time   `gorm:"comment:创建时间"`
	UpdatedAt   time.Time   `gorm:"comment:更新时间"`
	Funds       []FundModel `gorm:"foreignKey:BankID;constraint:OnDelete:RESTRICT"`
}

func (BankModel) TableName() string { return "banks" }

// FundModel 基金
type FundModel struct {
	VersionedModel
	Name              string          `gorm:"size:100;not null;comment:基金名称"`
	Description       string          `gorm:"size:500;comment:描述"`
	Value             int64           `gorm:"not null;comment:净值(分)"`
	BankID            uint            `gorm:"index;not null;comment:银行ID"`
	FundType          string          `gorm:"index;size:20;comment:基金类型"`
	IsActive          bool            `gorm:"index;not null;comment:是否启用"`
	MinimumInvestment *int64          `gorm:"comment:最低投资额(分)"`
	CreatedDate       time.Time       `gorm:"comment:创建时间"`
	UpdatedAt         time.Time       `gorm:"comment:更新时间"`
	Investments       []UserFundModel `gorm:"foreignKey:FundID;constraint:OnDelete:RESTRICT"`
}

func (FundModel) TableName() string { return "funds" }

// UserFundModel 投资记录(用户与基金的多对多关联)
type UserFundModel struct {
	VersionedModel
	UserID           uint      `gorm:"index:idx_user_active,priority:1;not null;comment:用户ID"`
	FundID           uint      `gorm:"index;not null;comment:基金ID"`
	InvestmentAmount int64     `gorm:"not null;comment:投资金额(分)"`
	InvestmentDate   time.Time `gorm:"comment:投资日期"`
	Notes            string    `gorm:"size:500;comment:备注"`
	IsActive         bool      `gorm:"index:idx_user_active,priority:2;not null;comment:是否有效"`
	UpdatedAt        time.Time `gorm:"comment:更新时间"`
}

func (UserFundModel) TableName() string { return "user_funds" }

// UserModel 用户
// TotalInvestmentValue/ActiveInvestmentCount由聚合重算维护
type UserModel struct {
	VersionedModel
	FirstName             string          `gorm:"size:50;comment:名"`
	LastName              string          `gorm:"size:50;comment:姓"`
	Email                 string          `gorm:"size:100;comment:邮箱"`
	IsActive              bool            `gorm:"index;not null;comment:是否启用"`
	TotalInvestmentValue  int64           `gorm:"not null;comment:有效投资总值(分)"`
	ActiveInvestmentCount int             `gorm:"not null;comment:有效投资笔数"`
	CreatedAt             time.Time       `gorm:"comment:创建时间"`
	UpdatedAt             time.Time       `gorm:"comment:更新时间"`
	Investments           []UserFundModel `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

func (UserModel) TableName() string { return "users" }
