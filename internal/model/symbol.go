package model

// 符号类型；裸 ticker（无 $ 前缀、非已知币种）kind 留空，不做猜测
const (
	SymbolKindStock  = "STOCK"
	SymbolKindCrypto = "CRYPTO"
)

// Symbol 帖子关联的标的符号（ticker 全大写归一化）
type Symbol struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	Ticker   string `gorm:"type:varchar(16);uniqueIndex:ux_symbol_ticker;not null" json:"ticker"`
	Kind     string `gorm:"type:varchar(8)" json:"kind,omitempty"`
	Exchange string `gorm:"type:varchar(16)" json:"exchange,omitempty"`
}

func (Symbol) TableName() string { return "symbols" }
