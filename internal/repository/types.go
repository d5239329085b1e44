package repository

// GiftListFilter 礼物列表查询条件
type GiftListFilter struct {
	SenderID uint
	Status   string
	Page     int
	PageSize int
}
