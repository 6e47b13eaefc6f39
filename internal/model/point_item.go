package model

type PointItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Cost     float64 `json:"cost"`
	Icon     string  `json:"icon"`
	Category string  `json:"category"`
}

var pointCatalog = []PointItem{
	{ID: "1", Name: "职场烧烤资助金", Cost: 1000, Icon: "🍢", Category: "生活"},
	{ID: "2", Name: "高级职场办公用品", Cost: 500, Icon: "📔", Category: "办公"},
	{ID: "3", Name: "职场加油补贴", Cost: 800, Icon: "⛽", Category: "出行"},
	{ID: "4", Name: "下午茶精致套餐", Cost: 300, Icon: "🍰", Category: "生活"},
	{ID: "5", Name: "通勤打车红包", Cost: 200, Icon: "🚕", Category: "出行"},
}

// PointCatalog returns a copy of the redeemable items.
func PointCatalog() []PointItem {
	out := make([]PointItem, len(pointCatalog))
	copy(out, pointCatalog)
	return out
}

func FindPointItem(id string) (PointItem, bool) {
	for _, it := range pointCatalog {
		if it.ID == id {
			return it, true
		}
	}
	return PointItem{}, false
}
