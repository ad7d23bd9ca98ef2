package domain

// Tick is one trade record from the time & sales table.
// Time is kept as the page's text because its format belongs to the source.
type Tick struct {
	Time   string  `json:"time"`
	Price  Decimal `json:"price"`
	Volume Decimal `json:"volume"`
}

func NewTick(time string, price, volume Decimal) Tick {
	return Tick{
		Time:   time,
		Price:  price,
		Volume: volume,
	}
}

func (t Tick) Equal(other Tick) bool {
	return t.Time == other.Time && t.Price.Equal(other.Price) && t.Volume.Equal(other.Volume)
}
