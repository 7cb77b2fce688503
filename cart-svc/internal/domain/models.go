package domain

// CartLine is one merge bucket in the cart. Two additions of the same item
// only share a line when they also share a pickup time.
type CartLine struct {
	ItemID      int    `json:"item_id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url,omitempty"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	PickupTime  string `json:"pickup_time"`
}

// Cart is the response shape: the lines plus derived totals.
type Cart struct {
	Lines []CartLine `json:"lines"`
	Total int        `json:"total"`
	Count int        `json:"count"`
}

func BuildCart(lines []CartLine) Cart {
	cart := Cart{Lines: lines}
	if cart.Lines == nil {
		cart.Lines = []CartLine{}
	}
	for _, line := range lines {
		cart.Total += line.Price * line.Quantity
		cart.Count += line.Quantity
	}
	return cart
}
