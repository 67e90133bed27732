package grid

// Order is one traversal of the grid: rows in Ys order, and within each row
// columns in Xs order.
type Order struct {
	Name string
	Xs   []int
	Ys   []int
}

// OrderCycle rotates through the four axis-direction combinations so that
// cascading motion does not drift towards one corner.
type OrderCycle struct {
	orders [4]Order
	next   int
}

// NewOrderCycle pre-builds the four orders for a w*h grid.
func NewOrderCycle(w, h int) *OrderCycle {
	xAsc, xDesc := sequence(w, false), sequence(w, true)
	yAsc, yDesc := sequence(h, false), sequence(h, true)
	return &OrderCycle{orders: [4]Order{
		{Name: "x+y+", Xs: xAsc, Ys: yAsc},
		{Name: "x+y-", Xs: xAsc, Ys: yDesc},
		{Name: "x-y-", Xs: xDesc, Ys: yDesc},
		{Name: "x-y+", Xs: xDesc, Ys: yAsc},
	}}
}

// Next returns the current order and advances the cycle.
func (c *OrderCycle) Next() Order {
	o := c.orders[c.next]
	c.next = (c.next + 1) % len(c.orders)
	return o
}

// Reset makes the next call to Next return the first order again.
func (c *OrderCycle) Reset() { c.next = 0 }

func sequence(n int, desc bool) []int {
	out := make([]int, n)
	for i := range out {
		if desc {
			out[i] = n - 1 - i
		} else {
			out[i] = i
		}
	}
	return out
}
