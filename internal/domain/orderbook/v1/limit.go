package orderbookv1

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrNilOrder is returned when a nil order is handed to a limit.
	ErrNilOrder = errors.New("order cannot be nil")
	// ErrInvalidPrice is returned when a limit price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSize is returned when an order quantity is not positive.
	ErrInvalidSize = errors.New("size must be positive")
	// ErrOrderNotFound is returned when removing an order that is not resting here.
	ErrOrderNotFound = errors.New("order not found in limit")
)

// Limit represents a price level in the order book with its resting orders.
// Limits are owned by a single symbol's book and are never shared across
// symbols, so they carry no locking of their own.
type Limit struct {
	Price       float64  `json:"price"`
	Orders      []*Order `json:"orders"`
	TotalVolume int64    `json:"totalVolume"`
}

// NewLimit creates a new Limit with the specified price.
func NewLimit(price float64) *Limit {
	return &Limit{
		Price:  price,
		Orders: make([]*Order, 0),
	}
}

// AddOrder adds an order to the limit and updates the total volume.
func (l *Limit) AddOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.Remaining() <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, order.Remaining())
	}

	order.Limit = l
	l.Orders = append(l.Orders, order)
	l.TotalVolume += order.Remaining()

	return nil
}

// RemoveOrder removes an order from the limit and updates the total volume.
func (l *Limit) RemoveOrder(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	for i, o := range l.Orders {
		if o == order {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			l.TotalVolume -= order.Remaining()
			order.Limit = nil
			return nil
		}
	}

	return ErrOrderNotFound
}

// Fill matches the incoming order against this level's resting orders in
// price-time priority, skipping orders that belong to the incoming order's
// agent. Fills happen at the level's price: the resting side keeps the price
// improvement. Returns the matches produced.
func (l *Limit) Fill(incoming *Order, tick int64) []Match {
	if incoming == nil {
		return nil
	}

	var matches []Match

	for _, resting := range l.OrdersByPriority() {
		if incoming.Remaining() <= 0 {
			break
		}

		// never cross an agent with itself
		if resting.AgentID == incoming.AgentID {
			continue
		}

		quantity := incoming.Remaining()
		if resting.Remaining() < quantity {
			quantity = resting.Remaining()
		}

		resting.RecordFill(quantity, l.Price, tick)
		incoming.RecordFill(quantity, l.Price, tick)
		l.TotalVolume -= quantity

		matches = append(matches, Match{
			Maker:      resting,
			Taker:      incoming,
			SizeFilled: quantity,
			Price:      l.Price,
		})
	}

	// drop fully filled resting orders
	kept := l.Orders[:0]
	for _, o := range l.Orders {
		if o.IsFilled() {
			o.Limit = nil
			continue
		}
		kept = append(kept, o)
	}
	l.Orders = kept

	return matches
}

// FillableVolume returns the resting volume available to the given agent,
// excluding the agent's own orders.
func (l *Limit) FillableVolume(agentID string) int64 {
	var volume int64
	for _, o := range l.Orders {
		if o.AgentID == agentID {
			continue
		}
		volume += o.Remaining()
	}
	return volume
}

// IsEmpty checks if the limit has no orders.
func (l *Limit) IsEmpty() bool {
	return len(l.Orders) == 0
}

// OrderCount returns the number of orders at this limit.
func (l *Limit) OrderCount() int {
	return len(l.Orders)
}

// OrdersByPriority returns the resting orders sorted by submission tick then
// sequence.
func (l *Limit) OrdersByPriority() []*Order {
	orders := make([]*Order, len(l.Orders))
	copy(orders, l.Orders)

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Before(orders[j])
	})

	return orders
}

// Validate performs basic validation of the limit's state.
func (l *Limit) Validate() error {
	if l.Price <= 0 {
		return fmt.Errorf("%w: limit price %f", ErrInvalidPrice, l.Price)
	}

	var calculated int64
	for _, order := range l.Orders {
		if order == nil {
			return fmt.Errorf("nil order found in limit")
		}
		if order.Remaining() < 0 {
			return fmt.Errorf("%w: order %s has remaining %d", ErrInvalidSize, order.ID, order.Remaining())
		}
		calculated += order.Remaining()
	}

	if calculated != l.TotalVolume {
		return fmt.Errorf("volume mismatch: calculated %d, stored %d", calculated, l.TotalVolume)
	}

	return nil
}
