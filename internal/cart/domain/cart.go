package domain

import "github.com/shopspring/decimal"

// Line is one cart entry. UnitPrice is snapshotted when the line is first
// created and survives later catalog price changes.
type Line struct {
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Cart is the per-session mutable mapping from drug id to line. It is a
// plain value; persistence goes through the cart store port.
type Cart struct {
	Lines map[string]Line `json:"lines"`
}

func New() Cart {
	return Cart{Lines: make(map[string]Line)}
}

// Add inserts the drug with quantity 0 if absent, then either overrides the
// stored quantity or increments it.
func (c *Cart) Add(drugID string, unitPrice decimal.Decimal, quantity int, override bool) {
	if c.Lines == nil {
		c.Lines = make(map[string]Line)
	}

	line, ok := c.Lines[drugID]
	if !ok {
		line = Line{Quantity: 0, UnitPrice: unitPrice}
	}

	if override {
		line.Quantity = quantity
	} else {
		line.Quantity += quantity
	}

	c.Lines[drugID] = line
}

// Remove drops the line if present; removing an absent line is a no-op.
func (c *Cart) Remove(drugID string) {
	delete(c.Lines, drugID)
}

// Clear discards all lines.
func (c *Cart) Clear() {
	c.Lines = make(map[string]Line)
}

// Quantity returns the stored quantity for a drug, zero when absent.
func (c Cart) Quantity(drugID string) int {
	return c.Lines[drugID].Quantity
}

// Len is the total number of units across all lines, not the number of
// distinct drugs.
func (c Cart) Len() int {
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Total sums unit price x quantity over all lines; zero for an empty cart.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// DrugIDs lists the drug ids currently in the cart.
func (c Cart) DrugIDs() []string {
	ids := make([]string, 0, len(c.Lines))
	for id := range c.Lines {
		ids = append(ids, id)
	}
	return ids
}
