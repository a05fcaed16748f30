// Package cart owns the shopping cart and how it is persisted between
// requests.
package cart

import (
	"errors"
	"net/http"
	"sort"
)

// MaxQuantity caps a single line.
const MaxQuantity = 99

// MaxLines caps the number of distinct products in one cart.
const MaxLines = 50

var (
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 99")
	ErrCartFull        = errors.New("cart cannot hold more than 50 products")
)

// Line is one product in the cart.
type Line struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Cart is an ordered set of lines keyed by product.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add increases the quantity of a product, adding the line if needed.
func (c *Cart) Add(productID int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			next := c.Lines[i].Quantity + qty
			if next > MaxQuantity {
				return ErrInvalidQuantity
			}
			c.Lines[i].Quantity = next
			return nil
		}
	}
	if qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	if len(c.Lines) >= MaxLines {
		return ErrCartFull
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: qty})
	return nil
}

// Set replaces the quantity of a product. Zero removes it.
func (c *Cart) Set(productID int64, qty int) error {
	if qty == 0 {
		c.Remove(productID)
		return nil
	}
	if qty < 0 || qty > MaxQuantity {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = qty
			return nil
		}
	}
	if len(c.Lines) >= MaxLines {
		return ErrCartFull
	}
	c.Lines = append(c.Lines, Line{ProductID: productID, Quantity: qty})
	return nil
}

// Remove drops a product from the cart. Missing products are ignored.
func (c *Cart) Remove(productID int64) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}

// ProductIDs returns the distinct product IDs in ascending order.
func (c *Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c.Lines))
	for _, l := range c.Lines {
		ids = append(ids, l.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Store persists a cart for the client making the request.
type Store interface {
	Load(r *http.Request) (*Cart, error)
	Save(w http.ResponseWriter, c *Cart) error
	Clear(w http.ResponseWriter)
}
