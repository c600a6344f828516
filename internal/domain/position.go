package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Position holds signed quantities per book for one product.
type Position struct {
	Product Bond
	books   map[string]int64
}

// NewPosition returns an empty position for product.
func NewPosition(product Bond) Position {
	return Position{Product: product, books: make(map[string]int64)}
}

// Book returns the quantity held in book, zero if never traded.
func (p Position) Book(book string) int64 {
	return p.books[book]
}

// Add accumulates qty into book.
func (p *Position) Add(book string, qty int64) {
	if p.books == nil {
		p.books = make(map[string]int64)
	}
	p.books[book] += qty
}

// Aggregate is the sum over all books.
func (p Position) Aggregate() int64 {
	var total int64
	for _, q := range p.books {
		total += q
	}
	return total
}

// Books returns the book names in lexical order.
func (p Position) Books() []string {
	names := make([]string, 0, len(p.books))
	for name := range p.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (p Position) Clone() Position {
	c := Position{Product: p.Product, books: make(map[string]int64, len(p.books))}
	for k, v := range p.books {
		c.books[k] = v
	}
	return c
}

func (p Position) PersistKey() string { return p.Product.Ticker }

func (p Position) String() string {
	var b strings.Builder
	b.WriteString(p.Product.Ticker)
	for _, name := range p.Books() {
		fmt.Fprintf(&b, ", %s: %d", name, p.books[name])
	}
	fmt.Fprintf(&b, ", Total : %d", p.Aggregate())
	return b.String()
}

// PV01 is the risk record for one product together with its bucket total.
type PV01 struct {
	Product    Bond
	PV01       float64
	Quantity   int64
	Bucket     string
	BucketPV01 float64
}

func (r PV01) PersistKey() string { return r.Product.Ticker }

func (r PV01) String() string {
	return fmt.Sprintf("%s, risk: %.6f, Quantity: %d, Bucket %s risk: %.6f",
		r.Product.Ticker, r.PV01, r.Quantity, r.Bucket, r.BucketPV01)
}

// SectorRisk is the aggregated PV01 of a bucketed sector.
type SectorRisk struct {
	Sector   BucketedSector
	PV01     float64
	Quantity int64
}
