package repository

import "time"

// UserListFilter filters user listings.
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ProductListFilter filters product listings.
type ProductListFilter struct {
	Page          int
	PageSize      int
	Search        string
	Category      string
	FarmID        uint
	OnlyAvailable bool
	WithFarm      bool
}

// OrderListFilter filters order listings.
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	FarmID      uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ReviewListFilter filters review listings.
type ReviewListFilter struct {
	Page      int
	PageSize  int
	UserID    uint
	ProductID uint
	FarmID    uint
	WithUser  bool
}
