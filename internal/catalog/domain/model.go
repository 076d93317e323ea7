package domain

import "time"

// Product is a storefront listing owned by a store.
type Product struct {
	ID          string   `firestore:"-" json:"id"`
	StoreID     string   `firestore:"storeId" json:"store_id"`
	Name        string   `firestore:"name" json:"name"`
	Brand       string   `firestore:"brand,omitempty" json:"brand,omitempty"`
	Description string   `firestore:"description,omitempty" json:"description,omitempty"`
	Category    string   `firestore:"category,omitempty" json:"category,omitempty"`
	Price       float64  `firestore:"price" json:"price"`
	Stock       int      `firestore:"stock" json:"stock"`
	Images      []string `firestore:"images,omitempty" json:"images,omitempty"`

	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"created_at"`
}

// OrderItem is one product line in an order.
type OrderItem struct {
	ProductID string  `firestore:"productId" json:"product_id"`
	Name      string  `firestore:"name" json:"name"`
	Quantity  int     `firestore:"quantity" json:"quantity"`
	Price     float64 `firestore:"price" json:"price"`
}

// Order is a customer purchase.
type Order struct {
	ID      string      `firestore:"-" json:"id"`
	UserID  string      `firestore:"userId" json:"user_id"`
	StoreID string      `firestore:"storeId" json:"store_id"`
	Items   []OrderItem `firestore:"items" json:"items"`
	Total   float64     `firestore:"total" json:"total"`
	Status  string      `firestore:"status" json:"status"`

	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"created_at"`
}
