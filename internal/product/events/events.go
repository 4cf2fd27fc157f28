// Package events contains the change events emitted after successful product mutations.
package events

import (
	"encoding/json"
	"time"
)

const (
	SubjectPrefix         = "inventory.products."
	ProductCreatedSubject = SubjectPrefix + "created"
	ProductUpdatedSubject = SubjectPrefix + "updated"
	ProductDeletedSubject = SubjectPrefix + "deleted"
)

// ProductSnapshot is the product state carried by created and updated events.
type ProductSnapshot struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Sku      string  `json:"sku"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

type ProductCreatedEvent struct {
	Product    ProductSnapshot `json:"product"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e ProductCreatedEvent) Subject() string {
	return ProductCreatedSubject
}

func (e ProductCreatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductUpdatedEvent struct {
	Product    ProductSnapshot `json:"product"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e ProductUpdatedEvent) Subject() string {
	return ProductUpdatedSubject
}

func (e ProductUpdatedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}

type ProductDeletedEvent struct {
	ProductID  int       `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e ProductDeletedEvent) Subject() string {
	return ProductDeletedSubject
}

func (e ProductDeletedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
