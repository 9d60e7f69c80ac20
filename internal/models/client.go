package models

import "time"

// Client is a customer of the workshop, with contact data and the
// primary vehicle the orders refer to. Clients are never deleted.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"not null" json:"phone"`
	Email     string    `json:"email,omitempty"`
	CarModel  string    `gorm:"not null" json:"car_model"`
	CarPlate  string    `gorm:"not null" json:"car_plate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
