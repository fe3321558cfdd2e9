package models

import (
	"time"

	"gorm.io/datatypes"
)

// GuestBreakdown is stored inline on the reservation row.
type GuestBreakdown struct {
	Adults   int `gorm:"column:adults;default:1" json:"adults"`
	Children int `gorm:"column:children;default:0" json:"children"`
	Seniors  int `gorm:"column:seniors;default:0" json:"seniors"`
}

func (g GuestBreakdown) Total() int {
	return g.Adults + g.Children + g.Seniors
}

// Valid requires non-negative counts and at least one adult.
func (g GuestBreakdown) Valid() bool {
	return g.Adults >= 1 && g.Children >= 0 && g.Seniors >= 0
}

// Reservation rows are never deleted; settled ones stay as history.
type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:32" json:"reference_code"`
	CustomerID    uint   `gorm:"column:customer_id;index;not null" json:"customer_id"`
	RoomID        uint   `gorm:"column:room_id;index;not null" json:"room_id"`

	CheckIn  time.Time `gorm:"column:check_in;index;not null" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out;index;not null" json:"check_out"`

	Status ReservationStatus `gorm:"column:status;size:40;index;not null" json:"status"`
	Origin ReservationOrigin `gorm:"column:origin;size:20;not null" json:"origin"`

	Guests GuestBreakdown `gorm:"embedded" json:"guests"`

	PaymentReceived  bool       `gorm:"column:payment_received;default:false" json:"payment_received"`
	ConfirmationTime *time.Time `gorm:"column:confirmation_time" json:"confirmation_time,omitempty"`
	AuditedBy        *uint      `gorm:"column:audited_by;index" json:"audited_by,omitempty"`

	Notes              string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	AccompanyingGuests datatypes.JSON `gorm:"column:accompanying_guests" json:"accompanying_guests,omitempty"`

	Customer *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Room     *Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
