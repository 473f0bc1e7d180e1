package model

import (
	"time"
)

// Subcollection records all share the composite primary key (studio_id, id)
// so that deterministic ids like the seeded class types never collide
// between studios.

// ClassType is an offered class format. The seeded defaults use fixed ids;
// studios may add their own afterwards.
type ClassType struct {
	StudioID  string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Pricing   string    `json:"pricing" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
}

type Trainer struct {
	StudioID  string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Level     string    `json:"level" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at"`
}

type Customer struct {
	StudioID  string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100)"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	Phone     string    `json:"phone" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at"`
}

type Booking struct {
	StudioID    string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID          string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	CustomerID  string    `json:"customer_id" gorm:"type:varchar(64);index"`
	ClassTypeID string    `json:"class_type_id" gorm:"type:varchar(64)"`
	TrainerID   string    `json:"trainer_id" gorm:"type:varchar(64)"`
	StartsAt    time.Time `json:"starts_at"`
	Status      string    `json:"status" gorm:"type:varchar(50)"`
	CreatedAt   time.Time `json:"created_at"`
}

type Payment struct {
	StudioID  string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID        string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	Amount    int64     `json:"amount"`
	Method    string    `json:"method" gorm:"type:varchar(50)"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerPayment struct {
	StudioID   string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID         string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	CustomerID string    `json:"customer_id" gorm:"type:varchar(64);index"`
	Amount     int64     `json:"amount"`
	PaidAt     time.Time `json:"paid_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type AdvancePayment struct {
	StudioID     string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID           string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	CustomerID   string    `json:"customer_id" gorm:"type:varchar(64);index"`
	Amount       int64     `json:"amount"`
	SessionsLeft int       `json:"sessions_left"`
	CreatedAt    time.Time `json:"created_at"`
}

type SessionDebt struct {
	StudioID   string    `json:"studio_id" gorm:"type:varchar(36);primaryKey"`
	ID         string    `json:"id" gorm:"type:varchar(64);primaryKey"`
	CustomerID string    `json:"customer_id" gorm:"type:varchar(64);index"`
	Sessions   int       `json:"sessions"`
	Note       string    `json:"note" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Subcollection names one studio-scoped record set and the model that backs it.
type Subcollection struct {
	Name  string
	Model interface{}
}

// Subcollections returns every studio-scoped record set in the fixed order
// the lifecycle controller processes them during a cascading delete. The
// order is deterministic; the studio root row is never part of this list
// because it must outlive all of its subcollections.
func Subcollections() []Subcollection {
	return []Subcollection{
		{Name: "classTypes", Model: &ClassType{}},
		{Name: "trainers", Model: &Trainer{}},
		{Name: "customers", Model: &Customer{}},
		{Name: "bookings", Model: &Booking{}},
		{Name: "payments", Model: &Payment{}},
		{Name: "customerPayments", Model: &CustomerPayment{}},
		{Name: "advancePayments", Model: &AdvancePayment{}},
		{Name: "sessionDebts", Model: &SessionDebt{}},
	}
}

// AllModels lists every model for migration, studio root and identity
// accounts included.
func AllModels() []interface{} {
	models := []interface{}{&Studio{}, &IdentityAccount{}}
	for _, sub := range Subcollections() {
		models = append(models, sub.Model)
	}
	return models
}
