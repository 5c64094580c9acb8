package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JSONB is a custom type for GORM to handle JSONB columns
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// WalletTopup is one top-up attempt. Signals accumulates every completion
// signal the arbiter saw, inert ones included; only the arbiter writes the
// terminal Status.
type WalletTopup struct {
	ID             string     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderRef       string     `json:"order_ref" gorm:"type:varchar(100);uniqueIndex;not null"`
	CustomerID     string     `json:"customer_id" gorm:"type:varchar(100);not null;index"`
	Amount         int64      `json:"amount" gorm:"not null"`
	Channel        string     `json:"channel" gorm:"type:varchar(50);not null;default:'vnpay'"`
	PaymentURL     string     `json:"payment_url" gorm:"type:text"`
	Status         string     `json:"status" gorm:"type:varchar(50);not null;default:'pending';index"`
	ResponseCode   string     `json:"response_code" gorm:"type:varchar(10)"`
	ResolvedSource string     `json:"resolved_source" gorm:"type:varchar(50)"`
	Signals        JSONB      `json:"signals" gorm:"type:jsonb"`
	Metadata       JSONB      `json:"metadata" gorm:"type:jsonb"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	PaidAt         *time.Time `json:"paid_at"`
}

func (WalletTopup) TableName() string {
	return "wallet_topups"
}
