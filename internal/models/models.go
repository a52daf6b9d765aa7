package models

import "time"

// User is a credential record. Hash and salt are generated together and the
// plaintext password is never stored or logged. Usernames are unique among
// active records only: a deactivated credential keeps its row but frees the
// name, hence the partial index.
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"not null;uniqueIndex:uniq_users_active_username,where:is_active" json:"username"`
	Email        string     `gorm:"not null"                 json:"email"`
	PasswordHash []byte     `gorm:"not null"                 json:"-"`
	PasswordSalt []byte     `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time  `gorm:"not null"                 json:"created_at"`
	IsActive     bool       `gorm:"not null;default:true"    json:"is_active"`
	Role         string     `gorm:"not null"                 json:"role"`
}

// RefreshToken rows are superseded, never deleted: at most one row per user
// has RevokedAt unset and ExpiresAt in the future.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"           json:"id"`
	UserID    uint       `gorm:"index;not null"       json:"user_id"`
	Token     string     `gorm:"uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time  `gorm:"not null"             json:"expires_at"`
	CreatedAt time.Time  `gorm:"not null"             json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

type Patient struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	FirstName             string    `gorm:"not null"   json:"first_name"`
	LastName              string    `gorm:"not null"   json:"last_name"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	Address               string    `json:"address"`
	InsuranceProvider     string    `json:"insurance_provider"`
	InsurancePolicyNumber string    `json:"insurance_policy_number"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type Bill struct {
	ID          uint       `gorm:"primaryKey"             json:"id"`
	PatientID   uint       `gorm:"index;not null"         json:"patient_id"`
	BillDate    *time.Time `json:"bill_date,omitempty"`
	DueDate     time.Time  `gorm:"not null"               json:"due_date"`
	TotalAmount float64    `gorm:"not null"               json:"total_amount"`
	Status      string     `json:"status"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Items       []BillItem `gorm:"foreignKey:BillID"      json:"items"`
}

type BillItem struct {
	ID          uint    `gorm:"primaryKey"                 json:"id"`
	BillID      uint    `gorm:"index;not null"             json:"bill_id"`
	Description string  `gorm:"not null"                   json:"description"`
	Quantity    int     `gorm:"not null;check:quantity >= 0" json:"quantity"`
	UnitPrice   float64 `gorm:"not null"                   json:"unit_price"`
	TotalAmount float64 `gorm:"not null"                   json:"total_amount"`
}
