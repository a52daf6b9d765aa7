package transport

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest carries the expired access token plus the opaque refresh
// token string.
type RefreshRequest struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type CreateBillItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalAmount float64 `json:"total_amount"`
}

type CreateBillRequest struct {
	PatientID   uint             `json:"patient_id"`
	BillDate    *time.Time       `json:"bill_date"`
	DueDate     time.Time        `json:"due_date"`
	TotalAmount float64          `json:"total_amount"`
	Status      string           `json:"status"`
	Description string           `json:"description"`
	Items       []CreateBillItem `json:"items"`
}

type PatientRequest struct {
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	DateOfBirth           time.Time `json:"date_of_birth"`
	Email                 string    `json:"email"`
	Phone                 string    `json:"phone"`
	Address               string    `json:"address"`
	InsuranceProvider     string    `json:"insurance_provider"`
	InsurancePolicyNumber string    `json:"insurance_policy_number"`
}

type CreatedResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}
