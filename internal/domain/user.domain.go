package domain

// User is a RentX customer (or staff member) as returned by the backend.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
	IsBlocked    bool   `json:"isBlocked"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber"`
	Password     string `json:"password"`
}

type BlockUpdate struct {
	IsBlocked bool `json:"isBlocked"`
}
