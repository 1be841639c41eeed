package contract

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=80,nospaces"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type UserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse is returned by register and login: the identity plus the
// signed bearer token the client presents on subsequent requests.
type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}
