package service

import (
	"os"
	"strings"

	"notekeeper/internal/contract"
	"notekeeper/internal/domain/entity"
	"notekeeper/internal/utils"
	"notekeeper/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	Save(user *entity.User) error
}

type TokenIssuer interface {
	Sign(userID int) (string, error)
}

type UserService struct {
	UserRepo UserRepository
	Tokens   TokenIssuer
	Validate *validator.Validate
}

func NewUserService(userRepo UserRepository, tokens TokenIssuer, validate *validator.Validate) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Tokens:   tokens,
		Validate: validate,
	}
}

// Register creates the account and signs the first token. There is no admin
// registration path: the role is ADMIN only when the email matches the
// seeded ADMIN_EMAIL, everything else is a regular USER.
func (u *UserService) Register(req *contract.RegisterRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := u.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	email := strings.ToLower(req.Email)

	taken, err := u.UserRepo.ExistsByEmail(email)
	if err != nil {
		log.Errorf("failed to check email: %v", err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.EmailTakenError
	}

	taken, err = u.UserRepo.ExistsByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to check username: %v", err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.UsernameTakenError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Errorf("failed to hash password: %v", err)
		return nil, apierror.InternalServerError
	}

	now := utils.NowUTC()
	user := &entity.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         roleFor(email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to save user: %v", err)
		return nil, apierror.InternalServerError
	}

	return u.authResponse(user)
}

// Login verifies the password and signs a fresh token. Unknown email and
// wrong password return the same generic error on purpose.
func (u *UserService) Login(req *contract.LoginRequest) (*contract.AuthResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := u.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	user, err := u.UserRepo.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		log.Errorf("failed to fetch user: %v", err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.BadCredentialsError
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierror.BadCredentialsError
	}

	return u.authResponse(user)
}

// Profile returns the caller's own record. The password hash is not part of
// the response type and cannot leak.
func (u *UserService) Profile(actor *entity.User) (*contract.UserResponse, apierror.ErrorResponse) {
	return toUserResponse(actor), nil
}

func (u *UserService) authResponse(user *entity.User) (*contract.AuthResponse, apierror.ErrorResponse) {
	token, err := u.Tokens.Sign(user.ID)
	if err != nil {
		log.Errorf("failed to sign token: %v", err)
		return nil, apierror.InternalServerError
	}

	return &contract.AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, nil
}

func roleFor(email string) entity.Role {
	admin := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if admin != "" && admin == email {
		return entity.RoleAdmin
	}
	return entity.RoleUser
}

func toUserResponse(user *entity.User) *contract.UserResponse {
	return &contract.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
	}
}
