package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"expense-api/db"
	"expense-api/internal/apperr"
	"expense-api/internal/auth"
	"expense-api/internal/log"
	"expense-api/models"
)

const MaxUsernameLength = 150

const (
	MsgRequired        = "This field is required."
	MsgBlank           = "This field may not be blank."
	MsgUsernameTooLong = "Ensure this field has no more than 150 characters."
	MsgUsernameInvalid = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgUsernameTaken   = "A user with that username already exists."
	MsgEmailInvalid    = "Enter a valid email address."
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// RegisterRequest is the registration body. Pointers tell a missing field
// apart from an empty one.
type RegisterRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserService struct {
	Users  db.UserRepository
	logger *log.Logger
}

func NewUserService(users db.UserRepository, logger *log.Logger) *UserService {
	return &UserService{Users: users, logger: logger.WithComponent(log.ComponentUser)}
}

// Register validates req and creates the account with a bcrypt hash of the password
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	username, email, password, err := validate(req)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("error hashing password: %w", err))
	}

	user, err := s.Users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if errors.Is(err, db.ErrDuplicate) {
		return nil, apperr.Field("username", MsgUsernameTaken)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.ForContext(ctx).InfoContext(ctx, "User registered", log.FieldOperation, log.OpRegister, log.FieldUserID, user.ID)
	return user, nil
}

func validate(req RegisterRequest) (username, email, password string, err error) {
	fields := apperr.FieldErrors{}

	switch {
	case req.Username == nil:
		fields.Add("username", MsgRequired)
	case *req.Username == "":
		fields.Add("username", MsgBlank)
	default:
		username = *req.Username
		if utf8.RuneCountInString(username) > MaxUsernameLength {
			fields.Add("username", MsgUsernameTooLong)
		}
		if !usernamePattern.MatchString(username) {
			fields.Add("username", MsgUsernameInvalid)
		}
	}

	if req.Email != nil && *req.Email != "" {
		email = strings.TrimSpace(*req.Email)
		if !validEmail(email) {
			fields.Add("email", MsgEmailInvalid)
		}
	}

	switch {
	case req.Password == nil:
		fields.Add("password", MsgRequired)
	case strings.TrimSpace(*req.Password) == "":
		fields.Add("password", MsgBlank)
	default:
		password = *req.Password
	}

	return username, email, password, fields.Err()
}

// validEmail accepts a bare addr-spec with a dotted domain
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
