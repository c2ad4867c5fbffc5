package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/pkg/apperror"
)

type CreateUserInput struct {
	Email     string
	Username  string
	Password  string
	Role      entity.Role
	FirstName string
	LastName  string
	Bio       string
}

// UpdateUserInput carries partial updates; nil means "leave as is".
type UpdateUserInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *entity.Role
}

type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*entity.User, error)
	// CreateSuperuser always forces role=admin with staff and superuser
	// flags set; username and password are mandatory.
	CreateSuperuser(ctx context.Context, email, username, password string) (*entity.User, error)
	List(ctx context.Context, search string) ([]*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// Update applies an admin-side update; role grants above the
	// actor's own privilege fail with ErrPrivilegeEscalation.
	Update(ctx context.Context, actor *entity.User, username string, input UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, username string) error
	// UpdateMe is the self-service profile PATCH; it additionally
	// demands that a username is set or being set.
	UpdateMe(ctx context.Context, actor *entity.User, input UpdateUserInput) (*entity.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*entity.User, error) {
	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return nil, apperror.ErrBadRequest
	}

	username := strings.TrimSpace(input.Username)
	if role == entity.RoleAdmin && (username == "" || input.Password == "") {
		return nil, apperror.ErrMissingCredential
	}

	user := &entity.User{
		Email:     normalizeEmail(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}
	user.SetRole(role)
	if username != "" {
		user.Username = &username
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) CreateSuperuser(ctx context.Context, email, username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ErrMissingCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Email:        normalizeEmail(email),
		Username:     &username,
		PasswordHash: &hashStr,
		IsSuperuser:  true,
	}
	user.SetRole(entity.RoleAdmin)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, search string) ([]*entity.User, error) {
	return s.users.FindAll(ctx, search)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// checkRoleGrant rejects grants of roles above the actor's own
// privilege: a moderator may never grant admin, a user may never grant
// moderator or admin.
func checkRoleGrant(actor *entity.User, newRole entity.Role) error {
	if !newRole.Valid() {
		return apperror.ErrBadRequest
	}
	if actor.Role.Level() < newRole.Level() {
		return apperror.ErrPrivilegeEscalation
	}
	return nil
}

func applyUpdate(user *entity.User, actor *entity.User, input UpdateUserInput) error {
	if input.Role != nil {
		if err := checkRoleGrant(actor, *input.Role); err != nil {
			return err
		}
		user.SetRole(*input.Role)
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return apperror.ErrBadRequest
		}
		user.Username = &username
	}
	if input.Email != nil {
		user.Email = normalizeEmail(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	return nil
}

func (s *userService) Update(ctx context.Context, actor *entity.User, username string, input UpdateUserInput) (*entity.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(user, actor, input); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

func (s *userService) UpdateMe(ctx context.Context, actor *entity.User, input UpdateUserInput) (*entity.User, error) {
	// A profile PATCH must leave the account with a username: either it
	// is already set or this request supplies one.
	suppliesUsername := input.Username != nil && strings.TrimSpace(*input.Username) != ""
	if !actor.HasUsername() && !suppliesUsername {
		return nil, apperror.ErrUsernameRequired
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(user, actor, input); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
