package store

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/mapkeeper/internal/client/models"
	"github.com/dmitrijs2005/mapkeeper/internal/common"
	"github.com/dmitrijs2005/mapkeeper/internal/ids"
	"github.com/dmitrijs2005/mapkeeper/internal/validation"
)

const (
	msgEmailTaken         = "Email already registered"
	msgUsernameTaken      = "Username already taken"
	msgCredentialsMissing = "Email and password required"
	msgInvalidCredentials = "Invalid email or password"
	msgUserNotFound       = "User not found"
	msgOnlyAdminsPromote  = "Only admins can promote users"
	msgOnlyAdminsDemote   = "Only admins can demote users"
	msgAdminExists        = "An admin already exists"
)

// UserStore manages accounts. Emails are stored trimmed and lowercased.
type UserStore struct {
	st       *state
	sessions *SessionRegistry
	hasher   SecretHasher
}

func (s *UserStore) emailTakenLocked(email, exceptID string) bool {
	for _, u := range s.st.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (s *UserStore) usernameTakenLocked(username string) bool {
	for _, u := range s.st.users {
		if u.Username == username {
			return true
		}
	}
	return false
}

// Register creates a USER account and records USER_REGISTERED.
func (s *UserStore) Register(ctx context.Context, r validation.Registration) (models.PublicUser, error) {
	r.Email = validation.NormalizeEmail(r.Email)
	if err := validation.CheckRegistration(r); err != nil {
		return models.PublicUser{}, err
	}

	s.st.mu.Lock()
	taken := s.emailTakenLocked(r.Email, "")
	s.st.mu.Unlock()
	if taken {
		return models.PublicUser{}, common.NewConflictError("email", msgEmailTaken)
	}

	// Hashing is slow; keep it outside the lock and re-check afterwards.
	secret := s.hasher.Hash(r.Password)

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if s.emailTakenLocked(r.Email, "") {
		return models.PublicUser{}, common.NewConflictError("email", msgEmailTaken)
	}
	if s.usernameTakenLocked(r.Username) {
		return models.PublicUser{}, common.NewConflictError("username", msgUsernameTaken)
	}

	now := s.st.ids.Now()
	u := models.User{
		ID:             s.st.ids.NewID(ids.PrefixUser),
		Email:          r.Email,
		Username:       r.Username,
		PasswordSecret: secret,
		Role:           models.RoleUser,
		Profile:        models.Profile{Nickname: r.Username},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.st.users = append(s.st.users, u)
	s.st.appendAuditLocked(models.AuditUserRegistered, u.ID, map[string]any{
		"email":    u.Email,
		"username": u.Username,
	})
	s.st.commitLocked(ctx)

	s.st.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u.Public(), nil
}

// Login checks the credentials and opens a session. An unknown email and a
// wrong password fail with the same error.
func (s *UserStore) Login(ctx context.Context, email, password string) (models.PublicUser, models.Session, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return models.PublicUser{}, models.Session{}, common.NewValidationError("", msgCredentialsMissing)
	}

	s.st.mu.Lock()
	var (
		found  bool
		secret string
	)
	for _, u := range s.st.users {
		if u.Email == email {
			found, secret = true, u.PasswordSecret
			break
		}
	}
	s.st.mu.Unlock()

	if !found {
		return models.PublicUser{}, models.Session{}, common.NewAuthenticationError(msgInvalidCredentials)
	}

	ok, err := s.hasher.Verify(secret, password)
	if err != nil {
		s.st.logger.Warn(ctx, "stored password secret unreadable", "err", err)
	}
	if !ok {
		return models.PublicUser{}, models.Session{}, common.NewAuthenticationError(msgInvalidCredentials)
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i := -1
	for j := range s.st.users {
		if s.st.users[j].Email == email {
			i = j
			break
		}
	}
	if i < 0 {
		return models.PublicUser{}, models.Session{}, common.NewAuthenticationError(msgInvalidCredentials)
	}
	u := s.st.users[i]

	sess, err := s.sessions.Create(u.ID)
	if err != nil {
		return models.PublicUser{}, models.Session{}, err
	}

	s.st.appendAuditLocked(models.AuditUserLogin, u.ID, map[string]any{"email": u.Email})
	s.st.commitLocked(ctx)

	return u.Public(), sess, nil
}

// Logout ends every session of userID and records USER_LOGOUT. It never fails.
func (s *UserStore) Logout(ctx context.Context, userID string) {
	n := s.sessions.RevokeUser(userID)

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.appendAuditLocked(models.AuditUserLogout, userID, map[string]any{"sessions": n})
	s.st.commitLocked(ctx)
}

func (s *UserStore) GetByID(id string) (models.PublicUser, bool) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if i := s.st.userIndexLocked(id); i >= 0 {
		return s.st.users[i].Public(), true
	}
	return models.PublicUser{}, false
}

// List returns every user in registration order.
func (s *UserStore) List() []models.PublicUser {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	out := make([]models.PublicUser, 0, len(s.st.users))
	for _, u := range s.st.users {
		out = append(out, u.Public())
	}
	return out
}

// UpdateProfile applies the supplied fields and records PROFILE_UPDATED.
func (s *UserStore) UpdateProfile(ctx context.Context, userID string, p models.ProfilePatch) (models.PublicUser, error) {
	email, changeEmail := p.Email.Get()
	if changeEmail {
		email = validation.NormalizeEmail(email)
		if !validation.IsEmail(email) {
			return models.PublicUser{}, common.NewValidationError("email", validation.MsgInvalidEmail)
		}
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	i := s.st.userIndexLocked(userID)
	if i < 0 {
		return models.PublicUser{}, common.NewNotFoundError(msgUserNotFound)
	}
	if changeEmail && s.emailTakenLocked(email, userID) {
		return models.PublicUser{}, common.NewConflictError("email", msgEmailTaken)
	}

	u := &s.st.users[i]
	var fields []string
	if v, ok := p.Nickname.Get(); ok {
		u.Profile.Nickname = v
		fields = append(fields, "nickname")
	}
	if v, ok := p.Bio.Get(); ok {
		u.Profile.Bio = v
		fields = append(fields, "bio")
	}
	if v, ok := p.AvatarRef.Get(); ok {
		u.Profile.AvatarRef = v
		fields = append(fields, "avatar")
	}
	if changeEmail {
		u.Email = email
		fields = append(fields, "email")
	}
	if v, ok := p.ActiveCharacterID.Get(); ok {
		u.ActiveCharacterID = strings.TrimSpace(v)
		fields = append(fields, "activeCharacterId")
	}
	u.UpdatedAt = s.st.ids.Now()

	s.st.appendAuditLocked(models.AuditProfileUpdated, u.ID, map[string]any{
		"email":    u.Email,
		"username": u.Username,
		"fields":   fields,
	})
	s.st.commitLocked(ctx)

	return u.Public(), nil
}

// Promote makes targetUserID an ADMIN. Only admins may call it.
func (s *UserStore) Promote(ctx context.Context, actingUserID, targetUserID string) (models.PublicUser, error) {
	return s.setRole(ctx, actingUserID, targetUserID, models.RoleAdmin, models.AuditUserPromoted, msgOnlyAdminsPromote)
}

// Demote makes targetUserID a USER. Only admins may call it.
func (s *UserStore) Demote(ctx context.Context, actingUserID, targetUserID string) (models.PublicUser, error) {
	return s.setRole(ctx, actingUserID, targetUserID, models.RoleUser, models.AuditUserDemoted, msgOnlyAdminsDemote)
}

func (s *UserStore) setRole(ctx context.Context, actingUserID, targetUserID string, role models.Role, event models.AuditType, denied string) (models.PublicUser, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	a := s.st.userIndexLocked(actingUserID)
	if a < 0 || !s.st.users[a].IsAdmin() {
		return models.PublicUser{}, common.NewAuthorizationError(denied)
	}

	t := s.st.userIndexLocked(targetUserID)
	if t < 0 {
		return models.PublicUser{}, common.NewNotFoundError(msgUserNotFound)
	}

	target := &s.st.users[t]
	target.Role = role
	target.UpdatedAt = s.st.ids.Now()

	s.st.appendAuditLocked(event, actingUserID, map[string]any{
		"targetUserId": target.ID,
		"targetEmail":  target.Email,
	})
	s.st.commitLocked(ctx)

	return target.Public(), nil
}

// ClaimAdmin promotes userID when no admin exists yet, so a fresh table can
// get its first game master. It fails once any admin is present.
func (s *UserStore) ClaimAdmin(ctx context.Context, userID string) (models.PublicUser, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	for _, u := range s.st.users {
		if u.IsAdmin() {
			return models.PublicUser{}, common.NewAuthorizationError(msgAdminExists)
		}
	}

	i := s.st.userIndexLocked(userID)
	if i < 0 {
		return models.PublicUser{}, common.NewNotFoundError(msgUserNotFound)
	}

	u := &s.st.users[i]
	u.Role = models.RoleAdmin
	u.UpdatedAt = s.st.ids.Now()

	s.st.appendAuditLocked(models.AuditUserPromoted, u.ID, map[string]any{
		"targetUserId": u.ID,
		"targetEmail":  u.Email,
		"bootstrap":    true,
	})
	s.st.commitLocked(ctx)

	return u.Public(), nil
}
