package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"novamailer/services/mailer/apperrors"
	"novamailer/services/mailer/email"
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
	"novamailer/shared/logger"
	"novamailer/shared/middleware"
	sharedmodels "novamailer/shared/models"

	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase defines the interface for authentication business logic
type AuthUsecase interface {
	Register(req *models.RegisterRequest) (*models.User, error)
	VerifyEmail(userID uint, code string) error
	Login(emailAddr, password string) (*models.LoginResult, error)
	VerifyLogin(userID uint, code string) (*sharedmodels.TokenPair, error)
	// ForgotPassword never reveals whether the account exists; the
	// returned ID is zero for unknown emails.
	ForgotPassword(emailAddr string) (uint, error)
	ResetPassword(userID uint, code, newPassword string) error
	GetUser(userID uint) (*models.User, error)
}

type authUsecase struct {
	userRepo  repository.UserRepository
	smtpRepo  repository.SMTPRepository
	otps      OTPUsecase
	sender    email.Sender
	jwtConfig *middleware.JWTConfig
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repository.UserRepository,
	smtpRepo repository.SMTPRepository,
	otps OTPUsecase,
	sender email.Sender,
	jwtConfig *middleware.JWTConfig,
) AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		smtpRepo:  smtpRepo,
		otps:      otps,
		sender:    sender,
		jwtConfig: jwtConfig,
	}
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Register creates an unverified account and emails a registration code
func (a *authUsecase) Register(req *models.RegisterRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !emailPattern.MatchString(req.Email) {
		return nil, apperrors.NewValidation("invalid email format")
	}
	if len(req.Password) < 6 {
		return nil, apperrors.NewValidation("password must be at least 6 characters")
	}

	existing, err := a.userRepo.GetByEmail(req.Email)
	if err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewValidation("user with email %s already exists", req.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		FullName:       strings.TrimSpace(req.FullName),
		HashedPassword: string(hashed),
		IsActive:       true,
		EmailVerified:  false,
	}
	if err := a.userRepo.Create(user); err != nil {
		return nil, err
	}

	a.issueAndDeliverOTP(user, models.OTPPurposeRegistration)

	return user, nil
}

// VerifyEmail confirms an account with the registration code
func (a *authUsecase) VerifyEmail(userID uint, code string) error {
	user, err := a.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	ok, err := a.otps.Verify(user.ID, models.OTPPurposeRegistration, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidation("invalid or expired OTP")
	}

	user.EmailVerified = true
	return a.userRepo.Update(user)
}

// Login authenticates credentials. Accounts with 2FA get an emailed code
// instead of tokens.
func (a *authUsecase) Login(emailAddr, password string) (*models.LoginResult, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := a.userRepo.GetByEmail(emailAddr)
	if err != nil {
		if isNotFound(err) {
			// Don't reveal whether the account exists.
			return nil, apperrors.NewValidation("incorrect email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperrors.NewValidation("incorrect email or password")
	}

	if !user.EmailVerified {
		return nil, apperrors.NewValidation("email not verified")
	}
	if !user.IsActive {
		return nil, apperrors.NewValidation("inactive user")
	}

	if user.TwoFactorEnabled {
		a.issueAndDeliverOTP(user, models.OTPPurposeLogin)
		return &models.LoginResult{RequiresOTP: true, UserID: user.ID}, nil
	}

	tokens, err := middleware.GenerateTokens(user.ID, user.Email, a.jwtConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return &models.LoginResult{Tokens: tokens, UserID: user.ID}, nil
}

// VerifyLogin exchanges a login code for tokens
func (a *authUsecase) VerifyLogin(userID uint, code string) (*sharedmodels.TokenPair, error) {
	user, err := a.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	ok, err := a.otps.Verify(user.ID, models.OTPPurposeLogin, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewValidation("invalid or expired OTP")
	}

	tokens, err := middleware.GenerateTokens(user.ID, user.Email, a.jwtConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	return tokens, nil
}

// ForgotPassword emails a reset code when the account exists
func (a *authUsecase) ForgotPassword(emailAddr string) (uint, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))

	user, err := a.userRepo.GetByEmail(emailAddr)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	a.issueAndDeliverOTP(user, models.OTPPurposePasswordReset)
	return user.ID, nil
}

// ResetPassword sets a new password gated on the reset code
func (a *authUsecase) ResetPassword(userID uint, code, newPassword string) error {
	user, err := a.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	ok, err := a.otps.Verify(user.ID, models.OTPPurposePasswordReset, code)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewValidation("invalid or expired OTP")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.HashedPassword = string(hashed)
	return a.userRepo.Update(user)
}

// GetUser returns the account for an authenticated user ID
func (a *authUsecase) GetUser(userID uint) (*models.User, error) {
	return a.userRepo.GetByID(userID)
}

// issueAndDeliverOTP generates a code and emails it best effort. OTP
// delivery failure never fails the surrounding auth flow; the code can be
// regenerated.
func (a *authUsecase) issueAndDeliverOTP(user *models.User, purpose models.OTPPurpose) {
	code, err := a.otps.Generate(user.ID, purpose)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"purpose": purpose,
			"error":   err.Error(),
		}).Error("Failed to generate OTP")
		return
	}

	cfg, err := a.smtpRepo.First()
	if err != nil || cfg == nil {
		logger.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"purpose": purpose,
		}).Warn("No SMTP config available for OTP delivery")
		return
	}

	if err := a.sender.Send(cfg, user.Email, email.OTPSubject(purpose), email.OTPBody(code, purpose), nil); err != nil {
		logger.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"purpose": purpose,
			"error":   err.Error(),
		}).Error("Failed to send OTP email")
	}
}
