package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"allo/internal/config"
	"allo/internal/models"
	"allo/internal/repositories"
	"allo/internal/utils"
)

// AuthService bridges the three login paths (password, email OTP,
// external session exchange) into a single signed session token.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error)
	ExchangeSession(ctx context.Context, accessToken string) (*models.User, string, error)
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type authService struct {
	userRepo       repositories.UserRepository
	passcodes      *PasscodeStore
	emailService   EmailService
	jwtSecret      []byte
	jwtTTL         time.Duration
	externalSecret []byte
}

func NewAuthService(userRepo repositories.UserRepository, passcodes *PasscodeStore, emailService EmailService, cfg *config.Config) AuthService {
	return &authService{
		userRepo:       userRepo,
		passcodes:      passcodes,
		emailService:   emailService,
		jwtSecret:      []byte(cfg.JWTSecret),
		jwtTTL:         time.Duration(cfg.JWTExpireDays) * 24 * time.Hour,
		externalSecret: []byte(cfg.ExternalSessionSecret),
	}
}

func (a *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", models.ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", models.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), 8)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password during registration")
		return nil, "", fmt.Errorf("failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    NormalizeEmail(req.Email),
		Password: string(hashed),
	}
	created, err := a.userRepo.Create(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn().Str("email", user.Email).Msg("Registration attempt for existing email")
			return nil, "", models.ErrConflict
		}
		return nil, "", err
	}

	token, err := utils.GenerateJWT(created.ID, a.jwtSecret, a.jwtTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", created.ID.Hex()).Msg("Could not generate token after registration")
		return nil, "", fmt.Errorf("could not generate token")
	}

	log.Info().Str("user_id", created.ID.Hex()).Str("email", created.Email).Msg("User registered successfully")
	return created, token, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	// Missing user and wrong password collapse into the same error so
	// responses carry no account-enumeration signal.
	user, err := a.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		log.Error().Err(err).Msg("Error finding user for login")
		return nil, "", fmt.Errorf("internal server error")
	}
	if user == nil {
		utils.LoginAttemptsTotal.WithLabelValues("password", "failure").Inc()
		return nil, "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		utils.LoginAttemptsTotal.WithLabelValues("password", "failure").Inc()
		log.Warn().Str("email", user.Email).Msg("Invalid credentials during login attempt")
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID, a.jwtSecret, a.jwtTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, "", fmt.Errorf("could not generate token")
	}

	utils.LoginAttemptsTotal.WithLabelValues("password", "success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in successfully")
	return user, token, nil
}

// SendOTP issues a fresh code and hands it to email delivery. It never
// reveals whether the address belongs to an existing account.
func (a *authService) SendOTP(ctx context.Context, email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: a valid email is required", models.ErrValidation)
	}

	code, err := a.passcodes.Issue(email)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate one-time passcode")
		return fmt.Errorf("failed to generate code")
	}
	utils.OTPIssuedTotal.Inc()

	// The code is committed to the store before dispatch, so a delivery
	// failure leaves a valid code the user never received. Surfaced to
	// the caller as retriable.
	if err := a.emailService.SendOTPEmail(NormalizeEmail(email), code); err != nil {
		log.Error().Err(err).Str("email", NormalizeEmail(email)).Msg("Failed to deliver one-time passcode")
		return models.ErrDeliveryFailure
	}
	return nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error) {
	if email == "" || code == "" {
		return nil, "", fmt.Errorf("%w: email and otp are required", models.ErrValidation)
	}

	if !a.passcodes.VerifyAndConsume(email, code) {
		utils.LoginAttemptsTotal.WithLabelValues("otp", "failure").Inc()
		return nil, "", models.ErrInvalidOrExpiredCode
	}

	user, err := a.resolveOrCreate(ctx, email)
	if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(user.ID, a.jwtSecret, a.jwtTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, "", fmt.Errorf("could not generate token")
	}

	utils.LoginAttemptsTotal.WithLabelValues("otp", "success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in via one-time passcode")
	return user, token, nil
}

type externalSessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ExchangeSession trades a third-party session token, signed with the
// pre-shared secret, for this application's own session token.
func (a *authService) ExchangeSession(ctx context.Context, accessToken string) (*models.User, string, error) {
	if accessToken == "" {
		return nil, "", fmt.Errorf("%w: access_token is required", models.ErrValidation)
	}
	if len(a.externalSecret) == 0 {
		log.Error().Msg("EXTERNAL_SESSION_SECRET is not configured")
		return nil, "", models.ErrInvalidToken
	}

	claims := &externalSessionClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.externalSecret, nil
	})
	if err != nil || !token.Valid || claims.Email == "" {
		utils.LoginAttemptsTotal.WithLabelValues("external", "failure").Inc()
		return nil, "", models.ErrInvalidToken
	}

	user, err := a.resolveOrCreate(ctx, claims.Email)
	if err != nil {
		return nil, "", err
	}

	sessionToken, err := utils.GenerateJWT(user.ID, a.jwtSecret, a.jwtTTL)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Could not generate token for user")
		return nil, "", fmt.Errorf("could not generate token")
	}

	utils.LoginAttemptsTotal.WithLabelValues("external", "success").Inc()
	log.Info().Str("user_id", user.ID.Hex()).Msg("User logged in via external session")
	return user, sessionToken, nil
}

func (a *authService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.Hex()).Msg("Failed to fetch user")
		return nil, fmt.Errorf("failed to fetch user")
	}
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	return user, nil
}

// resolveOrCreate looks the user up by normalized email and provisions
// a record on first login. The unique email index is the authority on
// races: a duplicate-key failure is retried as a lookup, not surfaced.
func (a *authService) resolveOrCreate(ctx context.Context, email string) (*models.User, error) {
	normalized := NormalizeEmail(email)

	user, err := a.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		log.Error().Err(err).Msg("Error finding user by email")
		return nil, fmt.Errorf("internal server error")
	}
	if user != nil {
		return user, nil
	}

	placeholder, err := utils.GeneratePlaceholderPassword()
	if err != nil {
		return nil, fmt.Errorf("internal server error")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(placeholder), 8)
	if err != nil {
		return nil, fmt.Errorf("internal server error")
	}

	newUser := &models.User{
		Name:     displayNameFromEmail(normalized),
		Email:    normalized,
		Password: string(hashed),
	}
	created, err := a.userRepo.Create(ctx, newUser)
	if err == nil {
		log.Info().Str("user_id", created.ID.Hex()).Str("email", normalized).Msg("New user created on first login")
		return created, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("internal server error")
	}

	// Lost the creation race; the winner's record is the answer.
	user, err = a.userRepo.FindByEmail(ctx, normalized)
	if err != nil || user == nil {
		log.Error().Err(err).Str("email", normalized).Msg("Lookup after duplicate-key race failed")
		return nil, fmt.Errorf("internal server error")
	}
	return user, nil
}

// displayNameFromEmail derives a name from the address local part:
// first letter upper-cased, remainder lower-cased.
func displayNameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	if local == "" {
		return local
	}
	runes := []rune(strings.ToLower(local))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
