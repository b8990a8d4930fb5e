package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	"github.com/vladimiradmaev/diet-tracker/internal/services"
)

// AuthServiceInterface defines the contract for authentication operations
type AuthServiceInterface interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ResolveCurrentUser(ctx context.Context, accessToken string) (*domain.Session, error)
	CurrentAccount(ctx context.Context, session *domain.Session) (*domain.Account, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// MeasurementServiceInterface defines the contract for the measurement ledger
type MeasurementServiceInterface interface {
	Submit(ctx context.Context, accountID uint, in services.MeasurementInput) (*domain.MeasurementRecord, error)
	Progress(ctx context.Context, accountID uint) (*services.Progress, error)
	History(ctx context.Context, accountID uint, limit int) ([]domain.MeasurementRecord, error)
}

// GoalServiceInterface defines the contract for goal operations
type GoalServiceInterface interface {
	SetGoal(ctx context.Context, accountID uint, kind domain.GoalKind) (*domain.Goal, error)
	GetGoal(ctx context.Context, accountID uint) (*domain.Goal, error)
}

// MenuServiceInterface defines the contract for menu generation
type MenuServiceInterface interface {
	Generate(ctx context.Context, accountID uint, in services.GenerateMenuInput) (*domain.Menu, error)
	SuggestEnvelope(ctx context.Context, accountID uint, meal domain.MealTime) (services.Envelope, error)
	Menu(ctx context.Context, accountID, menuID uint) (*domain.Menu, error)
	Menus(ctx context.Context, accountID uint, date time.Time) ([]domain.Menu, error)
}

// CatalogServiceInterface defines the contract for catalog operations
type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	ListProducts(ctx context.Context, productType domain.ProductType) ([]domain.Product, error)
	CreateIngredient(ctx context.Context, ingredient *domain.Ingredient) error
	LinkIngredient(ctx context.Context, productID, ingredientID uint) (*domain.ProductIngredient, error)
	ProductIngredients(ctx context.Context, productID uint) ([]domain.Ingredient, error)
}

// TrainingServiceInterface defines the contract for training operations
type TrainingServiceInterface interface {
	CreateTraining(ctx context.Context, training *domain.Training) error
	ListTrainings(ctx context.Context, level domain.TrainingLevel) ([]domain.Training, error)
	MarkConducted(ctx context.Context, accountID, trainingID uint) (*domain.ConductedTraining, error)
	ConductedTrainings(ctx context.Context, accountID uint) ([]domain.ConductedTraining, error)
}

var (
	_ AuthServiceInterface        = (*services.AuthService)(nil)
	_ MeasurementServiceInterface = (*services.MeasurementService)(nil)
	_ GoalServiceInterface        = (*services.GoalService)(nil)
	_ MenuServiceInterface        = (*services.MenuService)(nil)
	_ CatalogServiceInterface     = (*services.CatalogService)(nil)
	_ TrainingServiceInterface    = (*services.TrainingService)(nil)
)
