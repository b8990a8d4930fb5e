package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gender selects the branch of the basal metabolic rate formula.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is a known gender.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Account represents a registered user
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;not null;unique" json:"username"`
	Password  string    `gorm:"size:256;not null" json:"-"` // bcrypt hash
	Phone     string    `gorm:"size:16;not null;unique" json:"phone"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Gender    Gender    `gorm:"size:8;not null" json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session binds issued tokens to an account. Only Active ever changes.
type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// MeasurementRecord is an append-only biometric submission
type MeasurementRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	Weight    float64   `gorm:"not null" json:"weight"` // kg
	Height    float64   `gorm:"not null" json:"height"` // cm
	Chest     *float64  `json:"chest,omitempty"`
	Waist     *float64  `json:"waist,omitempty"`
	Hips      *float64  `json:"hips,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// GoalKind is the direction a user wants their weight to move
type GoalKind string

const (
	GoalLoss     GoalKind = "loss"
	GoalGain     GoalKind = "gain"
	GoalMaintain GoalKind = "maintain"
)

// Valid reports whether k is a known goal.
func (k GoalKind) Valid() bool {
	switch k {
	case GoalLoss, GoalGain, GoalMaintain:
		return true
	}
	return false
}

// Goal is kept at most once per account
type Goal struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;unique" json:"account_id"`
	Goal      GoalKind  `gorm:"size:16;not null" json:"goal"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductType categorizes catalog products for menu quotas
type ProductType string

const (
	ProductFruit     ProductType = "fruit"
	ProductVegetable ProductType = "vegetable"
	ProductGrain     ProductType = "grain"
	ProductNut       ProductType = "nut"
	ProductMeat      ProductType = "meat"
	ProductDairy     ProductType = "dairy"
	ProductSnack     ProductType = "snack"
	ProductFood      ProductType = "food"
)

// ProductTypes lists every product type in catalog order.
var ProductTypes = []ProductType{
	ProductFruit, ProductVegetable, ProductGrain, ProductNut,
	ProductMeat, ProductDairy, ProductSnack, ProductFood,
}

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool {
	for _, known := range ProductTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Product is a catalog entry
type Product struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:64;not null;unique" json:"name"`
	Description string      `gorm:"size:256" json:"description"`
	Image       string      `gorm:"size:256" json:"image"`
	Type        ProductType `gorm:"size:16;not null;index" json:"type"`
	Price       float64     `gorm:"not null" json:"price"`
	Calories    int         `gorm:"not null" json:"calories"`
}

// AllergicIndex grades how likely an ingredient is to cause a reaction
type AllergicIndex string

const (
	AllergicLow    AllergicIndex = "l"
	AllergicMedium AllergicIndex = "m"
	AllergicHigh   AllergicIndex = "h"
)

// Valid reports whether i is a known allergic index.
func (i AllergicIndex) Valid() bool {
	return i == AllergicLow || i == AllergicMedium || i == AllergicHigh
}

// Ingredient is a component of catalog products
type Ingredient struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	Name               string        `gorm:"size:64;not null;unique" json:"name"`
	CaloriesPerUnit    int           `gorm:"not null" json:"calories_per_unit"`
	AllergicIndex      AllergicIndex `gorm:"size:1;not null" json:"allergic_index"`
	AllergicPercentage int           `gorm:"not null" json:"allergic_percentage"`
}

// ProductIngredient links a product to an ingredient; the pair is unique.
type ProductIngredient struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	ProductID    uint `gorm:"not null;uniqueIndex:uix_product_ingredient" json:"product_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:uix_product_ingredient" json:"ingredient_id"`
}

// MealTime identifies the meal a menu is generated for
type MealTime string

const (
	MealBreakfast  MealTime = "bt"
	MealSnack      MealTime = "sk"
	MealLunch      MealTime = "lu"
	MealLightLunch MealTime = "ll"
	MealAfternoon  MealTime = "an"
	MealDinner     MealTime = "dr"
)

var mealNames = map[MealTime]string{
	MealBreakfast:  "Breakfast",
	MealSnack:      "Mid-Morning Snack",
	MealLunch:      "Lunch",
	MealLightLunch: "Light Lunch",
	MealAfternoon:  "Afternoon",
	MealDinner:     "Dinner",
}

// Valid reports whether m is a known meal time.
func (m MealTime) Valid() bool {
	_, ok := mealNames[m]
	return ok
}

func (m MealTime) String() string {
	if name, ok := mealNames[m]; ok {
		return name
	}
	return string(m)
}

// Menu is a generated set of products for one meal on one date
type Menu struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	AccountID     uint       `gorm:"not null;index" json:"account_id"`
	MealTime      MealTime   `gorm:"size:2;not null" json:"meal_time"`
	Date          time.Time  `gorm:"type:date;not null" json:"date"`
	TotalCalories int        `gorm:"not null" json:"total_calories"`
	Items         []MenuItem `gorm:"foreignKey:MenuID" json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MenuItem references one selected product
type MenuItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	MenuID    uint     `gorm:"not null;index" json:"menu_id"`
	ProductID uint     `gorm:"not null" json:"product_id"`
	Position  int      `gorm:"not null" json:"position"`
	Product   *Product `gorm:"-" json:"product,omitempty"`
}

// TrainingLevel grades training difficulty from 1 to 4
type TrainingLevel int

const (
	TrainingEasy TrainingLevel = iota + 1
	TrainingMedium
	TrainingHard
	TrainingExtreme
)

// Valid reports whether l is a known level.
func (l TrainingLevel) Valid() bool {
	return l >= TrainingEasy && l <= TrainingExtreme
}

// Training is a video workout; (name, level) is unique
type Training struct {
	ID    uint          `gorm:"primaryKey" json:"id"`
	Name  string        `gorm:"size:32;not null;uniqueIndex:uix_name_level" json:"name"`
	Video string        `gorm:"size:256;not null;unique" json:"video"`
	Level TrainingLevel `gorm:"not null;uniqueIndex:uix_name_level" json:"level"`
}

// ConductedTraining marks a training as done by an account; the pair is unique
type ConductedTraining struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TrainingID uint      `gorm:"not null;uniqueIndex:uix_training_user" json:"training_id"`
	AccountID  uint      `gorm:"not null;uniqueIndex:uix_training_user" json:"account_id"`
	CreatedAt  time.Time `json:"created_at"`
}
