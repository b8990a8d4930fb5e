package repository

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladimiradmaev/diet-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/diet-tracker/internal/errors"
)

type memData struct {
	accounts     []domain.Account
	sessions     []domain.Session
	measurements []domain.MeasurementRecord
	goals        []domain.Goal
	products     []domain.Product
	ingredients  []domain.Ingredient
	links        []domain.ProductIngredient
	menus        []domain.Menu
	trainings    []domain.Training
	conducted    []domain.ConductedTraining
	seq          map[string]uint
}

func (d *memData) clone() *memData {
	c := &memData{
		accounts:     append([]domain.Account(nil), d.accounts...),
		sessions:     append([]domain.Session(nil), d.sessions...),
		measurements: append([]domain.MeasurementRecord(nil), d.measurements...),
		goals:        append([]domain.Goal(nil), d.goals...),
		products:     append([]domain.Product(nil), d.products...),
		ingredients:  append([]domain.Ingredient(nil), d.ingredients...),
		links:        append([]domain.ProductIngredient(nil), d.links...),
		menus:        make([]domain.Menu, len(d.menus)),
		trainings:    append([]domain.Training(nil), d.trainings...),
		conducted:    append([]domain.ConductedTraining(nil), d.conducted...),
		seq:          make(map[string]uint, len(d.seq)),
	}
	for i, m := range d.menus {
		m.Items = append([]domain.MenuItem(nil), m.Items...)
		c.menus[i] = m
	}
	for k, v := range d.seq {
		c.seq[k] = v
	}
	return c
}

func (d *memData) next(table string) uint {
	d.seq[table]++
	return d.seq[table]
}

// MemoryStore keeps everything in process memory. It is used for local runs
// and tests and enforces the same uniqueness rules as the schema.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memData
	rnd  *rand.Rand
	now  func() time.Time
	inTx bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:   &sync.Mutex{},
		data: &memData{seq: make(map[string]uint)},
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
}

// WithRand replaces the random source used by RandomByType.
func (s *MemoryStore) WithRand(rnd *rand.Rand) *MemoryStore {
	s.rnd = rnd
	return s
}

// WithClock replaces the time source for automatic timestamps.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// lock serializes access; inside a transaction the lock is already held.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}

func (s *MemoryStore) Accounts() domain.AccountRepository         { return memAccounts{s} }
func (s *MemoryStore) Sessions() domain.SessionRepository         { return memSessions{s} }
func (s *MemoryStore) Measurements() domain.MeasurementRepository { return memMeasurements{s} }
func (s *MemoryStore) Goals() domain.GoalRepository               { return memGoals{s} }
func (s *MemoryStore) Products() domain.ProductRepository         { return memProducts{s} }
func (s *MemoryStore) Menus() domain.MenuRepository               { return memMenus{s} }
func (s *MemoryStore) Trainings() domain.TrainingRepository       { return memTrainings{s} }

// Transaction runs fn against a working copy of the data, holding the store
// lock for its whole duration. The copy replaces the data only when fn
// returns nil.
func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &MemoryStore{
		mu:   s.mu,
		data: s.data.clone(),
		rnd:  s.rnd,
		now:  s.now,
		inTx: true,
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

type memAccounts struct{ s *MemoryStore }

func (r memAccounts) Create(_ context.Context, account *domain.Account) error {
	defer r.s.lock()()
	d := r.s.data
	for _, a := range d.accounts {
		if a.Username == account.Username {
			return apperrors.NewDuplicateFieldError("username")
		}
		if a.Phone == account.Phone {
			return apperrors.NewDuplicateFieldError("phone")
		}
	}
	account.ID = d.next("accounts")
	r.s.stamp(&account.CreatedAt)
	r.s.stamp(&account.UpdatedAt)
	d.accounts = append(d.accounts, *account)
	return nil
}

func (r memAccounts) GetByID(_ context.Context, id uint) (*domain.Account, error) {
	defer r.s.lock()()
	for _, a := range r.s.data.accounts {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, nil
}

func (r memAccounts) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	defer r.s.lock()()
	for _, a := range r.s.data.accounts {
		if a.Username == username {
			return &a, nil
		}
	}
	return nil, nil
}

type memSessions struct{ s *MemoryStore }

func (r memSessions) Create(_ context.Context, accountID uint) (*domain.Session, error) {
	defer r.s.lock()()
	session := domain.Session{
		ID:        uuid.New(),
		AccountID: accountID,
		Active:    true,
		CreatedAt: r.s.now(),
	}
	r.s.data.sessions = append(r.s.data.sessions, session)
	return &session, nil
}

func (r memSessions) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	defer r.s.lock()()
	for _, sess := range r.s.data.sessions {
		if sess.ID == id {
			return &sess, nil
		}
	}
	return nil, nil
}

func (r memSessions) Revoke(_ context.Context, id uuid.UUID) error {
	defer r.s.lock()()
	for i := range r.s.data.sessions {
		if r.s.data.sessions[i].ID == id {
			r.s.data.sessions[i].Active = false
			return nil
		}
	}
	return apperrors.NewNotFoundError("session")
}

type memMeasurements struct{ s *MemoryStore }

func (r memMeasurements) Create(_ context.Context, record *domain.MeasurementRecord) error {
	defer r.s.lock()()
	record.ID = r.s.data.next("measurement_records")
	r.s.stamp(&record.CreatedAt)
	r.s.data.measurements = append(r.s.data.measurements, *record)
	return nil
}

// newestFirst returns the account's records ordered by created_at then id, descending.
func (r memMeasurements) newestFirst(accountID uint) []domain.MeasurementRecord {
	var out []domain.MeasurementRecord
	for _, m := range r.s.data.measurements {
		if m.AccountID == accountID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r memMeasurements) Latest(_ context.Context, accountID uint) (*domain.MeasurementRecord, error) {
	defer r.s.lock()()
	records := r.newestFirst(accountID)
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (r memMeasurements) LatestAtOrBefore(_ context.Context, accountID uint, t time.Time) (*domain.MeasurementRecord, error) {
	defer r.s.lock()()
	for _, m := range r.newestFirst(accountID) {
		if !m.CreatedAt.After(t) {
			return &m, nil
		}
	}
	return nil, nil
}

func (r memMeasurements) List(_ context.Context, accountID uint, limit int) ([]domain.MeasurementRecord, error) {
	defer r.s.lock()()
	records := r.newestFirst(accountID)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

type memGoals struct{ s *MemoryStore }

func (r memGoals) Upsert(_ context.Context, goal *domain.Goal) error {
	defer r.s.lock()()
	d := r.s.data
	for i := range d.goals {
		if d.goals[i].AccountID == goal.AccountID {
			d.goals[i].Goal = goal.Goal
			*goal = d.goals[i]
			return nil
		}
	}
	goal.ID = d.next("goals")
	r.s.stamp(&goal.CreatedAt)
	d.goals = append(d.goals, *goal)
	return nil
}

func (r memGoals) GetByAccount(_ context.Context, accountID uint) (*domain.Goal, error) {
	defer r.s.lock()()
	for _, g := range r.s.data.goals {
		if g.AccountID == accountID {
			return &g, nil
		}
	}
	return nil, nil
}

type memProducts struct{ s *MemoryStore }

func (r memProducts) Create(_ context.Context, product *domain.Product) error {
	defer r.s.lock()()
	d := r.s.data
	for _, p := range d.products {
		if p.Name == product.Name {
			return apperrors.NewDuplicateFieldError("name")
		}
	}
	product.ID = d.next("products")
	d.products = append(d.products, *product)
	return nil
}

func (r memProducts) GetByID(_ context.Context, id uint) (*domain.Product, error) {
	defer r.s.lock()()
	for _, p := range r.s.data.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (r memProducts) List(_ context.Context, productType domain.ProductType) ([]domain.Product, error) {
	defer r.s.lock()()
	var out []domain.Product
	for _, p := range r.s.data.products {
		if productType == "" || p.Type == productType {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memProducts) RandomByType(_ context.Context, productType domain.ProductType, limit int) ([]domain.Product, error) {
	defer r.s.lock()()
	var out []domain.Product
	for _, p := range r.s.data.products {
		if p.Type == productType {
			out = append(out, p)
		}
	}
	r.s.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memProducts) CreateIngredient(_ context.Context, ingredient *domain.Ingredient) error {
	defer r.s.lock()()
	d := r.s.data
	for _, i := range d.ingredients {
		if i.Name == ingredient.Name {
			return apperrors.NewDuplicateFieldError("name")
		}
	}
	ingredient.ID = d.next("ingredients")
	d.ingredients = append(d.ingredients, *ingredient)
	return nil
}

func (r memProducts) GetIngredient(_ context.Context, id uint) (*domain.Ingredient, error) {
	defer r.s.lock()()
	for _, i := range r.s.data.ingredients {
		if i.ID == id {
			return &i, nil
		}
	}
	return nil, nil
}

func (r memProducts) LinkIngredient(_ context.Context, link *domain.ProductIngredient) error {
	defer r.s.lock()()
	d := r.s.data
	for _, l := range d.links {
		if l.ProductID == link.ProductID && l.IngredientID == link.IngredientID {
			return apperrors.NewDuplicateFieldError("product_id, ingredient_id")
		}
	}
	link.ID = d.next("product_ingredients")
	d.links = append(d.links, *link)
	return nil
}

func (r memProducts) Ingredients(_ context.Context, productID uint) ([]domain.Ingredient, error) {
	defer r.s.lock()()
	d := r.s.data
	var out []domain.Ingredient
	for _, ing := range d.ingredients {
		for _, l := range d.links {
			if l.ProductID == productID && l.IngredientID == ing.ID {
				out = append(out, ing)
				break
			}
		}
	}
	return out, nil
}

type memMenus struct{ s *MemoryStore }

func (r memMenus) Create(_ context.Context, menu *domain.Menu) error {
	defer r.s.lock()()
	d := r.s.data
	menu.ID = d.next("menus")
	r.s.stamp(&menu.CreatedAt)
	for i := range menu.Items {
		menu.Items[i].ID = d.next("menu_items")
		menu.Items[i].MenuID = menu.ID
	}
	stored := *menu
	stored.Items = make([]domain.MenuItem, len(menu.Items))
	for i, item := range menu.Items {
		item.Product = nil
		stored.Items[i] = item
	}
	d.menus = append(d.menus, stored)
	return nil
}

func copyMenu(m domain.Menu) domain.Menu {
	m.Items = append([]domain.MenuItem(nil), m.Items...)
	return m
}

func (r memMenus) GetByID(_ context.Context, id uint) (*domain.Menu, error) {
	defer r.s.lock()()
	for _, m := range r.s.data.menus {
		if m.ID == id {
			out := copyMenu(m)
			return &out, nil
		}
	}
	return nil, nil
}

func (r memMenus) ListByAccount(_ context.Context, accountID uint, date time.Time) ([]domain.Menu, error) {
	defer r.s.lock()()
	var out []domain.Menu
	for _, m := range r.s.data.menus {
		if m.AccountID != accountID {
			continue
		}
		if !date.IsZero() && !m.Date.Equal(date) {
			continue
		}
		out = append(out, copyMenu(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type memTrainings struct{ s *MemoryStore }

func (r memTrainings) Create(_ context.Context, training *domain.Training) error {
	defer r.s.lock()()
	d := r.s.data
	for _, t := range d.trainings {
		if t.Video == training.Video {
			return apperrors.NewDuplicateFieldError("video")
		}
		if t.Name == training.Name && t.Level == training.Level {
			return apperrors.NewDuplicateFieldError("name, level")
		}
	}
	training.ID = d.next("trainings")
	d.trainings = append(d.trainings, *training)
	return nil
}

func (r memTrainings) GetByID(_ context.Context, id uint) (*domain.Training, error) {
	defer r.s.lock()()
	for _, t := range r.s.data.trainings {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, nil
}

func (r memTrainings) List(_ context.Context, level domain.TrainingLevel) ([]domain.Training, error) {
	defer r.s.lock()()
	var out []domain.Training
	for _, t := range r.s.data.trainings {
		if level == 0 || t.Level == level {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r memTrainings) MarkConducted(_ context.Context, mark *domain.ConductedTraining) error {
	defer r.s.lock()()
	d := r.s.data
	for _, c := range d.conducted {
		if c.TrainingID == mark.TrainingID && c.AccountID == mark.AccountID {
			return apperrors.NewDuplicateFieldError("training_id, account_id")
		}
	}
	mark.ID = d.next("conducted_trainings")
	r.s.stamp(&mark.CreatedAt)
	d.conducted = append(d.conducted, *mark)
	return nil
}

func (r memTrainings) ListConducted(_ context.Context, accountID uint) ([]domain.ConductedTraining, error) {
	defer r.s.lock()()
	var out []domain.ConductedTraining
	for _, c := range r.s.data.conducted {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
