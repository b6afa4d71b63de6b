package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/cache"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

var testToday = time.Date(2026, time.March, 10, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var uniqueViolation = &pgconn.PgError{Code: "23505"}

// fakeDB runs transactions inline. Repositories in these tests never touch it.
type fakeDB struct {
	db.DB
	txCount int
}

func (f *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	f.txCount++
	return txFunc(f)
}

type memStore struct {
	products   map[uuid.UUID]model.ProductWithRule
	categories map[uuid.UUID]model.Category
	batches    map[uuid.UUID]model.Batch
	sessions   map[uuid.UUID]model.InventorySession
	todos      map[uuid.UUID]model.SkuTodo
	users      map[uuid.UUID]model.User
	outbox     []repository.CreateOutboxMsgParams
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[uuid.UUID]model.ProductWithRule{},
		categories: map[uuid.UUID]model.Category{},
		batches:    map[uuid.UUID]model.Batch{},
		sessions:   map[uuid.UUID]model.InventorySession{},
		todos:      map[uuid.UUID]model.SkuTodo{},
		users:      map[uuid.UUID]model.User{},
	}
}

func (s *memStore) addProduct(userID uuid.UUID, sku string, buffer int, category *model.Category) model.ProductWithRule {
	p := model.ProductWithRule{
		Product: model.Product{
			ID:            uuid.New(),
			UserID:        userID,
			Sku:           sku,
			Name:          sku,
			RemovalBuffer: buffer,
		},
	}
	if category != nil {
		p.CategoryID = &category.ID
		p.CategoryName = &category.Name
		p.Rule = category.Rule
	}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addBatch(product model.ProductWithRule, exp time.Time, qty int) model.Batch {
	b := model.Batch{
		ID:         uuid.New(),
		UserID:     product.UserID,
		ProductID:  product.ID,
		ExpiryDate: exp,
		Quantity:   qty,
	}
	s.batches[b.ID] = b
	return b
}

func (s *memStore) detail(b model.Batch) model.BatchDetail {
	p := s.products[b.ProductID]
	rule := p.Rule
	if p.CategoryID != nil {
		rule = s.categories[*p.CategoryID].Rule
	}
	return model.BatchDetail{
		Batch:         b,
		Sku:           p.Sku,
		ProductName:   p.Name,
		RemovalBuffer: p.RemovalBuffer,
		Rule:          rule,
	}
}

// productRepo

type productRepo struct{ s *memStore }

func (r productRepo) WithDB(db.DB) repository.ProductRepository { return r }

func (r productRepo) CreateProduct(_ context.Context, p model.Product) error {
	r.s.products[p.ID] = model.ProductWithRule{Product: p}
	return nil
}

func (r productRepo) EnsureProducts(_ context.Context, params repository.EnsureProductsParams) (map[string]uuid.UUID, error) {
	ids := map[string]uuid.UUID{}
	for _, sku := range params.Skus {
		if p, err := r.GetProductBySku(context.Background(), params.UserID, sku); err == nil {
			ids[sku] = p.ID
			continue
		}
		p := r.s.addProduct(params.UserID, sku, 0, nil)
		ids[sku] = p.ID
	}
	return ids, nil
}

func (r productRepo) GetProductBySku(_ context.Context, userID uuid.UUID, sku string) (model.ProductWithRule, error) {
	for _, p := range r.s.products {
		if p.UserID == userID && p.Sku == sku {
			return p, nil
		}
	}
	return model.ProductWithRule{}, pgx.ErrNoRows
}

func (r productRepo) ListProducts(_ context.Context, userID uuid.UUID) ([]model.ProductWithRule, error) {
	var out []model.ProductWithRule
	for _, p := range r.s.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sku < out[j].Sku })
	return out, nil
}

func (r productRepo) UpdateProduct(ctx context.Context, params repository.UpdateProductParams) error {
	p, err := r.GetProductBySku(ctx, params.UserID, params.Sku)
	if err != nil {
		return err
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.RemovalBuffer != nil {
		p.RemovalBuffer = *params.RemovalBuffer
	}
	if params.ClearCategory {
		p.CategoryID, p.CategoryName, p.Rule = nil, nil, model.CategoryRule{}
	} else if params.CategoryID != nil {
		c := r.s.categories[*params.CategoryID]
		p.CategoryID, p.CategoryName, p.Rule = &c.ID, &c.Name, c.Rule
	}
	p.UpdatedAt = params.UpdatedAt
	r.s.products[p.ID] = p
	return nil
}

func (r productRepo) DeleteProduct(ctx context.Context, userID uuid.UUID, sku string) error {
	p, err := r.GetProductBySku(ctx, userID, sku)
	if err != nil {
		return err
	}
	delete(r.s.products, p.ID)
	for id, b := range r.s.batches {
		if b.ProductID == p.ID {
			delete(r.s.batches, id)
		}
	}
	return nil
}

// batchRepo

type batchRepo struct{ s *memStore }

func (r batchRepo) WithDB(db.DB) repository.BatchRepository { return r }

func (r batchRepo) CreateBatches(_ context.Context, batches []model.Batch) error {
	for _, b := range batches {
		r.s.batches[b.ID] = b
	}
	return nil
}

func (r batchRepo) ListBatches(_ context.Context, params repository.ListBatchesParams) ([]model.BatchDetail, error) {
	var out []model.BatchDetail
	for _, b := range r.s.batches {
		if b.UserID != params.UserID {
			continue
		}
		d := r.s.detail(b)
		if params.Sku != nil && d.Sku != *params.Sku {
			continue
		}
		if params.SessionID != nil && (b.SessionID == nil || *b.SessionID != *params.SessionID) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (r batchRepo) GetBatch(_ context.Context, userID, id uuid.UUID) (model.BatchDetail, error) {
	b, ok := r.s.batches[id]
	if !ok || b.UserID != userID {
		return model.BatchDetail{}, pgx.ErrNoRows
	}
	return r.s.detail(b), nil
}

func (r batchRepo) UpdateBatch(_ context.Context, params repository.UpdateBatchParams) error {
	b, ok := r.s.batches[params.ID]
	if !ok || b.UserID != params.UserID {
		return pgx.ErrNoRows
	}
	if params.ExpiryDate != nil {
		b.ExpiryDate = *params.ExpiryDate
	}
	if params.Quantity != nil {
		b.Quantity = *params.Quantity
	}
	r.s.batches[b.ID] = b
	return nil
}

func (r batchRepo) DeleteBatch(_ context.Context, userID, id uuid.UUID) error {
	b, ok := r.s.batches[id]
	if !ok || b.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.s.batches, id)
	return nil
}

// sessionRepo

type sessionRepo struct{ s *memStore }

func (r sessionRepo) WithDB(db.DB) repository.InventorySessionRepository { return r }

func (r sessionRepo) CreateSession(_ context.Context, session model.InventorySession) error {
	for _, existing := range r.s.sessions {
		if existing.UserID == session.UserID && existing.SessionKey == session.SessionKey {
			return uniqueViolation
		}
	}
	r.s.sessions[session.ID] = session
	return nil
}

func (r sessionRepo) GetSession(_ context.Context, userID, id uuid.UUID) (model.InventorySession, error) {
	session, ok := r.s.sessions[id]
	if !ok || session.UserID != userID {
		return model.InventorySession{}, pgx.ErrNoRows
	}
	return session, nil
}

func (r sessionRepo) ListSessions(_ context.Context, params repository.ListSessionsParams) ([]model.InventorySession, error) {
	var out []model.InventorySession
	for _, session := range r.s.sessions {
		if session.UserID == params.UserID {
			out = append(out, session)
		}
	}
	return out, nil
}

// categoryRepo

type categoryRepo struct{ s *memStore }

func (r categoryRepo) WithDB(db.DB) repository.CategoryRepository { return r }

func (r categoryRepo) CreateCategory(_ context.Context, c model.Category) error {
	for _, existing := range r.s.categories {
		if existing.UserID == c.UserID && existing.Name == c.Name {
			return uniqueViolation
		}
	}
	r.s.categories[c.ID] = c
	return nil
}

func (r categoryRepo) GetCategory(_ context.Context, userID, id uuid.UUID) (model.Category, error) {
	c, ok := r.s.categories[id]
	if !ok || c.UserID != userID {
		return model.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (r categoryRepo) ListCategories(_ context.Context, userID uuid.UUID) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r categoryRepo) UpdateCategory(ctx context.Context, params repository.UpdateCategoryParams) error {
	c, err := r.GetCategory(ctx, params.UserID, params.ID)
	if err != nil {
		return err
	}
	if params.Name != nil {
		for _, existing := range r.s.categories {
			if existing.ID != c.ID && existing.UserID == c.UserID && existing.Name == *params.Name {
				return uniqueViolation
			}
		}
		c.Name = *params.Name
	}
	if params.Rule != nil {
		c.Rule = *params.Rule
	}
	c.UpdatedAt = params.UpdatedAt
	r.s.categories[c.ID] = c
	return nil
}

func (r categoryRepo) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := r.GetCategory(ctx, userID, id); err != nil {
		return err
	}
	delete(r.s.categories, id)
	for pid, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID, p.CategoryName, p.Rule = nil, nil, model.CategoryRule{}
			r.s.products[pid] = p
		}
	}
	return nil
}

// todoRepo

type todoRepo struct{ s *memStore }

func (r todoRepo) WithDB(db.DB) repository.SkuTodoRepository { return r }

func (r todoRepo) CreateTodo(_ context.Context, todo model.SkuTodo) error {
	for _, existing := range r.s.todos {
		if existing.UserID == todo.UserID && existing.Sku == todo.Sku {
			return uniqueViolation
		}
	}
	r.s.todos[todo.ID] = todo
	return nil
}

func (r todoRepo) GetTodo(_ context.Context, userID, id uuid.UUID) (model.SkuTodo, error) {
	todo, ok := r.s.todos[id]
	if !ok || todo.UserID != userID {
		return model.SkuTodo{}, pgx.ErrNoRows
	}
	return todo, nil
}

func (r todoRepo) ListTodos(_ context.Context, userID uuid.UUID) ([]model.SkuTodo, error) {
	var out []model.SkuTodo
	for _, todo := range r.s.todos {
		if todo.UserID == userID {
			out = append(out, todo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sku < out[j].Sku })
	return out, nil
}

func (r todoRepo) MarkTodoCounted(ctx context.Context, userID, id uuid.UUID, countedOn time.Time) error {
	todo, err := r.GetTodo(ctx, userID, id)
	if err != nil {
		return err
	}
	todo.LastCountedOn = &countedOn
	r.s.todos[id] = todo
	return nil
}

func (r todoRepo) MarkTodosCountedBySku(_ context.Context, params repository.MarkTodosCountedParams) (int64, error) {
	var n int64
	for id, todo := range r.s.todos {
		if todo.UserID != params.UserID {
			continue
		}
		for _, sku := range params.Skus {
			if todo.Sku == sku {
				countedOn := params.CountedOn
				todo.LastCountedOn = &countedOn
				r.s.todos[id] = todo
				n++
			}
		}
	}
	return n, nil
}

func (r todoRepo) DeleteTodo(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := r.GetTodo(ctx, userID, id); err != nil {
		return err
	}
	delete(r.s.todos, id)
	return nil
}

// userRepo

type userRepo struct{ s *memStore }

func (r userRepo) WithDB(db.DB) repository.UserRepository { return r }

func (r userRepo) CreateUser(_ context.Context, user model.User) error {
	for _, existing := range r.s.users {
		if existing.Username == user.Username {
			return uniqueViolation
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r userRepo) UpsertUser(_ context.Context, user model.User) error {
	for id, existing := range r.s.users {
		if existing.Username == user.Username {
			existing.PasswordHash = user.PasswordHash
			r.s.users[id] = existing
			return nil
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r userRepo) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	for _, user := range r.s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, pgx.ErrNoRows
}

func (r userRepo) GetUserByID(_ context.Context, id uuid.UUID) (model.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return model.User{}, pgx.ErrNoRows
	}
	return user, nil
}

// outboxRepo

type outboxRepo struct{ s *memStore }

func (r outboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r outboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	r.s.outbox = append(r.s.outbox, params)
	return nil
}

func (r outboxRepo) ListUnprocessedOutboxMsgs(context.Context, repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	return nil, nil
}

func (r outboxRepo) BulkUpdateOutboxMsgs(context.Context, repository.BulkUpdateOutboxMsgsParams) error {
	return nil
}

// memCache

type memCache struct {
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := c.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	c.ttl[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}
