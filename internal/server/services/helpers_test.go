package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"authservice/internal/common"
	"authservice/internal/dbx"
	"authservice/internal/server/config"
	"authservice/internal/server/models"
	refreshtokensrepo "authservice/internal/server/repositories/refreshtokens"
	usersrepo "authservice/internal/server/repositories/users"
)

// --- in-memory fakes ---

type memUsersRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{
		byID:    map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (r *memUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrEmailExists
	}
	u := *user
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return user, nil
}

func (r *memUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsersRepo) List(ctx context.Context, page, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []*models.User
	for _, u := range r.byID {
		cp := *u
		users = append(users, &cp)
	}
	return users, int64(len(r.byID)), nil
}

func (r *memUsersRepo) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[user.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.byEmail, old.Email)
	cp := *user
	r.byID[cp.ID] = &cp
	r.byEmail[cp.Email] = &cp
	return user, nil
}

func (r *memUsersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
	return nil
}

type memTokensRepo struct {
	mu     sync.Mutex
	byUser map[string][]*models.RefreshToken
}

func newMemTokensRepo() *memTokensRepo {
	return &memTokensRepo{byUser: map[string][]*models.RefreshToken{}}
}

func (r *memTokensRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.byUser[cp.UserID] = append(r.byUser[cp.UserID], &cp)
	return nil
}

func (r *memTokensRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}

func (r *memTokensRepo) Consume(ctx context.Context, userID, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tokens := r.byUser[userID]
	for i, tok := range tokens {
		if tok.TokenHash == tokenHash && !tok.Revoked {
			r.byUser[userID] = append(tokens[:i], tokens[i+1:]...)
			return tok, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memTokensRepo) count(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser[userID])
}

type fakeRepoManager struct {
	users  usersrepo.Repository
	tokens refreshtokensrepo.Repository
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository { return f.users }

func (f *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return f.tokens }

// --- wiring helpers ---

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = 4 // bcrypt.MinCost, keeps tests fast
	return cfg
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// expectSignTokens registers the transaction the token-minting path runs.
// The repositories themselves are fakes, so only Begin/Commit hit the DB.
func expectSignTokens(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectCommit()
}

func newTestServices(t *testing.T, db *sql.DB) (*AuthService, *UserService, *memUsersRepo, *memTokensRepo) {
	t.Helper()
	cfg := testConfig()
	rm := &fakeRepoManager{users: newMemUsersRepo(), tokens: newMemTokensRepo()}
	us := NewUserService(db, rm, cfg)
	as := NewAuthService(db, rm, us, cfg)
	return as, us, rm.users.(*memUsersRepo), rm.tokens.(*memTokensRepo)
}
