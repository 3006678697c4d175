package grcAuth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/grcAuth/jwt"
	"github.com/MrEthical07/grcAuth/password"
	"github.com/MrEthical07/grcAuth/permission"
)

type mockDirectory struct {
	mu       sync.Mutex
	accounts map[string]*Account
	byEmail  map[string]string
	byUser   map[string]string
	roles    map[string]*Role
	totp     map[string]string

	lookupErr   error
	updateErr   error
	createErr   error
	sequence    int

	getByEmailCalls    int
	getByUsernameCalls int
	getByIDCalls       int
	createCalls        int
	updatePassCalls    int
	updateProfileCalls int
	lastLoginCalls     int
	activeCalls        int
	getRoleCalls       int
	getTOTPCalls       int
	saveTOTPCalls      int
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		accounts: make(map[string]*Account),
		byEmail:  make(map[string]string),
		byUser:   make(map[string]string),
		roles:    make(map[string]*Role),
		totp:     make(map[string]string),
	}
}

func (m *mockDirectory) put(acct *Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acct.ID] = acct
	if acct.Email != "" {
		m.byEmail[acct.Email] = acct.ID
	}
	if acct.Username != "" {
		m.byUser[acct.Username] = acct.ID
	}
}

func (m *mockDirectory) putRole(role *Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[role.ID] = role
}

func (m *mockDirectory) account(id string) *Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[id]
}

func (m *mockDirectory) GetAccountByEmail(ctx context.Context, tenantID, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByEmailCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	return cloneTestAccount(m.accounts[id]), nil
}

func (m *mockDirectory) GetAccountByUsername(ctx context.Context, tenantID, username string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByUsernameCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	id, ok := m.byUser[username]
	if !ok {
		return nil, nil
	}
	return cloneTestAccount(m.accounts[id]), nil
}

func (m *mockDirectory) GetAccountByID(ctx context.Context, accountID string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByIDCalls++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	return cloneTestAccount(m.accounts[accountID]), nil
}

func (m *mockDirectory) CreateAccount(ctx context.Context, input CreateAccountInput) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.sequence++
	acct := &Account{
		ID:             fmt.Sprintf("u%d", m.sequence),
		TenantID:       input.TenantID,
		Email:          input.Email,
		Username:       input.Username,
		DisplayName:    input.DisplayName,
		RoleID:         input.RoleID,
		HashedPassword: input.HashedPassword,
		PassExpiry:     input.PassExpiry,
		IsFirstLogin:   input.IsFirstLogin,
		SSOUser:        input.SSOUser,
		Active:         input.Active,
	}
	m.accounts[acct.ID] = acct
	if acct.Email != "" {
		m.byEmail[acct.Email] = acct.ID
	}
	if acct.Username != "" {
		m.byUser[acct.Username] = acct.ID
	}
	return cloneTestAccount(acct), nil
}

func (m *mockDirectory) UpdatePassword(ctx context.Context, accountID string, update PasswordUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updatePassCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	acct, ok := m.accounts[accountID]
	if !ok {
		return errors.New("not found")
	}
	acct.HashedPassword = update.Hash
	acct.PrevPasswords = update.PrevPasswords
	acct.PassExpiry = update.PassExpiry
	acct.IsFirstLogin = update.IsFirstLogin
	return nil
}

func (m *mockDirectory) UpdateProfile(ctx context.Context, accountID, displayName, avatar string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateProfileCalls++
	acct, ok := m.accounts[accountID]
	if !ok {
		return errors.New("not found")
	}
	if displayName != "" {
		acct.DisplayName = displayName
	}
	if avatar != "" {
		acct.Avatar = avatar
	}
	return nil
}

func (m *mockDirectory) UpdateLastLogin(ctx context.Context, accountID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLoginCalls++
	if acct, ok := m.accounts[accountID]; ok {
		acct.LastLogin = at
	}
	return nil
}

func (m *mockDirectory) UpdateAccountActive(ctx context.Context, accountID string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	acct, ok := m.accounts[accountID]
	if !ok {
		return errors.New("not found")
	}
	acct.Active = active
	return nil
}

func (m *mockDirectory) GetRole(ctx context.Context, roleID string) (*Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getRoleCalls++
	return m.roles[roleID], nil
}

func (m *mockDirectory) GetTOTPSecret(ctx context.Context, accountID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getTOTPCalls++
	return m.totp[accountID], nil
}

func (m *mockDirectory) SaveTOTPSecret(ctx context.Context, accountID, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveTOTPCalls++
	m.totp[accountID] = secret
	return nil
}

func cloneTestAccount(acct *Account) *Account {
	if acct == nil {
		return nil
	}
	out := *acct
	out.PrevPasswords = append([]string(nil), acct.PrevPasswords...)
	return &out
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type mockMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (m *mockMailer) SendMail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *mockMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("expected at least one mail")
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var (
	otpCodePattern   = regexp.MustCompile(`\b[0-9]{6}\b`)
	linkTokenPattern = regexp.MustCompile(`\b[0-9a-f]{60}\b`)
)

func (m *mockMailer) lastOTPCode(t *testing.T) string {
	t.Helper()
	code := otpCodePattern.FindString(m.last(t).Body)
	if code == "" {
		t.Fatalf("no OTP code in mail body: %q", m.last(t).Body)
	}
	return code
}

func (m *mockMailer) lastLinkToken(t *testing.T) string {
	t.Helper()
	token := linkTokenPattern.FindString(m.last(t).Body)
	if token == "" {
		t.Fatalf("no link token in mail body: %q", m.last(t).Body)
	}
	return token
}

type mockPermissionChecker struct {
	allow    bool
	checkErr error
	calls    int
	lastReqs []string
}

func (m *mockPermissionChecker) CheckRolePermissions(ctx context.Context, actorID string, requirements []string) (bool, error) {
	m.calls++
	m.lastReqs = requirements
	if m.checkErr != nil {
		return false, m.checkErr
	}
	return m.allow, nil
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func newTestHasher(t *testing.T) *password.Hasher {
	t.Helper()

	h, err := password.NewHasher(4)
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	return h
}

func testTenantConfig() TenantConfig {
	return TenantConfig{
		TenantID:           "0",
		OrgName:            "Acme GRC",
		NormalLoginEnabled: true,
		MFAEnabled:         false,
		MFAEmail:           true,
		LogAdminActivity:   true,
		LogUserAuth:        true,
	}
}

type testEngineOption func(*Engine)

func withTenant(tc TenantConfig) testEngineOption {
	return func(e *Engine) {
		e.tenant = newTenantConfigHolder(tc)
	}
}

func withPermission(p PermissionChecker) testEngineOption {
	return func(e *Engine) {
		e.permission = p
	}
}

func newTestEngine(t *testing.T, rdb *redis.Client, dir Directory, mailer Mailer, opts ...testEngineOption) *Engine {
	t.Helper()

	cfg := defaultConfig()
	cfg.Password.BcryptCost = 4
	cfg.Token.PrivateKey = []byte("test-signing-key")

	jm, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    cfg.Token.PrivateKey,
	})
	if err != nil {
		t.Fatalf("jwt.NewManager failed: %v", err)
	}

	engine := &Engine{
		config:     cfg,
		tenant:     newTenantConfigHolder(testTenantConfig()),
		otpStore:   newOTPStore(rdb),
		linkStore:  newLinkStore(rdb),
		metrics:    NewMetrics(MetricsConfig{Enabled: true}),
		hasher:     newTestHasher(t),
		jwtManager: jm,
		directory:  dir,
		mailer:     mailer,
	}

	for _, opt := range opts {
		opt(engine)
	}

	return engine
}

func seedUser(t *testing.T, e *Engine, dir *mockDirectory, id, email, plain string) *Account {
	t.Helper()

	hash, err := e.hasher.Hash(plain)
	if err != nil {
		t.Fatalf("seed hash failed: %v", err)
	}

	acct := &Account{
		ID:             id,
		TenantID:       "0",
		Email:          email,
		DisplayName:    "Test User",
		HashedPassword: hash,
		PassExpiry:     time.Now().AddDate(0, 0, 30),
		Active:         true,
		RoleID:         "role-member",
	}
	dir.put(acct)
	dir.putRole(&Role{
		ID:   "role-member",
		Name: "Employee",
		Tier: permission.Resolve("Employee", false, false),
	})
	return acct
}

func seedSuperAdmin(t *testing.T, e *Engine, dir *mockDirectory, id, username, email, plain string) *Account {
	t.Helper()

	hash, err := e.hasher.Hash(plain)
	if err != nil {
		t.Fatalf("seed hash failed: %v", err)
	}

	acct := &Account{
		ID:             id,
		TenantID:       "0",
		Username:       username,
		Email:          email,
		DisplayName:    "Root Admin",
		HashedPassword: hash,
		PassExpiry:     time.Now().AddDate(0, 0, 30),
		Active:         true,
	}
	dir.put(acct)
	return acct
}
