// Package state is the client-side application state: typed collections
// loaded from the server and written back in the background.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/contract-archive/internal/client"
	"github.com/nurpe/contract-archive/internal/model"
)

const (
	auditTimeFmt   = "2006/01/02 15:04:05"
	anonymousActor = "غير معروف"
	actionLogin    = "تسجيل الدخول"
	actionLogout   = "تسجيل الخروج"
	flushPoll      = 10 * time.Millisecond
)

type Store struct {
	gateway *client.Gateway
	log     zerolog.Logger
	now     func() time.Time

	Contracts     *Collection[model.Contract]
	Users         *Collection[model.User]
	AuditLog      *Collection[model.AuditLogEntry]
	ContractTypes *Collection[model.ContractTypeDefinition]

	mu          sync.RWMutex
	statuses    map[string]SaveStatus
	lastErr     error
	currentUser *model.User
}

func NewStore(gateway *client.Gateway, log zerolog.Logger) *Store {
	s := &Store{
		gateway:  gateway,
		log:      log.With().Str("component", "state").Logger(),
		now:      time.Now,
		statuses: make(map[string]SaveStatus),
	}
	s.Contracts = newCollection[model.Contract](model.TableContracts.String(), gateway, s.recordSave)
	s.Users = newCollection[model.User](model.TableUsers.String(), gateway, s.recordSave)
	s.AuditLog = newCollection[model.AuditLogEntry](model.TableAuditLog.String(), gateway, s.recordSave)
	s.ContractTypes = newCollection[model.ContractTypeDefinition](model.TableContractTypes.String(), gateway, s.recordSave)
	return s
}

// Start launches the save workers; they stop when ctx is done.
func (s *Store) Start(ctx context.Context) {
	go s.Contracts.run(ctx)
	go s.Users.run(ctx)
	go s.AuditLog.run(ctx)
	go s.ContractTypes.run(ctx)
}

// Load checks the server, fetches every collection in parallel with its
// default, and then writes users back so the seeded administrator exists on
// the server.
func (s *Store) Load(ctx context.Context) error {
	if err := s.gateway.Health(ctx); err != nil {
		return err
	}

	var (
		contracts []model.Contract
		users     []model.User
		audit     []model.AuditLogEntry
		types     []model.ContractTypeDefinition

		contractsErr, usersErr, auditErr, typesErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contracts, contractsErr = client.Load(gctx, s.gateway, s.Contracts.Table(), []model.Contract{})
		return nil
	})
	g.Go(func() error {
		users, usersErr = client.Load(gctx, s.gateway, s.Users.Table(), model.DefaultUsers())
		return nil
	})
	g.Go(func() error {
		audit, auditErr = client.Load(gctx, s.gateway, s.AuditLog.Table(), []model.AuditLogEntry{})
		return nil
	})
	g.Go(func() error {
		types, typesErr = client.Load(gctx, s.gateway, s.ContractTypes.Table(), []model.ContractTypeDefinition{})
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	loadInto(s, s.Contracts, contracts, contractsErr)
	loadInto(s, s.AuditLog, audit, auditErr)
	loadInto(s, s.ContractTypes, types, typesErr)
	if loadInto(s, s.Users, users, usersErr) {
		s.Users.Set(users)
	}

	s.log.Debug().
		Int("contracts", len(contracts)).
		Int("users", len(users)).
		Int("audit", len(audit)).
		Int("types", len(types)).
		Msg("state loaded")
	return nil
}

// loadInto installs loaded items. A collection that could not be decoded is
// left empty and blocked so no save can overwrite what the server holds.
func loadInto[T any](s *Store, c *Collection[T], items []T, err error) bool {
	if err != nil {
		s.log.Error().Err(err).Str("table", c.Table()).Msg("collection not loaded, saves disabled")
		c.block(err)
		c.replace(nil)
		s.mu.Lock()
		s.statuses[c.Table()] = StatusError
		s.lastErr = err
		s.mu.Unlock()
		return false
	}
	c.replace(items)
	return true
}

// Status folds the per-collection save states: any save in flight wins, then
// any failure.
func (s *Store) Status() SaveStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := StatusSaved
	for _, st := range s.statuses {
		switch st {
		case StatusSaving:
			return StatusSaving
		case StatusError:
			result = StatusError
		}
	}
	return result
}

func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Flush waits until every collection is written or ctx is done.
func (s *Store) Flush(ctx context.Context) error {
	ticker := time.NewTicker(flushPoll)
	defer ticker.Stop()
	for {
		if !s.Contracts.pending() && !s.Users.pending() && !s.AuditLog.pending() && !s.ContractTypes.pending() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// AddAudit prepends an entry attributed to user, the signed-in user, or the
// anonymous actor, in that order.
func (s *Store) AddAudit(action, user string) {
	if user == "" {
		if current := s.CurrentUser(); current != nil {
			user = current.Name
		}
	}
	if user == "" {
		user = anonymousActor
	}
	now := s.now()
	s.AuditLog.Update(func(entries []model.AuditLogEntry) []model.AuditLogEntry {
		id := now.UnixMilli()
		for _, e := range entries {
			if e.ID >= id {
				id = e.ID + 1
			}
		}
		entry := model.AuditLogEntry{
			ID:        id,
			Timestamp: now.Format(auditTimeFmt),
			User:      user,
			Action:    action,
		}
		return append([]model.AuditLogEntry{entry}, entries...)
	})
}

// Login matches an active user by phone and plaintext password.
func (s *Store) Login(phone, password string) (*model.User, bool) {
	for _, u := range s.Users.Get() {
		if u.Phone == phone && u.Password == password && u.IsActive() {
			user := u
			s.mu.Lock()
			s.currentUser = &user
			s.mu.Unlock()
			s.AddAudit(actionLogin, user.Name)
			return &user, true
		}
	}
	return nil, false
}

func (s *Store) Logout() {
	if s.CurrentUser() != nil {
		s.AddAudit(actionLogout, "")
	}
	s.mu.Lock()
	s.currentUser = nil
	s.mu.Unlock()
}

func (s *Store) CurrentUser() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentUser
}

func (s *Store) recordSave(table string, status SaveStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[table] = status
	if err != nil {
		s.lastErr = err
		s.log.Warn().Err(err).Str("table", table).Msg("save failed")
	}
}
