package services

import (
	"fmt"
	"testing"
	"time"
)

type stubAuthStore struct {
	usersByEmail map[string]*User
	tenants      []*Tenant
}

func newStubAuthStore() *stubAuthStore {
	return &stubAuthStore{usersByEmail: map[string]*User{}}
}

func (s *stubAuthStore) FindUserByEmail(email string) (*User, error) {
	if u, ok := s.usersByEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *stubAuthStore) AddUser(u *User) error {
	cp := *u
	s.usersByEmail[u.Email] = &cp
	return nil
}

func (s *stubAuthStore) AddTenant(t *Tenant) error {
	cp := *t
	s.tenants = append(s.tenants, &cp)
	return nil
}

func fakeSigner(uid, tid, email string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("%s|%s|%s", uid, tid, email), nil
}

func TestRegisterAndLogin(t *testing.T) {
	store := newStubAuthStore()
	svc := NewAuthService(store, fakeSigner)

	res, err := svc.Register("lab@example.com", "hunter22", "Coding Lab")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if res.Token == "" || res.TenantID == "" || res.UserID == "" {
		t.Fatalf("incomplete auth result: %+v", res)
	}
	if len(store.tenants) != 1 || store.tenants[0].Name != "Coding Lab" {
		t.Fatalf("tenant not created: %+v", store.tenants)
	}

	if _, err := svc.Register("lab@example.com", "other", "Again"); err == nil {
		t.Fatalf("expected conflict for duplicate email")
	}

	login, err := svc.Login("lab@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if login.TenantID != res.TenantID || login.UserID != res.UserID {
		t.Fatalf("login identity mismatch: %+v vs %+v", login, res)
	}

	if _, err := svc.Login("lab@example.com", "wrong"); err == nil {
		t.Fatalf("expected unauthorized for bad password")
	}
	if _, err := svc.Login("nobody@example.com", "x"); err == nil {
		t.Fatalf("expected unauthorized for unknown user")
	}
	if _, err := svc.Login("", ""); err == nil {
		t.Fatalf("expected invalid for empty credentials")
	}
}
