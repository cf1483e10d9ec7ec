package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"expensetracker/internal/core"
	"expensetracker/internal/data/memory"
)

type failingUsers struct{}

func (failingUsers) ListUsers(context.Context) ([]core.User, error) {
	return nil, errors.New("connection refused")
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	st := New()
	auth := NewAuthenticator(memory.NewDemo(), st, nil)

	if st.Authenticated() {
		t.Fatal("state must start logged out")
	}

	ok, err := auth.Login(ctx, "demo", "wrong")
	if err != nil || ok || st.Authenticated() {
		t.Fatalf("wrong password: ok=%v err=%v", ok, err)
	}

	ok, err = auth.Login(ctx, "demo", "demo123")
	if err != nil || !ok || !st.Authenticated() {
		t.Fatalf("demo login: ok=%v err=%v", ok, err)
	}

	auth.Logout(ctx)
	if st.Authenticated() {
		t.Fatal("logout must clear the flag")
	}
}

func TestLoginFetchFailure(t *testing.T) {
	st := New()
	ok, err := NewAuthenticator(failingUsers{}, st, nil).Login(context.Background(), "demo", "demo123")
	if err == nil || ok || st.Authenticated() {
		t.Fatalf("expected fetch error, got ok=%v err=%v", ok, err)
	}
}

func TestThemeSurvivesLogout(t *testing.T) {
	st := New()
	if st.Theme() != Light {
		t.Fatalf("default theme %s", st.Theme())
	}
	if st.ToggleTheme() != Dark {
		t.Fatal("toggle to dark")
	}
	st.SignIn()
	st.SignOut()
	if st.Theme() != Dark {
		t.Fatal("theme reset by logout")
	}
	if st.ToggleTheme() != Light {
		t.Fatal("toggle back to light")
	}
}

func TestNotificationsAreTakenOnce(t *testing.T) {
	st := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Notify(Success, "Login successful!")
		}()
	}
	wg.Wait()

	if got := st.TakeNotifications(); len(got) != 10 || got[0].Level != Success {
		t.Fatalf("unexpected %+v", got)
	}
	if got := st.TakeNotifications(); len(got) != 0 {
		t.Fatalf("expected empty queue, got %+v", got)
	}
}
