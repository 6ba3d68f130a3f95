package gitprovider_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/devdeck/devdeck/internal/port/gitprovider"
)

// stub satisfies Provider by embedding the interface; registry tests only
// ever call Name, so the embedded nil is never reached.
type stub struct {
	gitprovider.Provider
	name string
}

func (s *stub) Name() string { return s.name }

func okFactory(gitprovider.Deps) (gitprovider.Provider, error) {
	return &stub{name: "ok"}, nil
}

func TestFactoryReceivesDeps(t *testing.T) {
	var got gitprovider.Deps
	gitprovider.Register("capture", func(deps gitprovider.Deps) (gitprovider.Provider, error) {
		got = deps
		return &stub{name: "capture"}, nil
	})

	p, err := gitprovider.New("capture", gitprovider.Deps{Binary: "/usr/bin/git", DefaultCommits: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name() != "capture" {
		t.Errorf("Name() = %q, want capture", p.Name())
	}
	if got.Binary != "/usr/bin/git" || got.DefaultCommits != 7 {
		t.Errorf("factory saw %+v, deps were dropped on the way through", got)
	}
}

func TestUnknownProviderNamesAlternatives(t *testing.T) {
	gitprovider.Register("real", okFactory)

	_, err := gitprovider.New("reel", gitprovider.Deps{})
	if err == nil {
		t.Fatal("want an error for an unregistered name")
	}
	if !strings.Contains(err.Error(), "real") {
		t.Errorf("error %q should list the registered providers", err)
	}
}

func TestAvailableIsSorted(t *testing.T) {
	gitprovider.Register("zeta", okFactory)
	gitprovider.Register("alpha", okFactory)

	names := gitprovider.Available()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Available() = %v, want sorted order", names)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"alpha", "zeta"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Available() = %v, missing %q", names, want)
		}
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name string
		do   func()
	}{
		{"duplicate name", func() {
			gitprovider.Register("dup", okFactory)
			gitprovider.Register("dup", okFactory)
		}},
		{"empty name", func() { gitprovider.Register("", okFactory) }},
		{"nil factory", func() { gitprovider.Register("nilfactory", nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register accepted what it should refuse")
				}
			}()
			tt.do()
		})
	}
}
