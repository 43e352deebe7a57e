package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/jonboulle/clockwork"

	"github.com/doodlesbykumbi/voterlist/pkg/identity"
	"github.com/doodlesbykumbi/voterlist/pkg/policy/loader"
	"github.com/doodlesbykumbi/voterlist/pkg/token"
)

// iAm issues a bearer token naming the account as the caller
func (s *StepsContext) iAm(name string) error {
	signed, _, err := s.tc.Issuer.Issue(addressOf(name))
	if err != nil {
		return err
	}
	s.authToken = signed
	s.caller = name
	return nil
}

func (s *StepsContext) iAmNotAuthenticated() error {
	s.authToken = ""
	s.caller = ""
	return nil
}

// iUseAnExpiredTokenFor signs a token whose lifetime ended an hour ago
func (s *StepsContext) iUseAnExpiredTokenFor(name string) error {
	clock := clockwork.NewFakeClockAt(time.Now().Add(-time.Hour))
	issuer, err := token.NewIssuer(s.tc.TokenKey, tokenIssuer, time.Minute, clock)
	if err != nil {
		return err
	}
	signed, _, err := issuer.Issue(addressOf(name))
	if err != nil {
		return err
	}
	s.authToken = signed
	s.caller = name
	return nil
}

// iApplyTheFollowingPolicy applies the document as the current caller.
// Account placeholders such as ${C} are replaced with addresses.
func (s *StepsContext) iApplyTheFollowingPolicy(doc *godog.DocString) error {
	if s.caller == "" {
		return fmt.Errorf("no caller, use 'I am'")
	}
	ctx := identity.WithCaller(context.Background(), addressOf(s.caller))

	_, s.policyErr = loader.NewLoader(s.server.Registry).Load(ctx, strings.NewReader(expand(doc.Content)))
	return nil
}

func (s *StepsContext) thePolicyShouldBeApplied() error {
	if s.policyErr != nil {
		return fmt.Errorf("policy failed: %w", s.policyErr)
	}
	return nil
}

func (s *StepsContext) thePolicyShouldBeRejectedWith(message string) error {
	if s.policyErr == nil {
		return fmt.Errorf("policy was applied")
	}
	if want := expand(message); !strings.Contains(s.policyErr.Error(), want) {
		return fmt.Errorf("expected policy error containing %q, got %q", want, s.policyErr.Error())
	}
	return nil
}
