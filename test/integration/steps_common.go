package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/cucumber/godog"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	server       *ServerInstance
	response     *http.Response
	responseBody []byte
	authToken    string
	caller       string
	policyErr    error
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if s.server != nil {
			s.server.Close()
		}
		return ctx, nil
	})

	// Background steps
	sc.Step(`^a registry deployed by "([^"]*)"$`, s.aRegistryDeployedBy)

	// Authentication steps
	sc.Step(`^I am "([^"]*)"$`, s.iAm)
	sc.Step(`^I am not authenticated$`, s.iAmNotAuthenticated)
	sc.Step(`^I use an expired token for "([^"]*)"$`, s.iUseAnExpiredTokenFor)

	// Role steps
	sc.Step(`^I grant "([^"]*)" to "([^"]*)"$`, s.iGrantTo)
	sc.Step(`^I revoke "([^"]*)" from "([^"]*)"$`, s.iRevokeFrom)
	sc.Step(`^I renounce "([^"]*)" for "([^"]*)"$`, s.iRenounceFor)
	sc.Step(`^"([^"]*)" should have role "([^"]*)"$`, s.shouldHaveRole)
	sc.Step(`^"([^"]*)" should not have role "([^"]*)"$`, s.shouldNotHaveRole)
	sc.Step(`^the admin of role "([^"]*)" should be "([^"]*)"$`, s.theAdminOfRoleShouldBe)
	sc.Step(`^role "([^"]*)" should have (\d+) members?$`, s.roleShouldHaveMembers)
	sc.Step(`^member (\d+) of role "([^"]*)" should be "([^"]*)"$`, s.memberOfRoleShouldBe)

	// Voter steps
	sc.Step(`^I add voter "([^"]*)"$`, s.iAddVoter)
	sc.Step(`^I remove voter "([^"]*)"$`, s.iRemoveVoter)
	sc.Step(`^I add voters "([^"]*)"$`, s.iAddVoters)
	sc.Step(`^I remove voters "([^"]*)"$`, s.iRemoveVoters)
	sc.Step(`^"([^"]*)" should have the vote right$`, s.shouldHaveTheVoteRight)
	sc.Step(`^"([^"]*)" should not have the vote right$`, s.shouldNotHaveTheVoteRight)

	// Policy steps
	sc.Step(`^I apply the following policy:$`, s.iApplyTheFollowingPolicy)
	sc.Step(`^the policy should be applied$`, s.thePolicyShouldBeApplied)
	sc.Step(`^the policy should be rejected with "([^"]*)"$`, s.thePolicyShouldBeRejectedWith)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the error code should be "([^"]*)"$`, s.theErrorCodeShouldBe)
	sc.Step(`^the error message should be "([^"]*)"$`, s.theErrorMessageShouldBe)
	sc.Step(`^the receipt should contain (\d+) events?$`, s.theReceiptShouldContainEvents)
	sc.Step(`^the receipt should contain event "([^"]*)" for role "([^"]*)" account "([^"]*)" sender "([^"]*)"$`, s.theReceiptShouldContainRoleEvent)
	sc.Step(`^the audit log should contain "([^"]*)"$`, s.theAuditLogShouldContain)
}

// Accounts are named in features; each name maps to a fixed address.
func addressOf(name string) common.Address {
	if strings.HasPrefix(name, "0x") {
		return common.HexToAddress(name)
	}
	return common.BytesToAddress(crypto.Keccak256([]byte(name))[12:])
}

var placeholder = regexp.MustCompile(`\$\{(role:)?([^}]+)\}`)

// expand replaces ${name} with the lowercase address of name and
// ${role:NAME} with the role id of NAME.
func expand(text string) string {
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		parts := placeholder.FindStringSubmatch(m)
		if parts[1] != "" {
			role, err := accesscontrol.ParseRole(parts[2])
			if err != nil {
				return m
			}
			return role.Hex()
		}
		return accesscontrol.FormatAccount(addressOf(parts[2]))
	})
}

func accountPath(name string) string {
	return addressOf(name).Hex()
}

// Background steps

func (s *StepsContext) aRegistryDeployedBy(name string) error {
	inst, err := StartServer(s.tc, addressOf(name))
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.server = inst
	return nil
}

// Requests

func (s *StepsContext) do(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.server.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) get(path string, v interface{}) error {
	token := s.authToken
	s.authToken = ""
	defer func() { s.authToken = token }()

	if err := s.do("GET", path, nil); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned %d: %s", path, s.response.StatusCode, s.responseBody)
	}
	return json.Unmarshal(s.responseBody, v)
}

// Role steps

func rolePath(role, account string) string {
	return "/roles/" + role + "/accounts/" + accountPath(account)
}

func (s *StepsContext) iGrantTo(role, account string) error {
	return s.do("POST", rolePath(role, account), nil)
}

func (s *StepsContext) iRevokeFrom(role, account string) error {
	return s.do("DELETE", rolePath(role, account), nil)
}

func (s *StepsContext) iRenounceFor(role, account string) error {
	return s.do("DELETE", rolePath(role, account)+"?renounce", nil)
}

func (s *StepsContext) hasRole(account, role string) (bool, error) {
	var resp struct {
		HasRole bool `json:"has_role"`
	}
	err := s.get(rolePath(role, account), &resp)
	return resp.HasRole, err
}

func (s *StepsContext) shouldHaveRole(account, role string) error {
	has, err := s.hasRole(account, role)
	if err != nil {
		return err
	}
	if !has {
		return fmt.Errorf("expected %s to have role %s", account, role)
	}
	return nil
}

func (s *StepsContext) shouldNotHaveRole(account, role string) error {
	has, err := s.hasRole(account, role)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("expected %s not to have role %s", account, role)
	}
	return nil
}

func (s *StepsContext) theAdminOfRoleShouldBe(role, admin string) error {
	var resp struct {
		AdminRole common.Hash `json:"admin_role"`
	}
	if err := s.get("/roles/"+role+"/admin", &resp); err != nil {
		return err
	}
	want, err := accesscontrol.ParseRole(admin)
	if err != nil {
		return err
	}
	if resp.AdminRole != want {
		return fmt.Errorf("expected admin %s, got %s", accesscontrol.RoleLabel(want), accesscontrol.RoleLabel(resp.AdminRole))
	}
	return nil
}

func (s *StepsContext) roleShouldHaveMembers(role string, count int) error {
	var resp struct {
		Count int `json:"count"`
	}
	if err := s.get("/roles/"+role+"/members", &resp); err != nil {
		return err
	}
	if resp.Count != count {
		return fmt.Errorf("expected %d members of %s, got %d", count, role, resp.Count)
	}
	return nil
}

func (s *StepsContext) memberOfRoleShouldBe(index int, role, account string) error {
	var resp struct {
		Account common.Address `json:"account"`
	}
	if err := s.get(fmt.Sprintf("/roles/%s/members/%d", role, index), &resp); err != nil {
		return err
	}
	if resp.Account != addressOf(account) {
		return fmt.Errorf("expected member %d of %s to be %s, got %s", index, role, account, resp.Account.Hex())
	}
	return nil
}

// Voter steps

func (s *StepsContext) iAddVoter(account string) error {
	return s.do("PUT", "/voters/"+accountPath(account), nil)
}

func (s *StepsContext) iRemoveVoter(account string) error {
	return s.do("DELETE", "/voters/"+accountPath(account), nil)
}

func batchBody(names string) map[string][]string {
	accounts := []string{}
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			accounts = append(accounts, accountPath(name))
		}
	}
	return map[string][]string{"accounts": accounts}
}

func (s *StepsContext) iAddVoters(names string) error {
	return s.do("POST", "/voters/batch-add", batchBody(names))
}

func (s *StepsContext) iRemoveVoters(names string) error {
	return s.do("POST", "/voters/batch-remove", batchBody(names))
}

func (s *StepsContext) hasVoteRight(account string) (bool, error) {
	var resp struct {
		HasVoteRight bool `json:"has_vote_right"`
	}
	err := s.get("/voters/"+accountPath(account), &resp)
	return resp.HasVoteRight, err
}

func (s *StepsContext) shouldHaveTheVoteRight(account string) error {
	voter, err := s.hasVoteRight(account)
	if err != nil {
		return err
	}
	if !voter {
		return fmt.Errorf("expected %s to have the vote right", account)
	}
	return nil
}

func (s *StepsContext) shouldNotHaveTheVoteRight(account string) error {
	voter, err := s.hasVoteRight(account)
	if err != nil {
		return err
	}
	if voter {
		return fmt.Errorf("expected %s not to have the vote right", account)
	}
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *StepsContext) errorResponse() (*errorResponse, error) {
	var resp errorResponse
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return nil, fmt.Errorf("response is not an error body: %s", s.responseBody)
	}
	return &resp, nil
}

func (s *StepsContext) theErrorCodeShouldBe(code string) error {
	resp, err := s.errorResponse()
	if err != nil {
		return err
	}
	if resp.Error.Code != code {
		return fmt.Errorf("expected error code %q, got %q", code, resp.Error.Code)
	}
	return nil
}

func (s *StepsContext) theErrorMessageShouldBe(message string) error {
	resp, err := s.errorResponse()
	if err != nil {
		return err
	}
	if want := expand(message); resp.Error.Message != want {
		return fmt.Errorf("expected error message %q, got %q", want, resp.Error.Message)
	}
	return nil
}

func (s *StepsContext) receipt() (*event.Receipt, error) {
	var receipt event.Receipt
	if err := json.Unmarshal(s.responseBody, &receipt); err != nil {
		return nil, fmt.Errorf("response is not a receipt: %s", s.responseBody)
	}
	return &receipt, nil
}

func (s *StepsContext) theReceiptShouldContainEvents(count int) error {
	receipt, err := s.receipt()
	if err != nil {
		return err
	}
	if len(receipt.Logs) != count {
		return fmt.Errorf("expected %d events, got %d", count, len(receipt.Logs))
	}
	return nil
}

func (s *StepsContext) theReceiptShouldContainRoleEvent(kind, role, account, sender string) error {
	receipt, err := s.receipt()
	if err != nil {
		return err
	}
	wantKind, err := event.KindString(kind)
	if err != nil {
		return err
	}
	wantRole, err := accesscontrol.ParseRole(role)
	if err != nil {
		return err
	}
	for _, e := range receipt.Logs {
		if e.Kind == wantKind && e.Role == wantRole &&
			e.Account == addressOf(account) && e.Sender == addressOf(sender) {
			return nil
		}
	}
	return fmt.Errorf("no %s(%s, %s, %s) in receipt %s", kind, role, account, sender, s.responseBody)
}

func (s *StepsContext) theAuditLogShouldContain(message string) error {
	want := expand(message)
	for _, e := range s.server.Audit {
		if e.Message() == want {
			return nil
		}
	}
	var got []string
	for _, e := range s.server.Audit {
		got = append(got, e.Message())
	}
	return fmt.Errorf("audit log has no %q:\n%s", want, strings.Join(got, "\n"))
}
