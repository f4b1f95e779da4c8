//go:build e2e

package e2e

import (
	"testing"

	"github.com/themizzi/saucecheck/internal/scenarios"
)

// TestLogin covers signing in
// Feature: Login
//
//	As a shopper
//	I want to sign in with my account
//	So that I can browse the store
//
// Scenario: Locked out user
//
//	Given I am on the login page
//	When I sign in as "locked_out_user"
//	Then I should see an error mentioning "locked out"
//	And I should stay on the login page
func TestLogin(t *testing.T) {
	runGroup(t, scenarios.Login())
}
