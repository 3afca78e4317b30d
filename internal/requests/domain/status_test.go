package domain

import "testing"

func TestRuleForAllowedTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		role     Role
		allowed  bool
	}{
		{StatusSubmitted, StatusUnderReview, RoleProfessional, true},
		{StatusSubmitted, StatusUnderReview, RoleCustomer, false},
		{StatusSubmitted, StatusCancelled, RoleAdmin, true},
		{StatusUnderReview, StatusQuoted, RoleProfessional, true},
		{StatusUnderReview, StatusQuoted, RoleAdmin, false},
		{StatusUnderReview, StatusCancelled, RoleProfessional, true},
		{StatusQuoted, StatusAccepted, RoleCustomer, true},
		{StatusQuoted, StatusAccepted, RoleAdmin, true},
		{StatusQuoted, StatusAccepted, RoleProfessional, false},
		{StatusQuoted, StatusCancelled, RoleCustomer, true},
		{StatusAccepted, StatusInProgress, RoleProfessional, true},
		{StatusAccepted, StatusInProgress, RoleCustomer, false},
		{StatusInProgress, StatusFinishedByProfessional, RoleProfessional, true},
		{StatusFinishedByProfessional, StatusCompleted, RoleCustomer, true},
		{StatusFinishedByProfessional, StatusCompleted, RoleAdmin, true},
		{StatusFinishedByProfessional, StatusCompleted, RoleProfessional, false},
		{StatusFinishedByProfessional, StatusUnderReview, RoleAdmin, true},
		{StatusFinishedByProfessional, StatusUnderReview, RoleProfessional, false},
	}

	for _, tc := range tests {
		rule, ok := RuleFor(tc.from, tc.to)
		if !ok {
			t.Errorf("RuleFor(%s, %s) should exist", tc.from, tc.to)
			continue
		}
		if got := rule.Allows(tc.role); got != tc.allowed {
			t.Errorf("RuleFor(%s, %s).Allows(%s) = %v, want %v", tc.from, tc.to, tc.role, got, tc.allowed)
		}
	}
}

func TestRuleForRejectsUnknownTransitions(t *testing.T) {
	invalid := []struct{ from, to Status }{
		{StatusSubmitted, StatusQuoted},
		{StatusSubmitted, StatusCompleted},
		{StatusQuoted, StatusInProgress},
		{StatusAccepted, StatusCancelled},
		{StatusInProgress, StatusCancelled},
		{StatusCompleted, StatusUnderReview},
		{StatusCancelled, StatusSubmitted},
		{StatusCancelled, StatusUnderReview},
		{StatusUnderReview, StatusSubmitted},
	}

	for _, tc := range invalid {
		if _, ok := RuleFor(tc.from, tc.to); ok {
			t.Errorf("RuleFor(%s, %s) should not exist", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal", s)
		}
		if targets := transitions[s]; len(targets) != 0 {
			t.Errorf("%s is terminal but has %d outgoing transitions", s, len(targets))
		}
	}
}

func TestGatedTransitions(t *testing.T) {
	// PaymentGate is consulted exactly before claim and before quoting.
	gated := map[[2]Status]bool{
		{StatusSubmitted, StatusUnderReview}: true,
		{StatusUnderReview, StatusQuoted}:    true,
	}

	for from, targets := range transitions {
		for to, rule := range targets {
			want := gated[[2]Status{from, to}]
			if rule.Gated != want {
				t.Errorf("transition %s -> %s: Gated = %v, want %v", from, to, rule.Gated, want)
			}
		}
	}
}

func TestHasQuoteMatchesQuotePassedStates(t *testing.T) {
	withQuote := []Status{StatusQuoted, StatusAccepted, StatusInProgress, StatusFinishedByProfessional, StatusCompleted}
	withoutQuote := []Status{StatusSubmitted, StatusUnderReview, StatusCancelled}

	for _, s := range withQuote {
		if !HasQuote(s) {
			t.Errorf("HasQuote(%s) = false, want true", s)
		}
	}
	for _, s := range withoutQuote {
		if HasQuote(s) {
			t.Errorf("HasQuote(%s) = true, want false", s)
		}
	}
}

func TestCarriesCommission(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusUnderReview, StatusQuoted, StatusAccepted, StatusInProgress, StatusCancelled} {
		if CarriesCommission(s) {
			t.Errorf("CarriesCommission(%s) = true, want false", s)
		}
	}
	for _, s := range []Status{StatusFinishedByProfessional, StatusCompleted} {
		if !CarriesCommission(s) {
			t.Errorf("CarriesCommission(%s) = false, want true", s)
		}
	}
}

func TestFromLegacyCoversEveryRetiredValue(t *testing.T) {
	cases := map[string]Status{
		"Enviada":    StatusSubmitted,
		"Revisando":  StatusUnderReview,
		"Cotizada":   StatusQuoted,
		"Programada": StatusAccepted,
		"Completada": StatusCompleted,
		"Cancelada":  StatusCancelled,
	}

	for legacy, want := range cases {
		got, ok := FromLegacy(legacy)
		if !ok {
			t.Errorf("FromLegacy(%q) not found", legacy)
			continue
		}
		if got != want {
			t.Errorf("FromLegacy(%q) = %s, want %s", legacy, got, want)
		}
		if !ValidStatus(got) {
			t.Errorf("FromLegacy(%q) maps to non-canonical %q", legacy, got)
		}
	}

	if _, ok := FromLegacy("Submitted"); ok {
		t.Error("canonical values must not resolve through the legacy map")
	}
}
