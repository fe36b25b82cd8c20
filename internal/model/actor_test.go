package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestActorCanEdit(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name  string
		actor *Actor
		owner uuid.UUID
		want  bool
	}{
		{"nil actor", nil, owner, false},
		{"owner edits own", &Actor{ID: owner, Role: RoleInstructor}, owner, true},
		{"non-owner denied", &Actor{ID: other, Role: RoleInstructor}, owner, false},
		{"student owner edits own", &Actor{ID: owner, Role: RoleStudent}, owner, true},
		{"admin edits anything", &Actor{ID: other, Role: RoleAdmin}, owner, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanEdit(tt.owner); got != tt.want {
				t.Errorf("CanEdit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActorIsAdmin(t *testing.T) {
	if (&Actor{Role: RoleAdmin}).IsAdmin() != true {
		t.Error("admin actor should be admin")
	}
	if (&Actor{Role: RoleInstructor}).IsAdmin() {
		t.Error("instructor is not admin")
	}
	var nilActor *Actor
	if nilActor.IsAdmin() {
		t.Error("nil actor is not admin")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleStudent, RoleInstructor, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("expected %q to be valid", role)
		}
	}
	if ValidRole("superuser") || ValidRole("") {
		t.Error("unexpected role accepted")
	}
}
