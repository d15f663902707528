package domain

import "testing"

func TestAccessLevel_Satisfies(t *testing.T) {
	cases := []struct {
		held, required AccessLevel
		want           bool
	}{
		{AccessRead, AccessRead, true},
		{AccessRead, AccessWrite, false},
		{AccessWrite, AccessRead, true},
		{AccessWrite, AccessWrite, true},
	}
	for _, tc := range cases {
		if got := tc.held.Satisfies(tc.required); got != tc.want {
			t.Fatalf("%s satisfies %s: got %v, want %v", tc.held, tc.required, got, tc.want)
		}
	}
}

func TestParseAccessLevel(t *testing.T) {
	if _, ok := ParseAccessLevel("READ"); !ok {
		t.Fatalf("READ rejected")
	}
	if _, ok := ParseAccessLevel("WRITE"); !ok {
		t.Fatalf("WRITE rejected")
	}
	for _, s := range []string{"", "read", "ADMIN", "OWNER"} {
		if _, ok := ParseAccessLevel(s); ok {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestParseResourceType(t *testing.T) {
	for _, s := range []string{"folder", "note"} {
		if _, ok := ParseResourceType(s); !ok {
			t.Fatalf("%q rejected", s)
		}
	}
	if _, ok := ParseResourceType("document"); ok {
		t.Fatalf("unknown type accepted")
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole(" manager "); !ok || role != RoleManager {
		t.Fatalf("expected normalized MANAGER, got %q %v", role, ok)
	}
	if role, ok := ParseRole("MEMBER"); !ok || role != RoleMember {
		t.Fatalf("expected MEMBER, got %q %v", role, ok)
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatalf("unknown role accepted")
	}
}

func TestUser_Public(t *testing.T) {
	u := &User{ID: "user-1", Username: "alice", Email: "alice@example.com", PasswordHash: "hash", Role: RoleMember}
	pub := u.Public()
	if pub.ID != u.ID || pub.Username != u.Username || pub.Email != u.Email || pub.Role != u.Role {
		t.Fatalf("projection lost fields: %+v", pub)
	}

	var nilUser *User
	if nilUser.Public() != nil {
		t.Fatalf("nil user must project to nil")
	}
}
