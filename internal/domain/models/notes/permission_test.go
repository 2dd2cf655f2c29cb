package notes

import (
	"testing"
	"time"
)

func TestFolderPermission_Covers(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		target string
		want   bool
	}{
		{"exact match", "it", "it", true},
		{"child path", "it", "it/year2/section-a/networks", true},
		{"deep grant exact", "it/year2", "it/year2", true},
		{"deep grant child", "it/year2", "it/year2/section-a", true},
		{"sibling prefix is not containment", "it", "itx", false},
		{"different department", "it", "cs/year1", false},
		{"child does not cover parent", "it/year2", "it", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perm := &FolderPermission{FolderPath: tt.path}
			if got := perm.Covers(tt.target); got != tt.want {
				t.Errorf("Covers(%q) on %q = %v, want %v", tt.target, tt.path, got, tt.want)
			}
		})
	}
}

func TestFolderPermission_ValidAt(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		perm FolderPermission
		want bool
	}{
		{"active no expiry", FolderPermission{Active: true}, true},
		{"inactive", FolderPermission{Active: false}, false},
		{"expired", FolderPermission{Active: true, ExpiresAt: &past}, false},
		{"expires in future", FolderPermission{Active: true, ExpiresAt: &future}, true},
		{"expires exactly now", FolderPermission{Active: true, ExpiresAt: &now}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.perm.ValidAt(now); got != tt.want {
				t.Errorf("ValidAt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDepartment(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"it/year2/section-a/networks", "it"},
		{"it", "it"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Department(tt.path); got != tt.want {
			t.Errorf("Department(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
