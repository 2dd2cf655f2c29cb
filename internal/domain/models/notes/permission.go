package notes

import (
	"strings"
	"time"
)

// Capability is a single folder capability, evaluated independently.
type Capability string

const (
	CapabilityRead   Capability = "READ"
	CapabilityWrite  Capability = "WRITE"
	CapabilityDelete Capability = "DELETE"
	CapabilityManage Capability = "MANAGE"
)

// FolderPermission grants a user capabilities on a folder path and every
// path beneath it. Revocation deactivates the row; it is never deleted.
type FolderPermission struct {
	ID         int64  `json:"-" db:"id"`
	UserID     int64  `json:"-" db:"user_id"`
	FolderPath string `json:"folder_path" db:"folder_path"`

	CanRead   bool `json:"can_read" db:"can_read"`
	CanWrite  bool `json:"can_write" db:"can_write"`
	CanDelete bool `json:"can_delete" db:"can_delete"`
	CanManage bool `json:"can_manage" db:"can_manage"`

	Active    bool       `json:"active" db:"active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"expires_at"`

	GrantedByID int64     `json:"-" db:"granted_by_id"`
	GrantedAt   time.Time `json:"granted_at" db:"granted_at"`
}

// Covers reports whether this grant's folder path contains targetPath.
// Containment is prefix-of-path, not wildcard matching: a grant on "it"
// covers "it" and "it/year2/...", but not "itx".
func (p *FolderPermission) Covers(targetPath string) bool {
	if p.FolderPath == targetPath {
		return true
	}
	return strings.HasPrefix(targetPath, p.FolderPath+"/")
}

// ValidAt reports whether the grant is active and unexpired at the given time.
// Expiry is evaluated at read time; expired rows are never swept eagerly.
func (p *FolderPermission) ValidAt(now time.Time) bool {
	if !p.Active {
		return false
	}
	if p.ExpiresAt != nil && !p.ExpiresAt.After(now) {
		return false
	}
	return true
}

// Grants reports whether the grant carries the requested capability flag.
func (p *FolderPermission) Grants(capability Capability) bool {
	switch capability {
	case CapabilityRead:
		return p.CanRead
	case CapabilityWrite:
		return p.CanWrite
	case CapabilityDelete:
		return p.CanDelete
	case CapabilityManage:
		return p.CanManage
	default:
		return false
	}
}

// Department extracts the first segment of a folder path.
func Department(folderPath string) string {
	if folderPath == "" {
		return ""
	}
	if i := strings.IndexByte(folderPath, '/'); i > 0 {
		return folderPath[:i]
	}
	return folderPath
}
