package comment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vivemedellin/go-vivemedellin/service/persist"
)

func TestCanEdit(t *testing.T) {
	createdAt := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	window := time.Hour

	author := &persist.User{ID: "user-5", Name: "Ana"}
	otherUser := &persist.User{ID: "user-9", Name: "Ana"}
	admin := &persist.User{ID: "admin-1", Name: "Root", Roles: []persist.Role{persist.RoleAdmin}}

	c := persist.Comment{ID: "c1", AuthorID: "user-5", AuthorName: "Ana", CreatedAt: persist.CreationTime(createdAt)}

	tests := []struct {
		name string
		user *persist.User
		now  time.Time
		want bool
	}{
		{"author inside window", author, createdAt.Add(59 * time.Minute), true},
		{"author at window boundary", author, createdAt.Add(time.Hour), true},
		{"author outside window", author, createdAt.Add(61 * time.Minute), false},
		{"non-author inside window", otherUser, createdAt.Add(time.Minute), false},
		{"non-author outside window", otherUser, createdAt.Add(2 * time.Hour), false},
		{"admin is not the author", admin, createdAt.Add(time.Minute), false},
		{"no session user", nil, createdAt.Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.user, c, tt.now, window))
		})
	}
}

func TestCanEdit_SharedDisplayNameDoesNotGrantAccess(t *testing.T) {
	// Two distinct users named "Ana"; only the one whose ID matches may
	// edit.
	c := persist.Comment{ID: "c1", AuthorID: "user-5", AuthorName: "Ana", CreatedAt: persist.CreationTime(time.Now())}
	impostor := &persist.User{ID: "user-9", Name: "Ana"}

	assert.False(t, CanEdit(impostor, c, time.Now(), time.Hour))
}

func TestCanEdit_LegacyNameFallback(t *testing.T) {
	// Comments imported without author IDs fall back to the name snapshot,
	// but only when the session user also has no ID.
	c := persist.Comment{ID: "c1", AuthorName: "Ana", CreatedAt: persist.CreationTime(time.Now())}

	assert.True(t, CanEdit(&persist.User{Name: "Ana"}, c, time.Now(), time.Hour))
	assert.False(t, CanEdit(&persist.User{ID: "user-9", Name: "Ana"}, c, time.Now(), time.Hour))
	assert.False(t, CanEdit(&persist.User{Name: "Luis"}, c, time.Now(), time.Hour))
}

func TestCanDelete(t *testing.T) {
	c := persist.Comment{ID: "c1", AuthorID: "user-5", AuthorName: "Ana", CreatedAt: persist.CreationTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))}

	author := &persist.User{ID: "user-5", Name: "Ana"}
	admin := &persist.User{ID: "admin-1", Roles: []persist.Role{persist.RoleAdmin}}
	stranger := &persist.User{ID: "user-9"}

	// No time box on deletion: the comment above is years old.
	assert.True(t, CanDelete(author, c))
	assert.True(t, CanDelete(admin, c))
	assert.False(t, CanDelete(stranger, c))
	assert.False(t, CanDelete(nil, c))
}
