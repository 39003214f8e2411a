package users

import (
	"errors"
	"time"

	guuid "github.com/google/uuid"
)

type User interface {
	ID() guuid.UUID
	Name() string
	Joined() time.Time
	Tags() []string
	Mention() string
	Describe(prefix string) string
}

type user struct {
	id     guuid.UUID
	name   string
	joined time.Time
	tags   []string
}

func NewUser(id guuid.UUID, name string, joined time.Time, tags []string) (*user, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	return &user{id: id, name: name, joined: joined, tags: tags}, nil
}

func anonymous(string) User { return nil }

func (u *user) ID() guuid.UUID                 { return u.id }
func (u *user) Name() string                   { return u.name }
func (u *user) Joined() time.Time              { return u.joined }
func (u *user) Tags() []string                 { return u.tags }
func (u *user) Mention() string                { return "@" + u.name }
func (u *user) Describe(prefix string) string { return prefix + u.name }
