package dtobind_test

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/reoring/dtobind"
)

type User interface {
	ID() string
	Name() string
	Age() int
	Nickname() dtobind.Optional[*string]
	Mention() string
}

type user struct {
	id       string
	name     string
	age      int
	nickname dtobind.Optional[*string]
}

func newUser(id, name string, age int, nickname dtobind.Optional[*string]) *user {
	return &user{id: id, name: name, age: age, nickname: nickname}
}

func (u *user) ID() string                          { return u.id }
func (u *user) Name() string                        { return u.name }
func (u *user) Age() int                            { return u.age }
func (u *user) Nickname() dtobind.Optional[*string] { return u.nickname }
func (u *user) Mention() string                     { return "@" + u.name }

type userMembers struct {
	ID       dtobind.Member[User, string]
	Name     dtobind.Member[User, string]
	Age      dtobind.Member[User, int]
	Nickname dtobind.Member[User, dtobind.Optional[*string]]
	Mention  dtobind.Member[User, string]
}

func userSchema() (*dtobind.Schema[User, *user], userMembers) {
	s := dtobind.NewSchema[User, *user]()
	m := userMembers{
		ID:       dtobind.Field(s, "ID", User.ID),
		Name:     dtobind.Field(s, "Name", User.Name),
		Age:      dtobind.Field(s, "Age", User.Age),
		Nickname: dtobind.Field(s, "Nickname", User.Nickname),
		Mention:  dtobind.Computed(s, "Mention", User.Mention),
	}
	s.Constructor(newUser, "id", "name", "age", "nickname")
	return s, m
}

func userConverter() *dtobind.Converter[User] {
	s, _ := userSchema()
	return dtobind.Configure(s, nil).MustBuild()
}

func ptr[T any](v T) *T { return &v }

type Team interface {
	Name() string
	Lead() User
	Members() []User
}

type team struct {
	name    string
	lead    User
	members []User
}

func newTeam(name string, lead User, members []User) team {
	return team{name: name, lead: lead, members: members}
}

func (t team) Name() string    { return t.name }
func (t team) Lead() User      { return t.lead }
func (t team) Members() []User { return t.members }

func teamConverter() *dtobind.Converter[Team] {
	opts := dtobind.NewOptions().Use(userConverter())
	s := dtobind.NewSchema[Team, team]()
	dtobind.Field(s, "Name", Team.Name)
	dtobind.Field(s, "Lead", Team.Lead)
	dtobind.Field(s, "Members", Team.Members)
	s.Constructor(newTeam, "name", "lead", "members")
	return dtobind.Configure(s, opts).MustBuild()
}

type Color int

const (
	Red Color = iota
	DarkBlue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case DarkBlue:
		return "DarkBlue"
	}
	return "Color(" + strconv.Itoa(int(c)) + ")"
}

func (Color) EnumValues() []dtobind.Enum { return []dtobind.Enum{Red, DarkBlue} }

type Palette interface {
	Name() string
	Colors() []Color
	Accent() dtobind.Optional[Color]
	Created() time.Time
}

type palette struct {
	name    string
	colors  []Color
	accent  dtobind.Optional[Color]
	created time.Time
}

func newPalette(name string, colors []Color, accent dtobind.Optional[Color], created time.Time) *palette {
	return &palette{name: name, colors: colors, accent: accent, created: created}
}

func (p *palette) Name() string                    { return p.name }
func (p *palette) Colors() []Color                 { return p.colors }
func (p *palette) Accent() dtobind.Optional[Color] { return p.accent }
func (p *palette) Created() time.Time              { return p.created }

type Account interface {
	Email() string
}

type account struct{ email string }

var errNoAt = errors.New("email needs an @")

func newAccount(email string) (*account, error) {
	if !strings.Contains(email, "@") {
		return nil, errNoAt
	}
	return &account{email: email}, nil
}

func (a *account) Email() string { return a.email }

type Tally interface {
	Counts() map[Color]int
}

type tally struct{ counts map[Color]int }

func newTally(counts map[Color]int) *tally { return &tally{counts: counts} }

func (t *tally) Counts() map[Color]int { return t.counts }
