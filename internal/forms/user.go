package forms

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"unicode/utf8"

	"github.com/VitaminP8/blogicum/models"
)

const (
	usernameMaxLength = 150
	nameMaxLength     = 150
	passwordMinLength = 8
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// ProfileForm - редактирование профиля, пароль здесь не меняется
type ProfileForm struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Errors    Errors
}

func NewProfileForm(u *models.User) *ProfileForm {
	return &ProfileForm{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Errors:    Errors{},
	}
}

func BindProfileForm(values url.Values) *ProfileForm {
	return &ProfileForm{
		Username:  value(values, "username"),
		FirstName: value(values, "first_name"),
		LastName:  value(values, "last_name"),
		Email:     value(values, "email"),
		Errors:    Errors{},
	}
}

func (f *ProfileForm) Validate() bool {
	validateUsername(f.Errors, f.Username)

	if utf8.RuneCountInString(f.FirstName) > nameMaxLength {
		f.Errors.Add("first_name", fmt.Sprintf(msgTooLong, nameMaxLength))
	}
	if utf8.RuneCountInString(f.LastName) > nameMaxLength {
		f.Errors.Add("last_name", fmt.Sprintf(msgTooLong, nameMaxLength))
	}
	if f.Email != "" {
		if _, err := mail.ParseAddress(f.Email); err != nil {
			f.Errors.Add("email", "Введите правильный адрес электронной почты.")
		}
	}
	return f.Errors.Valid()
}

// Apply меняет только поля профиля
func (f *ProfileForm) Apply(u *models.User) {
	u.Username = f.Username
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.Email = f.Email
}

type RegistrationForm struct {
	Username  string
	Password1 string
	Password2 string
	Errors    Errors
}

func BindRegistrationForm(values url.Values) *RegistrationForm {
	return &RegistrationForm{
		Username:  value(values, "username"),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
		Errors:    Errors{},
	}
}

func (f *RegistrationForm) Validate() bool {
	validateUsername(f.Errors, f.Username)

	switch {
	case f.Password1 == "":
		f.Errors.Add("password1", msgRequired)
	case utf8.RuneCountInString(f.Password1) < passwordMinLength:
		f.Errors.Add("password1", fmt.Sprintf("Пароль должен содержать как минимум %d символов.", passwordMinLength))
	}
	if f.Password2 != f.Password1 {
		f.Errors.Add("password2", "Введенные пароли не совпадают.")
	}
	return f.Errors.Valid()
}

type LoginForm struct {
	Username string
	Password string
	Errors   Errors
}

func BindLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: value(values, "username"),
		Password: values.Get("password"),
		Errors:   Errors{},
	}
}

func (f *LoginForm) Validate() bool {
	if f.Username == "" {
		f.Errors.Add("username", msgRequired)
	}
	if f.Password == "" {
		f.Errors.Add("password", msgRequired)
	}
	return f.Errors.Valid()
}

func validateUsername(errs Errors, username string) {
	switch {
	case username == "":
		errs.Add("username", msgRequired)
	case utf8.RuneCountInString(username) > usernameMaxLength:
		errs.Add("username", fmt.Sprintf(msgTooLong, usernameMaxLength))
	case !usernamePattern.MatchString(username):
		errs.Add("username", "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_.")
	}
}
