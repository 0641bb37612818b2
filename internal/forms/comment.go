package forms

import (
	"net/url"

	"github.com/VitaminP8/blogicum/models"
)

// CommentForm - единственное поле text
type CommentForm struct {
	Text   string
	Errors Errors
}

func NewCommentForm(c *models.Comment) *CommentForm {
	f := &CommentForm{Errors: Errors{}}
	if c != nil {
		f.Text = c.Text
	}
	return f
}

func BindCommentForm(values url.Values) *CommentForm {
	return &CommentForm{Text: value(values, "text"), Errors: Errors{}}
}

func (f *CommentForm) Validate() bool {
	if f.Text == "" {
		f.Errors.Add("text", msgRequired)
	}
	return f.Errors.Valid()
}
