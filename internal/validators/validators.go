package validators

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validate is shared by usecases that check input outside gin binding.
var Validate = newValidator()

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var ymd = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	register(v)
	return v
}

func register(v *validator.Validate) {
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmm.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return ymd.MatchString(fl.Field().String())
	})
}

var once sync.Once

// RegisterGin adds the custom tags to gin's binding validator so request
// structs can use `binding:"hhmm"` and `binding:"ymd"`.
func RegisterGin() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			register(v)
		}
	})
}
